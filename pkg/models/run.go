package models

// RunResult maps each configured location to its extracted listings,
// preserving the configured location order. It is built incrementally by the
// orchestrator and handed to the reporter exactly once at run end.
type RunResult struct {
	order   []string
	results map[string]LocationResult
}

// NewRunResult creates an empty run result.
func NewRunResult() *RunResult {
	return &RunResult{
		results: make(map[string]LocationResult),
	}
}

// Set records the result for a location. First insertion fixes the location's
// position in the iteration order; setting again replaces the listings.
func (r *RunResult) Set(location string, listings LocationResult) {
	if _, exists := r.results[location]; !exists {
		r.order = append(r.order, location)
	}
	r.results[location] = listings
}

// Get returns the listings recorded for a location.
func (r *RunResult) Get(location string) LocationResult {
	return r.results[location]
}

// Locations returns the locations in insertion order.
func (r *RunResult) Locations() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Total returns the number of listings across all locations.
func (r *RunResult) Total() int {
	total := 0
	for _, listings := range r.results {
		total += len(listings)
	}
	return total
}

// ActiveLocations returns how many locations yielded at least one listing.
func (r *RunResult) ActiveLocations() int {
	active := 0
	for _, listings := range r.results {
		if len(listings) > 0 {
			active++
		}
	}
	return active
}
