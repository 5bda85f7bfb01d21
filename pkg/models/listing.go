package models

// NotListed is the sentinel for optional listing fields that could not be
// resolved from the page.
const NotListed = "Not listed"

// Listing represents one structured job record extracted from a results page.
// Title is always non-empty; a card without a resolvable title is discarded
// before a Listing is ever created. Link is empty when the site's job
// identifier attribute was absent from the card.
type Listing struct {
	Title    string `json:"title"`
	Company  string `json:"company"`
	Location string `json:"location"`
	Salary   string `json:"salary"`
	Link     string `json:"link,omitempty"`
}

// LocationResult is the ordered sequence of listings extracted for a single
// configured location. It is frozen once the location's pipeline completes.
type LocationResult []Listing
