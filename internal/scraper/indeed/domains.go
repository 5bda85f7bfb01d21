package indeed

import (
	"fmt"
	"net/url"
	"strings"
)

// DefaultDomain is used when no configured mapping matches a location.
const DefaultDomain = "www.indeed.com"

// DomainPair maps a location substring key to an Indeed country domain.
type DomainPair struct {
	Key    string
	Domain string
}

// Resolver maps location strings onto Indeed country domains via
// case-insensitive substring containment, in configured order. It is a total
// function: any input, including the empty string, resolves to some domain.
type Resolver struct {
	pairs         []DomainPair
	defaultDomain string
}

// NewResolver creates a resolver over the given ordered pairs. An empty
// defaultDomain falls back to DefaultDomain.
func NewResolver(pairs []DomainPair, defaultDomain string) *Resolver {
	if defaultDomain == "" {
		defaultDomain = DefaultDomain
	}
	return &Resolver{pairs: pairs, defaultDomain: defaultDomain}
}

// Resolve returns the domain of the first configured key contained in the
// lowered location string, or the default domain.
func (r *Resolver) Resolve(location string) string {
	lowered := strings.ToLower(location)
	for _, pair := range r.pairs {
		if strings.Contains(lowered, pair.Key) {
			return pair.Domain
		}
	}
	return r.defaultDomain
}

// ParseMappings parses "country:domain" entries into ordered pairs. Keys are
// lower-cased; entries without a colon are skipped.
func ParseMappings(mappings []string) []DomainPair {
	pairs := make([]DomainPair, 0, len(mappings))
	for _, mapping := range mappings {
		key, domain, found := strings.Cut(mapping, ":")
		if !found {
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		domain = strings.TrimSpace(domain)
		if key == "" || domain == "" {
			continue
		}
		pairs = append(pairs, DomainPair{Key: key, Domain: domain})
	}
	return pairs
}

// BuildSearchURL builds a direct search-results URL in Indeed's format,
// sorted by date and restricted to postings from the last fromAgeDays days.
func BuildSearchURL(domain, jobTitle, location string, fromAgeDays int) string {
	return fmt.Sprintf("https://%s/jobs?q=%s&l=%s&sort=date&fromage=%d",
		domain,
		url.QueryEscape(jobTitle),
		url.QueryEscape(location),
		fromAgeDays,
	)
}

// BuildJobURL builds the canonical view URL for a listing identifier.
func BuildJobURL(domain, jobKey string) string {
	return fmt.Sprintf("https://%s/viewjob?jk=%s", domain, url.QueryEscape(jobKey))
}

// BaseURL returns the domain's landing page, the entry point for the
// interactive search-form flow.
func BaseURL(domain string) string {
	return "https://" + domain + "/"
}
