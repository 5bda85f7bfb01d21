package indeed

import (
	"strings"

	"jobwatch/internal/logging/types"
	"jobwatch/internal/scraper/selector"
	"jobwatch/pkg/models"
)

// Extractor turns located card elements into listings. Each field resolves
// through its own chain, so a markup change in one field leaves the others
// intact.
type Extractor struct {
	domain   string
	location string
	maxCards int
	logger   types.Logger
}

// NewExtractor creates an extractor for one location's results page.
func NewExtractor(domain, location string, maxCards int, logger types.Logger) *Extractor {
	return &Extractor{
		domain:   domain,
		location: location,
		maxCards: maxCards,
		logger:   logger,
	}
}

// Extract visits at most maxCards cards in document order and returns the
// listings plus the count of cards skipped for an unresolvable title. A
// single card's failure never aborts the remaining cards.
func (e *Extractor) Extract(cards []selector.Element) (models.LocationResult, int) {
	if e.maxCards > 0 && len(cards) > e.maxCards {
		cards = cards[:e.maxCards]
	}

	listings := make(models.LocationResult, 0, len(cards))
	skipped := 0

	for idx, card := range cards {
		listing, ok := e.extractCard(card)
		if !ok {
			skipped++
			e.logger.Debug("Skipping card without resolvable title", map[string]interface{}{
				"location": e.location,
				"card":     idx + 1,
			})
			continue
		}
		listings = append(listings, listing)
	}

	return listings, skipped
}

// extractCard extracts one listing. Title is the only required field; the
// optional fields fall back to their sentinels.
func (e *Extractor) extractCard(card selector.Element) (models.Listing, bool) {
	title, ok := selector.ResolveValue(card, titleChain)
	if !ok {
		return models.Listing{}, false
	}

	listing := models.Listing{
		Title:    strings.TrimSpace(title),
		Company:  models.NotListed,
		Location: e.location,
		Salary:   models.NotListed,
	}

	if company, ok := selector.ResolveValue(card, companyChain); ok {
		listing.Company = strings.TrimSpace(company)
	}

	if jobLocation, ok := selector.ResolveValue(card, locationChain); ok {
		listing.Location = strings.TrimSpace(jobLocation)
	}

	if salary, ok := selector.ResolveValue(card, salaryChain); ok {
		listing.Salary = strings.TrimSpace(salary)
	}

	if jobKey := e.resolveJobKey(card); jobKey != "" {
		listing.Link = BuildJobURL(e.domain, jobKey)
	}

	return listing, true
}

// resolveJobKey reads the listing identifier from the card root first, then
// from the nested title anchor. An absent identifier means no link is
// synthesized.
func (e *Extractor) resolveJobKey(card selector.Element) string {
	if jobKey, ok := card.Attr(jobKeyAttr); ok && strings.TrimSpace(jobKey) != "" {
		return strings.TrimSpace(jobKey)
	}

	if anchor, ok := card.First(titleAnchorCSS); ok {
		if jobKey, ok := anchor.Attr(jobKeyAttr); ok && strings.TrimSpace(jobKey) != "" {
			return strings.TrimSpace(jobKey)
		}
	}

	return ""
}
