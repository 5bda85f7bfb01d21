package indeed

import (
	"context"
	"fmt"
	"time"

	"jobwatch/internal/logging/types"
	"jobwatch/internal/scraper"
	"jobwatch/pkg/utils"
)

// NavStrategy selects how a location's search results are reached.
type NavStrategy string

const (
	// NavDirect navigates straight to a precomputed search-results URL.
	NavDirect NavStrategy = "direct"
	// NavForm drives the landing page's search form interactively.
	NavForm NavStrategy = "form"
)

// Navigator drives a session to a location's results page and waits for
// client-side rendering to settle. The settle wait is a bounded blocking
// delay, not a readiness poll: it always pays the full randomized duration.
type Navigator struct {
	session     scraper.Session
	strategy    NavStrategy
	settleMin   time.Duration
	settleMax   time.Duration
	fromAgeDays int
	logger      types.Logger
}

// NewNavigator creates a navigator bound to one session.
func NewNavigator(session scraper.Session, strategy NavStrategy, settleMin, settleMax time.Duration, fromAgeDays int, logger types.Logger) *Navigator {
	return &Navigator{
		session:     session,
		strategy:    strategy,
		settleMin:   settleMin,
		settleMax:   settleMax,
		fromAgeDays: fromAgeDays,
		logger:      logger,
	}
}

// Go reaches the results page for the search and returns the post-settle
// current URL. The two strategies are mutually exclusive per configuration.
func (n *Navigator) Go(ctx context.Context, domain, jobTitle, location string) (string, error) {
	switch n.strategy {
	case NavForm:
		return n.goForm(ctx, domain, jobTitle, location)
	default:
		return n.goDirect(ctx, domain, jobTitle, location)
	}
}

func (n *Navigator) goDirect(ctx context.Context, domain, jobTitle, location string) (string, error) {
	searchURL := BuildSearchURL(domain, jobTitle, location, n.fromAgeDays)

	n.logger.Info("Navigating to search results", map[string]interface{}{
		"location": location,
		"url":      searchURL,
	})

	if err := n.session.Navigate(ctx, searchURL); err != nil {
		return "", utils.NewNavigationError(err.Error())
	}

	if err := n.settle(ctx); err != nil {
		return "", err
	}

	return n.session.CurrentURL(), nil
}

func (n *Navigator) goForm(ctx context.Context, domain, jobTitle, location string) (string, error) {
	baseURL := BaseURL(domain)

	n.logger.Info("Driving interactive search form", map[string]interface{}{
		"location": location,
		"url":      baseURL,
	})

	if err := n.session.Navigate(ctx, baseURL); err != nil {
		return "", utils.NewNavigationError(err.Error())
	}

	if err := n.settle(ctx); err != nil {
		return "", err
	}

	if err := n.session.Fill(ctx, whatInputChain, jobTitle); err != nil {
		return "", utils.NewNavigationError(fmt.Sprintf("required \"what\" search input not found: %v", err))
	}

	if err := n.session.Fill(ctx, whereInputChain, location); err != nil {
		return "", utils.NewNavigationError(fmt.Sprintf("required \"where\" search input not found: %v", err))
	}

	if err := n.session.Submit(ctx, whereInputChain); err != nil {
		return "", utils.NewNavigationError(fmt.Sprintf("failed to submit search form: %v", err))
	}

	if err := n.settle(ctx); err != nil {
		return "", err
	}

	return n.session.CurrentURL(), nil
}

// settle pays the bounded rendering delay in full.
func (n *Navigator) settle(ctx context.Context) error {
	slept, err := utils.RandomSleep(ctx, n.settleMin, n.settleMax)
	if err != nil {
		return utils.NewNavigationError(fmt.Sprintf("settle wait interrupted: %v", err))
	}

	n.logger.Debug("Settle delay elapsed", map[string]interface{}{
		"waited": utils.FormatDuration(slept),
	})
	return nil
}
