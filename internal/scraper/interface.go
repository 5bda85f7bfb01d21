package scraper

import (
	"context"

	"jobwatch/internal/scraper/selector"
)

// Session is one live, configured browser context bound to one location's
// pipeline run. The engine only consumes these capabilities; the headed
// implementation lives in engines/headed.
type Session interface {
	// Navigate drives the session to the URL and waits for the load event.
	Navigate(ctx context.Context, url string) error

	// CurrentURL returns the post-navigation URL (redirects included).
	CurrentURL() string

	// Title returns the current page title.
	Title() string

	// HTML returns the full HTML of the current page.
	HTML() (string, error)

	// Fill resolves the chain to an input element and types the value into
	// it, replacing any existing content. Fails when no strategy resolves.
	Fill(ctx context.Context, chain selector.Chain, value string) error

	// Submit resolves the chain to an element and submits the enclosing
	// form by pressing Enter on it.
	Submit(ctx context.Context, chain selector.Chain) error

	// Screenshot captures the current viewport. Best effort: callers treat
	// a failure as "no screenshot", never as a pipeline error.
	Screenshot() ([]byte, error)

	// Close tears down the session's browser resources. Must be invoked
	// exactly once on every pipeline exit path.
	Close() error
}

// SessionFactory builds a fresh session per location. A build failure is
// fatal to that location only, never to the run.
type SessionFactory interface {
	NewSession(ctx context.Context) (Session, error)
}
