package runner

import (
	"context"
	"time"

	"jobwatch/internal/config"
	"jobwatch/internal/logging"
	"jobwatch/internal/logging/types"
	"jobwatch/internal/scraper"
	"jobwatch/internal/scraper/dom"
	"jobwatch/internal/scraper/indeed"
	"jobwatch/pkg/models"
	"jobwatch/pkg/utils"
)

// DebugSink receives per-location failure diagnostics out of band. Delivery
// is best effort and never blocks the main pipeline.
type DebugSink interface {
	SendDebug(ctx context.Context, trace *models.DebugTrace)
}

// Orchestrator runs the per-location pipeline strictly sequentially: one
// browser session lives at a time, acquired at pipeline start and released on
// every exit path before the next location begins. Concurrency is
// deliberately avoided; parallel sessions widen the detectable-automation
// surface and break rate-limiting discipline.
type Orchestrator struct {
	config   *config.Config
	resolver *indeed.Resolver
	sessions scraper.SessionFactory
	debug    DebugSink
	pacer    *Pacer
	logger   types.Logger
}

// New creates an orchestrator. debug may be nil when no debug channel is
// configured.
func New(cfg *config.Config, resolver *indeed.Resolver, sessions scraper.SessionFactory, debug DebugSink) *Orchestrator {
	return &Orchestrator{
		config:   cfg,
		resolver: resolver,
		sessions: sessions,
		debug:    debug,
		pacer:    NewPacer(cfg.Pacing.RequestsPerMinute, cfg.Pacing.MinDelay, cfg.Pacing.MaxDelay),
		logger:   logging.GetGlobalLogger(),
	}
}

// Run processes every configured location in order and returns the
// accumulated results. Location failures are absorbed into empty results;
// only context cancellation stops the loop early.
func (o *Orchestrator) Run(ctx context.Context) *models.RunResult {
	run := models.NewRunResult()
	locations := o.config.Search.Locations
	started := time.Now()

	o.logger.Info("Starting job search run", map[string]interface{}{
		"job_title": o.config.Search.JobTitle,
		"locations": len(locations),
	})

	for idx, location := range locations {
		o.logger.Info("Processing location", map[string]interface{}{
			"location": location,
			"position": idx + 1,
			"total":    len(locations),
		})

		listings, trace := o.scrapeLocation(ctx, location)
		run.Set(location, listings)

		if trace != nil && trace.HasMessages() && o.debug != nil {
			o.debug.SendDebug(ctx, trace)
		}

		if ctx.Err() != nil {
			o.logger.Warn("Run cancelled, skipping remaining locations", map[string]interface{}{
				"completed": idx + 1,
			})
			break
		}

		if idx < len(locations)-1 {
			if err := o.pacer.Wait(ctx, o.resolver.Resolve(locations[idx+1])); err != nil {
				break
			}
		}
	}

	o.logger.Info("Job search run finished", map[string]interface{}{
		"total_listings":   run.Total(),
		"active_locations": run.ActiveLocations(),
		"elapsed":          utils.FormatDuration(time.Since(started)),
	})

	return run
}

// scrapeLocation is the per-location state machine. Every early exit returns
// a nil listing slice and a populated trace; the deferred close guarantees
// the session is released exactly once on all paths, panics included.
func (o *Orchestrator) scrapeLocation(ctx context.Context, location string) (listings models.LocationResult, trace *models.DebugTrace) {
	trace = models.NewDebugTrace(location)
	domain := o.resolver.Resolve(location)

	session, err := o.sessions.NewSession(ctx)
	if err != nil {
		buildErr := utils.NewSessionBuildError(err.Error())
		trace.Add(buildErr.Error())
		o.logger.Error("Session build failed", map[string]interface{}{
			"location": location,
			"error":    err.Error(),
		})
		return nil, trace
	}
	defer func() {
		if r := recover(); r != nil {
			trace.Addf("unexpected error: %v", r)
			listings = nil
		}
		if err := session.Close(); err != nil {
			o.logger.Warn("Session close reported an error", map[string]interface{}{
				"location": location,
				"error":    err.Error(),
			})
		}
	}()

	navigator := indeed.NewNavigator(
		session,
		indeed.NavStrategy(o.config.Scraper.NavStrategy),
		o.config.Scraper.SettleDelayMin,
		o.config.Scraper.SettleDelayMax,
		o.config.Search.FromAgeDays,
		o.logger,
	)

	currentURL, err := navigator.Go(ctx, domain, o.config.Search.JobTitle, location)
	if err != nil {
		trace.Add(err.Error())
		o.captureScreenshot(session, trace)
		o.logger.Error("Navigation failed", map[string]interface{}{
			"location": location,
			"error":    err.Error(),
		})
		return nil, trace
	}

	if reason, blocked := indeed.CheckBlocked(currentURL, session.Title()); blocked {
		blockErr := utils.NewBlockedError(reason)
		trace.Add(blockErr.Error())
		trace.Addf("URL: %s", currentURL)
		o.captureScreenshot(session, trace)
		o.logger.Warn("Location blocked by bot detection", map[string]interface{}{
			"location": location,
			"url":      currentURL,
		})
		return nil, trace
	}

	html, err := session.HTML()
	if err != nil {
		trace.Add(utils.NewNavigationError(err.Error()).Error())
		o.captureScreenshot(session, trace)
		return nil, trace
	}

	page, err := dom.Parse(html)
	if err != nil {
		trace.Add(utils.NewNavigationError(err.Error()).Error())
		o.captureScreenshot(session, trace)
		return nil, trace
	}

	cards, strategy, found := indeed.LocateCards(page)
	if !found {
		noCards := utils.NewNoCardsError("all card selector strategies exhausted")
		trace.Add(noCards.Error())
		if indeed.ProbeNoResults(page) {
			trace.Add("site shows an explicit 'no jobs found' message")
		}
		trace.Addf("Page title: %s", session.Title())
		trace.Addf("URL: %s", currentURL)
		o.captureScreenshot(session, trace)
		o.logger.Warn("No job cards found", map[string]interface{}{
			"location": location,
			"url":      currentURL,
		})
		return nil, trace
	}

	o.logger.Info("Job cards located", map[string]interface{}{
		"location": location,
		"cards":    len(cards),
		"selector": strategy.Query,
	})

	extractor := indeed.NewExtractor(domain, location, o.config.Search.MaxCardsPerLocation, o.logger)
	listings, skipped := extractor.Extract(cards)
	if skipped > 0 {
		o.logger.Debug("Cards skipped during extraction", map[string]interface{}{
			"location": location,
			"skipped":  skipped,
		})
	}

	o.logger.Info("Location extraction complete", map[string]interface{}{
		"location": location,
		"listings": len(listings),
	})

	return listings, trace
}

// captureScreenshot attaches a best-effort screenshot to the trace. A
// capture failure is swallowed so it cannot mask the original failure.
func (o *Orchestrator) captureScreenshot(session scraper.Session, trace *models.DebugTrace) {
	shot, err := session.Screenshot()
	if err != nil {
		o.logger.Debug("Screenshot capture failed", map[string]interface{}{
			"location": trace.Location,
			"error":    err.Error(),
		})
		return
	}
	trace.Screenshot = shot
}
