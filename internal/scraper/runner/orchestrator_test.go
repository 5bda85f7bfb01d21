package runner

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobwatch/internal/config"
	"jobwatch/internal/scraper"
	"jobwatch/internal/scraper/indeed"
	"jobwatch/internal/scraper/selector"
	"jobwatch/pkg/models"
)

const londonHTML = `
<ul>
  <li>
    <div class="job_seen_beacon" data-jk="ldn-1">
      <h2 class="jobTitle"><a><span title="Go Developer">Go Developer</span></a></h2>
      <span data-testid="company-name">Acme Ltd</span>
      <div data-testid="text-location">London</div>
    </div>
  </li>
  <li>
    <div class="job_seen_beacon" data-jk="ldn-2">
      <h2 class="jobTitle"><a><span title="Platform Engineer">Platform Engineer</span></a></h2>
      <span data-testid="company-name">Beta Corp</span>
    </div>
  </li>
  <li>
    <div class="job_seen_beacon">
      <span data-testid="company-name">No Title Inc</span>
    </div>
  </li>
</ul>
`

// scriptedSession is a canned browser session for one location.
type scriptedSession struct {
	currentURL string
	title      string
	html       string
	htmlErr    error
	htmlPanics bool

	htmlCalls  int
	closeCalls int
}

func (s *scriptedSession) Navigate(_ context.Context, url string) error {
	if s.currentURL == "" {
		s.currentURL = url
	}
	return nil
}

func (s *scriptedSession) CurrentURL() string { return s.currentURL }
func (s *scriptedSession) Title() string      { return s.title }

func (s *scriptedSession) HTML() (string, error) {
	s.htmlCalls++
	if s.htmlPanics {
		panic("renderer crashed")
	}
	return s.html, s.htmlErr
}

func (s *scriptedSession) Fill(_ context.Context, _ selector.Chain, _ string) error { return nil }
func (s *scriptedSession) Submit(_ context.Context, _ selector.Chain) error         { return nil }

func (s *scriptedSession) Screenshot() ([]byte, error) { return []byte{0xff, 0xd8}, nil }

func (s *scriptedSession) Close() error {
	s.closeCalls++
	return nil
}

// scriptedFactory hands out sessions in order, one per location.
type scriptedFactory struct {
	sessions []*scriptedSession
	errs     []error
	next     int
}

func (f *scriptedFactory) NewSession(_ context.Context) (scraper.Session, error) {
	idx := f.next
	f.next++
	if idx < len(f.errs) && f.errs[idx] != nil {
		return nil, f.errs[idx]
	}
	return f.sessions[idx], nil
}

// recordingSink captures every trace the orchestrator reports.
type recordingSink struct {
	traces []*models.DebugTrace
}

func (r *recordingSink) SendDebug(_ context.Context, trace *models.DebugTrace) {
	r.traces = append(r.traces, trace)
}

func testConfig(locations ...string) *config.Config {
	cfg := &config.Config{}
	cfg.Search.JobTitle = "go developer"
	cfg.Search.Locations = locations
	cfg.Search.MaxCardsPerLocation = 10
	cfg.Search.FromAgeDays = 7
	cfg.Scraper.NavStrategy = "direct"
	return cfg
}

func newTestOrchestrator(cfg *config.Config, factory *scriptedFactory, sink *recordingSink) *Orchestrator {
	resolver := indeed.NewResolver(indeed.ParseMappings([]string{
		"uk:uk.indeed.com",
		"france:fr.indeed.com",
	}), "www.indeed.com")
	return New(cfg, resolver, factory, sink)
}

func TestRunMixedOutcome(t *testing.T) {
	london := &scriptedSession{
		title: "Go Developer Jobs in London",
		html:  londonHTML,
	}
	paris := &scriptedSession{
		currentURL: "https://fr.indeed.com/showcaptcha?redirect=jobs",
		title:      "Indeed",
	}

	factory := &scriptedFactory{sessions: []*scriptedSession{london, paris}}
	sink := &recordingSink{}
	orch := newTestOrchestrator(testConfig("London, UK", "Paris, France"), factory, sink)

	run := orch.Run(context.Background())

	// Both locations are present, in configured order.
	assert.Equal(t, []string{"London, UK", "Paris, France"}, run.Locations())

	londonListings := run.Get("London, UK")
	require.Len(t, londonListings, 2)
	assert.Equal(t, "Go Developer", londonListings[0].Title)
	assert.Equal(t, "https://uk.indeed.com/viewjob?jk=ldn-1", londonListings[0].Link)
	assert.Equal(t, "Platform Engineer", londonListings[1].Title)

	assert.Empty(t, run.Get("Paris, France"))
	assert.Equal(t, 2, run.Total())
	assert.Equal(t, 1, run.ActiveLocations())

	// Blocked detection fires before any HTML is requested.
	assert.Equal(t, 0, paris.htmlCalls)

	// One session per location, each closed exactly once.
	assert.Equal(t, 1, london.closeCalls)
	assert.Equal(t, 1, paris.closeCalls)

	// Only the failed location produced a trace, and it carries the
	// screenshot evidence.
	require.Len(t, sink.traces, 1)
	assert.Equal(t, "Paris, France", sink.traces[0].Location)
	assert.NotEmpty(t, sink.traces[0].Screenshot)
}

func TestRunSessionBuildFailureDoesNotStopRun(t *testing.T) {
	berlin := &scriptedSession{
		title: "Jobs in Berlin",
		html:  londonHTML,
	}

	factory := &scriptedFactory{
		sessions: []*scriptedSession{nil, berlin},
		errs:     []error{errors.New("chrome binary not found"), nil},
	}
	sink := &recordingSink{}
	orch := newTestOrchestrator(testConfig("London, UK", "Berlin, Germany"), factory, sink)

	run := orch.Run(context.Background())

	assert.Empty(t, run.Get("London, UK"))
	assert.Len(t, run.Get("Berlin, Germany"), 2)

	require.GreaterOrEqual(t, len(sink.traces), 1)
	assert.Equal(t, "London, UK", sink.traces[0].Location)
}

func TestRunNoCardsRecordsDiagnostics(t *testing.T) {
	empty := &scriptedSession{
		title: "Engineer Jobs",
		html: `<div class="jobsearch-NoResult-messageHeader">
			The search did not match any jobs.
		</div>`,
	}

	factory := &scriptedFactory{sessions: []*scriptedSession{empty}}
	sink := &recordingSink{}
	orch := newTestOrchestrator(testConfig("Nowhere"), factory, sink)

	run := orch.Run(context.Background())

	assert.Zero(t, run.Total())
	assert.Equal(t, 1, empty.closeCalls)

	require.Len(t, sink.traces, 1)
	text := sink.traces[0].Text()
	assert.Contains(t, text, "No job cards found")
	assert.Contains(t, text, "no jobs found")
}

func TestRunRecoversFromPanic(t *testing.T) {
	crashing := &scriptedSession{
		title:      "Jobs",
		htmlPanics: true,
	}
	healthy := &scriptedSession{
		title: "Jobs in Berlin",
		html:  londonHTML,
	}

	factory := &scriptedFactory{sessions: []*scriptedSession{crashing, healthy}}
	sink := &recordingSink{}
	orch := newTestOrchestrator(testConfig("London, UK", "Berlin, Germany"), factory, sink)

	run := orch.Run(context.Background())

	// The panic is contained to its location; the session is still
	// released and the run continues.
	assert.Empty(t, run.Get("London, UK"))
	assert.Equal(t, 1, crashing.closeCalls)
	assert.Len(t, run.Get("Berlin, Germany"), 2)
}

func TestRunStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	session := &scriptedSession{title: "Jobs", html: londonHTML}
	factory := &scriptedFactory{sessions: []*scriptedSession{session, session}}
	orch := newTestOrchestrator(testConfig("London, UK", "Paris, France"), factory, &recordingSink{})

	run := orch.Run(ctx)

	// The first location still reports (possibly empty); the loop must
	// not reach the second.
	assert.LessOrEqual(t, len(run.Locations()), 1)
	assert.Less(t, factory.next, 2)
}
