package reporter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobwatch/internal/config"
	"jobwatch/internal/logging"
	"jobwatch/pkg/models"
	"jobwatch/pkg/utils"
)

type capturedPayload struct {
	Text     string `json:"text"`
	Username string `json:"username"`
	Blocks   []struct {
		Type string `json:"type"`
		Text *struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"text"`
		Accessory *struct {
			Type     string `json:"type"`
			URL      string `json:"url"`
			ActionID string `json:"action_id"`
		} `json:"accessory"`
	} `json:"blocks"`
}

func newTestClient(t *testing.T, status int) (*Client, *capturedPayload) {
	t.Helper()

	payload := &capturedPayload{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(payload))
		w.WriteHeader(status)
	}))
	t.Cleanup(server.Close)

	cfg := &config.Config{}
	cfg.Slack.WebhookURL = server.URL
	cfg.Slack.Username = "Job Alert Bot"

	return NewClient(cfg, logging.GetGlobalLogger()), payload
}

func sampleRun() *models.RunResult {
	run := models.NewRunResult()
	run.Set("London, UK", models.LocationResult{
		{
			Title:    "Go Developer",
			Company:  "Acme Ltd",
			Location: "London",
			Salary:   "£70,000 a year",
			Link:     "https://uk.indeed.com/viewjob?jk=abc",
		},
		{
			Title:    "Platform Engineer",
			Company:  models.NotListed,
			Location: "London",
			Salary:   models.NotListed,
		},
	})
	run.Set("Paris, France", nil)
	return run
}

func TestSendReportBlocks(t *testing.T) {
	client, payload := newTestClient(t, http.StatusOK)

	err := client.SendReport(context.Background(), sampleRun(), "")
	require.NoError(t, err)

	assert.Equal(t, "Job Alert Bot", payload.Username)
	require.NotEmpty(t, payload.Blocks)

	header := payload.Blocks[0]
	assert.Equal(t, "header", header.Type)
	assert.Equal(t, "2 Jobs Found", header.Text.Text)

	// Location heading appears only for locations with results.
	var sections []string
	for _, b := range payload.Blocks {
		if b.Text != nil {
			sections = append(sections, b.Text.Text)
		}
	}
	joined := ""
	for _, s := range sections {
		joined += s + "\n"
	}
	assert.Contains(t, joined, "*London, UK* - 2 jobs")
	assert.NotContains(t, joined, "Paris")
	assert.Contains(t, joined, "*Total: 2 jobs across 1 locations*")

	// Linked listing carries an Apply button, the link-less one doesn't.
	var withButton, withoutButton int
	for _, b := range payload.Blocks {
		if b.Text == nil || b.Type != "section" {
			continue
		}
		if b.Accessory != nil {
			withButton++
			assert.Equal(t, "button", b.Accessory.Type)
			assert.Equal(t, "https://uk.indeed.com/viewjob?jk=abc", b.Accessory.URL)
		} else {
			withoutButton++
		}
	}
	assert.Equal(t, 1, withButton)
	assert.GreaterOrEqual(t, withoutButton, 1)
}

func TestSendReportZeroResults(t *testing.T) {
	client, payload := newTestClient(t, http.StatusOK)

	run := models.NewRunResult()
	run.Set("London, UK", nil)

	err := client.SendReport(context.Background(), run, "London, UK: bot detection triggered")
	require.NoError(t, err)

	assert.Empty(t, payload.Blocks)
	assert.Contains(t, payload.Text, "No matching results found.")
	assert.Contains(t, payload.Text, "*Debug Information:*")
	assert.Contains(t, payload.Text, "bot detection triggered")
}

func TestSendReportZeroResultsWithoutDebugInfo(t *testing.T) {
	client, payload := newTestClient(t, http.StatusOK)

	err := client.SendReport(context.Background(), models.NewRunResult(), "")
	require.NoError(t, err)

	assert.Equal(t, "No matching results found.", payload.Text)
}

func TestSendReportWebhookFailure(t *testing.T) {
	client, _ := newTestClient(t, http.StatusForbidden)

	err := client.SendReport(context.Background(), sampleRun(), "")
	require.Error(t, err)
	assert.True(t, utils.IsKind(err, utils.KindNotification))
}

func TestDebugReporterSummaryAccumulates(t *testing.T) {
	client, payload := newTestClient(t, http.StatusOK)

	cfg := &config.Config{}
	cfg.Debug.ScreenshotDir = t.TempDir()

	debug := NewDebugReporter(client, cfg, logging.GetGlobalLogger())

	trace := models.NewDebugTrace("Paris, France")
	trace.Add("Bot detection triggered: URL contains \"showcaptcha\"")
	debug.SendDebug(context.Background(), trace)

	assert.Contains(t, payload.Text, "Debug Info for Paris, France")
	assert.Contains(t, debug.Summary(), "Paris, France: Bot detection triggered")
}

func TestDebugReporterIgnoresEmptyTraces(t *testing.T) {
	client, payload := newTestClient(t, http.StatusOK)

	cfg := &config.Config{}
	debug := NewDebugReporter(client, cfg, logging.GetGlobalLogger())

	debug.SendDebug(context.Background(), models.NewDebugTrace("London, UK"))
	debug.SendDebug(context.Background(), nil)

	assert.Empty(t, payload.Text)
	assert.Empty(t, debug.Summary())
}
