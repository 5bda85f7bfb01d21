package reporter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"jobwatch/internal/config"
	"jobwatch/internal/logging"
	"jobwatch/pkg/models"
)

// DebugReporter persists failure screenshots to disk and forwards the
// accumulated trace to the webhook so a failed run leaves evidence of
// what the browser actually saw.
type DebugReporter struct {
	client        *Client
	screenshotDir string
	logger        logging.Logger

	mu    sync.Mutex
	notes []string
}

// NewDebugReporter creates a debug reporter sharing the webhook client
func NewDebugReporter(client *Client, cfg *config.Config, logger logging.Logger) *DebugReporter {
	return &DebugReporter{
		client:        client,
		screenshotDir: cfg.Debug.ScreenshotDir,
		logger:        logger,
	}
}

// SendDebug saves the trace screenshot and posts the trace text. Delivery
// problems are logged, never escalated, so debugging can't fail a run.
func (d *DebugReporter) SendDebug(ctx context.Context, trace *models.DebugTrace) {
	if trace == nil || !trace.HasMessages() {
		return
	}

	d.mu.Lock()
	d.notes = append(d.notes, fmt.Sprintf("%s: %s", trace.Location, trace.Messages[0]))
	d.mu.Unlock()

	if len(trace.Screenshot) > 0 {
		if path, err := d.saveScreenshot(trace); err != nil {
			d.logger.Warn("Failed to save debug screenshot", map[string]interface{}{
				"location": trace.Location,
				"error":    err.Error(),
			})
		} else {
			d.logger.Info("Debug screenshot saved", map[string]interface{}{
				"location": trace.Location,
				"path":     path,
			})
		}
	}

	message := &webhookMessage{
		Text: fmt.Sprintf("Debug Info for %s", trace.Location),
		Blocks: []block{
			{
				Type: "section",
				Text: &blockText{
					Type: "mrkdwn",
					Text: fmt.Sprintf("*Debug Info - %s*\n%s\n\n_Screenshot shows what the bot sees_",
						trace.Location, trace.Text()),
				},
			},
		},
		Username: "Debug Bot",
	}

	if err := d.client.post(ctx, message); err != nil {
		d.logger.Warn("Failed to send debug info", map[string]interface{}{
			"location": trace.Location,
			"error":    err.Error(),
		})
		return
	}

	d.logger.Info("Debug info sent", map[string]interface{}{
		"location": trace.Location,
	})
}

// Summary returns one line per reported trace, for inclusion in the
// final report when a run comes back empty.
func (d *DebugReporter) Summary() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return strings.Join(d.notes, "\n")
}

// saveScreenshot writes the screenshot bytes under the configured directory
func (d *DebugReporter) saveScreenshot(trace *models.DebugTrace) (string, error) {
	dir := d.screenshotDir
	if dir == "" {
		dir = "screenshots"
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create screenshot directory: %w", err)
	}

	name := fmt.Sprintf("%s_%s.jpg", sanitizeName(trace.Location), time.Now().Format("20060102_150405"))
	path := filepath.Join(dir, name)

	if err := os.WriteFile(path, trace.Screenshot, 0644); err != nil {
		return "", fmt.Errorf("failed to write screenshot: %w", err)
	}

	return path, nil
}

// sanitizeName makes a location string safe for use in a filename
func sanitizeName(location string) string {
	replacer := strings.NewReplacer(" ", "_", "/", "-", ",", "")
	name := replacer.Replace(strings.ToLower(location))
	if name == "" {
		return "unknown"
	}
	return name
}
