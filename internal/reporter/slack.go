package reporter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"jobwatch/internal/config"
	"jobwatch/internal/logging"
	"jobwatch/pkg/models"
	"jobwatch/pkg/utils"
)

const defaultUsername = "Job Alert Bot"

// Client delivers run results to a Slack incoming webhook.
type Client struct {
	webhookURL string
	username   string
	httpClient *http.Client
	logger     logging.Logger
}

// NewClient creates a new Slack webhook client
func NewClient(cfg *config.Config, logger logging.Logger) *Client {
	timeout := cfg.Slack.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	username := cfg.Slack.Username
	if username == "" {
		username = defaultUsername
	}

	return &Client{
		webhookURL: cfg.Slack.WebhookURL,
		username:   username,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// block is a single Slack Block Kit block.
type block struct {
	Type      string     `json:"type"`
	Text      *blockText `json:"text,omitempty"`
	Accessory *accessory `json:"accessory,omitempty"`
}

type blockText struct {
	Type  string `json:"type"`
	Text  string `json:"text"`
	Emoji bool   `json:"emoji,omitempty"`
}

type accessory struct {
	Type     string     `json:"type"`
	Text     *blockText `json:"text"`
	URL      string     `json:"url"`
	ActionID string     `json:"action_id"`
}

type webhookMessage struct {
	Text     string  `json:"text,omitempty"`
	Blocks   []block `json:"blocks,omitempty"`
	Username string  `json:"username"`
}

// SendReport posts the run results to the webhook. When the run found
// nothing, a plain-text message carrying the accumulated debug notes is
// sent instead of the block layout.
func (c *Client) SendReport(ctx context.Context, run *models.RunResult, debugInfo string) error {
	total := run.Total()

	if total == 0 {
		text := "No matching results found."
		if debugInfo != "" {
			text += fmt.Sprintf("\n\n*Debug Information:*\n%s", debugInfo)
		}

		return c.post(ctx, &webhookMessage{
			Text:     text,
			Username: c.username,
		})
	}

	message := &webhookMessage{
		Blocks:   c.buildBlocks(run, total),
		Username: c.username,
	}

	if err := c.post(ctx, message); err != nil {
		return err
	}

	c.logger.Info("Notification sent", map[string]interface{}{
		"total_jobs": total,
		"locations":  len(run.Locations()),
	})

	return nil
}

// buildBlocks renders the Block Kit layout for a run with results
func (c *Client) buildBlocks(run *models.RunResult, total int) []block {
	blocks := []block{
		{
			Type: "header",
			Text: &blockText{
				Type:  "plain_text",
				Text:  fmt.Sprintf("%d Jobs Found", total),
				Emoji: true,
			},
		},
		{
			Type: "section",
			Text: &blockText{
				Type: "mrkdwn",
				Text: fmt.Sprintf("_Updated: %s_", time.Now().UTC().Format("2006-01-02 15:04 UTC")),
			},
		},
		{Type: "divider"},
	}

	jobNumber := 1
	for _, location := range run.Locations() {
		listings := run.Get(location)
		if len(listings) > 0 {
			blocks = append(blocks, block{
				Type: "section",
				Text: &blockText{
					Type: "mrkdwn",
					Text: fmt.Sprintf("*%s* - %d jobs", location, len(listings)),
				},
			})
		}

		for _, listing := range listings {
			jobBlock := block{
				Type: "section",
				Text: &blockText{
					Type: "mrkdwn",
					Text: fmt.Sprintf("*%d. %s*\n%s\n%s\n%s",
						jobNumber, listing.Title, listing.Company, listing.Location, listing.Salary),
				},
			}

			if listing.Link != "" {
				jobBlock.Accessory = &accessory{
					Type:     "button",
					Text:     &blockText{Type: "plain_text", Text: "Apply", Emoji: true},
					URL:      listing.Link,
					ActionID: fmt.Sprintf("button_%d", jobNumber),
				}
			}

			blocks = append(blocks, jobBlock)
			jobNumber++
		}
	}

	blocks = append(blocks, block{Type: "divider"})
	blocks = append(blocks, block{
		Type: "section",
		Text: &blockText{
			Type: "mrkdwn",
			Text: fmt.Sprintf("*Total: %d jobs across %d locations*", total, run.ActiveLocations()),
		},
	})

	return blocks
}

// post serializes and delivers a single webhook message
func (c *Client) post(ctx context.Context, message *webhookMessage) error {
	payload, err := json.Marshal(message)
	if err != nil {
		return utils.NewNotificationError(fmt.Sprintf("failed to encode webhook payload: %v", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(payload))
	if err != nil {
		return utils.NewNotificationError(fmt.Sprintf("failed to build webhook request: %v", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return utils.NewNotificationError(fmt.Sprintf("webhook request failed: %v", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return utils.NewNotificationError(fmt.Sprintf("webhook returned status %d", resp.StatusCode))
	}

	return nil
}
