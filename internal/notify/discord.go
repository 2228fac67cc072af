package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	colorGreen  = 0x2ECC71 // clean cycle
	colorYellow = 0xF1C40F // stopped early on the daily limit
	colorRed    = 0xE74C3C // category failures
)

// DiscordNotifier implements Notifier via Discord webhook.
type DiscordNotifier struct {
	webhookURL string
	client     *http.Client
}

// NewDiscordNotifier creates a new DiscordNotifier.
func NewDiscordNotifier(webhookURL string, opts ...DiscordOption) *DiscordNotifier {
	d := &DiscordNotifier{
		webhookURL: webhookURL,
		client:     http.DefaultClient,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DiscordOption configures a DiscordNotifier.
type DiscordOption func(*DiscordNotifier)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) DiscordOption {
	return func(d *DiscordNotifier) {
		d.client = c
	}
}

// discordWebhookPayload is the Discord webhook JSON structure.
type discordWebhookPayload struct {
	Embeds []discordEmbed `json:"embeds"`
}

type discordEmbed struct {
	Title       string              `json:"title"`
	Color       int                 `json:"color"`
	Description string              `json:"description,omitempty"`
	Fields      []discordEmbedField `json:"fields,omitempty"`
}

type discordEmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

// SendRefreshReport sends a refresh summary as a Discord embed.
func (d *DiscordNotifier) SendRefreshReport(ctx context.Context, report *RefreshReport) error {
	payload := discordWebhookPayload{
		Embeds: []discordEmbed{buildEmbed(report)},
	}
	return d.post(ctx, payload)
}

func buildEmbed(report *RefreshReport) discordEmbed {
	embed := discordEmbed{
		Title: "Market snapshot refresh",
		Color: reportColor(report),
		Fields: []discordEmbedField{
			{Name: "Refreshed", Value: fmt.Sprintf("%d", report.Refreshed), Inline: true},
			{Name: "Failed", Value: fmt.Sprintf("%d", len(report.Failed)), Inline: true},
			{Name: "Duration", Value: report.Duration.Round(time.Second).String(), Inline: true},
		},
	}

	if len(report.Failed) > 0 {
		// Discord caps field values at 1024 characters; category names are
		// short enough that ten always fit.
		failed := report.Failed
		if len(failed) > 10 {
			failed = failed[:10]
		}
		embed.Description = "Failed categories: " + strings.Join(failed, ", ")
	}

	if report.Stopped {
		embed.Description += "\nStopped early: daily eBay API limit reached."
	}

	return embed
}

func reportColor(report *RefreshReport) int {
	switch {
	case len(report.Failed) > 0:
		return colorRed
	case report.Stopped:
		return colorYellow
	default:
		return colorGreen
	}
}

func (d *DiscordNotifier) post(ctx context.Context, payload discordWebhookPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling discord payload: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		d.webhookURL,
		bytes.NewReader(body),
	)
	if err != nil {
		return fmt.Errorf("creating discord request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("sending discord webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("discord webhook returned status %d: %s", resp.StatusCode, string(respBody))
	}

	return nil
}
