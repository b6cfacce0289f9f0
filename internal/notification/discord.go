// AngelaMos | 2026
// discord.go

package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/tdfclan/portal/internal/config"
)

const discordAPIBase = "https://discord.com/api/v10"

// DiscordClient posts announcements to the configured staff channel.
// Delivery is best-effort: failures are logged, never propagated, so a
// Discord outage cannot fail a portal operation.
type DiscordClient struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	cfg        config.DiscordConfig
	logger     *slog.Logger
}

func NewDiscordClient(
	cfg config.DiscordConfig,
	logger *slog.Logger,
) *DiscordClient {
	return &DiscordClient{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		// Discord allows 5 messages per 5s per channel; stay under it.
		limiter: rate.NewLimiter(rate.Every(1200*time.Millisecond), 2),
		cfg:     cfg,
		logger:  logger,
	}
}

func (c *DiscordClient) Enabled() bool {
	return c.cfg.BotToken != "" && c.cfg.ChannelID != ""
}

func (c *DiscordClient) Announce(ctx context.Context, message string) {
	if !c.Enabled() {
		return
	}

	if !c.limiter.Allow() {
		c.logger.Warn("discord announcement dropped, local rate limit hit")
		return
	}

	if err := c.send(ctx, message); err != nil {
		c.logger.Warn("discord announcement failed", "error", err)
	}
}

func (c *DiscordClient) send(ctx context.Context, message string) error {
	payload, err := json.Marshal(map[string]string{"content": message})
	if err != nil {
		return fmt.Errorf("marshal discord payload: %w", err)
	}

	url := fmt.Sprintf(
		"%s/channels/%s/messages",
		discordAPIBase,
		c.cfg.ChannelID,
	)

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		url,
		bytes.NewReader(payload),
	)
	if err != nil {
		return fmt.Errorf("build discord request: %w", err)
	}

	req.Header.Set("Authorization", "Bot "+c.cfg.BotToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("post discord message: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	if resp.StatusCode >= http.StatusBadRequest {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf(
			"discord returned %d: %s",
			resp.StatusCode,
			string(body),
		)
	}

	return nil
}
