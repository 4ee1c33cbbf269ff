package health

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mroshb/quiz_bot/pkg/logger"
)

// KeepAlive requests baseURL/health on a fixed interval.
type KeepAlive struct {
	url      string
	interval time.Duration
	client   *http.Client
}

func NewKeepAlive(baseURL string, interval time.Duration) *KeepAlive {
	return &KeepAlive{
		url:      strings.TrimRight(baseURL, "/") + "/health",
		interval: interval,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

// Run pings until ctx is done. The first ping happens one interval after start.
func (k *KeepAlive) Run(ctx context.Context) {
	if k.interval <= 0 {
		return
	}

	ticker := time.NewTicker(k.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := k.Ping(ctx); err != nil {
				logger.Warn("Keep-alive ping failed", "url", k.url, "error", err)
			}
		}
	}
}

func (k *KeepAlive) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, k.url, nil)
	if err != nil {
		return fmt.Errorf("build keep-alive request: %w", err)
	}

	resp, err := k.client.Do(req)
	if err != nil {
		return fmt.Errorf("keep-alive request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("keep-alive got status %d", resp.StatusCode)
	}

	logger.Debug("Keep-alive ping sent", "status", resp.StatusCode)
	return nil
}
