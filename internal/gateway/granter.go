package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/Toidicodedao69/VAIT-Hackathon/internal/domain"
)

// HTTPGranter dispatches role-grant requests to the platform bridge as
// JSON webhooks. Fire-and-forget: a 2xx acknowledges receipt, any
// asynchronous failure is the bridge's to report.
type HTTPGranter struct {
	endpoint string
	client   *http.Client
}

func NewHTTPGranter(endpoint string, timeout time.Duration) *HTTPGranter {
	return &HTTPGranter{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

func (g *HTTPGranter) Grant(ctx context.Context, req domain.GrantRequest) error {
	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("encode grant %s: %w", req.DeliveryID, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build grant request %s: %w", req.DeliveryID, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("dispatch grant %s: %w", req.DeliveryID, err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("dispatch grant %s: bridge returned %d", req.DeliveryID, resp.StatusCode)
	}
	return nil
}

// LogGranter records grants without dispatching them. Used when no
// bridge endpoint is configured.
type LogGranter struct {
	log *slog.Logger
}

func NewLogGranter(log *slog.Logger) *LogGranter {
	if log == nil {
		log = slog.Default()
	}
	return &LogGranter{log: log}
}

func (g *LogGranter) Grant(_ context.Context, req domain.GrantRequest) error {
	g.log.Info("role grant (dry run, no bridge endpoint)",
		"delivery_id", req.DeliveryID,
		"community_id", req.CommunityID,
		"user_id", req.UserID,
		"role", req.RoleName)
	return nil
}
