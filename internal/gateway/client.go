package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/frahmantamala/school-payments/internal"
)

// verifySignTTL bounds the status-lookup token lifetime.
const verifySignTTL = time.Hour

// Client talks to the collect-request gateway. It holds no state beyond its
// injected configuration; each call is a single signed HTTP attempt with a
// client-side timeout. Retries are the caller's concern.
type Client struct {
	httpClient *http.Client
	cfg        internal.GatewayConfig
	logger     *slog.Logger
}

func NewClient(cfg internal.GatewayConfig, logger *slog.Logger) *Client {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		cfg:        cfg,
		logger:     logger,
	}
}

// CreateCollectRequest registers a collection intent with the gateway and
// returns its request id plus the payable URL. The payload carries the
// configured merchant school id, not the school id on the order.
func (c *Client) CreateCollectRequest(ctx context.Context, amount string, callbackURL string) (*CollectResponse, error) {
	sign, err := c.signCollectPayload(amount, callbackURL)
	if err != nil {
		return nil, &Error{Op: "create-collect-request", Cause: err}
	}

	body := map[string]string{
		"school_id":    c.cfg.MerchantSchoolID,
		"amount":       amount,
		"callback_url": callbackURL,
		"sign":         sign,
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, &Error{Op: "create-collect-request", Cause: err}
	}

	endpoint := c.cfg.BaseURL + "/erp/create-collect-request"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(string(payload)))
	if err != nil {
		return nil, &Error{Op: "create-collect-request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+strings.TrimSpace(c.cfg.APIKey))

	c.logger.Info("sending create-collect-request",
		"endpoint", endpoint,
		"amount", amount)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &Error{Op: "create-collect-request", Cause: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Op: "create-collect-request", Cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Error("gateway rejected create-collect-request",
			"status", resp.StatusCode,
			"body", string(respBody))
		return nil, &Error{Op: "create-collect-request", StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	var collect CollectResponse
	if err := json.Unmarshal(respBody, &collect); err != nil {
		return nil, &Error{Op: "create-collect-request", Cause: fmt.Errorf("decode response: %w", err)}
	}

	if collect.CollectRequestID == "" {
		return nil, &Error{Op: "create-collect-request", Cause: fmt.Errorf("response missing collect_request_id")}
	}

	c.logger.Info("collect request created",
		"collect_request_id", collect.CollectRequestID)

	return &collect, nil
}

// GetCollectStatus fetches the gateway's current view of one collection
// request. Nothing is mutated here; mapping the report into local state is
// the orchestrator's job.
func (c *Client) GetCollectStatus(ctx context.Context, collectRequestID string) (*CollectStatus, error) {
	sign, err := c.signStatusLookup(collectRequestID)
	if err != nil {
		return nil, &Error{Op: "collect-request-status", Cause: err}
	}

	endpoint := fmt.Sprintf("%s/erp/collect-request/%s", c.cfg.BaseURL, url.PathEscape(collectRequestID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &Error{Op: "collect-request-status", Cause: err}
	}

	q := req.URL.Query()
	q.Set("school_id", c.cfg.MerchantSchoolID)
	q.Set("sign", sign)
	req.URL.RawQuery = q.Encode()

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+strings.TrimSpace(c.cfg.APIKey))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &Error{Op: "collect-request-status", Cause: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Op: "collect-request-status", Cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Error("gateway rejected status lookup",
			"status", resp.StatusCode,
			"collect_request_id", collectRequestID,
			"body", string(respBody))
		return nil, &Error{Op: "collect-request-status", StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	var status CollectStatus
	if err := json.Unmarshal(respBody, &status); err != nil {
		return nil, &Error{Op: "collect-request-status", Cause: fmt.Errorf("decode response: %w", err)}
	}

	return &status, nil
}

// signCollectPayload signs the exact fields the gateway will re-verify on the
// create call. The signing secret is the gateway-shared key, unrelated to the
// inbound API's token secrets.
func (c *Client) signCollectPayload(amount, callbackURL string) (string, error) {
	claims := jwt.MapClaims{
		"school_id":    c.cfg.MerchantSchoolID,
		"amount":       amount,
		"callback_url": callbackURL,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(c.cfg.SigningSecret))
}

func (c *Client) signStatusLookup(collectRequestID string) (string, error) {
	claims := jwt.MapClaims{
		"school_id":          c.cfg.MerchantSchoolID,
		"collect_request_id": collectRequestID,
		"exp":                time.Now().Add(verifySignTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(c.cfg.SigningSecret))
}
