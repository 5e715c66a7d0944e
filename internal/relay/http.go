package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"cardlink/internal/domain"
)

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 1 << 20

// HTTP is the JSON-over-HTTP Transport to the relay.
type HTTP struct {
	Base string
	HTTP *http.Client
	log  zerolog.Logger
}

// NewHTTP returns a Transport rooted at base. A nil client means
// http.DefaultClient.
func NewHTTP(base string, hc *http.Client, log zerolog.Logger) *HTTP {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &HTTP{Base: strings.TrimRight(base, "/"), HTTP: hc, log: log}
}

// Exchange POSTs body as JSON to path and returns the raw 2xx response body
// (nil when empty). Non-2xx answers become ServerRejected errors; anything
// that prevents an answer, including timeouts and cancellation, becomes a
// NetworkFailure.
func (c *HTTP) Exchange(ctx context.Context, path string, body any) (json.RawMessage, error) {
	buf := new(bytes.Buffer)
	if err := json.NewEncoder(buf).Encode(body); err != nil {
		return nil, errors.Wrapf(err, "relay %s: encode request", path)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Base+path, buf)
	if err != nil {
		return nil, errors.Wrapf(err, "relay %s: build request", path)
	}
	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	resp, err := c.HTTP.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Str("path", path).Str("request_id", requestID).Msg("relay unreachable")
		return nil, domain.NewNetworkFailure(path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, domain.NewNetworkFailure(path, errors.Wrap(err, "read response"))
	}

	c.log.Debug().
		Str("path", path).
		Str("request_id", requestID).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("relay exchange")

	if resp.StatusCode/100 != 2 {
		return nil, domain.NewServerRejected(path, resp.StatusCode, rejectionText(resp, raw))
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}
	return json.RawMessage(raw), nil
}

// rejectionText prefers the relay's {"error": "..."} text and falls back to
// the HTTP status text.
func rejectionText(resp *http.Response, raw []byte) string {
	var body domain.ErrorResponse
	if err := json.Unmarshal(raw, &body); err == nil && body.Error != "" {
		return body.Error
	}
	if t := http.StatusText(resp.StatusCode); t != "" {
		return t
	}
	return resp.Status
}

// Compile-time assertion that HTTP implements domain.Transport.
var _ domain.Transport = (*HTTP)(nil)
