package webhook

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// maxResponseBody bounds how much of the merchant's response is recorded.
const maxResponseBody = 1000

// Result is the outcome of one delivery attempt. A network failure maps to
// StatusCode 0.
type Result struct {
	Success    bool
	StatusCode int
	Body       string
}

// Sender posts signed webhook payloads to merchant endpoints.
type Sender struct {
	client *http.Client
	logger *zap.Logger
}

// NewSender creates a sender with the given request timeout.
func NewSender(timeout time.Duration, logger *zap.Logger) *Sender {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Sender{
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

// Deliver signs body with secret and posts it to url. Any 2xx response is
// success; everything else, including transport errors, is failure.
func (s *Sender) Deliver(ctx context.Context, url, secret string, body []byte) Result {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return Result{Success: false, StatusCode: 0, Body: err.Error()}
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(SignatureHeader, Sign(body, secret))

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Warn("webhook delivery transport error",
			zap.String("url", url),
			zap.Error(err))
		return Result{Success: false, StatusCode: 0, Body: truncate(err.Error())}
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody+1))

	return Result{
		Success:    resp.StatusCode >= 200 && resp.StatusCode < 300,
		StatusCode: resp.StatusCode,
		Body:       truncate(string(respBody)),
	}
}

func truncate(s string) string {
	if len(s) > maxResponseBody {
		return s[:maxResponseBody]
	}
	return s
}
