package funnel

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/creatorhub/apply-api/pkg/circuitbreaker"
	"github.com/creatorhub/apply-api/pkg/httpclient"
	"github.com/creatorhub/apply-api/pkg/metrics"
	"github.com/sony/gobreaker"
)

// EventFormSubmitted is the only event type the funnel bot consumes.
const EventFormSubmitted = "form_submitted"

// SignatureHeader carries the HMAC of the request body.
const SignatureHeader = "X-Signature-256"

// Event is the payload POSTed to the funnel bot. The field order is
// fixed: the marshalled bytes are what gets signed, so the receiver
// can recompute the same signature.
type Event struct {
	ChatID    string `json:"chat_id"`
	Event     string `json:"event"`
	FirstName string `json:"firstName"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
}

// Notifier delivers best-effort submission events to the funnel bot.
// Calls are wrapped in a circuit breaker so a dead funnel service
// stops costing a full timeout per submission.
type Notifier struct {
	submitURL     string
	signingSecret string
	httpClient    httpclient.Client
	breaker       *gobreaker.CircuitBreaker
}

// NewNotifier creates a funnel notifier. An empty submitURL turns
// every Notify call into a no-op.
func NewNotifier(submitURL, signingSecret string, httpClient httpclient.Client) *Notifier {
	return &Notifier{
		submitURL:     submitURL,
		signingSecret: signingSecret,
		httpClient:    httpClient,
		breaker:       circuitbreaker.NewCircuitBreaker(circuitbreaker.DefaultConfig("funnel-webhook")),
	}
}

// Notify posts a signed form_submitted event for the given correlation
// chat id. No-op when no chat id was submitted or no URL is
// configured; that is not an error.
func (n *Notifier) Notify(ctx context.Context, chatID, firstName, phone, email string) error {
	chatID = strings.TrimSpace(chatID)
	if chatID == "" || n.submitURL == "" {
		return nil
	}

	body, err := json.Marshal(Event{
		ChatID:    chatID,
		Event:     EventFormSubmitted,
		FirstName: firstName,
		Phone:     phone,
		Email:     email,
	})
	if err != nil {
		return fmt.Errorf("failed to encode funnel event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.submitURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create funnel request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if n.signingSecret != "" {
		req.Header.Set(SignatureHeader, Sign(n.signingSecret, body))
	}

	_, err = circuitbreaker.Execute(n.breaker, func() (struct{}, error) {
		resp, err := n.httpClient.Do(req)
		if err != nil {
			return struct{}{}, err
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return struct{}{}, fmt.Errorf("funnel webhook returned status %d", resp.StatusCode)
		}
		return struct{}{}, nil
	})
	if err != nil {
		metrics.FunnelNotifications.WithLabelValues("error").Inc()
		return circuitbreaker.FormatError("funnel-webhook", err)
	}

	metrics.FunnelNotifications.WithLabelValues("success").Inc()
	return nil
}

// Sign computes the signature header value over the exact request
// body: "sha256=" followed by the hex HMAC-SHA256 digest.
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}
