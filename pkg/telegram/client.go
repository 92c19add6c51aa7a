package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"
	"strings"
	"time"

	"github.com/creatorhub/apply-api/pkg/httpclient"
	"github.com/creatorhub/apply-api/pkg/logger"
	"github.com/creatorhub/apply-api/pkg/metrics"
)

const (
	// DefaultAPIBase is the public Bot API endpoint
	DefaultAPIBase = "https://api.telegram.org"

	// DefaultPhotoContentType is used when the upload carries no
	// declared media type
	DefaultPhotoContentType = "application/octet-stream"

	textTimeout  = 15 * time.Second
	photoTimeout = 30 * time.Second // uploads take longer than text sends
)

// APIResponse is the Bot API envelope: every call answers with an ok
// flag, and on failure a description plus optional parameters.
type APIResponse struct {
	OK          bool                `json:"ok"`
	Result      json.RawMessage     `json:"result"`
	Description string              `json:"description"`
	Parameters  *ResponseParameters `json:"parameters"`
}

// ResponseParameters carries the migrate_to_chat_id hint Telegram
// sends when a group was upgraded to a supergroup.
type ResponseParameters struct {
	MigrateToChatID int64 `json:"migrate_to_chat_id"`
}

// ChatMigratedError reports that the chat moved to a new id. Callers
// are expected to retry the send once against NewChatID.
type ChatMigratedError struct {
	NewChatID int64
	Payload   []byte
}

func (e *ChatMigratedError) Error() string {
	return fmt.Sprintf("chat migrated to %d", e.NewChatID)
}

// APIError is any other ok:false answer from the Bot API. The raw
// payload is kept for operator diagnosis.
type APIError struct {
	Method      string
	Description string
	Payload     []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("telegram API error: %s | method=%s | payload=%s", e.Description, e.Method, e.Payload)
}

// Photo is an image upload streamed to sendPhoto.
type Photo struct {
	Reader      io.Reader
	Filename    string
	ContentType string
}

// Client is a thin Bot API client covering the two methods the
// application relay needs.
type Client struct {
	apiBase     string
	token       string
	textClient  httpclient.Client
	photoClient httpclient.Client
}

// NewClient creates a Bot API client. An empty apiBase falls back to
// the public endpoint; tests point it at a local server.
func NewClient(apiBase, token string) *Client {
	if apiBase == "" {
		apiBase = DefaultAPIBase
	}
	return &Client{
		apiBase:     strings.TrimRight(apiBase, "/"),
		token:       token,
		textClient:  httpclient.NewStandardClientWithTimeout(textTimeout),
		photoClient: httpclient.NewStandardClientWithTimeout(photoTimeout),
	}
}

func (c *Client) methodURL(method string) string {
	return fmt.Sprintf("%s/bot%s/%s", c.apiBase, c.token, method)
}

// SendMessage delivers an HTML-formatted text message to the given
// recipient (@handle string or numeric id).
func (c *Client) SendMessage(ctx context.Context, recipient any, text string) (json.RawMessage, error) {
	body, err := json.Marshal(map[string]any{
		"chat_id":                  recipient,
		"text":                     text,
		"parse_mode":               "HTML",
		"disable_web_page_preview": true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode sendMessage body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.methodURL("sendMessage"), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create sendMessage request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.call("sendMessage", c.textClient, req)
}

// SendPhoto delivers a photo with an HTML-formatted caption. The
// photo stream is rewound first when possible, so a migration retry
// resends the same bytes.
func (c *Client) SendPhoto(ctx context.Context, recipient any, caption string, photo *Photo) (json.RawMessage, error) {
	if seeker, ok := photo.Reader.(io.Seeker); ok {
		_, _ = seeker.Seek(0, io.SeekStart)
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	_ = w.WriteField("chat_id", recipientString(recipient))
	_ = w.WriteField("caption", caption)
	_ = w.WriteField("parse_mode", "HTML")

	contentType := photo.ContentType
	if contentType == "" {
		contentType = DefaultPhotoContentType
	}
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="photo"; filename="%s"`, escapeQuotes(photo.Filename)))
	header.Set("Content-Type", contentType)
	part, err := w.CreatePart(header)
	if err != nil {
		return nil, fmt.Errorf("failed to create photo part: %w", err)
	}
	if _, err := io.Copy(part, photo.Reader); err != nil {
		return nil, fmt.Errorf("failed to read photo stream: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.methodURL("sendPhoto"), &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to create sendPhoto request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	return c.call("sendPhoto", c.photoClient, req)
}

// call executes the request and interprets the Bot API envelope.
func (c *Client) call(method string, client httpclient.Client, req *http.Request) (json.RawMessage, error) {
	start := time.Now()

	resp, err := client.Do(req)
	if err != nil {
		c.observe(method, "error", start)
		return nil, fmt.Errorf("telegram %s request failed: %w", method, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		c.observe(method, "error", start)
		return nil, fmt.Errorf("failed to read telegram %s response: %w", method, err)
	}

	var api APIResponse
	if err := json.Unmarshal(raw, &api); err != nil {
		// Not a Bot API envelope at all: transport-level failure
		c.observe(method, "error", start)
		return nil, fmt.Errorf("telegram %s returned non-JSON response (HTTP %d): %w", method, resp.StatusCode, err)
	}

	if !api.OK {
		if api.Parameters != nil && api.Parameters.MigrateToChatID != 0 {
			c.observe(method, "migrated", start)
			return nil, &ChatMigratedError{NewChatID: api.Parameters.MigrateToChatID, Payload: raw}
		}
		desc := api.Description
		if desc == "" {
			desc = "unknown"
		}
		c.observe(method, "error", start)
		return nil, &APIError{Method: method, Description: desc, Payload: raw}
	}

	c.observe(method, "success", start)
	return api.Result, nil
}

func (c *Client) observe(method, status string, start time.Time) {
	duration := metrics.MeasureDuration(start)
	metrics.TelegramRequestDuration.WithLabelValues(method, status).Observe(duration)
	metrics.TelegramRequestTotal.WithLabelValues(method, status).Inc()
	logger.LogAPICall("telegram", method, status, duration)
}

func recipientString(recipient any) string {
	switch v := recipient.(type) {
	case string:
		return v
	case int64:
		return strconv.FormatInt(v, 10)
	case int:
		return strconv.Itoa(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
