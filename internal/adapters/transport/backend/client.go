package backend

import (
	"accountant-assistant/internal/config"
	"accountant-assistant/internal/core/domain"
	"accountant-assistant/internal/core/port"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"
)

// Client uploads files to the accounting backend as multipart/form-data
type Client struct {
	httpClient *http.Client
	config     config.BackendConfig
	logger     *slog.Logger
	now        func() time.Time
}

// NewClient returns Client
func NewClient(cfg config.BackendConfig, httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Client{httpClient: httpClient, config: cfg, logger: logger, now: time.Now}
}

var _ port.UploadTransport = (*Client)(nil)

// Upload posts the file in the "file" field to the surface endpoint
func (c *Client) Upload(ctx context.Context, surface domain.SurfaceInfo, file domain.File) (*domain.UploadResult, error) {
	body, contentType, err := encodeMultipart(file)
	if err != nil {
		return nil, domain.NewUploadFailure("could not encode upload", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+surface.Path, body)
	if err != nil {
		return nil, domain.NewUploadFailure("could not create upload request", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, domain.NewUploadFailure("upload cancelled", ctx.Err())
		}
		if c.config.MockFallback {
			c.logger.Warn("backend unreachable, using mock response", "path", surface.Path, "error", err)
			return c.mockResult(surface), nil
		}
		return nil, domain.NewUploadFailure("backend unreachable", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Error("failed to close response body", "error", err)
		}
	}()

	payload, err := readPayload(resp)
	if err != nil {
		return nil, domain.NewUploadFailure("could not read backend response", err)
	}

	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		mock, _ := payload["mock"].(bool)
		return &domain.UploadResult{Payload: payload, Mock: mock}, nil
	}

	if c.config.MockFallback && endpointMissing(resp.StatusCode) {
		c.logger.Warn("backend endpoint not available, using mock response", "path", surface.Path, "status", resp.StatusCode)
		return c.mockResult(surface), nil
	}

	return nil, &domain.UploadFailure{Message: failureMessage(resp, payload)}
}

func encodeMultipart(file domain.File) (io.Reader, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, escapeQuotes(file.Name)))
	contentType := file.MimeType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	header.Set("Content-Type", contentType)

	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(file.Content); err != nil {
		return nil, "", err
	}
	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return &buf, writer.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}

// maxTextMessage bounds the length of a plain text body kept as a message
const maxTextMessage = 200

// readPayload decodes JSON bodies and keeps plain text bodies as {"message": text}.
// Other bodies, e.g. a proxy html page, are dropped.
func readPayload(resp *http.Response) (map[string]any, error) {
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	payload := map[string]any{}
	contentType := resp.Header.Get("Content-Type")
	switch {
	case strings.Contains(contentType, "application/json"):
		if len(bytes.TrimSpace(raw)) > 0 {
			if err := json.Unmarshal(raw, &payload); err == nil {
				return payload, nil
			}
		}
		return map[string]any{}, nil
	case strings.HasPrefix(contentType, "text/plain"):
		if text := truncate(strings.TrimSpace(string(raw)), maxTextMessage); text != "" {
			payload["message"] = text
		}
	}
	return payload, nil
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}

func failureMessage(resp *http.Response, payload map[string]any) string {
	for _, key := range []string{"message", "error"} {
		if msg, ok := payload[key].(string); ok && strings.TrimSpace(msg) != "" {
			return msg
		}
	}
	return fmt.Sprintf("Request failed (%d %s)", resp.StatusCode, http.StatusText(resp.StatusCode))
}

// endpointMissing reports statuses meaning the backend has not implemented the route yet
func endpointMissing(status int) bool {
	switch status {
	case http.StatusNotFound, http.StatusMethodNotAllowed, http.StatusNotImplemented:
		return true
	default:
		return false
	}
}

func (c *Client) mockResult(surface domain.SurfaceInfo) *domain.UploadResult {
	now := c.now()
	return &domain.UploadResult{
		Payload: map[string]any{
			"ok":         true,
			"uploadId":   fmt.Sprintf("%s%d", surface.MockPrefix, now.UnixMilli()),
			"receivedAt": now.UTC().Format(time.RFC3339),
			"mock":       true,
		},
		Mock: true,
	}
}
