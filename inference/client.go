// Package inference talks to the remote oil-spill segmentation service.
// The service is an opaque HTTP collaborator: one multipart POST per
// prediction, plus a health endpoint.
package inference

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"github.com/bytedance/sonic"

	"github.com/spillscope/spillscope-go/tool"
	"github.com/spillscope/spillscope-go/types"
)

// RemoteError is a non-2xx response from the service. Message carries the
// body-derived text verbatim so the UI can show what the service said.
type RemoteError struct {
	StatusCode int
	Message    string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("prediction failed (HTTP %d): %s", e.StatusCode, e.Message)
}

// PredictResponse is a successful raw prediction response; classification
// into an artifact happens at the session layer.
type PredictResponse struct {
	ContentType string
	Body        []byte
}

// Client is the remote service surface the session depends on.
type Client interface {
	Predict(ctx context.Context, endpoint, fileName, contentType string, data []byte) (*PredictResponse, error)
	Health(ctx context.Context) (*types.ServiceHealth, error)
}

// HTTPClient implements Client against a base URL like http://host:8000.
type HTTPClient struct {
	baseURL string
	client  *http.Client
}

func NewHTTPClient(baseURL string, client *http.Client) *HTTPClient {
	if client == nil {
		client = tool.GetHttpClient()
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

// BaseURL returns the configured service base URL.
func (c *HTTPClient) BaseURL() string {
	return c.baseURL
}

// Predict submits the file as a multipart body to /predict/<endpoint> and
// returns the raw response. The part carries the file's own image content
// type; the service rejects parts it cannot recognize as images.
func (c *HTTPClient) Predict(ctx context.Context, endpoint, fileName, contentType string, data []byte) (*PredictResponse, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, fileName))
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, fmt.Errorf("failed to build multipart body: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, fmt.Errorf("failed to write file part: %v", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish multipart body: %v", err)
	}

	url := fmt.Sprintf("%s/predict/%s", c.baseURL, endpoint)
	req, err := http.NewRequestWithContext(ctx, "POST", url, &body)
	if err != nil {
		return nil, fmt.Errorf("failed to create predict request: %v", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("predict cancelled: %w", ctx.Err())
		}
		return nil, fmt.Errorf("failed to reach inference service: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			tool.DefaultLogger.Errorf("Failed to close response body: %v", err)
		}
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read predict response: %v", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &RemoteError{
			StatusCode: resp.StatusCode,
			Message:    extractErrorMessage(respBody),
		}
	}

	tool.DefaultLogger.Infof("Predict request to %s succeeded (%d bytes, %s)", url, len(respBody), resp.Header.Get("Content-Type"))
	return &PredictResponse{
		ContentType: resp.Header.Get("Content-Type"),
		Body:        respBody,
	}, nil
}

// Health queries GET /health. Shape follows the service:
// {"status": "healthy", "models_loaded": true}.
func (c *HTTPClient) Health(ctx context.Context) (*types.ServiceHealth, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/health", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create health request: %v", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach inference service: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			tool.DefaultLogger.Errorf("Failed to close response body: %v", err)
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read health response: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &RemoteError{StatusCode: resp.StatusCode, Message: extractErrorMessage(body)}
	}

	var payload struct {
		Status       string `json:"status"`
		ModelsLoaded bool   `json:"models_loaded"`
	}
	if err := sonic.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse health response: %v", err)
	}
	return &types.ServiceHealth{
		Reachable:    true,
		Status:       payload.Status,
		ModelsLoaded: payload.ModelsLoaded,
	}, nil
}

// extractErrorMessage unwraps FastAPI-style {"detail": "..."} bodies and
// falls back to the raw text.
func extractErrorMessage(body []byte) string {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return "no error detail provided"
	}
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := sonic.Unmarshal(body, &payload); err == nil && payload.Detail != "" {
		return payload.Detail
	}
	return trimmed
}
