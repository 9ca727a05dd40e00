package repo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/guardianstack/guardian-engine/internal/models"
)

// statusError carries a non-200 upstream status through postJSON so each
// client can map it onto its own error taxonomy.
type statusError struct {
	code   int
	status string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("upstream returned %s", e.status)
}

// ClassifierClient wraps the remote classification model's HTTP API.
type ClassifierClient struct {
	baseURL      string
	classifyPath string
	httpClient   *http.Client
}

// NewClassifierClient constructs a client targeting the configured model
// service.
func NewClassifierClient(baseURL, classifyPath string, timeout time.Duration) *ClassifierClient {
	return &ClassifierClient{
		baseURL:      strings.TrimRight(baseURL, "/"),
		classifyPath: classifyPath,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Classify submits email text and returns the raw label string. Connection
// failures and 5xx responses surface as ErrClassifierUnavailable so the
// caller can degrade to rule-based classification.
func (c *ClassifierClient) Classify(ctx context.Context, text string) (string, error) {
	if c == nil {
		return "", fmt.Errorf("classifier client not initialised")
	}
	if c.baseURL == "" {
		return "", fmt.Errorf("classifier base URL not configured")
	}

	payload := map[string]any{
		"text": text,
	}

	var response struct {
		Label string `json:"label"`
	}

	err := postJSON(ctx, c.httpClient, resolvePath(c.baseURL, c.classifyPath), payload, &response)
	if err != nil {
		var se *statusError
		var ue *url.Error
		switch {
		case errors.As(err, &se) && (se.code == http.StatusServiceUnavailable || se.code >= http.StatusInternalServerError):
			return "", fmt.Errorf("%w: %v", models.ErrClassifierUnavailable, err)
		case errors.As(err, &ue):
			// Transport failure, the model endpoint cannot be reached.
			return "", fmt.Errorf("%w: %v", models.ErrClassifierUnavailable, err)
		default:
			return "", fmt.Errorf("%w: %v", models.ErrClassifier, err)
		}
	}

	if strings.TrimSpace(response.Label) == "" {
		return "", fmt.Errorf("%w: empty label in response", models.ErrClassifier)
	}
	return response.Label, nil
}

func resolvePath(baseURL, p string) string {
	if baseURL == "" {
		return ""
	}
	cleaned := "/" + strings.TrimLeft(p, "/")
	u, err := url.Parse(baseURL)
	if err != nil {
		return baseURL + cleaned
	}
	u.Path = path.Join(u.Path, cleaned)
	return u.String()
}

func postJSON(ctx context.Context, client *http.Client, endpoint string, payload any, out any) error {
	if endpoint == "" {
		return fmt.Errorf("empty endpoint")
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &statusError{code: resp.StatusCode, status: resp.Status}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
