package repo

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/guardianstack/guardian-engine/internal/models"
)

// ExplainerClient wraps the remote explanation model's HTTP API.
type ExplainerClient struct {
	baseURL     string
	explainPath string
	apiKey      string
	httpClient  *http.Client
}

// NewExplainerClient constructs a client for the configured explanation
// service. The API key is optional for local deployments.
func NewExplainerClient(baseURL, explainPath, apiKey string, timeout time.Duration) *ExplainerClient {
	client := &http.Client{Timeout: timeout}
	if apiKey != "" {
		client.Transport = &authTransport{apiKey: apiKey, base: http.DefaultTransport}
	}
	return &ExplainerClient{
		baseURL:     strings.TrimRight(baseURL, "/"),
		explainPath: explainPath,
		apiKey:      apiKey,
		httpClient:  client,
	}
}

// Explain asks the remote model for a natural-language explanation of the
// classification. All failures collapse into ErrExplanationSource; the
// explanation cascade treats them as a signal to try the next tier.
func (c *ExplainerClient) Explain(ctx context.Context, text string, label models.Label, confidence float64) (string, error) {
	if c == nil || c.baseURL == "" {
		return "", fmt.Errorf("%w: explainer not configured", models.ErrExplanationSource)
	}

	payload := map[string]any{
		"text":           text,
		"classification": string(label),
		"confidence":     confidence,
	}

	var response struct {
		Explanation string `json:"explanation"`
	}

	endpoint := resolvePath(c.baseURL, c.explainPath)
	if err := postJSON(ctx, c.httpClient, endpoint, payload, &response); err != nil {
		return "", fmt.Errorf("%w: %v", models.ErrExplanationSource, err)
	}

	if strings.TrimSpace(response.Explanation) == "" {
		return "", fmt.Errorf("%w: empty explanation in response", models.ErrExplanationSource)
	}
	return response.Explanation, nil
}

type authTransport struct {
	apiKey string
	base   http.RoundTripper
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	clone.Header.Set("Authorization", "Bearer "+t.apiKey)
	return t.base.RoundTrip(clone)
}
