package repo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/guardianstack/guardian-engine/internal/models"
)

func TestClassifyReturnsLabel(t *testing.T) {
	client := NewClassifierClient("https://model.example", "/classify", time.Second)
	client.httpClient = newTestClient(roundTripFunc(func(req *http.Request) (*http.Response, error) {
		if req.URL.Path != "/classify" {
			t.Fatalf("unexpected path: %s", req.URL.Path)
		}
		var payload struct {
			Text string `json:"text"`
		}
		if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if payload.Text != "hello there" {
			t.Fatalf("unexpected text: %q", payload.Text)
		}
		data, _ := json.Marshal(map[string]string{"label": "spam"})
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(bytes.NewReader(data)),
			Header:     make(http.Header),
		}, nil
	}))

	label, err := client.Classify(context.Background(), "hello there")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if label != "spam" {
		t.Fatalf("unexpected label: %q", label)
	}
}

func TestClassifyMapsServiceUnavailable(t *testing.T) {
	client := NewClassifierClient("https://model.example", "/classify", time.Second)
	client.httpClient = newTestClient(roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusServiceUnavailable,
			Status:     "503 Service Unavailable",
			Body:       io.NopCloser(bytes.NewReader(nil)),
			Header:     make(http.Header),
		}, nil
	}))

	_, err := client.Classify(context.Background(), "text")
	if !errors.Is(err, models.ErrClassifierUnavailable) {
		t.Fatalf("expected ErrClassifierUnavailable, got %v", err)
	}
}

func TestClassifyMapsBadStatusToClassifierError(t *testing.T) {
	client := NewClassifierClient("https://model.example", "/classify", time.Second)
	client.httpClient = newTestClient(roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusUnprocessableEntity,
			Status:     "422 Unprocessable Entity",
			Body:       io.NopCloser(bytes.NewReader(nil)),
			Header:     make(http.Header),
		}, nil
	}))

	_, err := client.Classify(context.Background(), "text")
	if !errors.Is(err, models.ErrClassifier) {
		t.Fatalf("expected ErrClassifier, got %v", err)
	}
	if errors.Is(err, models.ErrClassifierUnavailable) {
		t.Fatalf("4xx must not map to unavailable: %v", err)
	}
}

func TestClassifyEmptyLabel(t *testing.T) {
	client := NewClassifierClient("https://model.example", "/classify", time.Second)
	client.httpClient = newTestClient(roundTripFunc(func(req *http.Request) (*http.Response, error) {
		data, _ := json.Marshal(map[string]string{"label": "  "})
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(bytes.NewReader(data)),
			Header:     make(http.Header),
		}, nil
	}))

	if _, err := client.Classify(context.Background(), "text"); !errors.Is(err, models.ErrClassifier) {
		t.Fatalf("expected ErrClassifier for empty label, got %v", err)
	}
}

func TestExplainerReturnsRemoteText(t *testing.T) {
	client := NewExplainerClient("https://model.example", "/explain", "", time.Second)
	client.httpClient = newTestClient(roundTripFunc(func(req *http.Request) (*http.Response, error) {
		var payload struct {
			Classification string `json:"classification"`
		}
		if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if payload.Classification != "spam" {
			t.Fatalf("unexpected classification: %q", payload.Classification)
		}
		data, _ := json.Marshal(map[string]string{"explanation": "looks like a prize scam"})
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(bytes.NewReader(data)),
			Header:     make(http.Header),
		}, nil
	}))

	out, err := client.Explain(context.Background(), "you won", models.LabelSpam, 0.9)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "looks like a prize scam" {
		t.Fatalf("unexpected explanation: %q", out)
	}
}

func TestExplainerWrapsFailures(t *testing.T) {
	client := NewExplainerClient("https://model.example", "/explain", "", time.Second)
	client.httpClient = newTestClient(roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusBadGateway,
			Status:     "502 Bad Gateway",
			Body:       io.NopCloser(bytes.NewReader(nil)),
			Header:     make(http.Header),
		}, nil
	}))

	if _, err := client.Explain(context.Background(), "text", models.LabelSafe, 0.8); !errors.Is(err, models.ErrExplanationSource) {
		t.Fatalf("expected ErrExplanationSource, got %v", err)
	}
}
