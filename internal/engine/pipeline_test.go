package engine

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/guardianstack/guardian-engine/internal/models"
)

type fakeLabelSource struct {
	label string
	err   error
	calls int
}

func (f *fakeLabelSource) Classify(ctx context.Context, text string) (string, error) {
	f.calls++
	return f.label, f.err
}

type fakeExplanationSource struct {
	text string
	err  error
}

func (f *fakeExplanationSource) Explain(ctx context.Context, text string, label models.Label, confidence float64) (string, error) {
	return f.text, f.err
}

func newTestPipeline(t *testing.T, source LabelSource, explSource ExplanationSource, fallback bool) *Pipeline {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(testWriter{t}, nil))
	rules, err := NewRuleEngine("", logger)
	if err != nil {
		t.Fatalf("NewRuleEngine: %v", err)
	}
	explainer := NewExplainer(explSource, time.Second, logger)
	return NewPipeline(logger, source, rules, explainer, nil, fallback)
}

type testWriter struct{ t *testing.T }

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Log(strings.TrimRight(string(p), "\n"))
	return len(p), nil
}

func TestAnalyzeEmptyInput(t *testing.T) {
	p := newTestPipeline(t, &fakeLabelSource{label: "safe"}, nil, true)
	if _, err := p.Analyze(context.Background(), models.AnalysisRequest{Text: "   \n\t "}); !errors.Is(err, models.ErrEmptyInput) {
		t.Fatalf("expected ErrEmptyInput, got %v", err)
	}
}

func TestAnalyzeSafeEmail(t *testing.T) {
	source := &fakeLabelSource{label: "safe"}
	p := newTestPipeline(t, source, nil, true)

	result, err := p.Analyze(context.Background(), models.AnalysisRequest{
		Text: "Meeting tomorrow at 2 PM, bring the reports.",
	})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if result.Classification != models.LabelSafe {
		t.Fatalf("expected safe, got %s", result.Classification)
	}
	if result.RiskScore != 0 {
		t.Fatalf("expected risk 0, got %d", result.RiskScore)
	}
	if result.Confidence < 0.1 || result.Confidence > 0.99 {
		t.Fatalf("confidence out of range: %f", result.Confidence)
	}
	if result.AnalysisID == "" {
		t.Fatal("expected analysis ID")
	}
	if result.Explanation == "" {
		t.Fatal("expected explanation")
	}
	if len(result.Recommendations) == 0 {
		t.Fatal("expected recommendations")
	}
	if result.AIUsed {
		t.Fatal("no remote explainer configured, AIUsed must be false")
	}
}

func TestAnalyzeFallbackWhenClassifierDown(t *testing.T) {
	source := &fakeLabelSource{err: models.ErrClassifierUnavailable}
	p := newTestPipeline(t, source, nil, true)

	result, err := p.Analyze(context.Background(), models.AnalysisRequest{
		Text: "CONGRATULATIONS! You won $1,000,000! Click here",
	})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if result.Classification != models.LabelSpam {
		t.Fatalf("expected rule fallback to spam, got %s", result.Classification)
	}
	if result.RiskScore < 50 {
		t.Fatalf("expected spam risk >= 50, got %d", result.RiskScore)
	}
}

func TestAnalyzeFallbackDisabled(t *testing.T) {
	source := &fakeLabelSource{err: models.ErrClassifierUnavailable}
	p := newTestPipeline(t, source, nil, false)

	if _, err := p.Analyze(context.Background(), models.AnalysisRequest{Text: "hello"}); !errors.Is(err, models.ErrClassifierUnavailable) {
		t.Fatalf("expected ErrClassifierUnavailable, got %v", err)
	}
}

func TestAnalyzePhishingOverride(t *testing.T) {
	// Classifier under-calls the email; the rule families correct it.
	source := &fakeLabelSource{label: "suspicious"}
	p := newTestPipeline(t, source, nil, true)

	result, err := p.Analyze(context.Background(), models.AnalysisRequest{
		Text: "URGENT: verify your account now, login at http://bank-secure.example or it will be suspended",
	})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if result.Classification != models.LabelPhishing {
		t.Fatalf("expected phishing override, got %s", result.Classification)
	}
	if result.RiskScore < 75 {
		t.Fatalf("expected phishing risk >= 75, got %d", result.RiskScore)
	}
	if got := result.Recommendations; len(got) == 0 || !strings.Contains(strings.ToLower(strings.Join(got, " ")), "do not click") {
		t.Fatalf("expected do-not-click recommendation, got %v", got)
	}
}

func TestAnalyzeVietnameseLabel(t *testing.T) {
	source := &fakeLabelSource{label: "lừa đảo"}
	p := newTestPipeline(t, source, nil, true)

	result, err := p.Analyze(context.Background(), models.AnalysisRequest{
		Text: "Vui lòng xác minh tài khoản của bạn ngay lập tức, nếu không tài khoản sẽ bị đình chỉ.",
	})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if result.Classification != models.LabelPhishing {
		t.Fatalf("expected phishing, got %s", result.Classification)
	}
}

func TestAnalyzeRemoteExplainerUsed(t *testing.T) {
	source := &fakeLabelSource{label: "spam"}
	expl := &fakeExplanationSource{text: "This email uses classic prize-scam wording."}
	p := newTestPipeline(t, source, expl, true)

	result, err := p.Analyze(context.Background(), models.AnalysisRequest{
		Text: "You won the lottery! Click here to claim your free money now!",
	})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if !result.AIUsed {
		t.Fatal("expected AIUsed when remote explainer answers")
	}
	if result.Explanation != expl.text {
		t.Fatalf("unexpected explanation: %q", result.Explanation)
	}
}

func TestAnalyzeExplainerFailureFallsBackLocally(t *testing.T) {
	source := &fakeLabelSource{label: "spam"}
	expl := &fakeExplanationSource{err: errors.New("upstream timeout")}
	p := newTestPipeline(t, source, expl, true)

	result, err := p.Analyze(context.Background(), models.AnalysisRequest{
		Text: "You won the lottery! Click here to claim your free money now!",
	})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if result.AIUsed {
		t.Fatal("expected AIUsed false after remote failure")
	}
	if strings.TrimSpace(result.Explanation) == "" {
		t.Fatal("local fallback must produce a non-empty explanation")
	}
}
