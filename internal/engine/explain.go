package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/guardianstack/guardian-engine/internal/models"
)

// ExplanationSource produces a human-readable explanation for a classified
// email. Implementations may call out to an external model.
type ExplanationSource interface {
	Explain(ctx context.Context, text string, label models.Label, confidence float64) (string, error)
}

// tier is one strategy in the explanation cascade. remote marks tiers whose
// output counts as model-generated.
type tier struct {
	name    string
	remote  bool
	attempt func(ctx context.Context, text string, label models.Label, confidence float64) (string, error)
}

// Explainer resolves an explanation through an ordered cascade of tiers.
// Each tier's output is validated before acceptance; the local template
// renderer is the terminal tier and cannot fail.
type Explainer struct {
	tiers  []tier
	logger *slog.Logger
}

func NewExplainer(source ExplanationSource, timeout time.Duration, logger *slog.Logger) *Explainer {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}

	var tiers []tier
	if source != nil {
		tiers = append(tiers, tier{
			name:   "remote",
			remote: true,
			attempt: func(ctx context.Context, text string, label models.Label, confidence float64) (string, error) {
				rctx, cancel := context.WithTimeout(ctx, timeout)
				defer cancel()
				return source.Explain(rctx, text, label, confidence)
			},
		})
	}
	tiers = append(tiers, tier{
		name: "template",
		attempt: func(_ context.Context, _ string, label models.Label, confidence float64) (string, error) {
			return localExplanation(label, confidence), nil
		},
	})

	return &Explainer{tiers: tiers, logger: logger}
}

// Explain walks the cascade and returns the first valid explanation plus
// whether a remote tier produced it. The terminal template tier always
// yields a non-empty string.
func (e *Explainer) Explain(ctx context.Context, text string, label models.Label, confidence float64) (explanation string, remote bool) {
	for _, t := range e.tiers {
		out, err := t.attempt(ctx, text, label, confidence)
		if err != nil {
			e.logger.Warn("explanation tier failed",
				slog.String("tier", t.name), slog.String("classification", string(label)), slog.Any("error", err))
			continue
		}
		if !usableExplanation(out) {
			e.logger.Warn("explanation tier rejected",
				slog.String("tier", t.name), slog.String("classification", string(label)))
			continue
		}
		return strings.TrimSpace(out), t.remote
	}
	// Unreachable while the template tier is registered last.
	return localExplanation(label, confidence), false
}

// usableExplanation rejects empty output, sentinel error prefixes, and the
// refusal phrasing some models emit instead of an error.
func usableExplanation(s string) bool {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return false
	}
	lower := strings.ToLower(trimmed)
	for _, prefix := range []string{"error:", "[error]", "lỗi:"} {
		if strings.HasPrefix(lower, prefix) {
			return false
		}
	}
	for _, marker := range []string{"i cannot", "i am unable", "unable to provide", "cannot provide"} {
		if strings.Contains(lower, marker) {
			return false
		}
	}
	return true
}

var explanationTemplates = map[models.Label]string{
	models.LabelSafe:         "This email shows no indicators of spam, phishing, or malicious content and appears safe to handle normally.",
	models.LabelSpam:         "This email matches common spam patterns such as unsolicited offers, prize claims, or bulk promotional phrasing.",
	models.LabelPhishing:     "This email attempts to impersonate a trusted party and pressure the recipient into revealing credentials or personal information.",
	models.LabelMalware:      "This email carries indicators of malicious software delivery, typically through attachments or download links.",
	models.LabelSuspicious:   "This email contains unusual elements that do not match a clear threat pattern but warrant caution before responding.",
	models.LabelNotification: "This email is an automated notification from an application or service and requires no immediate action.",
	models.LabelInvoice:      "This email concerns a billing or payment matter and should be verified against your records before acting on it.",
	models.LabelPromotion:    "This email is marketing material promoting a product, service, or discount.",
	models.LabelNeedsReview:  "This email could not be classified with confidence and should be reviewed manually.",
}

// localExplanation renders the deterministic fallback text. Always returns a
// non-empty string.
func localExplanation(label models.Label, confidence float64) string {
	tmpl, ok := explanationTemplates[label]
	if !ok {
		tmpl = explanationTemplates[models.LabelNeedsReview]
	}
	return fmt.Sprintf("%s (confidence %.0f%%)", tmpl, confidence*100)
}
