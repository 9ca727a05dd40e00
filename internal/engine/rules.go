package engine

import (
	"errors"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/guardianstack/guardian-engine/internal/models"
)

// RuleEngine overrides a classifier label when the text matches one of the
// keyword families. Families run in a fixed priority order and the first
// match wins, so informational categories (invoice, notification,
// promotion) are asserted before threat categories and a promotional
// email mentioning "urgent" is not mis-escalated.
type RuleEngine struct {
	families []Family
	logger   *slog.Logger
}

// Family is a single keyword family and the label it asserts.
type Family struct {
	ID       string   `yaml:"id"`
	Label    string   `yaml:"label"`
	Keywords []string `yaml:"keywords"`
}

// RulePackFile is the YAML root structure for external rule packs.
type RulePackFile struct {
	Families []Family `yaml:"families"`
}

// NewRuleEngine loads keyword families from the provided path. An empty or
// missing path falls back to the compiled-in bilingual defaults.
func NewRuleEngine(path string, logger *slog.Logger) (*RuleEngine, error) {
	if logger == nil {
		logger = slog.Default()
	}

	families := defaultFamilies()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			logger.Warn("rule pack not found, using defaults", slog.String("path", path))
		case err != nil:
			return nil, err
		default:
			var pack RulePackFile
			if err := yaml.Unmarshal(data, &pack); err != nil {
				return nil, err
			}
			if len(pack.Families) > 0 {
				families = pack.Families
			}
		}
	}

	return &RuleEngine{families: families, logger: logger}, nil
}

// ApplyOverrides returns the label asserted by the first matching family,
// or the input label unchanged when no family matches.
func (e *RuleEngine) ApplyOverrides(label models.Label, text string) models.Label {
	if e == nil {
		return label
	}
	lower := strings.ToLower(text)
	for _, family := range e.families {
		for _, kw := range family.Keywords {
			if kw != "" && strings.Contains(lower, strings.ToLower(kw)) {
				return NormalizeLabel(family.Label)
			}
		}
	}
	return label
}

// FallbackLabel derives a rule-only label for text when the classifier is
// unavailable, seeding the family scan with Safe.
func (e *RuleEngine) FallbackLabel(text string) models.Label {
	return e.ApplyOverrides(models.LabelSafe, text)
}

func defaultFamilies() []Family {
	return []Family{
		{
			ID:    "invoice",
			Label: string(models.LabelInvoice),
			Keywords: []string{
				"invoice", "hóa đơn", "payment due", "amount due",
				"receipt", "biên lai", "billing statement", "net 30",
			},
		},
		{
			ID:    "notification",
			Label: string(models.LabelNotification),
			Keywords: []string{
				"notification", "thông báo", "reminder:", "do not reply",
				"system update", "your order has shipped", "nhắc nhở",
				"account statement",
			},
		},
		{
			ID:    "promotion",
			Label: string(models.LabelPromotion),
			Keywords: []string{
				"% off", "discount", "khuyến mãi", "giảm giá",
				"voucher", "coupon", "special offer", "ưu đãi",
			},
		},
		{
			ID:    "spam",
			Label: string(models.LabelSpam),
			Keywords: []string{
				"congratulations", "you won", "lottery", "free money",
				"click here", "act now", "chúc mừng", "trúng thưởng", "xổ số",
			},
		},
		{
			ID:    "phishing",
			Label: string(models.LabelPhishing),
			Keywords: []string{
				"verify your", "suspended", "confirm your", "login",
				"security alert", "unusual activity",
				"xác minh tài khoản", "đăng nhập", "mật khẩu",
			},
		},
	}
}
