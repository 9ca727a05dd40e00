package engine

import (
	"strings"

	"github.com/guardianstack/guardian-engine/internal/models"
)

// labelAliases maps raw classifier output onto the canonical label set.
// The label source emits English or Vietnamese terms depending on the
// model revision, so both vocabularies are covered, plus identity entries
// for already-canonical values.
var labelAliases = map[string]models.Label{
	// English
	"safe":         models.LabelSafe,
	"ham":          models.LabelSafe,
	"spam":         models.LabelSpam,
	"phishing":     models.LabelPhishing,
	"suspicious":   models.LabelSuspicious,
	"malware":      models.LabelMalware,
	"notification": models.LabelNotification,
	"invoice":      models.LabelInvoice,
	"promotion":    models.LabelPromotion,
	"unknown":      models.LabelNeedsReview,

	// Vietnamese
	"an toàn":            models.LabelSafe,
	"thư rác":            models.LabelSpam,
	"lừa đảo":            models.LabelPhishing,
	"đáng ngờ":           models.LabelSuspicious,
	"phần mềm độc hại":   models.LabelMalware,
	"thông báo":          models.LabelNotification,
	"hóa đơn":            models.LabelInvoice,
	"khuyến mãi":         models.LabelPromotion,
	"không xác định":     models.LabelNeedsReview,

	// Canonical identities
	string(models.LabelNeedsReview): models.LabelNeedsReview,
}

// NormalizeLabel maps an arbitrary raw label onto the canonical set.
// Lookup is case-folded and trimmed; unknown input maps to NeedsReview.
// Normalizing a canonical label returns it unchanged.
func NormalizeLabel(raw string) models.Label {
	key := strings.ToLower(strings.TrimSpace(raw))
	if label, ok := labelAliases[key]; ok {
		return label
	}
	return models.LabelNeedsReview
}
