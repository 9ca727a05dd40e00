package engine

import "github.com/guardianstack/guardian-engine/internal/models"

const (
	highRiskBanner   = "High risk: escalate to your security team before taking any other action"
	mediumRiskBanner = "Medium risk: treat this email with caution"
)

// labelRecommendations holds the fixed, ordered action list per label.
// Phishing and malware lead with the do-not-interact instruction.
var labelRecommendations = map[models.Label][]string{
	models.LabelSafe: {
		"Email appears safe to read and respond to",
	},
	models.LabelSuspicious: {
		"Verify the sender's identity before responding",
		"Avoid clicking suspicious links",
		"Check for unusual requests",
	},
	models.LabelSpam: {
		"Delete this email immediately",
		"Do not reply or click any links",
		"Mark the sender as spam",
	},
	models.LabelPhishing: {
		"Do not click any links in this email",
		"Do not provide any personal information",
		"Report to your IT security team",
		"Delete the email immediately",
	},
	models.LabelMalware: {
		"Do not open any attachments",
		"Quarantine the email immediately",
		"Run a full antivirus scan",
		"Contact your security team",
	},
	models.LabelNotification: {
		"No action required",
		"Verify the notification in the originating application if unsure",
	},
	models.LabelInvoice: {
		"Confirm the invoice against your purchase records",
		"Verify payment details with the vendor through a known channel",
	},
	models.LabelPromotion: {
		"No action required",
		"Unsubscribe if the sender is not of interest",
	},
	models.LabelNeedsReview: {
		"Requires further review",
	},
}

// Recommend returns the ordered action list for the label, prefixed with a
// risk banner when the score crosses a tier boundary. Unknown labels fall
// back to a single generic review entry.
func Recommend(label models.Label, riskScore int) []string {
	actions, ok := labelRecommendations[label]
	if !ok {
		actions = []string{"Requires further review"}
	}

	out := make([]string, 0, len(actions)+1)
	switch {
	case riskScore >= 80:
		out = append(out, highRiskBanner)
	case riskScore >= 60:
		out = append(out, mediumRiskBanner)
	}
	return append(out, actions...)
}
