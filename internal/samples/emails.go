// Package samples bundles demo emails for trying the analyzer without a
// mail source attached.
package samples

import "github.com/guardianstack/guardian-engine/internal/models"

// Email is one ready-to-analyze demo message.
type Email struct {
	ID       string       `json:"id"`
	Title    string       `json:"title"`
	Text     string       `json:"text"`
	Expected models.Label `json:"expected"`
}

// Emails returns the bundled demo set. The slice is freshly allocated so
// callers may reorder it.
func Emails() []Email {
	return []Email{
		{
			ID:       "sample-safe-1",
			Title:    "Team meeting",
			Text:     "Hi team, our weekly sync moves to Thursday 10 AM this week. Please update your calendars and bring the quarterly numbers.",
			Expected: models.LabelSafe,
		},
		{
			ID:       "sample-spam-1",
			Title:    "Lottery winner",
			Text:     "CONGRATULATIONS! You won $1,000,000 in the international lottery! Click here to claim your free money now. Act now, limited time!",
			Expected: models.LabelSpam,
		},
		{
			ID:       "sample-phishing-1",
			Title:    "Account suspended",
			Text:     "URGENT: We detected unusual activity on your account. Verify your identity within 24 hours or your account will be suspended. Login at http://secure-bank-verify.example to confirm your password.",
			Expected: models.LabelPhishing,
		},
		{
			ID:       "sample-phishing-vi",
			Title:    "Xác minh tài khoản",
			Text:     "KHẨN CẤP: Tài khoản của bạn sẽ bị đình chỉ. Vui lòng đăng nhập và xác minh tài khoản ngay lập tức, cung cấp mật khẩu để xác nhận.",
			Expected: models.LabelPhishing,
		},
		{
			ID:       "sample-malware-1",
			Title:    "Invoice attachment",
			Text:     "Please find attached order_details.zip for your recent purchase. Open the document and enable content to view it. Install the viewer if prompted.",
			Expected: models.LabelMalware,
		},
		{
			ID:       "sample-invoice-1",
			Title:    "Monthly invoice",
			Text:     "Your invoice for August is ready. Amount due: $240.00, payment due by September 15. Reply to this email with any billing questions.",
			Expected: models.LabelInvoice,
		},
		{
			ID:       "sample-promo-1",
			Title:    "Weekend sale",
			Text:     "This weekend only: 40% off all items in our autumn collection. Use voucher code FALL40 at checkout. Special offer ends Sunday midnight.",
			Expected: models.LabelPromotion,
		},
		{
			ID:       "sample-notification-1",
			Title:    "Shipping update",
			Text:     "Notification: your order has shipped and will arrive in 2-3 business days. Do not reply to this automated message.",
			Expected: models.LabelNotification,
		},
	}
}
