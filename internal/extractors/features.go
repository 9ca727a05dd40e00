package extractors

import (
	"strings"

	"github.com/guardianstack/guardian-engine/internal/models"
)

// Keyword lists are bilingual (English/Vietnamese) to match the label
// source's vocabulary. All matching is case-insensitive substring search.
var (
	urgentWords = []string{
		"urgent", "immediate", "asap", "act now",
		"khẩn cấp", "ngay lập tức", "gấp",
	}
	moneyWords = []string{
		"money", "win", "lottery", "prize", "$", "cash",
		"tiền", "trúng thưởng", "giải thưởng", "xổ số",
	}
	actionWords = []string{
		"click", "verify", "confirm", "download",
		"nhấp", "xác minh", "xác nhận", "tải về",
	}
	attachmentWords = []string{
		"attachment", "attached", "đính kèm",
		".pdf", ".doc", ".xls", ".zip", ".exe",
	}
	spamKeywords = []string{
		"win", "won", "lottery", "urgent", "click here", "limited time",
		"act now", "free money", "congratulations",
		"trúng thưởng", "xổ số", "nhấp vào đây", "chúc mừng", "miễn phí",
	}
	phishingKeywords = []string{
		"verify", "account", "suspended", "confirm", "login", "password",
		"security alert",
		"xác minh", "tài khoản", "đình chỉ", "đăng nhập", "mật khẩu",
	}
	malwareKeywords = []string{
		".exe", "macro", "install", "virus", "invoice.zip", "enable content",
		"cài đặt", "mã độc",
	}
	suspiciousSenderMarkers = []string{
		"@secure-", "@account-", "-alert@", "@mail.ru", ".tk", ".top",
		"security-update@", "no-reply-verify",
	}
)

// Extractor derives a feature vector from raw email text.
type Extractor struct{}

// NewExtractor creates a feature extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract computes all signals from text. It is total and deterministic:
// the empty string yields an all-zero vector instead of an error.
func (e *Extractor) Extract(text string) models.FeatureVector {
	lower := strings.ToLower(text)

	return models.FeatureVector{
		Length:               len([]rune(text)),
		WordCount:            len(strings.Fields(text)),
		HasLinks:             strings.Contains(lower, "http") || strings.Contains(lower, "www."),
		HasAttachments:       containsAny(lower, attachmentWords),
		HasUrgentWords:       containsAny(lower, urgentWords),
		HasMoneyWords:        containsAny(lower, moneyWords),
		HasActionWords:       containsAny(lower, actionWords),
		SpamKeywordCount:     countMatches(lower, spamKeywords),
		PhishingKeywordCount: countMatches(lower, phishingKeywords),
		MalwareKeywordCount:  countMatches(lower, malwareKeywords),
		HasSuspiciousSender:  containsAny(lower, suspiciousSenderMarkers),
	}
}

func containsAny(lower string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func countMatches(lower string, keywords []string) int {
	count := 0
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			count++
		}
	}
	return count
}
