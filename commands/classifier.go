package commands

import (
	"strings"

	"github.com/fiam/gounidecode/unidecode"
	"github.com/schollz/closestmatch"
	"github.com/texttheater/golang-levenshtein/levenshtein"
)

// IntentKind là loại lệnh nhận ra từ tin nhắn
type IntentKind int

const (
	IntentUnknown IntentKind = iota
	IntentCheckIn
	IntentCheckOut
	IntentHelp
	IntentSummary
)

func (k IntentKind) String() string {
	switch k {
	case IntentCheckIn:
		return "checkin"
	case IntentCheckOut:
		return "checkout"
	case IntentHelp:
		return "help"
	case IntentSummary:
		return "summary"
	default:
		return "unknown"
	}
}

// Intent là kết quả phân loại; MonthArg là tham số tháng chưa kiểm tra của lệnh summary
type Intent struct {
	Kind     IntentKind
	MonthArg string
}

const minSimilarity = 0.8

var keywords = map[string]IntentKind{
	"good morning": IntentCheckIn,
	"hello":        IntentCheckIn,
	"checkin":      IntentCheckIn,
	"check in":     IntentCheckIn,
	"good bye":     IntentCheckOut,
	"goodbye":      IntentCheckOut,
	"checkout":     IntentCheckOut,
	"check out":    IntentCheckOut,
	"help":         IntentHelp,
	"start":        IntentHelp,
}

var summaryWords = map[string]bool{
	"summary": true,
	"report":  true,
}

// Classifier ánh xạ văn bản chat sang Intent, chịu được lỗi gõ nhỏ
type Classifier struct {
	matcher *closestmatch.ClosestMatch
}

func NewClassifier() *Classifier {
	words := make([]string, 0, len(keywords))
	for k := range keywords {
		words = append(words, k)
	}
	return &Classifier{matcher: closestmatch.New(words, []int{2, 3})}
}

// Hàm chuẩn hóa chuỗi
func normalizeInput(input string) string {
	input = strings.TrimSpace(input)
	input = strings.ToLower(unidecode.Unidecode(input))
	input = strings.TrimPrefix(input, "/")
	fields := strings.Fields(input)
	if len(fields) > 0 {
		// "/summary@attend_bot 3" -> "summary 3"
		if i := strings.Index(fields[0], "@"); i >= 0 {
			fields[0] = fields[0][:i]
		}
	}
	return strings.Join(fields, " ")
}

// Tính độ tương đồng giữa hai chuỗi
func calculateSimilarity(a, b string) float64 {
	distance := levenshtein.DistanceForStrings([]rune(a), []rune(b), levenshtein.DefaultOptions)
	maxLen := len([]rune(a))
	if l := len([]rune(b)); l > maxLen {
		maxLen = l
	}
	if maxLen == 0 {
		return 1.0
	}
	return 1.0 - float64(distance)/float64(maxLen)
}

func (c *Classifier) Classify(text string) Intent {
	input := normalizeInput(text)
	if input == "" {
		return Intent{Kind: IntentUnknown}
	}

	fields := strings.Fields(input)
	if summaryWords[fields[0]] {
		intent := Intent{Kind: IntentSummary}
		if len(fields) > 1 {
			intent.MonthArg = strings.Join(fields[1:], " ")
		}
		return intent
	}

	if kind, ok := keywords[input]; ok {
		return Intent{Kind: kind}
	}

	candidate := c.matcher.Closest(input)
	if candidate == "" {
		return Intent{Kind: IntentUnknown}
	}
	if calculateSimilarity(input, candidate) < minSimilarity {
		return Intent{Kind: IntentUnknown}
	}
	return Intent{Kind: keywords[candidate]}
}
