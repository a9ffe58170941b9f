package mcp

import (
	"math"
	"strings"
)

// Sentiment labels.
const (
	SentimentPositive = "positive"
	SentimentNegative = "negative"
	SentimentNeutral  = "neutral"
)

// DefaultCategory is returned when no keyword matches.
const DefaultCategory = "General Inquiry"

var (
	positiveWords = map[string]bool{
		"great": true, "good": true, "excellent": true, "happy": true,
		"satisfied": true, "thanks": true, "love": true,
	}
	negativeWords = map[string]bool{
		"bad": true, "poor": true, "terrible": true, "unhappy": true,
		"disappointed": true, "complaint": true, "issue": true,
	}
)

// ticketCategories lists every support category a ticket may be filed under.
var ticketCategories = []string{
	"Order Issues",
	"Returns",
	"Product Information",
	"Technical Support",
	"Account Issues",
	"Shipping",
	"Billing",
	DefaultCategory,
}

// categoryKeywords is checked in order; the first category with the most
// matches wins.
var categoryKeywords = []struct {
	category string
	keywords []string
}{
	{"Order Issues", []string{"order", "purchase", "bought"}},
	{"Returns", []string{"return", "refund", "money back"}},
	{"Product Information", []string{"specs", "details", "information"}},
	{"Technical Support", []string{"error", "not working", "broken"}},
	{"Shipping", []string{"delivery", "shipping", "track"}},
	{"Account Issues", []string{"login", "password", "account"}},
}

// TicketCategories returns a copy of the support categories.
func TicketCategories() []string {
	out := make([]string, len(ticketCategories))
	copy(out, ticketCategories)
	return out
}

// SentimentResult is the output of AnalyzeSentiment.
type SentimentResult struct {
	Sentiment  string  `json:"sentiment"`
	Confidence float64 `json:"confidence"`
}

// AnalyzeSentiment counts distinct positive and negative keywords among the
// whitespace separated words of text. Confidence is the winning share of
// distinct words plus 0.5, capped at 1.
func AnalyzeSentiment(text string) SentimentResult {
	words := make(map[string]bool)
	for _, w := range strings.Fields(strings.ToLower(text)) {
		words[w] = true
	}

	var pos, neg int
	for w := range words {
		switch {
		case positiveWords[w]:
			pos++
		case negativeWords[w]:
			neg++
		}
	}

	switch {
	case pos > neg:
		return SentimentResult{SentimentPositive, math.Min(1, float64(pos)/float64(len(words))+0.5)}
	case neg > pos:
		return SentimentResult{SentimentNegative, math.Min(1, float64(neg)/float64(len(words))+0.5)}
	default:
		return SentimentResult{SentimentNeutral, 0.5}
	}
}

// CategoryResult is the output of CategorizeTicket.
type CategoryResult struct {
	Category   string  `json:"category"`
	Confidence float64 `json:"confidence"`
}

// CategorizeTicket picks the category whose keywords occur most often as
// substrings of text. Confidence is 0.5 plus 0.2 per matched keyword, capped at 1.
func CategorizeTicket(text string) CategoryResult {
	text = strings.ToLower(text)
	best, bestMatches := DefaultCategory, 0

	for _, c := range categoryKeywords {
		matches := 0
		for _, k := range c.keywords {
			if strings.Contains(text, k) {
				matches++
			}
		}
		if matches > bestMatches {
			best, bestMatches = c.category, matches
		}
	}

	return CategoryResult{
		Category:   best,
		Confidence: math.Min(1, float64(bestMatches)*0.2+0.5),
	}
}
