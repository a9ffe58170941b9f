package mcp

import "strings"

// FAQ is one frequently asked question.
type FAQ struct {
	ID       string `json:"id"`
	Question string `json:"q"`
	Answer   string `json:"a"`
}

var faqs = []FAQ{
	{ID: "FAQ001", Question: "How do I track my order?", Answer: "You can track your order in the Orders section using your order ID."},
	{ID: "FAQ002", Question: "What's your return policy?", Answer: "We offer 30-day returns on most items. Some restrictions apply."},
	{ID: "FAQ003", Question: "How long does shipping take?", Answer: "Standard shipping takes 3-5 business days."},
}

// FAQs returns a copy of every FAQ entry.
func FAQs() []FAQ {
	out := make([]FAQ, len(faqs))
	copy(out, faqs)
	return out
}

// SearchFAQ returns entries whose question or answer contains q,
// case-insensitively. An empty query matches everything.
func SearchFAQ(q string) []FAQ {
	q = strings.ToLower(q)
	out := []FAQ{}
	for _, f := range faqs {
		if strings.Contains(strings.ToLower(f.Question), q) || strings.Contains(strings.ToLower(f.Answer), q) {
			out = append(out, f)
		}
	}
	return out
}
