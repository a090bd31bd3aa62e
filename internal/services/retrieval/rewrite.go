package retrieval

import (
	"regexp"
	"strings"
)

var (
	summaryTerms  = []string{"summary", "summarize", "what is this website about", "overview"}
	specificTerms = []string{"what does", "how does", "tell me about", "specific"}
	imageTerms    = []string{"image", "picture", "photo", "figure", "diagram", "graph", "show me", "visual"}

	topicPattern = regexp.MustCompile(`about\s+(.+?)(?:\s+in|\s+on|\s+at|\s+\?|$)`)
)

// RewriteQuery expands a question with intent-specific search terms so the
// vector search lands on the right sections. Summary and specific-topic
// rewrites are mutually exclusive; the image expansion applies independently
// on top of either.
func RewriteQuery(question string) string {
	lowered := strings.ToLower(question)
	rewritten := question

	if containsAny(lowered, summaryTerms) {
		rewritten += " main content overview summary website purpose"
	} else if containsAny(lowered, specificTerms) {
		if match := topicPattern.FindStringSubmatch(lowered); match != nil {
			rewritten += " " + match[1] + " details information"
		}
	}

	if containsAny(lowered, imageTerms) {
		rewritten += " visual visual_content image picture photo figure"
	}

	return rewritten
}

// IsImageQuery reports whether the question asks about visual content.
func IsImageQuery(question string) bool {
	return containsAny(strings.ToLower(question), imageTerms)
}

func containsAny(text string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(text, term) {
			return true
		}
	}
	return false
}
