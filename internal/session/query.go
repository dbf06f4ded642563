package session

import "strings"

// DefaultQueryKeywords is how many leading keywords form a job-search query.
// The analysis orders job titles first, and a short title-like query returns
// better matches than one listing every extracted skill.
const DefaultQueryKeywords = 3

// SearchQuery joins at most n leading keywords with ", ", preserving order.
func SearchQuery(keywords []string, n int) string {
	if n <= 0 {
		n = DefaultQueryKeywords
	}
	if len(keywords) > n {
		keywords = keywords[:n]
	}
	return strings.Join(keywords, ", ")
}
