package retriever

import (
	"regexp"
	"strconv"
	"strings"
)

// matches explicit job references like "job 2", "Job #3", "job#1"
var jobRefPattern = regexp.MustCompile(`(?i)\bjob\s*#?\s*(\d+)\b`)

// words that signal a comparison between the resume and one or more
// postings; such queries retrieve from each source separately so one
// side cannot crowd out the other
var comparisonKeywords = []string{
	"compare", "comparison", "versus", " vs ", " vs. ",
	"difference", "differences", "match", "fit", "gap", "gaps",
	"against", "both", "qualified", "suitable", "align",
}

// extracts every distinct job reference number from the query, in order
// of first appearance
func parseJobRefs(query string) []int {
	matches := jobRefPattern.FindAllStringSubmatch(query, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[int]bool)

	var refs []int

	for _, m := range matches {
		n, err := strconv.Atoi(m[1])
		if err != nil || n <= 0 || seen[n] {
			continue
		}

		seen[n] = true
		refs = append(refs, n)
	}

	return refs
}

// reports whether the query asks to compare documents
func isComparisonQuery(query string) bool {
	lower := strings.ToLower(query)

	for _, kw := range comparisonKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}

	return false
}
