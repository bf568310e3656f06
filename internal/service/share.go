package service

import (
	"sort"
	"strings"
)

// MergeShareEmails merges the emails entered in the share dialog (one
// comma-separated string, entries trimmed, blanks dropped) into an existing
// share list. The result is sorted ascending with exact duplicates removed.
// Neither input is modified.
func MergeShareEmails(existing []string, input string) []string {
	merged := make([]string, 0, len(existing)+4)
	merged = append(merged, existing...)
	for _, part := range strings.Split(input, ",") {
		if e := strings.TrimSpace(part); e != "" {
			merged = append(merged, e)
		}
	}
	sort.Strings(merged)

	out := merged[:0]
	prev := ""
	for i, e := range merged {
		if i == 0 || e != prev {
			out = append(out, e)
		}
		prev = e
	}
	return out
}

// RemoveShareEmail returns a copy of the share list without the given email.
func RemoveShareEmail(list []string, email string) []string {
	out := make([]string, 0, len(list))
	for _, e := range list {
		if e != email {
			out = append(out, e)
		}
	}
	return out
}
