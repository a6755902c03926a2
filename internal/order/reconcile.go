package order

import (
	"fmt"
	"strings"
)

// IssueKind classifies a reconciliation problem.
type IssueKind string

const (
	IssueDuplicate     IssueKind = "duplicate"
	IssueMissing       IssueKind = "missing"
	IssueUnknown       IssueKind = "unknown"
	IssueCountMismatch IssueKind = "count_mismatch"
)

// Issue is one reconciliation problem.
type Issue struct {
	Kind    IssueKind `json:"kind"`
	Names   []string  `json:"names,omitempty"`
	Message string    `json:"message"`
}

// Result is the outcome of Reconcile. Order holds the trimmed, non-blank
// proposed names with duplicates preserved.
type Result struct {
	Issues []Issue  `json:"issues"`
	Order  []string `json:"order"`
}

// Valid reports whether the proposed order can be applied.
func (r Result) Valid() bool {
	return len(r.Issues) == 0
}

// Messages returns the human-readable issue descriptions.
func (r Result) Messages() []string {
	out := make([]string, 0, len(r.Issues))
	for _, issue := range r.Issues {
		out = append(out, issue.Message)
	}
	return out
}

// Reconcile validates proposed lines against the currently loaded names.
// Every check runs regardless of earlier failures.
func Reconcile(lines []string, current []string) Result {
	proposed := make([]string, 0, len(lines))
	for _, line := range lines {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			proposed = append(proposed, trimmed)
		}
	}

	issues := make([]Issue, 0, 4)

	counts := make(map[string]int, len(proposed))
	firstSeen := make([]string, 0, len(proposed))
	for _, name := range proposed {
		if counts[name] == 0 {
			firstSeen = append(firstSeen, name)
		}
		counts[name]++
	}
	var dups []string
	var dupLabels []string
	for _, name := range firstSeen {
		if c := counts[name]; c > 1 {
			dups = append(dups, name)
			dupLabels = append(dupLabels, fmt.Sprintf("%s (x%d)", name, c))
		}
	}
	if len(dups) > 0 {
		issues = append(issues, Issue{
			Kind:    IssueDuplicate,
			Names:   dups,
			Message: bulletList("Duplicate entries in order file:", dupLabels),
		})
	}

	currentSet := make(map[string]struct{}, len(current))
	for _, name := range current {
		currentSet[name] = struct{}{}
	}

	var missing []string
	for _, name := range current {
		if _, ok := counts[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		issues = append(issues, Issue{
			Kind:    IssueMissing,
			Names:   missing,
			Message: bulletList("Missing filenames (present in grid but not in file):", missing),
		})
	}

	var unknown []string
	for _, name := range firstSeen {
		if _, ok := currentSet[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		issues = append(issues, Issue{
			Kind:    IssueUnknown,
			Names:   unknown,
			Message: bulletList("Unknown filenames (present in file but not loaded):", unknown),
		})
	}

	if len(counts) != len(currentSet) {
		issues = append(issues, Issue{
			Kind: IssueCountMismatch,
			Message: fmt.Sprintf("Count mismatch: grid has %d unique clips, file lists %d.",
				len(currentSet), len(counts)),
		})
	}

	return Result{Issues: issues, Order: proposed}
}

func bulletList(header string, entries []string) string {
	var b strings.Builder
	b.WriteString(header)
	for _, entry := range entries {
		b.WriteString("\n- ")
		b.WriteString(entry)
	}
	return b.String()
}
