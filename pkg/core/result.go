package core

import (
	"fmt"
	"sort"
	"time"
)

// Kind classifies a violation.
type Kind string

const (
	KindParse  Kind = "parse"
	KindSchema Kind = "schema"
	KindSize   Kind = "size"
	KindIO     Kind = "io"
	KindRule   Kind = "rule"
)

// Violation is a single failed constraint within one document.
type Violation struct {
	Kind Kind `json:"kind"`
	// Document is the index of the offending document within a multi-document stream.
	Document int `json:"document,omitempty"`
	// Pointer locates the offending value within the document (JSON pointer syntax).
	// Empty for whole-file violations.
	Pointer    string `json:"pointer,omitempty"`
	Constraint string `json:"constraint,omitempty"`
	Message    string `json:"message"`
	// Actual and Threshold are set for size violations.
	Actual    int64 `json:"actual,omitempty"`
	Threshold int64 `json:"threshold,omitempty"`
}

func (v Violation) String() string {
	loc := v.Pointer
	if loc == "" {
		loc = "/"
	}
	if v.Document > 0 {
		loc = fmt.Sprintf("doc[%d]%s", v.Document, loc)
	}
	switch v.Kind {
	case KindParse, KindIO, KindSize:
		return fmt.Sprintf("%s: %s", v.Kind, v.Message)
	}
	return fmt.Sprintf("%s %s: %s", v.Kind, loc, v.Message)
}

// SizeViolation builds the violation reported for an undersized file.
func SizeViolation(actual, threshold int64) Violation {
	return Violation{
		Kind:       KindSize,
		Constraint: "minSize",
		Message:    fmt.Sprintf("%d bytes is below the minimum of %d", actual, threshold),
		Actual:     actual,
		Threshold:  threshold,
	}
}

// SortViolations orders violations by document, pointer and message, keeping
// whole-file kinds (parse, io, size) in front of structural ones.
func SortViolations(vs []Violation) {
	rank := func(k Kind) int {
		switch k {
		case KindIO:
			return 0
		case KindParse:
			return 1
		case KindSize:
			return 2
		case KindSchema:
			return 3
		default:
			return 4
		}
	}
	sort.SliceStable(vs, func(i, j int) bool {
		a, b := vs[i], vs[j]
		if rank(a.Kind) != rank(b.Kind) {
			return rank(a.Kind) < rank(b.Kind)
		}
		if a.Document != b.Document {
			return a.Document < b.Document
		}
		if a.Pointer != b.Pointer {
			return a.Pointer < b.Pointer
		}
		return a.Message < b.Message
	})
}

// Result is the validation outcome for one document.
type Result struct {
	Path       string      `json:"path"` // Slash-separated, relative to the run root
	Size       int64       `json:"size"`
	Violations []Violation `json:"violations,omitempty"`
}

// Passed reports whether the document has no violations.
func (r Result) Passed() bool {
	return len(r.Violations) == 0
}

// Has reports whether the result carries a violation of the given kind.
func (r Result) Has(kind Kind) bool {
	for _, v := range r.Violations {
		if v.Kind == kind {
			return true
		}
	}
	return false
}

// Finding is the outcome of a repository layout check.
type Finding struct {
	Check   string `json:"check"`
	Passed  bool   `json:"passed"`
	Message string `json:"message"`
}

// Report aggregates the results of a validation run.
type Report struct {
	ID        string        `json:"id"`
	Root      string        `json:"root"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
	Results   []Result      `json:"results"`
	Layout    []Finding     `json:"layout,omitempty"`
	Total     int           `json:"total"`
	Passed    int           `json:"passed"`
	Failed    int           `json:"failed"`
}

// NewReport sorts results by path and computes the counts.
func NewReport(id, root string, startedAt time.Time, results []Result) *Report {
	sorted := make([]Result, len(results))
	copy(sorted, results)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Path < sorted[j].Path })

	r := &Report{
		ID:        id,
		Root:      root,
		StartedAt: startedAt,
		Results:   sorted,
		Total:     len(sorted),
	}
	for _, res := range sorted {
		if res.Passed() {
			r.Passed++
		} else {
			r.Failed++
		}
	}
	return r
}

// LayoutFailed returns the number of failed layout findings.
func (r *Report) LayoutFailed() int {
	n := 0
	for _, f := range r.Layout {
		if !f.Passed {
			n++
		}
	}
	return n
}

// OK reports whether the run produced no violation of any kind.
func (r *Report) OK() bool {
	return r.Failed == 0 && r.LayoutFailed() == 0
}

// Failures returns the results that carry at least one violation.
func (r *Report) Failures() []Result {
	var out []Result
	for _, res := range r.Results {
		if !res.Passed() {
			out = append(out, res)
		}
	}
	return out
}
