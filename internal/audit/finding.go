// Package audit re-derives every computed field of a disaster corpus from
// stored inputs and compares against what was persisted, accumulating one
// finding per check. It never aborts on the first failure: the value of an
// audit run is the complete map of which checks failed for which records.
package audit

import (
	"fmt"
	"sort"
)

// Severity classifies a finding.
//
//	FAIL: an invariant is violated; drives the non-zero exit code.
//	WARN: a reviewable ambiguity; surfaced, never blocking.
//	N/A:  the check does not apply to this record's shape; recorded as a
//	      pass so the finding count per record stays constant.
type Severity string

const (
	SeverityFail Severity = "FAIL"
	SeverityWarn Severity = "WARN"
	SeverityNA   Severity = "N/A"
)

// Finding is the unit of audit output. Never mutated once recorded.
type Finding struct {
	EntityID    string
	Check       int
	Description string
	Expected    string
	Actual      string
	Passed      bool
	Severity    Severity
}

// Report accumulates findings across all checks and records.
type Report struct {
	Findings []Finding
}

// Add appends findings to the report.
func (r *Report) Add(findings ...Finding) {
	r.Findings = append(r.Findings, findings...)
}

// Passes counts findings that passed, including explicit N/A passes.
func (r *Report) Passes() int {
	n := 0
	for _, f := range r.Findings {
		if f.Passed {
			n++
		}
	}
	return n
}

// Failures returns all FAIL-severity findings that did not pass.
func (r *Report) Failures() []Finding {
	var out []Finding
	for _, f := range r.Findings {
		if !f.Passed && f.Severity == SeverityFail {
			out = append(out, f)
		}
	}
	return out
}

// Warnings returns all WARN-severity findings that did not pass.
func (r *Report) Warnings() []Finding {
	var out []Finding
	for _, f := range r.Findings {
		if !f.Passed && f.Severity == SeverityWarn {
			out = append(out, f)
		}
	}
	return out
}

// Failed reports whether any structural (FAIL-severity) check failed.
// Warnings never block.
func (r *Report) Failed() bool { return len(r.Failures()) > 0 }

// FailuresByCheck aggregates failure counts keyed by check number,
// in ascending check order.
func (r *Report) FailuresByCheck() ([]int, map[int]int) {
	counts := make(map[int]int)
	for _, f := range r.Failures() {
		counts[f.Check]++
	}
	checks := make([]int, 0, len(counts))
	for c := range counts {
		checks = append(checks, c)
	}
	sort.Ints(checks)
	return checks, counts
}

// FailuresByRecord aggregates failed check numbers keyed by entity ID,
// in ascending ID order.
func (r *Report) FailuresByRecord() ([]string, map[string][]int) {
	byID := make(map[string][]int)
	for _, f := range r.Failures() {
		byID[f.EntityID] = append(byID[f.EntityID], f.Check)
	}
	ids := make([]string, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
		sort.Ints(byID[id])
	}
	sort.Strings(ids)
	return ids, byID
}

// recorder emits findings bound to one entity, mirroring the one-check ==
// one-finding discipline: every check always runs and always records.
type recorder struct {
	entityID string
	findings []Finding
}

func (c *recorder) check(num int, description string, expected, actual any, passed bool) {
	c.emit(num, description, expected, actual, passed, SeverityFail)
}

func (c *recorder) warn(num int, description string, expected, actual any, passed bool) {
	c.emit(num, description, expected, actual, passed, SeverityWarn)
}

// na records an explicit not-applicable pass so coverage stays uniform.
func (c *recorder) na(num int, description string) {
	c.emit(num, description, "N/A", "N/A", true, SeverityNA)
}

func (c *recorder) emit(num int, description string, expected, actual any, passed bool, sev Severity) {
	c.findings = append(c.findings, Finding{
		EntityID:    c.entityID,
		Check:       num,
		Description: description,
		Expected:    fmt.Sprint(expected),
		Actual:      fmt.Sprint(actual),
		Passed:      passed,
		Severity:    sev,
	})
}
