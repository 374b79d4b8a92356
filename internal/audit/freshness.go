package audit

import (
	"fmt"

	"github.com/clearpathcoverage/dst-compiler/internal/domain"
)

// End-date determination methods recorded by the curation team for ongoing
// declarations. "unknown" is the sentinel meaning nobody has established why
// the declaration is still open, itself an audit failure.
const (
	MethodUnknown     = "unknown"
	MethodStillActive = "still_active"
)

// Staleness tiers for ongoing curated declarations, in days since the
// declaration date.
const (
	staleWarnDays = 60  // reviewable: probably terminated, nobody updated it
	staleFailDays = 120 // hard failure: entry cannot be trusted
	reviewMaxDays = 30  // a human must have signed off this recently
)

// EndDateDetermination records how the curation team established whether an
// ongoing declaration is still in force.
type EndDateDetermination struct {
	Method string `json:"method"` // e.g. "official_termination", "still_active", "unknown"
	Note   string `json:"note,omitempty"`
}

// Verification is the human-review trail on a curated declaration.
type Verification struct {
	LastHumanReview *domain.Date `json:"lastHumanReview"`
	NeedsReview     bool         `json:"needsReview"`
}

// StateDeclaration is one entry in the manually curated state-declarations
// registry, the freshness auditor's subject.
type StateDeclaration struct {
	ID                   string               `json:"id"`
	State                string               `json:"state"`
	DeclarationDate      domain.Date          `json:"declarationDate"`
	IncidentEnd          *domain.Date         `json:"incidentEnd"`
	RenewalDates         []domain.Date        `json:"renewalDates"`
	EndDateDetermination EndDateDetermination `json:"endDateDetermination"`
	Verification         Verification         `json:"verification"`
}

// StateEmergencyLaw is reference data: whether a state's emergency
// declarations terminate automatically, and after how many days. Read-only
// to the auditor.
type StateEmergencyLaw struct {
	StateCode           string `json:"stateCode"`
	AutoTerminates      bool   `json:"autoTerminates"`
	DefaultDurationDays *int   `json:"defaultDurationDays"`
}

// LawTable indexes state emergency law by state code.
type LawTable map[string]StateEmergencyLaw

// Freshness check numbers. They continue the record/corpus numbering so a
// consolidated report has one flat check-number space.
const (
	checkEndMethod    = 26
	checkStaleness    = 27
	checkStateLawCeil = 28
	checkHumanReview  = 29
	checkNeedsReview  = 30
)

// FindingsPerDeclaration is the fixed finding count AuditFreshness emits per
// registry entry.
const FindingsPerDeclaration = 5

// AuditFreshness runs the curation-health checks over the state-declarations
// registry. Every check is evaluated and reported independently; an entry
// can pass the generic staleness ceiling yet fail the tighter state-law one,
// and both findings must appear.
//
// Ended entries (incidentEnd present) need no freshness tracking: the window
// math is anchored to a recorded end date, so all five checks are N/A.
func AuditFreshness(registry []StateDeclaration, laws LawTable, today domain.Date) []Finding {
	var findings []Finding
	for _, decl := range registry {
		findings = append(findings, auditDeclaration(decl, laws, today)...)
	}
	return findings
}

func auditDeclaration(decl StateDeclaration, laws LawTable, today domain.Date) []Finding {
	c := &recorder{entityID: decl.ID}

	if decl.IncidentEnd != nil {
		c.na(checkEndMethod, "End-date method: N/A (incident ended)")
		c.na(checkStaleness, "Staleness: N/A (incident ended)")
		c.na(checkStateLawCeil, "State-law ceiling: N/A (incident ended)")
		c.na(checkHumanReview, "Human review: N/A (incident ended)")
		c.na(checkNeedsReview, "Needs-review flag: N/A (incident ended)")
		return c.findings
	}

	age := decl.DeclarationDate.DaysUntil(today)
	hasRenewal := len(decl.RenewalDates) > 0
	method := decl.EndDateDetermination.Method
	justified := hasRenewal || method == MethodStillActive

	// Check 26: a human must have recorded why the entry is still open.
	c.check(checkEndMethod, "End-date determination method is recorded",
		"Not 'unknown'", orEmpty(method),
		method != "" && method != MethodUnknown)

	// Check 27: generic staleness ladder. 60 days is a reviewable warning,
	// 120 a hard failure, unless renewal evidence or an explicit
	// still_active determination justifies the age.
	switch {
	case justified:
		c.check(checkStaleness, "Declaration age justified by renewal or still_active",
			"renewal evidence or still_active", ageActual(age, decl), true)
	case age > staleFailDays:
		c.check(checkStaleness, fmt.Sprintf("Ongoing declaration older than %d days without justification", staleFailDays),
			fmt.Sprintf("<= %d days or justification", staleFailDays), ageActual(age, decl), false)
	case age > staleWarnDays:
		c.warn(checkStaleness, fmt.Sprintf("Ongoing declaration older than %d days without justification", staleWarnDays),
			fmt.Sprintf("<= %d days or justification", staleWarnDays), ageActual(age, decl), false)
	default:
		c.check(checkStaleness, "Ongoing declaration within staleness ceiling",
			fmt.Sprintf("<= %d days", staleWarnDays), ageActual(age, decl), true)
	}

	// Check 28: state-law ceiling, independent of check 27. Some states
	// auto-terminate declarations after a statutory duration tighter than
	// the generic ladder.
	law, hasLaw := laws[decl.State]
	switch {
	case !hasLaw || !law.AutoTerminates || law.DefaultDurationDays == nil:
		c.na(checkStateLawCeil, "State-law ceiling: N/A (no auto-termination statute)")
	case justified:
		c.check(checkStateLawCeil, "State-law ceiling waived by renewal or still_active",
			"renewal evidence or still_active", ageActual(age, decl), true)
	default:
		limit := *law.DefaultDurationDays
		c.check(checkStateLawCeil,
			fmt.Sprintf("%s law auto-terminates declarations after %d days", decl.State, limit),
			fmt.Sprintf("<= %d days or renewal", limit), ageActual(age, decl),
			age <= limit)
	}

	// Check 29: human sign-off recency.
	review := decl.Verification.LastHumanReview
	if review == nil {
		c.check(checkHumanReview, "Human review within 30 days",
			fmt.Sprintf("reviewed <= %d days ago", reviewMaxDays), "never reviewed", false)
	} else {
		reviewAge := review.DaysUntil(today)
		c.check(checkHumanReview, "Human review within 30 days",
			fmt.Sprintf("reviewed <= %d days ago", reviewMaxDays),
			fmt.Sprintf("%d days ago (%s)", reviewAge, review),
			reviewAge >= 0 && reviewAge <= reviewMaxDays)
	}

	// Check 30: an explicit needs-review flag fails until cleared.
	c.check(checkNeedsReview, "Entry is not flagged for review",
		"needsReview=false", fmt.Sprintf("needsReview=%t", decl.Verification.NeedsReview),
		!decl.Verification.NeedsReview)

	return c.findings
}

func ageActual(age int, decl StateDeclaration) string {
	s := fmt.Sprintf("%d days since declaration (%s)", age, decl.DeclarationDate)
	if len(decl.RenewalDates) > 0 {
		s += fmt.Sprintf(", %d renewal(s)", len(decl.RenewalDates))
	}
	if m := decl.EndDateDetermination.Method; m != "" {
		s += ", method=" + m
	}
	return s
}

func orEmpty(s string) string {
	if s == "" {
		return "EMPTY"
	}
	return s
}
