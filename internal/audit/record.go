package audit

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/clearpathcoverage/dst-compiler/internal/domain"
)

// FindingsPerRecord is the fixed number of findings ValidateRecord emits for
// every record regardless of shape: checks 1–18 plus 22–24. Inapplicable
// checks record an explicit N/A pass instead of being omitted, so audit
// coverage itself stays auditable: total findings is always records × this.
const FindingsPerRecord = 21

// lastVerifiedMaxAgeDays is the curation staleness ceiling for STATE/HHS
// records: a human must have re-verified the source page within this window.
const lastVerifiedMaxAgeDays = 30

// ValidateRecord independently recomputes every derived field of one record
// from its own stored inputs and compares against what was persisted. Each
// numbered check emits exactly one finding; order of findings follows check
// number. Checks 19–21 are corpus-level and live in AuditCorpus.
func ValidateRecord(rec domain.DisasterRecord, today domain.Date, urls URLPolicy) []Finding {
	rid := rec.ID
	if rid == "" {
		rid = "MISSING-ID"
	}
	c := &recorder{entityID: rid}

	checkRequiredFields(c, rec)
	checkIDFormat(c, rec)

	// Check 3: source in the closed provider set.
	c.check(3, "Source is valid (SBA/FMCSA/HHS/USDA/STATE/FEMA)",
		"One of: SBA, FMCSA, HHS, USDA, STATE, FEMA", rec.Source,
		domain.ValidSources[rec.Source])

	// Check 4: state in the closed 56-code set.
	c.check(4, "State is valid 2-letter US state/territory code",
		"Valid state code", rec.State,
		domain.ValidStateCodes[rec.State])

	// Check 5: counties non-empty.
	c.check(5, "Counties array is non-empty",
		"At least 1 county", fmt.Sprintf("%d counties", len(rec.Counties)),
		len(rec.Counties) > 0)

	// Check 6: officialUrl present.
	c.check(6, "officialUrl is present and non-empty",
		"Non-empty URL", ellipsize(rec.OfficialURL),
		rec.OfficialURL != "")

	checkDateBounds(c, rec, today)
	checkWindowRederivation(c, rec)

	// Check 13: window still open as of today.
	switch {
	case rec.SEPWindowEnd.IsZero():
		c.check(13, "sepWindowEnd is null (should be calculated)",
			"Non-null date", "null", false)
	default:
		c.check(13, "sepWindowEnd >= today (not expired)",
			">= "+today.String(), rec.SEPWindowEnd,
			!rec.SEPWindowEnd.Before(today))
	}

	checkStatusTable(c, rec)

	// Check 18: the expired status is terminal and never persisted.
	c.check(18, "Status is not 'expired'",
		"Not 'expired'", rec.Status,
		rec.Status != domain.StatusExpired)

	checkLastVerified(c, rec, today)

	// Check 24: URL well-formed https under the source's expected domain.
	ok, reason := urls.Check(rec.Source, rec.OfficialURL)
	actual := "well-formed"
	if !ok {
		actual = reason
	}
	c.check(24, "officialUrl is well-formed https for its source",
		"https URL under expected domain", actual, ok)

	return c.findings
}

// checkRequiredFields is check 1: presence of every required field.
func checkRequiredFields(c *recorder, rec domain.DisasterRecord) {
	var missing []string
	requireNonEmpty := func(name, v string) {
		if v == "" {
			missing = append(missing, name)
		}
	}
	requireNonEmpty("id", rec.ID)
	requireNonEmpty("source", string(rec.Source))
	requireNonEmpty("state", rec.State)
	requireNonEmpty("title", rec.Title)
	requireNonEmpty("incidentType", rec.IncidentType)
	requireNonEmpty("officialUrl", rec.OfficialURL)
	requireNonEmpty("status", string(rec.Status))
	if rec.DeclarationDate.IsZero() {
		missing = append(missing, "declarationDate")
	}
	if rec.IncidentStart.IsZero() {
		missing = append(missing, "incidentStart")
	}
	if len(rec.Counties) == 0 {
		missing = append(missing, "counties")
	}
	if rec.SEPWindowStart.IsZero() {
		missing = append(missing, "sepWindowStart")
	}
	if rec.SEPWindowEnd.IsZero() {
		missing = append(missing, "sepWindowEnd")
	}

	actual := "No missing fields"
	if len(missing) > 0 {
		actual = "Missing: " + strings.Join(missing, ", ")
	}
	c.check(1, "Has all required fields", "No missing fields", actual, len(missing) == 0)
}

// checkIDFormat is check 2: composite-key shape SOURCE-...-STATE, with the
// FEMA exception FEMA-{DR|EM}-{number}-{state}.
func checkIDFormat(c *recorder, rec domain.DisasterRecord) {
	parts := strings.Split(rec.ID, "-")

	var valid bool
	if len(parts) >= 1 && parts[0] == string(domain.SourceFEMA) {
		valid = len(parts) == 4 &&
			(parts[1] == "DR" || parts[1] == "EM") &&
			isNumeric(parts[2]) &&
			domain.ValidStateCodes[parts[3]]
		c.check(2, "ID format matches FEMA-{DR|EM}-{number}-{state}",
			"FEMA-{DR|EM}-{number}-{state}", rec.ID, valid)
		return
	}

	valid = len(parts) >= 3 &&
		domain.ValidSources[domain.Source(parts[0])] &&
		domain.ValidStateCodes[parts[len(parts)-1]]
	c.check(2, "ID format matches SOURCE-...-SS pattern",
		"SOURCE-...-STATE", rec.ID, valid)
}

// checkDateBounds covers checks 7–9: declaration not in the future, incident
// start within the 24-month lookback, and incident ordering when ended.
func checkDateBounds(c *recorder, rec domain.DisasterRecord, today domain.Date) {
	// Check 7: declarationDate < tomorrow.
	c.check(7, "declarationDate is valid ISO date and not in the future",
		"Valid date <= "+today.String(), rec.DeclarationDate,
		!rec.DeclarationDate.IsZero() && !rec.DeclarationDate.After(today))

	// Check 8: incidentStart within the 24-month lookback.
	lookback := domain.AddMonths(today, -24)
	c.check(8, "incidentStart is valid and within 24 months",
		"Valid date >= "+lookback.String(), rec.IncidentStart,
		!rec.IncidentStart.IsZero() && !rec.IncidentStart.Before(lookback))

	// Check 9: incident period ordering, only meaningful when ended.
	if rec.IncidentEnd != nil {
		c.check(9, "incidentStart <= incidentEnd",
			fmt.Sprintf("incidentStart (%s) <= incidentEnd (%s)", rec.IncidentStart, rec.IncidentEnd),
			fmt.Sprintf("start=%s, end=%s", rec.IncidentStart, rec.IncidentEnd),
			!rec.IncidentStart.IsZero() && !rec.IncidentStart.After(*rec.IncidentEnd))
	} else {
		c.na(9, "incidentEnd is null (ongoing) - N/A")
	}
}

// checkWindowRederivation covers checks 10–12: recompute both window bounds
// from stored inputs and compare to the persisted values.
func checkWindowRederivation(c *recorder, rec domain.DisasterRecord) {
	// Check 10: sepWindowStart = min(declarationDate, incidentStart).
	if !rec.DeclarationDate.IsZero() && !rec.IncidentStart.IsZero() {
		expected := domain.SEPWindowStart(rec.DeclarationDate, rec.IncidentStart)
		c.check(10, "sepWindowStart = min(declarationDate, incidentStart)",
			expected, rec.SEPWindowStart,
			rec.SEPWindowStart.Equal(expected))
	} else {
		c.check(10, "sepWindowStart calculation (missing input dates)",
			"Calculable", "Missing declarationDate or incidentStart", false)
	}

	// Check 11: ended-incident window end.
	if rec.IncidentEnd != nil {
		expected := domain.LastDayOfMonthPlus(*rec.IncidentEnd, 2)
		c.check(11, "sepWindowEnd = last day of (incidentEnd.month + 2)",
			expected, rec.SEPWindowEnd,
			rec.SEPWindowEnd.Equal(expected))
	} else {
		c.na(11, "sepWindowEnd with incidentEnd - N/A (ongoing)")
	}

	// Check 12: ongoing window end with the renewal-extended anchor.
	if rec.IncidentEnd == nil && !rec.SEPWindowStart.IsZero() {
		anchor := rec.SEPWindowStart
		for _, r := range rec.RenewalDates {
			anchor = domain.MaxDate(anchor, r)
		}
		expected := domain.LastDayOfMonthPlus(anchor, 14)
		c.check(12, "sepWindowEnd (ongoing) = last day of (maxDate.month + 14)",
			expected, rec.SEPWindowEnd,
			rec.SEPWindowEnd.Equal(expected))
	} else {
		c.na(12, "sepWindowEnd ongoing calc - N/A (has incidentEnd)")
	}
}

// checkStatusTable covers checks 14–17: the status state machine, evaluated
// as independent N/A-or-checked branches for the ongoing and ended cases so
// a malformed record cannot silently skip validation.
func checkStatusTable(c *recorder, rec domain.DisasterRecord) {
	days := rec.DaysRemaining
	status := rec.Status

	if rec.IncidentEnd == nil {
		switch {
		case days != nil && *days > 30:
			c.check(14, "Ongoing + daysRemaining > 30 -> status='ongoing'",
				domain.StatusOngoing, status, status == domain.StatusOngoing)
			c.na(15, "N/A (daysRemaining > 30)")
		case days != nil:
			c.na(14, "N/A (daysRemaining <= 30)")
			c.check(15, "Ongoing + daysRemaining <= 30 -> status='expiring_soon'",
				domain.StatusExpiringSoon, status, status == domain.StatusExpiringSoon)
		default:
			c.na(14, "Cannot evaluate (daysRemaining missing)")
			c.na(15, "Cannot evaluate (daysRemaining missing)")
		}
		c.na(16, "N/A (ongoing disaster)")
		c.na(17, "N/A (ongoing disaster)")
		return
	}

	c.na(14, "N/A (has incidentEnd)")
	c.na(15, "N/A (has incidentEnd)")
	switch {
	case days != nil && *days > 30:
		c.check(16, "Has incidentEnd + daysRemaining > 30 -> status='active'",
			domain.StatusActive, status, status == domain.StatusActive)
		c.na(17, "N/A (daysRemaining > 30)")
	case days != nil:
		c.na(16, "N/A (daysRemaining <= 30)")
		c.check(17, "Has incidentEnd + daysRemaining <= 30 -> status='expiring_soon'",
			domain.StatusExpiringSoon, status, status == domain.StatusExpiringSoon)
	default:
		c.na(16, "Cannot evaluate (daysRemaining missing)")
		c.na(17, "Cannot evaluate (daysRemaining missing)")
	}
}

// checkLastVerified covers checks 22–23: curated providers (STATE/HHS) must
// carry a valid, recent lastVerified date. API-sourced providers are
// re-fetched every run and are explicitly N/A.
func checkLastVerified(c *recorder, rec domain.DisasterRecord, today domain.Date) {
	if !domain.CuratedSources[rec.Source] {
		c.na(22, "lastVerified check: N/A (not STATE/HHS)")
		c.na(23, "lastVerified staleness: N/A (not STATE/HHS)")
		return
	}

	if rec.LastVerified == nil {
		c.check(22, "lastVerified present and valid ISO date for STATE/HHS",
			"Valid date string", "missing", false)
		c.check(23, "lastVerified within "+strconv.Itoa(lastVerifiedMaxAgeDays)+" days for STATE/HHS",
			fmt.Sprintf("<= %d days old", lastVerifiedMaxAgeDays), "missing", false)
		return
	}

	c.check(22, "lastVerified present and valid ISO date for STATE/HHS",
		"Valid date string", *rec.LastVerified, true)

	age := rec.LastVerified.DaysUntil(today)
	c.check(23, "lastVerified within "+strconv.Itoa(lastVerifiedMaxAgeDays)+" days for STATE/HHS",
		fmt.Sprintf("<= %d days old", lastVerifiedMaxAgeDays),
		fmt.Sprintf("%d days old", age),
		age <= lastVerifiedMaxAgeDays && age >= 0)
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func ellipsize(s string) string {
	if s == "" {
		return "EMPTY"
	}
	if len(s) > 80 {
		return "'" + s[:80] + "...'"
	}
	return "'" + s + "'"
}
