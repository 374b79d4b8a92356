package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrExpiredWindow marks a record whose SEP window had already closed at
// build time. Expired records are dropped, never persisted; the pipeline
// counts them separately from malformed input.
var ErrExpiredWindow = errors.New("sep window expired")

// ParseRawRecord deserializes a RawEvent's value into the provider record
// structure published by the collector services.
func ParseRawRecord(raw RawEvent) (RawProviderRecord, error) {
	var rec RawProviderRecord
	if err := json.Unmarshal(raw.Value, &rec); err != nil {
		return RawProviderRecord{}, fmt.Errorf("parse raw record: %w", err)
	}
	return rec, nil
}

// BuildRecord validates a raw provider record and stamps it with every
// computed field: window bounds, daysRemaining, status, and the lastUpdated
// timestamp. today drives all time-dependent fields and now is recorded
// verbatim, so callers with a frozen clock get byte-identical output.
//
// Returns an error wrapping ErrInvalidInput for structurally unusable input
// and ErrExpiredWindow when the window closed before today.
func BuildRecord(raw RawProviderRecord, today Date, now time.Time) (DisasterRecord, error) {
	if raw.ID == "" {
		return DisasterRecord{}, &InputError{Field: "id", Reason: "missing"}
	}
	source := Source(raw.Source)
	if !ValidSources[source] {
		return DisasterRecord{}, &InputError{Field: "source", Reason: fmt.Sprintf("unknown source %q", raw.Source)}
	}
	if !ValidStateCodes[raw.State] {
		return DisasterRecord{}, &InputError{Field: "state", Reason: fmt.Sprintf("unknown state code %q", raw.State)}
	}
	if raw.OfficialURL == "" {
		return DisasterRecord{}, &InputError{Field: "officialUrl", Reason: "missing"}
	}

	declaration, err := ParseDate(raw.DeclarationDate)
	if err != nil {
		return DisasterRecord{}, &InputError{Field: "declarationDate", Reason: "missing or unparseable"}
	}
	incidentStart, err := ParseDate(raw.IncidentStart)
	if err != nil {
		return DisasterRecord{}, &InputError{Field: "incidentStart", Reason: "missing or unparseable"}
	}
	if declaration.After(today) {
		return DisasterRecord{}, &InputError{Field: "declarationDate", Reason: "in the future"}
	}

	var incidentEnd *Date
	if raw.IncidentEnd != "" {
		end, err := ParseDate(raw.IncidentEnd)
		if err != nil {
			return DisasterRecord{}, &InputError{Field: "incidentEnd", Reason: "unparseable"}
		}
		if incidentStart.After(end) {
			return DisasterRecord{}, &InputError{Field: "incidentEnd", Reason: "before incidentStart"}
		}
		incidentEnd = &end
	}

	var renewals []Date
	for _, s := range raw.RenewalDates {
		r, err := ParseDate(s)
		if err != nil {
			return DisasterRecord{}, &InputError{Field: "renewalDates", Reason: fmt.Sprintf("unparseable entry %q", s)}
		}
		renewals = append(renewals, r)
	}

	counties, statewide := NormalizeCounties(raw.Counties)
	if raw.Statewide && !statewide {
		statewide = true
		counties = append([]string{StatewideCounty}, counties...)
	}
	if len(counties) == 0 {
		return DisasterRecord{}, &InputError{Field: "counties", Reason: "empty"}
	}

	window, err := ComputeWindow(declaration, incidentStart, incidentEnd, renewals)
	if err != nil {
		return DisasterRecord{}, err
	}

	daysRem := DaysRemaining(window.End, today)
	if daysRem < 0 {
		return DisasterRecord{}, fmt.Errorf("%s: closed %s, %d days before today: %w",
			raw.ID, window.End, -daysRem, ErrExpiredWindow)
	}
	status := Classify(incidentEnd != nil, daysRem)

	confidence := Confidence(raw.ConfidenceLevel)
	if confidence == "" {
		if source == SourceFEMA || source == SourceSBA {
			confidence = ConfidenceVerified
		} else {
			confidence = ConfidenceCurated
		}
	}

	var lastVerified *Date
	if raw.LastVerified != "" {
		lv, err := ParseDate(raw.LastVerified)
		if err != nil {
			return DisasterRecord{}, &InputError{Field: "lastVerified", Reason: "unparseable"}
		}
		lastVerified = &lv
	}

	return DisasterRecord{
		ID:              raw.ID,
		Source:          source,
		State:           raw.State,
		Title:           raw.Title,
		IncidentType:    raw.IncidentType,
		DeclarationDate: declaration,
		IncidentStart:   incidentStart,
		IncidentEnd:     incidentEnd,
		RenewalDates:    renewals,
		Counties:        counties,
		Statewide:       statewide,
		OfficialURL:     raw.OfficialURL,
		Status:          status,
		SEPWindowStart:  window.Start,
		SEPWindowEnd:    window.End,
		DaysRemaining:   &daysRem,
		ConfidenceLevel: confidence,
		LastVerified:    lastVerified,
		LastUpdated:     now.UTC().Truncate(time.Second),
	}, nil
}

// Recompute refreshes the time-varying fields of an already-built record:
// daysRemaining, status, and lastUpdated. All write-once fields pass through
// untouched, so recomputing at the same instant is a no-op apart from the
// lastUpdated stamp.
func Recompute(rec DisasterRecord, today Date, now time.Time) DisasterRecord {
	daysRem := DaysRemaining(rec.SEPWindowEnd, today)
	rec.DaysRemaining = &daysRem
	rec.Status = Classify(rec.IncidentEnd != nil, daysRem)
	rec.LastUpdated = now.UTC().Truncate(time.Second)
	return rec
}
