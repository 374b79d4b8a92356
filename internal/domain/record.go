package domain

import (
	"context"
	"time"
)

// Source identifies the government provider a record came from.
type Source string

const (
	SourceSBA   Source = "SBA"
	SourceFMCSA Source = "FMCSA"
	SourceHHS   Source = "HHS"
	SourceUSDA  Source = "USDA"
	SourceState Source = "STATE"
	SourceFEMA  Source = "FEMA"
)

// ValidSources is the closed set of record providers.
var ValidSources = map[Source]bool{
	SourceSBA:   true,
	SourceFMCSA: true,
	SourceHHS:   true,
	SourceUSDA:  true,
	SourceState: true,
	SourceFEMA:  true,
}

// CuratedSources are manually researched providers whose records require a
// lastVerified date. API-sourced providers are re-fetched on every run and
// carry no such field.
var CuratedSources = map[Source]bool{
	SourceState: true,
	SourceHHS:   true,
}

// Status is the lifecycle stage of a record's SEP window.
type Status string

const (
	StatusOngoing      Status = "ongoing"
	StatusActive       Status = "active"
	StatusExpiringSoon Status = "expiring_soon"
	StatusExpired      Status = "expired"
)

// Confidence distinguishes machine-verified records from curated ones.
type Confidence string

const (
	ConfidenceVerified Confidence = "verified"
	ConfidenceCurated  Confidence = "curated"
)

// StatewideCounty is the sentinel county name marking a statewide declaration.
const StatewideCounty = "Statewide"

// ValidStateCodes is the closed set of 56 two-letter state and territory codes.
var ValidStateCodes = map[string]bool{
	"AL": true, "AK": true, "AZ": true, "AR": true, "CA": true, "CO": true,
	"CT": true, "DE": true, "FL": true, "GA": true, "HI": true, "ID": true,
	"IL": true, "IN": true, "IA": true, "KS": true, "KY": true, "LA": true,
	"ME": true, "MD": true, "MA": true, "MI": true, "MN": true, "MS": true,
	"MO": true, "MT": true, "NE": true, "NV": true, "NH": true, "NJ": true,
	"NM": true, "NY": true, "NC": true, "ND": true, "OH": true, "OK": true,
	"OR": true, "PA": true, "RI": true, "SC": true, "SD": true, "TN": true,
	"TX": true, "UT": true, "VT": true, "VA": true, "WA": true, "WV": true,
	"WI": true, "WY": true, "DC": true, "PR": true, "VI": true, "GU": true,
	"AS": true, "MP": true,
}

// RawProviderRecord is the flat JSON structure the collector services publish
// to the source topic: identity, provenance, geography, and input dates as
// strings. Computed fields (window, status, daysRemaining) are absent; the
// compiler stamps them.
type RawProviderRecord struct {
	ID              string   `json:"id"`
	Source          string   `json:"source"`
	State           string   `json:"state"`
	Title           string   `json:"title"`
	IncidentType    string   `json:"incidentType"`
	DeclarationDate string   `json:"declarationDate"`
	IncidentStart   string   `json:"incidentStart"`
	IncidentEnd     string   `json:"incidentEnd,omitempty"`
	RenewalDates    []string `json:"renewalDates,omitempty"`
	Counties        []string `json:"counties"`
	Statewide       bool     `json:"statewide"`
	OfficialURL     string   `json:"officialUrl"`
	ConfidenceLevel string   `json:"confidenceLevel"`
	LastVerified    string   `json:"lastVerified,omitempty"`
}

// RawEvent is an unprocessed message from the source topic.
type RawEvent struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

/// DisasterRecord is the central entity: an assertion that a disaster
// declaration creates Medicare SEP eligibility for the named geography.
// Once computed, all fields except DaysRemaining, Status, LastVerified, and
// LastUpdated are write-once per ID.
type DisasterRecord struct {
	ID           string `json:"id"`
	Source       Source `json:"source"`
	State        string `json:"state"`
	Title        string `json:"title"`
	IncidentType string `json:"incidentType"`

	DeclarationDate Date   `json:"declarationDate"`
	IncidentStart   Date   `json:"incidentStart"`
	IncidentEnd     *Date  `json:"incidentEnd"`
	RenewalDates    []Date `json:"renewalDates"`

	Counties  []string `json:"counties"`
	Statewide bool     `json:"statewide"`

	OfficialURL string `json:"officialUrl"`

	Status         Status `json:"status"`
	SEPWindowStart Date   `json:"sepWindowStart"`
	SEPWindowEnd   Date   `json:"sepWindowEnd"`
	DaysRemaining  *int   `json:"daysRemaining"`

	ConfidenceLevel Confidence `json:"confidenceLevel"`
	LastVerified    *Date      `json:"lastVerified,omitempty"`
	LastUpdated     time.Time  `json:"lastUpdated"`
}

// Ongoing reports whether the record's incident has no recorded end.
func (r *DisasterRecord) Ongoing() bool { return r.IncidentEnd == nil }

// Metadata is the envelope header persisted alongside the record array.
type Metadata struct {
	LastUpdated  time.Time      `json:"lastUpdated"`
	RecordCount  int            `json:"recordCount"`
	GeneratedBy  string         `json:"generatedBy"`
	ContentHash  string         `json:"contentHash"`
	SourceCounts map[string]int `json:"sourceCounts"`
}

// Envelope is the persisted corpus format: a metadata header plus the full
// record array. metadata.recordCount must equal len(disasters).
type Envelope struct {
	Metadata  Metadata         `json:"metadata"`
	Disasters []DisasterRecord `json:"disasters"`
}
