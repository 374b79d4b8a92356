// Package domain models government disaster declarations and the Medicare
// Special Enrollment Period (SEP) windows they create.
//
// # Data Sources
//
// Records originate from six providers. SBA declarations are parsed from the
// Federal Register API, FEMA declarations from the OpenFEMA
// DisasterDeclarationsSummaries API, and HHS, FMCSA, USDA, and STATE
// (governor) declarations are manually curated. Upstream collector services
// publish each declaration as flat JSON to the Kafka source topic; this
// package never fetches anything itself.
//
// # SEP Window Rules (42 CFR § 422.62(b)(18))
//
// The SEP window opens at the earlier of the declaration date and the
// incident start date.
//
// When the incident has ended, the window closes on the last calendar day of
// the second full month after the incident end:
//
//	incidentEnd Jan 15 → window ends Mar 31
//	incidentEnd Nov 30 → window ends Jan 31 (next year)
//	incidentEnd Dec 31 → window ends Feb 28/29
//
// When the incident is still ongoing (no end date), the window closes on the
// last calendar day of the 14th month after the latest known activity date:
// the window start, or any later renewal date. Each recorded renewal slides
// the ceiling forward; it can never move it backward.
//
// All window math is month arithmetic resolved to the last day of the target
// month. Day-of-month addition is never used: adding days silently produces
// wrong eligibility dates across months of different lengths, which is the
// single most safety-critical rule in this system.
//
// # Status
//
// Status is a pure function of (hasIncidentEnd, daysRemaining) and is
// recomputed on every read. daysRemaining is always sepWindowEnd minus
// "today", so the same record naturally advances through
// ongoing/active → expiring_soon → expired as time passes. Records whose
// window has already expired at build time are discarded, never persisted.
//
// # IDs
//
// IDs are composite keys assigned by the collectors:
//
//	SOURCE-...-STATE        e.g. SBA-2025-16217-AK, STATE-2026-001-TX
//	FEMA-{DR|EM}-{num}-{ST} e.g. FEMA-DR-4857-KY
//
// The trailing state code and leading source tag make duplicates across
// providers detectable without a registry lookup.
package domain
