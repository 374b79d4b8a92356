// Command genfixtures generates mock disaster corpus fixtures for the audit
// suite. It compiles a representative set of raw provider records through the
// actual domain package so the fixture output matches real pipeline behavior,
// then writes the curated corpus, the all-sources corpus, a state declaration
// registry, and a state emergency law table.
//
// Usage:
//
//	go run ./cmd/genfixtures \
//	  -corpus-out testdata/curated_disasters.json \
//	  -all-out testdata/all_disasters.json \
//	  -registry-out testdata/state_registry.json \
//	  -laws-out testdata/state_emergency_laws.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/clearpathcoverage/dst-compiler/internal/audit"
	"github.com/clearpathcoverage/dst-compiler/internal/corpus"
	"github.com/clearpathcoverage/dst-compiler/internal/domain"
)

// Fixed clock so fixture hashes and statuses are reproducible.
var baseTime = time.Date(2026, time.February, 14, 6, 0, 0, 0, time.UTC)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	corpusOut := flag.String("corpus-out", "", "output path for the curated corpus JSON")
	allOut := flag.String("all-out", "", "output path for the all-sources corpus JSON")
	registryOut := flag.String("registry-out", "", "output path for the state registry JSON")
	lawsOut := flag.String("laws-out", "", "output path for the law table JSON")
	flag.Parse()

	if *corpusOut == "" || *allOut == "" || *registryOut == "" || *lawsOut == "" {
		flag.Usage()
		return fmt.Errorf("missing required flags: -corpus-out, -all-out, -registry-out, -laws-out")
	}

	clock := clockwork.NewFakeClockAt(baseTime)
	now := clock.Now()
	today := domain.DateOf(now)

	store := corpus.NewStore(*corpusOut, *allOut)
	kept := 0
	for _, raw := range rawFixtures() {
		rec, err := domain.BuildRecord(raw, today, now)
		if err != nil {
			return fmt.Errorf("compile fixture %s: %w", raw.ID, err)
		}
		if store.Upsert(rec) {
			kept++
		}
	}

	if err := store.Flush("genfixtures", today, now); err != nil {
		return fmt.Errorf("write corpus fixtures: %w", err)
	}

	if err := writeJSON(*registryOut, map[string]any{"declarations": registryFixtures()}); err != nil {
		return fmt.Errorf("write registry fixture: %w", err)
	}
	if err := writeJSON(*lawsOut, map[string]any{"laws": lawFixtures()}); err != nil {
		return fmt.Errorf("write law fixture: %w", err)
	}

	fmt.Printf("Wrote %d records (%s, %s), %d registry entries, %d laws\n",
		kept, *corpusOut, *allOut, len(registryFixtures()), len(lawFixtures()))
	return nil
}

// rawFixtures covers each provider, both incident shapes, a renewal chain,
// a statewide declaration, and federal coverage overlapping a curated state
// declaration.
func rawFixtures() []domain.RawProviderRecord {
	return []domain.RawProviderRecord{
		{
			ID:              "FEMA-DR-4781-TX",
			Source:          "FEMA",
			State:           "TX",
			Title:           "Severe Storms and Flooding",
			IncidentType:    "Flood",
			DeclarationDate: "2026-01-12",
			IncidentStart:   "2026-01-08",
			IncidentEnd:     "2026-01-29",
			Counties:        []string{"Harris", "Galveston (County)"},
			OfficialURL:     "https://www.fema.gov/disaster/4781",
		},
		{
			ID:              "STATE-WILDFIRE-2026-CA",
			Source:          "STATE",
			State:           "CA",
			Title:           "Wildfire State of Emergency",
			IncidentType:    "Fire",
			DeclarationDate: "2025-11-03",
			IncidentStart:   "2025-10-28",
			RenewalDates:    []string{"2025-12-30"},
			Counties:        []string{"Los Angeles", "Ventura"},
			OfficialURL:     "https://www.gov.ca.gov/emergency/wildfire-2026",
			LastVerified:    "2026-02-01",
		},
		{
			ID:              "FEMA-DR-4790-CA",
			Source:          "FEMA",
			State:           "CA",
			Title:           "Wildfires (Federal Declaration)",
			IncidentType:    "Fire",
			DeclarationDate: "2025-11-05",
			IncidentStart:   "2025-10-28",
			Counties:        []string{"Los Angeles", "Ventura"},
			OfficialURL:     "https://www.fema.gov/disaster/4790",
		},
		{
			ID:              "HHS-PHE-FLU-2026-NY",
			Source:          "HHS",
			State:           "NY",
			Title:           "Public Health Emergency: Influenza Surge",
			IncidentType:    "Public Health",
			DeclarationDate: "2026-01-20",
			IncidentStart:   "2026-01-15",
			Statewide:       true,
			OfficialURL:     "https://aspr.hhs.gov/legal/PHE/Pages/influenza-ny.aspx",
			LastVerified:    "2026-02-10",
		},
		{
			ID:              "SBA-18999-FL",
			Source:          "SBA",
			State:           "FL",
			Title:           "Hurricane Economic Injury Declaration",
			IncidentType:    "Hurricane",
			DeclarationDate: "2025-12-18",
			IncidentStart:   "2025-12-15",
			IncidentEnd:     "2025-12-22",
			Counties:        []string{"Monroe", "Miami-Dade"},
			OfficialURL:     "https://www.sba.gov/funding-programs/disaster-assistance/18999",
		},
		{
			ID:              "FMCSA-ESC-2026-02-OK",
			Source:          "FMCSA",
			State:           "OK",
			Title:           "Regional Emergency: Winter Storm",
			IncidentType:    "Winter Storm",
			DeclarationDate: "2026-02-02",
			IncidentStart:   "2026-02-01",
			Statewide:       true,
			OfficialURL:     "https://www.fmcsa.dot.gov/emergency/regional-declaration-2026-02",
		},
	}
}

func registryFixtures() []audit.StateDeclaration {
	lastReview := domain.NewDate(2026, time.February, 1)
	staleReview := domain.NewDate(2025, time.October, 1)
	end := domain.NewDate(2025, time.December, 22)
	return []audit.StateDeclaration{
		{
			ID:              "STATE-WILDFIRE-2026-CA",
			State:           "CA",
			DeclarationDate: domain.NewDate(2025, time.November, 3),
			RenewalDates:    []domain.Date{domain.NewDate(2025, time.December, 30)},
			EndDateDetermination: audit.EndDateDetermination{
				Method: audit.MethodStillActive,
				Note:   "governor's office confirms active operations",
			},
			Verification: audit.Verification{LastHumanReview: &lastReview},
		},
		{
			ID:              "SBA-18999-FL",
			State:           "FL",
			DeclarationDate: domain.NewDate(2025, time.December, 18),
			IncidentEnd:     &end,
			EndDateDetermination: audit.EndDateDetermination{
				Method: "official_notice",
			},
			Verification: audit.Verification{LastHumanReview: &staleReview},
		},
	}
}

func lawFixtures() []audit.StateEmergencyLaw {
	days := 180
	return []audit.StateEmergencyLaw{
		{StateCode: "CA", AutoTerminates: false},
		{StateCode: "OK", AutoTerminates: true, DefaultDurationDays: &days},
	}
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
