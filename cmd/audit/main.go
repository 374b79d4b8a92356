// Command audit re-derives every computed field of the compiled disaster
// corpus from its stored inputs and verifies the persisted values match.
// It runs four phases: per-record validation of the curated corpus,
// structural validation of the curated corpus, validation of the
// FEMA-inclusive corpus, and freshness review of ongoing state declarations.
//
// Usage:
//
//	go run ./cmd/audit \
//	  -corpus curated_disasters.json \
//	  -all-corpus all_disasters.json \
//	  -registry state_registry.json \
//	  -laws state_emergency_laws.json \
//	  -today 2026-02-14
//
// Exit code is non-zero only when a FAIL-severity finding exists; warnings
// are surfaced but never block.
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/jonboulle/clockwork"

	"github.com/clearpathcoverage/dst-compiler/internal/audit"
	"github.com/clearpathcoverage/dst-compiler/internal/corpus"
	"github.com/clearpathcoverage/dst-compiler/internal/domain"
)

// phase couples one audit pass with its accumulated findings.
type phase struct {
	name   string
	report *audit.Report
}

func (p *phase) passed() bool { return !p.report.Failed() }

func main() {
	corpusPath := flag.String("corpus", "", "path to the curated corpus JSON (required)")
	allCorpusPath := flag.String("all-corpus", "", "path to the FEMA-inclusive corpus JSON (optional)")
	registryPath := flag.String("registry", "", "path to the state declaration registry JSON (optional)")
	lawsPath := flag.String("laws", "", "path to the state emergency law table JSON (optional)")
	todayFlag := flag.String("today", "", "audit date as YYYY-MM-DD (default: current date)")
	flag.Parse()

	if *corpusPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	today, err := resolveToday(*todayFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		os.Exit(1)
	}

	if code := run(*corpusPath, *allCorpusPath, *registryPath, *lawsPath, today); code != 0 {
		os.Exit(code)
	}
}

func resolveToday(s string) (domain.Date, error) {
	if s == "" {
		return domain.DateOf(clockwork.NewRealClock().Now()), nil
	}
	d, err := domain.ParseDate(s)
	if err != nil {
		return domain.Date{}, fmt.Errorf("invalid -today value %q: %w", s, err)
	}
	return d, nil
}

func run(corpusPath, allCorpusPath, registryPath, lawsPath string, today domain.Date) int {
	fmt.Println("=== Disaster Corpus Audit ===")
	fmt.Printf("Audit date: %s\n\n", today)

	urls := audit.DefaultURLPolicy()

	// ── Load corpora ──
	curated, err := corpus.Load(corpusPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load curated corpus: %v\n", err)
		return 1
	}

	phases := []*phase{
		auditRecords("Phase 1: Curated Record Validation", curated, today, urls),
		auditStructure("Phase 2: Curated Corpus Structure", curated, audit.FederalPolicy{Allowed: false}),
	}

	var all domain.Envelope
	hasAll := allCorpusPath != ""
	if hasAll {
		all, err = corpus.Load(allCorpusPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "FATAL: load all-sources corpus: %v\n", err)
			return 1
		}
		p := auditRecords("Phase 3: All-Sources Record Validation", all, today, urls)
		p.report.Add(audit.AuditCorpus(all, audit.FederalPolicy{Allowed: true})...)
		phases = append(phases, p)
	}

	if registryPath != "" {
		p, err := auditFreshness(registryPath, lawsPath, today)
		if err != nil {
			fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
			return 1
		}
		phases = append(phases, p)
	}

	// ── Report results ──
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d failures)\033[0m", len(p.report.Failures()))
			allPassed = false
		} else if n := len(p.report.Warnings()); n > 0 {
			status = fmt.Sprintf("\033[33mPASS (%d warnings)\033[0m", n)
		}
		fmt.Printf("  %-44s %s\n", p.name, status)
	}

	printFailureDetails(phases)
	printWarnings(phases)
	printStats(curated, all, hasAll, today)

	if allPassed {
		fmt.Println("\nAll audits passed.")
		return 0
	}
	fmt.Println("\nAudit FAILED.")
	return 1
}

// ── Phases ──

func auditRecords(name string, env domain.Envelope, today domain.Date, urls audit.URLPolicy) *phase {
	report := &audit.Report{}
	for _, rec := range env.Disasters {
		report.Add(audit.ValidateRecord(rec, today, urls)...)
	}
	return &phase{name: name, report: report}
}

func auditStructure(name string, env domain.Envelope, policy audit.FederalPolicy) *phase {
	report := &audit.Report{}
	report.Add(audit.AuditCorpus(env, policy)...)
	return &phase{name: name, report: report}
}

func auditFreshness(registryPath, lawsPath string, today domain.Date) (*phase, error) {
	registry, err := audit.LoadRegistry(registryPath)
	if err != nil {
		return nil, fmt.Errorf("load registry: %w", err)
	}
	laws := audit.LawTable{}
	if lawsPath != "" {
		laws, err = audit.LoadLawTable(lawsPath)
		if err != nil {
			return nil, fmt.Errorf("load law table: %w", err)
		}
	}
	report := &audit.Report{}
	report.Add(audit.AuditFreshness(registry, laws, today)...)
	return &phase{name: "Phase 4: Registry Freshness", report: report}, nil
}

// ── Output ──

func printFailureDetails(phases []*phase) {
	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, f := range p.report.Failures() {
			fmt.Printf("  [%d] %s check %d: %s (expected %s, got %s)\n",
				i+1, f.EntityID, f.Check, f.Description, f.Expected, f.Actual)
		}

		checks, byCheck := p.report.FailuresByCheck()
		fmt.Println("  Failures by check:")
		for _, c := range checks {
			fmt.Printf("    check %d: %d\n", c, byCheck[c])
		}

		ids, byID := p.report.FailuresByRecord()
		fmt.Println("  Failures by record:")
		for _, id := range ids {
			fmt.Printf("    %s: checks %v\n", id, byID[id])
		}
	}
}

func printWarnings(phases []*phase) {
	var total int
	for _, p := range phases {
		total += len(p.report.Warnings())
	}
	if total == 0 {
		return
	}
	fmt.Printf("\n--- Warnings (%d) ---\n", total)
	for _, p := range phases {
		for _, f := range p.report.Warnings() {
			fmt.Printf("  %s check %d: %s (expected %s, got %s)\n",
				f.EntityID, f.Check, f.Description, f.Expected, f.Actual)
		}
	}
}

func printStats(curated, all domain.Envelope, hasAll bool, today domain.Date) {
	records := curated.Disasters
	scope := "curated"
	if hasAll {
		records = all.Disasters
		scope = "all sources"
	}

	fmt.Printf("\nRecords: %d curated", len(curated.Disasters))
	if hasAll {
		fmt.Printf(", %d all-sources", len(all.Disasters))
	}
	fmt.Println()

	bySource := map[string]int{}
	byStatus := map[string]int{}
	var ongoing, ended int
	var expiringSoon []domain.DisasterRecord
	for _, rec := range records {
		bySource[string(rec.Source)]++
		byStatus[string(rec.Status)]++
		if rec.Ongoing() {
			ongoing++
		} else {
			ended++
		}
		if rec.Status == domain.StatusExpiringSoon {
			expiringSoon = append(expiringSoon, rec)
		}
	}

	fmt.Printf("By source (%s): %s\n", scope, formatCounts(bySource))
	fmt.Printf("By status (%s): %s\n", scope, formatCounts(byStatus))
	fmt.Printf("Incidents: %d ongoing, %d ended\n", ongoing, ended)

	if len(expiringSoon) > 0 {
		sort.Slice(expiringSoon, func(i, j int) bool {
			return expiringSoon[i].SEPWindowEnd.Before(expiringSoon[j].SEPWindowEnd)
		})
		fmt.Printf("\nWindows expiring within 30 days of %s:\n", today)
		for _, rec := range expiringSoon {
			fmt.Printf("  %s (%s) closes %s\n", rec.ID, rec.State, rec.SEPWindowEnd)
		}
	}

	if hasAll {
		if gaps := domain.CoverageGaps(all.Disasters); len(gaps) > 0 {
			fmt.Printf("\nCoverage gaps (informational):\n")
			for _, g := range gaps {
				fmt.Printf("  %s\n", g)
			}
		}
	}
}

func formatCounts(counts map[string]int) string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := ""
	for i, k := range keys {
		if i > 0 {
			out += ", "
		}
		out += fmt.Sprintf("%s=%d", k, counts[k])
	}
	return out
}
