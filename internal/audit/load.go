package audit

import (
	"encoding/json"
	"fmt"
	"os"
)

// registryFile is the on-disk shape of the state-declarations registry.
type registryFile struct {
	Declarations []StateDeclaration `json:"declarations"`
}

// LoadRegistry reads the curated state-declarations registry.
func LoadRegistry(path string) ([]StateDeclaration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load registry: %w", err)
	}
	var file registryFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("load registry %s: %w", path, err)
	}
	return file.Declarations, nil
}

// lawFile is the on-disk shape of the state emergency law table.
type lawFile struct {
	Laws []StateEmergencyLaw `json:"laws"`
}

// LoadLawTable reads the per-state emergency law reference table and indexes
// it by state code.
func LoadLawTable(path string) (LawTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load law table: %w", err)
	}
	var file lawFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("load law table %s: %w", path, err)
	}
	table := make(LawTable, len(file.Laws))
	for _, law := range file.Laws {
		table[law.StateCode] = law
	}
	return table, nil
}
