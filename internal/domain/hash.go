package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// ContentHash fingerprints a record array: sha256 over the canonical JSON
// encoding, truncated to 16 hex characters. The envelope writer stamps it
// into metadata and the auditor recomputes it to detect hand edits that
// bypassed the compiler.
func ContentHash(records []DisasterRecord) (string, error) {
	data, err := json.Marshal(records)
	if err != nil {
		return "", fmt.Errorf("hash records: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:8]), nil
}
