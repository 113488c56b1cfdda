package benchmark

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads and validates the benchmark table at path.
// KnownFields(true) turns typos and unused fields into load errors.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var tbl Table
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&tbl); err != nil {
		return nil, err
	}

	if err := Validate(&tbl); err != nil {
		return nil, err
	}

	return &tbl, nil
}

// Hash generates a SHA256 hash of the table via canonical JSON.
// Struct marshalling keeps field order deterministic.
func Hash(tbl *Table) (string, error) {
	jsonBytes, err := json.Marshal(tbl)
	if err != nil {
		return "", err
	}

	sum := sha256.Sum256(jsonBytes)
	return hex.EncodeToString(sum[:]), nil
}
