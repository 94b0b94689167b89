package params

import (
	"encoding/json"
	"fmt"
	"os"
)

// fileParams mirrors the on-disk JSON layout. encoding/json matches keys
// case-insensitively, so both lowercase and capitalized files load.
type fileParams struct {
	N   int     `json:"n"`
	M   int     `json:"m"`
	Kap int     `json:"kap"`
	B   uint64  `json:"b"`
	Q   uint64  `json:"q"`
	S1  float64 `json:"s1"`
}

// Load reads a JSON parameter file and validates it through New.
func Load(path string) (*Parameters, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var fp fileParams
	if err := json.Unmarshal(data, &fp); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	par, err := New(fp.N, fp.M, fp.Kap, fp.B, fp.Q, fp.S1)
	if err != nil {
		return nil, fmt.Errorf("invalid parameters in %s: %w", path, err)
	}
	return par, nil
}
