package params

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewDerivesPlaintextModulus(t *testing.T) {
	par, err := New(32, 8, 4, 4, 12289, 4.0)
	if err != nil {
		t.Fatalf("params: %v", err)
	}
	if par.P.Int64() != 257 { // 4^4 + 1
		t.Fatalf("P = %v, want 257", par.P)
	}
	if par.RingQ == nil {
		t.Fatalf("ring not built")
	}
}

func TestNewRejectsBadDimensions(t *testing.T) {
	cases := []struct {
		name      string
		n, m, kap int
		b, q      uint64
		s1        float64
	}{
		{"n not power of two", 24, 6, 4, 4, 12289, 4.0},
		{"n != kap*m", 32, 8, 3, 4, 12289, 4.0},
		{"base too small", 32, 8, 4, 1, 12289, 4.0},
		{"zero slots", 32, 0, 4, 4, 12289, 4.0},
		{"non-positive width", 32, 8, 4, 4, 12289, 0},
		{"q not NTT friendly", 32, 8, 4, 4, 12287, 4.0},
	}
	for _, c := range cases {
		if _, err := New(c.n, c.m, c.kap, c.b, c.q, c.s1); err == nil {
			t.Errorf("%s: expected error", c.name)
		}
	}
}

func TestDefault(t *testing.T) {
	par, err := Default()
	if err != nil {
		t.Fatalf("default params: %v", err)
	}
	if par.N != 1024 || par.N != par.Kap*par.M {
		t.Fatalf("inconsistent default dimensions: %+v", par)
	}
	if par.P.Int64() != 65537 { // 2^16 + 1
		t.Fatalf("P = %v, want 65537", par.P)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Parameters.json")
	body := `{"N": 32, "M": 8, "Kap": 4, "B": 4, "Q": 12289, "S1": 4.0}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	par, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if par.N != 32 || par.M != 8 || par.Kap != 4 || par.B != 4 || par.Q != 12289 {
		t.Fatalf("unexpected parameters: %+v", par)
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte(`{"n": 24, "m": 6, "kap": 4, "b": 4, "q": 12289, "s1": 4.0}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(bad); err == nil {
		t.Fatalf("expected validation error for bad file")
	}
	if _, err := Load(filepath.Join(dir, "missing.json")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
