package consent

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestCanonicalize_FieldOrderIrrelevant(t *testing.T) {
	var a, b map[string]any
	if err := json.Unmarshal([]byte(`{"b": 2, "a": 1, "c": {"y": true, "x": "v"}}`), &a); err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal([]byte(`{"c": {"x": "v", "y": true}, "a": 1, "b": 2}`), &b); err != nil {
		t.Fatal(err)
	}

	ca, err := Canonicalize(a)
	if err != nil {
		t.Fatalf("Canonicalize: %v", err)
	}
	cb, err := Canonicalize(b)
	if err != nil {
		t.Fatalf("Canonicalize: %v", err)
	}
	if !bytes.Equal(ca, cb) {
		t.Errorf("canonical forms differ:\n%s\n%s", ca, cb)
	}
}

func TestCanonicalize_Deterministic(t *testing.T) {
	type payload struct {
		Nonce    string  `json:"nonce"`
		Severity string  `json:"severity"`
		Score    float64 `json:"score"`
	}
	p := payload{Nonce: "abc", Severity: "mild", Score: 1.5}

	first, err := Canonicalize(p)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 10; i++ {
		again, err := Canonicalize(p)
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(first, again) {
			t.Fatal("canonicalization is not deterministic")
		}
	}
}

func TestCanonicalize_SortsKeys(t *testing.T) {
	got, err := Canonicalize(map[string]int{"zeta": 1, "alpha": 2})
	if err != nil {
		t.Fatal(err)
	}
	want := `{"alpha":2,"zeta":1}`
	if string(got) != want {
		t.Errorf("canonical form = %s, want %s", got, want)
	}
}
