package validator

import (
	"errors"
	"strings"
	"testing"
)

func TestIdentifier(t *testing.T) {
	for name, ok := range map[string]bool{
		"count":    true,
		"_private": true,
		"item2":    true,
		"":         false,
		"2items":   false,
		"my-name":  false,
		"a b":      false,
	} {
		err := Identifier(name, "name")
		if (err == nil) != ok {
			t.Errorf("Identifier(%q) = %v, want ok=%v", name, err, ok)
		}
	}
}

func TestMapDict(t *testing.T) {
	items := map[string]int{"b": 2, "a": -1, "c": -3}
	err := MapDict(items, func(_ string, v int) error {
		if v < 0 {
			return errors.New("negative")
		}
		return nil
	}, "weights")
	if err == nil || err.Error() != `weights["a"]: negative` {
		t.Fatalf("MapDict = %v, want first failing key in order", err)
	}
}

func TestNoDuplicates(t *testing.T) {
	if err := NoDuplicates([]string{"a", "b"}, "props"); err != nil {
		t.Errorf("NoDuplicates: %v", err)
	}
	if err := NoDuplicates([]string{"a", "b", "a"}, "props"); err == nil {
		t.Error("duplicate not reported")
	}
}

func TestDisjoint(t *testing.T) {
	if err := Disjoint(map[string][]string{"data": {"x"}, "methods": {"y"}}); err != nil {
		t.Errorf("Disjoint: %v", err)
	}
	err := Disjoint(map[string][]string{"data": {"x"}, "methods": {"x"}})
	if err == nil || !strings.Contains(err.Error(), "data and methods") {
		t.Errorf("Disjoint = %v, want overlap error", err)
	}
}

func TestAll(t *testing.T) {
	first := errors.New("first")
	if err := All(nil, first, errors.New("second")); err != first {
		t.Errorf("All = %v, want first", err)
	}
	if err := All(); err != nil {
		t.Errorf("All() = %v", err)
	}
}
