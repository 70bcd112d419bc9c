package validator

import (
	"fmt"
	"maps"
	"slices"
)

// All returns the first non-nil error.
func All(errors ...error) error {
	for _, err := range errors {
		if err != nil {
			return err
		}
	}
	return nil
}

// MapDict applies f to every entry in key order and stops at the first error.
func MapDict[T any](items map[string]T, f func(string, T) error, description string) error {
	for _, key := range slices.Sorted(maps.Keys(items)) {
		if err := f(key, items[key]); err != nil {
			return fmt.Errorf("%s[%q]: %w", description, key, err)
		}
	}
	return nil
}

func NoDuplicates[T comparable](slice []T, description string) error {
	seen := make(map[T]struct{})
	for _, v := range slice {
		if _, ok := seen[v]; ok {
			return fmt.Errorf("%s contains duplicate value: %v", description, v)
		}
		seen[v] = struct{}{}
	}
	return nil
}

// Disjoint fails when a key appears in more than one of the named sets.
func Disjoint(sets map[string][]string) error {
	owner := map[string]string{}
	for _, set := range slices.Sorted(maps.Keys(sets)) {
		for _, key := range sets[set] {
			if prev, ok := owner[key]; ok {
				return fmt.Errorf("%q is declared in both %s and %s", key, prev, set)
			}
			owner[key] = set
		}
	}
	return nil
}

// Identifier checks that name can be referenced from an expression.
func Identifier(name, description string) error {
	if name == "" {
		return fmt.Errorf("%s must not be empty", description)
	}
	for i, r := range name {
		letter := r == '_' || ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z')
		if !letter && (i == 0 || r < '0' || r > '9') {
			return fmt.Errorf("%s %q is not a valid identifier", description, name)
		}
	}
	return nil
}
