package bank

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// ErrNotFound is matched by errors.Is for any unknown bank id.
var ErrNotFound = errors.New("bank not found")

// NotFoundError reports a bank id with no entry in the source.
type NotFoundError struct {
	BankID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("bank %q not found", e.BankID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// Source looks up the full question sequence of a bank.
type Source interface {
	Load(bankID string) ([]Question, error)
}

// Table is a read-only mapping of bank id to questions. It implements Source.
type Table map[string][]Question

var _ Source = Table(nil)

// Load returns a copy of the bank's question slice, or a *NotFoundError.
func (t Table) Load(bankID string) ([]Question, error) {
	qs, ok := t[bankID]
	if !ok {
		return nil, &NotFoundError{BankID: bankID}
	}
	return slices.Clone(qs), nil
}

// IDs returns the bank ids in sorted order.
func (t Table) IDs() []string {
	return slices.Sorted(maps.Keys(t))
}

// Merge overlays tables left to right; a later table replaces a bank of the
// same id from an earlier one.
func Merge(tables ...Table) Table {
	out := make(Table)
	for _, t := range tables {
		maps.Copy(out, t)
	}
	return out
}

// Selector narrows a bank to one or more skill codes. The zero value passes
// every question through.
type Selector struct {
	restrict bool
	codes    []string
}

// All returns a pass-through selector.
func All() Selector {
	return Selector{}
}

// Code selects questions tagged with a single skill code.
func Code(code string) Selector {
	return Selector{restrict: true, codes: []string{code}}
}

// Codes selects questions tagged with any of the given skill codes.
// An empty set selects nothing.
func Codes(codes ...string) Selector {
	return Selector{restrict: true, codes: slices.Clone(codes)}
}

// Match reports whether q passes the selector.
func (s Selector) Match(q Question) bool {
	if !s.restrict {
		return true
	}
	return slices.Contains(s.codes, q.SkillCode)
}

func (s Selector) String() string {
	if !s.restrict {
		return "all"
	}
	return strings.Join(s.codes, ",")
}

// Filter returns the questions matching sel, in their original order.
// The result is never nil.
func Filter(questions []Question, sel Selector) []Question {
	out := make([]Question, 0, len(questions))
	for _, q := range questions {
		if sel.Match(q) {
			out = append(out, q)
		}
	}
	return out
}
