// Package rules implements content checks that a structural schema cannot
// express: byte-level hygiene of the file and user-declared jq assertions.
package rules

import (
	"fmt"
	"sort"

	"github.com/aretw0/fwlint/pkg/core"
)

// Rule is a named content check. Rules implement core.Checker.
type Rule interface {
	core.Checker
	Name() string
}

// Builtin rule names.
const (
	DocumentStart = "document-start"
	NoEscapes     = "no-escapes"
	NoNBSP        = "no-nbsp"
)

var builtins = map[string]func() Rule{
	DocumentStart: func() Rule { return documentStart{} },
	NoEscapes:     func() Rule { return noEscapes{} },
	NoNBSP:        func() Rule { return noNBSP{} },
}

// BuiltinNames lists every builtin rule in a stable order.
func BuiltinNames() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Builtin returns the builtin rules with the given names.
func Builtin(names ...string) ([]Rule, error) {
	out := make([]Rule, 0, len(names))
	for _, name := range names {
		ctor, ok := builtins[name]
		if !ok {
			return nil, fmt.Errorf("unknown rule %q (available: %v)", name, BuiltinNames())
		}
		out = append(out, ctor())
	}
	return out, nil
}

// Set runs several rules as one checker.
type Set []Rule

// Check runs every rule and concatenates their violations.
func (s Set) Check(doc *core.Document) []core.Violation {
	var out []core.Violation
	for _, r := range s {
		out = append(out, r.Check(doc)...)
	}
	return out
}

// Names lists the rule names in order.
func (s Set) Names() []string {
	names := make([]string, len(s))
	for i, r := range s {
		names[i] = r.Name()
	}
	return names
}

func violation(rule, pointer, msg string) core.Violation {
	return core.Violation{
		Kind:       core.KindRule,
		Pointer:    pointer,
		Constraint: rule,
		Message:    msg,
	}
}
