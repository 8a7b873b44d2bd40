package rules

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/itchyny/gojq"

	"github.com/aretw0/fwlint/pkg/core"
)

// DefaultJQTimeout bounds a single jq evaluation.
const DefaultJQTimeout = time.Second

// JQRule asserts a jq expression over every document tree. Each value the
// expression yields must be true; an expression that yields nothing passes.
type JQRule struct {
	name    string
	expr    string
	message string
	timeout time.Duration
	code    *gojq.Code
}

// NewJQ compiles a jq assertion. Compile errors are configuration errors.
func NewJQ(name, expr, message string) (*JQRule, error) {
	if name == "" {
		return nil, errors.New("jq rule needs a name")
	}
	query, err := gojq.Parse(expr)
	if err != nil {
		var parseErr *gojq.ParseError
		if errors.As(err, &parseErr) {
			return nil, fmt.Errorf("rule %s: invalid jq expression at position %d: %w", name, parseErr.Offset, err)
		}
		return nil, fmt.Errorf("rule %s: invalid jq expression: %w", name, err)
	}
	code, err := gojq.Compile(query)
	if err != nil {
		return nil, fmt.Errorf("rule %s: failed to compile jq expression: %w", name, err)
	}
	return &JQRule{
		name:    name,
		expr:    expr,
		message: message,
		timeout: DefaultJQTimeout,
		code:    code,
	}, nil
}

func (r *JQRule) Name() string { return r.name }

func (r *JQRule) Check(doc *core.Document) []core.Violation {
	var out []core.Violation
	for i, tree := range doc.Trees {
		for _, v := range r.eval(tree) {
			v.Document = i
			out = append(out, v)
		}
	}
	return out
}

func (r *JQRule) eval(tree any) []core.Violation {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	var out []core.Violation
	iter := r.code.RunWithContext(ctx, tree)
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}

		if err, isErr := v.(error); isErr {
			var haltErr *gojq.HaltError
			if errors.As(err, &haltErr) && haltErr.Value() == nil {
				break
			}
			out = append(out, violation(r.name, "", fmt.Sprintf("jq error: %v", err)))
			break
		}

		if b, isBool := v.(bool); isBool && b {
			continue
		}
		out = append(out, violation(r.name, "", r.describe(v)))
	}
	return out
}

func (r *JQRule) describe(got any) string {
	if r.message != "" {
		return r.message
	}
	return fmt.Sprintf("%s yielded %v, want true", r.expr, got)
}
