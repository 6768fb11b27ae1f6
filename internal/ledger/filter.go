package ledger

import (
	"fmt"
	"math"

	exprlang "github.com/expr-lang/expr"
	exprvm "github.com/expr-lang/expr/vm"
)

// Filter is a compiled boolean predicate over validation outcomes, e.g.
//
//	Valid && Amount >= 10 && To == "V..."
type Filter struct {
	program    *exprvm.Program
	expression string
}

func environment(o Outcome) map[string]any {
	env := map[string]any{
		"Commit":  o.CommitID,
		"Message": o.Message,
		"Valid":   o.Valid(),
		"Skipped": o.Valid() && o.Transition == nil,
		"Error":   "",
		"Sender":  "",
		"To":      "",
		"Amount":  0,
		"Mint":    false,
		"TxID":    "",
	}
	if o.Err != nil {
		env["Error"] = o.Err.Error()
	}
	if t := o.Transition; t != nil {
		env["Sender"] = t.Sender.String()
		env["To"] = t.Record.To
		env["Amount"] = clampAmount(t.Record.Amount)
		env["Mint"] = t.Record.Mint
		env["TxID"] = t.Plan.TxID
	}
	return env
}

// clampAmount converts an amount to the int the expression runtime compares
// with. Amounts past math.MaxInt saturate instead of turning negative.
func clampAmount(n uint64) int {
	if n > math.MaxInt {
		return math.MaxInt
	}
	return int(n)
}

// CompileFilter type-checks expression against the outcome fields.
func CompileFilter(expression string) (*Filter, error) {
	if expression == "" {
		return nil, fmt.Errorf("filter expression must not be empty")
	}
	program, err := exprlang.Compile(expression,
		exprlang.Env(environment(Outcome{})),
		exprlang.AsBool(),
	)
	if err != nil {
		return nil, fmt.Errorf("compile filter %q: %w", expression, err)
	}
	return &Filter{program: program, expression: expression}, nil
}

// Match evaluates the filter for o.
func (f *Filter) Match(o Outcome) (bool, error) {
	out, err := exprlang.Run(f.program, environment(o))
	if err != nil {
		return false, fmt.Errorf("evaluate filter %q: %w", f.expression, err)
	}
	ok, _ := out.(bool)
	return ok, nil
}
