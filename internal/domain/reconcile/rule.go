package reconcile

import (
	"fmt"

	"github.com/google/cel-go/cel"
)

// CompileRule builds a locked predicate from a CEL expression, so the lock
// policy for a child entity can be configured rather than hard-coded. The
// expression sees a single variable, `child`, a map of the child's fields,
// and must evaluate to a boolean, e.g. `child.status == "settled"`.
//
// A rule that fails at evaluation time treats the child as locked: an
// undecidable child must never be silently overwritten.
func CompileRule[C Child[C]](expr string, fields func(C) map[string]any) (Predicate[C], error) {
	env, err := cel.NewEnv(
		cel.Variable("child", cel.MapType(cel.StringType, cel.DynType)),
	)
	if err != nil {
		return nil, fmt.Errorf("create rule environment: %w", err)
	}

	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile lock rule %q: %w", expr, issues.Err())
	}
	if !ast.OutputType().IsExactType(cel.BoolType) {
		return nil, fmt.Errorf("lock rule %q must evaluate to a boolean, got %s", expr, ast.OutputType())
	}

	program, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("build lock rule program: %w", err)
	}

	return func(child C) bool {
		out, _, err := program.Eval(map[string]any{"child": fields(child)})
		if err != nil {
			return true
		}
		locked, ok := out.Value().(bool)
		if !ok {
			return true
		}
		return locked
	}, nil
}
