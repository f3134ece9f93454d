package roolz

import (
	"fmt"

	"github.com/expr-lang/expr"
)

// CompileOperator builds an Operator from an expr expression over the
// identifiers left and right, e.g. "left % right == 0" or
// "len(left) >= right". The expression must produce a boolean. The
// resulting operator can be registered like any other:
//
//	divisible, err := roolz.CompileOperator("left % right == 0")
//	...
//	err = roolz.Register("divisible_by", divisible)
func CompileOperator(expression string) (Operator, error) {
	program, err := expr.Compile(expression,
		expr.Env(operandEnv(nil, nil)),
		expr.AllowUndefinedVariables(),
		expr.AsBool(),
	)
	if err != nil {
		return nil, fmt.Errorf("compiling operator expression: %w", err)
	}
	return func(left, right interface{}) (bool, error) {
		out, err := expr.Run(program, operandEnv(left, right))
		if err != nil {
			return false, err
		}
		result, ok := out.(bool)
		if !ok {
			return false, fmt.Errorf("operator expression produced %T, want bool", out)
		}
		return result, nil
	}, nil
}

func operandEnv(left, right interface{}) map[string]interface{} {
	return map[string]interface{}{
		"left":  left,
		"right": right,
	}
}
