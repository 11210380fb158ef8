package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// ExprEnv is the environment an expression rule is evaluated in: the field's
// own value and the full submission.
type ExprEnv struct {
	Value  any            `expr:"value"`
	Values map[string]any `expr:"values"`
}

// ExpressionRule compiles a boolean expr-lang expression into a Rule. The
// rule fails with message when the expression evaluates to false or cannot
// be evaluated. Example: `value == values["password"]`.
func ExpressionRule(expression, message string) (Rule, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, errors.New("validation: expression is required")
	}
	program, err := expr.Compile(expression,
		expr.Env(ExprEnv{}),
		expr.AsBool(),
	)
	if err != nil {
		return nil, fmt.Errorf("validation: compile expression %q: %w", expression, err)
	}
	if strings.TrimSpace(message) == "" {
		message = "Invalid value"
	}
	return exprRule(program, message), nil
}

// MustExpressionRule is ExpressionRule for static expressions.
func MustExpressionRule(expression, message string) Rule {
	rule, err := ExpressionRule(expression, message)
	if err != nil {
		panic(err)
	}
	return rule
}

func exprRule(program *vm.Program, message string) Rule {
	return func(value any, values map[string]any) []Issue {
		if values == nil {
			values = map[string]any{}
		}
		result, err := expr.Run(program, ExprEnv{Value: value, Values: values})
		if err != nil {
			return []Issue{newIssue(CodeCustom, message)}
		}
		if ok, _ := result.(bool); !ok {
			return []Issue{newIssue(CodeCustom, message)}
		}
		return nil
	}
}
