package roolz

import "fmt"

// EvaluateCondition decides the truth value of cond against fact. Literal
// conditions never touch the fact collaborator. Errors raised by a fact
// method propagate unwrapped.
func EvaluateCondition(fact Fact, cond Condition) (bool, error) {
	switch c := cond.(type) {
	case Bool:
		return bool(c), nil
	case All:
		for _, operand := range c {
			ok, err := EvaluateCondition(fact, operand)
			if err != nil {
				return false, err
			}
			if !ok {
				return false, nil
			}
		}
		return true, nil
	case Any:
		for _, operand := range c {
			ok, err := EvaluateCondition(fact, operand)
			if err != nil {
				return false, err
			}
			if ok {
				return true, nil
			}
		}
		return false, nil
	case Not:
		ok, err := EvaluateCondition(fact, c.Cond)
		if err != nil {
			return false, err
		}
		return !ok, nil
	case FactCondition:
		return evaluateFactCondition(fact, c)
	case nil:
		return false, fmt.Errorf("condition must be a boolean or a condition object")
	default:
		return false, fmt.Errorf("unsupported condition type %T", cond)
	}
}

func evaluateFactCondition(fact Fact, cond FactCondition) (bool, error) {
	if fact == nil {
		return false, &UndefinedMethodError{Collaborator: "fact", Method: cond.Fact}
	}
	method, ok := fact.FactMethod(cond.Fact)
	if !ok {
		return false, &UndefinedMethodError{Collaborator: "fact", Method: cond.Fact}
	}
	// Resolve the operator before invoking the fact method so an unknown
	// operator cannot trigger a live call.
	op, err := Lookup(cond.Operator)
	if err != nil {
		return false, err
	}
	actual, err := method(cond.Args, cond.Params)
	if err != nil {
		return false, err
	}
	return op(actual, cond.Value)
}

// ValidateCondition checks cond for structural and referential problems
// without invoking anything, accumulating every error found. Paths are
// rooted at "condition".
func ValidateCondition(cond Condition, fact Fact) ValidationErrors {
	return validateCondition(cond, "condition", fact)
}

func validateCondition(cond Condition, path string, fact Fact) ValidationErrors {
	switch c := cond.(type) {
	case Bool:
		return nil
	case All:
		return validateOperands(c, path+".all", fact)
	case Any:
		return validateOperands(c, path+".any", fact)
	case Not:
		return validateCondition(c.Cond, path+".not", fact)
	case FactCondition:
		return validateFactCondition(c, path, fact)
	case nil:
		return ValidationErrors{{Path: path, Message: "condition must be a boolean or a condition object"}}
	default:
		return ValidationErrors{{Path: path, Message: fmt.Sprintf("unsupported condition type %T", cond)}}
	}
}

func validateOperands(operands []Condition, path string, fact Fact) ValidationErrors {
	if len(operands) == 0 {
		return ValidationErrors{{Path: path, Message: "at least one condition is required"}}
	}
	var errs ValidationErrors
	for i, operand := range operands {
		errs = append(errs, validateCondition(operand, fmt.Sprintf("%s[%d]", path, i), fact)...)
	}
	return errs
}

func validateFactCondition(cond FactCondition, path string, fact Fact) ValidationErrors {
	var errs ValidationErrors
	if fact == nil {
		errs = append(errs, ValidationError{Path: path, Message: "a fact collaborator is required for this condition"})
	}
	if cond.Operator == "" {
		errs = append(errs, ValidationError{Path: path, Message: "'operator' is required"})
	} else if unary, known := operatorArity(cond.Operator); !known {
		errs = append(errs, ValidationError{Path: path, Message: fmt.Sprintf("operator '%s' is not defined", cond.Operator)})
	} else if !unary && cond.Value == nil {
		errs = append(errs, ValidationError{Path: path, Message: fmt.Sprintf("'value' is required for the '%s' operator", cond.Operator)})
	}
	if cond.Fact == "" {
		errs = append(errs, ValidationError{Path: path, Message: "'fact' is required"})
	} else if fact != nil {
		if _, ok := fact.FactMethod(cond.Fact); !ok {
			errs = append(errs, ValidationError{Path: path, Message: fmt.Sprintf("fact method '%s' is not defined", cond.Fact)})
		}
	}
	return errs
}
