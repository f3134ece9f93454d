package roolz

import "fmt"

// ValidationError describes one structural or referential problem found in
// a rule. Path locates the offending record, e.g. "condition.all[1].any[2]"
// or "actions[0]".
type ValidationError struct {
	Path    string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid rule at '%s': %s", e.Path, e.Message)
}

// ValidationErrors is the ordered result of validating a rule. An empty
// slice means the rule is valid.
type ValidationErrors []ValidationError

// Messages renders each error as a human-readable string, in order.
func (v ValidationErrors) Messages() []string {
	if len(v) == 0 {
		return nil
	}
	msgs := make([]string, len(v))
	for i, e := range v {
		msgs[i] = e.Error()
	}
	return msgs
}

// UndefinedOperatorError reports a condition operator with no registered
// implementation.
type UndefinedOperatorError struct {
	Name string
}

func (e *UndefinedOperatorError) Error() string {
	return fmt.Sprintf("operator '%s' is not defined", e.Name)
}

// DuplicateOperatorError reports an attempt to register an operator name
// that is already taken.
type DuplicateOperatorError struct {
	Name string
}

func (e *DuplicateOperatorError) Error() string {
	return fmt.Sprintf("the '%s' operator has already been registered", e.Name)
}

// UndefinedMethodError reports a fact or action method that does not
// resolve on its collaborator. Collaborator is "fact" or "actor".
type UndefinedMethodError struct {
	Collaborator string
	Method       string
}

func (e *UndefinedMethodError) Error() string {
	return fmt.Sprintf("%s method '%s' is not defined", e.Collaborator, e.Method)
}
