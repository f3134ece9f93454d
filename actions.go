package roolz

import "fmt"

// ExecuteActions invokes each action on actor in order, stopping at the
// first action that fails to resolve or returns an error. Earlier actions
// are not rolled back.
func ExecuteActions(actor Actor, actions []Action) error {
	for _, action := range actions {
		if actor == nil {
			return &UndefinedMethodError{Collaborator: "actor", Method: action.Action}
		}
		method, ok := actor.ActionMethod(action.Action)
		if !ok {
			return &UndefinedMethodError{Collaborator: "actor", Method: action.Action}
		}
		if err := method(action.Args, action.Params); err != nil {
			return err
		}
	}
	return nil
}

// ValidateActions checks that every action names a method that resolves on
// actor, without invoking any of them.
func ValidateActions(actions []Action, actor Actor) ValidationErrors {
	if actor == nil {
		return ValidationErrors{{Path: "actions", Message: "an actor collaborator is required"}}
	}
	var errs ValidationErrors
	for i, action := range actions {
		path := fmt.Sprintf("actions[%d]", i)
		if action.Action == "" {
			errs = append(errs, ValidationError{Path: path, Message: "'action' is required"})
			continue
		}
		if _, ok := actor.ActionMethod(action.Action); !ok {
			errs = append(errs, ValidationError{Path: path, Message: fmt.Sprintf("action method '%s' is not defined", action.Action)})
		}
	}
	return errs
}
