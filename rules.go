package roolz

import "fmt"

// ValidateRules pre-flights rule against its collaborators, accumulating
// every structural and referential problem it can find. An empty result
// means the rule is safe to hand to ExecuteRules. Condition errors come
// first, action errors after, each in document order.
//
// When actor is nil the fact collaborator doubles as the actor, provided it
// also implements Actor. Validation never invokes fact or actor methods and
// never mutates its arguments, so repeated calls yield identical results.
func ValidateRules(rule *Rule, fact Fact, actor Actor) ValidationErrors {
	if rule == nil {
		return ValidationErrors{{Path: "", Message: "a rule is required"}}
	}
	if actor == nil {
		actor, _ = fact.(Actor)
	}
	var errs ValidationErrors
	if rule.Condition != nil {
		errs = append(errs, ValidateCondition(rule.Condition, fact)...)
	}
	errs = append(errs, ValidateActions(rule.Actions, actor)...)
	return errs
}

// ExecuteRules evaluates rule's condition against fact and, when it holds,
// invokes each action on actor in order. A rule without a condition always
// runs its actions; a false condition returns with no side effects.
//
// Execution trusts its input: it does not re-validate, it fails fast on the
// first unresolvable method, and errors from fact or action methods
// propagate to the caller unchanged. When actor is nil the fact
// collaborator doubles as the actor, provided it also implements Actor.
func ExecuteRules(rule *Rule, fact Fact, actor Actor) error {
	if rule == nil {
		return fmt.Errorf("a rule is required")
	}
	if actor == nil {
		actor, _ = fact.(Actor)
	}
	if rule.Condition != nil {
		ok, err := EvaluateCondition(fact, rule.Condition)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
	}
	return ExecuteActions(actor, rule.Actions)
}
