// Package roolz evaluates declarative rules against caller-supplied
// collaborators. A rule pairs a condition with an ordered list of actions:
// the condition is a predicate over a Fact collaborator, and when it holds
// each action is invoked on an Actor collaborator.
//
// Rules are plain in-memory structures; how they got there (JSON, YAML,
// database rows) is the caller's concern, with the codec subpackage
// covering the common encodings. ValidateRules pre-flights a rule against
// its collaborators without executing anything; ExecuteRules trusts its
// input and fails fast.
package roolz

// FactFunc is a fact query. It receives the condition's positional args and
// keyword params and returns the value the condition's operator compares
// against.
type FactFunc func(args []interface{}, params map[string]interface{}) (interface{}, error)

// ActionFunc is an action handler invoked when a rule's condition holds.
type ActionFunc func(args []interface{}, params map[string]interface{}) error

// Fact resolves named query methods. Resolution must be side-effect free:
// the validator calls FactMethod to confirm a name exists without ever
// invoking the returned function.
type Fact interface {
	FactMethod(name string) (FactFunc, bool)
}

// Actor resolves named action methods.
type Actor interface {
	ActionMethod(name string) (ActionFunc, bool)
}

// FactFuncs is a registered-function table implementing Fact.
type FactFuncs map[string]FactFunc

// FactMethod implements Fact.
func (f FactFuncs) FactMethod(name string) (FactFunc, bool) {
	fn, ok := f[name]
	return fn, ok
}

// ActionFuncs is a registered-function table implementing Actor.
type ActionFuncs map[string]ActionFunc

// ActionMethod implements Actor.
func (a ActionFuncs) ActionMethod(name string) (ActionFunc, bool) {
	fn, ok := a[name]
	return fn, ok
}

// Rule pairs a condition with the actions to run when it holds. A nil
// Condition always runs the actions. The evaluator never mutates a Rule.
type Rule struct {
	Condition Condition
	Actions   []Action
}

// Action names an actor method to invoke, with optional positional args and
// keyword params.
type Action struct {
	Action string
	Args   []interface{}
	Params map[string]interface{}
}

// Condition is the predicate side of a rule. The variants are Bool, All,
// Any, Not and FactCondition.
type Condition interface {
	condition()
}

// Bool is a literal condition.
type Bool bool

// All is a conjunction: true only when every operand is true. Evaluation
// short-circuits on the first false operand.
type All []Condition

// Any is a disjunction: true when at least one operand is true. Evaluation
// short-circuits on the first true operand.
type Any []Condition

// Not negates its operand.
type Not struct {
	Cond Condition
}

// FactCondition invokes the named fact method with Args and Params and
// compares its result against Value using the named operator. Value is
// ignored by unary operators such as is_true.
type FactCondition struct {
	Fact     string
	Operator string
	Args     []interface{}
	Params   map[string]interface{}
	Value    interface{}
}

func (Bool) condition()          {}
func (All) condition()           {}
func (Any) condition()           {}
func (Not) condition()           {}
func (FactCondition) condition() {}
