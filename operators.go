package roolz

import (
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"
)

// Operator compares a fact method's result (left) against a condition's
// value (right). Unary operators ignore right.
type Operator func(left, right interface{}) (bool, error)

type operatorEntry struct {
	fn    Operator
	unary bool
}

var (
	operatorMu sync.RWMutex
	operators  = make(map[string]operatorEntry)
)

// Register adds a binary operator under the given name. Conditions using a
// binary operator must carry a comparison value. Registering a name twice
// returns a *DuplicateOperatorError.
func Register(name string, op Operator) error {
	return register(name, op, false)
}

// RegisterUnary adds an operator that needs no comparison value; the
// validator skips the value-presence check for it.
func RegisterUnary(name string, op Operator) error {
	return register(name, op, true)
}

func register(name string, op Operator, unary bool) error {
	operatorMu.Lock()
	defer operatorMu.Unlock()
	if _, exists := operators[name]; exists {
		return &DuplicateOperatorError{Name: name}
	}
	operators[name] = operatorEntry{fn: op, unary: unary}
	return nil
}

// Lookup returns the operator registered under name, or a
// *UndefinedOperatorError when there is none.
func Lookup(name string) (Operator, error) {
	operatorMu.RLock()
	defer operatorMu.RUnlock()
	entry, ok := operators[name]
	if !ok {
		return nil, &UndefinedOperatorError{Name: name}
	}
	return entry.fn, nil
}

// Operators returns the names of all registered operators, sorted.
func Operators() []string {
	operatorMu.RLock()
	defer operatorMu.RUnlock()
	names := make([]string, 0, len(operators))
	for name := range operators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// operatorArity reports whether name is registered and, if so, whether it
// is unary.
func operatorArity(name string) (unary, known bool) {
	operatorMu.RLock()
	defer operatorMu.RUnlock()
	entry, ok := operators[name]
	return entry.unary, ok
}

func init() {
	unary := map[string]Operator{
		"is_none":      isNone,
		"is_not_none":  isNotNone,
		"is_empty":     isEmpty,
		"is_not_empty": isNotEmpty,
		"is_true":      isTrue,
		"is_false":     isFalse,
	}
	binary := map[string]Operator{
		"equal_to":                 equalTo,
		"not_equal_to":             notEqualTo,
		"case_fold_equal_to":       caseFoldEqualTo,
		"less_than":                lessThan,
		"greater_than":             greaterThan,
		"less_than_or_equal_to":    lessThanOrEqualTo,
		"greater_than_or_equal_to": greaterThanOrEqualTo,
		"starts_with":              startsWith,
		"ends_with":                endsWith,
		"matches_regex":            matchesRegex,
		"one_of":                   oneOf,
		"contains":                 contains,
		"does_not_contain":         doesNotContain,
		"contains_all":             containsAll,
		"contains_any":             containsAny,
		"date_between":             dateBetween,
	}
	for name, op := range unary {
		if err := RegisterUnary(name, op); err != nil {
			panic(err)
		}
	}
	for name, op := range binary {
		if err := Register(name, op); err != nil {
			panic(err)
		}
	}
}

// Compare orders two dynamic values. Numeric operands compare numerically
// across integer and float widths; any other pair falls back to comparing
// their fmt.Sprintf("%v") forms, which keeps the ordering operators total
// over mismatched types.
func Compare(a, b interface{}) int {
	if af, aok := toFloat(a); aok {
		if bf, bok := toFloat(b); bok {
			switch {
			case af < bf:
				return -1
			case af > bf:
				return 1
			}
			return 0
		}
	}
	return strings.Compare(fmt.Sprintf("%v", a), fmt.Sprintf("%v", b))
}

// Equal reports whether two dynamic values are equal. Numeric operands are
// compared numerically across widths, so int(42) equals float64(42);
// everything else uses reflect.DeepEqual.
func Equal(a, b interface{}) bool {
	if af, aok := toFloat(a); aok {
		if bf, bok := toFloat(b); bok {
			return af == bf
		}
	}
	return reflect.DeepEqual(a, b)
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// truthy mirrors loose boolean coercion over JSON-shaped values: nil,
// false, zero numbers and empty strings, slices and maps are falsy.
func truthy(v interface{}) bool {
	if v == nil {
		return false
	}
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return t != ""
	}
	if f, ok := toFloat(v); ok {
		return f != 0
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len() > 0
	}
	return true
}

func isNone(left, _ interface{}) (bool, error) {
	return left == nil, nil
}

func isNotNone(left, _ interface{}) (bool, error) {
	return left != nil, nil
}

func isEmpty(left, _ interface{}) (bool, error) {
	return !truthy(left), nil
}

func isNotEmpty(left, _ interface{}) (bool, error) {
	return truthy(left), nil
}

// isTrue accepts booleans, the string "true" in any case, and numeric 1.
// Anything else is not true.
func isTrue(left, _ interface{}) (bool, error) {
	switch v := left.(type) {
	case bool:
		return v, nil
	case string:
		return strings.EqualFold(v, "true"), nil
	}
	if f, ok := toFloat(left); ok {
		return f == 1, nil
	}
	return false, nil
}

func isFalse(left, right interface{}) (bool, error) {
	t, err := isTrue(left, right)
	return !t, err
}

func equalTo(left, right interface{}) (bool, error) {
	return Equal(left, right), nil
}

func notEqualTo(left, right interface{}) (bool, error) {
	return !Equal(left, right), nil
}

func caseFoldEqualTo(left, right interface{}) (bool, error) {
	l, r, err := stringOperands("case_fold_equal_to", left, right)
	if err != nil {
		return false, err
	}
	return strings.EqualFold(l, r), nil
}

func lessThan(left, right interface{}) (bool, error) {
	return Compare(left, right) < 0, nil
}

func greaterThan(left, right interface{}) (bool, error) {
	return Compare(left, right) > 0, nil
}

func lessThanOrEqualTo(left, right interface{}) (bool, error) {
	return Compare(left, right) <= 0, nil
}

func greaterThanOrEqualTo(left, right interface{}) (bool, error) {
	return Compare(left, right) >= 0, nil
}

func startsWith(left, right interface{}) (bool, error) {
	l, r, err := stringOperands("starts_with", left, right)
	if err != nil {
		return false, err
	}
	return strings.HasPrefix(l, r), nil
}

func endsWith(left, right interface{}) (bool, error) {
	l, r, err := stringOperands("ends_with", left, right)
	if err != nil {
		return false, err
	}
	return strings.HasSuffix(l, r), nil
}

// matchesRegex requires the whole left operand to match the pattern, not
// just a substring of it.
func matchesRegex(left, right interface{}) (bool, error) {
	l, pattern, err := stringOperands("matches_regex", left, right)
	if err != nil {
		return false, err
	}
	re, err := regexp.Compile("^(?:" + pattern + ")$")
	if err != nil {
		return false, err
	}
	return re.MatchString(l), nil
}

func oneOf(left, right interface{}) (bool, error) {
	return memberOf(left, right)
}

func contains(left, right interface{}) (bool, error) {
	return memberOf(right, left)
}

func doesNotContain(left, right interface{}) (bool, error) {
	found, err := memberOf(right, left)
	return !found, err
}

func containsAll(left, right interface{}) (bool, error) {
	items, err := elements(right)
	if err != nil {
		return false, err
	}
	for _, item := range items {
		found, err := memberOf(item, left)
		if err != nil {
			return false, err
		}
		if !found {
			return false, nil
		}
	}
	return true, nil
}

func containsAny(left, right interface{}) (bool, error) {
	items, err := elements(right)
	if err != nil {
		return false, err
	}
	for _, item := range items {
		found, err := memberOf(item, left)
		if err != nil {
			return false, err
		}
		if found {
			return true, nil
		}
	}
	return false, nil
}

// dateBetween checks that the left operand falls inside the inclusive
// interval given by the right operand, a two-element sequence of dates.
// Dates may be time.Time values or RFC3339/ISO-8601 strings; all are
// compared in UTC.
func dateBetween(left, right interface{}) (bool, error) {
	bounds, err := elements(right)
	if err != nil || len(bounds) != 2 {
		return false, fmt.Errorf("the 'date_between' operator requires a range of two dates")
	}
	at, err := toTime(left)
	if err != nil {
		return false, err
	}
	from, err := toTime(bounds[0])
	if err != nil {
		return false, err
	}
	to, err := toTime(bounds[1])
	if err != nil {
		return false, err
	}
	at, from, to = at.UTC(), from.UTC(), to.UTC()
	return !at.Before(from) && !at.After(to), nil
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func toTime(v interface{}) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t, nil
	case string:
		for _, layout := range dateLayouts {
			if parsed, err := time.Parse(layout, t); err == nil {
				return parsed, nil
			}
		}
		return time.Time{}, fmt.Errorf("cannot parse '%s' as a date", t)
	}
	return time.Time{}, fmt.Errorf("operand of type %T is not a date", v)
}

// memberOf reports whether needle occurs in haystack: substring for
// strings, element for slices and arrays, key for maps.
func memberOf(needle, haystack interface{}) (bool, error) {
	if s, ok := haystack.(string); ok {
		sub, ok := needle.(string)
		if !ok {
			return false, fmt.Errorf("cannot search a string for an operand of type %T", needle)
		}
		return strings.Contains(s, sub), nil
	}
	rv := reflect.ValueOf(haystack)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			if Equal(rv.Index(i).Interface(), needle) {
				return true, nil
			}
		}
		return false, nil
	case reflect.Map:
		for _, key := range rv.MapKeys() {
			if Equal(key.Interface(), needle) {
				return true, nil
			}
		}
		return false, nil
	}
	return false, fmt.Errorf("operand of type %T is not a collection", haystack)
}

// elements flattens a collection operand into its items; strings flatten
// into single-character strings.
func elements(v interface{}) ([]interface{}, error) {
	if s, ok := v.(string); ok {
		items := make([]interface{}, 0, len(s))
		for _, r := range s {
			items = append(items, string(r))
		}
		return items, nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		items := make([]interface{}, rv.Len())
		for i := range items {
			items[i] = rv.Index(i).Interface()
		}
		return items, nil
	}
	return nil, fmt.Errorf("operand of type %T is not a collection", v)
}

func stringOperands(op string, left, right interface{}) (string, string, error) {
	l, lok := left.(string)
	r, rok := right.(string)
	if !lok || !rok {
		return "", "", fmt.Errorf("the '%s' operator requires string operands", op)
	}
	return l, r, nil
}
