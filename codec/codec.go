// Package codec converts in-memory rule representations — JSON or YAML
// documents, or already-decoded maps — into the typed roolz model. It is
// the place where untyped input still exists, so structural problems the
// type system rules out later (unknown keys, args that are not a list) are
// reported here.
package codec

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"

	"github.com/sfodje/roolz"
)

// DecodeError reports a rule document that cannot be converted into the
// typed model. Path follows the same convention as roolz.ValidationError.
type DecodeError struct {
	Path    string
	Message string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("cannot decode rule at '%s': %s", e.Path, e.Message)
}

// FromJSON decodes a JSON rule document.
func FromJSON(data []byte) (*roolz.Rule, error) {
	if !gjson.ValidBytes(data) {
		return nil, &DecodeError{Path: "", Message: "invalid JSON"}
	}
	doc, ok := gjson.ParseBytes(data).Value().(map[string]interface{})
	if !ok {
		return nil, &DecodeError{Path: "", Message: "rule must be an object"}
	}
	return FromMap(doc)
}

// FromYAML decodes a YAML rule document.
func FromYAML(data []byte) (*roolz.Rule, error) {
	var doc map[string]interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &DecodeError{Path: "", Message: err.Error()}
	}
	if doc == nil {
		return nil, &DecodeError{Path: "", Message: "rule must be a mapping"}
	}
	return FromMap(doc)
}

// FromMap converts an untyped rule map into the typed model. The condition
// entry may be a boolean, one of the literals "true", "true()", "false" and
// "false()" (any case), or a nested condition map dispatching on its key
// set: a sole "all", "any" or "not" key builds the corresponding composite,
// anything else is read as a fact condition. Unknown keys are errors.
func FromMap(doc map[string]interface{}) (*roolz.Rule, error) {
	var unknown []string
	for key := range doc {
		if key != "condition" && key != "actions" {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, &DecodeError{Path: "", Message: "invalid keys: " + strings.Join(unknown, ", ")}
	}
	rule := &roolz.Rule{}
	if raw, ok := doc["condition"]; ok && raw != nil {
		cond, err := decodeCondition(raw, "condition")
		if err != nil {
			return nil, err
		}
		rule.Condition = cond
	}
	if raw, ok := doc["actions"]; ok && raw != nil {
		actions, err := decodeActions(raw)
		if err != nil {
			return nil, err
		}
		rule.Actions = actions
	}
	return rule, nil
}

func decodeCondition(raw interface{}, path string) (roolz.Condition, error) {
	switch v := raw.(type) {
	case bool:
		return roolz.Bool(v), nil
	case string:
		switch strings.ToLower(v) {
		case "true", "true()":
			return roolz.Bool(true), nil
		case "false", "false()":
			return roolz.Bool(false), nil
		}
		return nil, &DecodeError{Path: path, Message: "condition must be a boolean or a mapping"}
	case map[string]interface{}:
		return decodeConditionMap(v, path)
	}
	return nil, &DecodeError{Path: path, Message: "condition must be a boolean or a mapping"}
}

func decodeConditionMap(m map[string]interface{}, path string) (roolz.Condition, error) {
	if len(m) == 1 {
		if raw, ok := m["all"]; ok {
			operands, err := decodeOperands(raw, path+".all")
			if err != nil {
				return nil, err
			}
			return roolz.All(operands), nil
		}
		if raw, ok := m["any"]; ok {
			operands, err := decodeOperands(raw, path+".any")
			if err != nil {
				return nil, err
			}
			return roolz.Any(operands), nil
		}
		if raw, ok := m["not"]; ok {
			operand, err := decodeCondition(raw, path+".not")
			if err != nil {
				return nil, err
			}
			return roolz.Not{Cond: operand}, nil
		}
	}
	var cond roolz.FactCondition
	if err := decodeRecord(m, &cond, path); err != nil {
		return nil, err
	}
	return cond, nil
}

func decodeOperands(raw interface{}, path string) ([]roolz.Condition, error) {
	list, ok := raw.([]interface{})
	if !ok {
		return nil, &DecodeError{Path: path, Message: "must be a list of conditions"}
	}
	operands := make([]roolz.Condition, 0, len(list))
	for i, item := range list {
		operand, err := decodeCondition(item, fmt.Sprintf("%s[%d]", path, i))
		if err != nil {
			return nil, err
		}
		operands = append(operands, operand)
	}
	return operands, nil
}

func decodeActions(raw interface{}) ([]roolz.Action, error) {
	list, ok := raw.([]interface{})
	if !ok {
		return nil, &DecodeError{Path: "actions", Message: "must be a list of actions"}
	}
	actions := make([]roolz.Action, 0, len(list))
	for i, item := range list {
		path := fmt.Sprintf("actions[%d]", i)
		m, ok := item.(map[string]interface{})
		if !ok {
			return nil, &DecodeError{Path: path, Message: "action must be a mapping"}
		}
		var action roolz.Action
		if err := decodeRecord(m, &action, path); err != nil {
			return nil, err
		}
		actions = append(actions, action)
	}
	return actions, nil
}

// decodeRecord fills out from m, reporting keys that have no matching
// field. mapstructure matches keys case-insensitively, which keeps the
// decoding forgiving about Condition vs condition in hand-written YAML.
func decodeRecord(m map[string]interface{}, out interface{}, path string) error {
	var meta mapstructure.Metadata
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:   out,
		Metadata: &meta,
	})
	if err != nil {
		return &DecodeError{Path: path, Message: err.Error()}
	}
	if err := decoder.Decode(m); err != nil {
		return &DecodeError{Path: path, Message: err.Error()}
	}
	if len(meta.Unused) > 0 {
		sort.Strings(meta.Unused)
		return &DecodeError{Path: path, Message: "invalid keys: " + strings.Join(meta.Unused, ", ")}
	}
	return nil
}
