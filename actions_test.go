package roolz

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingActor tracks invocations so tests can assert on order and count.
func recordingActor(calls *[]string) ActionFuncs {
	record := func(name string) ActionFunc {
		return func(args []interface{}, params map[string]interface{}) error {
			*calls = append(*calls, name)
			return nil
		}
	}
	return ActionFuncs{
		"valid_action":   record("valid_action"),
		"another_action": record("another_action"),
		"closing_action": record("closing_action"),
	}
}

func TestExecuteActions(t *testing.T) {
	var calls []string
	actor := recordingActor(&calls)

	err := ExecuteActions(actor, []Action{
		{Action: "valid_action"},
		{Action: "another_action"},
		{Action: "closing_action"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"valid_action", "another_action", "closing_action"}, calls)
}

func TestExecuteActionsPassesArgsAndParams(t *testing.T) {
	var gotArgs []interface{}
	var gotParams map[string]interface{}
	actor := ActionFuncs{
		"capture": func(args []interface{}, params map[string]interface{}) error {
			gotArgs, gotParams = args, params
			return nil
		},
	}

	err := ExecuteActions(actor, []Action{{
		Action: "capture",
		Args:   []interface{}{1, 2, 3},
		Params: map[string]interface{}{"key": "value"},
	}})
	require.NoError(t, err)
	assert.Equal(t, []interface{}{1, 2, 3}, gotArgs)
	assert.Equal(t, map[string]interface{}{"key": "value"}, gotParams)
}

func TestExecuteActionsNilActor(t *testing.T) {
	err := ExecuteActions(nil, []Action{{Action: "valid_action"}})
	var methodErr *UndefinedMethodError
	require.ErrorAs(t, err, &methodErr)
	assert.Equal(t, "actor", methodErr.Collaborator)

	// No actions, no lookups: a nil actor is fine.
	assert.NoError(t, ExecuteActions(nil, nil))
}

func TestExecuteActionsMissingMethodAborts(t *testing.T) {
	var calls []string
	actor := recordingActor(&calls)

	err := ExecuteActions(actor, []Action{
		{Action: "valid_action"},
		{Action: "missing_action"},
		{Action: "another_action"},
	})
	var methodErr *UndefinedMethodError
	require.ErrorAs(t, err, &methodErr)
	assert.Equal(t, "missing_action", methodErr.Method)
	assert.Equal(t, []string{"valid_action"}, calls, "actions after the failure must not run")
}

func TestExecuteActionsErrorPropagates(t *testing.T) {
	boom := errors.New("action exploded")
	var calls []string
	actor := recordingActor(&calls)
	actor["exploding"] = func(args []interface{}, params map[string]interface{}) error {
		return boom
	}

	err := ExecuteActions(actor, []Action{
		{Action: "exploding"},
		{Action: "valid_action"},
	})
	assert.Same(t, boom, err)
	assert.Empty(t, calls)
}

func TestValidateActions(t *testing.T) {
	var calls []string
	actor := recordingActor(&calls)

	assert.Empty(t, ValidateActions([]Action{{Action: "valid_action"}}, actor))
	assert.Empty(t, ValidateActions(nil, actor))
	assert.Empty(t, calls, "validation must not invoke action methods")
}

func TestValidateActionsNilActor(t *testing.T) {
	errs := ValidateActions([]Action{{Action: "valid_action"}}, nil)
	require.Len(t, errs, 1)
	assert.Equal(t, "actions", errs[0].Path)
	assert.Contains(t, errs[0].Message, "actor collaborator is required")
}

func TestValidateActionsAccumulates(t *testing.T) {
	var calls []string
	actor := recordingActor(&calls)

	errs := ValidateActions([]Action{
		{Action: "valid_action"},
		{},
		{Action: "missing_action"},
	}, actor)
	require.Len(t, errs, 2)
	assert.Equal(t, "actions[1]", errs[0].Path)
	assert.Equal(t, "'action' is required", errs[0].Message)
	assert.Equal(t, "actions[2]", errs[1].Path)
	assert.Equal(t, "action method 'missing_action' is not defined", errs[1].Message)
}
