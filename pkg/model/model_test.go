package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScalar_StringLike(t *testing.T) {
	assert.Equal(t, "true", NewBoolScalar(true).StringLike())
	assert.Equal(t, "false", NewBoolScalar(false).StringLike())
	assert.Equal(t, "42", NewNumberScalar(42).StringLike())
	assert.Equal(t, "3.5", NewNumberScalar(3.5).StringLike())
	assert.Equal(t, "hi", NewStringScalar("hi").StringLike())
}

func TestStep_Label(t *testing.T) {
	assert.Equal(t, "build", Step{ID: "build"}.Label(0))
	assert.Equal(t, "Build", Step{Name: "Build"}.Label(0))
	assert.Equal(t, "step[3]", Step{}.Label(3))
}

func TestWorkflow_HasEvent(t *testing.T) {
	wf := Workflow{On: map[EventName]EventConfig{EventPush: {Name: EventPush}}}
	assert.True(t, wf.HasEvent(EventPush))
	assert.False(t, wf.HasEvent(EventPullRequest))
}

func TestInputList_Get(t *testing.T) {
	list := InputList{{ID: "a"}, {ID: "b"}}
	in, ok := list.Get("b")
	assert.True(t, ok)
	assert.Equal(t, "b", in.ID)
	_, ok = list.Get("missing")
	assert.False(t, ok)
}

func TestSpecifier_Raw(t *testing.T) {
	wfCall := WorkflowCallSpecifier{Raw: "owner/repo/.github/workflows/a.yml@main"}
	assert.Equal(t, wfCall.Raw, wfCall.Specifier())

	action := ActionSpecifier{Raw: "actions/checkout@v4"}
	assert.Equal(t, action.Raw, action.Specifier())
}
