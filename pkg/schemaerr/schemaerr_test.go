package schemaerr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPath_Field(t *testing.T) {
	p := Root.Field("on").Field("workflow_call").Field("inputs")
	assert.Equal(t, "on.workflow_call.inputs", p.String())
}

func TestPath_Index(t *testing.T) {
	p := Root.Field("jobs").Field("build").Field("steps").Index(2)
	assert.Equal(t, "jobs.build.steps[2]", p.String())
}

func TestCollector_NeverAborts(t *testing.T) {
	c := NewCollector()
	assert.False(t, c.HasErrors())
	c.Add(ObjectJob, "jobs.build", "first")
	c.Add(ObjectStep, "jobs.build.steps[0]", "second")
	assert.True(t, c.HasErrors())
	assert.Equal(t, 2, c.Count())
	assert.Len(t, c.Errors(), 2)
}

func TestError_String(t *testing.T) {
	e := Error{Object: ObjectJob, Path: "jobs.build", Message: "boom"}
	assert.Equal(t, "jobs.build: boom", e.String())

	e2 := Error{Object: ObjectWorkflow, Message: "no path"}
	assert.Equal(t, "no path", e2.String())
}
