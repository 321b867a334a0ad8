package reader

import (
	"testing"

	"github.com/eighty4/wfguard/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadWorkflow_Minimal(t *testing.T) {
	src := `
on: { push: }
jobs:
  build:
    runs-on: ubuntu-latest
    steps:
      - run: echo hi
`
	result, err := ReadWorkflow(src)
	require.NoError(t, err)
	assert.Empty(t, result.Errors)
	assert.True(t, result.Workflow.HasEvent(model.EventPush))
	job, ok := result.Workflow.Jobs["build"]
	require.True(t, ok)
	assert.Equal(t, model.JobSteps, job.Kind)
	require.Len(t, job.Steps, 1)
	assert.Equal(t, model.StepRun, job.Steps[0].Kind)
	assert.Equal(t, "echo hi", job.Steps[0].Run)
}

func TestReadWorkflow_NotAMap(t *testing.T) {
	_, err := ReadWorkflow("- just\n- a\n- sequence\n")
	assert.Error(t, err)
}

func TestReadWorkflow_UnknownEvent(t *testing.T) {
	src := `
on: [made_up_event]
jobs:
  build:
    runs-on: ubuntu-latest
    steps: [ { run: echo hi } ]
`
	result, err := ReadWorkflow(src)
	require.NoError(t, err)
	assert.NotEmpty(t, result.Errors)
}

func TestReadWorkflow_EmptyJobs(t *testing.T) {
	src := `
on: { push: }
jobs: {}
`
	result, err := ReadWorkflow(src)
	require.NoError(t, err)
	assert.NotEmpty(t, result.Errors)
}

func TestReadWorkflow_InvalidJobID(t *testing.T) {
	src := `
on: { push: }
jobs:
  1bad:
    runs-on: ubuntu-latest
    steps: [ { run: echo hi } ]
`
	result, err := ReadWorkflow(src)
	require.NoError(t, err)
	found := false
	for _, e := range result.Errors {
		if e.Object == "job" {
			found = true
		}
	}
	assert.True(t, found, "expected a job schema error for an invalid id")
}

func TestReadWorkflow_StepsAndUsesMutuallyExclusive(t *testing.T) {
	src := `
on: { push: }
jobs:
  build:
    steps: [ { run: echo hi } ]
    uses: ./.github/workflows/other.yml
`
	result, err := ReadWorkflow(src)
	require.NoError(t, err)
	assert.NotEmpty(t, result.Errors)
}

func TestReadWorkflow_WorkflowCallInputs(t *testing.T) {
	src := `
on:
  workflow_call:
    inputs:
      run_tests:
        type: boolean
        required: true
      environment_name:
        type: string
        default: staging
jobs:
  build:
    runs-on: ubuntu-latest
    steps: [ { run: echo hi } ]
`
	result, err := ReadWorkflow(src)
	require.NoError(t, err)
	assert.Empty(t, result.Errors)
	cfg, ok := result.Workflow.On[model.EventWorkflowCall]
	require.True(t, ok)
	input, ok := cfg.Inputs.Get("run_tests")
	require.True(t, ok)
	assert.Equal(t, model.InputBoolean, input.Type)
	assert.True(t, input.Required)
}

func TestReadWorkflow_ChoiceInputRequiresOptions(t *testing.T) {
	src := `
on:
  workflow_dispatch:
    inputs:
      env:
        type: choice
jobs:
  build:
    runs-on: ubuntu-latest
    steps: [ { run: echo hi } ]
`
	result, err := ReadWorkflow(src)
	require.NoError(t, err)
	assert.NotEmpty(t, result.Errors)
}

func TestReadWorkflow_UsesSpecifiers(t *testing.T) {
	src := `
on: { push: }
jobs:
  build:
    runs-on: ubuntu-latest
    steps:
      - uses: actions/checkout@v4
      - uses: ./.github/actions/local
      - uses: docker://alpine:3.19
`
	result, err := ReadWorkflow(src)
	require.NoError(t, err)
	assert.Empty(t, result.Errors)
	job := result.Workflow.Jobs["build"]
	require.Len(t, job.Steps, 3)
	assert.Equal(t, model.ActionRepository, job.Steps[0].Uses.Kind)
	assert.Equal(t, "actions", job.Steps[0].Uses.Owner)
	assert.Equal(t, "checkout", job.Steps[0].Uses.Repo)
	assert.Equal(t, "v4", job.Steps[0].Uses.Ref)
	assert.Equal(t, model.ActionFilesystem, job.Steps[1].Uses.Kind)
	assert.Equal(t, model.ActionDocker, job.Steps[2].Uses.Kind)
	assert.Equal(t, "alpine:3.19", job.Steps[2].Uses.URI)
}

func TestReadWorkflow_RunsOnShapes(t *testing.T) {
	src := `
on: { push: }
jobs:
  single:
    runs-on: ubuntu-latest
    steps: [ { run: echo a } ]
  list:
    runs-on: [self-hosted, linux]
    steps: [ { run: echo b } ]
  grouped:
    runs-on: { group: my-group, labels: [gpu] }
    steps: [ { run: echo c } ]
`
	result, err := ReadWorkflow(src)
	require.NoError(t, err)
	assert.Empty(t, result.Errors)
	assert.Equal(t, model.RunsOnLabel, result.Workflow.Jobs["single"].RunsOn.Kind)
	assert.Equal(t, model.RunsOnLabels, result.Workflow.Jobs["list"].RunsOn.Kind)
	assert.Equal(t, model.RunsOnGroup, result.Workflow.Jobs["grouped"].RunsOn.Kind)
	assert.Equal(t, "my-group", result.Workflow.Jobs["grouped"].RunsOn.Group)
}

func TestReadAction_Minimal(t *testing.T) {
	src := `
inputs:
  name:
    description: Who to greet
    required: true
    default: World
outputs:
  greeting:
    description: The greeting message
`
	result, err := ReadAction(src)
	require.NoError(t, err)
	assert.Empty(t, result.Errors)
	input, ok := result.Action.Inputs["name"]
	require.True(t, ok)
	assert.True(t, input.Required)
	require.NotNil(t, input.Default)
	assert.Equal(t, "World", *input.Default)
	_, ok = result.Action.Outputs["greeting"]
	assert.True(t, ok)
}

func TestReadAction_MissingDescription(t *testing.T) {
	src := `
inputs:
  name:
    required: true
`
	result, err := ReadAction(src)
	require.NoError(t, err)
	assert.NotEmpty(t, result.Errors)
}

func TestIsValidID(t *testing.T) {
	cases := []struct {
		id    string
		valid bool
	}{
		{"build", true},
		{"_build", true},
		{"build-1", true},
		{"build_1", true},
		{"1build", false},
		{"B", false},
		{"", false},
		{"a", false},
	}
	for _, c := range cases {
		assert.Equal(t, c.valid, isValidID(c.id), "id=%q", c.id)
	}
}
