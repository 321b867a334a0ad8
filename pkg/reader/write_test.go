package reader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRoundTrip_* verify the round-trip law: a model serialized back through
// WriteWorkflow's canonical form, then re-read, produces the same model and
// empty errors.
func TestRoundTrip_StepsJob(t *testing.T) {
	src := `
on:
  push:
  pull_request:
jobs:
  build:
    name: Build
    runs-on: ubuntu-latest
    env:
      CI: "true"
    steps:
      - id: checkout
        uses: actions/checkout@v4
        with:
          fetch-depth: 0
      - name: Run tests
        run: go test ./...
`
	first, err := ReadWorkflow(src)
	require.NoError(t, err)
	require.Empty(t, first.Errors)

	rendered, err := WriteWorkflow(first.Workflow)
	require.NoError(t, err)

	second, err := ReadWorkflow(rendered)
	require.NoError(t, err)
	assert.Empty(t, second.Errors)
	assert.Equal(t, first.Workflow, second.Workflow)
}

func TestRoundTrip_UsesJobWithTypedInputs(t *testing.T) {
	src := `
on:
  workflow_dispatch:
    inputs:
      run_tests:
        type: boolean
        required: true
        default: true
      environment:
        type: choice
        options: [staging, production]
        default: staging
jobs:
  call-shared:
    uses: octo-org/octo-repo/.github/workflows/shared.yml@v1
    with:
      run_tests: true
      environment: production
`
	first, err := ReadWorkflow(src)
	require.NoError(t, err)
	require.Empty(t, first.Errors)

	rendered, err := WriteWorkflow(first.Workflow)
	require.NoError(t, err)

	second, err := ReadWorkflow(rendered)
	require.NoError(t, err)
	assert.Empty(t, second.Errors)
	assert.Equal(t, first.Workflow, second.Workflow)
}

func TestRoundTrip_RunsOnGroup(t *testing.T) {
	src := `
on: { push: }
jobs:
  build:
    runs-on:
      group: linux-runners
      labels: [self-hosted, x64]
    steps:
      - run: make
`
	first, err := ReadWorkflow(src)
	require.NoError(t, err)
	require.Empty(t, first.Errors)

	rendered, err := WriteWorkflow(first.Workflow)
	require.NoError(t, err)

	second, err := ReadWorkflow(rendered)
	require.NoError(t, err)
	assert.Empty(t, second.Errors)
	assert.Equal(t, first.Workflow, second.Workflow)
}
