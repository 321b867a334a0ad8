package analyzer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/eighty4/wfguard/pkg/cache"
	"github.com/eighty4/wfguard/pkg/domainerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeWorkflow(t *testing.T, root, name, content string) {
	t.Helper()
	dir := filepath.Join(root, ".github", "workflows")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func newTempCache(t *testing.T) (string, *cache.Cache) {
	t.Helper()
	root := t.TempDir()
	return root, cache.New(root, nil)
}

func asDomainErr(t *testing.T, err error) *domainerr.Error {
	t.Helper()
	var domErr *domainerr.Error
	require.ErrorAs(t, err, &domErr)
	return domErr
}

func TestAnalyze_S1_WorkflowCallMissing(t *testing.T) {
	root, c := newTempCache(t)
	writeWorkflow(t, root, "release.yml", `
on: { workflow_dispatch: }
jobs: { verify: { uses: ./.github/workflows/verify.yml } }
`)
	writeWorkflow(t, root, "verify.yml", `
on: { pull_request:, push: }
jobs: { verify: { runs-on: ubuntu-latest, steps: [ { run: echo verified } ] } }
`)

	err := New(c).AnalyzeFile(".github/workflows/release.yml")
	require.Error(t, err)
	domErr := asDomainErr(t, err)
	assert.Equal(t, domainerr.WorkflowRuntime, domErr.Kind)
	assert.Equal(t, "job `verify` using a workflow requires `on.workflow_call:` in the called workflow", domErr.Message)
}

func TestAnalyze_S2_RequiredInputMissing(t *testing.T) {
	root, c := newTempCache(t)
	writeWorkflow(t, root, "release.yml", `
on: { workflow_dispatch: }
jobs: { verify: { uses: ./.github/workflows/verify.yml } }
`)
	writeWorkflow(t, root, "verify.yml", `
on:
  workflow_call:
    inputs:
      run_tests: { type: boolean, required: true }
jobs: { verify: { runs-on: ubuntu-latest, steps: [ { run: echo verified } ] } }
`)

	err := New(c).AnalyzeFile(".github/workflows/release.yml")
	require.Error(t, err)
	domErr := asDomainErr(t, err)
	assert.Equal(t, "input `run_tests` is required to call workflow from job `verify`", domErr.Message)
}

func TestAnalyze_S3_RequiredInputWrongType(t *testing.T) {
	root, c := newTempCache(t)
	writeWorkflow(t, root, "release.yml", `
on: { workflow_dispatch: }
jobs:
  verify:
    uses: ./.github/workflows/verify.yml
    with: { run_tests: "frequent flyer miles" }
`)
	writeWorkflow(t, root, "verify.yml", `
on:
  workflow_call:
    inputs:
      run_tests: { type: boolean, required: true }
jobs: { verify: { runs-on: ubuntu-latest, steps: [ { run: echo verified } ] } }
`)

	err := New(c).AnalyzeFile(".github/workflows/release.yml")
	require.Error(t, err)
	domErr := asDomainErr(t, err)
	assert.Equal(t, "input `run_tests` is a `boolean` input and job `verify` cannot call workflow with a `string` value", domErr.Message)
}

func TestAnalyze_S4_RequiredInputWithDefault(t *testing.T) {
	root, c := newTempCache(t)
	writeWorkflow(t, root, "release.yml", `
on: { workflow_dispatch: }
jobs: { verify: { uses: ./.github/workflows/verify.yml } }
`)
	writeWorkflow(t, root, "verify.yml", `
on:
  workflow_call:
    inputs:
      run_tests: { type: boolean, required: true, default: true }
jobs: { verify: { runs-on: ubuntu-latest, steps: [ { run: echo verified } ] } }
`)

	err := New(c).AnalyzeFile(".github/workflows/release.yml")
	assert.NoError(t, err)
}

// With no repository client configured, a repository action cannot be
// loaded, so the analyzer stops with ACTION_NOT_FOUND before it reaches the
// required-input check.
func TestAnalyze_RepositoryActionNotFoundWithoutClient(t *testing.T) {
	root, c := newTempCache(t)
	writeWorkflow(t, root, "verify.yml", `
on: { push: }
jobs:
  verify:
    runs-on: ubuntu-latest
    steps:
      - uses: eighty4/l3/setup@v3
`)
	err := New(c).AnalyzeFile(".github/workflows/verify.yml")
	require.Error(t, err)
	domErr := asDomainErr(t, err)
	assert.Equal(t, domainerr.ActionNotFound, domErr.Kind)
}

func TestAnalyze_CacheDeduplicatesCallees(t *testing.T) {
	root, c := newTempCache(t)
	writeWorkflow(t, root, "caller.yml", `
on: { push: }
jobs:
  first:
    uses: ./.github/workflows/shared.yml
  second:
    uses: ./.github/workflows/shared.yml
`)
	writeWorkflow(t, root, "shared.yml", `
on: { workflow_call: }
jobs: { build: { runs-on: ubuntu-latest, steps: [ { run: echo shared } ] } }
`)

	require.NoError(t, New(c).AnalyzeFile(".github/workflows/caller.yml"))

	os.RemoveAll(filepath.Join(root, ".github", "workflows", "shared.yml"))

	require.NoError(t, New(c).AnalyzeFile(".github/workflows/caller.yml"), "second run must hit the cache, not the filesystem")
}
