package cache

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/eighty4/wfguard/pkg/domainerr"
	"github.com/eighty4/wfguard/pkg/fetch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCache_NegativeCaching_DoesNotRetryFilesystemFailure proves the
// at-most-once property holds on the failure path: once a key has failed,
// a later call for the same key returns the cached error rather than
// re-fetching, even after the underlying condition that caused the failure
// no longer holds.
func TestCache_NegativeCaching_DoesNotRetryFilesystemFailure(t *testing.T) {
	root := t.TempDir()
	c := New(root, nil)

	_, err := c.WorkflowFromFilesystem(".github/workflows/missing.yml", "")
	require.Error(t, err)
	var domErr *domainerr.Error
	require.ErrorAs(t, err, &domErr)
	assert.Equal(t, domainerr.WorkflowNotFound, domErr.Kind)

	dir := filepath.Join(root, ".github", "workflows")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "missing.yml"), []byte(`
on: { push: }
jobs: { build: { runs-on: ubuntu-latest, steps: [ { run: echo hi } ] } }
`), 0o644))

	_, err = c.WorkflowFromFilesystem(".github/workflows/missing.yml", "")
	require.Error(t, err, "a second call for the same key must return the cached failure, not re-fetch")
}

// TestCache_SuccessIsStillMemoized guards the companion success-path
// property: once loaded, a workflow is never re-parsed even if the
// underlying file disappears.
func TestCache_SuccessIsStillMemoized(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, ".github", "workflows")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "present.yml"), []byte(`
on: { push: }
jobs: { build: { runs-on: ubuntu-latest, steps: [ { run: echo hi } ] } }
`), 0o644))

	c := New(root, nil)
	_, err := c.WorkflowFromFilesystem(".github/workflows/present.yml", "")
	require.NoError(t, err)

	require.NoError(t, os.RemoveAll(dir))

	_, err = c.WorkflowFromFilesystem(".github/workflows/present.yml", "")
	require.NoError(t, err, "a cached success must not be invalidated by later filesystem changes")
}

// TestCache_BindsTargetToReferencedBy verifies a domain error raised for a
// callee target is bound to the referencing document's path, not the
// callee's own path, whenever a referencer is known.
func TestCache_BindsTargetToReferencedBy(t *testing.T) {
	root := t.TempDir()
	c := New(root, nil)

	_, err := c.WorkflowFromFilesystem(".github/workflows/callee.yml", ".github/workflows/caller.yml")
	require.Error(t, err)
	var domErr *domainerr.Error
	require.ErrorAs(t, err, &domErr)
	assert.Equal(t, ".github/workflows/caller.yml", domErr.Target)
}

// TestCache_BindsTargetToOwnPathWhenNoReferencer verifies a top-level load
// (no referencer) falls back to binding Target to its own path.
func TestCache_BindsTargetToOwnPathWhenNoReferencer(t *testing.T) {
	root := t.TempDir()
	c := New(root, nil)

	_, err := c.WorkflowFromFilesystem(".github/workflows/missing.yml", "")
	require.Error(t, err)
	var domErr *domainerr.Error
	require.ErrorAs(t, err, &domErr)
	assert.Equal(t, ".github/workflows/missing.yml", domErr.Target)
}

func TestTranslateFetchError_RateLimited(t *testing.T) {
	err := translateFetchError(domainerr.WorkflowNotFound, "octo/repo@main", &fetch.RateLimitedError{ResetEpoch: 1893456000})
	var domErr *domainerr.Error
	require.ErrorAs(t, err, &domErr)
	assert.Equal(t, domainerr.RateLimited, domErr.Kind)
	assert.Equal(t, int64(1893456000), domErr.ResetEpoch)
}

func TestTranslateFetchError_Unauthorized(t *testing.T) {
	err := translateFetchError(domainerr.ActionNotFound, "octo/repo@main", fetch.ErrUnauthorized)
	var domErr *domainerr.Error
	require.ErrorAs(t, err, &domErr)
	assert.Equal(t, domainerr.Unauthorized, domErr.Kind)
}

func TestTranslateFetchError_DefaultsToNotFound(t *testing.T) {
	err := translateFetchError(domainerr.ActionNotFound, "octo/repo@main", fetch.ErrNotFound)
	var domErr *domainerr.Error
	require.ErrorAs(t, err, &domErr)
	assert.Equal(t, domainerr.ActionNotFound, domErr.Kind)
	assert.True(t, errors.Is(err, fetch.ErrNotFound))
}
