// Package cache implements the document cache: a keyed, memoizing loader in
// front of pkg/fetch + pkg/reader that guarantees any distinct target is
// fetched and parsed at most once per analyzer run, including on the
// failure path. Deduplication is grounded on golang.org/x/sync/singleflight,
// the same "shared pending result" primitive github/gh-aw already depends on
// via golang.org/x/sync for its own concurrent processing.
package cache

import (
	"errors"
	"fmt"

	"github.com/eighty4/wfguard/pkg/domainerr"
	"github.com/eighty4/wfguard/pkg/fetch"
	"github.com/eighty4/wfguard/pkg/logger"
	"github.com/eighty4/wfguard/pkg/model"
	"github.com/eighty4/wfguard/pkg/reader"
	"golang.org/x/sync/singleflight"
)

var log = logger.New("cache:cache")

// workflowEntry memoizes either outcome of loading a workflow, so a failed
// load is never retried by a later, non-concurrent caller.
type workflowEntry struct {
	val model.Workflow
	err error
}

// actionEntry memoizes either outcome of loading an action.
type actionEntry struct {
	val model.Action
	err error
}

// Cache loads workflow and action documents, deduplicating concurrent and
// repeated requests for the same target key. A key that already failed once
// returns the cached error on every subsequent call instead of re-fetching.
type Cache struct {
	root string
	repo *fetch.RepositoryClient

	group     singleflight.Group
	workflows map[string]workflowEntry
	actions   map[string]actionEntry
}

// New creates a Cache rooted at a local project directory, optionally backed
// by a repository client for remote `uses:` targets. repo may be nil if no
// GitHub token is configured; in that case remote targets fail as not-found.
func New(root string, repo *fetch.RepositoryClient) *Cache {
	return &Cache{
		root:      root,
		repo:      repo,
		workflows: make(map[string]workflowEntry),
		actions:   make(map[string]actionEntry),
	}
}

// WorkflowFromFilesystem loads and parses a workflow referenced by a
// filesystem-relative path, keyed by that path. referencedBy is the path of
// the workflow that declared this job's `uses:`, or "" for a top-level load;
// any domain error is bound to it when set.
func (c *Cache) WorkflowFromFilesystem(path, referencedBy string) (model.Workflow, error) {
	key := "fs:workflow:" + path
	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		if entry, ok := c.workflows[key]; ok {
			log.Printf("Cache hit: %s", key)
			return entry.val, entry.err
		}
		log.Printf("Loading workflow from filesystem: %s", path)
		target := bindTarget(referencedBy, path)
		wf, err := loadFilesystemWorkflow(c.root, path, target)
		c.workflows[key] = workflowEntry{val: wf, err: err}
		return wf, err
	})
	if err != nil {
		return model.Workflow{}, err
	}
	return v.(model.Workflow), nil
}

func loadFilesystemWorkflow(root, path, target string) (model.Workflow, error) {
	src, ferr := fetch.File(root, path)
	if ferr != nil {
		return model.Workflow{}, domainerr.NewNotFound(domainerr.WorkflowNotFound, target, ferr)
	}
	result, rerr := reader.ReadWorkflow(src)
	if rerr != nil {
		return model.Workflow{}, domainerr.NewRuntime(target, rerr.Error())
	}
	if len(result.Errors) > 0 {
		return model.Workflow{}, domainerr.NewSchemaError(domainerr.WorkflowSchema, target, result.Errors)
	}
	result.Workflow.Path = path
	return result.Workflow, nil
}

// WorkflowFromRepository loads and parses a reusable workflow referenced by
// a repository specifier, keyed by owner/repo/path@ref. referencedBy is the
// path of the workflow that declared the calling job.
func (c *Cache) WorkflowFromRepository(spec model.WorkflowCallSpecifier, referencedBy string) (model.Workflow, error) {
	key := fmt.Sprintf("repo:workflow:%s/%s/.github/workflows/%s@%s", spec.Owner, spec.Repo, spec.Filename, spec.Ref)
	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		if entry, ok := c.workflows[key]; ok {
			log.Printf("Cache hit: %s", key)
			return entry.val, entry.err
		}
		target := bindTarget(referencedBy, spec.Raw)
		wf, err := c.loadRepositoryWorkflow(spec, target)
		c.workflows[key] = workflowEntry{val: wf, err: err}
		return wf, err
	})
	if err != nil {
		return model.Workflow{}, err
	}
	return v.(model.Workflow), nil
}

func (c *Cache) loadRepositoryWorkflow(spec model.WorkflowCallSpecifier, target string) (model.Workflow, error) {
	if c.repo == nil {
		return model.Workflow{}, domainerr.NewNotFound(domainerr.WorkflowNotFound, target, fetch.ErrNotFound)
	}
	log.Printf("Loading workflow from repository: %s", spec.Raw)
	path := ".github/workflows/" + spec.Filename
	src, ferr := c.repo.FetchContent(spec.Owner, spec.Repo, spec.Ref, path)
	if ferr != nil {
		return model.Workflow{}, translateFetchError(domainerr.WorkflowNotFound, target, ferr)
	}
	result, rerr := reader.ReadWorkflow(src)
	if rerr != nil {
		return model.Workflow{}, domainerr.NewRuntime(target, rerr.Error())
	}
	if len(result.Errors) > 0 {
		return model.Workflow{}, domainerr.NewSchemaError(domainerr.WorkflowSchema, target, result.Errors)
	}
	return result.Workflow, nil
}

// ActionFromRepository loads and parses an action's metadata, trying
// action.yml then action.yaml, keyed by owner/repo/subdir@ref. referencedBy
// is the path of the workflow whose step declared this `uses:`.
func (c *Cache) ActionFromRepository(spec model.ActionSpecifier, referencedBy string) (model.Action, error) {
	key := fmt.Sprintf("repo:action:%s/%s/%s@%s", spec.Owner, spec.Repo, spec.Subdirectory, spec.Ref)
	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		if entry, ok := c.actions[key]; ok {
			log.Printf("Cache hit: %s", key)
			return entry.val, entry.err
		}
		target := bindTarget(referencedBy, spec.Raw)
		action, err := c.loadRepositoryAction(spec, target)
		c.actions[key] = actionEntry{val: action, err: err}
		return action, err
	})
	if err != nil {
		return model.Action{}, err
	}
	return v.(model.Action), nil
}

func (c *Cache) loadRepositoryAction(spec model.ActionSpecifier, target string) (model.Action, error) {
	if c.repo == nil {
		return model.Action{}, domainerr.NewNotFound(domainerr.ActionNotFound, target, fetch.ErrNotFound)
	}
	log.Printf("Loading action from repository: %s", spec.Raw)
	src, ferr := c.repo.FetchActionMetadata(spec.Owner, spec.Repo, spec.Ref, spec.Subdirectory)
	if ferr != nil {
		return model.Action{}, translateFetchError(domainerr.ActionNotFound, target, ferr)
	}
	result, rerr := reader.ReadAction(src)
	if rerr != nil {
		return model.Action{}, domainerr.NewRuntime(target, rerr.Error())
	}
	if len(result.Errors) > 0 {
		return model.Action{}, domainerr.NewSchemaError(domainerr.ActionSchema, target, result.Errors)
	}
	return result.Action, nil
}

// bindTarget prefers the referencing document's path, falling back to the
// callee's own path/specifier for a top-level load with no referencer.
func bindTarget(referencedBy, own string) string {
	if referencedBy != "" {
		return referencedBy
	}
	return own
}

// translateFetchError maps a fetch-layer error to a domain error, preserving
// the distinct rate-limit and unauthorized conditions instead of collapsing
// every failure into not-found. A transport-level NetworkError is treated as
// not-found at this boundary rather than surfaced as its own kind.
func translateFetchError(kind domainerr.Kind, target string, err error) error {
	var rateLimited *fetch.RateLimitedError
	if errors.As(err, &rateLimited) {
		return domainerr.NewRateLimited(target, rateLimited.ResetEpoch, err)
	}
	if errors.Is(err, fetch.ErrUnauthorized) {
		return domainerr.NewUnauthorized(target, err)
	}
	return domainerr.NewNotFound(kind, target, err)
}
