// Package analyzer implements the cross-document analyzer (C7): given a
// validated top-level workflow, it resolves every `uses:` edge through
// pkg/cache and checks required-input satisfaction and type compatibility.
// Per-job parallelism is grounded on golang.org/x/sync/errgroup, a direct
// dependency shared by the retrieved pack for bounded concurrent fan-out
// with first-error short-circuit.
package analyzer

import (
	"fmt"
	"strings"

	"github.com/eighty4/wfguard/pkg/cache"
	"github.com/eighty4/wfguard/pkg/domainerr"
	"github.com/eighty4/wfguard/pkg/logger"
	"github.com/eighty4/wfguard/pkg/model"
	"golang.org/x/sync/errgroup"
)

var log = logger.New("analyzer:analyzer")

// Analyzer walks a workflow's jobs and steps, resolving `uses:` targets
// through a Cache.
type Analyzer struct {
	cache *cache.Cache
}

// New creates an Analyzer backed by cache.
func New(c *cache.Cache) *Analyzer {
	return &Analyzer{cache: c}
}

// AnalyzeFile loads and analyzes the workflow at path.
func (a *Analyzer) AnalyzeFile(path string) error {
	wf, err := a.cache.WorkflowFromFilesystem(path, "")
	if err != nil {
		return err
	}
	return a.Analyze(wf)
}

// Analyze validates every outgoing reference of an already-parsed workflow.
func (a *Analyzer) Analyze(wf model.Workflow) error {
	log.Printf("Analyzing workflow: path=%s jobs=%d", wf.Path, len(wf.Jobs))

	var g errgroup.Group
	for id, job := range wf.Jobs {
		id, job := id, job
		g.Go(func() error {
			return a.analyzeJob(wf.Path, id, job)
		})
	}
	return g.Wait()
}

func (a *Analyzer) analyzeJob(referencedBy, id string, job model.Job) error {
	switch job.Kind {
	case model.JobUses:
		return a.analyzeUsesJob(referencedBy, id, job)
	case model.JobSteps:
		return a.analyzeStepsJob(referencedBy, id, job)
	default:
		return nil
	}
}

func (a *Analyzer) analyzeUsesJob(referencedBy, id string, job model.Job) error {
	if job.Uses.Kind != model.WorkflowCallFilesystem && job.Uses.Kind != model.WorkflowCallRepository {
		return nil
	}

	var callee model.Workflow
	var err error
	if job.Uses.Kind == model.WorkflowCallFilesystem {
		callee, err = a.cache.WorkflowFromFilesystem(job.Uses.Path, referencedBy)
	} else {
		callee, err = a.cache.WorkflowFromRepository(job.Uses, referencedBy)
	}
	if err != nil {
		return err
	}

	callEvent, ok := callee.On[model.EventWorkflowCall]
	if !ok {
		return domainerr.NewRuntime(job.Uses.Raw, fmt.Sprintf("job `%s` using a workflow requires `on.workflow_call:` in the called workflow", id))
	}

	for _, input := range callEvent.Inputs {
		if !input.Required || input.Default != nil {
			continue
		}
		provided, present := job.With[input.ID]
		if !present {
			return domainerr.NewRuntime(job.Uses.Raw, fmt.Sprintf("input `%s` is required to call workflow from job `%s`", input.ID, id))
		}
		if !typeCompatible(input.Type, provided) {
			return domainerr.NewRuntime(job.Uses.Raw, fmt.Sprintf("input `%s` is a `%s` input and job `%s` cannot call workflow with a `%s` value", input.ID, input.Type, id, scalarKindName(provided)))
		}
	}
	return nil
}

func (a *Analyzer) analyzeStepsJob(referencedBy, id string, job model.Job) error {
	for i, step := range job.Steps {
		if step.Kind != model.StepUses || step.Uses.Kind != model.ActionRepository {
			continue
		}

		action, err := a.cache.ActionFromRepository(step.Uses, referencedBy)
		if err != nil {
			return err
		}

		label := step.Label(i)
		for iid, input := range action.Inputs {
			if !input.Required || input.Default != nil {
				continue
			}
			if _, present := step.With[iid]; !present {
				return domainerr.NewRuntime(step.Uses.Raw, fmt.Sprintf("input `%s` is required to call action `%s` from `%s` in job `%s`", iid, step.Uses.Raw, label, id))
			}
		}
	}
	return nil
}

// typeCompatible implements the callee-type → admissible caller scalar kind
// table, including the "unknown scalar kind" elision rule for strings that
// are entirely composed of ${{ }} expressions.
func typeCompatible(calleeType model.InputType, value model.Scalar) bool {
	if value.Kind == model.ScalarString && isUnknownExpression(value.Str) {
		return true
	}

	switch calleeType {
	case model.InputBoolean:
		return value.Kind == model.ScalarBoolean
	case model.InputNumber:
		return value.Kind == model.ScalarNumber
	case model.InputString, model.InputChoice:
		return true
	case model.InputEnvironment:
		return value.Kind == model.ScalarString
	default:
		return true
	}
}

// isUnknownExpression reports whether s, after eliding every ${{ ... }}
// expression, is empty once trimmed — meaning its runtime type can't be
// determined from static analysis alone.
func isUnknownExpression(s string) bool {
	if !strings.Contains(s, "${{") {
		return false
	}
	var b strings.Builder
	depth := 0
	for i := 0; i < len(s); i++ {
		if depth == 0 && strings.HasPrefix(s[i:], "${{") {
			depth++
			i += 2
			continue
		}
		if depth > 0 && strings.HasPrefix(s[i:], "}}") {
			depth--
			i++
			continue
		}
		if depth == 0 {
			b.WriteByte(s[i])
		}
	}
	return strings.TrimSpace(b.String()) == ""
}

func scalarKindName(s model.Scalar) string {
	return string(s.Kind)
}
