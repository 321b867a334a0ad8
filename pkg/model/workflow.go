package model

import "strconv"

// EventName is the closed set of workflow trigger events this system
// recognizes. Event names outside this set are rejected by the reader.
type EventName string

const (
	EventPullRequest      EventName = "pull_request"
	EventPush             EventName = "push"
	EventWorkflowCall     EventName = "workflow_call"
	EventWorkflowDispatch EventName = "workflow_dispatch"
)

// InputConfig is a tagged variant over boolean/number/string/choice/environment
// input declarations under workflow_call or workflow_dispatch.
type InputConfig struct {
	ID          string
	Type        InputType
	Description string
	Required    bool

	// Default is nil when no default was declared. Its Kind matches Type,
	// except choice and environment inputs, whose default is always a string.
	Default *Scalar

	// Options is non-empty only for choice inputs.
	Options []string
}

// InputType is the discriminator for InputConfig.
type InputType string

const (
	InputBoolean     InputType = "boolean"
	InputNumber      InputType = "number"
	InputString      InputType = "string"
	InputChoice      InputType = "choice"
	InputEnvironment InputType = "environment"
)

// InputList is an ordered collection of inputs, preserving source mapping
// insertion order (spec: "emitted schema errors preserve source mapping
// insertion order").
type InputList []InputConfig

// Get looks up an input by id.
func (l InputList) Get(id string) (InputConfig, bool) {
	for _, in := range l {
		if in.ID == id {
			return in, true
		}
	}
	return InputConfig{}, false
}

// EventConfig is a tagged variant over the four recognized trigger events.
type EventConfig struct {
	Name EventName

	// Inputs is populated only for workflow_call and workflow_dispatch.
	Inputs InputList
}

// JobKind discriminates steps-kind jobs from uses-kind (callable workflow) jobs.
type JobKind string

const (
	JobSteps JobKind = "steps"
	JobUses  JobKind = "uses"
)

// RunsOnKind discriminates the three accepted shapes of a job's runs-on field.
type RunsOnKind string

const (
	RunsOnLabel  RunsOnKind = "label"
	RunsOnLabels RunsOnKind = "labels"
	RunsOnGroup  RunsOnKind = "group"
)

// RunsOn is the tagged variant for a job's runner selection.
type RunsOn struct {
	Kind RunsOnKind

	// Label is set when Kind == RunsOnLabel.
	Label string

	// Labels is set when Kind == RunsOnLabels.
	Labels []string

	// Group and GroupLabels are set when Kind == RunsOnGroup.
	Group       string
	GroupLabels []string
}

// Job is a tagged variant over steps-kind and uses-kind job configurations.
type Job struct {
	ID    string
	Kind  JobKind
	If    string
	Name  string
	Needs []string

	// Steps-kind fields.
	RunsOn *RunsOn
	Env    map[string]string
	Steps  []Step

	// Uses-kind fields.
	Uses WorkflowCallSpecifier
	With map[string]Scalar
}

// StepKind discriminates run-steps from uses-steps.
type StepKind string

const (
	StepRun  StepKind = "run"
	StepUses StepKind = "uses"
)

// Step is a tagged variant over shell run steps and action uses steps.
type Step struct {
	Kind StepKind
	ID   string
	If   string
	Name string

	// Run-step fields.
	Run string
	Env map[string]string

	// Uses-step fields.
	Uses ActionSpecifier
	With map[string]Scalar
}

// Label returns the step's display label for error messages:
// step.id, falling back to step.name, falling back to its source index.
func (s Step) Label(index int) string {
	if s.ID != "" {
		return s.ID
	}
	if s.Name != "" {
		return s.Name
	}
	return indexLabel(index)
}

func indexLabel(i int) string {
	return "step[" + strconv.Itoa(i) + "]"
}

// Workflow is the top-level parsed document.
type Workflow struct {
	// Path is set by pkg/cache to the project-relative path of a workflow
	// loaded from the filesystem with no schema errors. It is empty for
	// workflows loaded from a repository and for results returned directly
	// by pkg/reader.
	Path string

	On   map[EventName]EventConfig
	Jobs map[string]Job
}

// HasEvent reports whether the workflow declares the given trigger event.
func (w Workflow) HasEvent(name EventName) bool {
	_, ok := w.On[name]
	return ok
}
