package reader

import (
	"sort"

	"github.com/eighty4/wfguard/pkg/logger"
	"github.com/eighty4/wfguard/pkg/model"
	"github.com/goccy/go-yaml"
)

var writeLog = logger.New("reader:write")

// WriteWorkflow renders a workflow model back into a YAML document using an
// implementation-defined canonical form: only the fields this system models
// (on, jobs) are emitted. Re-reading the result through ReadWorkflow
// reproduces an equal model with no schema errors — the round-trip property
// this package's tests exercise. `uses:` specifiers are written back as
// their original raw string (model.WorkflowCallSpecifier.Specifier() /
// model.ActionSpecifier.Specifier()), which the specifiers.go regexes
// re-derive into an identical struct, so the writer never needs to
// reconstruct owner/repo/ref/filename fields by hand.
func WriteWorkflow(wf model.Workflow) (string, error) {
	writeLog.Printf("Writing workflow: jobs=%d", len(wf.Jobs))

	var root yaml.MapSlice
	if len(wf.On) > 0 {
		root = append(root, yaml.MapItem{Key: "on", Value: writeOn(wf.On)})
	}
	root = append(root, yaml.MapItem{Key: "jobs", Value: writeJobs(wf.Jobs)})

	out, err := yaml.Marshal(root)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func writeOn(on map[model.EventName]model.EventConfig) yaml.MapSlice {
	names := make([]string, 0, len(on))
	for name := range on {
		names = append(names, string(name))
	}
	sort.Strings(names)

	result := make(yaml.MapSlice, 0, len(names))
	for _, name := range names {
		cfg := on[model.EventName(name)]
		if len(cfg.Inputs) == 0 {
			result = append(result, yaml.MapItem{Key: name, Value: nil})
			continue
		}
		result = append(result, yaml.MapItem{Key: name, Value: yaml.MapSlice{
			{Key: "inputs", Value: writeInputs(cfg.Inputs)},
		}})
	}
	return result
}

func writeInputs(inputs model.InputList) yaml.MapSlice {
	result := make(yaml.MapSlice, 0, len(inputs))
	for _, input := range inputs {
		result = append(result, yaml.MapItem{Key: input.ID, Value: writeInput(input)})
	}
	return result
}

func writeInput(input model.InputConfig) yaml.MapSlice {
	var fields yaml.MapSlice
	fields = append(fields, yaml.MapItem{Key: "type", Value: string(input.Type)})
	if input.Description != "" {
		fields = append(fields, yaml.MapItem{Key: "description", Value: input.Description})
	}
	if input.Required {
		fields = append(fields, yaml.MapItem{Key: "required", Value: true})
	}
	if input.Type == model.InputChoice && len(input.Options) > 0 {
		fields = append(fields, yaml.MapItem{Key: "options", Value: input.Options})
	}
	if input.Default != nil {
		fields = append(fields, yaml.MapItem{Key: "default", Value: writeScalarValue(*input.Default)})
	}
	return fields
}

func writeJobs(jobs map[string]model.Job) yaml.MapSlice {
	ids := make([]string, 0, len(jobs))
	for id := range jobs {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	result := make(yaml.MapSlice, 0, len(ids))
	for _, id := range ids {
		result = append(result, yaml.MapItem{Key: id, Value: writeJob(jobs[id])})
	}
	return result
}

func writeJob(job model.Job) yaml.MapSlice {
	var fields yaml.MapSlice
	if job.Name != "" {
		fields = append(fields, yaml.MapItem{Key: "name", Value: job.Name})
	}
	if job.If != "" {
		fields = append(fields, yaml.MapItem{Key: "if", Value: job.If})
	}
	if len(job.Needs) > 0 {
		fields = append(fields, yaml.MapItem{Key: "needs", Value: job.Needs})
	}

	if job.Kind == model.JobUses {
		fields = append(fields, yaml.MapItem{Key: "uses", Value: job.Uses.Specifier()})
		if len(job.With) > 0 {
			fields = append(fields, yaml.MapItem{Key: "with", Value: writeScalarMap(job.With)})
		}
		return fields
	}

	if job.RunsOn != nil {
		fields = append(fields, yaml.MapItem{Key: "runs-on", Value: writeRunsOn(*job.RunsOn)})
	}
	if len(job.Env) > 0 {
		fields = append(fields, yaml.MapItem{Key: "env", Value: writeStringMap(job.Env)})
	}
	fields = append(fields, yaml.MapItem{Key: "steps", Value: writeSteps(job.Steps)})
	return fields
}

func writeRunsOn(r model.RunsOn) any {
	switch r.Kind {
	case model.RunsOnLabel:
		return r.Label
	case model.RunsOnLabels:
		return r.Labels
	default:
		var fields yaml.MapSlice
		if r.Group != "" {
			fields = append(fields, yaml.MapItem{Key: "group", Value: r.Group})
		}
		if len(r.GroupLabels) > 0 {
			fields = append(fields, yaml.MapItem{Key: "labels", Value: r.GroupLabels})
		}
		return fields
	}
}

func writeSteps(steps []model.Step) []any {
	result := make([]any, 0, len(steps))
	for _, step := range steps {
		result = append(result, writeStep(step))
	}
	return result
}

func writeStep(step model.Step) yaml.MapSlice {
	var fields yaml.MapSlice
	if step.ID != "" {
		fields = append(fields, yaml.MapItem{Key: "id", Value: step.ID})
	}
	if step.Name != "" {
		fields = append(fields, yaml.MapItem{Key: "name", Value: step.Name})
	}
	if step.If != "" {
		fields = append(fields, yaml.MapItem{Key: "if", Value: step.If})
	}

	if step.Kind == model.StepUses {
		fields = append(fields, yaml.MapItem{Key: "uses", Value: step.Uses.Specifier()})
		if len(step.With) > 0 {
			fields = append(fields, yaml.MapItem{Key: "with", Value: writeScalarMap(step.With)})
		}
		return fields
	}

	fields = append(fields, yaml.MapItem{Key: "run", Value: step.Run})
	if len(step.Env) > 0 {
		fields = append(fields, yaml.MapItem{Key: "env", Value: writeStringMap(step.Env)})
	}
	return fields
}

func writeStringMap(m map[string]string) yaml.MapSlice {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	result := make(yaml.MapSlice, 0, len(keys))
	for _, k := range keys {
		result = append(result, yaml.MapItem{Key: k, Value: m[k]})
	}
	return result
}

func writeScalarMap(m map[string]model.Scalar) yaml.MapSlice {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	result := make(yaml.MapSlice, 0, len(keys))
	for _, k := range keys {
		result = append(result, yaml.MapItem{Key: k, Value: writeScalarValue(m[k])})
	}
	return result
}

func writeScalarValue(s model.Scalar) any {
	switch s.Kind {
	case model.ScalarBoolean:
		return s.Bool
	case model.ScalarNumber:
		if s.Num == float64(int64(s.Num)) {
			return int64(s.Num)
		}
		return s.Num
	default:
		return s.Str
	}
}
