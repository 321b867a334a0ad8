package reader

import (
	"fmt"
	"sort"

	"github.com/eighty4/wfguard/pkg/logger"
	"github.com/eighty4/wfguard/pkg/model"
	"github.com/eighty4/wfguard/pkg/schemaerr"
	"github.com/eighty4/wfguard/pkg/yamltree"
	"github.com/goccy/go-yaml"
)

var workflowLog = logger.New("reader:workflow")

func parseWorkflow(root yaml.MapSlice, errs *schemaerr.Collector) model.Workflow {
	whitelistKeys(root, schemaerr.ObjectWorkflow, schemaerr.Root, workflowTopLevelFields, errs)

	wf := model.Workflow{}

	if onNode, present := yamltree.MapGet(root, "on"); present {
		wf.On = parseOn(onNode, schemaerr.Root.Field("on"), errs)
	}

	jobsNode, present := yamltree.MapGet(root, "jobs")
	if !present {
		errs.Add(schemaerr.ObjectWorkflow, schemaerr.Root.Field("jobs").String(), "No jobs defined in `jobs`")
		return wf
	}
	wf.Jobs = parseJobs(jobsNode, schemaerr.Root.Field("jobs"), errs)
	return wf
}

func parseOn(node any, path schemaerr.Path, errs *schemaerr.Collector) map[model.EventName]model.EventConfig {
	workflowLog.Printf("Parsing on: path=%s", path)

	if seq, ok := yamltree.AsSequence(node); ok {
		result := make(map[model.EventName]model.EventConfig)
		for i, item := range seq {
			name, ok := yamltree.AsStringLike(item)
			if !ok {
				errs.Add(schemaerr.ObjectEvent, path.Index(i).String(), "event trigger name must be a string")
				continue
			}
			addEventByName(result, name, path, errs)
		}
		return result
	}

	if m, ok := yamltree.AsMap(node); ok {
		result := make(map[model.EventName]model.EventConfig)
		for _, item := range m {
			name, ok := item.Key.(string)
			if !ok {
				continue
			}
			eventPath := path.Field(name)
			if !isKnownEvent(name) {
				errs.Add(schemaerr.ObjectEvent, eventPath.String(), fmt.Sprintf("`%s` is not a valid workflow trigger event name", name))
				continue
			}
			result[model.EventName(name)] = parseEventConfig(model.EventName(name), item.Value, eventPath, errs)
		}
		return result
	}

	errs.Add(schemaerr.ObjectEvent, path.String(), "Must be an array or map of workflow triggering events")
	return nil
}

func isKnownEvent(name string) bool {
	switch model.EventName(name) {
	case model.EventPullRequest, model.EventPush, model.EventWorkflowCall, model.EventWorkflowDispatch:
		return true
	default:
		return false
	}
}

func addEventByName(result map[model.EventName]model.EventConfig, name string, onPath schemaerr.Path, errs *schemaerr.Collector) {
	if !isKnownEvent(name) {
		errs.Add(schemaerr.ObjectEvent, onPath.Field(name).String(), fmt.Sprintf("`%s` is not a valid workflow trigger event name", name))
		return
	}
	result[model.EventName(name)] = model.EventConfig{Name: model.EventName(name)}
}

// parseEventConfig parses a single event's configuration value, which may be
// null (materializes an empty variant) or a map (delegates to the per-event
// parser). workflow_call and workflow_dispatch delegate to the input
// collector; pull_request and push carry no modeled attributes in this
// system beyond their presence.
func parseEventConfig(name model.EventName, node any, path schemaerr.Path, errs *schemaerr.Collector) model.EventConfig {
	cfg := model.EventConfig{Name: name}

	if yamltree.IsNull(node) {
		return cfg
	}

	m, ok := yamltree.AsMap(node)
	if !ok {
		errs.Add(schemaerr.ObjectEvent, path.String(), fmt.Sprintf("on.%s must be a map", name))
		return cfg
	}

	switch name {
	case model.EventWorkflowCall:
		cfg.Inputs = parseInputs(m, path.Field("inputs"), workflowCallInputFields, allowedTypesForWorkflowCall, errs)
	case model.EventWorkflowDispatch:
		cfg.Inputs = parseInputs(m, path.Field("inputs"), workflowDispatchInputFields, allowedTypesForWorkflowDispatch, errs)
	}

	return cfg
}

var allowedTypesForWorkflowCall = map[model.InputType]bool{
	model.InputBoolean: true,
	model.InputNumber:  true,
	model.InputString:  true,
}

var allowedTypesForWorkflowDispatch = map[model.InputType]bool{
	model.InputBoolean:     true,
	model.InputNumber:      true,
	model.InputString:      true,
	model.InputChoice:      true,
	model.InputEnvironment: true,
}

func parseInputs(eventMap yaml.MapSlice, inputsPath schemaerr.Path, allowedFields map[string]bool, allowedTypes map[model.InputType]bool, errs *schemaerr.Collector) model.InputList {
	inputsNode, present := yamltree.MapGet(eventMap, "inputs")
	if !present {
		return nil
	}

	m, ok := yamltree.AsMap(inputsNode)
	if !ok {
		errs.Add(schemaerr.ObjectInput, inputsPath.String(), "inputs must be a map")
		return nil
	}

	var result model.InputList
	for _, item := range m {
		id, ok := item.Key.(string)
		if !ok {
			continue
		}
		inputPath := inputsPath.Field(id)
		input, ok := parseInput(id, item.Value, inputPath, allowedFields, allowedTypes, errs)
		if ok {
			result = append(result, input)
		}
	}
	return result
}

func parseInput(id string, node any, path schemaerr.Path, allowedFields map[string]bool, allowedTypes map[model.InputType]bool, errs *schemaerr.Collector) (model.InputConfig, bool) {
	m, ok := yamltree.AsMap(node)
	if !ok {
		errs.Add(schemaerr.ObjectInput, path.String(), "input must be a map")
		return model.InputConfig{}, false
	}

	reportUnknownFields(m, schemaerr.ObjectInput, path, allowedFields, errs)

	input := model.InputConfig{ID: id}

	if descNode, present := yamltree.MapGet(m, "description"); present {
		if s, ok := yamltree.AsStringLike(descNode); ok {
			input.Description = s
		} else {
			errs.Add(schemaerr.ObjectInput, path.Field("description").String(), "description must be a string")
		}
	}

	if reqNode, present := yamltree.MapGet(m, "required"); present {
		if b, ok := yamltree.AsBool(reqNode); ok {
			input.Required = b
		} else {
			errs.Add(schemaerr.ObjectInput, path.Field("required").String(), "required must be a boolean")
		}
	}

	typeNode, present := yamltree.MapGet(m, "type")
	if !present {
		errs.Add(schemaerr.ObjectInput, path.Field("type").String(), "input must declare a `type`")
		return input, true
	}
	typeStr, ok := yamltree.AsStringLike(typeNode)
	if !ok || !allowedTypes[model.InputType(typeStr)] {
		errs.Add(schemaerr.ObjectInput, path.Field("type").String(), fmt.Sprintf("`%v` is not a valid input type", typeNode))
		return input, true
	}
	input.Type = model.InputType(typeStr)

	switch input.Type {
	case model.InputBoolean:
		parseScalarDefault(m, path, model.ScalarBoolean, &input, errs)
	case model.InputNumber:
		parseScalarDefault(m, path, model.ScalarNumber, &input, errs)
	case model.InputString, model.InputEnvironment:
		parseScalarDefault(m, path, model.ScalarString, &input, errs)
	case model.InputChoice:
		parseChoiceInput(m, path, &input, errs)
	}

	return input, true
}

func parseScalarDefault(m yaml.MapSlice, path schemaerr.Path, kind model.ScalarKind, input *model.InputConfig, errs *schemaerr.Collector) {
	defNode, present := yamltree.MapGet(m, "default")
	if !present {
		return
	}
	defPath := path.Field("default")
	switch kind {
	case model.ScalarBoolean:
		if b, ok := yamltree.AsBool(defNode); ok {
			v := model.NewBoolScalar(b)
			input.Default = &v
			return
		}
		errs.Add(schemaerr.ObjectInput, defPath.String(), "default must be a boolean")
	case model.ScalarNumber:
		if n, ok := yamltree.AsNumber(defNode); ok {
			v := model.NewNumberScalar(n)
			input.Default = &v
			return
		}
		errs.Add(schemaerr.ObjectInput, defPath.String(), "default must be a number")
	case model.ScalarString:
		if s, ok := yamltree.AsStringLike(defNode); ok {
			v := model.NewStringScalar(s)
			input.Default = &v
			return
		}
		errs.Add(schemaerr.ObjectInput, defPath.String(), "default must be a string")
	}
}

func parseChoiceInput(m yaml.MapSlice, path schemaerr.Path, input *model.InputConfig, errs *schemaerr.Collector) {
	optionsNode, present := yamltree.MapGet(m, "options")
	if !present {
		errs.Add(schemaerr.ObjectInput, path.Field("options").String(), "Choice input must have `options`")
		return
	}
	seq, ok := yamltree.AsSequence(optionsNode)
	if !ok || len(seq) == 0 {
		errs.Add(schemaerr.ObjectInput, path.Field("options").String(), "options must be a non-empty array of strings")
		return
	}
	var options []string
	for i, item := range seq {
		s, ok := yamltree.AsStringLike(item)
		if !ok {
			errs.Add(schemaerr.ObjectInput, path.Field("options").Index(i).String(), "option must be a string")
			continue
		}
		options = append(options, s)
	}
	input.Options = options

	defNode, present := yamltree.MapGet(m, "default")
	if !present {
		return
	}
	defPath := path.Field("default")
	s, ok := yamltree.AsStringLike(defNode)
	if !ok {
		errs.Add(schemaerr.ObjectInput, defPath.String(), "default must be a string")
		return
	}
	if !contains(options, s) {
		errs.Add(schemaerr.ObjectInput, defPath.String(), fmt.Sprintf("`%s` is not an input option", s))
		return
	}
	v := model.NewStringScalar(s)
	input.Default = &v
}

func contains(xs []string, x string) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}

// whitelistKeys reports a single composite error listing unknown keys,
// sorted alphabetically, matching the spec's "on.<event>" unknown-fields rule.
func whitelistKeys(m yaml.MapSlice, object schemaerr.ObjectClass, path schemaerr.Path, allowed map[string]bool, errs *schemaerr.Collector) {
	var unknown []string
	for _, item := range m {
		key, ok := item.Key.(string)
		if !ok {
			continue
		}
		if !allowed[key] {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) == 0 {
		return
	}
	sort.Strings(unknown)
	errs.Add(object, path.String(), fmt.Sprintf("unknown field(s): %v", unknown))
}

func reportUnknownFields(m yaml.MapSlice, object schemaerr.ObjectClass, path schemaerr.Path, allowed map[string]bool, errs *schemaerr.Collector) {
	whitelistKeys(m, object, path, allowed, errs)
}
