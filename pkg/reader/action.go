package reader

import (
	"github.com/eighty4/wfguard/pkg/logger"
	"github.com/eighty4/wfguard/pkg/model"
	"github.com/eighty4/wfguard/pkg/schemaerr"
	"github.com/eighty4/wfguard/pkg/yamltree"
	"github.com/goccy/go-yaml"
)

var actionLog = logger.New("reader:action")

var actionInputFields = map[string]bool{
	"description":        true,
	"required":            true,
	"default":             true,
	"deprecationMessage":  true,
}

var actionOutputFields = map[string]bool{
	"description": true,
	"value":       true,
}

func parseAction(root yaml.MapSlice, errs *schemaerr.Collector) model.Action {
	action := model.Action{}

	if inputsNode, present := yamltree.MapGet(root, "inputs"); present {
		action.Inputs = parseActionInputs(inputsNode, schemaerr.Root.Field("inputs"), errs)
	}

	if outputsNode, present := yamltree.MapGet(root, "outputs"); present {
		action.Outputs = parseActionOutputs(outputsNode, schemaerr.Root.Field("outputs"), errs)
	}

	actionLog.Printf("Parsed action: inputs=%d outputs=%d", len(action.Inputs), len(action.Outputs))
	return action
}

func parseActionInputs(node any, path schemaerr.Path, errs *schemaerr.Collector) map[string]model.ActionInput {
	m, ok := yamltree.AsMap(node)
	if !ok {
		errs.Add(schemaerr.ObjectAction, path.String(), "inputs must be a map")
		return nil
	}

	inputs := make(map[string]model.ActionInput, len(m))
	for _, item := range m {
		id, ok := item.Key.(string)
		if !ok {
			continue
		}
		inputs[id] = parseActionInput(item.Value, path.Field(id), errs)
	}
	return inputs
}

func parseActionInput(node any, path schemaerr.Path, errs *schemaerr.Collector) model.ActionInput {
	input := model.ActionInput{}

	m, ok := yamltree.AsMap(node)
	if !ok {
		errs.Add(schemaerr.ObjectInput, path.String(), "input must be a map")
		return input
	}

	whitelistKeys(m, schemaerr.ObjectInput, path, actionInputFields, errs)

	descNode, present := yamltree.MapGet(m, "description")
	if !present {
		errs.Add(schemaerr.ObjectInput, path.Field("description").String(), "input must declare a `description`")
	} else if s, ok := yamltree.AsStringLike(descNode); ok {
		input.Description = s
	} else {
		errs.Add(schemaerr.ObjectInput, path.Field("description").String(), "description must be a string")
	}

	if reqNode, present := yamltree.MapGet(m, "required"); present {
		if b, ok := yamltree.AsBool(reqNode); ok {
			input.Required = b
		} else {
			errs.Add(schemaerr.ObjectInput, path.Field("required").String(), "required must be a boolean")
		}
	}

	if defNode, present := yamltree.MapGet(m, "default"); present {
		if s, ok := yamltree.AsStringLike(defNode); ok {
			input.Default = &s
		} else {
			errs.Add(schemaerr.ObjectInput, path.Field("default").String(), "default must be a string")
		}
	}

	if depNode, present := yamltree.MapGet(m, "deprecationMessage"); present {
		if s, ok := yamltree.AsStringLike(depNode); ok {
			input.DeprecationMessage = s
		} else {
			errs.Add(schemaerr.ObjectInput, path.Field("deprecationMessage").String(), "deprecationMessage must be a string")
		}
	}

	return input
}

func parseActionOutputs(node any, path schemaerr.Path, errs *schemaerr.Collector) map[string]model.ActionOutput {
	m, ok := yamltree.AsMap(node)
	if !ok {
		errs.Add(schemaerr.ObjectAction, path.String(), "outputs must be a map")
		return nil
	}

	outputs := make(map[string]model.ActionOutput, len(m))
	for _, item := range m {
		id, ok := item.Key.(string)
		if !ok {
			continue
		}
		outputPath := path.Field(id)
		outputNode := item.Value
		om, ok := yamltree.AsMap(outputNode)
		if !ok {
			errs.Add(schemaerr.ObjectOutput, outputPath.String(), "output must be a map")
			continue
		}
		whitelistKeys(om, schemaerr.ObjectOutput, outputPath, actionOutputFields, errs)
		output := model.ActionOutput{}
		if descNode, present := yamltree.MapGet(om, "description"); present {
			if s, ok := yamltree.AsStringLike(descNode); ok {
				output.Description = s
			} else {
				errs.Add(schemaerr.ObjectOutput, outputPath.Field("description").String(), "description must be a string")
			}
		}
		outputs[id] = output
	}
	return outputs
}
