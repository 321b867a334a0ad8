package reader

import (
	"fmt"

	"github.com/eighty4/wfguard/pkg/logger"
	"github.com/eighty4/wfguard/pkg/model"
	"github.com/eighty4/wfguard/pkg/schemaerr"
	"github.com/eighty4/wfguard/pkg/yamltree"
)

var stepsLog = logger.New("reader:steps")

func parseSteps(node any, path schemaerr.Path, errs *schemaerr.Collector) []model.Step {
	seq, ok := yamltree.AsSequence(node)
	if !ok {
		errs.Add(schemaerr.ObjectStep, path.String(), "steps must be an array")
		return nil
	}

	steps := make([]model.Step, 0, len(seq))
	for i, item := range seq {
		steps = append(steps, parseStep(item, i, path.Index(i), errs))
	}
	return steps
}

func parseStep(node any, index int, path schemaerr.Path, errs *schemaerr.Collector) model.Step {
	stepsLog.Printf("Parsing step: index=%d", index)

	step := model.Step{}

	m, ok := yamltree.AsMap(node)
	if !ok {
		errs.Add(schemaerr.ObjectStep, path.String(), "step must be a map")
		return step
	}

	whitelistKeys(m, schemaerr.ObjectStep, path, stepFields, errs)

	if idNode, present := yamltree.MapGet(m, "id"); present {
		if s, ok := yamltree.AsStringLike(idNode); ok {
			if !isValidID(s) {
				errs.Add(schemaerr.ObjectStep, path.Field("id").String(), fmt.Sprintf("`%s` is not a valid step id", s))
			}
			step.ID = s
		} else {
			errs.Add(schemaerr.ObjectStep, path.Field("id").String(), "id must be a string")
		}
	}

	if nameNode, present := yamltree.MapGet(m, "name"); present {
		if s, ok := yamltree.AsStringLike(nameNode); ok {
			step.Name = s
		} else {
			errs.Add(schemaerr.ObjectStep, path.Field("name").String(), "name must be a string")
		}
	}

	if ifNode, present := yamltree.MapGet(m, "if"); present {
		if s, ok := yamltree.AsStringLike(ifNode); ok {
			step.If = s
		} else {
			errs.Add(schemaerr.ObjectStep, path.Field("if").String(), "if must be a string")
		}
	}

	label := step.Label(index)

	runNode, hasRun := yamltree.MapGet(m, "run")
	usesNode, hasUses := yamltree.MapGet(m, "uses")

	switch {
	case hasRun && hasUses:
		errs.Add(schemaerr.ObjectStep, path.String(), fmt.Sprintf("step %s must declare exactly one of `run` or `uses`, not both", label))
		return step
	case !hasRun && !hasUses:
		errs.Add(schemaerr.ObjectStep, path.String(), fmt.Sprintf("step %s must declare one of `run` or `uses`", label))
		return step
	case hasRun:
		step.Kind = model.StepRun
		if s, ok := yamltree.AsStringLike(runNode); ok {
			step.Run = s
		} else {
			errs.Add(schemaerr.ObjectStep, path.Field("run").String(), "run must be a string")
		}
		if envNode, present := yamltree.MapGet(m, "env"); present {
			step.Env = parseEnvMap(envNode, path.Field("env"), errs)
		}
		if _, present := yamltree.MapGet(m, "with"); present {
			errs.Add(schemaerr.ObjectStep, path.Field("with").String(), fmt.Sprintf("step %s: `with` is only valid on a `uses` step", label))
		}
	default:
		step.Kind = model.StepUses
		step.Uses = parseActionSpecifier(usesNode, path.Field("uses"), errs)
		if withNode, present := yamltree.MapGet(m, "with"); present {
			step.With = parseWithMap(withNode, path.Field("with"), errs)
		}
		if _, present := yamltree.MapGet(m, "env"); present {
			errs.Add(schemaerr.ObjectStep, path.Field("env").String(), fmt.Sprintf("step %s: `env` is only valid on a `run` step", label))
		}
	}

	return step
}
