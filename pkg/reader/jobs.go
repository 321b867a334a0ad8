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

var jobsLog = logger.New("reader:jobs")

func parseJobs(node any, path schemaerr.Path, errs *schemaerr.Collector) map[string]model.Job {
	m, ok := yamltree.AsMap(node)
	if !ok {
		errs.Add(schemaerr.ObjectWorkflow, path.String(), "jobs must be a map")
		return nil
	}
	if len(m) == 0 {
		errs.Add(schemaerr.ObjectWorkflow, path.String(), "No jobs defined in `jobs`")
		return nil
	}

	jobs := make(map[string]model.Job, len(m))
	for _, item := range m {
		id, ok := item.Key.(string)
		if !ok {
			continue
		}
		jobPath := path.Field(id)
		if !isValidID(id) {
			errs.Add(schemaerr.ObjectJob, jobPath.String(), fmt.Sprintf("`%s` is not a valid job id", id))
		}
		jobs[id] = parseJob(id, item.Value, jobPath, errs)
	}
	return jobs
}

func parseJob(id string, node any, path schemaerr.Path, errs *schemaerr.Collector) model.Job {
	jobsLog.Printf("Parsing job: id=%s", id)

	job := model.Job{ID: id}

	m, ok := yamltree.AsMap(node)
	if !ok {
		errs.Add(schemaerr.ObjectJob, path.String(), "job must be a map")
		return job
	}

	whitelistKeys(m, schemaerr.ObjectJob, path, jobFields, errs)

	if nameNode, present := yamltree.MapGet(m, "name"); present {
		if s, ok := yamltree.AsStringLike(nameNode); ok {
			job.Name = s
		} else {
			errs.Add(schemaerr.ObjectJob, path.Field("name").String(), "name must be a string")
		}
	}

	if ifNode, present := yamltree.MapGet(m, "if"); present {
		if s, ok := yamltree.AsStringLike(ifNode); ok {
			job.If = s
		} else {
			errs.Add(schemaerr.ObjectJob, path.Field("if").String(), "if must be a string")
		}
	}

	if needsNode, present := yamltree.MapGet(m, "needs"); present {
		job.Needs = parseNeeds(needsNode, path.Field("needs"), errs)
	}

	_, hasSteps := yamltree.MapGet(m, "steps")
	usesNode, hasUses := yamltree.MapGet(m, "uses")

	switch {
	case hasSteps && hasUses:
		errs.Add(schemaerr.ObjectJob, path.String(), "job must declare exactly one of `steps` or `uses`, not both")
		return job
	case !hasSteps && !hasUses:
		errs.Add(schemaerr.ObjectJob, path.String(), "job must declare one of `steps` or `uses`")
		return job
	case hasUses:
		job.Kind = model.JobUses
		job.Uses = parseWorkflowCallSpecifier(usesNode, path.Field("uses"), errs)
		if withNode, present := yamltree.MapGet(m, "with"); present {
			job.With = parseWithMap(withNode, path.Field("with"), errs)
		}
		return job
	default:
		job.Kind = model.JobSteps
	}

	if runsOnNode, present := yamltree.MapGet(m, "runs-on"); present {
		job.RunsOn = parseRunsOn(runsOnNode, path.Field("runs-on"), errs)
	} else {
		errs.Add(schemaerr.ObjectJob, path.Field("runs-on").String(), "steps job must declare `runs-on`")
	}

	if envNode, present := yamltree.MapGet(m, "env"); present {
		job.Env = parseEnvMap(envNode, path.Field("env"), errs)
	}

	stepsNode, _ := yamltree.MapGet(m, "steps")
	job.Steps = parseSteps(stepsNode, path.Field("steps"), errs)

	return job
}

func parseNeeds(node any, path schemaerr.Path, errs *schemaerr.Collector) []string {
	if s, ok := yamltree.AsStringLike(node); ok {
		return []string{s}
	}
	seq, ok := yamltree.AsSequence(node)
	if !ok {
		errs.Add(schemaerr.ObjectJob, path.String(), "needs must be a string or array of strings")
		return nil
	}
	var result []string
	for i, item := range seq {
		s, ok := yamltree.AsStringLike(item)
		if !ok {
			errs.Add(schemaerr.ObjectJob, path.Index(i).String(), "needs entry must be a string")
			continue
		}
		result = append(result, s)
	}
	return result
}

func parseRunsOn(node any, path schemaerr.Path, errs *schemaerr.Collector) *model.RunsOn {
	if s, ok := yamltree.AsStringLike(node); ok {
		return &model.RunsOn{Kind: model.RunsOnLabel, Label: s}
	}

	if seq, ok := yamltree.AsSequence(node); ok {
		var labels []string
		for i, item := range seq {
			s, ok := yamltree.AsStringLike(item)
			if !ok {
				errs.Add(schemaerr.ObjectJob, path.Index(i).String(), "runs-on entry must be a string")
				continue
			}
			labels = append(labels, s)
		}
		return &model.RunsOn{Kind: model.RunsOnLabels, Labels: labels}
	}

	if m, ok := yamltree.AsMap(node); ok {
		whitelistKeys(m, schemaerr.ObjectJob, path, runsOnGroupFields, errs)
		runsOn := &model.RunsOn{Kind: model.RunsOnGroup}
		if groupNode, present := yamltree.MapGet(m, "group"); present {
			if s, ok := yamltree.AsStringLike(groupNode); ok {
				runsOn.Group = s
			} else {
				errs.Add(schemaerr.ObjectJob, path.Field("group").String(), "group must be a string")
			}
		}
		if labelsNode, present := yamltree.MapGet(m, "labels"); present {
			if s, ok := yamltree.AsStringLike(labelsNode); ok {
				runsOn.GroupLabels = []string{s}
			} else if seq, ok := yamltree.AsSequence(labelsNode); ok {
				for i, item := range seq {
					s, ok := yamltree.AsStringLike(item)
					if !ok {
						errs.Add(schemaerr.ObjectJob, path.Field("labels").Index(i).String(), "labels entry must be a string")
						continue
					}
					runsOn.GroupLabels = append(runsOn.GroupLabels, s)
				}
			} else {
				errs.Add(schemaerr.ObjectJob, path.Field("labels").String(), "labels must be a string or array of strings")
			}
		}
		return runsOn
	}

	errs.Add(schemaerr.ObjectJob, path.String(), "runs-on must be a string, array, or group map")
	return nil
}

func parseEnvMap(node any, path schemaerr.Path, errs *schemaerr.Collector) map[string]string {
	m, ok := yamltree.AsMap(node)
	if !ok {
		errs.Add(schemaerr.ObjectJob, path.String(), "env must be a map")
		return nil
	}
	env := make(map[string]string, len(m))
	for _, item := range m {
		key, ok := item.Key.(string)
		if !ok {
			continue
		}
		s, ok := yamltree.AsStringLike(item.Value)
		if !ok {
			errs.Add(schemaerr.ObjectJob, path.Field(key).String(), "env value must be a string")
			continue
		}
		env[key] = s
	}
	return env
}

func parseWithMap(node any, path schemaerr.Path, errs *schemaerr.Collector) map[string]model.Scalar {
	m, ok := yamltree.AsMap(node)
	if !ok {
		errs.Add(schemaerr.ObjectJob, path.String(), "with must be a map")
		return nil
	}
	with := make(map[string]model.Scalar, len(m))
	for _, item := range m {
		key, ok := item.Key.(string)
		if !ok {
			continue
		}
		with[key] = scalarFromNode(item.Value, path.Field(key), errs)
	}
	return with
}

func scalarFromNode(node any, path schemaerr.Path, errs *schemaerr.Collector) model.Scalar {
	switch v := node.(type) {
	case bool:
		return model.NewBoolScalar(v)
	default:
		if n, ok := yamltree.AsNumber(node); ok {
			return model.NewNumberScalar(n)
		}
		if s, ok := yamltree.AsString(node); ok {
			return model.NewStringScalar(s)
		}
		errs.Add(schemaerr.ObjectJob, path.String(), "value must be a boolean, number, or string")
		return model.NewStringScalar("")
	}
}

// unknownKeysSorted returns the keys of m that are not in allowed, sorted
// alphabetically. whitelistKeys builds the same list inline; no other code
// in this package calls this helper.
func unknownKeysSorted(m yaml.MapSlice, allowed map[string]bool) []string {
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
	sort.Strings(unknown)
	return unknown
}
