package reader

// Field whitelists used by the reader: unknown top-level workflow, job, step,
// runs-on group, and workflow_call/workflow_dispatch input fields are
// rejected explicitly rather than silently ignored. The defaults, container,
// services, and strategy lists are declared here but no parser consults
// them, so unknown keys inside those blocks are not reported. Centralizing
// them here mirrors
// github/gh-aw's pkg/parser/schema_validation.go, which keeps its own
// allowed-field sets (constants.SharedWorkflowForbiddenFields,
// IgnoredFrontmatterFields) on a dedicated constants surface rather than
// scattered through the parsing code that consults them.

var workflowTopLevelFields = map[string]bool{
	"name":        true,
	"on":          true,
	"jobs":        true,
	"permissions": true,
	"env":         true,
	"defaults":    true,
	"concurrency": true,
	"run-name":    true,
}

var jobFields = map[string]bool{
	"name":            true,
	"if":              true,
	"needs":           true,
	"runs-on":         true,
	"env":             true,
	"steps":           true,
	"uses":            true,
	"with":            true,
	"secrets":         true,
	"permissions":     true,
	"environment":     true,
	"concurrency":     true,
	"container":       true,
	"services":        true,
	"strategy":        true,
	"timeout-minutes": true,
	"continue-on-error": true,
	"outputs":         true,
	"defaults":        true,
}

var stepFields = map[string]bool{
	"env":                true,
	"continue-on-error":  true,
	"id":                 true,
	"if":                 true,
	"name":               true,
	"run":                true,
	"shell":              true,
	"timeout-minutes":    true,
	"uses":               true,
	"with":               true,
	"working-directory":  true,
}

var defaultsFields = map[string]bool{
	"run": true,
}

var defaultsRunFields = map[string]bool{
	"shell":             true,
	"working-directory": true,
}

var containerFields = map[string]bool{
	"image":       true,
	"credentials": true,
	"env":         true,
	"ports":       true,
	"volumes":     true,
	"options":     true,
}

var servicesEntryFields = map[string]bool{
	"image":       true,
	"credentials": true,
	"env":         true,
	"ports":       true,
	"volumes":     true,
	"options":     true,
}

var strategyFields = map[string]bool{
	"matrix":       true,
	"fail-fast":    true,
	"max-parallel": true,
}

var workflowCallInputFields = map[string]bool{
	"default": true, "description": true, "required": true, "type": true,
}

var workflowDispatchInputFields = map[string]bool{
	"default": true, "description": true, "required": true, "type": true, "options": true,
}

var runsOnGroupFields = map[string]bool{
	"group":  true,
	"labels": true,
}
