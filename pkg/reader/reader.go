// Package reader implements the schema reader: a recursive
// descent over an already-parsed generic YAML tree (pkg/yamltree) that
// produces a typed model (pkg/model) plus a complete, localized list of
// schema errors (pkg/schemaerr). It never panics and never returns an error
// for structural schema violations — only for a document that is not valid
// YAML or whose root is not a map.
package reader

import (
	"fmt"
	"regexp"

	"github.com/eighty4/wfguard/pkg/logger"
	"github.com/eighty4/wfguard/pkg/model"
	"github.com/eighty4/wfguard/pkg/schemaerr"
	"github.com/eighty4/wfguard/pkg/yamltree"
)

var log = logger.New("reader:reader")

var idPattern = regexp.MustCompile(`^[_a-z][_\-a-z0-9]+$`)

// isValidID reports whether s matches the job/step id grammar
// ^[_a-z][_\-a-z0-9]+$.
func isValidID(s string) bool {
	return idPattern.MatchString(s)
}

// notAWorkflowError builds the domain error raised when the document root is
// not a map, interpolating the dynamic kind of the root value.
func notAWorkflowError(root any) error {
	return fmt.Errorf("This %s YAML is simply the opportunity to begin again, this time with a valid workflow YAML", yamltree.Kind(root))
}

// WorkflowResult is the return value of ReadWorkflow.
type WorkflowResult struct {
	Workflow model.Workflow
	Errors   []schemaerr.Error
}

// ReadWorkflow parses a workflow YAML document into a typed model plus a
// list of schema errors. It returns an error only when the document is not
// valid YAML or its root is not a map.
func ReadWorkflow(src string) (WorkflowResult, error) {
	log.Printf("Reading workflow document: size=%d bytes", len(src))
	tree, err := yamltree.Decode(src)
	if err != nil {
		return WorkflowResult{}, err
	}

	root, ok := yamltree.AsMap(tree)
	if !ok {
		log.Printf("Document root is not a map: kind=%s", yamltree.Kind(tree))
		return WorkflowResult{}, notAWorkflowError(tree)
	}

	errs := schemaerr.NewCollector()
	wf := parseWorkflow(root, errs)
	log.Printf("Finished reading workflow: jobs=%d errors=%d", len(wf.Jobs), errs.Count())
	return WorkflowResult{Workflow: wf, Errors: errs.Errors()}, nil
}

// ActionResult is the return value of ReadAction.
type ActionResult struct {
	Action model.Action
	Errors []schemaerr.Error
}

// ReadAction parses an action.yml/action.yaml document into a typed model
// plus a list of schema errors. Only the inputs/outputs sections are
// modeled; other action fields are silently tolerated. It returns an error
// only when the document is not valid YAML or its root is not a map.
func ReadAction(src string) (ActionResult, error) {
	log.Printf("Reading action document: size=%d bytes", len(src))
	tree, err := yamltree.Decode(src)
	if err != nil {
		return ActionResult{}, err
	}

	root, ok := yamltree.AsMap(tree)
	if !ok {
		log.Printf("Action document root is not a map: kind=%s", yamltree.Kind(tree))
		return ActionResult{}, notAWorkflowError(tree)
	}

	errs := schemaerr.NewCollector()
	action := parseAction(root, errs)
	log.Printf("Finished reading action: inputs=%d errors=%d", len(action.Inputs), errs.Count())
	return ActionResult{Action: action, Errors: errs.Errors()}, nil
}
