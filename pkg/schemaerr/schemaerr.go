// Package schemaerr implements the schema-error half of the error model:
// values, not control flow, accumulated during a single reader pass.
package schemaerr

import "fmt"

// ObjectClass classifies which kind of model object a schema error concerns.
type ObjectClass string

const (
	ObjectWorkflow ObjectClass = "workflow"
	ObjectEvent    ObjectClass = "event"
	ObjectJob      ObjectClass = "job"
	ObjectInput    ObjectClass = "input"
	ObjectStep     ObjectClass = "step"
	ObjectAction   ObjectClass = "action"
	ObjectOutput   ObjectClass = "output"
)

// Error is one localized schema violation.
type Error struct {
	Object  ObjectClass
	Path    string
	Message string
}

func (e Error) String() string {
	if e.Path == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// Collector accumulates Errors during a single reader pass. Unlike
// github/gh-aw's pkg/workflow/error_aggregation.go ErrorCollector (which
// collects generic errors and joins them for a single failure return),
// a schema Collector never aborts the pass — every Add just appends, and the
// caller inspects HasErrors/Errors once parsing is complete.
type Collector struct {
	errs []Error
}

// NewCollector creates an empty Collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Add records a schema error at path with the given object class.
func (c *Collector) Add(object ObjectClass, path, message string) {
	c.errs = append(c.errs, Error{Object: object, Path: path, Message: message})
}

// Errors returns all accumulated errors in the order they were added.
func (c *Collector) Errors() []Error {
	return c.errs
}

// HasErrors reports whether any error was recorded.
func (c *Collector) HasErrors() bool {
	return len(c.errs) > 0
}

// Count returns the number of recorded errors.
func (c *Collector) Count() int {
	return len(c.errs)
}
