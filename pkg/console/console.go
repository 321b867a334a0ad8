// Package console renders analysis results to the terminal: a colored
// check/cross per document grounded on pinact's run.Logger use of
// github.com/fatih/color (pkg/controller/run/log.go), generalized from a
// two-color diff logger to the green-check/red-cross/grey-path report this
// system's CLI prints per validated document. A JSONReporter alternative
// renders the same results as a machine-readable array for --json.
package console

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
)

// SchemaErrorOut is one schema error in a JSON-rendered Result.
type SchemaErrorOut struct {
	Message string `json:"message"`
	Path    string `json:"path"`
}

// Result is the JSON-rendered outcome of validating a single workflow,
// mirroring the paragraph the text Reporter prints: a pass/fail status, the
// domain error code and message when it failed, and any accumulated schema
// errors.
type Result struct {
	Path         string           `json:"path"`
	Valid        bool             `json:"valid"`
	Kind         string           `json:"kind,omitempty"`
	Message      string           `json:"message,omitempty"`
	SchemaErrors []SchemaErrorOut `json:"schemaErrors,omitempty"`
	ResetLocal   string           `json:"resetLocal,omitempty"`
}

// JSONReporter accumulates Results and flushes them as a single JSON array,
// the --json counterpart to Reporter's incremental text output.
type JSONReporter struct {
	out     io.Writer
	results []Result
}

// NewJSONReporter creates a JSONReporter writing to out.
func NewJSONReporter(out io.Writer) *JSONReporter {
	return &JSONReporter{out: out}
}

// Add records one workflow's result.
func (r *JSONReporter) Add(result Result) {
	r.results = append(r.results, result)
}

// Flush marshals every recorded Result as a JSON array.
func (r *JSONReporter) Flush() error {
	if r.results == nil {
		r.results = []Result{}
	}
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(r.results)
}

type colorFunc func(a ...interface{}) string

// Reporter renders one line per analyzed document: a colored status glyph,
// the document path, and an optional error count.
type Reporter struct {
	out   io.Writer
	green colorFunc
	red   colorFunc
	grey  colorFunc
}

// NewReporter creates a Reporter writing to out.
func NewReporter(out io.Writer) *Reporter {
	return &Reporter{
		out:   out,
		green: color.New(color.FgGreen).SprintFunc(),
		red:   color.New(color.FgRed).SprintFunc(),
		grey:  color.New(color.FgHiBlack).SprintFunc(),
	}
}

// Valid reports a workflow with no schema or domain errors: a green check
// and "<name> is valid".
func (r *Reporter) Valid(name string) {
	fmt.Fprintf(r.out, "%s %s is valid\n", r.green("✓"), name)
}

// Invalid reports a workflow that failed validation: a red ✗ with a
// contextual summary message.
func (r *Reporter) Invalid(name, message string) {
	fmt.Fprintf(r.out, "%s %s: %s\n", r.red("✗"), name, message)
}

// SchemaError prints one accumulated schema error under the workflow it was
// reported against: "  - <message>" then the offending path in grey.
func (r *Reporter) SchemaError(message, path string) {
	fmt.Fprintf(r.out, "  - %s\n", message)
	fmt.Fprintf(r.out, "%s\n", r.grey("      "+path))
}

// RateLimitNotice reports a GitHub API rate limit, including the reset time
// converted to the local timezone.
func (r *Reporter) RateLimitNotice(resetLocal string) {
	fmt.Fprintf(r.out, "%s rate limited, resets at %s\n", r.red("✗"), resetLocal)
}
