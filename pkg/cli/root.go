// Package cli implements the command-line front end: argument
// parsing, directory/file mode dispatch, and colored reporting. Grounded on
// github/gh-aw's pkg/cli command constructors (e.g. hash_command.go's
// NewHashCommand returning a *cobra.Command with a RunE that delegates to a
// Run function), generalized to this system's single validation command.
package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/eighty4/wfguard/pkg/console"
	"github.com/eighty4/wfguard/pkg/fileutil"
	"github.com/eighty4/wfguard/pkg/logger"
	"github.com/spf13/cobra"
)

var log = logger.New("cli:root")

// version is set at release build time via -ldflags; "dev" otherwise.
var version = "dev"

// NewRootCommand builds the wfguard root command: one positional argument,
// a directory containing .github/workflows or a single workflow file, a
// --json flag to emit results as a JSON array instead of the colored
// textual report, and -v/--version.
func NewRootCommand() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:     "wfguard <path>",
		Short:   "Validate GitHub Actions workflow YAML files",
		Version: version,
		Long: `wfguard validates GitHub Actions workflow YAML files for schema conformance
and cross-document runtime consistency.

<path> is either a directory containing .github/workflows, or a single
workflow file living inside a .github/workflows directory.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return Run(args[0], jsonOutput)
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "emit results as a JSON array instead of the colored report")
	cmd.Flags().BoolP("version", "v", false, "print the version number")
	return cmd
}

// Run dispatches to directory or file mode based on the target's stat info.
func Run(target string, jsonOutput bool) error {
	log.Printf("Running against target: %s", target)

	info, err := os.Stat(target)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", target, err)
		return err
	}

	if info.IsDir() {
		return runDirectoryMode(target, jsonOutput)
	}
	return runFileMode(target, jsonOutput)
}

func runDirectoryMode(root string, jsonOutput bool) error {
	workflowsDir := filepath.Join(root, ".github", "workflows")
	if !fileutil.DirExists(workflowsDir) {
		err := fmt.Errorf("%s: no such directory", workflowsDir)
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	entries, err := os.ReadDir(workflowsDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", workflowsDir, err)
		return err
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := filepath.Ext(e.Name())
		if ext == ".yml" || ext == ".yaml" {
			files = append(files, filepath.Join(".github", "workflows", e.Name()))
		}
	}
	sort.Strings(files)

	jsonReporter := console.NewJSONReporter(os.Stdout)
	ok := true
	for _, f := range files {
		result, valid := validateOne(root, f, jsonOutput)
		if jsonOutput {
			jsonReporter.Add(result)
		}
		if !valid {
			ok = false
		}
	}
	if jsonOutput {
		if err := jsonReporter.Flush(); err != nil {
			return err
		}
	}
	if !ok {
		return fmt.Errorf("one or more workflows failed validation")
	}
	return nil
}

func runFileMode(path string, jsonOutput bool) error {
	rawAbs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	abs, err := fileutil.ValidateAbsolutePath(rawAbs)
	if err != nil {
		return err
	}
	parent := filepath.Base(filepath.Dir(abs))
	grandparent := filepath.Base(filepath.Dir(filepath.Dir(abs)))
	if parent != "workflows" || grandparent != ".github" {
		err := fmt.Errorf("%s is not inside a .github/workflows directory", path)
		fmt.Fprintln(os.Stderr, err)
		return err
	}

	root := filepath.Dir(filepath.Dir(filepath.Dir(abs)))
	rel, err := filepath.Rel(root, abs)
	if err != nil {
		return err
	}

	result, valid := validateOne(root, rel, jsonOutput)
	if jsonOutput {
		jsonReporter := console.NewJSONReporter(os.Stdout)
		jsonReporter.Add(result)
		if err := jsonReporter.Flush(); err != nil {
			return err
		}
	}
	if !valid {
		return fmt.Errorf("workflow failed validation")
	}
	return nil
}
