// Command wfguard validates GitHub Actions workflow YAML files for schema
// conformance and cross-document runtime consistency.
package main

import (
	"os"

	"github.com/eighty4/wfguard/pkg/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
