package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/eighty4/wfguard/pkg/analyzer"
	"github.com/eighty4/wfguard/pkg/cache"
	"github.com/eighty4/wfguard/pkg/console"
	"github.com/eighty4/wfguard/pkg/domainerr"
	"github.com/eighty4/wfguard/pkg/fetch"
	"github.com/eighty4/wfguard/pkg/logger"
)

var validateLog = logger.New("cli:validate")

// validateOne reads, parses, and analyzes the workflow at path (relative to
// root). In text mode it reports the outcome to stderr as it goes and the
// returned Result is not used by the caller; in JSON mode it stays silent
// and returns a Result for the caller to collect and flush as a batch. The
// returned bool is false when validation failed for any reason.
func validateOne(root, path string, jsonOutput bool) (console.Result, bool) {
	validateLog.Printf("Validating workflow: %s", path)

	var reporter *console.Reporter
	if !jsonOutput {
		reporter = console.NewReporter(os.Stderr)
	}

	var repo *fetch.RepositoryClient
	if token := os.Getenv("GH_TOKEN"); token != "" {
		client, err := fetch.NewRESTRepositoryClient(token)
		if err == nil {
			repo = client
		}
	} else if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		client, err := fetch.NewRESTRepositoryClient(token)
		if err == nil {
			repo = client
		}
	}

	c := cache.New(root, repo)
	a := analyzer.New(c)

	err := a.AnalyzeFile(path)
	if err == nil {
		if !jsonOutput {
			reporter.Valid(path)
		}
		return console.Result{Path: path, Valid: true}, true
	}

	var domErr *domainerr.Error
	if errors.As(err, &domErr) {
		result := buildResult(path, domErr)
		if !jsonOutput {
			if domErr.Kind == domainerr.RateLimited {
				reporter.RateLimitNotice(resetLocal(domErr.ResetEpoch))
			} else {
				reporter.Invalid(path, summarize(domErr))
			}
			for _, se := range domErr.SchemaErrors {
				reporter.SchemaError(se.Message, se.Path)
			}
		}
		return result, false
	}

	if !jsonOutput {
		reporter.Invalid(path, err.Error())
	}
	return console.Result{Path: path, Valid: false, Message: err.Error()}, false
}

// buildResult converts a domain error into its JSON-rendered Result form.
func buildResult(path string, domErr *domainerr.Error) console.Result {
	result := console.Result{
		Path:    path,
		Valid:   false,
		Kind:    string(domErr.Kind),
		Message: domErr.Message,
	}
	if domErr.Kind == domainerr.RateLimited {
		result.ResetLocal = resetLocal(domErr.ResetEpoch)
	}
	for _, se := range domErr.SchemaErrors {
		result.SchemaErrors = append(result.SchemaErrors, console.SchemaErrorOut{Message: se.Message, Path: se.Path})
	}
	return result
}

// resetLocal renders a rate-limit reset epoch as a local-time string.
func resetLocal(epoch int64) string {
	return time.Unix(epoch, 0).Local().Format(time.Kitchen)
}

// summarize formats a domain error's one-line summary: its code and message,
// the "code" the CLI's user-visible paragraph is required to identify.
func summarize(err *domainerr.Error) string {
	if err.Message == "" {
		return string(err.Kind)
	}
	return fmt.Sprintf("[%s] %s", err.Kind, err.Message)
}
