// Package fetch implements the two document fetchers: a local
// filesystem fetcher for `./`-style references, and a repository object
// fetcher (REST or GraphQL) for GitHub-hosted workflows and actions. The
// REST implementation is grounded on github/gh-aw's use of
// github.com/cli/go-gh/v2/pkg/api (pkg/cli/update_extension_check.go) and on
// jclem's actions-versions tool's api.DefaultRESTClient + api.HTTPError
// response classification.
package fetch

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/eighty4/wfguard/pkg/logger"
)

var log = logger.New("fetch:fetch")

// ErrNotFound is returned when a filesystem or repository path does not exist.
var ErrNotFound = errors.New("not found")

// File reads path relative to root, returning ErrNotFound when it is absent.
func File(root, path string) (string, error) {
	full := filepath.Join(root, path)
	log.Printf("Reading file: path=%s", full)
	data, err := os.ReadFile(full)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%s: %w", path, ErrNotFound)
		}
		return "", err
	}
	return string(data), nil
}
