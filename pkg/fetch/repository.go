package fetch

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/cli/go-gh/v2/pkg/api"
	"github.com/eighty4/wfguard/pkg/logger"
)

var repoLog = logger.New("fetch:repository")

// ErrUnauthorized is returned for HTTP 401 responses.
var ErrUnauthorized = errors.New("unauthorized")

// RateLimitedError carries the rate-limit reset time surfaced by the GitHub
// API on HTTP 403 (exhausted quota) or HTTP 429 responses.
type RateLimitedError struct {
	ResetEpoch int64
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("rate limited, resets at %s", time.Unix(e.ResetEpoch, 0).Local())
}

// NetworkError wraps a transport-level failure that never reached the API.
type NetworkError struct {
	Cause error
}

func (e *NetworkError) Error() string { return fmt.Sprintf("network error: %v", e.Cause) }
func (e *NetworkError) Unwrap() error { return e.Cause }

// RepositoryClient fetches file contents from a GitHub repository at a
// specific ref, either via REST contents API or the GraphQL blob query.
type RepositoryClient struct {
	rest *api.RESTClient
	gql  *api.GraphQLClient
}

// NewRESTRepositoryClient builds a client backed by the REST contents API,
// grounded on github/gh-aw's api.NewRESTClient(api.ClientOptions{}) call
// (pkg/cli/update_extension_check.go).
func NewRESTRepositoryClient(token string) (*RepositoryClient, error) {
	opts := api.ClientOptions{}
	if token != "" {
		opts.AuthToken = token
	}
	client, err := api.NewRESTClient(opts)
	if err != nil {
		return nil, err
	}
	return &RepositoryClient{rest: client}, nil
}

// NewGraphQLRepositoryClient builds a client backed by the GraphQL blob
// query. GraphQL anonymous access is unsupported, so token is required.
func NewGraphQLRepositoryClient(token string) (*RepositoryClient, error) {
	if token == "" {
		return nil, fmt.Errorf("GraphQL repository fetcher requires a token")
	}
	client, err := api.NewGraphQLClient(api.ClientOptions{AuthToken: token})
	if err != nil {
		return nil, err
	}
	return &RepositoryClient{gql: client}, nil
}

// FetchContent retrieves the raw text of path at ref in owner/repo.
func (c *RepositoryClient) FetchContent(owner, repo, ref, path string) (string, error) {
	if c.gql != nil {
		return c.fetchViaGraphQL(owner, repo, ref, path)
	}
	return c.fetchViaREST(owner, repo, ref, path)
}

func (c *RepositoryClient) fetchViaREST(owner, repo, ref, path string) (string, error) {
	endpoint := fmt.Sprintf("repos/%s/%s/contents/%s?ref=%s", owner, repo, path, ref)
	repoLog.Printf("Fetching via REST: %s", endpoint)

	resp, err := c.rest.Request(http.MethodGet, endpoint, nil)
	if err != nil {
		var httpErr *api.HTTPError
		if errors.As(err, &httpErr) {
			return "", classifyHTTPError(httpErr)
		}
		return "", &NetworkError{Cause: err}
	}
	defer resp.Body.Close()

	if err := classifyStatus(resp); err != nil {
		return "", err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &NetworkError{Cause: err}
	}
	return string(body), nil
}

type graphQLBlobResponse struct {
	Repository struct {
		Object struct {
			Text *string `json:"text"`
		} `json:"object"`
	} `json:"repository"`
}

func (c *RepositoryClient) fetchViaGraphQL(owner, repo, ref, path string) (string, error) {
	repoLog.Printf("Fetching via GraphQL: owner=%s repo=%s ref=%s path=%s", owner, repo, ref, path)

	query := `query($owner: String!, $repo: String!, $expression: String!) {
		repository(owner: $owner, name: $repo) {
			object(expression: $expression) {
				... on Blob {
					text
				}
			}
		}
	}`
	vars := map[string]interface{}{
		"owner":      owner,
		"repo":       repo,
		"expression": fmt.Sprintf("%s:%s", ref, path),
	}

	var resp graphQLBlobResponse
	if err := c.gql.Do(query, vars, &resp); err != nil {
		var httpErr *api.HTTPError
		if errors.As(err, &httpErr) {
			return "", classifyHTTPError(httpErr)
		}
		return "", &NetworkError{Cause: err}
	}

	if resp.Repository.Object.Text == nil {
		return "", ErrNotFound
	}
	return *resp.Repository.Object.Text, nil
}

func classifyStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrUnauthorized
	case resp.StatusCode == http.StatusForbidden && resp.Header.Get("x-ratelimit-remaining") == "0":
		return &RateLimitedError{ResetEpoch: parseResetHeader(resp.Header.Get("x-ratelimit-reset"))}
	case resp.StatusCode == http.StatusTooManyRequests:
		return &RateLimitedError{ResetEpoch: parseResetHeader(resp.Header.Get("x-ratelimit-reset"))}
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode > 299:
		return fmt.Errorf("github api error: status %d", resp.StatusCode)
	default:
		return nil
	}
}

func classifyHTTPError(err *api.HTTPError) error {
	switch {
	case err.StatusCode == http.StatusUnauthorized:
		return ErrUnauthorized
	case err.StatusCode == http.StatusForbidden && err.Headers.Get("x-ratelimit-remaining") == "0":
		return &RateLimitedError{ResetEpoch: parseResetHeader(err.Headers.Get("x-ratelimit-reset"))}
	case err.StatusCode == http.StatusTooManyRequests:
		return &RateLimitedError{ResetEpoch: parseResetHeader(err.Headers.Get("x-ratelimit-reset"))}
	case err.StatusCode == http.StatusNotFound:
		return ErrNotFound
	default:
		return err
	}
}

func parseResetHeader(v string) int64 {
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// FetchActionMetadata fetches an action's metadata document, trying
// action.yml first and retrying once with action.yaml on not-found.
func (c *RepositoryClient) FetchActionMetadata(owner, repo, ref, subdir string) (string, error) {
	primary := joinSubdir(subdir, "action.yml")
	content, err := c.FetchContent(owner, repo, ref, primary)
	if err == nil {
		return content, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return "", err
	}
	fallback := joinSubdir(subdir, "action.yaml")
	return c.FetchContent(owner, repo, ref, fallback)
}

func joinSubdir(subdir, filename string) string {
	if subdir == "" {
		return filename
	}
	return subdir + "/" + filename
}
