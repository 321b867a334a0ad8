package fetch

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFile_Found(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.yml"), []byte("on: {}\n"), 0o644))

	content, err := File(dir, "a.yml")
	require.NoError(t, err)
	assert.Equal(t, "on: {}\n", content)
}

func TestFile_NotFound(t *testing.T) {
	dir := t.TempDir()
	_, err := File(dir, "missing.yml")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClassifyStatus(t *testing.T) {
	cases := []struct {
		name    string
		status  int
		headers map[string]string
		wantErr error
	}{
		{name: "ok", status: http.StatusOK, wantErr: nil},
		{name: "not found", status: http.StatusNotFound, wantErr: ErrNotFound},
		{name: "unauthorized", status: http.StatusUnauthorized, wantErr: ErrUnauthorized},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			resp := &http.Response{StatusCode: c.status, Header: http.Header{}}
			for k, v := range c.headers {
				resp.Header.Set(k, v)
			}
			err := classifyStatus(resp)
			if c.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, c.wantErr)
			}
		})
	}
}

func TestClassifyStatus_RateLimited(t *testing.T) {
	resp := &http.Response{
		StatusCode: http.StatusForbidden,
		Header:     http.Header{"X-Ratelimit-Remaining": []string{"0"}, "X-Ratelimit-Reset": []string{"1700000000"}},
	}
	err := classifyStatus(resp)
	require.Error(t, err)
	var rl *RateLimitedError
	require.ErrorAs(t, err, &rl)
	assert.Equal(t, int64(1700000000), rl.ResetEpoch)
}

func TestClassifyStatus_TooManyRequests(t *testing.T) {
	resp := &http.Response{StatusCode: http.StatusTooManyRequests, Header: http.Header{}}
	err := classifyStatus(resp)
	var rl *RateLimitedError
	assert.ErrorAs(t, err, &rl)
}
