package testutil

import (
	"encoding/json"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestDataDir holds the recorded API responses of a package, relative to the package directory.
var TestDataDir = filepath.Join("testdata", "api")

func LoadTestDataFile(t *testing.T, filename string) []byte {
	t.Helper()

	path := filepath.Clean(filepath.Join(TestDataDir, filename))

	b, err := os.ReadFile(path)
	require.NoError(t, err, "test data file %s must exist", filename)

	return b
}

func MarshalTestDataFile[T any](t *testing.T, filename string) T {
	t.Helper()

	var result T
	require.NoError(t, json.Unmarshal(LoadTestDataFile(t, filename), &result))

	return result
}

// DecodeRequestBody decodes the JSON body sent by the client under test.
func DecodeRequestBody[T any](t *testing.T, r *http.Request) T {
	t.Helper()

	var body T
	require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

	return body
}

// AssertRequest checks the method, headers and query parameters of a request.
// A nil expectedQueryParams skips the query check; an empty one asserts no parameters were sent.
func AssertRequest(t *testing.T, r *http.Request, method string, expectedHeaders http.Header, expectedQueryParams url.Values) {
	t.Helper()

	require.Equal(t, method, r.Method, "HTTP method should match")

	for header, expected := range expectedHeaders {
		require.Equal(t, expected, r.Header.Values(header), "header %s should match", header)
	}

	if expectedQueryParams == nil {
		return
	}

	query := r.URL.Query()
	require.Len(t, query, len(expectedQueryParams), "query params should match: %v", query)
	for key, expected := range expectedQueryParams {
		require.Equal(t, expected, query[key], "query param %s should match", key)
	}
}

func MustParse[T any](t *testing.T, input string, fn func(string) (T, error)) T {
	t.Helper()

	result, err := fn(input)
	require.NoError(t, err)

	return result
}
