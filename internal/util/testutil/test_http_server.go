package testutil

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type HTTPTestRoute struct {
	Method  string
	URL     string // URL pattern (e.g., "/api/v1"). Must not be empty.
	Handler http.HandlerFunc
}

func NewHTTPTestServer(t *testing.T, routes []HTTPTestRoute) *httptest.Server {
	t.Helper()

	router := http.NewServeMux()

	for _, route := range routes {
		if route.URL == "" {
			t.Fatalf("HTTPTestRoute.URL must not be empty")
		}

		method := strings.ToUpper(strings.TrimSpace(route.Method))

		if route.Method == "" {
			t.Fatalf("HTTPTestRoute.Method must not be empty")
		}

		if route.Handler == nil {
			t.Fatalf("HTTPTestRoute.Handler must not be nil for route %s", route.URL)
		}

		pattern := fmt.Sprintf("%s %s", method, route.URL)
		router.HandleFunc(pattern, route.Handler)
	}

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return server
}

func ServeJSONTestDataHandler(t *testing.T, statusCode int, filename string) http.HandlerFunc {
	t.Helper()

	data := LoadTestDataFile(t, filename)

	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		_, _ = w.Write(data)
	}
}

// ServeJSONTestDataByQuery serves the fixture keyed by the value of query parameter param
// ("" when the parameter is absent). Other values get an empty JSON array.
func ServeJSONTestDataByQuery(t *testing.T, param string, files map[string]string) http.HandlerFunc {
	t.Helper()

	handlers := make(map[string]http.HandlerFunc, len(files))
	for value, filename := range files {
		handlers[value] = ServeJSONTestDataHandler(t, http.StatusOK, filename)
	}

	return func(w http.ResponseWriter, r *http.Request) {
		if handler, ok := handlers[r.URL.Query().Get(param)]; ok {
			handler(w, r)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte("[]"))
	}
}
