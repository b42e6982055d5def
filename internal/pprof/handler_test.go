package pprof

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHandlerVars(t *testing.T) {
	handler := NewHandler("/debug/pprof", map[string]Var{
		"masthead_test_headers": func() any { return 3 },
	})

	// Publishing twice must not panic
	_ = NewHandler("/debug/pprof", map[string]Var{
		"masthead_test_headers": func() any { return 4 },
	})

	req := httptest.NewRequest(http.MethodGet, "/debug/pprof/vars", nil)
	res := httptest.NewRecorder()

	handler.ServeHTTP(res, req)

	if e, g := http.StatusOK, res.Code; e != g {
		t.Fatalf("res.Code: expected '%v', got '%v'", e, g)
	}

	var vars map[string]any
	if err := json.Unmarshal(res.Body.Bytes(), &vars); err != nil {
		t.Fatalf("%+v", err)
	}

	if e, g := float64(3), vars["masthead_test_headers"]; e != g {
		t.Errorf("vars[masthead_test_headers]: expected '%v', got '%v'", e, g)
	}
}
