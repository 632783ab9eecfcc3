package cors

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestMiddleware_HandlerFunc(t *testing.T) {
	testCases := []struct {
		name           string
		origin         string
		expectedHeader string
	}{
		{name: "Should allow a configured origin", origin: "http://localhost:5173", expectedHeader: "http://localhost:5173"},
		{name: "Should ignore an unknown origin", origin: "https://evil.example.com", expectedHeader: ""},
	}

	middleware := NewMiddleware(zap.NewNop(), []string{"http://localhost:5173"})
	handler := middleware.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/questionnaire", nil)
			req.Header.Set("Origin", tc.origin)
			recorder := httptest.NewRecorder()

			handler(recorder, req)

			assert.Equal(t, http.StatusOK, recorder.Code)
			assert.Equal(t, tc.expectedHeader, recorder.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}
