package shared

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/phrazzld/taskcache/internal/platform/logger"
	"github.com/phrazzld/taskcache/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondWithJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/urgent-tasks", nil)
	rec := httptest.NewRecorder()

	RespondWithJSON(rec, req, http.StatusOK, []string{"a", "b"})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `["a","b"]`, rec.Body.String())
}

func TestRespondWithError(t *testing.T) {
	t.Run("with trace id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/urgent-tasks", nil)
		req = req.WithContext(WithTraceID(req.Context(), "abc"))
		rec := httptest.NewRecorder()

		RespondWithError(rec, req, http.StatusNotFound, "No urgent tasks stored")

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.JSONEq(t, `{"error":"No urgent tasks stored","trace_id":"abc"}`, rec.Body.String())
	})

	t.Run("without trace id", func(t *testing.T) {
		rec := httptest.NewRecorder()
		RespondWithError(rec, httptest.NewRequest(http.MethodGet, "/urgent-tasks", nil), http.StatusNotFound, "No urgent tasks stored")
		assert.JSONEq(t, `{"error":"No urgent tasks stored"}`, rec.Body.String())
	})
}

func TestRespondWithErrorAndLog(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantLevel string
	}{
		{name: "server error", status: http.StatusInternalServerError, wantLevel: "ERROR"},
		{name: "client error", status: http.StatusBadRequest, wantLevel: "DEBUG"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			log, buf := logger.GetTestLogger(t)
			req := httptest.NewRequest(http.MethodGet, "/urgent-tasks", nil)
			ctx := WithTraceID(req.Context(), "trace-1")
			req = req.WithContext(logger.WithLogger(ctx, log))
			rec := httptest.NewRecorder()

			cause := fmt.Errorf("dial redis://:s3cr3t@cache.internal:6379: %w", store.ErrUnavailable)
			RespondWithErrorAndLog(rec, req, tc.status, "safe message", cause)

			var body ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, "safe message", body.Error)
			assert.Equal(t, "trace-1", body.TraceID)
			assert.NotContains(t, rec.Body.String(), "s3cr3t")

			entries, err := buf.GetLogEntries()
			require.NoError(t, err)
			require.Len(t, entries, 1)
			assert.Equal(t, tc.wantLevel, entries[0]["level"])
			assert.Equal(t, "trace-1", entries[0]["trace_id"])
			assert.NotContains(t, entries[0]["error"], "s3cr3t")
		})
	}
}
