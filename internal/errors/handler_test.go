package errors

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler() *ErrorHandler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewErrorHandler(logger, false)
}

func decodeProblem(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	require.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))

	var problem map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	return problem
}

func TestHandleErrorIngestKinds(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
		wantKind   string
	}{
		{
			name:       "too large maps to 413",
			err:        NewTooLargeError(60<<20, 50<<20),
			wantStatus: http.StatusRequestEntityTooLarge,
			wantType:   TypePayloadTooLarge,
			wantKind:   "too_large",
		},
		{
			name:       "invalid extension maps to 400",
			err:        NewInvalidExtensionError(".exe", []string{".csv"}),
			wantStatus: http.StatusBadRequest,
			wantType:   TypeUploadRejected,
			wantKind:   "invalid_extension",
		},
		{
			name:       "binary content maps to 400",
			err:        NewBinaryContentError("MZ"),
			wantStatus: http.StatusBadRequest,
			wantType:   TypeUploadRejected,
			wantKind:   "binary_content_rejected",
		},
		{
			name:       "undecodable maps to 422",
			err:        NewUndecodableError([]string{"utf-8"}),
			wantStatus: http.StatusUnprocessableEntity,
			wantType:   TypeUploadUndecodable,
			wantKind:   "undecodable",
		},
		{
			name:       "missing columns maps to 422",
			err:        NewMissingColumnsError([]string{"Category"}),
			wantStatus: http.StatusUnprocessableEntity,
			wantType:   TypeUploadStructure,
			wantKind:   "missing_columns",
		},
		{
			name:       "row limit maps to 422",
			err:        NewRowLimitError(20000, 25000),
			wantStatus: http.StatusUnprocessableEntity,
			wantType:   TypeUploadStructure,
			wantKind:   "row_limit_exceeded",
		},
		{
			name:       "cell too large maps to 422",
			err:        NewCellTooLargeError(3, "Description", 11000, 10000),
			wantStatus: http.StatusUnprocessableEntity,
			wantType:   TypeUploadStructure,
			wantKind:   "cell_too_large",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler()
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/uploads", nil)

			h.HandleError(rec, req, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			problem := decodeProblem(t, rec)
			assert.Equal(t, tt.wantType, problem["type"])
			assert.Equal(t, tt.wantKind, problem["error_kind"])
			assert.Equal(t, "/api/uploads", problem["instance"])
		})
	}
}

func TestHandleErrorIngestExtensions(t *testing.T) {
	h := newTestHandler()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/uploads", nil)
	h.HandleError(rec, req, NewMissingColumnsError([]string{"Category", "Recommendation"}))

	problem := decodeProblem(t, rec)
	assert.ElementsMatch(t, []interface{}{"Category", "Recommendation"}, problem["missing_columns"])

	rec = httptest.NewRecorder()
	h.HandleError(rec, req, NewCellTooLargeError(7, "Description", 10500, 10000))

	problem = decodeProblem(t, rec)
	assert.Equal(t, float64(7), problem["row"])
	assert.Equal(t, "Description", problem["column"])
	assert.Equal(t, float64(10000), problem["limit"])
}

func TestHandleErrorAPIError(t *testing.T) {
	h := newTestHandler()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/uploads/abc", nil)

	h.HandleError(rec, req, ErrUploadNotFound)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	problem := decodeProblem(t, rec)
	assert.Equal(t, TypeNotFound, problem["type"])
	assert.Equal(t, "UPLOAD_NOT_FOUND", problem["error_code"])
}

func TestHandleErrorNotFoundString(t *testing.T) {
	h := newTestHandler()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/uploads/abc", nil)

	h.HandleError(rec, req, NewNotFoundError("upload abc"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	problem := decodeProblem(t, rec)
	assert.Equal(t, TypeNotFound, problem["type"])
}

func TestHandleErrorContextDeadline(t *testing.T) {
	h := newTestHandler()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/uploads", nil)

	h.HandleError(rec, req, context.DeadlineExceeded)

	assert.Equal(t, http.StatusGatewayTimeout, rec.Code)
	problem := decodeProblem(t, rec)
	assert.Equal(t, TypeTimeout, problem["type"])
}

func TestHandleErrorUnknownDefaultsToInternal(t *testing.T) {
	h := newTestHandler()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/uploads", nil)

	h.HandleError(rec, req, errors.New("boom"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	problem := decodeProblem(t, rec)
	assert.Equal(t, TypeInternal, problem["type"])
	// The raw error text never leaks into the response.
	assert.NotContains(t, rec.Body.String(), "boom")
}

func TestHandlePanic(t *testing.T) {
	h := newTestHandler()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)

	h.HandlePanic(rec, req, "slice index out of range")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	problem := decodeProblem(t, rec)
	assert.Equal(t, TypeInternal, problem["type"])
	assert.NotContains(t, rec.Body.String(), "slice index")
}

func TestNotFoundAndMethodNotAllowed(t *testing.T) {
	h := newTestHandler()

	rec := httptest.NewRecorder()
	h.NotFound(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	decodeProblem(t, rec)

	rec = httptest.NewRecorder()
	h.MethodNotAllowed(rec, httptest.NewRequest(http.MethodPatch, "/api/uploads", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	problem := decodeProblem(t, rec)
	assert.Contains(t, problem["detail"], "PATCH")
}
