package handlers

import (
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/perimetra/devscope/pkg/errors"
	"github.com/perimetra/devscope/pkg/logger"
)

func TestRespondErrorMapsAppErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{"bad request", errors.ErrInvalidRequest("accountId query parameter is required"), http.StatusBadRequest, "accountId query parameter is required"},
		{"credentials", errors.ErrInvalidCredentials(), http.StatusUnauthorized, "invalid username or password"},
		{"denied", errors.ErrAccessDenied(), http.StatusForbidden, "access denied"},
		{"not found", errors.ErrNotFound(), http.StatusNotFound, "device not found"},
		{"repository", errors.ErrRepository(), http.StatusInternalServerError, "internal server error"},
		{"plain error", stderrors.New("disk on fire"), http.StatusInternalServerError, "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(recorder)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			respondError(c, logger.NewNop(), tt.err)

			assert.Equal(t, tt.wantStatus, recorder.Code)
			assert.Contains(t, recorder.Body.String(), `"success":false`)
			assert.Contains(t, recorder.Body.String(), tt.wantBody)
		})
	}
}

func TestRespondErrorNeverLeaksCause(t *testing.T) {
	gin.SetMode(gin.TestMode)

	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	respondError(c, logger.NewNop(), errors.ErrRepository().WithCause(stderrors.New("pq: relation devices does not exist")))

	assert.NotContains(t, recorder.Body.String(), "relation")
	assert.Contains(t, recorder.Body.String(), "internal server error")
}
