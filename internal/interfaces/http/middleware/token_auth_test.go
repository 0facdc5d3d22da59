package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/perimetra/devscope/internal/domain/models"
	"github.com/perimetra/devscope/internal/infrastructure/monitoring"
	"github.com/perimetra/devscope/pkg/errors"
	"github.com/perimetra/devscope/pkg/logger"
)

type fakeCodec struct {
	claims map[string]*models.Claims
	err    error
}

func (f *fakeCodec) Encode(context.Context, string, []string, time.Time, time.Duration) (*models.IssuedToken, error) {
	panic("not used")
}

func (f *fakeCodec) Decode(_ context.Context, tokenString string) (*models.Claims, error) {
	if f.err != nil {
		return nil, f.err
	}
	claims, ok := f.claims[tokenString]
	if !ok {
		return nil, errors.ErrTokenMalformed()
	}
	return claims, nil
}

func newAuthRouter(codec *fakeCodec) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	metrics := monitoring.NewMetrics(prometheus.NewRegistry())
	engine.Use(TokenAuth(codec, metrics, logger.NewNop()))
	engine.GET("/guarded", func(c *gin.Context) {
		claims, ok := ClaimsFromContext(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"subject": claims.Subject})
	})
	return engine
}

func get(engine *gin.Engine, target, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	recorder := httptest.NewRecorder()
	engine.ServeHTTP(recorder, req)
	return recorder
}

func TestExtractBearer(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{name: "standard", header: "Bearer abc.def.ghi", want: "abc.def.ghi"},
		{name: "lowercase scheme", header: "bearer abc", want: "abc"},
		{name: "empty", header: "", want: ""},
		{name: "no scheme", header: "abc.def.ghi", want: ""},
		{name: "wrong scheme", header: "Basic dXNlcjpwYXNz", want: ""},
		{name: "scheme only", header: "Bearer", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractBearer(tt.header))
		})
	}
}

func TestTokenAuthAcceptsValidBearer(t *testing.T) {
	claims := &models.Claims{AccountIDs: []string{"acc-a"}}
	claims.Subject = "alice"
	engine := newAuthRouter(&fakeCodec{claims: map[string]*models.Claims{"good-token": claims}})

	recorder := get(engine, "/guarded", "Bearer good-token")
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "alice")
}

func TestTokenAuthRejectsMissingHeader(t *testing.T) {
	engine := newAuthRouter(&fakeCodec{})

	recorder := get(engine, "/guarded", "")
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestTokenAuthIgnoresQueryString(t *testing.T) {
	claims := &models.Claims{}
	engine := newAuthRouter(&fakeCodec{claims: map[string]*models.Claims{"good-token": claims}})

	recorder := get(engine, "/guarded?token=good-token&access_token=good-token", "")
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestTokenAuthFailureResponsesAreUniform(t *testing.T) {
	// Expired, tampered, and malformed all surface the same status and body.
	failures := []error{
		errors.ErrTokenExpired(),
		errors.ErrTokenSignatureInvalid(),
		errors.ErrTokenMalformed(),
	}

	var bodies []string
	for _, failure := range failures {
		engine := newAuthRouter(&fakeCodec{err: failure})
		recorder := get(engine, "/guarded", "Bearer some-token")
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		bodies = append(bodies, recorder.Body.String())
	}

	assert.Equal(t, bodies[0], bodies[1])
	assert.Equal(t, bodies[1], bodies[2])
}

func TestFailureReason(t *testing.T) {
	assert.Equal(t, "expired", failureReason(errors.ErrTokenExpired()))
	assert.Equal(t, "signature", failureReason(errors.ErrTokenSignatureInvalid()))
	assert.Equal(t, "malformed", failureReason(errors.ErrTokenMalformed()))
	assert.Equal(t, "malformed", failureReason(errors.ErrInternal()))
}
