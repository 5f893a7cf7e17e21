package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"millstock/internal/core/apperror"
	appctx "millstock/internal/core/context"
	"millstock/pkg/logger"
)

type envelope struct {
	Error struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

func newEngine(handler gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Recovery(), Trace(), Logger(logger.Nop()), ErrorHandler(), UserContext())
	r.GET("/x", handler)
	return r
}

func serve(t *testing.T, r *gin.Engine, req *http.Request) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func TestErrorHandler_AppError(t *testing.T) {
	r := newEngine(func(c *gin.Context) {
		_ = c.Error(apperror.NewValidation("quantity must be positive").WithDetail("lineNo", 3))
	})

	rec, env := serve(t, r, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, apperror.CodeValidation, env.Error.Code)
	assert.Equal(t, 3.0, env.Error.Details["lineNo"])
}

func TestErrorHandler_HidesPlainErrors(t *testing.T) {
	r := newEngine(func(c *gin.Context) {
		_ = c.Error(errors.New("pq: relation does not exist"))
	})

	rec, env := serve(t, r, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, apperror.CodeInternal, env.Error.Code)
	assert.NotContains(t, rec.Body.String(), "relation")
	assert.NotEmpty(t, env.Error.Details["request_id"])
}

func TestRecovery_WritesEnvelope(t *testing.T) {
	r := newEngine(func(c *gin.Context) {
		panic("boom")
	})

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(HeaderRequestID, "req-1")

	rec, env := serve(t, r, req)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, apperror.CodeInternal, env.Error.Code)
	assert.Equal(t, "req-1", env.Error.Details["request_id"])
	assert.Equal(t, "req-1", rec.Header().Get(HeaderRequestID))
}

func TestUserContext_OperatorHeader(t *testing.T) {
	var got string
	r := newEngine(func(c *gin.Context) {
		got = appctx.GetUserID(c.Request.Context())
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(HeaderOperator, " store-keeper ")
	rec, _ := serve(t, r, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "store-keeper", got)
}

type staticValidator struct {
	user *appctx.UserContext
	err  error
}

func (v staticValidator) ValidateToken(string) (*appctx.UserContext, error) {
	return v.user, v.err
}

func TestAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	build := func(v JWTValidator) *gin.Engine {
		r := gin.New()
		r.Use(ErrorHandler(), Auth(v), UserContext())
		r.GET("/x", func(c *gin.Context) {
			c.String(http.StatusOK, appctx.GetUserID(c.Request.Context()))
		})
		return r
	}

	t.Run("missing header", func(t *testing.T) {
		rec, env := serve(t, build(staticValidator{}), httptest.NewRequest(http.MethodGet, "/x", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, apperror.CodeUnauthorized, env.Error.Code)
	})

	t.Run("rejected token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set("Authorization", "Bearer bad")
		rec, _ := serve(t, build(staticValidator{err: errors.New("expired")}), req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("accepted token wins over operator header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set("Authorization", "Bearer good")
		req.Header.Set(HeaderOperator, "spoofed")

		rec := httptest.NewRecorder()
		build(staticValidator{user: &appctx.UserContext{UserID: "u-1"}}).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "u-1", rec.Body.String())
	})
}
