package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/estate/backend/internal/domain/shared"
	"github.com/estate/backend/internal/interfaces/http/dto"
	"github.com/estate/backend/internal/interfaces/http/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestContext(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/test", nil)
	return c, w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestBaseHandler_Success(t *testing.T) {
	h := BaseHandler{}
	c, w := newTestContext(t)

	h.Success(c, map[string]string{"name": "Block A"})

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)
	assert.Nil(t, resp.Error)
}

func TestBaseHandler_Created(t *testing.T) {
	h := BaseHandler{}
	c, w := newTestContext(t)

	h.Created(c, map[string]string{"id": uuid.NewString()})

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestBaseHandler_NoContent(t *testing.T) {
	h := BaseHandler{}
	c, w := newTestContext(t)

	h.NoContent(c)
	c.Writer.WriteHeaderNow()

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.Bytes())
}

func TestBaseHandler_ErrorStatuses(t *testing.T) {
	tests := []struct {
		name       string
		call       func(h BaseHandler, c *gin.Context)
		wantStatus int
		wantCode   string
	}{
		{
			name:       "bad request",
			call:       func(h BaseHandler, c *gin.Context) { h.BadRequest(c, "bad input") },
			wantStatus: http.StatusBadRequest,
			wantCode:   dto.ErrCodeBadRequest,
		},
		{
			name:       "not found",
			call:       func(h BaseHandler, c *gin.Context) { h.NotFound(c, "no such plot") },
			wantStatus: http.StatusNotFound,
			wantCode:   dto.ErrCodeNotFound,
		},
		{
			name:       "unauthorized",
			call:       func(h BaseHandler, c *gin.Context) { h.Unauthorized(c, "who are you") },
			wantStatus: http.StatusUnauthorized,
			wantCode:   dto.ErrCodeUnauthorized,
		},
		{
			name:       "forbidden",
			call:       func(h BaseHandler, c *gin.Context) { h.Forbidden(c, "not your branch") },
			wantStatus: http.StatusForbidden,
			wantCode:   dto.ErrCodeForbidden,
		},
		{
			name:       "conflict",
			call:       func(h BaseHandler, c *gin.Context) { h.Conflict(c, "version mismatch") },
			wantStatus: http.StatusConflict,
			wantCode:   dto.ErrCodeConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newTestContext(t)

			tt.call(BaseHandler{}, c)

			assert.Equal(t, tt.wantStatus, w.Code)
			resp := decodeResponse(t, w)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
		})
	}
}

func TestBaseHandler_HandleDomainError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{
			name:       "not found",
			err:        shared.ErrNotFound,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "concurrency conflict",
			err:        shared.ErrConcurrencyConflict,
			wantStatus: http.StatusConflict,
		},
		{
			name:       "invalid state",
			err:        shared.NewDomainError("INVALID_STATE", "Sale is on hold"),
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "insufficient area",
			err:        shared.NewDomainError("INSUFFICIENT_AREA", "Parcel has 2 katha left"),
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "unknown error falls back to 500",
			err:        assert.AnError,
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := BaseHandler{}
			c, w := newTestContext(t)

			h.HandleDomainError(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestGetRequestID(t *testing.T) {
	c, _ := newTestContext(t)
	c.Set(RequestIDKey, "req-123")

	assert.Equal(t, "req-123", getRequestID(c))
}

func TestGetRequestID_FallsBackToHeader(t *testing.T) {
	c, _ := newTestContext(t)
	c.Request.Header.Set("X-Request-ID", "hdr-456")

	assert.Equal(t, "hdr-456", getRequestID(c))
}

func TestApprovalContext(t *testing.T) {
	branchID := uuid.New()
	actorID := uuid.New()
	docID := uuid.New()

	setup := func(c *gin.Context) {
		c.Set(middleware.JWTBranchIDKey, branchID.String())
		c.Set(middleware.JWTUserIDKey, actorID.String())
		c.Set(middleware.JWTRoleKey, "FINANCE_MANAGER")
		c.Params = gin.Params{{Key: "id", Value: docID.String()}}
	}

	t.Run("extracts the full identity triple", func(t *testing.T) {
		c, _ := newTestContext(t)
		setup(c)

		gotBranch, gotActor, gotRole, gotDoc, ok := approvalContext(c, &BaseHandler{})

		require.True(t, ok)
		assert.Equal(t, branchID, gotBranch)
		assert.Equal(t, actorID, gotActor)
		assert.Equal(t, "FINANCE_MANAGER", gotRole.String())
		assert.Equal(t, docID, gotDoc)
	})

	t.Run("rejects a missing role", func(t *testing.T) {
		c, w := newTestContext(t)
		setup(c)
		c.Set(middleware.JWTRoleKey, "")

		_, _, _, _, ok := approvalContext(c, &BaseHandler{})

		assert.False(t, ok)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("rejects an unknown role", func(t *testing.T) {
		c, w := newTestContext(t)
		setup(c)
		c.Set(middleware.JWTRoleKey, "JANITOR")

		_, _, _, _, ok := approvalContext(c, &BaseHandler{})

		assert.False(t, ok)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("rejects a malformed document ID", func(t *testing.T) {
		c, w := newTestContext(t)
		setup(c)
		c.Params = gin.Params{{Key: "id", Value: "not-a-uuid"}}

		_, _, _, _, ok := approvalContext(c, &BaseHandler{})

		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("rejects a missing identity", func(t *testing.T) {
		c, w := newTestContext(t)

		_, _, _, _, ok := approvalContext(c, &BaseHandler{})

		assert.False(t, ok)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
