package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/kivalao/backend/internal/domain/shared"
	"github.com/kivalao/backend/internal/interfaces/http/dto"
	"github.com/kivalao/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

// newTestContext returns a recorder-backed gin context with an empty
// GET request attached.
func newTestContext() (*httptest.ResponseRecorder, *gin.Context) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/", nil)
	return w, c
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestGetRequestID(t *testing.T) {
	tests := []struct {
		name       string
		setup      func(*gin.Context)
		expectedID string
	}{
		{
			name: "from context string",
			setup: func(c *gin.Context) {
				c.Set(RequestIDKey, "req-ctx-1")
			},
			expectedID: "req-ctx-1",
		},
		{
			name: "from header when context empty",
			setup: func(c *gin.Context) {
				c.Request.Header.Set(RequestIDKey, "req-header-1")
			},
			expectedID: "req-header-1",
		},
		{
			name:       "empty when not set",
			setup:      func(c *gin.Context) {},
			expectedID: "",
		},
		{
			name: "context wins over header",
			setup: func(c *gin.Context) {
				c.Set(RequestIDKey, "req-ctx-2")
				c.Request.Header.Set(RequestIDKey, "req-header-2")
			},
			expectedID: "req-ctx-2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, c := newTestContext()
			tt.setup(c)

			assert.Equal(t, tt.expectedID, getRequestID(c))
		})
	}
}

func TestGetUserID(t *testing.T) {
	t.Run("reads the id from JWT claims", func(t *testing.T) {
		_, c := newTestContext()
		partnerID := uuid.New()
		c.Set(middleware.JWTUserIDKey, partnerID.String())

		got, err := getUserID(c)
		require.NoError(t, err)
		assert.Equal(t, partnerID, got)
	})

	t.Run("fails without authentication", func(t *testing.T) {
		_, c := newTestContext()

		_, err := getUserID(c)
		assert.Error(t, err)
	})

	t.Run("fails on a malformed claim", func(t *testing.T) {
		_, c := newTestContext()
		c.Set(middleware.JWTUserIDKey, "not-a-uuid")

		_, err := getUserID(c)
		assert.Error(t, err)
	})
}

func TestBaseHandlerSuccess(t *testing.T) {
	h := &BaseHandler{}
	w, c := newTestContext()

	h.Success(c, gin.H{"code": "K7WXR2"})

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)
	assert.Nil(t, resp.Error)
}

func TestBaseHandlerSuccessWithMeta(t *testing.T) {
	h := &BaseHandler{}
	w, c := newTestContext()

	h.SuccessWithMeta(c, []string{"a", "b"}, 45, 2, 20)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(45), resp.Meta.Total)
	assert.Equal(t, 2, resp.Meta.Page)
	assert.Equal(t, 3, resp.Meta.TotalPages)
}

func TestBaseHandlerCreated(t *testing.T) {
	h := &BaseHandler{}
	w, c := newTestContext()

	h.Created(c, gin.H{"id": uuid.New().String()})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, decodeResponse(t, w).Success)
}

func TestBaseHandlerErrorHelpers(t *testing.T) {
	tests := []struct {
		name         string
		send         func(*BaseHandler, *gin.Context)
		expectedCode int
		expectedErr  string
	}{
		{
			name: "BadRequest",
			send: func(h *BaseHandler, c *gin.Context) {
				h.BadRequest(c, "Invalid payload")
			},
			expectedCode: http.StatusBadRequest,
			expectedErr:  dto.ErrCodeBadRequest,
		},
		{
			name: "Unauthorized",
			send: func(h *BaseHandler, c *gin.Context) {
				h.Unauthorized(c, "Missing credentials")
			},
			expectedCode: http.StatusUnauthorized,
			expectedErr:  dto.ErrCodeUnauthorized,
		},
		{
			name: "InternalError",
			send: func(h *BaseHandler, c *gin.Context) {
				h.InternalError(c, "Something broke")
			},
			expectedCode: http.StatusInternalServerError,
			expectedErr:  dto.ErrCodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &BaseHandler{}
			w, c := newTestContext()

			tt.send(h, c)

			assert.Equal(t, tt.expectedCode, w.Code)
			resp := decodeResponse(t, w)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.expectedErr, resp.Error.Code)
		})
	}
}

func TestBaseHandlerErrorCarriesRequestID(t *testing.T) {
	h := &BaseHandler{}
	w, c := newTestContext()
	c.Set(RequestIDKey, "req-err-7")

	h.BadRequest(c, "Invalid payload")

	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "req-err-7", resp.Error.RequestID)
}

func TestBaseHandlerHandleError(t *testing.T) {
	h := &BaseHandler{}

	t.Run("nil error writes nothing", func(t *testing.T) {
		w, c := newTestContext()

		h.HandleError(c, nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Body.String())
	})

	t.Run("domain errors map through the code table", func(t *testing.T) {
		tests := []struct {
			name         string
			err          error
			expectedCode int
			expectedErr  string
		}{
			{"not found", shared.ErrNotFound, http.StatusNotFound, dto.ErrCodeNotFound},
			{"already exists", shared.ErrAlreadyExists, http.StatusConflict, dto.ErrCodeAlreadyExists},
			{"invalid input", shared.ErrInvalidInput, http.StatusBadRequest, dto.ErrCodeInvalidInput},
			{"unauthorized", shared.ErrUnauthorized, http.StatusUnauthorized, dto.ErrCodeUnauthorized},
			{"forbidden", shared.ErrForbidden, http.StatusForbidden, dto.ErrCodeForbidden},
			{"expired", shared.ErrExpired, http.StatusUnprocessableEntity, dto.ErrCodeExpired},
			{"invalid state", shared.ErrInvalidState, http.StatusUnprocessableEntity, dto.ErrCodeInvalidState},
			{"concurrency conflict", shared.ErrConcurrencyConflict, http.StatusConflict, dto.ErrCodeConcurrencyConflict},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				w, c := newTestContext()

				h.HandleError(c, tt.err)

				assert.Equal(t, tt.expectedCode, w.Code)
				resp := decodeResponse(t, w)
				require.NotNil(t, resp.Error)
				assert.Equal(t, tt.expectedErr, resp.Error.Code)
			})
		}
	})

	t.Run("wrapped domain errors still translate", func(t *testing.T) {
		w, c := newTestContext()

		h.HandleError(c, fmt.Errorf("loading balance: %w", shared.ErrNotFound))

		assert.Equal(t, http.StatusNotFound, w.Code)
		resp := decodeResponse(t, w)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeNotFound, resp.Error.Code)
	})

	t.Run("unknown errors become an opaque 500", func(t *testing.T) {
		w, c := newTestContext()

		h.HandleError(c, assert.AnError)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		resp := decodeResponse(t, w)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeInternal, resp.Error.Code)
		assert.NotContains(t, resp.Error.Message, assert.AnError.Error())
	})

	t.Run("error payload includes the request id", func(t *testing.T) {
		w, c := newTestContext()
		c.Set(RequestIDKey, "req-handle-1")

		h.HandleError(c, shared.ErrNotFound)

		resp := decodeResponse(t, w)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "req-handle-1", resp.Error.RequestID)
	})
}
