package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tourops/backend/internal/domain/shared"
	"github.com/tourops/backend/internal/interfaces/http/dto"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newHandlerCtx builds a gin test context with an attached request.
func newHandlerCtx() (*httptest.ResponseRecorder, *gin.Context) {
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
	t.Run("from context string", func(t *testing.T) {
		_, c := newHandlerCtx()
		c.Set(RequestIDKey, "ctx-request-id")
		assert.Equal(t, "ctx-request-id", getRequestID(c))
	})

	t.Run("falls back to header", func(t *testing.T) {
		_, c := newHandlerCtx()
		c.Request.Header.Set(RequestIDKey, "header-request-id")
		assert.Equal(t, "header-request-id", getRequestID(c))
	})

	t.Run("empty when not set", func(t *testing.T) {
		_, c := newHandlerCtx()
		assert.Equal(t, "", getRequestID(c))
	})

	t.Run("context wins over header", func(t *testing.T) {
		_, c := newHandlerCtx()
		c.Set(RequestIDKey, "ctx-id")
		c.Request.Header.Set(RequestIDKey, "header-id")
		assert.Equal(t, "ctx-id", getRequestID(c))
	})
}

func TestBaseHandlerSuccessResponses(t *testing.T) {
	h := &BaseHandler{}

	t.Run("Success wraps the payload", func(t *testing.T) {
		w, c := newHandlerCtx()
		h.Success(c, map[string]string{"tour_number": "T-2026-001"})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, decodeResponse(t, w).Success)
	})

	t.Run("SuccessWithMeta carries pagination", func(t *testing.T) {
		w, c := newHandlerCtx()
		h.SuccessWithMeta(c, []string{"a", "b"}, 100, 1, 10)

		assert.Equal(t, http.StatusOK, w.Code)
		resp := decodeResponse(t, w)
		assert.True(t, resp.Success)
		require.NotNil(t, resp.Meta)
		assert.Equal(t, int64(100), resp.Meta.Total)
	})

	t.Run("Created returns 201", func(t *testing.T) {
		w, c := newHandlerCtx()
		h.Created(c, map[string]string{"id": "123"})

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.True(t, decodeResponse(t, w).Success)
	})

	t.Run("NoContent returns an empty 204", func(t *testing.T) {
		router := gin.New()
		router.DELETE("/tours/:id", func(c *gin.Context) {
			h.NoContent(c)
		})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("DELETE", "/tours/42", nil))

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Body.Bytes())
	})
}

func TestBaseHandlerErrorShortcuts(t *testing.T) {
	h := &BaseHandler{}

	tests := []struct {
		name       string
		call       func(*gin.Context)
		wantStatus int
		wantCode   string
	}{
		{"BadRequest", func(c *gin.Context) { h.BadRequest(c, "Invalid request") },
			http.StatusBadRequest, dto.ErrCodeBadRequest},
		{"NotFound", func(c *gin.Context) { h.NotFound(c, "Tour not found") },
			http.StatusNotFound, dto.ErrCodeNotFound},
		{"Conflict", func(c *gin.Context) { h.Conflict(c, "Order number taken") },
			http.StatusConflict, dto.ErrCodeConflict},
		{"InternalError", func(c *gin.Context) { h.InternalError(c, "Server error") },
			http.StatusInternalServerError, dto.ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, c := newHandlerCtx()
			tt.call(c)

			assert.Equal(t, tt.wantStatus, w.Code)
			resp := decodeResponse(t, w)
			assert.False(t, resp.Success)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
		})
	}
}

func TestBaseHandlerErrorCarriesRequestID(t *testing.T) {
	h := &BaseHandler{}
	w, c := newHandlerCtx()
	c.Set(RequestIDKey, "test-request-123")

	h.BadRequest(c, "Invalid request")

	assert.Equal(t, "test-request-123", decodeResponse(t, w).Error.RequestID)
}

func TestBaseHandlerErrorWithCode(t *testing.T) {
	h := &BaseHandler{}
	w, c := newHandlerCtx()

	h.ErrorWithCode(c, dto.ErrCodeBusinessRule, "Tour cannot close with unsettled orders")

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, dto.ErrCodeBusinessRule, decodeResponse(t, w).Error.Code)
}

func TestBaseHandlerUnprocessableEntity(t *testing.T) {
	h := &BaseHandler{}
	w, c := newHandlerCtx()

	h.UnprocessableEntity(c, dto.ErrCodeBusinessRule, "Business rule violated")

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, dto.ErrCodeBusinessRule, decodeResponse(t, w).Error.Code)
}

func TestBaseHandlerHandleError(t *testing.T) {
	h := &BaseHandler{}

	t.Run("maps shared domain errors", func(t *testing.T) {
		tests := []struct {
			name       string
			err        error
			wantStatus int
			wantCode   string
		}{
			{"not found", shared.ErrNotFound, http.StatusNotFound, dto.ErrCodeNotFound},
			{"already exists", shared.ErrAlreadyExists, http.StatusConflict, dto.ErrCodeAlreadyExists},
			{"invalid input", shared.ErrInvalidInput, http.StatusBadRequest, dto.ErrCodeInvalidInput},
			{"invalid state", shared.ErrInvalidState, http.StatusUnprocessableEntity, dto.ErrCodeInvalidState},
			{"concurrency conflict", shared.ErrConcurrencyConflict, http.StatusConflict, dto.ErrCodeConcurrencyConflict},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				w, c := newHandlerCtx()
				h.HandleError(c, tt.err)

				assert.Equal(t, tt.wantStatus, w.Code)
				resp := decodeResponse(t, w)
				assert.False(t, resp.Success)
				assert.Equal(t, tt.wantCode, resp.Error.Code)
			})
		}
	})

	t.Run("normalizes entity-specific codes", func(t *testing.T) {
		tests := []struct {
			name       string
			err        error
			wantStatus int
			wantCode   string
		}{
			{"entity not-found suffix", shared.NewDomainError("TOUR_NOT_FOUND", "Tour not found"),
				http.StatusNotFound, dto.ErrCodeNotFound},
			{"duplicate number prefix", shared.NewDomainError("DUPLICATE_ORDER_NUMBER", "Order number already exists"),
				http.StatusConflict, dto.ErrCodeAlreadyExists},
			{"validation prefix", shared.NewDomainError("INVALID_AMOUNT", "Amount must not be negative"),
				http.StatusBadRequest, dto.ErrCodeValidation},
			{"optimistic lock failure", shared.NewDomainError("CONCURRENT_MODIFICATION", "Record was modified concurrently"),
				http.StatusConflict, dto.ErrCodeConcurrencyConflict},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				w, c := newHandlerCtx()
				h.HandleError(c, tt.err)

				assert.Equal(t, tt.wantStatus, w.Code)
				assert.Equal(t, tt.wantCode, decodeResponse(t, w).Error.Code)
			})
		}
	})

	t.Run("nil error writes nothing", func(t *testing.T) {
		w, c := newHandlerCtx()
		h.HandleError(c, nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Body.Bytes())
	})

	t.Run("non-domain error becomes opaque 500", func(t *testing.T) {
		w, c := newHandlerCtx()
		h.HandleError(c, assert.AnError)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		resp := decodeResponse(t, w)
		assert.False(t, resp.Success)
		assert.Equal(t, dto.ErrCodeInternal, resp.Error.Code)
		assert.Equal(t, "An unexpected error occurred", resp.Error.Message)
	})

	t.Run("unwraps wrapped domain errors", func(t *testing.T) {
		w, c := newHandlerCtx()
		h.HandleError(c, fmt.Errorf("loading tour: %w", shared.ErrNotFound))

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, dto.ErrCodeNotFound, decodeResponse(t, w).Error.Code)
	})

	t.Run("request ID flows into the envelope", func(t *testing.T) {
		w, c := newHandlerCtx()
		c.Set(RequestIDKey, "domain-err-req")

		h.HandleError(c, shared.ErrNotFound)

		assert.Equal(t, "domain-err-req", decodeResponse(t, w).Error.RequestID)
	})
}
