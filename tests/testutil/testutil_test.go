package testutil

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockDB(t *testing.T) {
	t.Run("opens a gorm handle over sqlmock", func(t *testing.T) {
		mockDB := NewMockDB(t)
		defer mockDB.Close()

		assert.NotNil(t, mockDB.DB)
		assert.NotNil(t, mockDB.Mock)
		assert.NotNil(t, mockDB.SqlDB)
	})

	t.Run("passes with no pending expectations", func(t *testing.T) {
		mockDB := NewMockDB(t)
		defer mockDB.Close()

		mockDB.ExpectationsWereMet(t)
	})
}

func TestTestContext(t *testing.T) {
	t.Run("starts with an empty GET request", func(t *testing.T) {
		tc := NewTestContext(t)

		require.NotNil(t, tc.Context)
		require.NotNil(t, tc.Recorder)
		require.NotNil(t, tc.Engine)
		assert.Equal(t, http.MethodGet, tc.Context.Request.Method)
	})

	t.Run("SetRequestID stores the ID in the gin context", func(t *testing.T) {
		tc := NewTestContext(t)
		tc.SetRequestID("req-tours-42")

		val, exists := tc.Context.Get("X-Request-ID")
		require.True(t, exists)
		assert.Equal(t, "req-tours-42", val)
	})

	t.Run("SetHeader writes to the underlying request", func(t *testing.T) {
		tc := NewTestContext(t)
		tc.SetHeader("X-Agency-ID", "agency-7")

		assert.Equal(t, "agency-7", tc.Context.Request.Header.Get("X-Agency-ID"))
	})

	t.Run("exposes the recorded status and body", func(t *testing.T) {
		tc := NewTestContext(t)
		tc.Context.String(http.StatusCreated, "created")

		assert.Equal(t, http.StatusCreated, tc.ResponseCode())
		assert.Equal(t, "created", string(tc.ResponseBody()))
	})
}

func TestNewTestUUID(t *testing.T) {
	tourID := NewTestUUID("tour-T-2026-001")

	// same seed, same identity; different seed, different identity
	assert.Equal(t, tourID, NewTestUUID("tour-T-2026-001"))
	assert.NotEqual(t, tourID, NewTestUUID("tour-T-2026-002"))
}

func TestNewRandomUUID(t *testing.T) {
	assert.NotEqual(t, NewRandomUUID(), NewRandomUUID())
}

func TestContextHelpers(t *testing.T) {
	t.Run("timeout context carries a deadline", func(t *testing.T) {
		ctx, cancel := ContextWithTimeout(t, 100*time.Millisecond)
		defer cancel()

		deadline, ok := ctx.Deadline()
		require.True(t, ok)
		assert.True(t, deadline.After(time.Now()))
	})

	t.Run("cancel context is done only after cancel", func(t *testing.T) {
		ctx, cancel := ContextWithCancel(t)

		select {
		case <-ctx.Done():
			t.Fatal("context cancelled prematurely")
		default:
		}

		cancel()
		<-ctx.Done()
	})
}

func TestAssertEventually(t *testing.T) {
	done := make(chan struct{})
	go func() {
		time.Sleep(30 * time.Millisecond)
		close(done)
	}()

	AssertEventually(t, func() bool {
		select {
		case <-done:
			return true
		default:
			return false
		}
	}, 200*time.Millisecond, 10*time.Millisecond)
}

func TestAssertNever(t *testing.T) {
	AssertNever(t, func() bool {
		return false
	}, 50*time.Millisecond, 10*time.Millisecond)
}

func TestRunHTTPTestCases(t *testing.T) {
	handler := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    gin.H{"tour_code": "T-2026-001"},
		})
	}

	RunHTTPTestCases(t, handler, []HTTPTestCase{
		{
			Name:           "status and body keys",
			Method:         http.MethodGet,
			Path:           "/tours/T-2026-001",
			ExpectedStatus: http.StatusOK,
			ExpectedBody:   map[string]interface{}{"success": true},
		},
		{
			Name: "defaults to GET /",
			Validate: func(t *testing.T, tc *TestContext) {
				assert.Equal(t, http.MethodGet, tc.Context.Request.Method)
				AssertSuccessResponse(t, tc)
			},
		},
	})
}

func TestRunHTTPTestCase_PostBody(t *testing.T) {
	handler := func(c *gin.Context) {
		var payload struct {
			Title string `json:"title"`
		}
		require.NoError(t, c.ShouldBindJSON(&payload))
		c.JSON(http.StatusCreated, gin.H{"success": true, "data": gin.H{"title": payload.Title}})
	}

	RunHTTPTestCase(t, handler, HTTPTestCase{
		Name:           "echoes the posted title",
		Method:         http.MethodPost,
		Path:           "/tours",
		Body:           map[string]string{"title": "Kyoto Autumn 2026"},
		ExpectedStatus: http.StatusCreated,
		Validate: func(t *testing.T, tc *TestContext) {
			assert.Equal(t, "application/json", tc.Context.Request.Header.Get("Content-Type"))
		},
	})
}

func TestJSONResponseHelpers(t *testing.T) {
	t.Run("JSONResponse returns the raw map", func(t *testing.T) {
		tc := NewTestContext(t)
		tc.Context.JSON(http.StatusOK, gin.H{"tour_code": "T-2026-001"})

		resp := JSONResponse(t, tc)
		assert.Equal(t, "T-2026-001", resp["tour_code"])
	})

	t.Run("JSONResponseAs decodes into a struct", func(t *testing.T) {
		type tourView struct {
			TourCode string `json:"tour_code"`
		}

		tc := NewTestContext(t)
		tc.Context.JSON(http.StatusOK, gin.H{"tour_code": "T-2026-001"})

		resp := JSONResponseAs[tourView](t, tc)
		assert.Equal(t, "T-2026-001", resp.TourCode)
	})
}

func TestEnvelopeAssertions(t *testing.T) {
	t.Run("success envelope", func(t *testing.T) {
		tc := NewTestContext(t)
		tc.Context.JSON(http.StatusOK, gin.H{"success": true})

		AssertSuccessResponse(t, tc)
	})

	t.Run("error envelope with code", func(t *testing.T) {
		tc := NewTestContext(t)
		tc.Context.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   gin.H{"code": "NOT_FOUND", "message": "Tour not found"},
		})

		AssertErrorResponse(t, tc, "NOT_FOUND")
	})
}
