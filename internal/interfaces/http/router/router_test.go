package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func hit(engine *gin.Engine, method, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(method, target, nil))
	return w
}

func textHandler(status int, body string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.String(status, body)
	}
}

func TestNewRouter(t *testing.T) {
	r := NewRouter(gin.New())

	assert.NotNil(t, r)
	assert.Equal(t, "v1", r.apiVersion)
	assert.Empty(t, r.registrars)
}

func TestRouterWithAPIVersion(t *testing.T) {
	r := NewRouter(gin.New(), WithAPIVersion("v2"))
	assert.Equal(t, "v2", r.apiVersion)
}

func TestRouterRegister(t *testing.T) {
	r := NewRouter(gin.New())
	r.Register(NewDomainGroup("tours", "/tours"))

	assert.Len(t, r.registrars, 1)
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine, WithAPIVersion("v1"))

	group := NewDomainGroup("system", "/system")
	group.GET("/ping", textHandler(http.StatusOK, "pong"))

	r.Register(group)
	r.Setup()

	w := hit(engine, "GET", "/api/v1/system/ping")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
}

func TestDomainGroup(t *testing.T) {
	t.Run("carries name and prefix", func(t *testing.T) {
		g := NewDomainGroup("tours", "/tours")
		assert.Equal(t, "tours", g.Name())
		assert.Equal(t, "/tours", g.Prefix())
	})

	t.Run("registers each HTTP method", func(t *testing.T) {
		tests := []struct {
			method     string
			path       string
			target     string
			wantStatus int
		}{
			{"GET", "", "/api/v1/orders", http.StatusOK},
			{"POST", "", "/api/v1/orders", http.StatusCreated},
			{"PUT", "/:id", "/api/v1/orders/123", http.StatusOK},
			{"PATCH", "/:id", "/api/v1/orders/123", http.StatusOK},
			{"DELETE", "/:id", "/api/v1/orders/123", http.StatusNoContent},
		}

		for _, tt := range tests {
			t.Run(tt.method, func(t *testing.T) {
				engine := gin.New()
				g := NewDomainGroup("orders", "/orders")

				h := textHandler(tt.wantStatus, "")
				switch tt.method {
				case "GET":
					g.GET(tt.path, h)
				case "POST":
					g.POST(tt.path, h)
				case "PUT":
					g.PUT(tt.path, h)
				case "PATCH":
					g.PATCH(tt.path, h)
				case "DELETE":
					g.DELETE(tt.path, h)
				}

				g.RegisterRoutes(engine.Group("/api/v1"))

				w := hit(engine, tt.method, tt.target)
				assert.Equal(t, tt.wantStatus, w.Code)
			})
		}
	})

	t.Run("applies group middleware", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("orders", "/orders")

		g.Use(func(c *gin.Context) {
			c.Header("X-Test-Middleware", "applied")
			c.Next()
		})
		g.GET("", textHandler(http.StatusOK, "ok"))

		g.RegisterRoutes(engine.Group("/api/v1"))

		w := hit(engine, "GET", "/api/v1/orders")
		assert.Equal(t, "applied", w.Header().Get("X-Test-Middleware"))
	})

	t.Run("nests subgroups under the parent prefix", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("billing", "/billing")

		g.Group("receipts", "/receipts").
			GET("", textHandler(http.StatusOK, "receipts list"))
		g.Group("disbursements", "/disbursements").
			GET("", textHandler(http.StatusOK, "disbursements list"))

		g.RegisterRoutes(engine.Group("/api/v1"))

		w := hit(engine, "GET", "/api/v1/billing/receipts")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "receipts list", w.Body.String())

		w = hit(engine, "GET", "/api/v1/billing/disbursements")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "disbursements list", w.Body.String())
	})
}

func TestMultipleDomainGroups(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	tours := NewDomainGroup("tours", "/tours")
	tours.GET("", textHandler(http.StatusOK, "tours"))

	orders := NewDomainGroup("orders", "/orders")
	orders.GET("", textHandler(http.StatusOK, "orders"))

	r.Register(tours).Register(orders)
	r.Setup()

	w := hit(engine, "GET", "/api/v1/tours")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "tours", w.Body.String())

	w = hit(engine, "GET", "/api/v1/orders")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "orders", w.Body.String())
}

func TestChainedMethodCalls(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	g := NewDomainGroup("tours", "/tours")
	g.GET("/a", textHandler(http.StatusOK, "a")).
		POST("/b", textHandler(http.StatusOK, "b")).
		PUT("/c", textHandler(http.StatusOK, "c"))

	r.Register(g).Setup()

	for _, tt := range []struct{ method, path string }{
		{"GET", "/api/v1/tours/a"},
		{"POST", "/api/v1/tours/b"},
		{"PUT", "/api/v1/tours/c"},
	} {
		w := hit(engine, tt.method, tt.path)
		assert.Equal(t, http.StatusOK, w.Code, "%s %s should be routed", tt.method, tt.path)
	}
}
