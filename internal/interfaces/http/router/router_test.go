package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type testRegistrar struct {
	path string
}

func (r *testRegistrar) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET(r.path, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
}

func TestRouter_Setup(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("should register routes under default v1 prefix", func(t *testing.T) {
		engine := gin.New()
		r := NewRouter(engine, "")
		r.Register(&testRegistrar{path: "/ping"})
		r.Setup()

		req, _ := http.NewRequest(http.MethodGet, "/api/v1/ping", nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("should honor custom API version", func(t *testing.T) {
		engine := gin.New()
		r := NewRouter(engine, "v2")
		r.Register(&testRegistrar{path: "/ping"})
		r.Setup()

		req, _ := http.NewRequest(http.MethodGet, "/api/v2/ping", nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		req, _ = http.NewRequest(http.MethodGet, "/api/v1/ping", nil)
		w = httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("should register multiple registrars", func(t *testing.T) {
		engine := gin.New()
		r := NewRouter(engine, "")
		r.Register(&testRegistrar{path: "/a"}).Register(&testRegistrar{path: "/b"})
		r.Setup()

		for _, path := range []string{"/api/v1/a", "/api/v1/b"} {
			req, _ := http.NewRequest(http.MethodGet, path, nil)
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, req)
			assert.Equal(t, http.StatusOK, w.Code)
		}
	})
}
