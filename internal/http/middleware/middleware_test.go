package middleware_test

import (
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"tessera.app/spaced/internal/http/middleware"
)

var _ = Describe("RequireAdminAPIKey", func() {
	newRouter := func(key string) *gin.Engine {
		gin.SetMode(gin.TestMode)
		router := gin.New()
		router.GET("/admin", middleware.RequireAdminAPIKey(key), func(c *gin.Context) {
			c.Status(http.StatusOK)
		})
		return router
	}

	It("returns 503 when no key is configured", func() {
		router := newRouter("")
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)
		Expect(w.Code).To(Equal(http.StatusServiceUnavailable))
	})

	It("rejects a missing or wrong key", func() {
		router := newRouter("secret")

		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		Expect(w.Code).To(Equal(http.StatusUnauthorized))

		req = httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set("X-Admin-API-Key", "wrong")
		w = httptest.NewRecorder()
		router.ServeHTTP(w, req)
		Expect(w.Code).To(Equal(http.StatusUnauthorized))
	})

	It("accepts the key via header or bearer token", func() {
		router := newRouter("secret")

		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set("X-Admin-API-Key", "secret")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		Expect(w.Code).To(Equal(http.StatusOK))

		req = httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set("Authorization", "Bearer secret")
		w = httptest.NewRecorder()
		router.ServeHTTP(w, req)
		Expect(w.Code).To(Equal(http.StatusOK))
	})
})
