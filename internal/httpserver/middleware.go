package httpserver

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"jewelstore/internal/cart"
)

const (
	cartSessionHeader = "X-Cart-Session"

	ctxKeyCart       = "cartEngine"
	ctxKeyAdminEmail = "adminEmail"
)

// adminAuthMiddleware requires a valid Bearer token on back-office routes.
func adminAuthMiddleware(authSvc AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := cutBearer(c.GetHeader("Authorization"))
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		email, err := authSvc.Validate(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Set(ctxKeyAdminEmail, email)
		c.Next()
	}
}

// cartMiddleware resolves the session token into a cart engine.
func cartMiddleware(sessions CartSessions) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader(cartSessionHeader)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing cart session"})
			return
		}
		engine := sessions.Get(c.Request.Context(), token)
		if engine == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unknown cart session"})
			return
		}
		c.Set(ctxKeyCart, engine)
		c.Next()
	}
}

func cutBearer(header string) (string, bool) {
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return "", false
	}
	return token, true
}

func cartFromContext(c *gin.Context) *cart.Engine {
	v, ok := c.Get(ctxKeyCart)
	if !ok {
		return nil
	}
	engine, _ := v.(*cart.Engine)
	return engine
}
