package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"jewelstore/internal/domain"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func loginHandler(authSvc AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid request body")
			return
		}
		token, err := authSvc.Login(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"token":     token,
			"expiresIn": authSvc.SessionTTLSeconds(),
		})
	}
}

func logoutHandler(authSvc AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if token, ok := cutBearer(header); ok {
			authSvc.Logout(c.Request.Context(), token)
		}
		c.Status(http.StatusNoContent)
	}
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// registerHandler lets a logged-in admin create another admin account.
func registerHandler(authSvc AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req registerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid request body")
			return
		}
		user, err := authSvc.Register(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, user)
	}
}

func upsertProductHandler(catalog CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var p domain.Product
		if err := c.ShouldBindJSON(&p); err != nil {
			badRequest(c, "invalid request body")
			return
		}
		saved, err := catalog.UpsertProduct(c.Request.Context(), p)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, saved)
	}
}

func deleteProductHandler(catalog CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := catalog.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
			writeError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func upsertCategoryHandler(catalog CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var cat domain.Category
		if err := c.ShouldBindJSON(&cat); err != nil {
			badRequest(c, "invalid request body")
			return
		}
		saved, err := catalog.UpsertCategory(c.Request.Context(), cat)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, saved)
	}
}

func deleteCategoryHandler(catalog CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := catalog.DeleteCategory(c.Request.Context(), c.Param("id")); err != nil {
			writeError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func upsertProductTypeHandler(catalog CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var t domain.ProductType
		if err := c.ShouldBindJSON(&t); err != nil {
			badRequest(c, "invalid request body")
			return
		}
		saved, err := catalog.UpsertProductType(c.Request.Context(), t)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, saved)
	}
}

func deleteProductTypeHandler(catalog CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := catalog.DeleteProductType(c.Request.Context(), c.Param("id")); err != nil {
			writeError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
