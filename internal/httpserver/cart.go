package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"jewelstore/internal/cart"
)

type cartView struct {
	Items      []cart.Line `json:"items"`
	Count      int         `json:"count"`
	TotalCents int64       `json:"totalCents"`
	IsOpen     bool        `json:"isOpen"`
	Degraded   bool        `json:"degraded"`
}

func viewOf(engine *cart.Engine) cartView {
	items := engine.Lines()
	if items == nil {
		items = []cart.Line{}
	}
	return cartView{
		Items:      items,
		Count:      engine.Count(),
		TotalCents: engine.TotalCents(),
		IsOpen:     engine.IsOpen(),
		Degraded:   engine.Degraded(),
	}
}

func cartSessionHandler(sessions CartSessions) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := sessions.Issue(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"token": token})
	}
}

func getCartHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, viewOf(cartFromContext(c)))
	}
}

type addLineRequest struct {
	ProductID string `json:"productId"`
	// pointer so an absent quantity defaults to 1 while an explicit 0 is
	// rejected downstream
	Quantity        *int              `json:"quantity"`
	SelectedOptions map[string]string `json:"selectedOptions"`
	PriceCents      *int64            `json:"priceCents"`
}

func addCartLineHandler(catalog CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req addLineRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid request body")
			return
		}
		qty := 1
		if req.Quantity != nil {
			qty = *req.Quantity
		}

		product, err := catalog.GetProduct(c.Request.Context(), req.ProductID)
		if err != nil {
			writeError(c, err)
			return
		}

		engine := cartFromContext(c)
		line, err := engine.Add(c.Request.Context(), *product, qty, req.SelectedOptions, req.PriceCents)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"line": line, "cart": viewOf(engine)})
	}
}

type updateLineRequest struct {
	Quantity int `json:"quantity"`
}

func updateCartLineHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updateLineRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid request body")
			return
		}

		engine := cartFromContext(c)
		if err := engine.UpdateQuantity(c.Request.Context(), c.Param("lineID"), req.Quantity); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, viewOf(engine))
	}
}

func removeCartLineHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		engine := cartFromContext(c)
		engine.Remove(c.Request.Context(), c.Param("lineID"))
		c.JSON(http.StatusOK, viewOf(engine))
	}
}

func clearCartHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		engine := cartFromContext(c)
		engine.Clear(c.Request.Context())
		c.JSON(http.StatusOK, viewOf(engine))
	}
}

type drawerRequest struct {
	Open bool `json:"open"`
}

func cartDrawerHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req drawerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid request body")
			return
		}
		engine := cartFromContext(c)
		engine.SetOpen(req.Open)
		c.JSON(http.StatusOK, viewOf(engine))
	}
}
