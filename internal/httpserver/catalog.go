package httpserver

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"jewelstore/internal/domain"
	productrepo "jewelstore/internal/repository/product"
)

func listProductsHandler(catalog CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter, err := filterFromQuery(c)
		if err != nil {
			writeError(c, err)
			return
		}
		page, err := catalog.ListProducts(c.Request.Context(), filter)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, page)
	}
}

func filterFromQuery(c *gin.Context) (productrepo.Filter, error) {
	f := productrepo.Filter{
		CategorySlug:    c.Query("category"),
		ProductTypeSlug: c.Query("type"),
		Search:          c.Query("q"),
	}
	if v := c.Query("minPrice"); v != "" {
		cents, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return f, errInvalidQuery("minPrice")
		}
		f.MinPriceCents = &cents
	}
	if v := c.Query("maxPrice"); v != "" {
		cents, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return f, errInvalidQuery("maxPrice")
		}
		f.MaxPriceCents = &cents
	}
	if v := c.Query("inStock"); v != "" {
		inStock, err := strconv.ParseBool(v)
		if err != nil {
			return f, errInvalidQuery("inStock")
		}
		f.InStockOnly = inStock
	}
	if v := c.Query("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			return f, errInvalidQuery("limit")
		}
		f.Limit = limit
	}
	if v := c.Query("offset"); v != "" {
		offset, err := strconv.Atoi(v)
		if err != nil {
			return f, errInvalidQuery("offset")
		}
		f.Offset = offset
	}
	return f, nil
}

func errInvalidQuery(param string) error {
	return domain.Invalid(param, "invalid query value")
}

func getProductHandler(catalog CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		product, err := catalog.GetProduct(c.Request.Context(), c.Param("idOrSlug"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

func categoriesHandler(catalog CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		categories, err := catalog.Categories(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"categories": categories})
	}
}

func productTypesHandler(catalog CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		types, err := catalog.ProductTypes(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"productTypes": types})
	}
}

func filterMetaHandler(catalog CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		meta, err := catalog.FilterMeta(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, meta)
	}
}
