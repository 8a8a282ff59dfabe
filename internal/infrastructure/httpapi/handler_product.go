package httpapi

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	appcatalog "github.com/avril-io/storefront-api/internal/application/catalog"
	domcatalog "github.com/avril-io/storefront-api/internal/domain/catalog"
)

type productResponse struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

func toProductResponse(p *domcatalog.Product) productResponse {
	return productResponse{
		Name:     p.Name,
		Price:    p.Price.InexactFloat64(),
		Quantity: p.Quantity,
	}
}

// Pointer fields distinguish absent keys from zero values, so a missing key
// can be reported by name.
type createProductReq struct {
	Name     *string  `json:"name"`
	Price    *float64 `json:"price"`
	Quantity *int     `json:"quantity"`
}

type updateProductReq struct {
	Price    *float64 `json:"price"`
	Quantity *int     `json:"quantity"`
}

func missingKey(c *gin.Context, key string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error": fmt.Sprintf("the JSON provided is invalid (missing: %s)", key),
	})
}

func (h *Handler) ListProducts(c *gin.Context) {
	products, err := h.catalog.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]productResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p))
	}
	c.JSON(http.StatusOK, gin.H{"products": out})
}

func (h *Handler) GetProduct(c *gin.Context) {
	product, err := h.catalog.Get(c.Request.Context(), c.Param("name"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductResponse(product))
}

func (h *Handler) CreateProduct(c *gin.Context) {
	var req createProductReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "the JSON provided is invalid"})
		return
	}
	switch {
	case req.Name == nil:
		missingKey(c, "name")
		return
	case req.Price == nil:
		missingKey(c, "price")
		return
	case req.Quantity == nil:
		missingKey(c, "quantity")
		return
	}

	product, err := h.catalog.Create(c.Request.Context(), appcatalog.CreateProductInput{
		Name:     *req.Name,
		Price:    decimal.NewFromFloat(*req.Price),
		Quantity: *req.Quantity,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": fmt.Sprintf("product %q added", product.Name),
		"product": toProductResponse(product),
	})
}

func (h *Handler) UpdateProduct(c *gin.Context) {
	var req updateProductReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "the JSON provided is invalid"})
		return
	}
	switch {
	case req.Price == nil:
		missingKey(c, "price")
		return
	case req.Quantity == nil:
		missingKey(c, "quantity")
		return
	}

	product, err := h.catalog.Update(c.Request.Context(), c.Param("name"), appcatalog.UpdateProductInput{
		Price:    decimal.NewFromFloat(*req.Price),
		Quantity: *req.Quantity,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("product %q updated", product.Name),
		"product": toProductResponse(product),
	})
}

func (h *Handler) DeleteProduct(c *gin.Context) {
	name := c.Param("name")
	if err := h.catalog.Delete(c.Request.Context(), name); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("product %q deleted", domcatalog.NormalizeName(name)),
	})
}
