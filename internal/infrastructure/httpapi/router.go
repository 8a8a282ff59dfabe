// Package httpapi exposes the service over HTTP.
package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	appcatalog "github.com/avril-io/storefront-api/internal/application/catalog"
	apporder "github.com/avril-io/storefront-api/internal/application/order"
	domcatalog "github.com/avril-io/storefront-api/internal/domain/catalog"
	domorder "github.com/avril-io/storefront-api/internal/domain/order"
	"github.com/avril-io/storefront-api/internal/pkg/apperrors"
	"github.com/avril-io/storefront-api/internal/pkg/logging"
)

type Handler struct {
	catalog *appcatalog.Service
	orders  *apporder.Service
	process *apporder.ProcessOrderUseCase
}

func NewHandler(catalog *appcatalog.Service, orders *apporder.Service, process *apporder.ProcessOrderUseCase) *Handler {
	return &Handler{
		catalog: catalog,
		orders:  orders,
		process: process,
	}
}

func NewRouter(h *Handler, logger *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), Metrics(), RequestLogger(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		api.GET("/products", h.ListProducts)
		api.POST("/product", h.CreateProduct)
		api.GET("/product/:name", h.GetProduct)
		api.PUT("/product/:name", h.UpdateProduct)
		api.DELETE("/product/:name", h.DeleteProduct)

		api.POST("/order", h.CreateOrder)
		api.GET("/order/:id", h.GetOrder)
		api.PUT("/order/:id", h.ProcessOrder)
	}

	return r
}

// writeError maps application errors onto HTTP statuses.
func writeError(c *gin.Context, err error) {
	var verr *apperrors.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error()})
	case errors.Is(err, domcatalog.ErrNotFound), errors.Is(err, domorder.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, domcatalog.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "already exists"})
	case errors.Is(err, domcatalog.ErrInvalidPrice),
		errors.Is(err, domcatalog.ErrInvalidQuantity),
		errors.Is(err, domcatalog.ErrInvalidName),
		errors.Is(err, domorder.ErrInvalidQuantity),
		errors.Is(err, domorder.ErrInvalidCustomer),
		errors.Is(err, domorder.ErrNoItems):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		logging.FromContext(c.Request.Context()).Error("request_failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
