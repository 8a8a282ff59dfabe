package httpapi

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apporder "github.com/avril-io/storefront-api/internal/application/order"
	domorder "github.com/avril-io/storefront-api/internal/domain/order"
)

type orderItemReq struct {
	Name     *string `json:"name"`
	Quantity *int    `json:"quantity"`
}

type createOrderReq struct {
	Name     *string        `json:"name"`
	Address  *string        `json:"address"`
	Products []orderItemReq `json:"products"`
}

type orderItemResponse struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

type orderResponse struct {
	CustomerName    string              `json:"customer_name"`
	CustomerAddress string              `json:"customer_address"`
	Completed       bool                `json:"completed"`
	Products        []orderItemResponse `json:"products"`
}

type processOrderReq struct {
	Process *string `json:"process"`
}

func toOrderResponse(o *domorder.Order) orderResponse {
	items := make([]orderItemResponse, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, orderItemResponse{Name: item.ProductName, Quantity: item.Quantity})
	}
	return orderResponse{
		CustomerName:    o.CustomerName,
		CustomerAddress: o.CustomerAddress,
		Completed:       o.Completed,
		Products:        items,
	}
}

func (h *Handler) CreateOrder(c *gin.Context) {
	var req createOrderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "the JSON provided is invalid"})
		return
	}
	switch {
	case req.Name == nil:
		missingKey(c, "name")
		return
	case req.Address == nil:
		missingKey(c, "address")
		return
	case req.Products == nil:
		missingKey(c, "products")
		return
	}

	items := make([]apporder.ItemInput, 0, len(req.Products))
	for _, item := range req.Products {
		if item.Name == nil {
			missingKey(c, "products.name")
			return
		}
		if item.Quantity == nil {
			missingKey(c, "products.quantity")
			return
		}
		items = append(items, apporder.ItemInput{Name: *item.Name, Quantity: *item.Quantity})
	}

	result, err := h.orders.CreateOrder(c.Request.Context(), apporder.CreateOrderInput{
		CustomerName:    *req.Name,
		CustomerAddress: *req.Address,
		IdempotencyKey:  c.GetHeader("X-Idempotency-Key"),
		Items:           items,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	status := http.StatusCreated
	if result.Replay {
		status = http.StatusOK
	}
	c.JSON(status, gin.H{
		"message":  "order added",
		"order_id": result.OrderID,
	})
}

func (h *Handler) GetOrder(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("invalid order id: %s", c.Param("id")),
		})
		return
	}

	ord, err := h.orders.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(ord))
}

func (h *Handler) ProcessOrder(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("invalid order id: %s", c.Param("id")),
		})
		return
	}

	var req processOrderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "the JSON provided is invalid"})
		return
	}
	if req.Process == nil {
		missingKey(c, "process")
		return
	}

	result, err := h.process.Execute(c.Request.Context(), id, *req.Process)
	if err != nil {
		writeError(c, err)
		return
	}

	if result.AlreadyProcessed {
		c.JSON(http.StatusOK, gin.H{
			"message":  fmt.Sprintf("order %d has already been processed", id),
			"order_id": id,
			"status":   "already_processed",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":  fmt.Sprintf("order %d has been processed", id),
		"order_id": id,
		"status":   "processed",
	})
}
