package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ghostlabs/asap-onramp/src/logger"
	"github.com/ghostlabs/asap-onramp/src/onramp/domain"
)

// Handler binds usecase + logger
type Handler struct {
	service domain.OnrampUsecase
	logger  *logger.Logger
}

func NewHandler(s domain.OnrampUsecase, l *logger.Logger) *Handler {
	return &Handler{service: s, logger: l}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.POST("/api/orders", h.CreateOrder)
	r.GET("/api/orders/:id", h.GetOrderByID)
	r.POST("/api/orders/:id/verify-payment", h.VerifyPayment)
	r.GET("/api/validate/:service/:username", h.ValidateRecipient)
}

// CreateOrder godoc
//
//	@Summary		Create an onramp order
//	@Description	Validates the request, re-checks admin liquidity and submits the order upstream
//	@Tags			orders
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CreateOrderRequestBody	true	"Request body"
//	@Success		200	{object}	OrderResponse
//	@Failure		400	{object}	object{error=string}
//	@Failure		422	{object}	object{error=string}
//	@Failure		502	{object}	object{error=string}
//	@Router			/api/orders [post]
func (h *Handler) CreateOrder(c *gin.Context) {
	ctx := c.Request.Context()

	var req CreateOrderRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Errorf("CreateOrder bind err: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	orderReq, err := req.ToOrderRequest()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid amount"})
		return
	}

	order, err := h.service.CreateOrder(ctx, orderReq)
	if err != nil {
		h.writeCreateError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromOrderDomain(order))
}

func (h *Handler) writeCreateError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInsufficientLiquidity):
		// distinct from a generic failure: retrying cannot help here
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "unable to create order, contact support"})
	case errors.Is(err, domain.ErrUnknownService),
		errors.Is(err, domain.ErrMissingRecipient),
		errors.Is(err, domain.ErrAmountOutOfRange),
		errors.Is(err, domain.ErrInvalidEmail):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.logger.Errorf("CreateOrder err: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to create order"})
	}
}

// GetOrderByID godoc
//
//	@Summary		Get order by id
//	@Description	Returns the stored order, refreshed from the backend while not terminal
//	@Tags			orders
//	@Produce		json
//	@Param			id	path		int	true	"Order id"
//	@Success		200	{object}	OrderResponse
//	@Failure		404	{object}	object{error=string}
//	@Failure		500	{object}	object{error=string}
//	@Router			/api/orders/{id} [get]
func (h *Handler) GetOrderByID(c *gin.Context) {
	ctx := c.Request.Context()

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	order, err := h.service.GetOrder(ctx, uint(id))
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		h.logger.Errorf("GetOrderByID err: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, fromOrderDomain(order))
}

// VerifyPayment godoc
//
//	@Summary		Manually verify an order's payment
//	@Tags			orders
//	@Produce		json
//	@Param			id	path		int	true	"Order id"
//	@Success		200	{object}	OrderResponse
//	@Failure		404	{object}	object{error=string}
//	@Failure		502	{object}	object{error=string}
//	@Router			/api/orders/{id}/verify-payment [post]
func (h *Handler) VerifyPayment(c *gin.Context) {
	ctx := c.Request.Context()

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	order, err := h.service.VerifyPayment(ctx, uint(id))
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		h.logger.Errorf("VerifyPayment err: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "verification failed"})
		return
	}
	c.JSON(http.StatusOK, fromOrderDomain(order))
}

// ValidateRecipient godoc
//
//	@Summary		Validate a recipient handle or address
//	@Description	Debounced per client: rapid re-entry supersedes the pending check
//	@Tags			validate
//	@Produce		json
//	@Param			service		path		string	true	"Service type"
//	@Param			username	path		string	true	"Handle or wallet address"
//	@Success		200	{object}	ValidateResponse
//	@Failure		409	{object}	object{error=string}
//	@Router			/api/validate/{service}/{username} [get]
func (h *Handler) ValidateRecipient(c *gin.Context) {
	ctx := c.Request.Context()

	service := domain.ServiceType(c.Param("service"))
	username := c.Param("username")

	// one debounce key per client and field, so different users never
	// supersede each other
	key := c.GetHeader("X-Client-ID")
	if key == "" {
		key = c.ClientIP()
	}
	key += ":" + string(service)

	check, err := h.service.ValidateRecipient(ctx, key, service, username)
	if err != nil {
		if errors.Is(err, domain.ErrSuperseded) {
			c.JSON(http.StatusConflict, gin.H{"error": "superseded by newer input"})
			return
		}
		if errors.Is(err, domain.ErrUnknownService) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown service type"})
			return
		}
		h.logger.Errorf("ValidateRecipient err: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, ValidateResponse{IsValid: check.IsValid, Address: check.Address})
}
