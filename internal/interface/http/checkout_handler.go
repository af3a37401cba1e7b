package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/greenpc/marketplace/internal/application"
	"github.com/greenpc/marketplace/internal/interface/middleware"
	"github.com/greenpc/marketplace/pkg/response"
	"github.com/greenpc/marketplace/pkg/validation"
)

type CheckoutHandler struct {
	Svc    *application.CheckoutService
	Logger *logrus.Logger
}

func NewCheckoutHandler(svc *application.CheckoutService, logger *logrus.Logger) *CheckoutHandler {
	return &CheckoutHandler{Svc: svc, Logger: logger}
}

type placeOrderRequest struct {
	ProductID string  `json:"product_id" binding:"required,uuid"`
	Price     float64 `json:"price" binding:"required,gt=0"`
}

type paymentIntentRequest struct {
	Price float64 `json:"price" binding:"required,gt=0"`
}

type finalizeRequest struct {
	OrderID   string `json:"order_id" binding:"required,uuid"`
	ProductID string `json:"product_id" binding:"required,uuid"`
}

func (h *CheckoutHandler) PlaceOrder(c *gin.Context) {
	var req placeOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	o, err := h.Svc.PlaceOrder(c.Request.Context(), c.GetString(middleware.CtxUserEmailKey), application.PlaceOrderInput{
		ProductID: req.ProductID,
		Price:     req.Price,
	})
	if err != nil {
		if errors.Is(err, application.ErrNotFound) {
			response.Error[any](c, http.StatusNotFound, "product not found", nil)
			return
		}
		response.Error[any](c, http.StatusInternalServerError, "failed to place order", nil)
		return
	}
	response.Success(c, http.StatusCreated, o, "order placed", nil)
}

func (h *CheckoutHandler) OrdersByBuyer(c *gin.Context) {
	orders, err := h.Svc.OrdersByBuyer(c.Request.Context(), c.GetString(middleware.CtxUserEmailKey), c.Param("email"))
	if err != nil {
		if errors.Is(err, application.ErrForbidden) {
			response.Error[any](c, http.StatusForbidden, "forbidden access", nil)
			return
		}
		response.Error[any](c, http.StatusInternalServerError, "failed to list orders", nil)
		return
	}
	response.Success(c, http.StatusOK, orders, "orders", nil)
}

func (h *CheckoutHandler) BuyersOfSeller(c *gin.Context) {
	orders, err := h.Svc.BuyersOfSeller(c.Request.Context(), c.Param("email"))
	if err != nil {
		response.Error[any](c, http.StatusInternalServerError, "failed to list buyers", nil)
		return
	}
	response.Success(c, http.StatusOK, orders, "buyers", nil)
}

func (h *CheckoutHandler) GetOrder(c *gin.Context) {
	o, err := h.Svc.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error[any](c, http.StatusNotFound, "order not found", nil)
		return
	}
	response.Success(c, http.StatusOK, o, "order", nil)
}

func (h *CheckoutHandler) CreatePaymentIntent(c *gin.Context) {
	var req paymentIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	secret, err := h.Svc.CreatePaymentIntent(c.Request.Context(), req.Price)
	if err != nil {
		response.Error[any](c, http.StatusBadGateway, "payment gateway failure", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"client_secret": secret}, "payment intent created", nil)
}

func (h *CheckoutHandler) Finalize(c *gin.Context) {
	var req finalizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	res, err := h.Svc.Finalize(c.Request.Context(), c.GetString(middleware.CtxUserEmailKey), req.OrderID, req.ProductID)
	if err != nil {
		switch {
		case errors.Is(err, application.ErrAlreadySettled):
			// Both sub-results are reported even for the no-op so clients can
			// reconcile a retried finalize.
			response.Error[any](c, http.StatusConflict, "settlement already applied", res)
		case errors.Is(err, application.ErrNotFound):
			response.Error[any](c, http.StatusNotFound, "order or product not found", res)
		default:
			response.Error[any](c, http.StatusInternalServerError, "settlement failed", res)
		}
		return
	}
	response.Success(c, http.StatusOK, res, "settlement finalized", nil)
}
