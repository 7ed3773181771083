package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kawuz/kawuz-backend/internal/app/service"
	"github.com/kawuz/kawuz-backend/internal/app/viewmodel"
	httperrors "github.com/kawuz/kawuz-backend/internal/errors"
	"github.com/kawuz/kawuz-backend/internal/middleware"
)

type OrderController struct {
	orderService service.OrderService
}

func NewOrderController(orderService service.OrderService) *OrderController {
	return &OrderController{
		orderService: orderService,
	}
}

type CreateOrderRequest struct {
	Items []viewmodel.CheckoutItem `json:"items" binding:"required,dive"`
}

// CreateOrder places an order from the submitted checkout items
// POST /api/v1/orders
func (ctrl *OrderController) CreateOrder(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperrors.Unauthorized(c, "")
		return
	}

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid order request", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		httperrors.BadRequest(c, httperrors.ValidationInvalidInput, "Nieprawidłowe dane zamówienia")
		return
	}

	order, err := ctrl.orderService.PlaceOrder(userID, req.Items)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyCart):
			httperrors.BadRequest(c, httperrors.OrderEmptyCart, "Koszyk jest pusty")
		case errors.Is(err, service.ErrNotEnoughStock):
			httperrors.Conflict(c, httperrors.OrderNotEnoughStock, "Brak wystarczającej ilości produktu na stanie")
		case errors.Is(err, service.ErrProductNotFound):
			httperrors.BadRequest(c, httperrors.ProductNotFound, "Zamówienie zawiera produkt, który nie jest już dostępny")
		default:
			log.Error("Failed to place order", err, map[string]interface{}{
				"user_id": userID,
			})
			info := httperrors.ParseError(err, "checkout")
			httperrors.RespondWithError(c, http.StatusInternalServerError, info.Code, info.Message)
		}
		return
	}

	log.Info("Order placed successfully", map[string]interface{}{
		"order_id": order.ID,
		"user_id":  userID,
	})

	c.JSON(http.StatusCreated, gin.H{
		"order": order,
	})
}

// GetMyOrders returns the authenticated user's order history
// GET /api/v1/orders
func (ctrl *OrderController) GetMyOrders(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperrors.Unauthorized(c, "")
		return
	}

	orders, err := ctrl.orderService.GetUserOrders(userID)
	if err != nil {
		log.Error("Failed to fetch orders", err, map[string]interface{}{
			"user_id": userID,
		})
		httperrors.InternalError(c, "Nie udało się pobrać zamówień")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"count":  len(orders),
	})
}

// GetOrderByID returns one order; users see their own, admins see all
// GET /api/v1/orders/:id
func (ctrl *OrderController) GetOrderByID(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperrors.Unauthorized(c, "")
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	order, err := ctrl.orderService.GetOrderByID(id, userID, middleware.IsAdmin(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			httperrors.NotFound(c, httperrors.OrderNotFound, "Zamówienie nie zostało znalezione")
		case errors.Is(err, service.ErrOrderForbidden):
			httperrors.Forbidden(c, "Brak dostępu do tego zamówienia")
		default:
			log.Error("Failed to fetch order", err, map[string]interface{}{
				"order_id": id,
				"user_id":  userID,
			})
			httperrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order": order,
	})
}
