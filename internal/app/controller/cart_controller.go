package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kawuz/kawuz-backend/internal/app/service"
	httperrors "github.com/kawuz/kawuz-backend/internal/errors"
	"github.com/kawuz/kawuz-backend/internal/middleware"
)

type CartController struct {
	cartService service.CartService
}

func NewCartController(cartService service.CartService) *CartController {
	return &CartController{
		cartService: cartService,
	}
}

// QuoteCartRequest is the flat cart the client holds: one id per unit, in the
// order the shopper added them.
type QuoteCartRequest struct {
	ProductIDs []uint `json:"product_ids" binding:"required"`
}

// QuoteCart prices the client-held cart against the live catalog
// POST /api/v1/cart/quote
func (ctrl *CartController) QuoteCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req QuoteCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid cart quote request", map[string]interface{}{
			"error": err.Error(),
		})
		httperrors.BadRequest(c, httperrors.ValidationInvalidInput, "Nieprawidłowe dane koszyka")
		return
	}

	quote, err := ctrl.cartService.Quote(req.ProductIDs)
	if err != nil {
		if errors.Is(err, service.ErrUnknownCartProduct) {
			log.Warn("Cart quote rejected", map[string]interface{}{
				"entries": len(req.ProductIDs),
			})
			httperrors.BadRequest(c, httperrors.ProductNotFound, "Koszyk zawiera produkt, który nie jest już dostępny")
			return
		}
		log.Error("Failed to quote cart", err, nil)
		httperrors.InternalError(c, "Nie udało się przeliczyć koszyka")
		return
	}

	log.Info("Cart quoted successfully", map[string]interface{}{
		"lines": len(quote.Items),
		"total": quote.TotalText,
	})

	c.JSON(http.StatusOK, gin.H{
		"cart": quote,
	})
}
