package service

import (
	"errors"

	"github.com/kawuz/kawuz-backend/internal/app/repository"
	"github.com/kawuz/kawuz-backend/internal/app/viewmodel"
	"github.com/kawuz/kawuz-backend/pkg/logger"
)

var ErrUnknownCartProduct = errors.New("cart references an unknown product")

// CartQuote is the server-priced cart view: grouped line items, the grand
// total in both formats, and the payload the client submits at checkout.
type CartQuote struct {
	Items         []viewmodel.LineItem     `json:"items"`
	Total         float64                  `json:"total"`
	TotalText     string                   `json:"total_text"`
	CheckoutItems []viewmodel.CheckoutItem `json:"checkout_items"`
}

// CartService prices a client-held cart against the live catalog. The cart
// itself never persists server-side; the client sends its flat id sequence
// and gets the grouped, freshly priced view back.
type CartService interface {
	Quote(productIDs []uint) (*CartQuote, error)
}

type cartService struct {
	productRepo repository.ProductRepository
}

func NewCartService(productRepo repository.ProductRepository) CartService {
	return &cartService{productRepo: productRepo}
}

func (s *cartService) Quote(productIDs []uint) (*CartQuote, error) {
	logger.Debug("Quoting cart", map[string]interface{}{
		"entries": len(productIDs),
	})

	if len(productIDs) == 0 {
		return &CartQuote{
			Items:         []viewmodel.LineItem{},
			Total:         0,
			TotalText:     viewmodel.Amount(0).String(),
			CheckoutItems: []viewmodel.CheckoutItem{},
		}, nil
	}

	catalog, err := s.productRepo.FindAll()
	if err != nil {
		return nil, err
	}

	byID := make(map[uint]int, len(catalog))
	for i, p := range catalog {
		byID[p.ID] = i
	}

	// Rebuild the flat cart from current catalog data. An id the catalog no
	// longer has is an error here: unlike a client-side snapshot there is
	// nothing stale to fall back on.
	cart := make(viewmodel.Cart, 0, len(productIDs))
	for _, id := range productIDs {
		i, ok := byID[id]
		if !ok {
			logger.Warn("Cart quote rejected: unknown product", map[string]interface{}{
				"product_id": id,
			})
			return nil, ErrUnknownCartProduct
		}
		cart = cart.AddOne(catalog[i])
	}

	total := cart.Total()
	quote := &CartQuote{
		Items:         cart.Group(),
		Total:         total.Zloty(),
		TotalText:     total.String(),
		CheckoutItems: cart.CheckoutItems(),
	}

	logger.Debug("Cart quoted", map[string]interface{}{
		"lines": len(quote.Items),
		"total": quote.TotalText,
	})
	return quote, nil
}
