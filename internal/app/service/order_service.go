package service

import (
	"errors"
	"fmt"

	"github.com/kawuz/kawuz-backend/internal/app/model"
	"github.com/kawuz/kawuz-backend/internal/app/repository"
	"github.com/kawuz/kawuz-backend/internal/app/viewmodel"
	"github.com/kawuz/kawuz-backend/pkg/logger"
	"github.com/kawuz/kawuz-backend/pkg/mailer"
	"gorm.io/gorm"
)

var (
	ErrEmptyCart      = errors.New("cart is empty")
	ErrNotEnoughStock = errors.New("not enough stock")
	ErrOrderNotFound  = errors.New("order not found")
	ErrOrderForbidden = errors.New("order belongs to another user")
)

type OrderService interface {
	PlaceOrder(userID uint, items []viewmodel.CheckoutItem) (*model.Order, error)
	GetUserOrders(userID uint) ([]model.Order, error)
	GetOrderByID(orderID, userID uint, isAdmin bool) (*model.Order, error)
}

type orderService struct {
	db          *gorm.DB
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
	mail        *mailer.Mailer
}

func NewOrderService(
	db *gorm.DB,
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
	mail *mailer.Mailer,
) OrderService {
	return &orderService{
		db:          db,
		orderRepo:   orderRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
		mail:        mail,
	}
}

// PlaceOrder turns a checkout payload into a confirmed order. Everything runs
// in one transaction: prices are re-read from the live catalog, every line is
// validated against stock before anything is decremented, and a single failed
// line rolls the whole order back.
func (s *orderService) PlaceOrder(userID uint, items []viewmodel.CheckoutItem) (*model.Order, error) {
	logger.Info("Placing order", map[string]interface{}{
		"user_id": userID,
		"lines":   len(items),
	})

	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	// Validate all lines before touching stock
	var total viewmodel.Amount
	orderItems := make([]model.OrderItem, 0, len(items))
	for _, item := range items {
		var product model.Product
		if err := tx.First(&product, item.ProductID).Error; err != nil {
			tx.Rollback()
			if errors.Is(err, gorm.ErrRecordNotFound) {
				logger.Warn("Order rejected: product not found", map[string]interface{}{
					"user_id":    userID,
					"product_id": item.ProductID,
				})
				return nil, ErrProductNotFound
			}
			return nil, err
		}

		if product.StockQuantity < item.Quantity {
			tx.Rollback()
			logger.Warn("Order rejected: not enough stock", map[string]interface{}{
				"user_id":    userID,
				"product_id": product.ID,
				"requested":  item.Quantity,
				"available":  product.StockQuantity,
			})
			return nil, fmt.Errorf("%w: %s", ErrNotEnoughStock, product.Name)
		}

		total += viewmodel.AmountFromPrice(product.Price) * viewmodel.Amount(item.Quantity)
		orderItems = append(orderItems, model.OrderItem{
			ProductID: product.ID,
			Quantity:  item.Quantity,
			Price:     product.Price,
		})
	}

	// Decrement stock and bump sales
	for _, item := range items {
		if err := s.productRepo.UpdateStockAndSales(tx, item.ProductID, item.Quantity); err != nil {
			tx.Rollback()
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNotEnoughStock
			}
			return nil, err
		}
	}

	order := &model.Order{
		UserID:     userID,
		TotalPrice: total.Zloty(),
		Status:     model.OrderStatusConfirmed,
		OrderItems: orderItems,
	}
	if err := s.orderRepo.CreateTx(tx, order); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		logger.Error("Failed to commit order transaction", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Info("Order placed successfully", map[string]interface{}{
		"order_id":    order.ID,
		"user_id":     userID,
		"total_price": order.TotalPrice,
	})

	// Confirmation mail is best effort: the order stands even if it fails
	s.sendConfirmationMail(userID, order, total)

	return order, nil
}

func (s *orderService) sendConfirmationMail(userID uint, order *model.Order, total viewmodel.Amount) {
	if s.mail == nil {
		return
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		logger.Warn("Order confirmation mail skipped: user lookup failed", map[string]interface{}{
			"order_id": order.ID,
			"user_id":  userID,
		})
		return
	}

	body := fmt.Sprintf(
		"Cześć %s,\n\nDziękujemy za zamówienie nr %d.\n\nŁączna kwota: %s zł\n\nPozdrawiamy,\nZespół KawUZ",
		user.Name, order.ID, total.String(),
	)
	if err := s.mail.Send(user.Email, fmt.Sprintf("Potwierdzenie zamówienia nr %d", order.ID), body); err != nil {
		logger.Warn("Order confirmation mail failed", map[string]interface{}{
			"order_id": order.ID,
			"error":    err.Error(),
		})
	}
}

func (s *orderService) GetUserOrders(userID uint) ([]model.Order, error) {
	return s.orderRepo.FindByUserID(userID)
}

func (s *orderService) GetOrderByID(orderID, userID uint, isAdmin bool) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	if !isAdmin && order.UserID != userID {
		logger.Warn("Order access denied", map[string]interface{}{
			"order_id": orderID,
			"user_id":  userID,
			"owner_id": order.UserID,
		})
		return nil, ErrOrderForbidden
	}
	return order, nil
}
