package application

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/greenpc/marketplace/internal/domain/entity"
	repo "github.com/greenpc/marketplace/internal/domain/repository"
	"github.com/greenpc/marketplace/pkg/helpers"
	"github.com/greenpc/marketplace/pkg/payment"
)

// CheckoutService coordinates orders, payment intents, and settlement. It is
// the only writer of order records and the only caller of the settler.
type CheckoutService struct {
	Orders   repo.OrderRepository
	Products repo.ProductRepository
	Settler  repo.Settler
	Gateway  payment.Gateway
	Logger   *logrus.Logger

	Currency string

	// Events is optional; settlement events are published best-effort and a
	// publish failure never fails the settlement.
	Events *helpers.RabbitPublisher
}

func NewCheckoutService(orders repo.OrderRepository, products repo.ProductRepository, settler repo.Settler, gateway payment.Gateway, logger *logrus.Logger) *CheckoutService {
	return &CheckoutService{
		Orders:   orders,
		Products: products,
		Settler:  settler,
		Gateway:  gateway,
		Logger:   logger,
		Currency: "usd",
	}
}

type PlaceOrderInput struct {
	ProductID string
	Price     float64
}

// PlaceOrder inserts a new unpaid order for the buyer. The product must exist
// at creation time; the seller email is denormalized from it. The product is
// not reserved here. Concurrent orders against one product are resolved at
// finalize time, where exactly one settles.
func (s *CheckoutService) PlaceOrder(ctx context.Context, buyerEmail string, in PlaceOrderInput) (*entity.Order, error) {
	p, err := s.Products.GetByID(ctx, in.ProductID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	o := &entity.Order{
		BuyerEmail:  buyerEmail,
		SellerEmail: p.SellerEmail,
		ProductID:   p.ID,
		Price:       in.Price,
	}
	if err := s.Orders.Create(ctx, o); err != nil {
		return nil, err
	}
	s.Logger.WithFields(logrus.Fields{"order_id": o.ID, "product_id": p.ID, "buyer": buyerEmail}).Info("order placed")
	return o, nil
}

// OrdersByBuyer enforces the ownership check between the path email and the
// verified token email before listing.
func (s *CheckoutService) OrdersByBuyer(ctx context.Context, tokenEmail, buyerEmail string) ([]entity.Order, error) {
	if tokenEmail != buyerEmail {
		return nil, ErrForbidden
	}
	return s.Orders.ListByBuyer(ctx, buyerEmail)
}

// BuyersOfSeller lists the orders placed against a seller's products.
func (s *CheckoutService) BuyersOfSeller(ctx context.Context, sellerEmail string) ([]entity.Order, error) {
	return s.Orders.ListBySeller(ctx, sellerEmail)
}

func (s *CheckoutService) GetOrder(ctx context.Context, id string) (*entity.Order, error) {
	o, err := s.Orders.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return o, nil
}

// AmountMinorUnits converts a price to integer minor units (cents for usd).
func AmountMinorUnits(price float64) int64 {
	return int64(math.Round(price * 100))
}

// CreatePaymentIntent delegates to the gateway and returns its client secret
// verbatim. Gateway failures surface as ErrPaymentGateway, never swallowed,
// and no partial state is created.
func (s *CheckoutService) CreatePaymentIntent(ctx context.Context, price float64) (string, error) {
	if s.Gateway == nil {
		return "", fmt.Errorf("%w: gateway not configured", ErrPaymentGateway)
	}
	secret, err := s.Gateway.CreateIntent(ctx, AmountMinorUnits(price), s.Currency)
	if err != nil {
		s.Logger.WithError(err).Error("payment intent creation failed")
		return "", fmt.Errorf("%w: %v", ErrPaymentGateway, err)
	}
	return secret, nil
}

// SettlementEvent is the message published to the settlement queue after a
// successful finalize, consumed by the audit worker.
type SettlementEvent struct {
	OrderID    string    `json:"order_id"`
	ProductID  string    `json:"product_id"`
	BuyerEmail string    `json:"buyer_email"`
	SettledAt  time.Time `json:"settled_at"`
}

// Finalize marks the order paid and the product sold as one transactional
// unit. It is idempotent: a repeat call for an already-settled pair returns
// ErrAlreadySettled with both sub-results false, and a concurrent duplicate
// loses the race inside the settler. Both sub-results are always reported so
// callers can reconcile.
func (s *CheckoutService) Finalize(ctx context.Context, buyerEmail, orderID, productID string) (entity.SettlementResult, error) {
	res, err := s.Settler.Finalize(ctx, orderID, productID)
	if err != nil {
		switch {
		case errors.Is(err, repo.ErrAlreadySettled):
			return res, ErrAlreadySettled
		case errors.Is(err, repo.ErrNotFound):
			return res, ErrNotFound
		}
		return res, err
	}

	s.Logger.WithFields(logrus.Fields{"order_id": orderID, "product_id": productID}).Info("settlement finalized")

	if s.Events != nil {
		ev := SettlementEvent{
			OrderID:    orderID,
			ProductID:  productID,
			BuyerEmail: buyerEmail,
			SettledAt:  time.Now().UTC(),
		}
		if pErr := s.Events.PublishJSON(ctx, ev); pErr != nil {
			s.Logger.WithError(pErr).WithField("order_id", orderID).Warn("settlement event publish failed")
		}
	}
	return res, nil
}
