package application_test

import (
	"context"
	"errors"
	"testing"

	"github.com/greenpc/marketplace/internal/application"
	"github.com/greenpc/marketplace/internal/domain/entity"
)

type stubGateway struct {
	secret string
	err    error

	calls        int
	lastAmount   int64
	lastCurrency string
}

func (g *stubGateway) CreateIntent(_ context.Context, amountMinor int64, currency string) (string, error) {
	g.calls++
	g.lastAmount = amountMinor
	g.lastCurrency = currency
	if g.err != nil {
		return "", g.err
	}
	return g.secret, nil
}

func newCheckoutService(gw *stubGateway) (*application.CheckoutService, *memOrderRepo, *memProductRepo) {
	orders := newMemOrderRepo()
	products := newMemProductRepo()
	settler := &memSettler{orders: orders, products: products}
	svc := application.NewCheckoutService(orders, products, settler, gw, testLogger())
	return svc, orders, products
}

func seedListedProduct(t *testing.T, products *memProductRepo, sellerEmail string, price float64) *entity.Product {
	t.Helper()
	p := &entity.Product{
		CategoryID:  "cat-1",
		SellerEmail: sellerEmail,
		Name:        "Road Bike",
		Price:       price,
		Status:      entity.StatusListed,
	}
	if err := products.Create(context.Background(), p); err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return p
}

func TestAmountMinorUnits(t *testing.T) {
	cases := []struct {
		price float64
		want  int64
	}{
		{500, 50000},
		{0.99, 99},
		{12.34, 1234},
		{0, 0},
	}
	for _, tc := range cases {
		if got := application.AmountMinorUnits(tc.price); got != tc.want {
			t.Errorf("AmountMinorUnits(%v): got %d, want %d", tc.price, got, tc.want)
		}
	}
}

func TestPlaceOrder_DenormalizesSeller(t *testing.T) {
	svc, _, products := newCheckoutService(&stubGateway{})
	p := seedListedProduct(t, products, "seller@example.com", 250)
	ctx := context.Background()

	o, err := svc.PlaceOrder(ctx, "buyer@example.com", application.PlaceOrderInput{ProductID: p.ID, Price: 250})
	if err != nil {
		t.Fatalf("place order: %v", err)
	}
	if o.SellerEmail != "seller@example.com" {
		t.Errorf("seller email: got %q, want %q", o.SellerEmail, "seller@example.com")
	}
	if o.Paid {
		t.Error("new order must start unpaid")
	}

	_, err = svc.PlaceOrder(ctx, "buyer@example.com", application.PlaceOrderInput{ProductID: "missing", Price: 10})
	if !errors.Is(err, application.ErrNotFound) {
		t.Errorf("missing product: got %v, want ErrNotFound", err)
	}
}

func TestOrdersByBuyer_OwnershipEnforced(t *testing.T) {
	svc, _, products := newCheckoutService(&stubGateway{})
	p := seedListedProduct(t, products, "seller@example.com", 100)
	ctx := context.Background()

	if _, err := svc.PlaceOrder(ctx, "buyer@example.com", application.PlaceOrderInput{ProductID: p.ID, Price: 100}); err != nil {
		t.Fatalf("place order: %v", err)
	}

	if _, err := svc.OrdersByBuyer(ctx, "snoop@example.com", "buyer@example.com"); !errors.Is(err, application.ErrForbidden) {
		t.Errorf("mismatched emails: got %v, want ErrForbidden", err)
	}
	got, err := svc.OrdersByBuyer(ctx, "buyer@example.com", "buyer@example.com")
	if err != nil {
		t.Fatalf("own orders: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("orders: got %d, want 1", len(got))
	}
}

func TestCreatePaymentIntent_PassesSecretThrough(t *testing.T) {
	gw := &stubGateway{secret: "pi_123_secret_456"}
	svc, _, _ := newCheckoutService(gw)

	secret, err := svc.CreatePaymentIntent(context.Background(), 500)
	if err != nil {
		t.Fatalf("create intent: %v", err)
	}
	if secret != "pi_123_secret_456" {
		t.Errorf("secret: got %q", secret)
	}
	if gw.calls != 1 {
		t.Errorf("gateway calls: got %d, want 1", gw.calls)
	}
	if gw.lastAmount != 50000 {
		t.Errorf("amount: got %d minor units, want 50000", gw.lastAmount)
	}
	if gw.lastCurrency != "usd" {
		t.Errorf("currency: got %q, want %q", gw.lastCurrency, "usd")
	}
}

func TestCreatePaymentIntent_GatewayFailureSurfaces(t *testing.T) {
	gw := &stubGateway{err: errors.New("card network down")}
	svc, _, _ := newCheckoutService(gw)

	_, err := svc.CreatePaymentIntent(context.Background(), 500)
	if !errors.Is(err, application.ErrPaymentGateway) {
		t.Fatalf("got %v, want ErrPaymentGateway", err)
	}
}

func TestCreatePaymentIntent_NoGatewayConfigured(t *testing.T) {
	orders := newMemOrderRepo()
	products := newMemProductRepo()
	settler := &memSettler{orders: orders, products: products}
	svc := application.NewCheckoutService(orders, products, settler, nil, testLogger())

	_, err := svc.CreatePaymentIntent(context.Background(), 500)
	if !errors.Is(err, application.ErrPaymentGateway) {
		t.Fatalf("got %v, want ErrPaymentGateway", err)
	}
}

func TestFinalize_SettlesOnceThenConflicts(t *testing.T) {
	svc, _, products := newCheckoutService(&stubGateway{})
	p := seedListedProduct(t, products, "seller@example.com", 100)
	ctx := context.Background()

	o, err := svc.PlaceOrder(ctx, "buyer@example.com", application.PlaceOrderInput{ProductID: p.ID, Price: 100})
	if err != nil {
		t.Fatalf("place order: %v", err)
	}

	res, err := svc.Finalize(ctx, "buyer@example.com", o.ID, p.ID)
	if err != nil {
		t.Fatalf("first finalize: %v", err)
	}
	if !res.OrderApplied || !res.ProductApplied {
		t.Errorf("first finalize result: %+v, want both applied", res)
	}

	got, _ := products.GetByID(ctx, p.ID)
	if got.Status != entity.StatusSold || !got.Paid {
		t.Errorf("product after settlement: status=%q paid=%v", got.Status, got.Paid)
	}
	if got.WishlistedBy != nil {
		t.Error("settlement must clear the wishlist entry")
	}

	// A repeat finalize is a reported no-op, not a silent success.
	res, err = svc.Finalize(ctx, "buyer@example.com", o.ID, p.ID)
	if !errors.Is(err, application.ErrAlreadySettled) {
		t.Fatalf("repeat finalize: got %v, want ErrAlreadySettled", err)
	}
	if res.OrderApplied || res.ProductApplied {
		t.Errorf("repeat finalize result: %+v, want both false", res)
	}
}

func TestFinalize_SecondOrderLosesRace(t *testing.T) {
	svc, _, products := newCheckoutService(&stubGateway{})
	p := seedListedProduct(t, products, "seller@example.com", 100)
	ctx := context.Background()

	first, err := svc.PlaceOrder(ctx, "alice@example.com", application.PlaceOrderInput{ProductID: p.ID, Price: 100})
	if err != nil {
		t.Fatalf("first order: %v", err)
	}
	second, err := svc.PlaceOrder(ctx, "bob@example.com", application.PlaceOrderInput{ProductID: p.ID, Price: 100})
	if err != nil {
		t.Fatalf("second order: %v", err)
	}

	if _, err := svc.Finalize(ctx, "alice@example.com", first.ID, p.ID); err != nil {
		t.Fatalf("winning finalize: %v", err)
	}
	if _, err := svc.Finalize(ctx, "bob@example.com", second.ID, p.ID); !errors.Is(err, application.ErrAlreadySettled) {
		t.Errorf("losing finalize: got %v, want ErrAlreadySettled", err)
	}
}

func TestFinalize_MissingRecordsAreNotFound(t *testing.T) {
	svc, _, _ := newCheckoutService(&stubGateway{})

	_, err := svc.Finalize(context.Background(), "buyer@example.com", "no-order", "no-product")
	if !errors.Is(err, application.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}
