package orders

import (
	"context"
	"log"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/matheusmosca/eshop-storefront/api"
	"github.com/matheusmosca/eshop-storefront/cart"
)

// OrderCreator is the slice of the collaborator contract checkout needs.
type OrderCreator interface {
	CreateOrder(ctx context.Context, req api.CreateOrderRequest) error
}

// Receipt summarizes a confirmed order submission.
type Receipt struct {
	Email string
	Lines int
	Total decimal.Decimal
}

// Checkout converts the cart into an order request and reconciles the
// outcome back into the cart store.
type Checkout struct {
	client OrderCreator
	cart   *cart.Store
}

// NewCheckout creates a Checkout over the given collaborator and cart store.
func NewCheckout(client OrderCreator, cartStore *cart.Store) *Checkout {
	return &Checkout{client: client, cart: cartStore}
}

// Submit validates the email locally, submits the cart as an order and clears
// the cart if and only if the service confirmed creation. On any failure the
// cart and its persisted record are left untouched so the user can retry.
func (c *Checkout) Submit(ctx context.Context, email string) (*Receipt, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, api.Validation("email required")
	}

	refs := c.cart.OrderRefs()
	if len(refs) == 0 {
		// the service rejects an empty products array anyway, refuse locally
		return nil, api.Validation("cart is empty")
	}

	req := api.CreateOrderRequest{Email: email, Products: refs}
	if err := c.client.CreateOrder(ctx, req); err != nil {
		return nil, err
	}

	receipt := &Receipt{
		Email: email,
		Lines: len(refs),
		Total: c.cart.Total(),
	}
	c.cart.Clear(ctx)

	log.Printf("✅ Order submitted for %s (%d lines)", email, receipt.Lines)
	return receipt, nil
}
