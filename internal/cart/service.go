// internal/cart/service.go
package cart

import (
	"context"

	"storefront/internal/product"
	"storefront/internal/wishlist"

	"github.com/google/uuid"
)

// View is the cart as rendered to the shopper.
type View struct {
	ID            uuid.UUID `json:"id"`
	Lines         []Line    `json:"lines"`
	Summary       Summary   `json:"summary"`
	WishlistCount int       `json:"wishlist_count"`
}

// Handoff is what the external checkout collaborator receives.
type Handoff struct {
	SessionID uuid.UUID `json:"session_id"`
	Lines     []Line    `json:"lines"`
	Summary   Summary   `json:"summary"`
}

// WishlistView reports the wishlist after a toggle.
type WishlistView struct {
	ID        uuid.UUID         `json:"id"`
	ProductID string            `json:"product_id"`
	Added     bool              `json:"added"`
	Items     wishlist.Wishlist `json:"items"`
}

// ProductLookup resolves catalog products for the cart.
type ProductLookup interface {
	GetProduct(ctx context.Context, id string) (*product.Product, error)
}

// Service defines the interface for the cart service.
type Service interface {
	NewSession(ctx context.Context) (*View, error)
	GetCart(ctx context.Context, id uuid.UUID) (*View, error)
	AddItem(ctx context.Context, id uuid.UUID, productID string, variant *product.Variant) (*View, error)
	UpdateQuantity(ctx context.Context, id uuid.UUID, productID string, quantity int) (*View, error)
	RemoveItem(ctx context.Context, id uuid.UUID, productID string) (*View, error)
	Checkout(ctx context.Context, id uuid.UUID) (*Handoff, error)
	ToggleWishlist(ctx context.Context, id uuid.UUID, productID string) (*WishlistView, error)
}
