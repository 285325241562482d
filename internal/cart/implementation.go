// internal/cart/implementation.go
package cart

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"storefront/internal/product"
	"storefront/internal/wishlist"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

var (
	ErrOutOfStock     = errors.New("product is out of stock")
	ErrEmptyCart      = errors.New("cart is empty")
	ErrUnknownVariant = errors.New("variant not offered for product")
)

// service implements the Service interface.
type service struct {
	store      Store
	products   ProductLookup
	pricing    Pricing
	tracer     trace.Tracer
	operations metric.Int64Counter
	now        func() time.Time

	// mu serializes read-modify-write cycles; the last write wins.
	mu sync.Mutex
}

// NewService creates a new cart service instance.
func NewService(store Store, products ProductLookup, pricing Pricing) (Service, error) {
	operations, err := otel.Meter("storefront/cart").Int64Counter(
		"cart.operations",
		metric.WithDescription("Cart mutations by operation"),
	)
	if err != nil {
		return nil, fmt.Errorf("create operations counter: %w", err)
	}
	return &service{
		store:      store,
		products:   products,
		pricing:    pricing,
		tracer:     otel.Tracer("storefront/cart"),
		operations: operations,
		now:        time.Now,
	}, nil
}

// NewSession starts an empty session.
func (s *service) NewSession(ctx context.Context) (*View, error) {
	session := &Session{ID: uuid.New(), UpdatedAt: s.now()}
	if err := s.store.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	log.WithField("session_id", session.ID).Debug("session created")
	return s.view(session), nil
}

// GetCart returns the cart for id. Unknown sessions read as empty.
func (s *service) GetCart(ctx context.Context, id uuid.UUID) (*View, error) {
	session, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.view(session), nil
}

// AddItem resolves productID against the catalog and adds one unit.
func (s *service) AddItem(ctx context.Context, id uuid.UUID, productID string, variant *product.Variant) (*View, error) {
	ctx, span := s.tracer.Start(ctx, "cart.add_item",
		trace.WithAttributes(
			attribute.String("session.id", id.String()),
			attribute.String("product.id", productID),
		),
	)
	defer span.End()

	// Resolve outside the lock; the catalog call may be slow.
	p, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if !p.InStock {
		return nil, fmt.Errorf("product %s: %w", productID, ErrOutOfStock)
	}
	if variant != nil && !slices.Contains(p.Variants, *variant) {
		return nil, fmt.Errorf("product %s: %w", productID, ErrUnknownVariant)
	}

	return s.mutate(ctx, id, "add", func(c Cart) Cart {
		return AddItemVariant(c, *p, variant)
	})
}

// UpdateQuantity sets the quantity for productID; zero or less removes it.
func (s *service) UpdateQuantity(ctx context.Context, id uuid.UUID, productID string, quantity int) (*View, error) {
	ctx, span := s.tracer.Start(ctx, "cart.update_quantity",
		trace.WithAttributes(
			attribute.String("session.id", id.String()),
			attribute.String("product.id", productID),
			attribute.Int("quantity", quantity),
		),
	)
	defer span.End()

	return s.mutate(ctx, id, "update", func(c Cart) Cart {
		return UpdateQuantity(c, productID, quantity)
	})
}

// RemoveItem drops productID from the cart.
func (s *service) RemoveItem(ctx context.Context, id uuid.UUID, productID string) (*View, error) {
	ctx, span := s.tracer.Start(ctx, "cart.remove_item",
		trace.WithAttributes(
			attribute.String("session.id", id.String()),
			attribute.String("product.id", productID),
		),
	)
	defer span.End()

	return s.mutate(ctx, id, "remove", func(c Cart) Cart {
		return RemoveItem(c, productID)
	})
}

// Checkout produces the final summary for the checkout collaborator. The
// cart itself is left intact.
func (s *service) Checkout(ctx context.Context, id uuid.UUID) (*Handoff, error) {
	ctx, span := s.tracer.Start(ctx, "cart.checkout",
		trace.WithAttributes(attribute.String("session.id", id.String())),
	)
	defer span.End()

	session, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.Cart.IsEmpty() {
		return nil, ErrEmptyCart
	}

	summary := s.pricing.Summarize(session.Cart)
	span.SetAttributes(attribute.String("summary.total", summary.Total.StringFixed(2)))
	log.WithFields(log.Fields{
		"session_id": id,
		"items":      summary.ItemCount,
		"total":      summary.Total.StringFixed(2),
	}).Info("checkout handed off")

	return &Handoff{
		SessionID: id,
		Lines:     session.Cart.Lines,
		Summary:   summary,
	}, nil
}

// ToggleWishlist saves or unsaves productID.
func (s *service) ToggleWishlist(ctx context.Context, id uuid.UUID, productID string) (*WishlistView, error) {
	ctx, span := s.tracer.Start(ctx, "cart.toggle_wishlist",
		trace.WithAttributes(
			attribute.String("session.id", id.String()),
			attribute.String("product.id", productID),
		),
	)
	defer span.End()

	if _, err := s.products.GetProduct(ctx, productID); err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	var added bool
	session.Wishlist, added = wishlist.Toggle(session.Wishlist, productID)
	session.UpdatedAt = s.now()
	if err := s.store.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	span.SetAttributes(attribute.Bool("wishlist.added", added))
	s.operations.Add(ctx, 1, metric.WithAttributes(attribute.String("op", "wishlist")))

	return &WishlistView{
		ID:        id,
		ProductID: productID,
		Added:     added,
		Items:     session.Wishlist,
	}, nil
}

func (s *service) mutate(ctx context.Context, id uuid.UUID, op string, apply func(Cart) Cart) (*View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	session.Cart = apply(session.Cart)
	session.UpdatedAt = s.now()
	if err := s.store.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	s.operations.Add(ctx, 1, metric.WithAttributes(attribute.String("op", op)))
	log.WithFields(log.Fields{
		"session_id": id,
		"op":         op,
		"lines":      len(session.Cart.Lines),
	}).Debug("cart updated")

	return s.view(session), nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*Session, error) {
	session, err := s.store.Load(ctx, id)
	if errors.Is(err, ErrSessionNotFound) {
		return &Session{ID: id}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return session, nil
}

func (s *service) view(session *Session) *View {
	lines := session.Cart.Lines
	if lines == nil {
		lines = []Line{}
	}
	return &View{
		ID:            session.ID,
		Lines:         lines,
		Summary:       s.pricing.Summarize(session.Cart),
		WishlistCount: session.Wishlist.Len(),
	}
}
