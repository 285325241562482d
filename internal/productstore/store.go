// internal/productstore/store.go
package productstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"storefront/internal/product"

	"github.com/lib/pq"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var ErrInvalidProduct = errors.New("invalid product")

// Schema creates the products table. Position preserves catalog order.
const Schema = `
CREATE TABLE IF NOT EXISTS products (
	id             TEXT PRIMARY KEY,
	position       INT NOT NULL,
	name           TEXT NOT NULL,
	price          NUMERIC(12, 2) NOT NULL CHECK (price >= 0),
	original_price NUMERIC(12, 2) CHECK (original_price IS NULL OR original_price > price),
	image          TEXT NOT NULL DEFAULT '',
	category       TEXT NOT NULL DEFAULT '',
	brand          TEXT,
	rating         DOUBLE PRECISION NOT NULL DEFAULT 0 CHECK (rating BETWEEN 0 AND 5),
	reviews        INT NOT NULL DEFAULT 0 CHECK (reviews >= 0),
	in_stock       BOOLEAN NOT NULL DEFAULT TRUE,
	is_on_sale     BOOLEAN NOT NULL DEFAULT FALSE,
	is_featured    BOOLEAN NOT NULL DEFAULT FALSE,
	variants       JSONB NOT NULL DEFAULT '[]',
	tags           TEXT[] NOT NULL DEFAULT '{}'
);
`

const selectColumns = `
	SELECT id, name, price, original_price, image, category, brand, rating, reviews,
	       in_stock, is_on_sale, is_featured, variants, tags
	FROM products
`

// Store is the PostgreSQL read model of the catalog. It satisfies
// catalog.Source.
type Store struct {
	db     *sql.DB
	tracer trace.Tracer
}

// NewStore wraps an open connection pool.
func NewStore(db *sql.DB) *Store {
	return &Store{
		db:     db,
		tracer: otel.Tracer("storefront/productstore"),
	}
}

// EnsureSchema creates the products table if it does not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// LoadProducts returns every product in catalog order.
func (s *Store) LoadProducts(ctx context.Context) ([]product.Product, error) {
	ctx, span := s.tracer.Start(ctx, "productstore.load")
	defer span.End()

	rows, err := s.db.QueryContext(ctx, selectColumns+" ORDER BY position ASC, id ASC")
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	products := []product.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}

	span.SetAttributes(attribute.Int("products.loaded", len(products)))
	return products, nil
}

// GetProduct loads a single product by id.
func (s *Store) GetProduct(ctx context.Context, id string) (*product.Product, error) {
	ctx, span := s.tracer.Start(ctx, "productstore.get",
		trace.WithAttributes(attribute.String("product.id", id)),
	)
	defer span.End()

	p, err := scanProduct(s.db.QueryRowContext(ctx, selectColumns+" WHERE id = $1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("product with ID %s: %w", id, product.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// UpsertProducts replaces the stored rows for products atomically. Slice
// order becomes catalog order.
func (s *Store) UpsertProducts(ctx context.Context, products []product.Product) error {
	ctx, span := s.tracer.Start(ctx, "productstore.upsert",
		trace.WithAttributes(attribute.Int("product.count", len(products))),
	)
	defer span.End()

	if err := product.ValidateAll(products); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidProduct, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO products (id, position, name, price, original_price, image, category, brand,
		                      rating, reviews, in_stock, is_on_sale, is_featured, variants, tags)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (id) DO UPDATE SET
			position = EXCLUDED.position,
			name = EXCLUDED.name,
			price = EXCLUDED.price,
			original_price = EXCLUDED.original_price,
			image = EXCLUDED.image,
			category = EXCLUDED.category,
			brand = EXCLUDED.brand,
			rating = EXCLUDED.rating,
			reviews = EXCLUDED.reviews,
			in_stock = EXCLUDED.in_stock,
			is_on_sale = EXCLUDED.is_on_sale,
			is_featured = EXCLUDED.is_featured,
			variants = EXCLUDED.variants,
			tags = EXCLUDED.tags
	`)
	if err != nil {
		return fmt.Errorf("prepare statement: %w", err)
	}
	defer stmt.Close()

	for i, p := range products {
		variants := p.Variants
		if variants == nil {
			variants = []product.Variant{}
		}
		variantsJSON, err := json.Marshal(variants)
		if err != nil {
			return fmt.Errorf("encode variants for %s: %w", p.ID, err)
		}
		tags := p.Tags
		if tags == nil {
			tags = []string{}
		}

		_, err = stmt.ExecContext(ctx,
			p.ID,
			i,
			p.Name,
			p.Price,
			p.OriginalPrice,
			p.Image,
			p.Category,
			sql.NullString{String: p.Brand, Valid: p.HasBrand()},
			p.Rating,
			p.Reviews,
			p.InStock,
			p.IsOnSale,
			p.IsFeatured,
			variantsJSON,
			pq.Array(tags),
		)
		if err != nil {
			var pqErr *pq.Error
			if errors.As(err, &pqErr) && pqErr.Code == "23514" {
				return fmt.Errorf("%w: %s: %s", ErrInvalidProduct, p.ID, pqErr.Message)
			}
			return fmt.Errorf("upsert product %s: %w", p.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	span.SetAttributes(attribute.Bool("upsert.success", true))
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProduct(row scanner) (product.Product, error) {
	var (
		p            product.Product
		brand        sql.NullString
		variantsJSON []byte
	)
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Price,
		&p.OriginalPrice,
		&p.Image,
		&p.Category,
		&brand,
		&p.Rating,
		&p.Reviews,
		&p.InStock,
		&p.IsOnSale,
		&p.IsFeatured,
		&variantsJSON,
		pq.Array(&p.Tags),
	)
	if errors.Is(err, sql.ErrNoRows) {
		return p, err
	}
	if err != nil {
		return p, fmt.Errorf("scan product: %w", err)
	}

	p.Brand = brand.String
	if len(variantsJSON) > 0 {
		if err := json.Unmarshal(variantsJSON, &p.Variants); err != nil {
			return p, fmt.Errorf("decode variants for %s: %w", p.ID, err)
		}
	}
	if len(p.Variants) == 0 {
		p.Variants = nil
	}
	if len(p.Tags) == 0 {
		p.Tags = nil
	}
	return p, nil
}
