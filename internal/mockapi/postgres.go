package mockapi

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/five82/stayfinder/internal/api"
)

const schema = `
CREATE TABLE IF NOT EXISTS hostels (
	seq            BIGSERIAL,
	id             TEXT PRIMARY KEY,
	name           TEXT NOT NULL,
	city           TEXT NOT NULL DEFAULT '',
	location       TEXT NOT NULL DEFAULT '',
	type           TEXT NOT NULL DEFAULT '',
	price          DOUBLE PRECISION NOT NULL DEFAULT 0,
	original_price DOUBLE PRECISION NOT NULL DEFAULT 0,
	amenities      TEXT[],
	image          TEXT NOT NULL DEFAULT '',
	description    TEXT NOT NULL DEFAULT '',
	address        TEXT NOT NULL DEFAULT '',
	contact        TEXT NOT NULL DEFAULT ''
)`

const selectColumns = `id, name, city, location, type, price, original_price,
	amenities, image, description, address, contact`

const upsertListing = `
INSERT INTO hostels (id, name, city, location, type, price, original_price,
	amenities, image, description, address, contact)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
ON CONFLICT (id) DO UPDATE SET
	name = EXCLUDED.name, city = EXCLUDED.city, location = EXCLUDED.location,
	type = EXCLUDED.type, price = EXCLUDED.price,
	original_price = EXCLUDED.original_price, amenities = EXCLUDED.amenities,
	image = EXCLUDED.image, description = EXCLUDED.description,
	address = EXCLUDED.address, contact = EXCLUDED.contact`

// PostgresStore keeps listings in a hostels table.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects, pings and creates the schema.
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.New: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping failed: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

// Close releases the pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

// Seed upserts listings by id in one batch.
func (s *PostgresStore) Seed(ctx context.Context, listings []api.Listing) error {
	batch := &pgx.Batch{}
	for _, l := range listings {
		if l.ID == "" {
			l.ID = newID()
		}
		batch.Queue(upsertListing, listingArgs(l)...)
	}
	if err := s.pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("seed hostels: %w", err)
	}
	return nil
}

// List returns every listing in insertion order.
func (s *PostgresStore) List(ctx context.Context) ([]api.Listing, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+selectColumns+` FROM hostels ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("list hostels query: %w", err)
	}
	defer rows.Close()

	out := make([]api.Listing, 0)
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, fmt.Errorf("list hostels scan: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// Get returns one listing or api.ErrNotFound.
func (s *PostgresStore) Get(ctx context.Context, id string) (api.Listing, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+selectColumns+` FROM hostels WHERE id = $1`, id)
	l, err := scanListing(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return api.Listing{}, api.ErrNotFound
	}
	if err != nil {
		return api.Listing{}, fmt.Errorf("get hostel: %w", err)
	}
	return l, nil
}

// Create inserts l under a fresh id.
func (s *PostgresStore) Create(ctx context.Context, l api.Listing) (api.Listing, error) {
	l.ID = newID()
	if _, err := s.pool.Exec(ctx, upsertListing, listingArgs(l)...); err != nil {
		return api.Listing{}, fmt.Errorf("create hostel: %w", err)
	}
	return l, nil
}

func listingArgs(l api.Listing) []any {
	return []any{
		l.ID, l.Name, l.City, l.Location, l.Category, l.Price, l.OriginalPrice,
		l.Amenities, l.Image, l.Description, l.Address, l.Contact,
	}
}

func scanListing(row pgx.Row) (api.Listing, error) {
	var l api.Listing
	err := row.Scan(
		&l.ID, &l.Name, &l.City, &l.Location, &l.Category, &l.Price, &l.OriginalPrice,
		&l.Amenities, &l.Image, &l.Description, &l.Address, &l.Contact,
	)
	return l, err
}
