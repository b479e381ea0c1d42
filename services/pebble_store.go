package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/cockroachdb/pebble"
	"github.com/kendall-kelly/dress-orders-api/models"
)

var ordersKey = []byte("orders/all")

// PebbleOrderStore keeps the collection as a single value in a Pebble DB
type PebbleOrderStore struct {
	db *pebble.DB
}

// NewPebbleOrderStore opens (or creates) a Pebble DB in dir
func NewPebbleOrderStore(dir string) (*PebbleOrderStore, error) {
	db, err := pebble.Open(filepath.Clean(dir), &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("pebble open: %w", err)
	}
	return &PebbleOrderStore{db: db}, nil
}

// LoadAll reads the collection; a missing key loads as empty
func (s *PebbleOrderStore) LoadAll(ctx context.Context) ([]models.Order, error) {
	value, closer, err := s.db.Get(ordersKey)
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return []models.Order{}, nil
		}
		return nil, fmt.Errorf("pebble get: %w", err)
	}
	defer closer.Close()

	// value is only valid until closer is closed; decodeOrders copies it out
	return decodeOrders(value, "pebble"), nil
}

// SaveAll replaces the collection with a synced write
func (s *PebbleOrderStore) SaveAll(ctx context.Context, orders []models.Order) error {
	data, err := encodeOrders(orders)
	if err != nil {
		return err
	}
	if err := s.db.Set(ordersKey, data, pebble.Sync); err != nil {
		return fmt.Errorf("pebble set: %w", err)
	}
	return nil
}

// Close closes the DB
func (s *PebbleOrderStore) Close() error {
	return s.db.Close()
}
