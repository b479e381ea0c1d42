package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/kendall-kelly/dress-orders-api/models"
	"github.com/kendall-kelly/dress-orders-api/utils"
)

// OrderStore persists the whole order collection.
// LoadAll returns an empty collection when no state exists yet or the stored
// state cannot be decoded; it only fails when the medium itself is unreachable.
type OrderStore interface {
	LoadAll(ctx context.Context) ([]models.Order, error)
	SaveAll(ctx context.Context, orders []models.Order) error
}

// FileOrderStore keeps the collection in a single JSON file
type FileOrderStore struct {
	path string
}

// NewFileOrderStore creates a file store at path
func NewFileOrderStore(path string) *FileOrderStore {
	return &FileOrderStore{path: path}
}

// LoadAll reads the file. Missing or corrupt files load as an empty
// collection; a file that exists but cannot be read is an error.
func (s *FileOrderStore) LoadAll(ctx context.Context) ([]models.Order, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []models.Order{}, nil
		}
		return nil, fmt.Errorf("failed to read orders file: %w", err)
	}
	return decodeOrders(data, s.path), nil
}

// SaveAll replaces the file atomically
func (s *FileOrderStore) SaveAll(ctx context.Context, orders []models.Order) error {
	data, err := encodeOrders(orders)
	if err != nil {
		return err
	}
	if err := utils.WriteFileAtomic(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write orders file: %w", err)
	}
	return nil
}

func encodeOrders(orders []models.Order) ([]byte, error) {
	if orders == nil {
		orders = []models.Order{}
	}
	data, err := json.MarshalIndent(orders, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode orders: %w", err)
	}
	return data, nil
}

// decodeOrders never fails: unreadable state is treated as no state
func decodeOrders(data []byte, source string) []models.Order {
	if len(data) == 0 {
		return []models.Order{}
	}
	var orders []models.Order
	if err := json.Unmarshal(data, &orders); err != nil {
		log.Printf("warning: corrupt order state in %s, starting empty: %v", source, err)
		return []models.Order{}
	}
	if orders == nil {
		orders = []models.Order{}
	}
	return orders
}
