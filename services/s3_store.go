package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/kendall-kelly/dress-orders-api/models"
)

// S3OrderStore keeps the collection as one JSON object in a bucket.
// PutObject replaces the object whole, so readers never see a torn write.
type S3OrderStore struct {
	s3  S3Interface
	key string
}

// NewS3OrderStore creates a store writing the collection to key
func NewS3OrderStore(s3 S3Interface, key string) *S3OrderStore {
	return &S3OrderStore{s3: s3, key: key}
}

// LoadAll downloads the collection; a missing object loads as empty
func (s *S3OrderStore) LoadAll(ctx context.Context) ([]models.Order, error) {
	data, err := s.s3.GetObject(ctx, s.key)
	if err != nil {
		if errors.Is(err, ErrObjectNotFound) {
			return []models.Order{}, nil
		}
		return nil, err
	}
	return decodeOrders(data, "s3://"+s.key), nil
}

// SaveAll uploads the whole collection. An empty collection removes the
// object, which LoadAll reads back as empty.
func (s *S3OrderStore) SaveAll(ctx context.Context, orders []models.Order) error {
	if len(orders) == 0 {
		if err := s.s3.DeleteObject(ctx, s.key); err != nil {
			return fmt.Errorf("failed to delete orders object: %w", err)
		}
		return nil
	}

	data, err := encodeOrders(orders)
	if err != nil {
		return err
	}
	if err := s.s3.PutObject(ctx, s.key, data, "application/json"); err != nil {
		return fmt.Errorf("failed to store orders object: %w", err)
	}
	return nil
}
