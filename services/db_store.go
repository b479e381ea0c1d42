package services

import (
	"context"
	"fmt"

	"github.com/kendall-kelly/dress-orders-api/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DBOrderStore keeps the collection in the orders table
type DBOrderStore struct {
	db *gorm.DB
}

// NewDBOrderStore migrates the orders table and returns a store over db
func NewDBOrderStore(db *gorm.DB) (*DBOrderStore, error) {
	if err := db.AutoMigrate(&models.Order{}); err != nil {
		return nil, fmt.Errorf("failed to migrate orders table: %w", err)
	}
	return &DBOrderStore{db: db}, nil
}

// LoadAll returns every row in creation order
func (s *DBOrderStore) LoadAll(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	if err := s.db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to load orders: %w", err)
	}
	if orders == nil {
		orders = []models.Order{}
	}
	return orders, nil
}

// saveBatchSize bounds the rows per statement to stay under the driver's
// bind variable limit
const saveBatchSize = 500

// SaveAll makes the table match orders inside a single transaction
func (s *DBOrderStore) SaveAll(ctx context.Context, orders []models.Order) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing []string
		if err := tx.Model(&models.Order{}).Pluck("id", &existing).Error; err != nil {
			return fmt.Errorf("failed to list stored orders: %w", err)
		}

		keep := make(map[string]struct{}, len(orders))
		for i := range orders {
			keep[orders[i].ID] = struct{}{}
		}
		var removed []string
		for _, id := range existing {
			if _, ok := keep[id]; !ok {
				removed = append(removed, id)
			}
		}

		for start := 0; start < len(removed); start += saveBatchSize {
			end := min(start+saveBatchSize, len(removed))
			if err := tx.Where("id IN ?", removed[start:end]).Delete(&models.Order{}).Error; err != nil {
				return fmt.Errorf("failed to delete removed orders: %w", err)
			}
		}

		if len(orders) == 0 {
			return nil
		}
		if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).CreateInBatches(&orders, saveBatchSize).Error; err != nil {
			return fmt.Errorf("failed to save orders: %w", err)
		}
		return nil
	})
}

// Close closes the underlying connection pool
func (s *DBOrderStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
