package repository

import (
	"database/sql"
	"fmt"

	"pricescout/database"
	"pricescout/models"
)

// DealRepository stores the latest deals snapshot per store.
type DealRepository struct {
	db *sql.DB
}

// NewDealRepository creates a deal repository over the shared connection.
func NewDealRepository() *DealRepository {
	return &DealRepository{db: database.DB}
}

// ReplaceDeals swaps a store's snapshot for a fresh one atomically.
func (r *DealRepository) ReplaceDeals(store string, deals []models.Deal) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM deals WHERE store = $1`, store); err != nil {
		return fmt.Errorf("failed to clear old deals: %w", err)
	}

	for _, deal := range deals {
		_, err := tx.Exec(
			`INSERT INTO deals (title, price, image_url, store) VALUES ($1, $2, $3, $4)`,
			deal.Title, deal.Price, deal.ImageURL, deal.Store)
		if err != nil {
			return fmt.Errorf("failed to insert deal: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit deals: %w", err)
	}
	return nil
}

// GetDeals returns the stored snapshot, newest refresh first.
func (r *DealRepository) GetDeals(limit int) ([]models.Deal, error) {
	query := `SELECT title, price, image_url, store FROM deals ORDER BY fetched_at DESC, id ASC`
	var args []interface{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get deals: %w", err)
	}
	defer rows.Close()

	var deals []models.Deal
	for rows.Next() {
		var deal models.Deal
		if err := rows.Scan(&deal.Title, &deal.Price, &deal.ImageURL, &deal.Store); err != nil {
			return nil, fmt.Errorf("failed to scan deal: %w", err)
		}
		deals = append(deals, deal)
	}
	return deals, rows.Err()
}
