package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/dukerupert/tossit/internal/model"
)

type ItemStore struct {
	db *sql.DB
}

func NewItemStore(db *sql.DB) *ItemStore {
	return &ItemStore{db: db}
}

func (s *ItemStore) CreateItem(businessID int64, userID *int64, productName, area string, openingTime, expiryTime time.Time) (*model.Item, error) {
	result, err := s.db.Exec(
		`INSERT INTO items (business_id, user_id, product_name, area, opening_time, expiry_time)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		businessID, userID, productName, area, openingTime.UTC(), expiryTime.UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("create item: %w", err)
	}
	id, _ := result.LastInsertId()
	return s.GetByID(id, businessID)
}

func (s *ItemStore) GetByID(id, businessID int64) (*model.Item, error) {
	var item model.Item
	var userID sql.NullInt64
	var thrownInt int
	err := s.db.QueryRow(
		`SELECT id, business_id, user_id, product_name, area, opening_time, expiry_time, is_thrown, created_at
		 FROM items WHERE id = ? AND business_id = ?`, id, businessID,
	).Scan(&item.ID, &item.BusinessID, &userID, &item.ProductName, &item.Area,
		&item.OpeningTime, &item.ExpiryTime, &thrownInt, &item.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	if userID.Valid {
		item.UserID = &userID.Int64
	}
	item.IsThrown = thrownInt != 0
	return &item, nil
}

// ListNonDiscarded returns every item of a business that has not been thrown
// out yet. Expiry filtering is up to the caller; the store only applies the
// equality predicates it can index.
func (s *ItemStore) ListNonDiscarded(businessID int64) ([]model.Item, error) {
	rows, err := s.db.Query(
		`SELECT id, business_id, user_id, product_name, area, opening_time, expiry_time, is_thrown, created_at
		 FROM items WHERE business_id = ? AND is_thrown = 0 ORDER BY expiry_time`,
		businessID,
	)
	if err != nil {
		return nil, fmt.Errorf("list non-discarded items: %w", err)
	}
	defer rows.Close()
	return scanItems(rows)
}

// MarkThrown records that an item has been discarded. Returns false if no
// such item exists for the business.
func (s *ItemStore) MarkThrown(id, businessID int64) (bool, error) {
	result, err := s.db.Exec(
		`UPDATE items SET is_thrown = 1 WHERE id = ? AND business_id = ?`,
		id, businessID,
	)
	if err != nil {
		return false, fmt.Errorf("mark item thrown: %w", err)
	}
	n, _ := result.RowsAffected()
	return n > 0, nil
}

// ListBusinessIDs returns the distinct business IDs the schedulers need to
// visit. Users are included so a business whose only activity is an open
// shift still gets the midnight handling.
func (s *ItemStore) ListBusinessIDs() ([]int64, error) {
	rows, err := s.db.Query(
		`SELECT DISTINCT business_id FROM items
		 UNION SELECT DISTINCT business_id FROM users`,
	)
	if err != nil {
		return nil, fmt.Errorf("list business ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan business id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ListProducts returns the shelf-life catalog.
func (s *ItemStore) ListProducts() ([]model.ShelfLifeProduct, error) {
	rows, err := s.db.Query(
		`SELECT id, name, shelf_life_days, area FROM shelf_life_products ORDER BY area, name`,
	)
	if err != nil {
		return nil, fmt.Errorf("list shelf-life products: %w", err)
	}
	defer rows.Close()

	var products []model.ShelfLifeProduct
	for rows.Next() {
		var p model.ShelfLifeProduct
		if err := rows.Scan(&p.ID, &p.Name, &p.ShelfLifeDays, &p.Area); err != nil {
			return nil, fmt.Errorf("scan shelf-life product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// GetProductByName looks up one shelf-life catalog entry.
func (s *ItemStore) GetProductByName(name string) (*model.ShelfLifeProduct, error) {
	var p model.ShelfLifeProduct
	err := s.db.QueryRow(
		`SELECT id, name, shelf_life_days, area FROM shelf_life_products WHERE name = ?`, name,
	).Scan(&p.ID, &p.Name, &p.ShelfLifeDays, &p.Area)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get shelf-life product: %w", err)
	}
	return &p, nil
}

func scanItems(rows *sql.Rows) ([]model.Item, error) {
	var items []model.Item
	for rows.Next() {
		var item model.Item
		var userID sql.NullInt64
		var thrownInt int
		if err := rows.Scan(&item.ID, &item.BusinessID, &userID, &item.ProductName, &item.Area,
			&item.OpeningTime, &item.ExpiryTime, &thrownInt, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		if userID.Valid {
			item.UserID = &userID.Int64
		}
		item.IsThrown = thrownInt != 0
		items = append(items, item)
	}
	return items, rows.Err()
}
