package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/foundit-unsri/foundit/internal/model"
)

// now stamps created_at columns. Tests replace it to control ordering.
var now = func() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

const itemColumns = `id, name, location, latitude, longitude, time, photo, description, status, created_at`

// CreateItem inserts a new item. The caller supplies the ID; the status
// defaults to "Not Claimed" when empty and CreatedAt is set here.
func CreateItem(ctx context.Context, db *sql.DB, item *model.Item) error {
	if item.Status == "" {
		item.Status = model.ItemStatusNotClaimed
	}
	item.CreatedAt = now()

	_, err := db.ExecContext(ctx,
		`INSERT INTO item (`+itemColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID, item.Name, item.Location.Name, item.Location.Lat, item.Location.Lng,
		item.Time.UTC(), nullString(item.Photo), item.Description, item.Status, item.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("creating item %s: %w", item.ID, ErrDuplicate)
		}
		return fmt.Errorf("creating item: %w", err)
	}
	return nil
}

// GetItem returns an item by ID, or ErrNotFound.
func GetItem(ctx context.Context, db *sql.DB, id string) (*model.Item, error) {
	row := db.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM item WHERE id = ?`, id)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	return item, nil
}

// ListItems returns items newest first, optionally filtered by status.
func ListItems(ctx context.Context, db *sql.DB, status string) ([]model.Item, error) {
	var rows *sql.Rows
	var err error

	if status != "" {
		rows, err = db.QueryContext(ctx,
			`SELECT `+itemColumns+` FROM item WHERE status = ? ORDER BY created_at DESC`, status,
		)
	} else {
		rows, err = db.QueryContext(ctx,
			`SELECT `+itemColumns+` FROM item ORDER BY created_at DESC`,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// GetItemPhoto returns the stored photo path of an item ("" when it has
// none), or ErrNotFound.
func GetItemPhoto(ctx context.Context, db *sql.DB, id string) (string, error) {
	var photo sql.NullString
	err := db.QueryRowContext(ctx, `SELECT photo FROM item WHERE id = ?`, id).Scan(&photo)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("getting item photo: %w", err)
	}
	return photo.String, nil
}

// UpdateItem overwrites every mutable column of an item. It does not report
// missing rows; callers look the item up first.
func UpdateItem(ctx context.Context, db *sql.DB, item *model.Item) error {
	_, err := db.ExecContext(ctx,
		`UPDATE item
		 SET name = ?, location = ?, latitude = ?, longitude = ?, time = ?, description = ?, status = ?, photo = ?
		 WHERE id = ?`,
		item.Name, item.Location.Name, item.Location.Lat, item.Location.Lng, item.Time.UTC(),
		item.Description, item.Status, nullString(item.Photo), item.ID,
	)
	if err != nil {
		return fmt.Errorf("updating item: %w", err)
	}
	return nil
}

// DeleteItem removes an item row, or returns ErrNotFound.
func DeleteItem(ctx context.Context, db *sql.DB, id string) error {
	result, err := db.ExecContext(ctx, `DELETE FROM item WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanItem(s scanner) (*model.Item, error) {
	item := &model.Item{}
	var photo sql.NullString
	err := s.Scan(
		&item.ID, &item.Name, &item.Location.Name, &item.Location.Lat, &item.Location.Lng,
		&item.Time, &photo, &item.Description, &item.Status, &item.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	item.Photo = photo.String
	item.Time = item.Time.UTC()
	item.CreatedAt = item.CreatedAt.UTC()
	return item, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
