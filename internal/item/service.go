// Package item manages found-item records and the photos they reference.
package item

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/foundit-unsri/foundit/internal/model"
	"github.com/foundit-unsri/foundit/internal/store"
)

// Photos removes stored photo files by their relative path.
type Photos interface {
	Remove(rel string) error
}

// Service implements item listing and mutation. Rows are always written
// before photo files are removed, so a failure leaves at worst an orphaned
// file and never a row pointing at a missing one.
type Service struct {
	DB     *sql.DB
	Photos Photos
}

// NewService returns a Service storing rows in db and removing files via photos.
func NewService(db *sql.DB, photos Photos) *Service {
	return &Service{DB: db, Photos: photos}
}

// ListUnclaimed returns items still awaiting their owner, newest first.
func (s *Service) ListUnclaimed(ctx context.Context) ([]model.Item, error) {
	return store.ListItems(ctx, s.DB, model.ItemStatusNotClaimed)
}

// ListAll returns every item, newest first.
func (s *Service) ListAll(ctx context.Context) ([]model.Item, error) {
	return store.ListItems(ctx, s.DB, "")
}

// Get returns an item or store.ErrNotFound.
func (s *Service) Get(ctx context.Context, id string) (*model.Item, error) {
	return store.GetItem(ctx, s.DB, id)
}

// Create stores a new unclaimed item and returns its ID. photo is the
// relative path of an already stored upload, or "". The upload is removed
// again if the row cannot be written.
func (s *Service) Create(ctx context.Context, in model.ItemInput, photo string) (string, error) {
	item := &model.Item{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Location:    in.Location,
		Time:        in.Time,
		Photo:       photo,
		Description: in.Description,
		Status:      model.ItemStatusNotClaimed,
	}

	if err := store.CreateItem(ctx, s.DB, item); err != nil {
		s.removePhoto(photo)
		return "", err
	}

	slog.Info("item created", "id", item.ID, "name", item.Name)
	return item.ID, nil
}

// Update overwrites every field of an item. A non-empty photo replaces the
// current one, whose file is removed after the row is written; an empty photo
// keeps it.
func (s *Service) Update(ctx context.Context, id string, in model.ItemInput, photo string) error {
	oldPhoto, err := store.GetItemPhoto(ctx, s.DB, id)
	if err != nil {
		s.removePhoto(photo)
		return err
	}

	item := &model.Item{
		ID:          id,
		Name:        in.Name,
		Location:    in.Location,
		Time:        in.Time,
		Photo:       oldPhoto,
		Description: in.Description,
		Status:      in.Status,
	}
	if photo != "" {
		item.Photo = photo
	}

	if err := store.UpdateItem(ctx, s.DB, item); err != nil {
		s.removePhoto(photo)
		return err
	}

	if photo != "" && oldPhoto != "" && oldPhoto != photo {
		s.removePhoto(oldPhoto)
	}

	slog.Info("item updated", "id", id, "status", item.Status)
	return nil
}

// Delete removes an item and then its photo. A missing item yields
// store.ErrNotFound and touches no files.
func (s *Service) Delete(ctx context.Context, id string) error {
	photo, err := store.GetItemPhoto(ctx, s.DB, id)
	if err != nil {
		return err
	}

	if err := store.DeleteItem(ctx, s.DB, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return err
		}
		return fmt.Errorf("deleting item %s: %w", id, err)
	}

	s.removePhoto(photo)

	slog.Info("item deleted", "id", id)
	return nil
}

// removePhoto deletes a stored file. Failures are logged and otherwise ignored.
func (s *Service) removePhoto(rel string) {
	if rel == "" || s.Photos == nil {
		return
	}
	if err := s.Photos.Remove(rel); err != nil {
		slog.Warn("failed to remove photo", "photo", rel, "error", err)
	}
}
