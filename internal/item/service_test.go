package item

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/foundit-unsri/foundit/internal/db"
	"github.com/foundit-unsri/foundit/internal/model"
	"github.com/foundit-unsri/foundit/internal/store"
	"github.com/foundit-unsri/foundit/internal/upload"
)

// recordingPhotos wraps an upload store and records every removal.
type recordingPhotos struct {
	*upload.Store
	removed []string
}

func (p *recordingPhotos) Remove(rel string) error {
	p.removed = append(p.removed, rel)
	return p.Store.Remove(rel)
}

func newTestService(t *testing.T) (*Service, *recordingPhotos) {
	t.Helper()
	uploads, err := upload.New(t.TempDir())
	if err != nil {
		t.Fatalf("upload.New: %v", err)
	}
	photos := &recordingPhotos{Store: uploads}
	return NewService(db.NewTestDB(t), photos), photos
}

func savePhoto(t *testing.T, photos *recordingPhotos) string {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewGray(image.Rect(0, 0, 4, 4))); err != nil {
		t.Fatal(err)
	}
	rel, err := photos.Save(&buf, "photo.png")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	return rel
}

func photoExists(t *testing.T, photos *recordingPhotos, rel string) bool {
	t.Helper()
	p, err := photos.Path(rel)
	if err != nil {
		t.Fatalf("Path(%q): %v", rel, err)
	}
	_, err = os.Stat(p)
	return err == nil
}

func walletInput() model.ItemInput {
	return model.ItemInput{
		Name:        "Wallet",
		Location:    model.Location{Name: "Library", Lat: -2.99, Lng: 104.75},
		Time:        time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC),
		Description: "Brown leather",
	}
}

func TestCreateWithoutPhoto(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	id, err := s.Create(ctx, walletInput(), "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := s.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	want := &model.Item{
		ID:          id,
		Name:        "Wallet",
		Location:    model.Location{Name: "Library", Lat: -2.99, Lng: 104.75},
		Time:        time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC),
		Description: "Brown leather",
		Status:      model.ItemStatusNotClaimed,
	}
	if diff := cmp.Diff(want, got, cmpopts.IgnoreFields(model.Item{}, "CreatedAt")); diff != "" {
		t.Errorf("item mismatch (-want +got):\n%s", diff)
	}
	if got.HasPhoto() {
		t.Error("expected no photo")
	}
}

func TestGetNotFound(t *testing.T) {
	s, _ := newTestService(t)

	if _, err := s.Get(context.Background(), "does-not-exist"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestListUnclaimed(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	first, _ := s.Create(ctx, walletInput(), "")
	claimed, _ := s.Create(ctx, walletInput(), "")
	last, _ := s.Create(ctx, walletInput(), "")

	in := walletInput()
	in.Status = model.ItemStatusClaimed
	if err := s.Update(ctx, claimed, in, ""); err != nil {
		t.Fatalf("Update: %v", err)
	}

	items, err := s.ListUnclaimed(ctx)
	if err != nil {
		t.Fatalf("ListUnclaimed: %v", err)
	}
	got := map[string]bool{}
	for _, it := range items {
		if it.Status != model.ItemStatusNotClaimed {
			t.Errorf("listed item %s with status %q", it.ID, it.Status)
		}
		got[it.ID] = true
	}
	if len(items) != 2 || !got[first] || !got[last] {
		t.Errorf("expected unclaimed %s and %s, got %v", first, last, got)
	}

	all, err := s.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("expected 3 items, got %d", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i].CreatedAt.After(all[i-1].CreatedAt) {
			t.Errorf("items not ordered newest first at %d", i)
		}
	}
}

func TestUpdateReplacesPhoto(t *testing.T) {
	s, photos := newTestService(t)
	ctx := context.Background()

	oldPhoto := savePhoto(t, photos)
	id, err := s.Create(ctx, walletInput(), oldPhoto)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	newPhoto := savePhoto(t, photos)
	in := walletInput()
	in.Name = "Black wallet"
	in.Status = model.ItemStatusClaimed
	if err := s.Update(ctx, id, in, newPhoto); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, _ := s.Get(ctx, id)
	if got.Photo != newPhoto {
		t.Errorf("expected photo %q, got %q", newPhoto, got.Photo)
	}
	if got.Name != "Black wallet" || got.Status != model.ItemStatusClaimed {
		t.Errorf("fields not overwritten: %+v", got)
	}
	if photoExists(t, photos, oldPhoto) {
		t.Error("expected previous photo removed")
	}
	if !photoExists(t, photos, newPhoto) {
		t.Error("expected new photo kept")
	}
}

func TestUpdateKeepsPhoto(t *testing.T) {
	s, photos := newTestService(t)
	ctx := context.Background()

	photo := savePhoto(t, photos)
	id, _ := s.Create(ctx, walletInput(), photo)

	in := walletInput()
	in.Status = model.ItemStatusNotClaimed
	in.Description = "Found near the stairs"
	if err := s.Update(ctx, id, in, ""); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, _ := s.Get(ctx, id)
	if got.Photo != photo {
		t.Errorf("expected photo %q kept, got %q", photo, got.Photo)
	}
	if len(photos.removed) != 0 {
		t.Errorf("expected no removals, got %v", photos.removed)
	}
}

func TestUpdateNotFoundRemovesUpload(t *testing.T) {
	s, photos := newTestService(t)

	photo := savePhoto(t, photos)
	in := walletInput()
	in.Status = model.ItemStatusClaimed
	err := s.Update(context.Background(), "missing", in, photo)
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if photoExists(t, photos, photo) {
		t.Error("expected orphaned upload removed")
	}
}

func TestDeleteRemovesPhoto(t *testing.T) {
	s, photos := newTestService(t)
	ctx := context.Background()

	photo := savePhoto(t, photos)
	id, _ := s.Create(ctx, walletInput(), photo)

	if err := s.Delete(ctx, id); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, id); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected row removed, got %v", err)
	}
	if photoExists(t, photos, photo) {
		t.Error("expected photo file removed")
	}
}

func TestDeleteNotFound(t *testing.T) {
	s, photos := newTestService(t)

	if err := s.Delete(context.Background(), "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if len(photos.removed) != 0 {
		t.Errorf("expected no file operations, got %v", photos.removed)
	}
}

func TestDeleteMissingFileIsNotFatal(t *testing.T) {
	s, photos := newTestService(t)
	ctx := context.Background()

	photo := savePhoto(t, photos)
	id, _ := s.Create(ctx, walletInput(), photo)
	if err := photos.Store.Remove(photo); err != nil {
		t.Fatal(err)
	}

	if err := s.Delete(ctx, id); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, id); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected row removed, got %v", err)
	}
}
