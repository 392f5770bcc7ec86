package model

import (
	"fmt"
	"time"
)

// Item is a found object awaiting claim.
type Item struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Location    Location  `json:"location"`
	Time        time.Time `json:"time"`
	Photo       string    `json:"photo,omitempty"` // relative path, empty when the item has no photo
	Description string    `json:"description"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// HasPhoto reports whether a photo is recorded for the item.
func (i Item) HasPhoto() bool {
	return i.Photo != ""
}

// Claim statuses.
const (
	ItemStatusNotClaimed = "Not Claimed"
	ItemStatusClaimed    = "Claimed"
)

// ValidStatus reports whether status is one of the claim statuses.
func ValidStatus(status string) bool {
	return status == ItemStatusNotClaimed || status == ItemStatusClaimed
}

// MaxNameLength bounds item and location names.
const MaxNameLength = 255

// ItemInput carries the user-supplied fields of an item. Every field must be
// supplied on both create and edit.
type ItemInput struct {
	Name        string
	Location    Location
	Time        time.Time
	Description string
	Status      string // ignored on create
}

// ItemForm is the raw form representation of ItemInput.
type ItemForm struct {
	Name        string
	Location    string // JSON {"name", "lat", "lng"}
	Time        string
	Description string
	Status      string
}

// timeLayouts are accepted for ItemForm.Time; the last two are what
// <input type="datetime-local"> submits.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// ParseTime parses a found-at timestamp. Layouts without a zone offset are
// interpreted in loc.
func ParseTime(s string, loc *time.Location) (time.Time, error) {
	if s == "" {
		return time.Time{}, &ValidationError{Field: "time", Message: "waktu wajib diisi"}
	}
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, &ValidationError{Field: "time", Message: fmt.Sprintf("format waktu tidak valid: %q", s)}
}

// Parse validates the form and converts it into an ItemInput. Text fields are
// stripped of markup. When requireStatus is false the status is left empty.
func (f ItemForm) Parse(loc *time.Location, requireStatus bool) (ItemInput, error) {
	in := ItemInput{
		Name:        Sanitize(f.Name),
		Description: Sanitize(f.Description),
	}

	if in.Name == "" {
		return ItemInput{}, &ValidationError{Field: "name", Message: "nama barang wajib diisi"}
	}
	if len(in.Name) > MaxNameLength {
		return ItemInput{}, &ValidationError{Field: "name", Message: "nama barang terlalu panjang"}
	}

	location, err := ParseLocation(f.Location)
	if err != nil {
		return ItemInput{}, err
	}
	in.Location = location

	in.Time, err = ParseTime(f.Time, loc)
	if err != nil {
		return ItemInput{}, err
	}

	if requireStatus {
		if !ValidStatus(f.Status) {
			return ItemInput{}, &ValidationError{Field: "status", Message: fmt.Sprintf("status tidak valid: %q", f.Status)}
		}
		in.Status = f.Status
	}

	return in, nil
}
