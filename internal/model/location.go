package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Location is a human-readable place plus coordinates.
type Location struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}

// String returns the JSON payload form, as submitted by the item forms.
func (l Location) String() string {
	b, _ := json.Marshal(l)
	return string(b)
}

// ParseLocation decodes the location payload {"name", "lat", "lng"}. Every
// subfield is required and coordinates must be in range.
func ParseLocation(raw string) (Location, error) {
	var payload struct {
		Name *string  `json:"name"`
		Lat  *float64 `json:"lat"`
		Lng  *float64 `json:"lng"`
	}

	raw = string(bytes.TrimSpace([]byte(raw)))
	if raw == "" {
		return Location{}, &ValidationError{Field: "location", Message: "lokasi wajib diisi"}
	}
	if raw[0] != '{' {
		return Location{}, &ValidationError{Field: "location", Message: "lokasi harus berupa objek JSON"}
	}
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return Location{}, &ValidationError{Field: "location", Message: fmt.Sprintf("lokasi tidak valid: %v", err)}
	}

	switch {
	case payload.Name == nil:
		return Location{}, &ValidationError{Field: "location.name", Message: "nama lokasi wajib diisi"}
	case payload.Lat == nil:
		return Location{}, &ValidationError{Field: "location.lat", Message: "latitude wajib diisi"}
	case payload.Lng == nil:
		return Location{}, &ValidationError{Field: "location.lng", Message: "longitude wajib diisi"}
	}

	loc := Location{Name: Sanitize(*payload.Name), Lat: *payload.Lat, Lng: *payload.Lng}
	if loc.Name == "" {
		return Location{}, &ValidationError{Field: "location.name", Message: "nama lokasi wajib diisi"}
	}
	if len(loc.Name) > MaxNameLength {
		return Location{}, &ValidationError{Field: "location.name", Message: "nama lokasi terlalu panjang"}
	}
	if loc.Lat < -90 || loc.Lat > 90 {
		return Location{}, &ValidationError{Field: "location.lat", Message: fmt.Sprintf("latitude di luar jangkauan: %v", loc.Lat)}
	}
	if loc.Lng < -180 || loc.Lng > 180 {
		return Location{}, &ValidationError{Field: "location.lng", Message: fmt.Sprintf("longitude di luar jangkauan: %v", loc.Lng)}
	}
	return loc, nil
}
