package model

import (
	"errors"
	"testing"
	"time"
)

func TestParseLocation(t *testing.T) {
	loc, err := ParseLocation(`{"name":"Library","lat":-2.99,"lng":104.75}`)
	if err != nil {
		t.Fatalf("ParseLocation: %v", err)
	}
	want := Location{Name: "Library", Lat: -2.99, Lng: 104.75}
	if loc != want {
		t.Errorf("expected %+v, got %+v", want, loc)
	}
}

func TestParseLocationInvalid(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		field string
	}{
		{"empty", "", "location"},
		{"not json", "Library", "location"},
		{"array", `[1,2]`, "location"},
		{"truncated", `{"name":"Library"`, "location"},
		{"wrong type", `{"name":"Library","lat":"north","lng":1}`, "location"},
		{"missing name", `{"lat":1,"lng":2}`, "location.name"},
		{"missing lat", `{"name":"Library","lng":2}`, "location.lat"},
		{"missing lng", `{"name":"Library","lat":1}`, "location.lng"},
		{"blank name", `{"name":"  ","lat":1,"lng":2}`, "location.name"},
		{"lat range", `{"name":"Library","lat":91,"lng":2}`, "location.lat"},
		{"lng range", `{"name":"Library","lat":1,"lng":-181}`, "location.lng"},
	}

	for _, tt := range tests {
		_, err := ParseLocation(tt.raw)
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("%s: expected ValidationError, got %v", tt.name, err)
			continue
		}
		if verr.Field != tt.field {
			t.Errorf("%s: expected field %q, got %q", tt.name, tt.field, verr.Field)
		}
	}
}

func TestLocationStringRoundTrip(t *testing.T) {
	in := Location{Name: "Gedung A", Lat: -2.985, Lng: 104.732}
	out, err := ParseLocation(in.String())
	if err != nil {
		t.Fatalf("ParseLocation: %v", err)
	}
	if out != in {
		t.Errorf("expected %+v, got %+v", in, out)
	}
}

func TestParseTime(t *testing.T) {
	jakarta := time.FixedZone("WIB", 7*60*60)

	tests := []struct {
		in   string
		want time.Time
	}{
		{"2024-01-01T10:00:00Z", time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)},
		{"2024-01-01T17:00:00+07:00", time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)},
		{"2024-01-01T17:00", time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)},
		{"2024-01-01T17:00:30", time.Date(2024, 1, 1, 10, 0, 30, 0, time.UTC)},
	}
	for _, tt := range tests {
		got, err := ParseTime(tt.in, jakarta)
		if err != nil {
			t.Errorf("ParseTime(%q): %v", tt.in, err)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("ParseTime(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	for _, bad := range []string{"", "yesterday", "01/01/2024"} {
		if _, err := ParseTime(bad, time.UTC); err == nil {
			t.Errorf("ParseTime(%q): expected error", bad)
		}
	}
}

func TestItemFormParse(t *testing.T) {
	form := ItemForm{
		Name:        "Wallet",
		Location:    `{"name":"Library","lat":-2.99,"lng":104.75}`,
		Time:        "2024-01-01T10:00:00Z",
		Description: "Brown leather",
		Status:      ItemStatusClaimed,
	}

	in, err := form.Parse(time.UTC, false)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if in.Name != "Wallet" || in.Location.Name != "Library" || in.Description != "Brown leather" {
		t.Errorf("unexpected input: %+v", in)
	}
	if in.Status != "" {
		t.Errorf("status should be ignored on create, got %q", in.Status)
	}

	in, err = form.Parse(time.UTC, true)
	if err != nil {
		t.Fatalf("Parse with status: %v", err)
	}
	if in.Status != ItemStatusClaimed {
		t.Errorf("expected status %q, got %q", ItemStatusClaimed, in.Status)
	}
}

func TestItemFormParseInvalid(t *testing.T) {
	valid := ItemForm{
		Name:     "Wallet",
		Location: `{"name":"Library","lat":-2.99,"lng":104.75}`,
		Time:     "2024-01-01T10:00:00Z",
		Status:   ItemStatusNotClaimed,
	}

	tests := []struct {
		field  string
		mutate func(*ItemForm)
	}{
		{"name", func(f *ItemForm) { f.Name = "" }},
		{"name", func(f *ItemForm) { f.Name = "<b></b>" }},
		{"location", func(f *ItemForm) { f.Location = "not json" }},
		{"time", func(f *ItemForm) { f.Time = "" }},
		{"status", func(f *ItemForm) { f.Status = "Lost" }},
		{"status", func(f *ItemForm) { f.Status = "" }},
	}

	for _, tt := range tests {
		form := valid
		tt.mutate(&form)
		_, err := form.Parse(time.UTC, true)
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("%s: expected ValidationError, got %v", tt.field, err)
			continue
		}
		if verr.Field != tt.field {
			t.Errorf("expected field %q, got %q", tt.field, verr.Field)
		}
	}
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Brown leather", "Brown leather"},
		{"  padded  ", "padded"},
		{"<script>alert(1)</script>Wallet", "Wallet"},
		{"<b>Bold</b> & brave", "Bold & brave"},
		{"O'Brien's keys", "O'Brien's keys"},
	}
	for _, tt := range tests {
		if got := Sanitize(tt.in); got != tt.want {
			t.Errorf("Sanitize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
