// NextRecipe - Recipe Feasibility and Fridge Inventory Backend
// Copyright 2026 M. Goujon (mgoujon)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mgoujon/nextrecipe

package models

import (
	"testing"
	"time"

	"github.com/goccy/go-json"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"2026-09-10", false},
		{"2026-2-3", true},
		{"2026-09-10T12:00:00Z", true},
		{"10/09/2026", true},
		{"", true},
	}
	for _, tt := range tests {
		_, err := ParseDate(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseDate(%q) err = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
	}
}

func TestDateOfDropsTimeComponent(t *testing.T) {
	d := DateOf(time.Date(2026, 9, 10, 23, 59, 59, 0, time.UTC))
	if d.String() != "2026-09-10" {
		t.Errorf("DateOf = %s, want 2026-09-10", d)
	}
	if !d.Equal(NewDate(2026, time.September, 10)) {
		t.Error("dates of the same day should be equal regardless of source time")
	}
}

func TestDateJSONRoundTrip(t *testing.T) {
	d := NewDate(2026, time.September, 10)

	data, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(data) != `"2026-09-10"` {
		t.Errorf("marshalled = %s, want \"2026-09-10\"", data)
	}

	var back Date
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !back.Equal(d) {
		t.Errorf("round trip = %s, want %s", back, d)
	}

	if err := json.Unmarshal([]byte(`"2026-09-10T12:00:00Z"`), &back); err == nil {
		t.Error("timestamps must not unmarshal into Date")
	}
}

func TestDateOrdering(t *testing.T) {
	early := NewDate(2026, time.September, 1)
	late := NewDate(2026, time.September, 2)

	if !early.Before(late) {
		t.Error("2026-09-01 should be before 2026-09-02")
	}
	if late.Before(early) {
		t.Error("2026-09-02 should not be before 2026-09-01")
	}
	if early.Before(early) {
		t.Error("a date is not before itself")
	}
}
