package model

import (
	"strings"
	"testing"
)

func TestNormalizeID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		table string
		id    string
		want  string
	}{
		{"bare key", TableUser, "u1", "user:u1"},
		{"canonical", TableUser, "user:u1", "user:u1"},
		{"escaped angle", TablePlace, "place:⟨0b6f-11⟩", "place:0b6f-11"},
		{"escaped backtick", TablePlace, "place:`0b6f-11`", "place:0b6f-11"},
		{"whitespace", TableUser, "  u1 ", "user:u1"},
		{"other table kept", TableUser, "place:p1", "place:p1"},
		{"empty", TableUser, "", ""},
		{"empty key", TableUser, "user:", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeID(tt.table, tt.id); got != tt.want {
				t.Errorf("NormalizeID(%q, %q) = %q, want %q", tt.table, tt.id, got, tt.want)
			}
		})
	}
}

func TestSameID(t *testing.T) {
	t.Parallel()

	if !SameID(TableUser, "u1", "user:u1") {
		t.Error("bare key and canonical id should match")
	}
	if !SameID(TableUser, "user:⟨u1⟩", "u1") {
		t.Error("escaped id and bare key should match")
	}
	if SameID(TableUser, "u1", "u2") {
		t.Error("different keys should not match")
	}
	if SameID(TableUser, "place:u1", "place:u1") {
		t.Error("ids of another table should not match")
	}
	if SameID(TableUser, "", "") {
		t.Error("empty ids should not match")
	}
}

func TestNewIDs_AreCanonicalAndUnique(t *testing.T) {
	t.Parallel()

	a, b := NewPlaceID(), NewPlaceID()
	if a == b {
		t.Fatal("expected unique ids")
	}
	if !strings.HasPrefix(a, "place:") {
		t.Errorf("expected place prefix, got %q", a)
	}
	if NormalizeID(TablePlace, a) != a {
		t.Errorf("new id should already be canonical, got %q", a)
	}
	if !strings.HasPrefix(NewUserID(), "user:") {
		t.Error("expected user prefix")
	}
}

func TestSplitID(t *testing.T) {
	t.Parallel()

	tb, key := SplitID(TablePlace, "p1")
	if tb != "place" || key != "p1" {
		t.Errorf("SplitID = (%q, %q), want (place, p1)", tb, key)
	}
}

func TestOwnershipHelpers(t *testing.T) {
	t.Parallel()

	u := &User{ID: "user:u1", Places: []string{"place:p1", "p2"}}
	if !u.OwnsPlace("p1") || !u.OwnsPlace("place:p2") {
		t.Error("expected user to own p1 and p2")
	}
	if u.OwnsPlace("p3") {
		t.Error("user should not own p3")
	}

	p := &Place{ID: "place:p1", Creator: "u1"}
	if !p.IsCreatedBy("user:u1") {
		t.Error("expected creator match across id forms")
	}
	if p.IsCreatedBy("user:u2") {
		t.Error("unexpected creator match")
	}
}
