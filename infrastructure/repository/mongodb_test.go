package repository

import (
	"testing"
	"time"

	"reqbridge/domain/cookie"
	"reqbridge/domain/snapshot"
)

func TestDefaultMongoDBConfig(t *testing.T) {
	config := DefaultMongoDBConfig()

	if config == nil {
		t.Fatal("DefaultMongoDBConfig returned nil")
	}

	if config.URI != "mongodb://localhost:27017" {
		t.Errorf("URI = %v, want mongodb://localhost:27017", config.URI)
	}

	if config.Database != "reqbridge" {
		t.Errorf("Database = %v, want reqbridge", config.Database)
	}

	if config.ConnectTimeout != 10*time.Second {
		t.Errorf("ConnectTimeout = %v, want 10s", config.ConnectTimeout)
	}

	if config.PingTimeout != 5*time.Second {
		t.Errorf("PingTimeout = %v, want 5s", config.PingTimeout)
	}
}

func TestSnapshotDocument_Conversion(t *testing.T) {
	savedAt := time.Date(2025, 11, 3, 10, 30, 0, 0, time.UTC)
	doc := &snapshotDocument{
		Name:      "login-state",
		UserAgent: "Mozilla/5.0 test",
		LastURL:   "http://example.com/home",
		SavedAt:   savedAt,
		Cookies: []cookieDocument{
			{
				Name:   "session",
				Value:  "abc123",
				Domain: ".example.com",
				Path:   "/",
			},
		},
	}

	snap := documentToSnapshot(doc)

	if snap.Name != "login-state" {
		t.Errorf("Name = %v, want login-state", snap.Name)
	}
	if snap.UserAgent != "Mozilla/5.0 test" {
		t.Errorf("UserAgent = %v", snap.UserAgent)
	}
	if snap.LastURL != "http://example.com/home" {
		t.Errorf("LastURL = %v", snap.LastURL)
	}
	if !snap.SavedAt.Equal(savedAt) {
		t.Errorf("SavedAt = %v, want %v", snap.SavedAt, savedAt)
	}
	if len(snap.Cookies) != 1 {
		t.Fatalf("Cookies length = %d, want 1", len(snap.Cookies))
	}
	if snap.Cookies[0].Name != "session" {
		t.Errorf("Cookie name = %v, want session", snap.Cookies[0].Name)
	}
	if snap.Cookies[0].Domain != ".example.com" {
		t.Errorf("Cookie domain = %v, want .example.com", snap.Cookies[0].Domain)
	}
}

func TestSnapshotToDocument_RoundTrip(t *testing.T) {
	expires := time.Now().Add(24 * time.Hour).Truncate(time.Second)
	snap := &snapshot.Snapshot{
		Name:      "checkout",
		UserAgent: "agent",
		LastURL:   "http://shop.example.com/cart",
		SavedAt:   time.Now().Truncate(time.Second),
		Cookies: []cookie.Cookie{
			{Name: "cart", Value: "42", Domain: "shop.example.com", Path: "/", Expires: expires},
			{Name: "csrf", Value: "tok", Domain: ".example.com", Path: "/"},
		},
	}

	got := documentToSnapshot(snapshotToDocument(snap))

	if got.Name != snap.Name {
		t.Errorf("Name = %v, want %v", got.Name, snap.Name)
	}
	if len(got.Cookies) != 2 {
		t.Fatalf("Cookies length = %d, want 2", len(got.Cookies))
	}
	if !got.Cookies[0].Expires.Equal(expires) {
		t.Errorf("Expires = %v, want %v", got.Cookies[0].Expires, expires)
	}
	if !got.Cookies[1].Expires.IsZero() {
		t.Errorf("session cookie Expires = %v, want zero", got.Cookies[1].Expires)
	}
}

func TestSnapshotToDocument_PreservesID(t *testing.T) {
	snap := &snapshot.Snapshot{
		ID:   "507f1f77bcf86cd799439011",
		Name: "named",
	}

	doc := snapshotToDocument(snap)
	if doc.ID.Hex() != snap.ID {
		t.Errorf("doc ID = %v, want %v", doc.ID.Hex(), snap.ID)
	}

	// A malformed ID is dropped rather than failing the conversion.
	bad := &snapshot.Snapshot{ID: "not-an-objectid", Name: "named"}
	if !snapshotToDocument(bad).ID.IsZero() {
		t.Error("malformed ID should convert to the zero ObjectID")
	}
}
