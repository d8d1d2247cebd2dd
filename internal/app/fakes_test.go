package app_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"testing"

	"turismo/internal/domain"
	"turismo/internal/storage/sqlstore"
)

// ---- fakes ----

// fakeCache round-trips through JSON like the Redis adapter does.
type fakeCache struct {
	store map[string][]byte
	dels  []string
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	b, ok := c.store[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	if c.store == nil {
		c.store = map[string][]byte{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.store[key] = b
	return nil
}

func (c *fakeCache) Del(ctx context.Context, key string) error {
	c.dels = append(c.dels, key)
	delete(c.store, key)
	return nil
}

func (c *fakeCache) Incr(ctx context.Context, key string) (int64, error) {
	var n int64
	if _, err := c.Get(ctx, key, &n); err != nil {
		return 0, err
	}
	n++
	return n, c.Set(ctx, key, n, 0)
}

// failingStore delegates reads and fails every write.
type failingStore struct {
	domain.Store
}

var errDown = errors.New("database is locked")

func (f failingStore) InsertHotel(ctx context.Context, h domain.Hotel) (int64, error) {
	return 0, &domain.StoreError{Op: "insert hotel", Err: errDown}
}

func (f failingStore) InsertPackage(ctx context.Context, p domain.TourPackage) (int64, error) {
	return 0, &domain.StoreError{Op: "insert package", Err: errDown}
}

func (f failingStore) UpdateHotel(ctx context.Context, id int64, c domain.HotelChanges) error {
	return &domain.StoreError{Op: "update hotel", Err: errDown}
}

func (f failingStore) UpdatePackage(ctx context.Context, id int64, c domain.PackageChanges) error {
	return &domain.StoreError{Op: "update package", Err: errDown}
}

// ---- helpers ----

func newStore(t *testing.T) *sqlstore.Repo {
	t.Helper()
	ctx := context.Background()
	dsn := fmt.Sprintf("file:app_%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", t.Name())
	db, err := sqlstore.Open(ctx, "sqlite", dsn)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := sqlstore.Migrate(ctx, db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return sqlstore.New(db)
}

func hotelForm(name, city string) map[string]string {
	return map[string]string{
		"nombre":       name,
		"ciudad":       city,
		"pais":         "Colombia",
		"estrellas":    "4",
		"precio_noche": "150.00",
	}
}

func packageForm(name string, hotelID int64) map[string]string {
	return map[string]string{
		"nombre":        name,
		"descripcion":   "Perfecto para parejas que buscan romance y relajación",
		"duracion_dias": "3",
		"precio_total":  "500.00",
		"hotel_id":      itoa(hotelID),
	}
}

func itoa(n int64) string { return strconv.FormatInt(n, 10) }
