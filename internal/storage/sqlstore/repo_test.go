package sqlstore_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"turismo/internal/domain"
	"turismo/internal/storage/sqlstore"
)

func newRepo(t *testing.T) *sqlstore.Repo {
	t.Helper()
	dsn := fmt.Sprintf("file:sqlstore_%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", t.Name())
	db, err := sqlstore.Open(context.Background(), "sqlite", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, sqlstore.Migrate(context.Background(), db))
	return sqlstore.New(db)
}

func hotel(name, city string) domain.Hotel {
	h := domain.NewHotel()
	h.Name, h.City, h.Country = name, city, "Colombia"
	h.PricePerNight = 150
	return h
}

func pkg(name string, hotelID int64, available bool) domain.TourPackage {
	p := domain.NewTourPackage()
	p.Name = name
	p.Description = "Perfecto para parejas que buscan romance"
	p.DurationDays = 3
	p.TotalPrice = 500
	p.HotelID = hotelID
	p.Available = available
	return p
}

func TestInsertGetAndList(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	h := hotel("Hotel Vista del Mar", "Cartagena")
	h.Address = "Avenida San Martín 123"
	id1, err := repo.InsertHotel(ctx, h)
	require.NoError(t, err)
	id2, err := repo.InsertHotel(ctx, hotel("Posada Los Andes", "Cusco"))
	require.NoError(t, err)
	assert.Greater(t, id2, id1, "ids are assigned monotonically")

	got, err := repo.GetHotel(ctx, id1)
	require.NoError(t, err)
	assert.Equal(t, "Hotel Vista del Mar", got.Name)
	assert.Equal(t, "Avenida San Martín 123", got.Address)
	assert.Equal(t, 3, got.StarRating)
	assert.Equal(t, "", got.Description)
	assert.False(t, got.CreatedAt.IsZero())

	all, err := repo.ListHotels(ctx, domain.HotelFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, id1, all[0].ID, "insertion order")
	assert.Equal(t, id2, all[1].ID)

	n, err := repo.CountHotels(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestGetMissingIsNotFound(t *testing.T) {
	repo := newRepo(t)
	_, err := repo.GetHotel(context.Background(), 42)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.False(t, domain.IsStoreError(err))

	_, err = repo.GetPackage(context.Background(), 42)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSearchIsCaseSensitiveSubstring(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	mar, _ := repo.InsertHotel(ctx, hotel("Hotel Vista del Mar", "Cartagena"))
	andes, _ := repo.InsertHotel(ctx, hotel("Posada Los Andes", "Cusco"))

	got, err := repo.ListHotels(ctx, domain.HotelFilter{Search: "Mar"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, mar, got[0].ID)

	got, err = repo.ListHotels(ctx, domain.HotelFilter{Search: "mar"})
	require.NoError(t, err)
	assert.Empty(t, got)

	// "o" appears in "Hotel" and in "Posada Los"/"Cusco"
	got, err = repo.ListHotels(ctx, domain.HotelFilter{Search: "o"})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = repo.ListHotels(ctx, domain.HotelFilter{Search: "Cus"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, andes, got[0].ID)

	got, err = repo.ListHotels(ctx, domain.HotelFilter{Search: "%"})
	require.NoError(t, err)
	assert.Empty(t, got, "no wildcard semantics")
}

func TestPackageFilters(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	h1, _ := repo.InsertHotel(ctx, hotel("Hotel Vista del Mar", "Cartagena"))
	h2, _ := repo.InsertHotel(ctx, hotel("Posada Los Andes", "Cusco"))

	_, err := repo.InsertPackage(ctx, pkg("Escapada Romántica", h1, true))
	require.NoError(t, err)
	_, err = repo.InsertPackage(ctx, pkg("Aventura Machu Picchu", h2, false))
	require.NoError(t, err)
	_, err = repo.InsertPackage(ctx, pkg("Caribe Express", h1, true))
	require.NoError(t, err)

	all, err := repo.ListPackages(ctx, domain.PackageFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)

	avail, err := repo.ListPackages(ctx, domain.PackageFilter{AvailableOnly: true})
	require.NoError(t, err)
	require.Len(t, avail, 2)
	for _, p := range avail {
		assert.True(t, p.Available)
	}

	forH1, err := repo.PackagesForHotel(ctx, h1)
	require.NoError(t, err)
	require.Len(t, forH1, 2)
	assert.Equal(t, "Escapada Romántica", forH1[0].Name)

	n, err := repo.CountPackages(ctx, domain.PackageFilter{AvailableOnly: true})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestUpdateIsPartial(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	id, _ := repo.InsertHotel(ctx, hotel("Hotel Vista del Mar", "Cartagena"))
	before, _ := repo.GetHotel(ctx, id)

	stars, price := 5, 199.5
	require.NoError(t, repo.UpdateHotel(ctx, id, domain.HotelChanges{StarRating: &stars, PricePerNight: &price}))

	after, err := repo.GetHotel(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 5, after.StarRating)
	assert.InDelta(t, 199.5, after.PricePerNight, 1e-9)
	assert.Equal(t, before.Name, after.Name)
	assert.True(t, before.CreatedAt.Equal(after.CreatedAt), "created_at is never mutated")
}

func TestUpdateMissingIsNotFound(t *testing.T) {
	repo := newRepo(t)
	name := "Nuevo"
	err := repo.UpdateHotel(context.Background(), 7, domain.HotelChanges{Name: &name})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	off := false
	err = repo.UpdatePackage(context.Background(), 7, domain.PackageChanges{Available: &off})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestForeignKeyViolationIsStoreError(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	_, err := repo.InsertPackage(ctx, pkg("Huérfano", 999, true))
	require.Error(t, err)
	var se *domain.StoreError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "insert package", se.Op)

	n, _ := repo.CountPackages(ctx, domain.PackageFilter{})
	assert.Zero(t, n, "nothing persisted")
}

func TestFailedUpdateRollsBack(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	h, _ := repo.InsertHotel(ctx, hotel("Hotel Vista del Mar", "Cartagena"))
	id, _ := repo.InsertPackage(ctx, pkg("Escapada Romántica", h, true))

	name, missing := "Renombrado", int64(999)
	err := repo.UpdatePackage(ctx, id, domain.PackageChanges{Name: &name, HotelID: &missing})
	require.True(t, domain.IsStoreError(err))

	got, err := repo.GetPackage(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Escapada Romántica", got.Name)
	assert.Equal(t, h, got.HotelID)
}

func TestCheckConstraintsRejectOutOfRangeValues(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	stars := hotel("Hotel Estelar", "Lima")
	stars.StarRating = 9
	_, err := repo.InsertHotel(ctx, stars)
	assert.True(t, domain.IsStoreError(err), "star rating 9: %v", err)

	free := hotel("Hotel Gratis", "Lima")
	free.PricePerNight = -5
	_, err = repo.InsertHotel(ctx, free)
	assert.True(t, domain.IsStoreError(err), "negative price: %v", err)

	n, err := repo.CountHotels(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	hid, err := repo.InsertHotel(ctx, hotel("Hotel Sol", "Lima"))
	require.NoError(t, err)
	long := pkg("Eterno", hid, true)
	long.DurationDays = 400
	_, err = repo.InsertPackage(ctx, long)
	assert.True(t, domain.IsStoreError(err), "400 days: %v", err)
	zero := pkg("Gratis", hid, true)
	zero.TotalPrice = 0
	_, err = repo.InsertPackage(ctx, zero)
	assert.True(t, domain.IsStoreError(err), "zero price: %v", err)
}

func TestInTxCommitsAndRollsBack(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	err := repo.InTx(ctx, func(tx domain.Store) error {
		id, err := tx.InsertHotel(ctx, hotel("Hotel Sol", "Lima"))
		if err != nil {
			return err
		}
		_, err = tx.InsertPackage(ctx, pkg("Lima Colonial", id, true))
		return err
	})
	require.NoError(t, err)
	n, err := repo.CountHotels(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	boom := errors.New("boom")
	err = repo.InTx(ctx, func(tx domain.Store) error {
		if _, err := tx.InsertHotel(ctx, hotel("Hotel Luna", "Cusco")); err != nil {
			return err
		}
		name := "Hotel Sol Renombrado"
		if err := tx.UpdateHotel(ctx, 1, domain.HotelChanges{Name: &name}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	n, err = repo.CountHotels(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n, "insert rolled back")
	h, err := repo.GetHotel(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Hotel Sol", h.Name, "update rolled back")
}
