package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"turismo/internal/adapters/observability"
	"turismo/internal/domain"
)

func valStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// dbtx is the part of sqlx shared by the pool and an open transaction.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
}

type Repo struct {
	db  *sqlx.DB
	q   dbtx
	tx  *sqlx.Tx // set on repos handed to InTx callbacks
	d   Dialect
	now func() time.Time
}

// New wraps an open handle; the dialect follows the handle's driver name.
func New(db *sqlx.DB) *Repo {
	return &Repo{db: db, q: db, d: DialectFor(db.DriverName()), now: func() time.Time { return time.Now().UTC() }}
}

var _ domain.TxStore = (*Repo)(nil)

// InTx runs fn against a Repo bound to one transaction. An error from fn, or
// a panic, rolls back every write fn made. Nested calls join the outer one.
func (r *Repo) InTx(ctx context.Context, fn func(domain.Store) error) (err error) {
	if r.tx != nil {
		return fn(r)
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return &domain.StoreError{Op: "begin", Err: err}
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = fn(&Repo{db: r.db, q: tx, tx: tx, d: r.d, now: r.now}); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return &domain.StoreError{Op: "commit", Err: err}
	}
	return nil
}

// ---- hotels ----

func (r *Repo) InsertHotel(ctx context.Context, h domain.Hotel) (id int64, err error) {
	defer observe("insert_hotel", time.Now(), &err)
	if h.CreatedAt.IsZero() {
		h.CreatedAt = r.now()
	}
	res, err := r.q.ExecContext(ctx, insertHotelSQL,
		h.Name,
		h.City,
		h.Country,
		valStr(h.Address),
		h.StarRating,
		valStr(h.Description),
		h.PricePerNight,
		h.CreatedAt,
	)
	if err != nil {
		return 0, &domain.StoreError{Op: "insert hotel", Err: err}
	}
	if id, err = res.LastInsertId(); err != nil {
		return 0, &domain.StoreError{Op: "insert hotel", Err: err}
	}
	return id, nil
}

func (r *Repo) GetHotel(ctx context.Context, id int64) (h domain.Hotel, err error) {
	defer observe("get_hotel", time.Now(), &err)
	if err = r.q.GetContext(ctx, &h, selectHotelSQL+" WHERE id = ?", id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Hotel{}, domain.ErrNotFound
		}
		return domain.Hotel{}, &domain.StoreError{Op: "get hotel", Err: err}
	}
	return h, nil
}

func (r *Repo) ListHotels(ctx context.Context, f domain.HotelFilter) (out []domain.Hotel, err error) {
	defer observe("list_hotels", time.Now(), &err)
	q := selectHotelSQL
	var args []any
	if f.Search != "" {
		q += " WHERE " + r.d.contains("nombre") + " OR " + r.d.contains("ciudad")
		args = append(args, f.Search, f.Search)
	}
	q += " ORDER BY id"
	if err = r.q.SelectContext(ctx, &out, q, args...); err != nil {
		return nil, &domain.StoreError{Op: "list hotels", Err: err}
	}
	return out, nil
}

func (r *Repo) CountHotels(ctx context.Context) (n int, err error) {
	defer observe("count_hotels", time.Now(), &err)
	if err = r.q.GetContext(ctx, &n, "SELECT COUNT(*) FROM hotel"); err != nil {
		return 0, &domain.StoreError{Op: "count hotels", Err: err}
	}
	return n, nil
}

func (r *Repo) UpdateHotel(ctx context.Context, id int64, c domain.HotelChanges) error {
	var sets []string
	var args []any
	set := func(col string, v any) {
		sets = append(sets, col+" = ?")
		args = append(args, v)
	}
	if c.Name != nil {
		set("nombre", *c.Name)
	}
	if c.City != nil {
		set("ciudad", *c.City)
	}
	if c.Country != nil {
		set("pais", *c.Country)
	}
	if c.Address != nil {
		set("direccion", valStr(*c.Address))
	}
	if c.StarRating != nil {
		set("estrellas", *c.StarRating)
	}
	if c.Description != nil {
		set("descripcion", valStr(*c.Description))
	}
	if c.PricePerNight != nil {
		set("precio_noche", *c.PricePerNight)
	}
	return r.update(ctx, "update hotel", "hotel", id, sets, args)
}

// ---- packages ----

func (r *Repo) InsertPackage(ctx context.Context, p domain.TourPackage) (id int64, err error) {
	defer observe("insert_package", time.Now(), &err)
	if p.CreatedAt.IsZero() {
		p.CreatedAt = r.now()
	}
	res, err := r.q.ExecContext(ctx, insertPackageSQL,
		p.Name,
		p.Description,
		p.DurationDays,
		p.TotalPrice,
		valStr(p.Activities),
		p.HotelID,
		p.Available,
		p.CreatedAt,
	)
	if err != nil {
		return 0, &domain.StoreError{Op: "insert package", Err: err}
	}
	if id, err = res.LastInsertId(); err != nil {
		return 0, &domain.StoreError{Op: "insert package", Err: err}
	}
	return id, nil
}

func (r *Repo) GetPackage(ctx context.Context, id int64) (p domain.TourPackage, err error) {
	defer observe("get_package", time.Now(), &err)
	if err = r.q.GetContext(ctx, &p, selectPackageSQL+" WHERE id = ?", id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.TourPackage{}, domain.ErrNotFound
		}
		return domain.TourPackage{}, &domain.StoreError{Op: "get package", Err: err}
	}
	return p, nil
}

func packageWhere(f domain.PackageFilter) (string, []any) {
	var conds []string
	var args []any
	if f.AvailableOnly {
		conds = append(conds, "disponible = ?")
		args = append(args, true)
	}
	if f.HotelID != nil {
		conds = append(conds, "hotel_id = ?")
		args = append(args, *f.HotelID)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (r *Repo) ListPackages(ctx context.Context, f domain.PackageFilter) (out []domain.TourPackage, err error) {
	defer observe("list_packages", time.Now(), &err)
	where, args := packageWhere(f)
	if err = r.q.SelectContext(ctx, &out, selectPackageSQL+where+" ORDER BY id", args...); err != nil {
		return nil, &domain.StoreError{Op: "list packages", Err: err}
	}
	return out, nil
}

// PackagesForHotel is the explicit back-reference from a hotel to its packages.
func (r *Repo) PackagesForHotel(ctx context.Context, hotelID int64) ([]domain.TourPackage, error) {
	return r.ListPackages(ctx, domain.PackageFilter{HotelID: &hotelID})
}

func (r *Repo) CountPackages(ctx context.Context, f domain.PackageFilter) (n int, err error) {
	defer observe("count_packages", time.Now(), &err)
	where, args := packageWhere(f)
	if err = r.q.GetContext(ctx, &n, "SELECT COUNT(*) FROM paquete_turistico"+where, args...); err != nil {
		return 0, &domain.StoreError{Op: "count packages", Err: err}
	}
	return n, nil
}

func (r *Repo) UpdatePackage(ctx context.Context, id int64, c domain.PackageChanges) error {
	var sets []string
	var args []any
	set := func(col string, v any) {
		sets = append(sets, col+" = ?")
		args = append(args, v)
	}
	if c.Name != nil {
		set("nombre", *c.Name)
	}
	if c.Description != nil {
		set("descripcion", *c.Description)
	}
	if c.DurationDays != nil {
		set("duracion_dias", *c.DurationDays)
	}
	if c.TotalPrice != nil {
		set("precio_total", *c.TotalPrice)
	}
	if c.Activities != nil {
		set("actividades", valStr(*c.Activities))
	}
	if c.HotelID != nil {
		set("hotel_id", *c.HotelID)
	}
	if c.Available != nil {
		set("disponible", *c.Available)
	}
	return r.update(ctx, "update package", "paquete_turistico", id, sets, args)
}

// update applies sets to one row inside a transaction (the caller's, when
// the repo came from InTx). The row is looked up first so a missing id is
// reported as ErrNotFound; any failure rolls back.
func (r *Repo) update(ctx context.Context, op, table string, id int64, sets []string, args []any) (err error) {
	defer observe(strings.ReplaceAll(op, " ", "_"), time.Now(), &err)

	if r.tx != nil {
		return updateRow(ctx, r.tx, op, table, id, sets, args)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return &domain.StoreError{Op: op, Err: err}
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = updateRow(ctx, tx, op, table, id, sets, args); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return &domain.StoreError{Op: op, Err: err}
	}
	return nil
}

func updateRow(ctx context.Context, q dbtx, op, table string, id int64, sets []string, args []any) error {
	var found int64
	if err := q.GetContext(ctx, &found, "SELECT id FROM "+table+" WHERE id = ?", id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		return &domain.StoreError{Op: op, Err: err}
	}

	if len(sets) > 0 {
		stmt := "UPDATE " + table + " SET " + strings.Join(sets, ", ") + " WHERE id = ?"
		if _, err := q.ExecContext(ctx, stmt, append(args, id)...); err != nil {
			return &domain.StoreError{Op: op, Err: err}
		}
	}
	return nil
}

func observe(op string, start time.Time, err *error) {
	result := "ok"
	switch {
	case *err == nil:
	case errors.Is(*err, domain.ErrNotFound):
		result = "not_found"
	default:
		result = "error"
	}
	observability.ObserveStore(op, result, time.Since(start))
}
