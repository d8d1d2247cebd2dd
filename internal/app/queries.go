package app

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"turismo/internal/domain"
)

const keyStats = "stats:dashboard"

func hotelKey(id int64) string { return fmt.Sprintf("hotel:%d", id) }

// genKey names the write counter of a cached read model. Commands bump it
// after every write that touches the model.
func genKey(key string) string { return "gen:" + key }

// cacheEntry is a read model tagged with the generation it was built under.
// An entry from an older generation is never served, so a read that raced a
// write cannot leave a stale page behind.
type cacheEntry struct {
	Gen int64           `json:"gen"`
	Val json.RawMessage `json:"val"`
}

type QueryService struct {
	store    domain.Store
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewQueryService(store domain.Store, c domain.Cache, ttl time.Duration) *QueryService {
	return &QueryService{store: store, cache: c, cacheTTL: ttl}
}

func (s *QueryService) Dashboard(ctx context.Context) (domain.DashboardStats, error) {
	var st domain.DashboardStats
	gen, hit := s.lookup(ctx, keyStats, &st)
	if hit {
		return st, nil
	}

	var err error
	if st.TotalHotels, err = s.store.CountHotels(ctx); err != nil {
		return domain.DashboardStats{}, err
	}
	if st.TotalPackages, err = s.store.CountPackages(ctx, domain.PackageFilter{}); err != nil {
		return domain.DashboardStats{}, err
	}
	if st.AvailablePackages, err = s.store.CountPackages(ctx, domain.PackageFilter{AvailableOnly: true}); err != nil {
		return domain.DashboardStats{}, err
	}
	s.remember(ctx, keyStats, gen, st)
	return st, nil
}

// ListHotels lists every hotel, or those whose name or city contains search.
func (s *QueryService) ListHotels(ctx context.Context, search string) ([]domain.Hotel, error) {
	return s.store.ListHotels(ctx, domain.HotelFilter{Search: search})
}

func (s *QueryService) HotelDetail(ctx context.Context, id int64) (domain.HotelDetail, error) {
	key := hotelKey(id)
	var hd domain.HotelDetail
	gen, hit := s.lookup(ctx, key, &hd)
	if hit {
		return hd, nil
	}

	h, err := s.store.GetHotel(ctx, id)
	if err != nil {
		return domain.HotelDetail{}, err
	}
	ps, err := s.store.ListPackages(ctx, domain.PackageFilter{HotelID: &id})
	if err != nil {
		return domain.HotelDetail{}, err
	}
	hd = domain.HotelDetail{Hotel: h, Packages: ps}
	s.remember(ctx, key, gen, hd)
	return hd, nil
}

func (s *QueryService) ListPackages(ctx context.Context, availableOnly bool) ([]domain.TourPackage, error) {
	return s.store.ListPackages(ctx, domain.PackageFilter{AvailableOnly: availableOnly})
}

// PackageListing is ListPackages with each package's hotel attached, for the
// list page. Two reads, no per-row lookups.
func (s *QueryService) PackageListing(ctx context.Context, availableOnly bool) ([]domain.PackageDetail, error) {
	ps, err := s.store.ListPackages(ctx, domain.PackageFilter{AvailableOnly: availableOnly})
	if err != nil {
		return nil, err
	}
	if len(ps) == 0 {
		return nil, nil
	}
	hs, err := s.store.ListHotels(ctx, domain.HotelFilter{})
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]*domain.Hotel, len(hs))
	for i := range hs {
		byID[hs[i].ID] = &hs[i]
	}
	out := make([]domain.PackageDetail, 0, len(ps))
	for _, p := range ps {
		out = append(out, domain.PackageDetail{Package: p, Hotel: byID[p.HotelID]})
	}
	return out, nil
}

// PackageDetail returns the package with its hotel attached when it resolves.
func (s *QueryService) PackageDetail(ctx context.Context, id int64) (domain.PackageDetail, error) {
	p, err := s.store.GetPackage(ctx, id)
	if err != nil {
		return domain.PackageDetail{}, err
	}
	out := domain.PackageDetail{Package: p}
	if h, err := s.store.GetHotel(ctx, p.HotelID); err == nil {
		out.Hotel = &h
	}
	return out, nil
}

// lookup reads the current generation of key and decodes the cached entry
// into dst when it was built under that generation. A negative generation
// means the cache can't be used for this read. A zero TTL turns caching off.
func (s *QueryService) lookup(ctx context.Context, key string, dst any) (gen int64, hit bool) {
	if s.cache == nil || s.cacheTTL <= 0 {
		return -1, false
	}
	if _, err := s.cache.Get(ctx, genKey(key), &gen); err != nil {
		return -1, false
	}
	var e cacheEntry
	ok, err := s.cache.Get(ctx, key, &e)
	if err != nil || !ok || e.Gen != gen {
		return gen, false
	}
	if err := json.Unmarshal(e.Val, dst); err != nil {
		return gen, false
	}
	return gen, true
}

func (s *QueryService) remember(ctx context.Context, key string, gen int64, v any) {
	if gen < 0 {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	ttl := int(s.cacheTTL.Seconds())
	if ttl < 1 {
		ttl = 1
	}
	_ = s.cache.Set(ctx, key, cacheEntry{Gen: gen, Val: b}, ttl)
}
