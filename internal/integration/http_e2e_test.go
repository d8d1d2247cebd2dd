//go:build integration

package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	server "turismo/internal/adapters/http_server"
	"turismo/internal/app"
	"turismo/internal/domain"
	"turismo/internal/seed"
	"turismo/internal/storage/sqlstore"
)

// ---------- helpers ----------

func startMySQL(t *testing.T) *sqlx.DB {
	t.Helper()
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}
	runOpts := &dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=root",
			"MYSQL_DATABASE=turismo",
		},
	}
	resource, err := pool.RunWithOptions(runOpts, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	dsn := fmt.Sprintf("root:root@tcp(127.0.0.1:%s)/turismo?parseTime=true&charset=utf8mb4&loc=UTC",
		resource.GetPort("3306/tcp"))

	var db *sqlx.DB
	if err := pool.Retry(func() error {
		var e error
		db, e = sqlstore.Open(context.Background(), "mysql", dsn)
		return e
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := sqlstore.Migrate(context.Background(), db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func do(t *testing.T, h http.Handler, method, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// ---------- the test ----------

func TestHTTP_EndToEnd_MySQL(t *testing.T) {
	db := startMySQL(t)
	ctx := context.Background()
	repo := sqlstore.New(db)

	if seeded, err := seed.IfEmpty(ctx, repo); err != nil || !seeded {
		t.Fatalf("seed: seeded=%v err=%v", seeded, err)
	}

	views, err := server.NewViews()
	if err != nil {
		t.Fatalf("views: %v", err)
	}
	srv := server.New(10 * time.Second)
	srv.MountHandlers(&server.Handlers{
		Q:     app.NewQueryService(repo, nil, time.Minute),
		C:     app.NewCommandService(repo, nil),
		Views: views,
	})
	h := srv.Mux()

	// dashboard counts from the seeded examples
	rec := do(t, h, http.MethodGet, "/api/v1/stats", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("stats status=%d body=%s", rec.Code, rec.Body.String())
	}
	var stats domain.DashboardStats
	if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	if stats.TotalHotels != 3 || stats.TotalPackages != 3 || stats.AvailablePackages != 3 {
		t.Fatalf("unexpected stats: %+v", stats)
	}

	// create a hotel through the form route
	form := url.Values{
		"nombre":       {"Hotel Andino"},
		"ciudad":       {"Cusco"},
		"pais":         {"Perú"},
		"estrellas":    {"4"},
		"precio_noche": {"120,50"},
	}
	rec = do(t, h, http.MethodPost, "/hoteles/crear", form)
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/hoteles" {
		t.Fatalf("create hotel: status=%d location=%q", rec.Code, rec.Header().Get("Location"))
	}

	// search stays case-sensitive under MySQL's default collation
	if body := do(t, h, http.MethodGet, "/hoteles?busqueda=Cusco", nil).Body.String(); !strings.Contains(body, "Hotel Andino") {
		t.Fatalf("search by city missed the new hotel")
	}
	if body := do(t, h, http.MethodGet, "/hoteles?busqueda=cusco", nil).Body.String(); strings.Contains(body, "Hotel Andino") {
		t.Fatalf("lowercase search should not match")
	}

	// toggle the first seeded package twice
	ps, err := repo.ListPackages(ctx, domain.PackageFilter{})
	if err != nil || len(ps) == 0 {
		t.Fatalf("list packages: %v", err)
	}
	path := fmt.Sprintf("/paquetes/%d/toggle", ps[0].ID)
	for i := 0; i < 2; i++ {
		if rec := do(t, h, http.MethodGet, path, nil); rec.Code != http.StatusSeeOther {
			t.Fatalf("toggle %d: status=%d", i, rec.Code)
		}
	}
	got, err := repo.GetPackage(ctx, ps[0].ID)
	if err != nil {
		t.Fatalf("get package: %v", err)
	}
	if got.Available != ps[0].Available {
		t.Fatalf("double toggle changed availability")
	}

	if rec := do(t, h, http.MethodGet, "/paquetes/99999", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("unknown package: status=%d", rec.Code)
	}
}
