//go:build integration || !unit

package integration

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/xuri/excelize/v2"
	"golang.org/x/time/rate"

	server "mother_homes/internal/adapters/http_server"
	redisad "mother_homes/internal/adapters/redis"
	"mother_homes/internal/app"
	"mother_homes/internal/domain"
	mysqlrepo "mother_homes/internal/storage/mysql"
)

func startMySQL(t *testing.T) *sql.DB {
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
			"MYSQL_DATABASE=motherhomes",
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

	hostPort := resource.GetPort("3306/tcp")
	dsn := fmt.Sprintf("root:root@tcp(127.0.0.1:%s)/motherhomes?parseTime=true&multiStatements=true&charset=utf8mb4,utf8&loc=UTC", hostPort)

	var db *sql.DB
	if err := pool.Retry(func() error {
		var e error
		db, e = sql.Open("mysql", dsn)
		if e != nil {
			return e
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func uploadWorkbook(t *testing.T, rows ...[]any) (*bytes.Buffer, string) {
	t.Helper()
	f := excelize.NewFile()
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		if err := f.SetSheetRow("Sheet1", cell, &r); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}
	wb, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write workbook: %v", err)
	}

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	fw, err := mw.CreateFormFile("file", "batch.xlsx")
	if err != nil {
		t.Fatalf("form file: %v", err)
	}
	if _, err := fw.Write(wb.Bytes()); err != nil {
		t.Fatalf("write form: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close form: %v", err)
	}
	return body, mw.FormDataContentType()
}

func TestHTTP_EndToEnd_BulkUpload(t *testing.T) {
	db := startMySQL(t)
	repo := mysqlrepo.New(db)
	ctx := context.Background()

	if err := repo.EnsureSchema(ctx); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO amenities (name) VALUES ('Wifi'), ('Parking')`); err != nil {
		t.Fatalf("seed amenities: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO services (name) VALUES ('Cleaning')`); err != nil {
		t.Fatalf("seed services: %v", err)
	}

	mr := miniredis.RunT(t)
	cache := redisad.New(mr.Addr(), "", 0)
	defer cache.Close()

	ing := app.NewIngestionService(repo, repo, cache)
	q := app.NewQueryService(repo, cache, 10*time.Minute)

	srv := server.New(rate.NewLimiter(rate.Limit(100), 100))
	srv.MountHandlers(&server.Handlers{Ing: ing, Q: q, MaxUpload: 10 << 20})
	ts := httptest.NewServer(srv.Mux())
	defer ts.Close()

	body, ctype := uploadWorkbook(t,
		[]any{"property_name", "address", "city", "state", "rate", "category", "amenities", "availability"},
		[]any{"Sea View", "1 Beach Rd", "Goa", "GA", 5000, "PG", "Wifi, Jacuzzi", "yes"},
		[]any{"Broken", "", "Goa", "GA", 100, "rent", "", ""},
	)
	res, err := http.Post(ts.URL+"/v1/properties/bulk-upload", ctype, body)
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status %d", res.StatusCode)
	}

	var report domain.IngestionResult
	if err := json.NewDecoder(res.Body).Decode(&report); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if report.SuccessCount != 1 {
		t.Fatalf("successCount: %+v", report)
	}
	if len(report.Errors) != 1 || report.Errors[0].Row != 3 {
		t.Fatalf("unexpected errors: %+v", report.Errors)
	}
	if len(report.Warnings) != 1 || report.Warnings[0].Unmatched[0] != "jacuzzi" {
		t.Fatalf("unexpected warnings: %+v", report.Warnings)
	}

	// Committed row is readable through the cached listing endpoint.
	lres, err := http.Get(ts.URL + "/v1/properties?limit=10")
	if err != nil {
		t.Fatalf("GET listing: %v", err)
	}
	defer lres.Body.Close()
	if lres.StatusCode != http.StatusOK {
		t.Fatalf("listing status %d", lres.StatusCode)
	}
	var page domain.PropertiesPage
	if err := json.NewDecoder(lres.Body).Decode(&page); err != nil {
		t.Fatalf("decode listing: %v", err)
	}
	if len(page.Items) != 1 {
		t.Fatalf("expected 1 property, got %+v", page.Items)
	}
	got := page.Items[0]
	if got.PropertyName != "Sea View" || got.Category != "pg" || !got.Availability {
		t.Fatalf("unexpected property: %+v", got)
	}
	if len(got.AmenityIDs) != 1 {
		t.Fatalf("expected the single matched amenity id, got %v", got.AmenityIDs)
	}
}
