//go:build integration || !unit

package mysql_test

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	"mother_homes/internal/domain"
	mysqlrepo "mother_homes/internal/storage/mysql"
)

func pstr(s string) *string { return &s }

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

func seedVocabulary(t *testing.T, db *sql.DB) {
	t.Helper()
	for _, name := range []string{"Wifi", "Parking"} {
		if _, err := db.Exec(`INSERT INTO amenities (name) VALUES (?)`, name); err != nil {
			t.Fatalf("seed amenity %s: %v", name, err)
		}
	}
	if _, err := db.Exec(`INSERT INTO services (name) VALUES (?)`, "Cleaning"); err != nil {
		t.Fatalf("seed service: %v", err)
	}
}

func TestRepo_MySQL_BulkInsertAndQuery(t *testing.T) {
	db := startMySQL(t)
	repo := mysqlrepo.New(db)
	ctx := context.Background()

	if err := repo.EnsureSchema(ctx); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}
	seedVocabulary(t, db)

	ams, err := repo.ListAmenities(ctx)
	if err != nil {
		t.Fatalf("ListAmenities: %v", err)
	}
	if len(ams) != 2 || ams[0].Name != "Wifi" {
		t.Fatalf("unexpected amenities: %+v", ams)
	}
	svcs, err := repo.ListServices(ctx)
	if err != nil {
		t.Fatalf("ListServices: %v", err)
	}
	if len(svcs) != 1 || svcs[0].Name != "Cleaning" {
		t.Fatalf("unexpected services: %+v", svcs)
	}

	// Empty batch is a no-op, not an empty INSERT.
	if err := repo.InsertProperties(ctx, nil); err != nil {
		t.Fatalf("empty InsertProperties: %v", err)
	}

	batch := []domain.NormalizedProperty{
		{
			PropertyName:   "Sea View",
			Description:    "near the beach",
			Rate:           "5000",
			Category:       domain.CategoryPG,
			PerPersonPrice: pstr("1200"),
			AmenityIDs:     []int64{ams[0].ID, ams[1].ID},
			ServiceIDs:     []int64{svcs[0].ID},
			Images:         []string{"http://img/1.jpg", "http://img/2.jpg"},
			Videos:         []string{},
			City:           "Goa",
			State:          "GA",
			Address:        "1 Beach Rd",
			Latitude:       pstr("15.29"),
			Longitude:      pstr("74.12"),
			Bed:            2,
			Bathroom:       1,
			Area:           "900",
			FurnishingType: "Raw",
			Availability:   true,
		},
		{
			PropertyName:   "Hilltop",
			Rate:           "9000",
			Category:       domain.CategoryRent,
			AmenityIDs:     []int64{},
			ServiceIDs:     []int64{},
			Images:         []string{},
			Videos:         []string{},
			City:           "Pune",
			State:          "MH",
			Address:        "9 Hill St",
			FurnishingType: "Raw",
		},
	}
	if err := repo.InsertProperties(ctx, batch); err != nil {
		t.Fatalf("InsertProperties: %v", err)
	}

	page, err := repo.ListProperties(ctx, domain.PropertiesQuery{Limit: 10})
	if err != nil {
		t.Fatalf("ListProperties: %v", err)
	}
	if len(page.Items) != 2 {
		t.Fatalf("expected 2 properties, got %d", len(page.Items))
	}

	got, err := repo.GetProperty(ctx, page.Items[1].ID) // oldest first id, list is id DESC
	if err != nil {
		t.Fatalf("GetProperty: %v", err)
	}
	if got.PropertyName != "Sea View" || got.Category != domain.CategoryPG {
		t.Fatalf("unexpected property: %+v", got)
	}
	if len(got.AmenityIDs) != 2 || got.AmenityIDs[0] != ams[0].ID {
		t.Fatalf("amenity ids did not round-trip: %v", got.AmenityIDs)
	}
	if len(got.Images) != 2 || got.Images[0] != "http://img/1.jpg" {
		t.Fatalf("images did not round-trip: %v", got.Images)
	}
	if got.PerPersonPrice == nil || *got.PerPersonPrice != "1200" {
		t.Fatalf("perPersonPrice did not round-trip: %v", got.PerPersonPrice)
	}
	if got.FlatNo != nil || got.TotalCapacity != nil {
		t.Fatalf("absent optionals must stay NULL: %+v", got)
	}
	if !got.Availability {
		t.Fatalf("availability did not round-trip")
	}

	rentOnly, err := repo.ListProperties(ctx, domain.PropertiesQuery{Limit: 10, Category: pstr(domain.CategoryRent)})
	if err != nil {
		t.Fatalf("ListProperties(rent): %v", err)
	}
	if len(rentOnly.Items) != 1 || rentOnly.Items[0].PropertyName != "Hilltop" {
		t.Fatalf("unexpected rent listing: %+v", rentOnly.Items)
	}

	if _, err := repo.GetProperty(ctx, 999999); err != domain.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
