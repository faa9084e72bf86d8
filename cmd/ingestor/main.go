package main

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"sync"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"mother_homes/internal/adapters/observability"
	redisad "mother_homes/internal/adapters/redis"
	"mother_homes/internal/app"
	"mother_homes/internal/shared"
	mysqlrepo "mother_homes/internal/storage/mysql"
)

// Ingests every workbook under INGEST_DIR, one batch per file, with a
// bounded number of concurrent runs. Batches share nothing but the stores.
func main() {
	ctx := context.Background()
	cfg := shared.Load()

	// 1) initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	log.Info().
		Str("dir", cfg.IngestDir).
		Int("workers", cfg.Workers).
		Msg("ingestor starting")

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	repo := mysqlrepo.New(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		log.Fatal().Err(err).Msg("schema bootstrap failed")
	}
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	ing := app.NewIngestionService(repo, repo, cache)

	files, err := filepath.Glob(filepath.Join(cfg.IngestDir, "*.xlsx"))
	if err != nil {
		log.Fatal().Err(err).Msg("bad ingest dir glob")
	}
	if len(files) == 0 {
		log.Warn().Str("dir", cfg.IngestDir).Msg("no workbooks found")
		return
	}

	sem := semaphore.NewWeighted(int64(cfg.Workers))
	var wg sync.WaitGroup

	for _, path := range files {
		path := path

		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, int64(1)); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func(path string) {
			defer wg.Done()
			defer sem.Release(int64(1))

			buf, err := os.ReadFile(path)
			if err != nil {
				log.Warn().Str("file", path).Err(err).Msg("read failed")
				return
			}
			res, err := ing.Run(ctx, buf)
			if err != nil {
				log.Warn().Str("file", path).Err(err).Msg("ingest failed")
				return
			}
			for _, re := range res.Errors {
				log.Warn().Str("file", path).Int("row", re.Row).Msg(re.Message)
			}
			log.Info().
				Str("file", path).
				Int("accepted", res.SuccessCount).
				Int("rejected", len(res.Errors)).
				Msg("ingest ok")
		}(path)
	}

	wg.Wait()
	log.Info().Msg("ingestion completed")
}
