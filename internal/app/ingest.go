package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"mother_homes/internal/adapters/observability"
	"mother_homes/internal/domain"
	"mother_homes/internal/excel"
)

type IngestionService struct {
	vocab domain.VocabularyStore
	props domain.PropertyStore
	cache domain.Cache
}

func NewIngestionService(v domain.VocabularyStore, p domain.PropertyStore, cache domain.Cache) *IngestionService {
	return &IngestionService{vocab: v, props: p, cache: cache}
}

// Run ingests one uploaded workbook. Row failures are absorbed into the
// result; decode and persistence failures are returned as errors and mean
// nothing was committed. SuccessCount counts rows that passed validation
// and were handed to the bulk insert.
func (s *IngestionService) Run(ctx context.Context, buf []byte) (domain.IngestionResult, error) {
	start := time.Now()

	// 1) Fresh lookup maps for this run.
	idx, err := buildVocabIndex(ctx, s.vocab)
	if err != nil {
		return domain.IngestionResult{}, err
	}

	// 2) Decode once; a bad buffer aborts before any row is touched.
	rows, err := excel.Decode(buf)
	if err != nil {
		return domain.IngestionResult{}, err
	}

	// 3) Validate/normalize each row in isolation.
	res := domain.IngestionResult{Errors: []domain.RowError{}}
	accepted := make([]domain.NormalizedProperty, 0, len(rows))
	for _, row := range rows {
		p, unmatched, rerr := normalizeRow(row, idx)
		if rerr != nil {
			res.Errors = append(res.Errors, domain.RowError{Row: row.Line, Message: rerr.Error()})
			observability.ObserveRow("rejected")
			continue
		}
		if len(unmatched) > 0 {
			res.Warnings = append(res.Warnings, domain.RowWarning{Row: row.Line, Unmatched: unmatched})
			observability.ObserveVocabMisses(len(unmatched))
		}
		accepted = append(accepted, p)
		observability.ObserveRow("accepted")
	}

	// 4) One bulk write for the surviving rows; empty set skips the write.
	if len(accepted) > 0 {
		if err := s.props.InsertProperties(ctx, accepted); err != nil {
			return domain.IngestionResult{}, fmt.Errorf("bulk insert: %w", err)
		}
		s.invalidateListings(ctx)
	}
	res.SuccessCount = len(accepted)

	observability.ObserveBatch(time.Since(start))
	log.Info().
		Int("rows", len(rows)).
		Int("accepted", res.SuccessCount).
		Int("rejected", len(res.Errors)).
		Dur("duration", time.Since(start)).
		Msg("batch ingested")
	return res, nil
}

// invalidateListings clears the common listing cache variants after a
// commit changed the property set.
func (s *IngestionService) invalidateListings(ctx context.Context) {
	if s.cache == nil {
		return
	}
	for _, lim := range []int{20, 50, 100} {
		for _, cat := range []string{"all", domain.CategoryRent, domain.CategorySale, domain.CategoryPG} {
			_ = s.cache.Del(ctx, listingKey(lim, cat))
		}
	}
}

func listingKey(limit int, category string) string {
	return fmt.Sprintf("properties:%d:%s", limit, category)
}
