package app

import (
	"context"
	"fmt"
	"strings"

	"mother_homes/internal/domain"
)

// vocabIndex maps lower-cased trimmed vocabulary names to their stable ids.
// It is rebuilt from the stores at the start of every ingestion run so
// vocabulary edits made between runs are always picked up; entries are
// never mutated mid-batch.
type vocabIndex struct {
	amenities map[string]int64
	services  map[string]int64
}

func buildVocabIndex(ctx context.Context, store domain.VocabularyStore) (*vocabIndex, error) {
	ams, err := store.ListAmenities(ctx)
	if err != nil {
		return nil, fmt.Errorf("list amenities: %w", err)
	}
	svcs, err := store.ListServices(ctx)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	return &vocabIndex{amenities: indexByName(ams), services: indexByName(svcs)}, nil
}

func indexByName(entries []domain.VocabularyEntry) map[string]int64 {
	m := make(map[string]int64, len(entries))
	for _, e := range entries {
		m[strings.ToLower(strings.TrimSpace(e.Name))] = e.ID
	}
	return m
}
