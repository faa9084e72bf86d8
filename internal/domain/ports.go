package domain

import "context"

type VocabularyStore interface {
	ListAmenities(ctx context.Context) ([]VocabularyEntry, error)
	ListServices(ctx context.Context) ([]VocabularyEntry, error)
}

type PropertyStore interface {
	// Write path: single bulk insert, one transaction for the whole slice.
	InsertProperties(ctx context.Context, ps []NormalizedProperty) error

	// Read paths
	GetProperty(ctx context.Context, id int64) (PropertyView, error)
	ListProperties(ctx context.Context, q PropertiesQuery) (PropertiesPage, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}
