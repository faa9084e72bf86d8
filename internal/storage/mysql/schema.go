package mysql

import "context"

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS amenities (
  id   BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
  name VARCHAR(191) NOT NULL,
  UNIQUE KEY uq_amenities_name (name)
)`,
	`CREATE TABLE IF NOT EXISTS services (
  id   BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
  name VARCHAR(191) NOT NULL,
  UNIQUE KEY uq_services_name (name)
)`,
	`CREATE TABLE IF NOT EXISTS properties (
  id               BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
  property_name    VARCHAR(255) NOT NULL,
  description      TEXT NOT NULL,
  rate             VARCHAR(64) NOT NULL,
  category         VARCHAR(32) NOT NULL,
  per_person_price VARCHAR(64) NULL,
  total_capacity   VARCHAR(64) NULL,
  amenity_ids      JSON NOT NULL,
  service_ids      JSON NOT NULL,
  images           JSON NOT NULL,
  videos           JSON NOT NULL,
  city             VARCHAR(128) NOT NULL,
  state            VARCHAR(128) NOT NULL,
  address          VARCHAR(512) NOT NULL,
  flat_no          VARCHAR(64) NULL,
  latitude         VARCHAR(64) NULL,
  longitude        VARCHAR(64) NULL,
  bed              INT NOT NULL DEFAULT 0,
  bathroom         INT NOT NULL DEFAULT 0,
  area             VARCHAR(64) NOT NULL DEFAULT '',
  furnishing_type  VARCHAR(64) NOT NULL DEFAULT 'Raw',
  availability     TINYINT(1) NOT NULL DEFAULT 0,
  created_at       TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
  KEY idx_properties_category (category),
  KEY idx_properties_city (city)
)`,
}

// EnsureSchema creates the vocabulary and property tables when missing.
func (r *Repo) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
