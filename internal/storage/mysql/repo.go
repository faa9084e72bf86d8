package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"

	"mother_homes/internal/domain"
)

func valStr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

func mustJSON(v any) string {
	b, _ := json.Marshal(v)
	return string(b)
}

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

// ---- vocabulary store ----

func (r *Repo) ListAmenities(ctx context.Context) ([]domain.VocabularyEntry, error) {
	return r.listVocab(ctx, listAmenitiesSQL)
}

func (r *Repo) ListServices(ctx context.Context) ([]domain.VocabularyEntry, error) {
	return r.listVocab(ctx, listServicesSQL)
}

func (r *Repo) listVocab(ctx context.Context, query string) ([]domain.VocabularyEntry, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.VocabularyEntry
	for rows.Next() {
		var e domain.VocabularyEntry
		if err := rows.Scan(&e.ID, &e.Name); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// ---- property store ----

// InsertProperties writes the whole batch as one multi-row INSERT inside a
// single transaction: either every row lands or none does, so a rejected
// commit never leaves a partial prefix behind.
func (r *Repo) InsertProperties(ctx context.Context, ps []domain.NormalizedProperty) error {
	if len(ps) == 0 {
		return nil
	}
	values := make([]string, 0, len(ps))
	args := make([]any, 0, len(ps)*21) // 21 params per row
	for _, p := range ps {
		values = append(values, "(?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)")
		args = append(args,
			p.PropertyName,
			p.Description,
			p.Rate,
			p.Category,
			valStr(p.PerPersonPrice),
			valStr(p.TotalCapacity),
			mustJSON(p.AmenityIDs),
			mustJSON(p.ServiceIDs),
			mustJSON(p.Images),
			mustJSON(p.Videos),
			p.City,
			p.State,
			p.Address,
			valStr(p.FlatNo),
			valStr(p.Latitude),
			valStr(p.Longitude),
			p.Bed,
			p.Bathroom,
			p.Area,
			p.FurnishingType,
			p.Availability,
		)
	}
	sqlStr := insertPropertiesPrefix + strings.Join(values, ",")

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, sqlStr, args...); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func (r *Repo) GetProperty(ctx context.Context, id int64) (domain.PropertyView, error) {
	row := r.db.QueryRowContext(ctx, getPropertySQL, id)
	pv, err := scanProperty(row)
	if err == sql.ErrNoRows {
		return domain.PropertyView{}, domain.ErrNotFound
	}
	return pv, err
}

func (r *Repo) ListProperties(ctx context.Context, q domain.PropertiesQuery) (domain.PropertiesPage, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = 50
	}
	var (
		rows *sql.Rows
		err  error
	)
	if q.Category != nil {
		rows, err = r.db.QueryContext(ctx, listPropertiesByCategorySQL, *q.Category, limit)
	} else {
		rows, err = r.db.QueryContext(ctx, listPropertiesSQL, limit)
	}
	if err != nil {
		return domain.PropertiesPage{}, err
	}
	defer rows.Close()

	var out []domain.PropertyView
	for rows.Next() {
		pv, err := scanProperty(rows)
		if err != nil {
			return domain.PropertiesPage{}, err
		}
		out = append(out, pv)
	}
	if err := rows.Err(); err != nil {
		return domain.PropertiesPage{}, err
	}
	return domain.PropertiesPage{Items: out}, nil
}

type rowScanner interface{ Scan(dest ...any) error }

func scanProperty(row rowScanner) (domain.PropertyView, error) {
	var pv domain.PropertyView
	var (
		perPerson, totalCap, flatNo, lat, lon sql.NullString
		amenityJSON, serviceJSON              []byte
		imagesJSON, videosJSON                []byte
	)
	if err := row.Scan(
		&pv.ID,
		&pv.PropertyName,
		&pv.Description,
		&pv.Rate,
		&pv.Category,
		&perPerson,
		&totalCap,
		&amenityJSON,
		&serviceJSON,
		&imagesJSON,
		&videosJSON,
		&pv.City,
		&pv.State,
		&pv.Address,
		&flatNo,
		&lat,
		&lon,
		&pv.Bed,
		&pv.Bathroom,
		&pv.Area,
		&pv.FurnishingType,
		&pv.Availability,
	); err != nil {
		return domain.PropertyView{}, err
	}

	if perPerson.Valid {
		s := perPerson.String
		pv.PerPersonPrice = &s
	}
	if totalCap.Valid {
		s := totalCap.String
		pv.TotalCapacity = &s
	}
	if flatNo.Valid {
		s := flatNo.String
		pv.FlatNo = &s
	}
	if lat.Valid {
		s := lat.String
		pv.Latitude = &s
	}
	if lon.Valid {
		s := lon.String
		pv.Longitude = &s
	}
	_ = json.Unmarshal(amenityJSON, &pv.AmenityIDs)
	_ = json.Unmarshal(serviceJSON, &pv.ServiceIDs)
	_ = json.Unmarshal(imagesJSON, &pv.Images)
	_ = json.Unmarshal(videosJSON, &pv.Videos)
	return pv, nil
}
