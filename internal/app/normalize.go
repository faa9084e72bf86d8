package app

import (
	"fmt"
	"strconv"
	"strings"

	"mother_homes/internal/domain"
)

var requiredColumns = []string{"property_name", "address", "city", "state", "rate", "category"}

// normalizeRow validates one decoded row and coerces it into a
// NormalizedProperty. The returned string slice lists amenity/service
// tokens that matched no vocabulary entry; they never fail the row.
// A non-nil error means the row is rejected and excluded from the commit.
func normalizeRow(row domain.RawRow, vocab *vocabIndex) (domain.NormalizedProperty, []string, error) {
	for _, col := range requiredColumns {
		if row.Cell(col).Empty() {
			return domain.NormalizedProperty{}, nil, fmt.Errorf("Missing required fields in row %d", row.Line)
		}
	}

	amenityIDs, missedAms := resolveNames(row.Cell("amenities"), vocab.amenities)
	serviceIDs, missedSvcs := resolveNames(row.Cell("services"), vocab.services)
	unmatched := append(missedAms, missedSvcs...)

	p := domain.NormalizedProperty{
		PropertyName:   row.Cell("property_name").String(),
		Description:    row.Cell("description").String(),
		Rate:           row.Cell("rate").String(),
		Category:       strings.ToLower(row.Cell("category").String()),
		PerPersonPrice: optString(row.Cell("perPersonPrice")),
		TotalCapacity:  optString(row.Cell("totalCapacity")),
		AmenityIDs:     amenityIDs,
		ServiceIDs:     serviceIDs,
		Images:         splitList(row.Cell("images")),
		Videos:         splitList(row.Cell("videos")),
		City:           row.Cell("city").String(),
		State:          row.Cell("state").String(),
		Address:        row.Cell("address").String(),
		FlatNo:         optString(row.Cell("flat_no")),
		Latitude:       optString(row.Cell("latitude")),
		Longitude:      optString(row.Cell("longitude")),
		Bed:            intOrZero(row.Cell("bed")),
		Bathroom:       intOrZero(row.Cell("bathroom")),
		Area:           row.Cell("area").String(),
		FurnishingType: row.Cell("furnishing_type").String(),
		Availability:   truthy(row.Cell("availability")),
	}
	if p.FurnishingType == "" {
		p.FurnishingType = domain.DefaultFurnishing
	}
	return p, unmatched, nil
}

// resolveNames splits comma-separated free text, trims and lower-cases
// each token and looks it up. Matches keep file order and duplicates;
// misses are collected for the warning report.
func resolveNames(c domain.Cell, lookup map[string]int64) ([]int64, []string) {
	ids := []int64{}
	if c.Empty() {
		return ids, nil
	}
	var missed []string
	for _, tok := range strings.Split(c.String(), ",") {
		name := strings.ToLower(strings.TrimSpace(tok))
		if name == "" {
			continue
		}
		if id, ok := lookup[name]; ok {
			ids = append(ids, id)
		} else {
			missed = append(missed, name)
		}
	}
	return ids, missed
}

// optString keeps absent optional fields absent instead of "".
func optString(c domain.Cell) *string {
	if c.Empty() {
		return nil
	}
	s := c.String()
	return &s
}

// splitList splits comma-separated URLs, trimming each token. Empty input
// yields an empty list, not [""].
func splitList(c domain.Cell) []string {
	if c.Empty() {
		return []string{}
	}
	parts := strings.Split(c.String(), ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, strings.TrimSpace(p))
	}
	return out
}

func intOrZero(c domain.Cell) int {
	switch c.Kind {
	case domain.CellNumber:
		return int(c.Num)
	case domain.CellString:
		s := strings.TrimSpace(c.Str)
		if n, err := strconv.Atoi(s); err == nil {
			return n
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return int(f)
		}
	}
	return 0
}

// truthy follows the upload contract: boolean true, the string "true" or
// the string "yes". Everything else, including "TRUE" text and numeric 1,
// is false.
func truthy(c domain.Cell) bool {
	switch c.Kind {
	case domain.CellBool:
		return c.Bool
	case domain.CellString:
		return c.Str == "true" || c.Str == "yes"
	}
	return false
}
