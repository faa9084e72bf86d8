package domain

import "strconv"

// CellKind tags the variant held by a Cell.
type CellKind int

const (
	CellAbsent CellKind = iota
	CellString
	CellNumber
	CellBool
)

// Cell is one raw spreadsheet value. Exactly one variant is meaningful,
// selected by Kind; the zero value is an absent cell.
type Cell struct {
	Kind CellKind
	Str  string  // CellString and CellNumber (formatted value)
	Num  float64 // CellNumber
	Bool bool    // CellBool
}

func StringCell(s string) Cell { return Cell{Kind: CellString, Str: s} }

func NumberCell(s string, v float64) Cell { return Cell{Kind: CellNumber, Str: s, Num: v} }

func BoolCell(b bool) Cell { return Cell{Kind: CellBool, Bool: b} }

// Empty reports whether the cell is absent or holds an empty string.
func (c Cell) Empty() bool {
	return c.Kind == CellAbsent || (c.Kind == CellString && c.Str == "")
}

// String returns the cell's textual representation ("" when absent).
func (c Cell) String() string {
	switch c.Kind {
	case CellString, CellNumber:
		return c.Str
	case CellBool:
		return strconv.FormatBool(c.Bool)
	}
	return ""
}

// RawRow is one decoded data row. Line is the 1-indexed row in the source
// file (the header is line 1, so the first data row is line 2).
type RawRow struct {
	Line  int
	Cells map[string]Cell
}

// Cell returns the named cell, absent when the column is missing.
func (r RawRow) Cell(name string) Cell { return r.Cells[name] }

// VocabularyEntry is one controlled-vocabulary name (amenity or service)
// with its stable identifier.
type VocabularyEntry struct {
	ID   int64
	Name string
}

// Listing categories. The normalizer lower-cases but does not reject other
// values; rejecting here would fail whole batches on one bad cell.
const (
	CategoryRent = "rent"
	CategorySale = "sale"
	CategoryPG   = "pg"
)

// DefaultFurnishing is used when the furnishing_type column is empty.
const DefaultFurnishing = "Raw"

// NormalizedProperty is a listing that passed row validation. It is either
// committed whole or excluded whole; never partially persisted.
type NormalizedProperty struct {
	PropertyName string `json:"propertyName"`
	Description  string `json:"description"`
	Rate         string `json:"rate"`
	Category     string `json:"category"`

	PerPersonPrice *string `json:"perPersonPrice,omitempty"`
	TotalCapacity  *string `json:"totalCapacity,omitempty"`

	AmenityIDs []int64 `json:"amenityIds"`
	ServiceIDs []int64 `json:"serviceIds"`

	Images []string `json:"images"`
	Videos []string `json:"videos"`

	City      string  `json:"city"`
	State     string  `json:"state"`
	Address   string  `json:"address"`
	FlatNo    *string `json:"flatNo,omitempty"`
	Latitude  *string `json:"latitude,omitempty"`
	Longitude *string `json:"longitude,omitempty"`

	Bed            int    `json:"bed"`
	Bathroom       int    `json:"bathroom"`
	Area           string `json:"area"`
	FurnishingType string `json:"furnishingType"`

	Availability bool `json:"availability"`
}

// RowError reports one rejected row; Row is the 1-indexed file row.
type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// RowWarning lists amenity/service tokens on an accepted row that matched
// no vocabulary entry. Informational; the row still commits.
type RowWarning struct {
	Row       int      `json:"row"`
	Unmatched []string `json:"unmatched"`
}

// IngestionResult is the per-batch report. SuccessCount counts rows that
// passed validation and were handed to the committer.
type IngestionResult struct {
	SuccessCount int          `json:"successCount"`
	Errors       []RowError   `json:"errors"`
	Warnings     []RowWarning `json:"warnings,omitempty"`
}

// Read models & queries

type PropertyView struct {
	ID int64 `json:"id"`
	NormalizedProperty
}

type PropertiesQuery struct {
	Limit    int
	Category *string
}

type PropertiesPage struct {
	Items []PropertyView `json:"items"`
}
