package query

// Record is one normalized output row: output field name -> value.
type Record map[string]any

// RecordSet is the ordered result of a multi-row query.
type RecordSet []Record

// Recordable is implemented by row structs that know their output shape.
//
// The struct is scanned by column name (pgx "db" tags), then Record() picks
// the fixed set of fields exposed to callers, whatever filters or ordering
// selected the row.
type Recordable interface {
	Record() Record
}
