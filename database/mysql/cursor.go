package mysql

import (
	"database/sql"
	"fmt"
	"slices"
	"strconv"

	"github.com/dbforge/mysqlconn/database/types"
	"github.com/dbforge/mysqlconn/logger"
)

// Cursor navigates the outcome of one executed statement. Result sets are
// fully materialized at construction: the driver resource is drained and
// released before the cursor is handed out, which is what makes Reset
// possible and frees the session for the next statement. Metadata (field
// names, field count, row count) is fixed at construction and never changes.
//
// A Cursor is not safe for concurrent use.
type Cursor struct {
	log logger.Logger

	hasResult  bool
	fieldNames []string
	rows       [][][]byte // nil cell = SQL NULL
	affected   uint64

	pos            int // -1 before the first row
	currentRow     [][]byte
	currentLengths []int
}

var _ types.Cursor = (*Cursor)(nil)

// newCursor drains rows into an in-memory cursor and releases the driver
// resource. A result with zero columns means the statement was not
// result-producing, which is distinct from a materialization failure.
func newCursor(rows *sql.Rows, log logger.Logger) (*Cursor, error) {
	defer rows.Close()

	fields, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return newCountCursor(0, log), nil
	}

	c := &Cursor{
		log:        log,
		hasResult:  true,
		fieldNames: fields,
		pos:        -1,
	}

	raw := make([]sql.RawBytes, len(fields))
	dest := make([]any, len(fields))
	for i := range raw {
		dest[i] = &raw[i]
	}

	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		row := make([][]byte, len(fields))
		for i, cell := range raw {
			if cell == nil {
				continue // SQL NULL stays nil
			}
			row[i] = append([]byte(nil), cell...)
		}
		c.rows = append(c.rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	log.Debug().
		Int("fields", len(c.fieldNames)).
		Int("rows", len(c.rows)).
		Msg("result set materialized")
	return c, nil
}

// newCountCursor creates a cursor for a non-result statement.
func newCountCursor(affected uint64, log logger.Logger) *Cursor {
	log.Debug().Uint64("affected", affected).Msg("cursor created for non-result statement")
	return &Cursor{log: log, affected: affected, pos: -1}
}

// Next advances to the next row, loading its cells and per-field byte
// lengths. It returns false on a cursor without a result set, and keeps
// returning false once the rows are exhausted.
func (c *Cursor) Next() bool {
	if !c.hasResult {
		return false
	}
	if c.pos+1 >= len(c.rows) {
		c.pos = len(c.rows)
		c.currentRow = nil
		c.currentLengths = nil
		return false
	}

	c.pos++
	c.currentRow = c.rows[c.pos]
	lengths := make([]int, len(c.currentRow))
	for i, cell := range c.currentRow {
		lengths[i] = len(cell)
	}
	c.currentLengths = lengths
	return true
}

// Reset rewinds to before the first row. Next must be called again before
// field access. Returns false on a cursor without a result set.
func (c *Cursor) Reset() bool {
	if !c.hasResult {
		return false
	}
	c.pos = -1
	c.currentRow = nil
	c.currentLengths = nil
	return true
}

// FieldCount returns the number of columns in the result set.
func (c *Cursor) FieldCount() int {
	return len(c.fieldNames)
}

// RowCount returns the number of materialized rows. Zero for a cursor
// without a result set.
func (c *Cursor) RowCount() uint64 {
	return uint64(len(c.rows))
}

// AffectedRows returns the affected-row count of a non-result statement.
func (c *Cursor) AffectedRows() uint64 {
	return c.affected
}

// FieldNames returns the column names in result-set order. Duplicates are
// preserved when the query produced them.
func (c *Cursor) FieldNames() []string {
	return slices.Clone(c.fieldNames)
}

// FieldLengths returns the byte length of each field in the current row,
// or nil when no current row exists. Lengths are reported separately because
// field values may contain embedded NUL bytes.
func (c *Cursor) FieldLengths() []int {
	return slices.Clone(c.currentLengths)
}

// IsEmpty reports a present but zero-row result set.
func (c *Cursor) IsEmpty() bool {
	return c.hasResult && len(c.rows) == 0
}

// HasResultSet reports whether the statement produced a result set.
func (c *Cursor) HasResultSet() bool {
	return c.hasResult
}

// cell validates cursor state and returns the raw bytes of the field at
// index in the current row. A nil return with nil error is SQL NULL.
func (c *Cursor) cell(index int) ([]byte, error) {
	if !c.hasResult {
		return nil, ErrNoResultSet
	}
	if index < 0 || index >= len(c.fieldNames) {
		return nil, fmt.Errorf("%w: %d (field count %d)", ErrFieldIndex, index, len(c.fieldNames))
	}
	if c.currentRow == nil {
		return nil, ErrNoCurrentRow
	}
	return c.currentRow[index], nil
}

// fieldIndex resolves a field name to its index via a linear scan, returning
// the first match when the name occurs more than once.
func (c *Cursor) fieldIndex(name string) (int, error) {
	if !c.hasResult {
		return 0, ErrNoResultSet
	}
	for i, n := range c.fieldNames {
		if n == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: %s", ErrFieldNotFound, name)
}

// GetString returns the field at index as a string. SQL NULL yields "".
func (c *Cursor) GetString(index int) (string, error) {
	cell, err := c.cell(index)
	if err != nil {
		return "", err
	}
	return string(cell), nil
}

// GetInt returns the field at index as an int. SQL NULL and unparseable text
// both yield 0; the latter is logged as a warning, not raised, so callers
// that care must check IsNull or parse GetString themselves.
func (c *Cursor) GetInt(index int) (int, error) {
	cell, err := c.cell(index)
	if err != nil {
		return 0, err
	}
	if cell == nil {
		return 0, nil
	}
	v, convErr := strconv.Atoi(string(cell))
	if convErr != nil {
		c.log.Warn().Str("value", string(cell)).Msg("field value does not parse as int")
		return 0, nil
	}
	return v, nil
}

// GetInt64 returns the field at index as an int64, with the same NULL and
// conversion semantics as GetInt.
func (c *Cursor) GetInt64(index int) (int64, error) {
	cell, err := c.cell(index)
	if err != nil {
		return 0, err
	}
	if cell == nil {
		return 0, nil
	}
	v, convErr := strconv.ParseInt(string(cell), 10, 64)
	if convErr != nil {
		c.log.Warn().Str("value", string(cell)).Msg("field value does not parse as int64")
		return 0, nil
	}
	return v, nil
}

// GetFloat64 returns the field at index as a float64, with the same NULL and
// conversion semantics as GetInt.
func (c *Cursor) GetFloat64(index int) (float64, error) {
	cell, err := c.cell(index)
	if err != nil {
		return 0, err
	}
	if cell == nil {
		return 0, nil
	}
	v, convErr := strconv.ParseFloat(string(cell), 64)
	if convErr != nil {
		c.log.Warn().Str("value", string(cell)).Msg("field value does not parse as float64")
		return 0, nil
	}
	return v, nil
}

// IsNull reports whether the field at index is SQL NULL.
func (c *Cursor) IsNull(index int) (bool, error) {
	cell, err := c.cell(index)
	if err != nil {
		return false, err
	}
	return cell == nil, nil
}

// GetStringByName is GetString with name-based field lookup.
func (c *Cursor) GetStringByName(name string) (string, error) {
	index, err := c.fieldIndex(name)
	if err != nil {
		return "", err
	}
	return c.GetString(index)
}

// GetIntByName is GetInt with name-based field lookup.
func (c *Cursor) GetIntByName(name string) (int, error) {
	index, err := c.fieldIndex(name)
	if err != nil {
		return 0, err
	}
	return c.GetInt(index)
}

// GetInt64ByName is GetInt64 with name-based field lookup.
func (c *Cursor) GetInt64ByName(name string) (int64, error) {
	index, err := c.fieldIndex(name)
	if err != nil {
		return 0, err
	}
	return c.GetInt64(index)
}

// GetFloat64ByName is GetFloat64 with name-based field lookup.
func (c *Cursor) GetFloat64ByName(name string) (float64, error) {
	index, err := c.fieldIndex(name)
	if err != nil {
		return 0, err
	}
	return c.GetFloat64(index)
}

// IsNullByName is IsNull with name-based field lookup.
func (c *Cursor) IsNullByName(name string) (bool, error) {
	index, err := c.fieldIndex(name)
	if err != nil {
		return false, err
	}
	return c.IsNull(index)
}
