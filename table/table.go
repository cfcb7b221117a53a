// Copyright 2022 Stock Parfait

// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at

//     http://www.apache.org/licenses/LICENSE-2.0

// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package table

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/stockparfait/errors"
)

// Row interface that a table row representation must implement.
type Row interface {
	CSV() []string // an encoding/csv compatible row representation
}

// Record is a row of raw string cells, as read from delimited text.
type Record []string

var _ Row = Record{}

// CSV implements Row.
func (r Record) CSV() []string { return r }

// Kind of a column's content.
type Kind uint8

// Values of Kind.
const (
	Text Kind = iota
	Numeric
)

func (k Kind) String() string {
	if k == Numeric {
		return "numeric"
	}
	return "text"
}

// Table container.
//
// A typical use:
//   type Taxon struct {
//     Name string
//     Occurrences int
//   }
//
//   func (r Taxon) CSV() []string {
//     return []string{r.Name, fmt.Sprintf("%d", r.Occurrences)}
//   }
//   t := NewTable("Name", "Occurrences")
//   t.AddRow(Taxon{"Canis", 25}, Taxon{"Vulpes", 24})
//
// Tables decoded from delimited text hold Record rows, and their Kinds are
// inferred from the content.
type Table struct {
	Header []string // optional, may be nil
	Rows   []Row
	Kinds  []Kind // per column; nil until InferKinds is called
}

// NewTable creates a new Table instance with optional column headers.  It is
// expected that, when present, the number of column headers is the same as the
// number of elements in each Row.
func NewTable(header ...string) *Table {
	return &Table{Header: header}
}

// AddRow adds one or more rows to the table.
func (t *Table) AddRow(rows ...Row) {
	t.Rows = append(t.Rows, rows...)
}

// ReadDelimited reads a table from delimited text with the column names in the
// first line. Column kinds are inferred. An empty input results in an empty
// table with no columns.
func ReadDelimited(r io.Reader, delim rune) (*Table, error) {
	cr := csv.NewReader(r)
	cr.Comma = delim
	cr.LazyQuotes = true
	header, err := cr.Read()
	if err == io.EOF {
		return NewTable(), nil
	}
	if err != nil {
		return nil, errors.Annotate(err, "failed to read header")
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\uFEFF")
	}
	t := NewTable(header...)
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Annotate(err, "failed to read record %d", line)
		}
		t.AddRow(Record(rec))
	}
	t.InferKinds()
	return t, nil
}

// InferKinds sets Kinds from the current rows. A column is Numeric when it has
// at least one non-empty cell and all of its non-empty cells parse as numbers.
func (t *Table) InferKinds() {
	numeric := make([]bool, len(t.Header))
	seen := make([]bool, len(t.Header))
	for i := range numeric {
		numeric[i] = true
	}
	for _, r := range t.Rows {
		for i, c := range r.CSV() {
			if i >= len(numeric) || c == "" {
				continue
			}
			seen[i] = true
			if numeric[i] {
				if _, err := strconv.ParseFloat(c, 64); err != nil {
					numeric[i] = false
				}
			}
		}
	}
	t.Kinds = make([]Kind, len(t.Header))
	for i := range t.Kinds {
		if numeric[i] && seen[i] {
			t.Kinds[i] = Numeric
		}
	}
}

// ColumnIndex returns the index of the named column, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, h := range t.Header {
		if h == name {
			return i
		}
	}
	return -1
}

// FirstColumn returns the first of the names present in the header, or "" if
// none is.
func (t *Table) FirstColumn(names ...string) string {
	for _, n := range names {
		if t.ColumnIndex(n) >= 0 {
			return n
		}
	}
	return ""
}

// Strings returns all the cells of the named column.
func (t *Table) Strings(name string) ([]string, error) {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return nil, errors.Reason("no such column: %s", name)
	}
	res := make([]string, len(t.Rows))
	for i, r := range t.Rows {
		row := r.CSV()
		if idx < len(row) {
			res[i] = row[idx]
		}
	}
	return res, nil
}

// Numbers returns the named column as numbers. Empty cells become NaN.
func (t *Table) Numbers(name string) ([]float64, error) {
	strs, err := t.Strings(name)
	if err != nil {
		return nil, err
	}
	res := make([]float64, len(strs))
	for i, s := range strs {
		if s == "" {
			res[i] = math.NaN()
			continue
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, errors.Annotate(err, "column %s, row %d", name, i+1)
		}
		res[i] = f
	}
	return res, nil
}

// Append adds the rows of another table with the same header. Kinds are
// recomputed when known.
func (t *Table) Append(other *Table) error {
	if len(other.Header) == 0 && len(other.Rows) == 0 {
		return nil
	}
	if len(t.Header) == 0 && len(t.Rows) == 0 {
		t.Header = other.Header
	} else if !sameHeader(t.Header, other.Header) {
		return errors.Reason("header mismatch: [%s] != [%s]",
			strings.Join(t.Header, ", "), strings.Join(other.Header, ", "))
	}
	t.AddRow(other.Rows...)
	if t.Kinds != nil || other.Kinds != nil {
		t.InferKinds()
	}
	return nil
}

func sameHeader(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Params are parameters for pretty-printing or CSV export of Table data.
type Params struct {
	Rows        int  // max. number of rows to write; 0 = unlimited (default)
	NoHeader    bool // whether to print the header, default - yes
	MaxColWidth int  // for WriteText only; 0 = unlimited, otherwise must be >= 4
}

// WriteCSV writes the entire table to w in CSV format.
func (t *Table) WriteCSV(w io.Writer, p Params) error {
	cw := csv.NewWriter(w)
	if !p.NoHeader && len(t.Header) > 0 {
		if err := cw.Write(t.Header); err != nil {
			return errors.Annotate(err, "failed to write header")
		}
	}
	for i, r := range t.Rows {
		if p.Rows > 0 && i >= p.Rows {
			break
		}
		if err := cw.Write(r.CSV()); err != nil {
			return errors.Annotate(err, "failed to write row")
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return errors.Annotate(err, "failed to flush written rows")
	}
	return nil
}

// WriteText writes the table as a text formatted for ease of reading.
func (t *Table) WriteText(w io.Writer, p Params) error {
	if p.MaxColWidth != 0 && p.MaxColWidth < 4 {
		return errors.Reason("MaxColWidth [%d] must be 0 or >= 4", p.MaxColWidth)
	}
	var widths []int
	update := func(row []string) error {
		if len(row) == 0 {
			return errors.Reason("row size = 0")
		}
		if len(widths) == 0 {
			widths = make([]int, len(row))
		}
		if len(row) != len(widths) {
			return errors.Reason("row size [%d] != expected size [%d]",
				len(row), len(widths))
		}
		for i := range widths {
			if widths[i] < len(row[i]) {
				widths[i] = len(row[i])
				if p.MaxColWidth > 0 && widths[i] > p.MaxColWidth {
					widths[i] = p.MaxColWidth
				}
			}
		}
		return nil
	}

	write := func(row []string) error {
		trimmed := make([]string, len(row))
		for i, s := range row {
			trimmed[i] = s
			if len([]rune(s)) > widths[i] {
				r := []rune(s)[:widths[i]-2]
				trimmed[i] = string(r) + ".."
			}
			trimmed[i] = fmt.Sprintf("%[2]*[1]s", trimmed[i], widths[i])
		}
		_, err := fmt.Fprintf(w, "%s\n", strings.Join(trimmed, " | "))
		return err
	}

	dashes := func(n int) string {
		b := make([]byte, n)
		for i := range b {
			b[i] = byte('-')
		}
		return string(b)
	}

	dashedRow := func() []string {
		row := make([]string, len(widths))
		for i, w := range widths {
			row[i] = dashes(w)
		}
		return row
	}

	if !p.NoHeader && len(t.Header) > 0 {
		if err := update(t.Header); err != nil {
			return errors.Annotate(err, "failed to update header widths")
		}
	}
	for i, r := range t.Rows {
		if p.Rows > 0 && i >= p.Rows {
			break
		}
		if err := update(r.CSV()); err != nil {
			return errors.Annotate(err, "failed to update row widths")
		}
	}

	if !p.NoHeader && len(t.Header) > 0 {
		if err := write(t.Header); err != nil {
			return errors.Annotate(err, "failed to write header")
		}
		if err := write(dashedRow()); err != nil {
			return errors.Annotate(err, "failed to write header separator")
		}
	}
	for i, r := range t.Rows {
		if p.Rows > 0 && i >= p.Rows {
			break
		}
		if err := write(r.CSV()); err != nil {
			return errors.Annotate(err, "failed to write row")
		}
	}
	return nil
}
