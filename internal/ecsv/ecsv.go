// Package ecsv reads and writes ECSV tables: whitespace-delimited rows
// preceded by a YAML header that declares per-column names and datatypes.
package ecsv

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Column describes one typed column of a table.
type Column struct {
	Name     string `yaml:"name"`
	Datatype string `yaml:"datatype"`
	Unit     string `yaml:"unit,omitempty"`
}

// Supported column datatypes.
const (
	TypeFloat64 = "float64"
	TypeInt64   = "int64"
	TypeString  = "string"
)

// header is the YAML document embedded in the comment block.
type header struct {
	Datatype []Column `yaml:"datatype"`
}

// Table is an in-memory ECSV table. Cells are stored as their on-disk
// string form; typed accessors coerce on read.
type Table struct {
	Columns []Column
	rows    [][]string

	index map[string]int
}

// New creates an empty table with the given columns.
func New(columns []Column) *Table {
	t := &Table{Columns: columns}
	t.buildIndex()
	return t
}

func (t *Table) buildIndex() {
	t.index = make(map[string]int, len(t.Columns))
	for i, c := range t.Columns {
		t.index[c.Name] = i
	}
}

// NumRows returns the number of data rows.
func (t *Table) NumRows() int { return len(t.rows) }

// HasColumn reports whether the table declares a column with the given name.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Append adds one row of preformatted cells. The cell count must match the
// column count.
func (t *Table) Append(cells []string) error {
	if len(cells) != len(t.Columns) {
		return fmt.Errorf("ecsv: row has %d cells, table has %d columns", len(cells), len(t.Columns))
	}
	for i, c := range cells {
		if c == "" || strings.ContainsAny(c, " \t\n") {
			return fmt.Errorf("ecsv: column %s: cell %q must be non-empty and contain no whitespace", t.Columns[i].Name, c)
		}
	}
	t.rows = append(t.rows, cells)
	return nil
}

// AppendValues formats and adds one row from Go values. Each value must be a
// float64, int64, or string matching its column's declared datatype.
func (t *Table) AppendValues(values ...any) error {
	if len(values) != len(t.Columns) {
		return fmt.Errorf("ecsv: row has %d values, table has %d columns", len(values), len(t.Columns))
	}
	cells := make([]string, len(values))
	for i, v := range values {
		col := t.Columns[i]
		switch col.Datatype {
		case TypeFloat64:
			f, ok := v.(float64)
			if !ok {
				return fmt.Errorf("ecsv: column %s: expected float64, got %T", col.Name, v)
			}
			cells[i] = strconv.FormatFloat(f, 'g', -1, 64)
		case TypeInt64:
			n, ok := v.(int64)
			if !ok {
				return fmt.Errorf("ecsv: column %s: expected int64, got %T", col.Name, v)
			}
			cells[i] = strconv.FormatInt(n, 10)
		case TypeString:
			s, ok := v.(string)
			if !ok {
				return fmt.Errorf("ecsv: column %s: expected string, got %T", col.Name, v)
			}
			cells[i] = s
		default:
			return fmt.Errorf("ecsv: column %s: unsupported datatype %q", col.Name, col.Datatype)
		}
	}
	return t.Append(cells)
}

func (t *Table) cell(row int, name string) (string, Column, error) {
	i, ok := t.index[name]
	if !ok {
		return "", Column{}, fmt.Errorf("ecsv: no column %q", name)
	}
	if row < 0 || row >= len(t.rows) {
		return "", Column{}, fmt.Errorf("ecsv: row %d out of range (%d rows)", row, len(t.rows))
	}
	return t.rows[row][i], t.Columns[i], nil
}

// Float returns the float64 value at (row, column name).
func (t *Table) Float(row int, name string) (float64, error) {
	cell, col, err := t.cell(row, name)
	if err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return 0, fmt.Errorf("ecsv: row %d column %s: %q is not a %s", row, col.Name, cell, TypeFloat64)
	}
	return f, nil
}

// Int returns the int64 value at (row, column name).
func (t *Table) Int(row int, name string) (int64, error) {
	cell, col, err := t.cell(row, name)
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseInt(cell, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("ecsv: row %d column %s: %q is not an %s", row, col.Name, cell, TypeInt64)
	}
	return n, nil
}

// String returns the string value at (row, column name).
func (t *Table) String(row int, name string) (string, error) {
	cell, _, err := t.cell(row, name)
	if err != nil {
		return "", err
	}
	return cell, nil
}

// Read parses an ECSV document from r.
func Read(r io.Reader) (*Table, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	var headerLines []string
	var names []string
	var t *Table
	sawVersion := false

	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, "#") {
			if t != nil || names != nil {
				continue // comments after the header row are ignored
			}
			content := strings.TrimSpace(strings.TrimPrefix(trimmed, "#"))
			if strings.HasPrefix(content, "%ECSV") {
				sawVersion = true
				continue
			}
			if content == "---" {
				continue
			}
			headerLines = append(headerLines, content)
			continue
		}
		if !sawVersion {
			return nil, fmt.Errorf("ecsv: missing %%ECSV version line")
		}
		if names == nil {
			var h header
			if err := yaml.Unmarshal([]byte(strings.Join(headerLines, "\n")), &h); err != nil {
				return nil, fmt.Errorf("ecsv: parsing header: %w", err)
			}
			if len(h.Datatype) == 0 {
				return nil, fmt.Errorf("ecsv: header declares no columns")
			}
			for _, c := range h.Datatype {
				switch c.Datatype {
				case TypeFloat64, TypeInt64, TypeString:
				default:
					return nil, fmt.Errorf("ecsv: column %s: unsupported datatype %q", c.Name, c.Datatype)
				}
			}
			names = strings.Fields(trimmed)
			if len(names) != len(h.Datatype) {
				return nil, fmt.Errorf("ecsv: header row has %d names, datatype block has %d columns", len(names), len(h.Datatype))
			}
			for i, n := range names {
				if n != h.Datatype[i].Name {
					return nil, fmt.Errorf("ecsv: header row name %q does not match declared column %q", n, h.Datatype[i].Name)
				}
			}
			t = New(h.Datatype)
			continue
		}
		cells := strings.Fields(trimmed)
		if err := t.Append(cells); err != nil {
			return nil, fmt.Errorf("ecsv: data row %d: %w", t.NumRows()+1, err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("ecsv: %w", err)
	}
	if t == nil {
		return nil, fmt.Errorf("ecsv: no header row found")
	}
	return t, nil
}

// ReadFile parses the ECSV file at path.
func ReadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	t, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Write serializes the table to w. A table with zero rows still produces a
// complete document (version line, header block, header row).
func (t *Table) Write(w io.Writer) error {
	bw := bufio.NewWriter(w)
	bw.WriteString("# %ECSV 1.0\n")
	bw.WriteString("# ---\n")
	bw.WriteString("# datatype:\n")
	for _, c := range t.Columns {
		if c.Unit != "" {
			fmt.Fprintf(bw, "# - {name: %s, datatype: %s, unit: %s}\n", c.Name, c.Datatype, c.Unit)
		} else {
			fmt.Fprintf(bw, "# - {name: %s, datatype: %s}\n", c.Name, c.Datatype)
		}
	}
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	fmt.Fprintln(bw, strings.Join(names, " "))
	for _, row := range t.rows {
		fmt.Fprintln(bw, strings.Join(row, " "))
	}
	return bw.Flush()
}
