package pgen

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// Row maps column names to the values of one metadata record.
type Row map[string]string

// TableReader yields the records of a .pvar or .psam keyed by the names in
// its column-header line. The leading '#' of the header is dropped, so the
// first .pvar column is named CHROM and the first .psam column IID.
type TableReader struct {
	Columns []string

	csv  *csv.Reader
	rows int
}

// NewTableReader consumes the comment block of r and positions the reader on
// the first data record.
func NewTableReader(r io.Reader) (*TableReader, error) {
	br := bufio.NewReaderSize(r, 1<<16)

	var header, first string
	for {
		line, err := br.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, err
		}
		if strings.HasPrefix(line, "#") {
			header = line
		} else {
			first = line
			break
		}
		if err == io.EOF {
			break
		}
	}
	if header == "" {
		return nil, fmt.Errorf("no '#' column header line found")
	}

	columns := strings.Split(strings.TrimRight(strings.TrimPrefix(header, "#"), "\r\n"), "\t")

	cr := csv.NewReader(io.MultiReader(strings.NewReader(first), br))
	cr.Comma = '\t'
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	return &TableReader{Columns: columns, csv: cr}, nil
}

// Next returns the next record, or io.EOF when the table is exhausted.
// Records with fewer fields than the header leave the remaining columns
// unset.
func (t *TableReader) Next() (Row, error) {
	record, err := t.csv.Read()
	if err != nil {
		return nil, err
	}
	row := make(Row, len(t.Columns))
	for i, name := range t.Columns {
		if i >= len(record) {
			break
		}
		row[name] = record[i]
	}
	t.rows++
	return row, nil
}

// Rows is the number of records returned so far.
func (t *TableReader) Rows() int {
	return t.rows
}
