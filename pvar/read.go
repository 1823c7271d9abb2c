package pvar

import (
	"bufio"
	"errors"
	"io"
	"strings"

	"github.com/carbocation/pfx"
)

// ColumnHeaderMarker identifies the .pvar column header line. Header scans
// stop there.
const ColumnHeaderMarker = "#CHROM"

const infoColumn = "INFO"

// ErrNoInfoColumn is returned when the column header has no INFO column.
var ErrNoInfoColumn = errors.New("pvar: no INFO column")

func newLineScanner(r io.Reader) *bufio.Scanner {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)
	return sc
}

// EachMetaDescription calls fn for every ##INFO line before the column
// header, in file order. Lines that do not parse are skipped.
func EachMetaDescription(r io.Reader, fn func(MetaDescription) error) error {
	sc := newLineScanner(r)
	for sc.Scan() {
		line := sc.Text()
		meta, err := ParseMetaDescription(line)
		if err != nil {
			if strings.Contains(line, ColumnHeaderMarker) {
				return nil
			}
			continue
		}
		if err := fn(meta); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		return pfx.Err(err)
	}
	return nil
}

// ReadMetaDescriptions collects every ##INFO description of the header.
func ReadMetaDescriptions(r io.Reader) ([]MetaDescription, error) {
	var out []MetaDescription
	err := EachMetaDescription(r, func(meta MetaDescription) error {
		out = append(out, meta)
		return nil
	})
	return out, err
}

// MetaIDs lists the IDs of the ##INFO header lines.
func MetaIDs(r io.Reader) ([]string, error) {
	var out []string
	err := EachMetaDescription(r, func(meta MetaDescription) error {
		out = append(out, meta.ID)
		return nil
	})
	return out, err
}

// FormatDescriptions renders the ##INFO header lines as a markdown list,
// one "- ID: Description" item each.
func FormatDescriptions(r io.Reader) ([]string, error) {
	var out []string
	err := EachMetaDescription(r, func(meta MetaDescription) error {
		out = append(out, meta.Markdown())
		return nil
	})
	return out, err
}

// EachInfo calls fn with the parsed INFO cell of every data row, in file
// order. row counts data rows from zero. A row too short to have an INFO
// cell yields empty fields.
func EachInfo(r io.Reader, fn func(row int, id string, fields InfoFields) error) error {
	sc := newLineScanner(r)

	infoIndex, idIndex := -1, -1
	row := 0
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.HasPrefix(line, "#") {
			if strings.HasPrefix(line, ColumnHeaderMarker) {
				infoIndex, idIndex = -1, -1
				for i, name := range strings.Split(line, "\t") {
					switch name {
					case infoColumn:
						infoIndex = i
					case "ID":
						idIndex = i
					}
				}
			}
			continue
		}
		if line == "" {
			continue
		}
		if infoIndex < 0 {
			return ErrNoInfoColumn
		}

		fields := strings.Split(line, "\t")
		var cell, id string
		if infoIndex < len(fields) {
			cell = fields[infoIndex]
		}
		if idIndex >= 0 && idIndex < len(fields) {
			id = fields[idIndex]
		}
		if err := fn(row, id, ParseInfo(cell)); err != nil {
			return err
		}
		row++
	}
	if err := sc.Err(); err != nil {
		return pfx.Err(err)
	}
	return nil
}

// ReadInfoFields parses the INFO cell of every data row.
func ReadInfoFields(r io.Reader) ([]InfoFields, error) {
	var out []InfoFields
	err := EachInfo(r, func(_ int, _ string, fields InfoFields) error {
		out = append(out, fields)
		return nil
	})
	return out, err
}
