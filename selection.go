package pgen

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/RoaringBitmap/roaring/v2"
)

// MetadataHeader is the leading comment block of a .pvar or .psam.
type MetadataHeader struct {
	// Comments holds every line before the column header, verbatim and with
	// line terminators.
	Comments string
	// Columns is the column-header line (e.g. "#CHROM\tPOS\tID...") without
	// its line terminator.
	Columns string
}

// ColumnNames splits the column header, keeping the leading '#' on the
// first name.
func (h *MetadataHeader) ColumnNames() []string {
	return strings.Split(h.Columns, "\t")
}

// SelectionEntry is one retained metadata row.
type SelectionEntry struct {
	ID   string
	Row  uint32
	Line string
}

// Selection is the ordered result of scanning a metadata file for a set of
// rows. Entries are always in file order.
type Selection struct {
	Header  *MetadataHeader
	Entries []SelectionEntry
	Scanned uint32
}

func (s *Selection) Len() int {
	return len(s.Entries)
}

func (s *Selection) IDs() []string {
	out := make([]string, len(s.Entries))
	for i, e := range s.Entries {
		out[i] = e.ID
	}
	return out
}

func (s *Selection) Rows() []uint32 {
	out := make([]uint32, len(s.Entries))
	for i, e := range s.Entries {
		out[i] = e.Row
	}
	return out
}

// Bitmap returns the selected row indices as a bitmap.
func (s *Selection) Bitmap() *roaring.Bitmap {
	return roaring.BitmapOf(s.Rows()...)
}

// metadataScan describes one metadata file layout.
type metadataScan struct {
	path     string
	idColumn int
	// sentinel, if set, is the required first column of the header line.
	sentinel string
}

var (
	pvarScan = metadataScan{idColumn: 2}
	psamScan = metadataScan{idColumn: 0, sentinel: "#IID"}
)

// scanMetadata reads the header block and calls visit for every data row in
// file order, returning the number of data rows seen. Comment lines are
// only recognized before the first data row. Blank lines are ignored.
func scanMetadata(r io.Reader, ms metadataScan, visit func(row uint32, id, line string) error) (*MetadataHeader, uint32, error) {
	br := bufio.NewReaderSize(r, 1<<16)

	var (
		comments   strings.Builder
		columnsRaw string
		header     *MetadataHeader
		row        uint32
	)

	finishHeader := func() error {
		if columnsRaw == "" {
			return &ConsistencyError{File: ms.path, Reason: "missing '#' column header line"}
		}
		header = &MetadataHeader{
			Comments: comments.String(),
			Columns:  strings.TrimRight(columnsRaw, "\r\n"),
		}
		if ms.sentinel != "" {
			if first, _ := tabField(header.Columns, 0); first != ms.sentinel {
				return &ConsistencyError{
					File:   ms.path,
					Reason: fmt.Sprintf("header column 0 is %q, want %q", first, ms.sentinel),
				}
			}
		}
		return nil
	}

	for {
		line, readErr := br.ReadString('\n')
		if readErr != nil && readErr != io.EOF {
			return nil, row, &IOError{Op: "read", Path: ms.path, Err: readErr}
		}

		if len(line) > 0 {
			if header == nil && strings.HasPrefix(line, "#") {
				comments.WriteString(columnsRaw)
				columnsRaw = line
			} else {
				if header == nil {
					if err := finishHeader(); err != nil {
						return nil, row, err
					}
				}
				if trimmed := strings.TrimRight(line, "\r\n"); trimmed != "" {
					id, ok := tabField(trimmed, ms.idColumn)
					if !ok {
						return nil, row, &ConsistencyError{
							File:     ms.path,
							Reason:   fmt.Sprintf("data row %d is too short", row),
							Expected: ms.idColumn + 1,
							Observed: strings.Count(trimmed, "\t") + 1,
						}
					}
					if err := visit(row, id, trimmed); err != nil {
						return header, row, err
					}
					row++
				}
			}
		}

		if readErr == io.EOF {
			break
		}
	}

	if header == nil {
		if err := finishHeader(); err != nil {
			return nil, row, err
		}
	}

	return header, row, nil
}

// tabField returns the n-th tab-delimited field of line.
func tabField(line string, n int) (string, bool) {
	for i := 0; i < n; i++ {
		tab := strings.IndexByte(line, '\t')
		if tab < 0 {
			return "", false
		}
		line = line[tab+1:]
	}
	if tab := strings.IndexByte(line, '\t'); tab >= 0 {
		line = line[:tab]
	}
	return line, true
}

// collectSelection retains the rows accepted by keep and checks that the file
// has exactly expected data rows.
func collectSelection(r io.Reader, ms metadataScan, expected uint32, keep func(row uint32, id string) bool) (*Selection, error) {
	sel := &Selection{}
	header, scanned, err := scanMetadata(r, ms, func(row uint32, id, line string) error {
		if keep(row, id) {
			sel.Entries = append(sel.Entries, SelectionEntry{ID: id, Row: row, Line: line})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sel.Header = header
	sel.Scanned = scanned

	if scanned != expected {
		return nil, &ConsistencyError{
			File:     ms.path,
			Reason:   "data row count does not match the .pgen header",
			Expected: int(expected),
			Observed: int(scanned),
		}
	}
	return sel, nil
}

func selectAll(r io.Reader, ms metadataScan, expected uint32) (*Selection, error) {
	return collectSelection(r, ms, expected, func(uint32, string) bool { return true })
}

// selectByID retains every row whose id was requested. Each distinct
// requested id must occur exactly once in the file.
func selectByID(r io.Reader, ms metadataScan, requested []string, expected uint32) (*Selection, error) {
	hits := make(map[string]int, len(requested))
	for _, id := range requested {
		hits[id] = 0
	}

	sel, err := collectSelection(r, ms, expected, func(_ uint32, id string) bool {
		n, ok := hits[id]
		if ok {
			hits[id] = n + 1
		}
		return ok
	})
	if err != nil {
		return nil, err
	}

	if len(sel.Entries) != len(hits) {
		return nil, unmatchedIDsError(ms.path, requested, hits, len(sel.Entries))
	}
	return sel, nil
}

func unmatchedIDsError(path string, requested []string, hits map[string]int, observed int) error {
	var missing, duplicated []string
	seen := make(map[string]struct{}, len(hits))
	for _, id := range requested {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		switch n := hits[id]; {
		case n == 0:
			missing = append(missing, id)
		case n > 1:
			duplicated = append(duplicated, id)
		}
	}

	reason := "selected rows do not match the distinct requested ids"
	if len(duplicated) > 0 {
		reason += fmt.Sprintf(" (ids present more than once: %s)", strings.Join(duplicated, ", "))
	}
	return &ConsistencyError{
		File:     path,
		Reason:   reason,
		Expected: len(hits),
		Observed: observed,
		Missing:  missing,
	}
}

// selectByRow retains the rows whose index is set in rows. Every row in the
// bitmap must exist.
func selectByRow(r io.Reader, ms metadataScan, rows *roaring.Bitmap, expected uint32) (*Selection, error) {
	sel, err := collectSelection(r, ms, expected, func(row uint32, _ string) bool {
		return rows.Contains(row)
	})
	if err != nil {
		return nil, err
	}
	if want := rows.GetCardinality(); uint64(len(sel.Entries)) != want {
		return nil, &ConsistencyError{
			File:     ms.path,
			Reason:   "requested row indices lie beyond the end of the file",
			Expected: int(want),
			Observed: len(sel.Entries),
		}
	}
	return sel, nil
}

// withMetadata opens path, hands it to fn and always closes it.
func (p *PGEN) withMetadata(ctx context.Context, path string, fn func(io.Reader) error) error {
	rc, err := p.openMetadata(ctx, path)
	if err != nil {
		return err
	}
	defer rc.Close()
	return fn(rc)
}
