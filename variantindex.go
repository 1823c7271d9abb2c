package pgen

import (
	"context"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/carbocation/pfx"
	"github.com/jmoiron/sqlx"
)

// VariantIndex is a SQLite sidecar for a .pvar that maps variant IDs to row
// indices, so that small selections from very large .pvar files do not need
// a full scan.
type VariantIndex struct {
	Path     string
	DB       *sqlx.DB
	Metadata *IndexMetadata
}

// IndexMetadata conforms to the single row of the "Metadata" table.
type IndexMetadata struct {
	Filename          string `db:"filename"`
	VariantCount      uint32 `db:"variant_count"`
	HeaderComments    string `db:"header_comments"`
	HeaderColumns     string `db:"header_columns"`
	IndexCreationTime Time   `db:"index_creation_time"`
}

// VariantIndexRow conforms to the rows of the "Variant" table, and can be
// easily parsed with sqlx.
type VariantIndexRow struct {
	Row        uint32 `db:"row_index"`
	Chromosome string `db:"chromosome"`
	Position   uint32 `db:"position"`
	RSID       string `db:"rsid"`
	Line       string `db:"line"`
}

var variantIndexSchema = []string{
	`CREATE TABLE Metadata (
		filename TEXT NOT NULL,
		variant_count INTEGER NOT NULL,
		header_comments TEXT NOT NULL,
		header_columns TEXT NOT NULL,
		index_creation_time INTEGER NOT NULL
	)`,
	`CREATE TABLE Variant (
		row_index INTEGER PRIMARY KEY,
		chromosome TEXT NOT NULL,
		position INTEGER NOT NULL,
		rsid TEXT NOT NULL,
		line TEXT NOT NULL
	)`,
	`CREATE INDEX variant_rsid ON Variant (rsid)`,
}

// SQLite limits the number of bound parameters per statement; older builds
// allow 999.
const maxQueryVariables = 500

// URI filenames have to begin with 'file:'; see
// https://www.sqlite.org/c3ref/open.html . It seems that sqlite3 permitted
// URI filenames without the file: prefix, but that is not standard.
func sqliteURI(path string) string {
	if !strings.HasPrefix(path, "file:") {
		path = "file:" + path
	}
	return path
}

// DefaultVariantIndexPath is where BuildVariantIndex writes by default.
func DefaultVariantIndexPath(prefix string) string {
	return prefix + ".pvar.sqlite"
}

// BuildVariantIndex scans p's .pvar and writes a fresh index to path,
// replacing any existing file. The .pvar must agree with the .pgen header.
func BuildVariantIndex(ctx context.Context, p *PGEN, path string) (err error) {
	header, err := p.ReadVariantHeader(ctx)
	if err != nil {
		return err
	}
	cols, err := newVariantColumns(header.ColumnNames())
	if err != nil {
		return &ConsistencyError{File: p.PvarPath, Reason: err.Error()}
	}

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return &IOError{Op: "remove", Path: path, Err: err}
	}
	db, err := connectVariantIndex(path)
	if err != nil {
		return &IOError{Op: "create index", Path: path, Err: err}
	}
	defer func() {
		db.Close()
		if err != nil {
			os.Remove(path)
		}
	}()

	for _, stmt := range variantIndexSchema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return pfx.Err(err)
		}
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return pfx.Err(err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	insert, err := tx.PreparexContext(ctx, `INSERT INTO Variant (row_index, chromosome, position, rsid, line) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return pfx.Err(err)
	}
	defer insert.Close()

	var scanned uint32
	err = p.withMetadata(ctx, p.PvarPath, func(r io.Reader) error {
		_, n, err := scanMetadata(r, p.pvarScan(), func(row uint32, id, line string) error {
			v, err := cols.parse(row, line)
			if err != nil {
				return &ConsistencyError{File: p.PvarPath, Reason: err.Error()}
			}
			if _, err := insert.ExecContext(ctx, v.Row, v.Chromosome, v.Position, id, line); err != nil {
				return pfx.Err(err)
			}
			return nil
		})
		scanned = n
		return err
	})
	if err != nil {
		return err
	}
	if scanned != p.NVariants {
		return &ConsistencyError{
			File:     p.PvarPath,
			Reason:   "data row count does not match the .pgen header",
			Expected: int(p.NVariants),
			Observed: int(scanned),
		}
	}

	meta := IndexMetadata{
		Filename:          p.PvarPath,
		VariantCount:      scanned,
		HeaderComments:    header.Comments,
		HeaderColumns:     header.Columns,
		IndexCreationTime: Time(time.Now()),
	}
	if _, err = tx.NamedExecContext(ctx, `INSERT INTO Metadata (filename, variant_count, header_comments, header_columns, index_creation_time)
		VALUES (:filename, :variant_count, :header_comments, :header_columns, :index_creation_time)`, meta); err != nil {
		return pfx.Err(err)
	}

	if err = tx.Commit(); err != nil {
		return pfx.Err(err)
	}

	p.logger.Info("built variant index", "path", path, "variants", scanned)
	return nil
}

// OpenVariantIndex opens an index written by BuildVariantIndex.
func OpenVariantIndex(path string) (*VariantIndex, error) {
	// Connecting to a missing file would silently create an empty database.
	if _, err := os.Stat(path); err != nil {
		return nil, &IOError{Op: "open index", Path: path, Err: err}
	}

	db, err := connectVariantIndex(path)
	if err != nil {
		return nil, &IOError{Op: "open index", Path: path, Err: err}
	}

	ix := &VariantIndex{
		Path:     path,
		DB:       db,
		Metadata: &IndexMetadata{},
	}
	if err := db.Get(ix.Metadata, `SELECT filename, variant_count, header_comments, header_columns, index_creation_time FROM Metadata LIMIT 1`); err != nil {
		db.Close()
		return nil, pfx.Err(err)
	}

	return ix, nil
}

func (ix *VariantIndex) Close() error {
	return ix.DB.Close()
}

// Select returns the rows whose ID is in ids, in .pvar order. It enforces the
// same rules as PGEN.SelectVariants: the index must describe expected
// variants, and every distinct id must occur exactly once.
func (ix *VariantIndex) Select(ids []string, expected uint32) (*Selection, error) {
	if ix.Metadata.VariantCount != expected {
		return nil, &ConsistencyError{
			File:     ix.Path,
			Reason:   "indexed variant count does not match the .pgen header",
			Expected: int(expected),
			Observed: int(ix.Metadata.VariantCount),
		}
	}

	hits := make(map[string]int, len(ids))
	distinct := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := hits[id]; !ok {
			hits[id] = 0
			distinct = append(distinct, id)
		}
	}

	var rows []VariantIndexRow
	for start := 0; start < len(distinct); start += maxQueryVariables {
		chunk := distinct[start:min(start+maxQueryVariables, len(distinct))]
		query, args, err := sqlx.In(`SELECT row_index, chromosome, position, rsid, line FROM Variant WHERE rsid IN (?)`, chunk)
		if err != nil {
			return nil, pfx.Err(err)
		}
		var batch []VariantIndexRow
		if err := ix.DB.Select(&batch, ix.DB.Rebind(query), args...); err != nil {
			return nil, pfx.Err(err)
		}
		rows = append(rows, batch...)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Row < rows[j].Row })

	sel := &Selection{
		Header: &MetadataHeader{
			Comments: ix.Metadata.HeaderComments,
			Columns:  ix.Metadata.HeaderColumns,
		},
		Entries: make([]SelectionEntry, 0, len(rows)),
		Scanned: ix.Metadata.VariantCount,
	}
	for _, row := range rows {
		hits[row.RSID]++
		sel.Entries = append(sel.Entries, SelectionEntry{ID: row.RSID, Row: row.Row, Line: row.Line})
	}

	if len(sel.Entries) != len(hits) {
		return nil, unmatchedIDsError(ix.Path, ids, hits, len(sel.Entries))
	}
	return sel, nil
}
