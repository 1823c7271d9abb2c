package pgen

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildIndex(t *testing.T, p *PGEN) *VariantIndex {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.pvar.sqlite")
	require.NoError(t, BuildVariantIndex(context.Background(), p, path))

	ix, err := OpenVariantIndex(path)
	require.NoError(t, err)
	t.Cleanup(func() { ix.Close() })
	return ix
}

func TestVariantIndex_MatchesScan(t *testing.T) {
	p := openFileset(t, defaultFileset(t))
	ix := buildIndex(t, p)

	assert.Equal(t, uint32(3), ix.Metadata.VariantCount)
	assert.Equal(t, p.PvarPath, ix.Metadata.Filename)
	assert.WithinDuration(t, time.Now(), time.Time(ix.Metadata.IndexCreationTime), time.Minute)

	ids := []string{"rs3", "rs1"}
	scanned, err := p.SelectVariants(context.Background(), ids)
	require.NoError(t, err)
	indexed, err := ix.Select(ids, p.NVariants)
	require.NoError(t, err)

	assert.Equal(t, scanned.Entries, indexed.Entries)
	assert.Equal(t, scanned.Header, indexed.Header)
	assert.Equal(t, scanned.Scanned, indexed.Scanned)
}

func TestVariantIndex_SameVCF(t *testing.T) {
	p := openFileset(t, defaultFileset(t))
	ix := buildIndex(t, p)

	q := Query{VariantIDs: []string{"rs2"}, AllSamples: true}
	var scanned, indexed bytes.Buffer
	require.NoError(t, p.WriteVCF(context.Background(), &scanned, q))
	q.Index = ix
	require.NoError(t, p.WriteVCF(context.Background(), &indexed, q))
	assert.Equal(t, scanned.String(), indexed.String())
}

func TestVariantIndex_MissingID(t *testing.T) {
	p := openFileset(t, defaultFileset(t))
	ix := buildIndex(t, p)

	_, err := ix.Select([]string{"rs1", "rs404"}, p.NVariants)
	ce := requireConsistencyError(t, err)
	assert.Equal(t, []string{"rs404"}, ce.Missing)
}

func TestVariantIndex_CountMismatch(t *testing.T) {
	p := openFileset(t, defaultFileset(t))
	ix := buildIndex(t, p)

	_, err := ix.Select([]string{"rs1"}, 4)
	ce := requireConsistencyError(t, err)
	assert.Equal(t, 4, ce.Expected)
	assert.Equal(t, 3, ce.Observed)
}

func TestBuildVariantIndex_RejectsMismatchedPair(t *testing.T) {
	calls := append(append([][]Genotype{}, testCalls...), testCalls[0])
	p := openFileset(t, writeFileset(t, testPvar, testPsam, pgenBytes(calls, 5)))

	err := BuildVariantIndex(context.Background(), p, filepath.Join(t.TempDir(), "idx.sqlite"))
	requireConsistencyError(t, err)
}

func TestOpenVariantIndex_Missing(t *testing.T) {
	_, err := OpenVariantIndex(filepath.Join(t.TempDir(), "absent.sqlite"))
	assert.Error(t, err)
}

func TestSQLiteURI(t *testing.T) {
	assert.Equal(t, "file:/tmp/x.sqlite", sqliteURI("/tmp/x.sqlite"))
	assert.Equal(t, "file:/tmp/x.sqlite", sqliteURI("file:/tmp/x.sqlite"))
}
