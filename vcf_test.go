package pgen

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteVCF_Exact(t *testing.T) {
	p := openFileset(t, defaultFileset(t))

	var buf bytes.Buffer
	err := p.WriteVCF(context.Background(), &buf, Query{
		VariantIDs: []string{"rs3", "rs1"},
		SampleIDs:  []string{"s5", "s2"},
	})
	require.NoError(t, err)

	want := "##fileformat=VCFv4.2\n" +
		"##source=pgen2vcf\n" +
		"##contig=<ID=1>\n" +
		"##INFO=<ID=AC,Number=A,Type=Integer,Description=\"Allele count\">\n" +
		"#CHROM\tPOS\tID\tREF\tALT\tINFO\tFORMAT\ts2\ts5\n" +
		"1\t100\trs1\tA\tG\tAC=1\tGT\t0/1\t0/1\n" +
		"2\t300\trs3\tG\tA\t.\tGT\t0/0\t1/1\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteVCF_AllRoundTrip(t *testing.T) {
	p := openFileset(t, defaultFileset(t))

	var buf bytes.Buffer
	require.NoError(t, p.WriteVCF(context.Background(), &buf, Query{AllVariants: true, AllSamples: true}))

	var records []string
	for _, line := range strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n") {
		if !strings.HasPrefix(line, "#") {
			records = append(records, line)
		}
	}
	require.Len(t, records, int(p.NVariants))

	for v, line := range records {
		fields := strings.Split(line, "\t")
		gts := fields[len(fields)-int(p.NSamples):]
		require.Len(t, gts, int(p.NSamples))
		assert.Equal(t, "GT", fields[len(fields)-int(p.NSamples)-1])
		for s, gt := range gts {
			assert.Equal(t, testCalls[v][s].String(), gt, "variant %d sample %d", v, s)
		}
	}
}

func TestWriteVCF_NothingWrittenOnSelectionError(t *testing.T) {
	p := openFileset(t, defaultFileset(t))

	var buf bytes.Buffer
	err := p.WriteVCF(context.Background(), &buf, Query{
		VariantIDs: []string{"rs1"},
		SampleIDs:  []string{"nobody"},
	})
	requireConsistencyError(t, err)
	assert.Zero(t, buf.Len())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestWriteVCF_WriteFailure(t *testing.T) {
	p := openFileset(t, defaultFileset(t))

	err := p.WriteVCF(context.Background(), failingWriter{}, Query{AllVariants: true, AllSamples: true})
	require.Error(t, err)

	var ioErr *IOError
	require.True(t, errors.As(err, &ioErr))
	assert.Contains(t, err.Error(), "disk full")
}

func TestConvertToVCF(t *testing.T) {
	p := openFileset(t, defaultFileset(t))
	q := Query{AllVariants: true, SampleIDs: []string{"s1"}}

	var plain bytes.Buffer
	require.NoError(t, p.WriteVCF(context.Background(), &plain, q))

	out := DefaultVCFPath(p.Prefix, false)
	assert.True(t, strings.HasSuffix(out, ".pgen2vcf.vcf"))
	require.NoError(t, p.ConvertToVCF(context.Background(), out, q, false))

	written, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, plain.String(), string(written))
}

func TestConvertToVCF_Gzip(t *testing.T) {
	p := openFileset(t, defaultFileset(t))
	q := Query{AllVariants: true, AllSamples: true}

	var plain bytes.Buffer
	require.NoError(t, p.WriteVCF(context.Background(), &plain, q))

	out := DefaultVCFPath(p.Prefix, true)
	assert.True(t, strings.HasSuffix(out, ".vcf.gz"))
	require.NoError(t, p.ConvertToVCF(context.Background(), out, q, true))

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	gz, err := gzip.NewReader(f)
	require.NoError(t, err)
	decoded, err := io.ReadAll(gz)
	require.NoError(t, err)
	assert.Equal(t, plain.String(), string(decoded))
}

func TestConvertToVCF_SelectionErrorCreatesNoFile(t *testing.T) {
	p := openFileset(t, defaultFileset(t))
	out := filepath.Join(t.TempDir(), "out.vcf")

	err := p.ConvertToVCF(context.Background(), out, Query{VariantIDs: []string{"rs404"}, AllSamples: true}, false)
	requireConsistencyError(t, err)

	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr))
}

func TestConvertToVCF_ReadFailureRemovesFile(t *testing.T) {
	data := pgenBytes(testCalls, 5)
	prefix := writeFileset(t, testPvar, testPsam, data[:len(data)-1])
	p := openFileset(t, prefix)
	out := filepath.Join(t.TempDir(), "out.vcf")

	err := p.ConvertToVCF(context.Background(), out, Query{AllVariants: true, AllSamples: true}, false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, io.ErrUnexpectedEOF))

	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr))
}
