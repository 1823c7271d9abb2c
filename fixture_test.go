package pgen

import (
	"bytes"
	"context"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/require"
)

const testPvar = "##contig=<ID=1>\n" +
	"##INFO=<ID=AC,Number=A,Type=Integer,Description=\"Allele count\">\n" +
	"#CHROM\tPOS\tID\tREF\tALT\tINFO\n" +
	"1\t100\trs1\tA\tG\tAC=1\n" +
	"1\t200\trs2\tC\tT\tAC=2;EX_TARGET\n" +
	"2\t300\trs3\tG\tA\t.\n"

const testPsam = "#IID\tSEX\n" +
	"s1\t1\n" +
	"s2\t2\n" +
	"s3\tNA\n" +
	"s4\t1\n" +
	"s5\t2\n"

// testCalls[v][s] is the genotype of sample s at variant v.
var testCalls = [][]Genotype{
	{HomozygousRef, Heterozygous, HomozygousAlt, Missing, Heterozygous},
	{HomozygousAlt, HomozygousAlt, HomozygousRef, Heterozygous, Missing},
	{Missing, HomozygousRef, HomozygousRef, HomozygousRef, HomozygousAlt},
}

// packRecord is the inverse of unpackGenotype.
func packRecord(calls []Genotype) []byte {
	record := make([]byte, (len(calls)*2+7)/8)
	for s, g := range calls {
		record[s/4] |= byte(g) << (2 * (s % 4))
	}
	return record
}

func pgenHeader(nVariants, nSamples uint32) []byte {
	header := make([]byte, HeaderSize)
	copy(header, MagicNumber[:])
	header[offsetStorageMode] = byte(StorageModeFixedWidth2Bit)
	binary.LittleEndian.PutUint32(header[offsetNumberVariants:], nVariants)
	binary.LittleEndian.PutUint32(header[offsetNumberSamples:], nSamples)
	header[offsetFlags] = SupportedFlags
	return header
}

func pgenBytes(calls [][]Genotype, nSamples uint32) []byte {
	var buf bytes.Buffer
	buf.Write(pgenHeader(uint32(len(calls)), nSamples))
	for _, row := range calls {
		buf.Write(packRecord(row))
	}
	return buf.Bytes()
}

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

// writeFileset writes <dir>/test.{pgen,pvar,psam} and returns the prefix.
func writeFileset(t *testing.T, pvar, psam string, pgen []byte) string {
	t.Helper()
	prefix := filepath.Join(t.TempDir(), "test")
	writeFile(t, prefix+".pgen", pgen)
	if pvar != "" {
		writeFile(t, prefix+".pvar", []byte(pvar))
	}
	if psam != "" {
		writeFile(t, prefix+".psam", []byte(psam))
	}
	return prefix
}

func defaultFileset(t *testing.T) string {
	return writeFileset(t, testPvar, testPsam, pgenBytes(testCalls, 5))
}

func openFileset(t *testing.T, prefix string, opts ...Option) *PGEN {
	t.Helper()
	p, err := Open(context.Background(), prefix, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { p.Close() })
	return p
}

func gzipBytes(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	_, err := w.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func zstdBytes(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w, err := zstd.NewWriter(&buf)
	require.NoError(t, err)
	_, err = w.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}
