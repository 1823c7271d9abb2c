package pgen

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectCompression(t *testing.T) {
	assert.Equal(t, CompressionGzip, DetectCompression([]byte{0x1f, 0x8b, 0x08}))
	assert.Equal(t, CompressionZStandard, DetectCompression([]byte{0x28, 0xb5, 0x2f, 0xfd}))
	assert.Equal(t, CompressionDisabled, DetectCompression([]byte("#CHROM")))
	assert.Equal(t, CompressionDisabled, DetectCompression(nil))
}

func TestCompressedMetadata(t *testing.T) {
	tests := []struct {
		name     string
		suffix   string
		compress func(*testing.T, []byte) []byte
	}{
		{"gzip", ".gz", gzipBytes},
		{"zstd", ".zst", zstdBytes},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prefix := writeFileset(t, "", "", pgenBytes(testCalls, 5))
			writeFile(t, prefix+".pvar"+tt.suffix, tt.compress(t, []byte(testPvar)))
			writeFile(t, prefix+".psam"+tt.suffix, tt.compress(t, []byte(testPsam)))

			p := openFileset(t, prefix)
			assert.Equal(t, prefix+".pvar"+tt.suffix, p.PvarPath)
			assert.Equal(t, prefix+".psam"+tt.suffix, p.PsamPath)

			plain := openFileset(t, defaultFileset(t))

			got, err := p.SelectVariants(context.Background(), []string{"rs2", "rs3"})
			require.NoError(t, err)
			want, err := plain.SelectVariants(context.Background(), []string{"rs2", "rs3"})
			require.NoError(t, err)
			assert.Equal(t, want.Entries, got.Entries)
			assert.Equal(t, want.Header, got.Header)

			samples, err := p.SelectAllSamples(context.Background())
			require.NoError(t, err)
			assert.Equal(t, []string{"s1", "s2", "s3", "s4", "s5"}, samples.IDs())
		})
	}
}

func TestCompressedMetadata_DetectedByContent(t *testing.T) {
	// A gzip stream under the plain name is still decoded.
	prefix := writeFileset(t, "", testPsam, pgenBytes(testCalls, 5))
	writeFile(t, prefix+".pvar", gzipBytes(t, []byte(testPvar)))

	p := openFileset(t, prefix)
	sel, err := p.SelectAllVariants(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, sel.Len())
}
