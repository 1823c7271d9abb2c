package pvar

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMetaDescription(t *testing.T) {
	meta, err := ParseMetaDescription(`##INFO=<ID=AA,Number=1,Type=String,Description="Ancestral Allele">`)
	require.NoError(t, err)

	assert.Equal(t, "AA", meta.ID)
	assert.Equal(t, "Ancestral Allele", meta.Description)
	assert.Equal(t, map[string]string{"Number": "1", "Type": "String"}, meta.Fields)
	assert.Equal(t, "- AA: Ancestral Allele", meta.Markdown())
}

func TestParseMetaDescription_QuotedText(t *testing.T) {
	tests := []struct {
		name string
		line string
		desc string
	}{
		{
			name: "angle bracket and commas",
			line: `##INFO=<ID=AA,Number=1,Type=String,Description="Format: AA|REF|ALT, where ALT>REF">`,
			desc: "Format: AA|REF|ALT, where ALT>REF",
		},
		{
			name: "escaped quote",
			line: `##INFO=<ID=NOTE,Number=.,Type=String,Description="The \"note\" field">`,
			desc: `The "note" field`,
		},
		{
			name: "escaped backslash",
			line: `##INFO=<ID=P,Number=1,Type=String,Description="a\\b">`,
			desc: `a\b`,
		},
		{
			name: "description first, trailing fields",
			line: `##INFO=<Description="Depth",ID=DP,Number=1,Type=Integer,Source="dbSNP">` + "\r\n",
			desc: "Depth",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta, err := ParseMetaDescription(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.desc, meta.Description)
		})
	}
}

func TestParseMetaDescription_Mismatch(t *testing.T) {
	lines := []string{
		"##fileformat=VCFv4.2",
		"##FORMAT=<ID=GT,Number=1,Type=String,Description=\"Genotype\">",
		"#CHROM\tPOS\tID\tREF\tALT",
		`##INFO=<ID=AA,Number=1>`,
		`##INFO=<Number=1,Description="No id">`,
		`##INFO=<ID=AA,Description="Unterminated>`,
		`##INFO=<ID=AA,Description="Missing bracket"`,
		`##INFO=<ID=AA,ID=BB,Description="Twice">`,
		`##INFO=<ID=AA,Number=1,Number=2,Description="Twice">`,
		`##INFO=<ID=AA;Description="Bad separator">`,
		`##INFO=<ID=AA,Description="x"> trailing`,
		`##INFO=<ID=AA,Number,Description="x">`,
		`##INFO=<ID=AA,Description="dangling\`,
		`##INFO=<ID=,Description="Empty id">`,
	}
	for _, line := range lines {
		_, err := ParseMetaDescription(line)
		require.Error(t, err, line)
		assert.True(t, errors.Is(err, ErrGrammarMismatch), line)
	}
}
