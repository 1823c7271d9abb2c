package pgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeGenotype_Exhaustive(t *testing.T) {
	tests := []struct {
		code byte
		want Genotype
		gt   string
	}{
		{0b00, HomozygousRef, "0/0"},
		{0b01, Heterozygous, "0/1"},
		{0b10, HomozygousAlt, "1/1"},
		{0b11, Missing, "./."},
	}
	for _, tt := range tests {
		got := decodeGenotype(tt.code)
		assert.Equal(t, tt.want, got, "code %#b", tt.code)
		assert.Equal(t, tt.gt, got.String())
	}
}

func TestDecodeGenotype_PanicsOutsideTwoBits(t *testing.T) {
	assert.Panics(t, func() { decodeGenotype(0b100) })
}

func TestUnpackGenotype_LeastSignificantPairFirst(t *testing.T) {
	record := []byte{0b11100100}

	want := []Genotype{HomozygousRef, Heterozygous, HomozygousAlt, Missing}
	for s, g := range want {
		assert.Equal(t, g, unpackGenotype(record, uint32(s)), "sample %d", s)
	}
}

func TestUnpackGenotype_SecondByte(t *testing.T) {
	record := packRecord(testCalls[1])
	assert.Equal(t, []byte{0b01001010, 0b00000011}, record)

	for s, g := range testCalls[1] {
		assert.Equal(t, g, unpackGenotype(record, uint32(s)), "sample %d", s)
	}
}
