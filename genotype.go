package pgen

import "fmt"

// Genotype is a biallelic, unphased hardcall decoded from one 2-bit code.
type Genotype uint8

const (
	HomozygousRef Genotype = iota // 0b00
	Heterozygous                  // 0b01
	HomozygousAlt                 // 0b10
	Missing                       // 0b11
)

// String renders the genotype as a VCF GT value.
func (g Genotype) String() string {
	switch g {
	case HomozygousRef:
		return "0/0"
	case Heterozygous:
		return "0/1"
	case HomozygousAlt:
		return "1/1"
	case Missing:
		return "./."

	default:
		return "Illegal selection"
	}
}

// decodeGenotype maps a 2-bit code onto a Genotype. Callers mask with 0b11,
// so any other value is a programming error.
func decodeGenotype(code byte) Genotype {
	switch code {
	case 0b00:
		return HomozygousRef
	case 0b01:
		return Heterozygous
	case 0b10:
		return HomozygousAlt
	case 0b11:
		return Missing
	}
	panic(fmt.Sprintf("pgen: genotype code %#b does not fit in 2 bits", code))
}

// unpackGenotype extracts the genotype of the sample at row index sample from
// a packed record. Four samples share a byte, least-significant pair first:
// the sample at intra-byte offset k occupies bits [2k, 2k+1].
func unpackGenotype(record []byte, sample uint32) Genotype {
	return decodeGenotype((record[sample/4] >> (2 * (sample % 4))) & 0b11)
}
