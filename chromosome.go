package pgen

import "strings"

// Chromosome takes a .pvar chromosome code and returns its PLINK 1 numeric
// translation, which is what .bim consumers expect. Autosomes lose any "chr"
// prefix; unrecognized contigs are returned unchanged.
func Chromosome(chrom string) string {
	code := chrom
	if len(code) > 3 && strings.EqualFold(code[:3], "chr") {
		code = code[3:]
	}

	switch strings.ToUpper(code) {
	case "X":
		return "23"
	case "Y":
		return "24"
	case "XY", "PAR1", "PAR2":
		return "25"
	case "M", "MT":
		return "26"
	}

	// Strip zero-padding ("01" -> "1") from numeric codes.
	if trimmed := strings.TrimLeft(code, "0"); trimmed != "" && isDigits(trimmed) {
		return trimmed
	}
	if isDigits(code) {
		return "0"
	}

	return chrom
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
