package pvar

import (
	"errors"
	"fmt"
	"strings"
)

// ErrGrammarMismatch is wrapped by every error the line parsers return. The
// drivers in this package skip such lines.
var ErrGrammarMismatch = errors.New("pvar: line does not match grammar")

const (
	infoHeaderPrefix = "##INFO=<"

	idKey          = "ID"
	descriptionKey = "Description"
)

// MetaDescription is one ##INFO=<...> header line.
type MetaDescription struct {
	ID          string
	Description string
	// Fields holds every other key, e.g. Number and Type.
	Fields map[string]string
}

// ParseMetaDescription parses a line of the form
//
//	##INFO=<ID=AA,Number=1,Type=String,Description="Ancestral Allele">
//
// ID and Description are required, and no key may repeat. Quoted values are
// returned unescaped.
func ParseMetaDescription(line string) (MetaDescription, error) {
	line = strings.TrimRight(line, "\r\n")

	var sc scanner
	sc.reset(line)
	if !strings.HasPrefix(line, infoHeaderPrefix) {
		sc.fail("not an ##INFO line")
		return MetaDescription{}, sc.err
	}
	sc.index = len(infoHeaderPrefix)

	var (
		meta           MetaDescription
		hasID, hasDesc bool
	)
	for sc.err == nil {
		key, value := sc.parseMetaField()
		if sc.err != nil {
			break
		}
		switch key {
		case idKey:
			if hasID {
				sc.fail("multiple IDs")
			}
			meta.ID, hasID = value, true
		case descriptionKey:
			if hasDesc {
				sc.fail("multiple Descriptions")
			}
			meta.Description, hasDesc = value, true
		default:
			if meta.Fields == nil {
				meta.Fields = make(map[string]string)
			}
			if _, exists := meta.Fields[key]; exists {
				sc.fail("duplicate field key " + key)
			}
			meta.Fields[key] = value
		}

		sc.skipSpace()
		c, ok := sc.peek()
		if !ok {
			sc.fail("missing closing >")
			break
		}
		sc.index++
		if c == '>' {
			break
		}
		if c != ',' {
			sc.fail("invalid syntax")
		}
	}
	if sc.err != nil {
		return MetaDescription{}, sc.err
	}

	sc.skipSpace()
	if sc.remaining() > 0 {
		sc.fail("trailing text after >")
	}
	if !hasID || meta.ID == "" {
		sc.fail("missing ID")
	}
	if !hasDesc {
		sc.fail("missing Description")
	}
	if sc.err != nil {
		return MetaDescription{}, sc.err
	}

	return meta, nil
}

// Markdown renders the description as a list item, "- ID: Description".
func (m MetaDescription) Markdown() string {
	return fmt.Sprintf("- %s: %s", m.ID, m.Description)
}
