package pvar

import "fmt"

// A scanner walks a single .pvar line. The first error is sticky.
//
// The zero scanner is valid and empty.
type scanner struct {
	index int
	data  string
	err   error
}

func (sc *scanner) reset(s string) {
	sc.index = 0
	sc.data = s
	sc.err = nil
}

// remaining returns the number of bytes that still need to be scanned.
func (sc *scanner) remaining() int {
	return len(sc.data) - sc.index
}

func (sc *scanner) peek() (byte, bool) {
	if sc.index >= len(sc.data) {
		return 0, false
	}
	return sc.data[sc.index], true
}

// skipSpace skips ' ' bytes.
func (sc *scanner) skipSpace() {
	for end := sc.index; end < len(sc.data); end++ {
		if sc.data[end] != ' ' {
			sc.index = end
			return
		}
	}
	sc.index = len(sc.data)
}

// readUntilByte returns everything up to c and consumes c.
func (sc *scanner) readUntilByte(c byte) (s string, found bool) {
	start := sc.index
	for end := sc.index; end < len(sc.data); end++ {
		if sc.data[end] == c {
			sc.index = end + 1
			return sc.data[start:end], true
		}
	}
	sc.index = len(sc.data)
	return sc.data[start:], false
}

func (sc *scanner) fail(reason string) {
	if sc.err == nil {
		sc.err = fmt.Errorf("%w: %s: %q", ErrGrammarMismatch, reason, sc.data)
	}
}

// parseMetaField parses one key=value pair of a meta-information line. A
// quoted value may contain ',' and '>', and '\' escapes the following byte.
func (sc *scanner) parseMetaField() (key, value string) {
	if sc.err != nil {
		return
	}
	sc.skipSpace()
	start := sc.index
	for ; sc.index < len(sc.data); sc.index++ {
		if c := sc.data[sc.index]; c == ' ' || c == '=' || c == ',' || c == '>' {
			break
		}
	}
	key = sc.data[start:sc.index]
	sc.skipSpace()
	if c, ok := sc.peek(); key == "" || !ok || c != '=' {
		sc.fail("invalid key=value pair")
		return
	}
	sc.index++

	if c, ok := sc.peek(); ok && c == '"' {
		sc.index++
		var buf []byte
		for ; sc.index < len(sc.data); sc.index++ {
			switch sc.data[sc.index] {
			case '"':
				sc.index++
				return key, string(buf)
			case '\\':
				sc.index++
				if sc.index >= len(sc.data) {
					sc.fail("dangling escape")
					return key, string(buf)
				}
			}
			buf = append(buf, sc.data[sc.index])
		}
		sc.fail("missing closing \"")
		return key, string(buf)
	}

	start = sc.index
	for ; sc.index < len(sc.data); sc.index++ {
		if c := sc.data[sc.index]; c == ',' || c == '>' {
			return key, sc.data[start:sc.index]
		}
	}
	sc.fail("missing closing >")
	return key, sc.data[start:]
}
