package rdf

// Character classes from the Turtle grammar's prefixed-name productions.
// The parser and PrefixMap.Compact share them so compacted names always
// parse back.

// IsPNCharsBase reports whether r is in PN_CHARS_BASE.
func IsPNCharsBase(r rune) bool {
	switch {
	case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z':
		return true
	case r >= 0xC0 && r <= 0xD6, r >= 0xD8 && r <= 0xF6, r >= 0xF8 && r <= 0x2FF:
		return true
	case r >= 0x370 && r <= 0x37D, r >= 0x37F && r <= 0x1FFF:
		return true
	case r >= 0x200C && r <= 0x200D, r >= 0x2070 && r <= 0x218F:
		return true
	case r >= 0x2C00 && r <= 0x2FEF, r >= 0x3001 && r <= 0xD7FF:
		return true
	case r >= 0xF900 && r <= 0xFDCF, r >= 0xFDF0 && r <= 0xFFFD:
		return true
	case r >= 0x10000 && r <= 0xEFFFF:
		return true
	}
	return false
}

// IsPNCharsU reports whether r is in PN_CHARS_U.
func IsPNCharsU(r rune) bool { return r == '_' || IsPNCharsBase(r) }

// IsPNChars reports whether r is in PN_CHARS.
func IsPNChars(r rune) bool {
	switch {
	case IsPNCharsU(r), r == '-', r >= '0' && r <= '9', r == 0xB7:
		return true
	case r >= 0x300 && r <= 0x36F, r >= 0x203F && r <= 0x2040:
		return true
	}
	return false
}

// ValidLocal reports whether s can appear unescaped as the local part of a
// prefixed name. It accepts a subset of PN_LOCAL: no ':' and no escapes.
func ValidLocal(s string) bool {
	if s == "" {
		return true
	}
	first := true
	var last rune
	for _, r := range s {
		switch {
		case first && (IsPNCharsU(r) || r >= '0' && r <= '9'):
		case !first && (IsPNChars(r) || r == '.'):
		default:
			return false
		}
		first, last = false, r
	}
	return last != '.'
}
