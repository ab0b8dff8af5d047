package main

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f'
}

func isAlnum(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}

// nextWord scans s[:maxlen] forward. Leading whitespace is skipped, then the
// scan stops at the first byte whose alphanumeric class differs from the byte
// it started on. Returns maxlen when no such byte exists.
func nextWord(s []byte, maxlen int) int {
	maxlen = min(maxlen, len(s))
	i := 0
	for i < maxlen && isSpace(s[i]) {
		i++
	}
	if i == maxlen {
		return maxlen
	}

	class := isAlnum(s[i])
	for i < maxlen && isAlnum(s[i]) == class {
		i++
	}
	return i
}

// prevWord scans s backwards from pos: trailing whitespace, then the word
// before it. Returns the index just past the whitespace preceding that word,
// or 0.
func prevWord(s []byte, pos int) int {
	i := min(pos, len(s)) - 1
	for i >= 0 && isSpace(s[i]) {
		i--
	}
	for i >= 0 && !isSpace(s[i]) {
		i--
	}
	return i + 1
}
