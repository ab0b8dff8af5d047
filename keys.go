package main

type key int

const (
	keyTab       key = 9
	keyEnter     key = 13
	keyEsc       key = 27
	keyBackspace key = 127

	// synthetic keys decoded from escape sequences
	keyArrowLeft key = iota + 1000
	keyArrowRight
	keyArrowUp
	keyArrowDown
	keyDelete
	keyHome
	keyEnd
	keyPageUp
	keyPageDown
)

func ctrl(input byte) key {
	return key(input & 0x1f)
}

func isDigit(k key) bool {
	return k >= '0' && k <= '9'
}

func isPrintable(k key) bool {
	return k >= 0x20 && k < 0x7f
}

// arrows maps the final byte of "ESC [ x" and "ESC O x" sequences.
var arrows = map[byte]key{
	'A': keyArrowUp,
	'B': keyArrowDown,
	'C': keyArrowRight,
	'D': keyArrowLeft,
	'H': keyHome,
	'F': keyEnd,
}

// tildes maps the digit of "ESC [ n ~" sequences.
var tildes = map[byte]key{
	'1': keyHome,
	'3': keyDelete,
	'4': keyEnd,
	'5': keyPageUp,
	'6': keyPageDown,
	'7': keyHome,
	'8': keyEnd,
}

// decodeKeys splits a chunk read from the terminal into keys. Escape
// sequences are consumed as a whole; unknown ones are dropped. A lone ESC,
// or ESC followed by something that does not start a sequence, is the
// Escape key.
func decodeKeys(chunk []byte) []key {
	var keys []key
	for i := 0; i < len(chunk); {
		c := chunk[i]
		if c != byte(keyEsc) {
			keys = append(keys, key(c))
			i++
			continue
		}

		k, n := decodeEscape(chunk[i:])
		if n == 0 {
			keys = append(keys, keyEsc)
			i++
			continue
		}
		if k != 0 {
			keys = append(keys, k)
		}
		i += n
	}
	return keys
}

// decodeEscape looks at a chunk starting with ESC. It returns the decoded key
// and how many bytes the sequence took; n == 0 means seq is not a sequence,
// k == 0 with n > 0 means a sequence that is recognized as one but unknown.
func decodeEscape(seq []byte) (key, int) {
	if len(seq) < 3 || (seq[1] != '[' && seq[1] != 'O') {
		return 0, 0
	}

	if k, ok := arrows[seq[2]]; ok {
		return k, 3
	}

	if seq[1] == '[' && seq[2] >= '0' && seq[2] <= '9' {
		// parameters up to the final byte in 0x40-0x7e
		end := 2
		for end < len(seq) && (seq[end] < 0x40 || seq[end] > 0x7e) {
			end++
		}
		if end == len(seq) {
			return 0, len(seq)
		}
		if seq[end] == '~' && end == 3 {
			return tildes[seq[2]], end + 1
		}
		return 0, end + 1
	}

	return 0, 3
}
