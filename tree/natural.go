package tree

import (
	"cmp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

//////////////////////////////////////////////////

// Key is a natural-sort comparison key: text parts alternating with digit
// runs, always starting and ending with a text part. A digit run holding no
// ASCII digits is kept as an empty text part.
type Key []Part

type Part struct {
	text string

	// Decimal digits with leading zeros removed ("0" for zero). Only set
	// when numeric is true.
	digits  string
	numeric bool
}

func (p Part) compare(q Part) int {
	if p.numeric != q.numeric {
		// Numbers sort before text.
		if p.numeric {
			return -1
		}

		return 1
	}

	if p.numeric {
		if c := cmp.Compare(len(p.digits), len(q.digits)); c != 0 {
			return c
		}

		return strings.Compare(p.digits, q.digits)
	}

	return strings.Compare(p.text, q.text)
}

// Compare orders keys part by part; a key that is a strict prefix of
// another sorts first.
func (k Key) Compare(o Key) int {
	n := min(len(k), len(o))
	for i := 0; i < n; i++ {
		if c := k[i].compare(o[i]); c != 0 {
			return c
		}
	}

	return cmp.Compare(len(k), len(o))
}

func (k Key) Equal(o Key) bool {
	return k.Compare(o) == 0
}

func (k Key) String() string {
	var s strings.Builder
	s.WriteRune('[')
	for i, p := range k {
		if i > 0 {
			s.WriteString(", ")
		}

		if p.numeric {
			s.WriteString(p.digits)
		} else {
			s.WriteString(strconv.Quote(p.text))
		}
	}
	s.WriteRune(']')

	return s.String()
}

//////////////////////////////////////////////////

// NaturalKey builds the natural-sort key of title, e.g. "Episode 10" gives
// ["episode", 10, ""]. Within each part "&" reads as "and" and everything
// but ASCII letters and digits is dropped.
func NaturalKey(title string) Key {
	chunks := splitDigitRuns(title)

	key := make(Key, 0, len(chunks))
	for _, chunk := range chunks {
		chunk = normalizeChunk(chunk)

		if chunk != "" && isDigits(chunk) {
			digits := strings.TrimLeft(chunk, "0")
			if digits == "" {
				digits = "0"
			}

			key = append(key, Part{digits: digits, numeric: true})
			continue
		}

		key = append(key, Part{text: strings.ToLower(chunk)})
	}

	return key
}

// splitDigitRuns splits s around maximal runs of decimal digits, keeping the
// runs: "Episode 10" -> ["Episode ", "10", ""]. Any Unicode decimal digit
// starts a run; normalizeChunk later drops the non-ASCII ones.
func splitDigitRuns(s string) []string {
	chunks := make([]string, 0, 3)

	start := 0
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if !unicode.IsDigit(r) {
			i += size
			continue
		}

		j := i + size
		for j < len(s) {
			r, size := utf8.DecodeRuneInString(s[j:])
			if !unicode.IsDigit(r) {
				break
			}
			j += size
		}

		chunks = append(chunks, s[start:i], s[i:j])
		start, i = j, j
	}

	return append(chunks, s[start:])
}

func normalizeChunk(chunk string) string {
	chunk = strings.ReplaceAll(chunk, "&", "and")

	var s strings.Builder
	s.Grow(len(chunk))
	for i := 0; i < len(chunk); i++ {
		if c := chunk[i]; isDigit(c) || isLetter(c) {
			s.WriteByte(c)
		}
	}

	return s.String()
}

func isDigit(c byte) bool  { return c >= '0' && c <= '9' }
func isLetter(c byte) bool { return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') }

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}

	return true
}
