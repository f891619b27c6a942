package hub

import "unicode/utf8"

// gpt2Pattern splits text the way byte level BPE tokenizers expect
const gpt2Pattern = `'s|'t|'re|'ve|'m|'ll|'d| ?\p{L}+| ?\p{N}+| ?[^\s\p{L}\p{N}]+|\s+(?!\S)|\s+`

// byteRune maps every byte to a printable rune; runeByte is its inverse
var (
	byteRune [256]rune
	runeByte = make(map[rune]byte, 256)
)

func init() {
	n := 0
	for b := 0; b < 256; b++ {
		printable := (b >= '!' && b <= '~') || (b >= 0xA1 && b <= 0xAC) || (b >= 0xAE && b <= 0xFF)
		if printable {
			byteRune[b] = rune(b)
		} else {
			byteRune[b] = rune(256 + n)
			n++
		}
		runeByte[byteRune[b]] = byte(b)
	}
}

func toByteLevel(s string) string {
	out := make([]rune, 0, len(s))
	for i := 0; i < len(s); i++ {
		out = append(out, byteRune[s[i]])
	}
	return string(out)
}

// fromByteLevel reverses toByteLevel, runes outside the table are kept as UTF-8
func fromByteLevel(s string) string {
	buf := make([]byte, 0, len(s))
	for _, r := range s {
		if b, ok := runeByte[r]; ok {
			buf = append(buf, b)
			continue
		}
		buf = utf8.AppendRune(buf, r)
	}
	if !utf8.Valid(buf) {
		return string([]rune(string(buf)))
	}
	return string(buf)
}
