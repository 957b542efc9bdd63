// Package glyph defines the character set drawn by both rain effects.
package glyph

import "matrix-portrait/internal/core"

// Alphabet lists digits, Latin capitals and half-width katakana.
const Alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ" +
	"ｱｲｳｴｵｶｷｸｹｺｻｼｽｾｿﾀﾁﾂﾃﾄﾅﾆﾇﾈﾉﾊﾋﾌﾍﾎﾏﾐﾑﾒﾓﾔﾕﾖﾗﾘﾙﾚﾛﾜﾝ"

var runes = []rune(Alphabet)

// Runes returns a copy of the alphabet as runes.
func Runes() []rune { return append([]rune(nil), runes...) }

// Random picks a glyph uniformly from the alphabet.
func Random(rng *core.RNG) rune {
	return runes[rng.IntN(len(runes))]
}

// Contains reports whether r belongs to the alphabet.
func Contains(r rune) bool {
	for _, c := range runes {
		if c == r {
			return true
		}
	}
	return false
}

// IsASCII reports whether r can be drawn by a plain ASCII face.
func IsASCII(r rune) bool { return r >= 0x20 && r < 0x7f }
