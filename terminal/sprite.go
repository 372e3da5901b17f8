package terminal

import "strings"

// mirrorPairs swaps direction-dependent glyphs when a sprite is flipped
var mirrorPairs = map[rune]rune{
	'(': ')', ')': '(',
	'<': '>', '>': '<',
	'/': '\\', '\\': '/',
	'[': ']', ']': '[',
	'{': '}', '}': '{',
}

// mirrorLine flips a sprite row horizontally
func mirrorLine(line string) string {
	runes := []rune(line)
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}
	for i, r := range runes {
		if m, ok := mirrorPairs[r]; ok {
			runes[i] = m
		}
	}
	return string(runes)
}

// mirrorSprite flips every row, padding to the widest row first so columns stay aligned
func mirrorSprite(lines []string) []string {
	width := 0
	for _, l := range lines {
		width = max(width, len([]rune(l)))
	}
	out := make([]string, len(lines))
	for i, l := range lines {
		pad := width - len([]rune(l))
		out[i] = mirrorLine(l + strings.Repeat(" ", pad))
	}
	return out
}
