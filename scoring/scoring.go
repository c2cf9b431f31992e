// Package scoring implements the standard Boggle point table.
package scoring

import (
	"unicode/utf8"

	"github.com/samber/lo"
)

const (
	// MinWordLength is the shortest word that scores.
	MinWordLength = 3
	// LongWordPoints is what any word of 8 or more letters is worth.
	LongWordPoints = 11
)

var pointsByLength = [...]int{0, 0, 0, 1, 1, 2, 3, 5}

// PointsForLength returns the value of a word with n letters.
func PointsForLength(n int) int {
	if n < len(pointsByLength) {
		return pointsByLength[n]
	}
	return LongWordPoints
}

// Points returns the value of a word.
func Points(word string) int {
	return PointsForLength(utf8.RuneCountInString(word))
}

// Score sums the points of every found word.
func Score(found map[string]int) int {
	return lo.Sum(lo.Values(found))
}
