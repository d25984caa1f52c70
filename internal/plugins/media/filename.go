package media

import (
	"math/rand/v2"
	"strings"
	"time"
)

// filenameSuffixChars is the alphabet for the random filename suffix.
const filenameSuffixChars = "abcdefghijklmnopqrstuvwxyz0123456789"

// filenameSuffixLen gives 36^6 ≈ 2.2 billion combinations, plenty to avoid
// same-second collisions at this site's upload rates.
const filenameSuffixLen = 6

// GenerateFilename produces a stored filename of the form
// 20240312_154210_x7k2mq.jpg from a lowercase extension (without the dot).
// Collision resistance comes from the second-resolution timestamp plus the
// random suffix; cryptographic randomness is not needed here.
func GenerateFilename(ext string) string {
	var b strings.Builder
	b.WriteString(time.Now().Format("20060102_150405"))
	b.WriteByte('_')
	for i := 0; i < filenameSuffixLen; i++ {
		b.WriteByte(filenameSuffixChars[rand.IntN(len(filenameSuffixChars))])
	}
	b.WriteByte('.')
	b.WriteString(ext)
	return b.String()
}
