package service

import (
	"strings"
	"unicode"
)

// Slugify normalizes a trip tag: lowercase, runs of anything other than
// letters and digits collapsed to a single hyphen, no leading or trailing
// hyphen. "Rocky Mountains!" becomes "rocky-mountains".
func Slugify(s string) string {
	var b strings.Builder
	pendingHyphen := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}
	return b.String()
}
