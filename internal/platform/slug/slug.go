package slug

import (
	"strings"
	"unicode"
)

// MaxRunes caps slugs so review note names stay readable in a file list.
const MaxRunes = 40

// Make turns a title into a file-name fragment: letters and digits of any
// script are lowercased and kept, every other run becomes one hyphen. A
// title with nothing usable returns fallback.
func Make(title, fallback string) string {
	var b strings.Builder
	runes := 0
	pendingHyphen := false
	for _, r := range strings.TrimSpace(title) {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			pendingHyphen = runes > 0
			continue
		}
		if pendingHyphen {
			if runes+2 > MaxRunes {
				break
			}
			b.WriteByte('-')
			runes++
			pendingHyphen = false
		}
		if runes+1 > MaxRunes {
			break
		}
		b.WriteRune(unicode.ToLower(r))
		runes++
	}
	if b.Len() == 0 {
		return fallback
	}
	return b.String()
}
