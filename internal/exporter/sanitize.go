package exporter

import (
	"strings"
	"unicode/utf8"
)

// DefaultSheetNameLimit is the longest sheet name the exporter writes.
const DefaultSheetNameLimit = 30

var sheetNameReplacer = strings.NewReplacer(
	"/", "_",
	`\`, "_",
	"?", "_",
	"*", "_",
	"[", "_",
	"]", "_",
)

// SanitizeSheetName turns a well name into a worksheet name: each of
// / \ ? * [ ] becomes '_' and the result is cut to limit runes. Applying it
// twice gives the same result as applying it once. A limit below one means
// DefaultSheetNameLimit.
func SanitizeSheetName(name string, limit int) string {
	if limit < 1 {
		limit = DefaultSheetNameLimit
	}
	out := sheetNameReplacer.Replace(name)
	if utf8.RuneCountInString(out) <= limit {
		return out
	}
	runes := []rune(out)
	return string(runes[:limit])
}
