package textutil

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// labelReplacer replaces filesystem-unsafe characters with safe alternatives.
var labelReplacer = strings.NewReplacer(
	"/", "-",
	"\\", "-",
	":", "-",
	"*", "-",
	"?", "",
	"\"", "",
	"<", "",
	">", "",
	"|", "",
)

// CategoryFolderName converts an untrusted category label into a safe folder
// name. Path separators and other unsafe characters are replaced or dropped,
// whitespace runs collapse to single spaces, and the result is title cased so
// labels differing only in case land in the same folder. Returns "" when
// nothing usable remains; callers substitute their fallback label.
func CategoryFolderName(label string) string {
	label = strings.TrimSpace(labelReplacer.Replace(label))
	label = strings.Join(strings.Fields(label), " ")
	if label == "" || label == "." || label == ".." {
		return ""
	}
	return cases.Title(language.Und).String(label)
}
