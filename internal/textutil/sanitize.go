package textutil

import "strings"

var fileNameReplacer = strings.NewReplacer(
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

// SanitizeFileName makes an identifier safe to use as a single path element.
// Separators become dashes, other unsafe characters are dropped, and a name
// made only of dots is rejected as empty.
func SanitizeFileName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	out := strings.TrimSpace(fileNameReplacer.Replace(name))
	if strings.Trim(out, ".") == "" {
		return ""
	}
	return out
}
