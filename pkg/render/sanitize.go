package render

import (
	"regexp"
	"strings"
)

// nameSanitizer matches every character Prometheus does not allow in metric
// and label names. It is compiled at package initialization and only read
// afterwards.
var nameSanitizer = regexp.MustCompile(`[^a-zA-Z0-9_]`)

var valueEscaper = strings.NewReplacer(
	`\`, `\\`,
	"\n", `\n`,
	`"`, `\"`,
)

// SanitizeName replaces every character outside [a-zA-Z0-9_] with '_'.
func SanitizeName(name string) string {
	return nameSanitizer.ReplaceAllLiteralString(name, "_")
}

// SanitizeValue escapes a label value for the exposition format.
func SanitizeValue(value string) string {
	return valueEscaper.Replace(value)
}
