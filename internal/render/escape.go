package render

import "strings"

var (
	literalEscaper = strings.NewReplacer(`\`, `\\`, "`", "\\`", "$", `\$`)
	attrEscaper    = strings.NewReplacer(`\`, `\\`, "`", "\\`", "$", `\$`, "{", `\{`, "}", `\}`)
	scriptEscaper  = strings.NewReplacer("</", `<\/`, "<!--", `<\!--`)
)

// EscapeLiteral escapes s for a JavaScript template literal: backslash,
// backtick and the ${ interpolation marker.
func EscapeLiteral(s string) string {
	return literalEscaper.Replace(s)
}

// EscapeAttr escapes s for template contexts that also treat braces as
// structure. It is EscapeLiteral plus { and }.
func EscapeAttr(s string) string {
	return attrEscaper.Replace(s)
}

// scriptSafe keeps literal text from closing the surrounding script element
// or switching the HTML parser into its escaped script state.
func scriptSafe(s string) string {
	return scriptEscaper.Replace(s)
}
