package label

import (
	"fmt"
	"regexp"
	"strings"
)

// Render substitutes every occurrence of each recognized {placeholder} token
// with its mapped value in a single left-to-right pass. Substituted values are
// written through verbatim and never re-scanned, so a value that happens to
// contain a token-shaped string cannot trigger recursive expansion. Tokens
// outside the vocabulary pass through unchanged.
func Render(body string, m FieldMapping) string {
	var out strings.Builder
	out.Grow(len(body))

	for i := 0; i < len(body); {
		open := strings.IndexByte(body[i:], '{')
		if open < 0 {
			out.WriteString(body[i:])
			break
		}
		open += i
		out.WriteString(body[i:open])

		end := strings.IndexByte(body[open:], '}')
		if end < 0 {
			out.WriteString(body[open:])
			break
		}
		end += open

		name := body[open+1 : end]
		if value, ok := m.Value(name); ok {
			out.WriteString(value)
		} else {
			out.WriteString(body[open : end+1])
		}
		i = end + 1
	}
	return out.String()
}

var quantityPattern = regexp.MustCompile(`\^PQ[^\^~]*`)

// ApplyQuantity sets the printer-side repeat count on a rendered label.
// An existing ^PQ directive is rewritten, otherwise one is inserted before the
// closing ^XZ. Quantities below two leave the label untouched.
func ApplyQuantity(zpl string, quantity int) string {
	if quantity <= 1 {
		return zpl
	}
	directive := fmt.Sprintf("^PQ%d,0,1,Y", quantity)
	if strings.Contains(zpl, "^PQ") {
		return quantityPattern.ReplaceAllString(zpl, directive)
	}
	return strings.Replace(zpl, "^XZ", directive+"^XZ", 1)
}
