package render

import (
	"strings"

	xhtml "golang.org/x/net/html"

	"github.com/custodia-labs/scopeiq-cli/internal/core/domain"
	"github.com/custodia-labs/scopeiq-cli/internal/core/ports/driven"
)

// Document wraps rendered HTML fragments in a standalone page. The CSS is
// written once in the head; each fragment becomes a <pre> block.
func Document(title, css string, fragments ...string) string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	b.WriteString("<title>" + xhtml.EscapeString(title) + "</title>\n")
	if css != "" {
		b.WriteString("<style>\n")
		b.WriteString(css)
		b.WriteString("</style>\n")
	}
	b.WriteString("</head>\n<body>\n")
	for _, f := range fragments {
		b.WriteString("<pre>" + f + "</pre>\n")
	}
	b.WriteString("</body>\n</html>\n")
	return b.String()
}

// Defaults returns one renderer per markup format for caps.
func Defaults(caps domain.Capabilities) []driven.Renderer {
	return []driven.Renderer{NewANSI(caps), NewHTML(), NewPlain()}
}
