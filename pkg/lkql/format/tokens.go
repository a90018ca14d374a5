package format

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/sambeau/lkql/pkg/lkql/lexer"
)

// Tokens renders one token per line as aligned "line:col TYPE literal"
// columns. The EOF token is included.
func Tokens(tokens []lexer.Token) string {
	var sb strings.Builder
	w := tabwriter.NewWriter(&sb, 0, 4, 2, ' ', 0)
	for _, tok := range tokens {
		fmt.Fprintf(w, "%s\t%s\t%q\n", tok.Pos, tok.Type, tok.Literal)
	}
	w.Flush()
	return sb.String()
}
