package cli

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// maxSpan bounds a single range so that a typo cannot allocate millions of
// indices.
const maxSpan = 1 << 16

type indexList struct {
	Items []*indexItem `parser:"(@@ (',' @@)*)?"`
}

// indexItem is either a single index or an inclusive range "from-to".
type indexItem struct {
	From int  `parser:"@Int"`
	To   *int `parser:"('-' @Int)?"`
}

var indexLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Punct", Pattern: `[,-]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var indexParser = participle.MustBuild[indexList](
	participle.Lexer(indexLexer),
	participle.Elide("Whitespace"))

// ParseIndexList reads dish indices written as "0,3-5,9". Ranges are
// inclusive. The empty string is the empty list.
func ParseIndexList(s string) ([]int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	l, err := indexParser.ParseString("", s)
	if err != nil {
		return nil, fmt.Errorf("invalid index list %q: %w", s, err)
	}
	var out []int
	for _, it := range l.Items {
		if it.To == nil {
			out = append(out, it.From)
			continue
		}
		if *it.To < it.From {
			return nil, fmt.Errorf("invalid index list %q: range %d-%d is reversed", s, it.From, *it.To)
		}
		if *it.To-it.From >= maxSpan {
			return nil, fmt.Errorf("invalid index list %q: range %d-%d is too long", s, it.From, *it.To)
		}
		for i := it.From; i <= *it.To; i++ {
			out = append(out, i)
		}
	}
	return out, nil
}
