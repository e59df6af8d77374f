package logic

import (
	"fmt"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

type Term interface {
	term()
}

type Int struct {
	Value int `@Int`
}

type Var struct {
	Value string `@Var`
}

type Atom struct {
	Value string `@Atom`
}

type Compound struct {
	Value string `@Atom`
	Args  []Term `"(" @@ ( "," @@)*  ")"`
}

type List struct {
	Values []Term `"[" (@@ ( "," @@)*  ("|" Var)?)? "]"`
}

type Formula struct {
	Formula Term `@@`
}

func (Int) term()      {}
func (Var) term()      {}
func (Atom) term()     {}
func (List) term()     {}
func (Compound) term() {}

var termLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Atom", Pattern: `[a-z]+[a-zA-Z_0-9]*`},
	{Name: "Var", Pattern: `[A-Z_][a-zA-Z_0-9]*`},
	{Name: "Punct", Pattern: `[-[!@#$%^&*()+={}\|:;"'<,>.?/]|]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var termParser = participle.MustBuild[Formula](
	participle.Union[Term](Compound{}, Int{}, Var{}, Atom{}, List{}),
	participle.Lexer(termLexer),
	participle.Elide("Whitespace"),
	participle.UseLookahead(2))

func ParseTerm(s string) (Term, error) {
	g, err := termParser.ParseString("", s)
	if err != nil {
		return nil, err
	}
	return g.Formula, nil
}

// ParseIntList parses a proper list of integers such as "[1, 0, 1]".
func ParseIntList(s string) ([]int, error) {
	t, err := ParseTerm(s)
	if err != nil {
		return nil, err
	}
	l, ok := t.(List)
	if !ok {
		return nil, fmt.Errorf("not a list: %s", s)
	}
	out := make([]int, len(l.Values))
	for i, v := range l.Values {
		n, ok := v.(Int)
		if !ok {
			return nil, fmt.Errorf("element %d of %s is not an integer", i, s)
		}
		out[i] = n.Value
	}
	return out, nil
}
