package logic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTerm(t *testing.T) {
	term, err := ParseTerm("pair(a, [X, 1])")
	require.NoError(t, err)
	assert.Equal(t, Compound{
		Value: "pair",
		Args: []Term{
			Atom{Value: "a"},
			List{Values: []Term{Var{Value: "X"}, Int{Value: 1}}},
		},
	}, term)

	term, err = ParseTerm("[]")
	require.NoError(t, err)
	assert.Empty(t, term.(List).Values)
}

func TestParseIntList(t *testing.T) {
	type testcase struct {
		input   string
		expect  []int
		wantErr bool
	}

	cases := []testcase{
		{"[1,0,1]", []int{1, 0, 1}, false},
		{"[1, 0,\n 1]", []int{1, 0, 1}, false},
		{"[]", []int{}, false},
		{"[1,a]", nil, true},
		{"f(1)", nil, true},
		{"[1,", nil, true},
	}

	for _, tc := range cases {
		out, err := ParseIntList(tc.input)
		if tc.wantErr {
			assert.Error(t, err, tc.input)
			continue
		}
		require.NoError(t, err, tc.input)
		assert.Equal(t, tc.expect, out, tc.input)
	}
}

func TestTemplate(t *testing.T) {
	tmpl := NewTemplate("t", `f([{{ joinInt .Ns "" ", " }}], {{ num .K }}, {{ joinStr .Vs "_" "," }}).`)
	out, err := TemplateToString(tmpl, struct {
		Ns []int
		K  int
		Vs []string
	}{[]int{3, -2}, -7, []string{"a", "b"}})
	require.NoError(t, err)
	assert.Equal(t, "f([3, (0-2)], (0-7), _a,_b).", out)
}

func TestProlog(t *testing.T) {
	p := NewProlog()
	ok, bindings, err := p.ConsultAndQuery1("x(X) :- X = f(a).", "x(f(Y)).")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "a", bindings["Y"])

	ok, err = NewProlog().ConsultAndCheck("n(1). n(2).", "n(3).")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = NewProlog().ConsultAndCheck("broken(", "true.")
	assert.Error(t, err)
}
