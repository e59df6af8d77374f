package report

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"menuplan/diagnose"
	"menuplan/testutil"
)

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, testutil.ABC(), []int{0, 1}, true, Text))
	assert.Equal(t, "A has got 300 calories and 10 proteins\nB has got 400 calories and 20.5 proteins\n", buf.String())

	buf.Reset()
	require.NoError(t, Write(&buf, testutil.ABC(), nil, false, Text))
	assert.Equal(t, "No Solution\n", buf.String())

	buf.Reset()
	require.NoError(t, Write(&buf, testutil.ABC(), []int{}, true, ""))
	assert.Empty(t, buf.String(), "an empty feasible selection prints nothing")
}

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, testutil.ABC(), []int{0, 2}, true, Table))
	out := buf.String()
	assert.Contains(t, out, "Dish")
	assert.Contains(t, out, "Calories")
	assert.Contains(t, out, "Total")
	assert.NotContains(t, out, "DISH")
	assert.Contains(t, out, "C")
	assert.Contains(t, out, "800")
	assert.Contains(t, out, "15")
	assert.NotContains(t, out, NoSolution)

	buf.Reset()
	require.NoError(t, Write(&buf, testutil.ABC(), nil, false, Table))
	assert.Equal(t, "No Solution\n", buf.String())
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, testutil.ABC(), []int{1}, true, JSON))

	var got Plan
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.True(t, got.Feasible)
	assert.Equal(t, 400, got.TotalCalories)
	require.Len(t, got.Dishes, 1)
	assert.Equal(t, "B", got.Dishes[0].Name)
	assert.Equal(t, 1, got.Dishes[0].Index)

	buf.Reset()
	require.NoError(t, Write(&buf, testutil.ABC(), nil, false, JSON))
	assert.JSONEq(t, `{"feasible": false, "dishes": [], "total_calories": 0, "total_proteins": 0}`, buf.String())
}

func TestWriteUnknownFormat(t *testing.T) {
	err := Write(&bytes.Buffer{}, testutil.ABC(), nil, false, "xml")
	assert.EqualError(t, err, `unknown output format "xml"`)
	assert.False(t, ValidFormat("xml"))
	assert.True(t, ValidFormat(Table))
}

func TestWriteDays(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteDays(&buf, testutil.ABC(), [][]int{{0, 1}}, 2, Text))
	assert.Equal(t, "Day 1\n"+
		"A has got 300 calories and 10 proteins\n"+
		"B has got 400 calories and 20.5 proteins\n"+
		"Day 2\n"+
		"No Solution\n", buf.String())

	buf.Reset()
	require.NoError(t, WriteDays(&buf, testutil.ABC(), [][]int{{2}, {1}}, 2, JSON))
	var plans []Plan
	require.NoError(t, json.Unmarshal(buf.Bytes(), &plans))
	require.Len(t, plans, 2)
	assert.Equal(t, 500, plans[0].TotalCalories)
	assert.Equal(t, 400, plans[1].TotalCalories)

	assert.Error(t, WriteDays(&bytes.Buffer{}, testutil.ABC(), nil, 1, "xml"))
}

func TestWriteConflicts(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteConflicts(&buf, []diagnose.Conflict{{
		Constraints: []string{"count"},
		Causes:      [][]string{{"count"}},
		Corrections: [][]string{{"count"}},
	}}))
	assert.Equal(t, "conflict 1 between [count]\n  cannot hold together: [count]\n  relax: [count]\n", buf.String())
}
