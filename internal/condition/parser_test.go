package condition

import (
	"testing"

	"github.com/reldb/reldb/internal/reldberr"
	"github.com/stretchr/testify/require"
)

func TestParseOperators(t *testing.T) {
	cases := map[string]string{
		"a<=5":  "<=",
		"a>=5":  ">=",
		"a<5":   "<",
		"a>5":   ">",
		"a=5":   "=",
		"a==5":  "=",
	}
	for input, want := range cases {
		cond, err := Parse(input)
		require.NoError(t, err, input)
		require.Equal(t, want, cond.Operator, input)
	}
}

func TestParseColumnAndLiteral(t *testing.T) {
	cond, err := Parse(`dept_name=Biology`)
	require.NoError(t, err)
	require.True(t, cond.Left.IsColumn)
	require.Equal(t, "dept_name", cond.Left.Column)
	require.False(t, cond.Right.IsColumn)
	require.Equal(t, "Biology", cond.Right.Literal)
}

func TestParseQuotedStringLiteral(t *testing.T) {
	cond, err := Parse(`room="100"`)
	require.NoError(t, err)
	require.Equal(t, "100", cond.Right.Literal)
}

func TestParseJoinConditionBothColumns(t *testing.T) {
	cond, err := Parse("instructor.ID = advisor.i_ID")
	require.NoError(t, err)
	require.True(t, cond.Left.IsColumn)
	require.True(t, cond.Right.IsColumn)
}

func TestParseMalformed(t *testing.T) {
	_, err := Parse("capacity")
	require.ErrorIs(t, err, reldberr.ErrMalformedCondition)
}
