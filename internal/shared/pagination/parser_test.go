package pagination

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

func messages(errs []ArgumentError) []string {
	out := make([]string, 0, len(errs))
	for _, e := range errs {
		out = append(out, e.Message)
	}
	return out
}

// knownIDs resuelve sólo los identificadores indicados.
func knownIDs(ids ...string) CursorResolver[string] {
	set := map[string]bool{}
	for _, id := range ids {
		set[id] = true
	}
	return ExistenceResolver(IdentityCodec{}, func(_ context.Context, id string) (bool, error) {
		return set[id], nil
	})
}

func TestParse_FirstOnly(t *testing.T) {
	// Act
	res, err := Parse(context.Background(), Request{First: intPtr(10)}, 100, knownIDs())

	// Assert
	require.NoError(t, err)
	require.True(t, res.IsSuccessful())
	args := res.Value()
	assert.Equal(t, Forward, args.Direction)
	assert.Equal(t, 11, args.Limit, "el límite incluye la fila centinela")
	assert.Equal(t, 10, args.PageSize())
	assert.Nil(t, args.Cursor)
}

func TestParse_LastWithBefore(t *testing.T) {
	// Act
	res, err := Parse(context.Background(), Request{Last: intPtr(5), Before: strPtr("u-3")}, 100, knownIDs("u-3"))

	// Assert
	require.NoError(t, err)
	require.True(t, res.IsSuccessful())
	args := res.Value()
	assert.Equal(t, Backward, args.Direction)
	assert.Equal(t, 6, args.Limit)
	require.NotNil(t, args.Cursor)
	assert.Equal(t, "u-3", *args.Cursor)
}

func TestParse_FirstZeroIsAllowed(t *testing.T) {
	res, err := Parse(context.Background(), Request{First: intPtr(0)}, 100, knownIDs())

	require.NoError(t, err)
	require.True(t, res.IsSuccessful())
	assert.Equal(t, 1, res.Value().Limit)
}

func TestParse_FirstAtMaxIsAllowed(t *testing.T) {
	res, err := Parse(context.Background(), Request{First: intPtr(100)}, 100, knownIDs())

	require.NoError(t, err)
	assert.True(t, res.IsSuccessful())
}

func TestParse_NeitherFirstNorLast(t *testing.T) {
	// Act
	res, err := Parse(context.Background(), Request{}, 100, knownIDs())

	// Assert
	require.NoError(t, err)
	require.False(t, res.IsSuccessful())
	assert.Equal(t, []ArgumentError{
		{Message: "first was not provided", Path: []string{"first"}},
		{Message: "last was not provided", Path: []string{"last"}},
	}, res.Errors())
}

func TestParse_AccumulatesEveryError(t *testing.T) {
	// Arrange: first con last y before, por encima del máximo y con un cursor inexistente
	req := Request{
		First:  intPtr(101),
		After:  strPtr("missing"),
		Last:   intPtr(5),
		Before: strPtr("x"),
	}

	// Act
	res, err := Parse(context.Background(), req, 100, knownIDs())

	// Assert
	require.NoError(t, err)
	require.False(t, res.IsSuccessful())
	assert.Equal(t, []string{
		"last cannot be provided with first",
		"before cannot be provided with first",
		"first cannot exceed 100",
		"Argument after is an invalid cursor.",
	}, messages(res.Errors()))
	assert.Equal(t, []string{"after"}, res.Errors()[3].Path)
}

func TestParse_LastWithAfter(t *testing.T) {
	res, err := Parse(context.Background(), Request{Last: intPtr(3), After: strPtr("u-1")}, 100, knownIDs("u-1"))

	require.NoError(t, err)
	require.False(t, res.IsSuccessful())
	assert.Equal(t, []ArgumentError{
		{Message: "after cannot be provided with last", Path: []string{"after"}},
	}, res.Errors())
}

func TestParse_LastExceedsMax(t *testing.T) {
	res, err := Parse(context.Background(), Request{Last: intPtr(51)}, 50, knownIDs())

	require.NoError(t, err)
	assert.Equal(t, []string{"last cannot exceed 50"}, messages(res.Errors()))
}

func TestParse_NegativeCount(t *testing.T) {
	res, err := Parse(context.Background(), Request{First: intPtr(-1)}, 100, knownIDs())

	require.NoError(t, err)
	assert.Equal(t, []string{"first must be a non-negative integer"}, messages(res.Errors()))
}

func TestParse_InvalidBeforeCursor(t *testing.T) {
	res, err := Parse(context.Background(), Request{Last: intPtr(2), Before: strPtr("otro-ambito")}, 100, knownIDs("u-1"))

	require.NoError(t, err)
	assert.Equal(t, []ArgumentError{
		{Message: "Argument before is an invalid cursor.", Path: []string{"before"}},
	}, res.Errors())
}

func TestParse_ResolverInfrastructureError(t *testing.T) {
	// Arrange
	boom := errors.New("db caída")
	resolver := ExistenceResolver(IdentityCodec{}, func(context.Context, string) (bool, error) {
		return false, boom
	})

	// Act
	_, err := Parse(context.Background(), Request{First: intPtr(1), After: strPtr("u-1")}, 100, resolver)

	// Assert
	assert.ErrorIs(t, err, boom)
}

func TestParse_NilResolverRejectsCursor(t *testing.T) {
	res, err := Parse[string](context.Background(), Request{First: intPtr(1), After: strPtr("u-1")}, 100, nil)

	require.NoError(t, err)
	assert.Equal(t, []string{"Argument after is an invalid cursor."}, messages(res.Errors()))
}

func TestParse_IsDeterministic(t *testing.T) {
	req := Request{First: intPtr(500), Before: strPtr("x")}

	a, _ := Parse(context.Background(), req, 100, knownIDs())
	b, _ := Parse(context.Background(), req, 100, knownIDs())

	assert.Equal(t, a, b)
}

// ---------------- Variantes ----------------

type testWhere struct {
	Prefix string
}

var prefixParser = WhereParserFunc[string, testWhere](func(in string, path []string) Result[testWhere] {
	if len(in) > 3 {
		return Fail[testWhere](ArgumentError{Message: "prefix too long", Path: append(path, "prefix")})
	}
	return Ok(testWhere{Prefix: in})
})

var orderParser = SortedByParserFunc[string, SortOrder](func(in string, path []string) Result[SortOrder] {
	order := SortOrder(in)
	if in == "" {
		return Ok(Descending)
	}
	if !order.Valid() {
		return Fail[SortOrder](ArgumentError{Message: "invalid order", Path: append(path, "id")})
	}
	return Ok(order)
})

func TestParseWithWhere_Success(t *testing.T) {
	res, err := ParseWithWhere(context.Background(), Request{First: intPtr(2)}, 10, knownIDs(), "ab", prefixParser)

	require.NoError(t, err)
	require.True(t, res.IsSuccessful())
	assert.Equal(t, "ab", res.Value().Where.Prefix)
	assert.Equal(t, 3, res.Value().Limit)
}

func TestParseWithWhere_MergesErrors(t *testing.T) {
	res, err := ParseWithWhere(context.Background(), Request{}, 10, knownIDs(), "abcd", prefixParser)

	require.NoError(t, err)
	require.False(t, res.IsSuccessful())
	assert.Equal(t, []string{
		"first was not provided",
		"last was not provided",
		"prefix too long",
	}, messages(res.Errors()))
	assert.Equal(t, []string{"where", "prefix"}, res.Errors()[2].Path)
}

func TestParseWithSortedBy_Success(t *testing.T) {
	res, err := ParseWithSortedBy(context.Background(), Request{Last: intPtr(1)}, 10, knownIDs(), "ASCENDING", orderParser)

	require.NoError(t, err)
	require.True(t, res.IsSuccessful())
	assert.Equal(t, Ascending, res.Value().SortedBy)
	assert.Equal(t, Backward, res.Value().Direction)
}

func TestParseWithSortedByAndWhere_ErrorOrder(t *testing.T) {
	// Act
	res, err := ParseWithSortedByAndWhere(
		context.Background(),
		Request{First: intPtr(11)}, 10, knownIDs(),
		"SIDEWAYS", orderParser,
		"abcd", prefixParser,
	)

	// Assert: base, luego where, luego sortedBy
	require.NoError(t, err)
	assert.Equal(t, []string{
		"first cannot exceed 10",
		"prefix too long",
		"invalid order",
	}, messages(res.Errors()))
}

func TestParseWithSortedByAndWhere_Success(t *testing.T) {
	res, err := ParseWithSortedByAndWhere(
		context.Background(),
		Request{First: intPtr(1), After: strPtr("t-1")}, 10, knownIDs("t-1"),
		"", orderParser,
		"a", prefixParser,
	)

	require.NoError(t, err)
	require.True(t, res.IsSuccessful())
	v := res.Value()
	assert.Equal(t, Descending, v.SortedBy)
	assert.Equal(t, "a", v.Where.Prefix)
	assert.Equal(t, "t-1", *v.Cursor)
}

func TestResult_Err(t *testing.T) {
	assert.NoError(t, Ok(1).Err())

	err := Fail[int](NewArgumentError("first was not provided", ArgFirst)).Err()
	var argErrs ArgumentErrors
	require.True(t, errors.As(err, &argErrs))
	assert.Len(t, argErrs, 1)
	assert.Equal(t, "invalid arguments: first was not provided (first)", err.Error())
}

func TestResult_FailWithoutErrorsIsStillFailure(t *testing.T) {
	res := Fail[int]()
	assert.False(t, res.IsSuccessful())
	assert.Len(t, res.Errors(), 1)
}
