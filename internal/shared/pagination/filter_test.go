package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"

	sharedDomain "github.com/davicafu/relaypage/internal/shared/domain"
)

func TestBuildFilterAndSort_TruthTable(t *testing.T) {
	cursor := "c"
	cases := []struct {
		name      string
		direction Direction
		order     SortOrder
		op        sharedDomain.Operator
		desc      bool
	}{
		{"forward desc", Forward, Descending, sharedDomain.OpLt, true},
		{"backward desc", Backward, Descending, sharedDomain.OpGt, false},
		{"forward asc", Forward, Ascending, sharedDomain.OpGt, false},
		{"backward asc", Backward, Ascending, sharedDomain.OpLt, true},
		{"forward default", Forward, "", sharedDomain.OpLt, true},
		{"backward default", Backward, "", sharedDomain.OpGt, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			filter := BuildFilter("id", &cursor, tc.direction, tc.order).ToConditions()
			sort := BuildSort("id", tc.direction, tc.order)

			assert.Equal(t, []sharedDomain.Criterion{{Field: "id", Op: tc.op, Value: "c"}}, filter)
			assert.Equal(t, tc.desc, sort.Desc)
			assert.Equal(t, "id", sort.Field)
		})
	}
}

func TestBuildFilter_NoCursor(t *testing.T) {
	assert.Empty(t, BuildFilter("id", nil, Forward, Descending).ToConditions())
}

func TestNewScan_CountExcludesIDFilter(t *testing.T) {
	// Arrange
	cursor := "u-5"
	args := NormalizedArgs[string]{Cursor: &cursor, Direction: Forward, Limit: 3}
	entity := sharedDomain.Conditions{{Field: "organization_id", Op: sharedDomain.OpEq, Value: "org-1"}}

	// Act
	scan := NewScan(args, entity)

	// Assert
	assert.Equal(t, []sharedDomain.Criterion{
		{Field: "id", Op: sharedDomain.OpLt, Value: "u-5"},
		{Field: "organization_id", Op: sharedDomain.OpEq, Value: "org-1"},
	}, scan.ListCriteria().ToConditions())
	assert.Equal(t, []sharedDomain.Criterion{
		{Field: "organization_id", Op: sharedDomain.OpEq, Value: "org-1"},
	}, scan.CountCriteria().ToConditions())
	assert.Equal(t, 3, scan.Limit)
	assert.Equal(t, "DESC", scan.Sort.Direction())
}

func TestNewScan_Options(t *testing.T) {
	cursor := "t-1"
	args := NormalizedArgs[string]{Cursor: &cursor, Direction: Backward, Limit: 2}

	scan := NewScan(args, nil, WithIDField("_id"), WithSortByID(Ascending))

	assert.Equal(t, []sharedDomain.Criterion{{Field: "_id", Op: sharedDomain.OpLt, Value: "t-1"}}, scan.ListCriteria().ToConditions())
	assert.Equal(t, "_id", scan.Sort.Field)
	assert.True(t, scan.Sort.Desc)
	assert.Empty(t, scan.CountCriteria().ToConditions())
}
