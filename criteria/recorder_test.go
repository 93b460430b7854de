package criteria_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/query-criteria-go/criteria"
)

var (
	testID          = criteria.NewKey[int64]("id")
	testNameLike    = criteria.NewKey[string]("name_like")
	testNickname    = criteria.NewKey[*string]("nickname")
	testDeletedNull = criteria.NewFlag("deletedAt_null")
	testQtyAndPrice = criteria.NewKey2[int, float64]("qtyAndPrice_exists")
	testSortByName  = criteria.NewKey[criteria.SortOrder]("sortByName")
	testFetchOwner  = criteria.NewFlag("fetchOwner")
)

type testParams struct {
	criteria.Recorder
}

func (p *testParams) ID(id int64)                     { testID.Set(p, id) }
func (p *testParams) NameLike(name string)            { testNameLike.Set(p, name) }
func (p *testParams) Nickname(nickname *string)       { testNickname.Set(p, nickname) }
func (p *testParams) DeletedNull()                    { testDeletedNull.Set(p) }
func (p *testParams) QtyAndPrice(q int, price float64) { testQtyAndPrice.Set(p, q, price) }
func (p *testParams) SortByName(o criteria.SortOrder) { testSortByName.Set(p, o) }
func (p *testParams) FetchOwner()                     { testFetchOwner.Set(p) }

func Test_Recorder_RecordsValuesByArity(t *testing.T) {
	// arrange
	p := &testParams{}

	// act
	p.ID(42)
	p.DeletedNull()
	p.QtyAndPrice(12, 9.5)
	p.FetchOwner()

	values, err := criteria.ValuesOf(p)

	// assert
	require.NoError(t, err)
	assert.Equal(t, 4, values.Len())

	id, ok := values.Get("id")
	assert.True(t, ok)
	assert.Equal(t, int64(42), id)

	deleted, _ := values.Get("deletedAt_null")
	assert.Equal(t, true, deleted)

	tuple, _ := values.Get("qtyAndPrice_exists")
	assert.Equal(t, criteria.Tuple{12, 9.5}, tuple)

	fetch, _ := values.Get("fetchOwner")
	assert.Equal(t, true, fetch)
}

func Test_Recorder_KeepsInsertionOrder_AndLastWriteWins(t *testing.T) {
	// arrange
	p := &testParams{}

	// act
	p.NameLike("%a%")
	p.SortByName(criteria.Desc)
	p.ID(1)
	p.NameLike("%b%")

	values, err := criteria.ValuesOf(p)

	// assert
	require.NoError(t, err)
	assert.Equal(t, []string{"name_like", "sortByName", "id"}, values.Names())

	nameLike, _ := values.Get("name_like")
	assert.Equal(t, "%b%", nameLike)

	all := values.All()
	assert.Equal(t, criteria.CapturedValue{Name: "sortByName", Value: criteria.Desc}, all[1])
}

func Test_Recorder_PreservesTypedNil(t *testing.T) {
	// arrange
	p := &testParams{}

	// act
	p.Nickname(nil)
	values, err := criteria.ValuesOf(p)

	// assert
	require.NoError(t, err)

	nickname, ok := values.Get("nickname")
	assert.True(t, ok)
	assert.IsType(t, (*string)(nil), nickname)
	assert.Nil(t, nickname)
}

func Test_ValuesOf_ReturnsSnapshot(t *testing.T) {
	// arrange
	p := &testParams{}
	p.ID(1)

	// act
	snapshot, err := criteria.ValuesOf(p)
	p.ID(2)
	p.DeletedNull()

	// assert
	require.NoError(t, err)
	assert.Equal(t, 1, snapshot.Len())

	id, _ := snapshot.Get("id")
	assert.Equal(t, int64(1), id)
}

func Test_Recorder_ZeroValueKey_IsUnsupported(t *testing.T) {
	// arrange
	p := &testParams{}
	var unnamed criteria.Key[string]

	// act
	unnamed.Set(p, "value")
	_, err := criteria.ValuesOf(p)

	// assert
	assert.ErrorIs(t, err, criteria.ErrUnsupportedOperation)
}

func Test_ValuesOf_NilContract_IsUnsupported(t *testing.T) {
	// act
	_, err := criteria.ValuesOf(nil)

	// assert
	assert.ErrorIs(t, err, criteria.ErrUnsupportedOperation)
}

func Test_NewCapturedValues(t *testing.T) {
	// act
	values := criteria.NewCapturedValues(
		criteria.CapturedValue{Name: "a", Value: 1},
		criteria.CapturedValue{Name: "b", Value: 2},
		criteria.CapturedValue{Name: "a", Value: 3},
	)

	// assert
	assert.Equal(t, []string{"a", "b"}, values.Names())

	a, _ := values.Get("a")
	assert.Equal(t, 3, a)

	_, ok := values.Get("c")
	assert.False(t, ok)
}
