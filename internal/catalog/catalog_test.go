package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oqtepa/fastfood-storefront/internal/kvstore"
	"github.com/oqtepa/fastfood-storefront/internal/model"
)

func newTestStore(t *testing.T) (*Store, *kvstore.Store) {
	t.Helper()
	kv := kvstore.New(t.TempDir())
	return New(kv, NewBroadcaster(4, 0)), kv
}

func testProduct(id string) model.Product {
	return model.Product{
		ID:       id,
		Name:     model.LocalizedText{"en": id},
		Price:    10000,
		Category: "drinks",
		Stock:    5,
	}
}

func TestSeedsDefaultsWhenNoSnapshot(t *testing.T) {
	s, _ := newTestStore(t)
	products := s.List()
	require.Len(t, products, len(DefaultProducts()))
	assert.Equal(t, "classic-burger", products[0].ID)
}

func TestSeedsFromPersistedSnapshot(t *testing.T) {
	kv := kvstore.New(t.TempDir())
	snap := []model.Product{testProduct("only-one")}
	kv.Write(kvstore.KeyCatalog, snap)
	s := New(kv, NewBroadcaster(4, 0))
	assert.Equal(t, snap, s.List())
}

func TestCrudSequenceNetEffect(t *testing.T) {
	s, _ := newTestStore(t)
	base := len(s.List())

	require.True(t, s.Add(testProduct("p1")))
	require.True(t, s.Add(testProduct("p2")))
	p1v2 := testProduct("p1")
	p1v2.Price = 99000
	require.True(t, s.Update("p1", p1v2))
	require.True(t, s.Remove("p2"))

	products := s.List()
	require.Len(t, products, base+1)
	got, ok := s.Get("p1")
	require.True(t, ok)
	assert.Equal(t, int64(99000), got.Price)
	_, ok = s.Get("p2")
	assert.False(t, ok)
}

func TestAddRejectsDuplicateID(t *testing.T) {
	s, _ := newTestStore(t)
	require.True(t, s.Add(testProduct("dup")))
	assert.False(t, s.Add(testProduct("dup")))
}

func TestAddRejectsInvalidRecords(t *testing.T) {
	s, _ := newTestStore(t)
	p := testProduct("")
	assert.False(t, s.Add(p), "empty id")
	p = testProduct("neg-price")
	p.Price = -1
	assert.False(t, s.Add(p), "negative price")
	p = testProduct("neg-stock")
	p.Stock = -1
	assert.False(t, s.Add(p), "negative stock")
	p = testProduct("bad-cat")
	p.Category = "sushi"
	assert.False(t, s.Add(p), "unknown category")
}

func TestUpdateAbsentIsNoop(t *testing.T) {
	s, _ := newTestStore(t)
	before := s.List()
	assert.False(t, s.Update("ghost", testProduct("ghost")))
	assert.Equal(t, before, s.List())
}

func TestUpdateKeepsIdentifier(t *testing.T) {
	s, _ := newTestStore(t)
	require.True(t, s.Add(testProduct("stable")))
	repl := testProduct("other-id")
	require.True(t, s.Update("stable", repl))
	_, ok := s.Get("other-id")
	assert.False(t, ok)
	got, ok := s.Get("stable")
	require.True(t, ok)
	assert.Equal(t, int64(10000), got.Price)
}

func TestRemoveAbsentIsNoop(t *testing.T) {
	s, _ := newTestStore(t)
	assert.False(t, s.Remove("ghost"))
}

func TestGetStockUnknownProductIsZero(t *testing.T) {
	s, _ := newTestStore(t)
	assert.Equal(t, int64(0), s.GetStock("ghost"))
}

func TestInStockMatchesGetStock(t *testing.T) {
	s, _ := newTestStore(t)
	require.True(t, s.Add(testProduct("soda"))) // stock 5
	for n := int64(0); n <= 7; n++ {
		assert.Equal(t, s.GetStock("soda") >= n, s.InStock("soda", n), "n=%d", n)
	}
	assert.False(t, s.InStock("ghost", 0))
	assert.False(t, s.InStock("ghost", 1))
}

func TestAdjustStockNeverNegative(t *testing.T) {
	s, _ := newTestStore(t)
	require.True(t, s.Add(testProduct("soda"))) // stock 5
	require.True(t, s.AdjustStock("soda", 3))
	assert.Equal(t, int64(2), s.GetStock("soda"))
	assert.False(t, s.AdjustStock("soda", 3), "would go negative")
	assert.Equal(t, int64(2), s.GetStock("soda"), "stock unchanged after reject")
	require.True(t, s.AdjustStock("soda", 2))
	assert.Equal(t, int64(0), s.GetStock("soda"))
}

func TestAdjustStockNegativeDeltaRestocks(t *testing.T) {
	s, _ := newTestStore(t)
	require.True(t, s.Add(testProduct("soda")))
	require.True(t, s.AdjustStock("soda", -10))
	assert.Equal(t, int64(15), s.GetStock("soda"))
}

func TestEveryMutationPersistsSnapshot(t *testing.T) {
	s, kv := newTestStore(t)
	readBack := func() []model.Product {
		var snap []model.Product
		require.True(t, kv.Read(kvstore.KeyCatalog, &snap))
		return snap
	}

	require.True(t, s.Add(testProduct("p1")))
	assert.Equal(t, s.List(), readBack())
	require.True(t, s.Update("p1", testProduct("p1")))
	assert.Equal(t, s.List(), readBack())
	require.True(t, s.AdjustStock("p1", 1))
	assert.Equal(t, s.List(), readBack())
	require.True(t, s.Remove("p1"))
	assert.Equal(t, s.List(), readBack())
}

func TestRejectedAdjustDoesNotPersist(t *testing.T) {
	s, kv := newTestStore(t)
	require.True(t, s.Add(testProduct("p1")))
	var before []model.Product
	require.True(t, kv.Read(kvstore.KeyCatalog, &before))
	require.False(t, s.AdjustStock("p1", 100))
	var after []model.Product
	require.True(t, kv.Read(kvstore.KeyCatalog, &after))
	assert.Equal(t, before, after)
}

func TestListReturnsCopy(t *testing.T) {
	s, _ := newTestStore(t)
	products := s.List()
	products[0].Stock = 99999
	fresh := s.List()
	assert.NotEqual(t, int64(99999), fresh[0].Stock)
}
