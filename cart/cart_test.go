package cart

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/Madhav-Gupta-28/storefront-go/database"
	"github.com/Madhav-Gupta-28/storefront-go/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type recordingSyncer struct {
	pushes [][]models.CartLineItem
	err    error
}

func (r *recordingSyncer) SaveCart(_ context.Context, items []models.CartLineItem) error {
	r.pushes = append(r.pushes, items)
	return r.err
}

type presence bool

func (p presence) Authenticated() bool { return bool(p) }

var tee = models.ProductRef{ID: "1", Name: "Oversized Tee", Price: models.NewPrice(1999)}

func persisted(t *testing.T, store database.Store) []models.CartLineItem {
	t.Helper()
	raw, err := store.Get(context.Background(), KeyCart)
	require.NoError(t, err)
	var items []models.CartLineItem
	require.NoError(t, json.Unmarshal(raw, &items))
	return items
}

func TestAddMergesSameKey(t *testing.T) {
	ctx := context.Background()
	c := New(database.NewMemoryStore())

	_, err := c.Add(ctx, tee, 1, "M", "Black")
	require.NoError(t, err)
	_, err = c.Add(ctx, tee, 2, "M", "Black")
	require.NoError(t, err)
	res, err := c.Add(ctx, tee, 1, "L", "Black")
	require.NoError(t, err)

	require.Len(t, res.Items, 2)
	assert.Equal(t, 3, res.Items[0].Quantity)
	assert.Equal(t, "L", *res.Items[1].Size)
	assert.Equal(t, 4, c.Count())
}

func TestAddValidates(t *testing.T) {
	c := New(database.NewMemoryStore())
	_, err := c.Add(context.Background(), tee, 0, "M", "")
	assert.ErrorIs(t, err, ErrInvalidQuantity)
	_, err = c.Add(context.Background(), models.ProductRef{}, 1, "M", "")
	assert.ErrorIs(t, err, ErrInvalidProduct)
	assert.Empty(t, c.Items())
}

func TestEveryMutationPersistsSnapshot(t *testing.T) {
	ctx := context.Background()
	store := database.NewMemoryStore()
	c := New(store)

	_, err := c.Add(ctx, tee, 1, "M", "Black")
	require.NoError(t, err)
	assert.Len(t, persisted(t, store), 1)

	key := models.LineKey{ProductID: "1", Size: "M", Color: "Black"}
	_, err = c.UpdateQuantity(ctx, key, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, persisted(t, store)[0].Quantity)

	_, err = c.Remove(ctx, key)
	require.NoError(t, err)
	assert.Empty(t, persisted(t, store))

	_, err = c.Add(ctx, tee, 1, "", "")
	require.NoError(t, err)
	_, err = c.Clear(ctx)
	require.NoError(t, err)
	assert.Empty(t, persisted(t, store))
}

func TestUpdateAndRemoveUnknownKey(t *testing.T) {
	ctx := context.Background()
	c := New(database.NewMemoryStore())
	_, err := c.Add(ctx, tee, 1, "M", "")
	require.NoError(t, err)

	_, err = c.UpdateQuantity(ctx, models.LineKey{ProductID: "1", Size: "S"}, 2)
	assert.ErrorIs(t, err, ErrItemNotFound)
	_, err = c.Remove(ctx, models.LineKey{ProductID: "2"})
	assert.ErrorIs(t, err, ErrItemNotFound)
	_, err = c.UpdateQuantity(ctx, models.LineKey{ProductID: "1", Size: "M"}, 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	assert.Equal(t, 1, c.Count())
}

func TestSyncOnlyWhenSignedIn(t *testing.T) {
	ctx := context.Background()
	syncer := &recordingSyncer{}

	guest := New(database.NewMemoryStore(), WithSync(syncer, presence(false)))
	_, err := guest.Add(ctx, tee, 1, "M", "")
	require.NoError(t, err)
	assert.Empty(t, syncer.pushes)

	member := New(database.NewMemoryStore(), WithSync(syncer, presence(true)))
	_, err = member.Add(ctx, tee, 1, "M", "")
	require.NoError(t, err)
	_, err = member.Clear(ctx)
	require.NoError(t, err)

	require.Len(t, syncer.pushes, 2)
	assert.Len(t, syncer.pushes[0], 1)
	assert.Empty(t, syncer.pushes[1])
}

func TestSyncFailureIsSoft(t *testing.T) {
	ctx := context.Background()
	store := database.NewMemoryStore()
	syncer := &recordingSyncer{err: errors.New("upstream down")}
	c := New(store, WithSync(syncer, presence(true)))

	res, err := c.Add(ctx, tee, 2, "M", "Black")
	require.NoError(t, err)
	assert.EqualError(t, res.SyncErr, "upstream down")

	// local state and snapshot are kept
	assert.Equal(t, 2, c.Count())
	assert.Len(t, persisted(t, store), 1)
}

func TestRestoreToleratesMalformedEntries(t *testing.T) {
	ctx := context.Background()
	store := database.NewMemoryStore()
	require.NoError(t, store.Set(ctx, KeyCart, []byte(`[{"product":null,"quantity":1},{"product":{"_id":"1","price":100},"quantity":2}]`)))

	c := New(store)
	require.NoError(t, c.Restore(ctx))
	items := c.Items()
	require.Len(t, items, 2)
	assert.Nil(t, items[0].Product)
	assert.True(t, items[1].Priced())

	require.NoError(t, store.Set(ctx, KeyCart, []byte(`not json`)))
	fresh := New(store)
	require.NoError(t, fresh.Restore(ctx))
	assert.Empty(t, fresh.Items())
}

func TestItemsReturnsCopy(t *testing.T) {
	ctx := context.Background()
	c := New(database.NewMemoryStore())
	_, err := c.Add(ctx, tee, 1, "M", "")
	require.NoError(t, err)

	items := c.Items()
	items[0].Quantity = 99
	items[0].Product.Name = "changed"

	assert.Equal(t, 1, c.Items()[0].Quantity)
	assert.Equal(t, "Oversized Tee", c.Items()[0].Product.Name)
}

func TestAdopt(t *testing.T) {
	ctx := context.Background()
	saved := []models.CartLineItem{{Product: &tee, Quantity: 2}}

	empty := New(database.NewMemoryStore())
	adopted, _, err := empty.Adopt(ctx, saved)
	require.NoError(t, err)
	assert.True(t, adopted)
	assert.Equal(t, 2, empty.Count())

	syncer := &recordingSyncer{}
	full := New(database.NewMemoryStore(), WithSync(syncer, presence(true)))
	_, err = full.Add(ctx, tee, 1, "S", "")
	require.NoError(t, err)
	adopted, _, err = full.Adopt(ctx, saved)
	require.NoError(t, err)
	assert.False(t, adopted)
	assert.Equal(t, 1, full.Count())
	assert.Len(t, syncer.pushes, 2)
}
