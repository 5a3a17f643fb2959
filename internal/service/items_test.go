package service

import (
	"testing"

	"itemstore/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetItemAsOwner(t *testing.T) {
	db := testutil.NewTestDB(t)
	f := testutil.NewFactory(t, db)

	owner, _ := f.CreateRandomUser(t, testutil.UserOpts{})
	item := f.CreateRandomItem(t, testutil.ItemOpts{Owner: owner})

	got, err := GetItem(db, owner, item.ID)
	require.NoError(t, err)
	assert.Equal(t, item.ID, got.ID)
	assert.Equal(t, item.Title, got.Title)
	assert.Equal(t, item.Description, got.Description)
	assert.Equal(t, owner.ID, got.OwnerID)
}

func TestGetItemAsSuperuser(t *testing.T) {
	db := testutil.NewTestDB(t)
	f := testutil.NewFactory(t, db)

	super, _ := f.CreateRandomUser(t, testutil.UserOpts{IsSuperuser: testutil.Ptr(true)})
	item := f.CreateRandomItem(t, testutil.ItemOpts{})

	got, err := GetItem(db, super, item.ID)
	require.NoError(t, err)
	assert.Equal(t, item.ID, got.ID)
}

func TestGetItemNotOwnerForbidden(t *testing.T) {
	db := testutil.NewTestDB(t)
	f := testutil.NewFactory(t, db)

	stranger, _ := f.CreateRandomUser(t, testutil.UserOpts{})
	item := f.CreateRandomItem(t, testutil.ItemOpts{})

	_, err := GetItem(db, stranger, item.ID)
	assert.ErrorIs(t, err, ErrNotEnoughPermissions)
}

func TestGetItemNotFound(t *testing.T) {
	db := testutil.NewTestDB(t)
	f := testutil.NewFactory(t, db)

	super, _ := f.CreateRandomUser(t, testutil.UserOpts{IsSuperuser: testutil.Ptr(true)})

	_, err := GetItem(db, super, uuid.New())
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestUpdateItem(t *testing.T) {
	db := testutil.NewTestDB(t)
	f := testutil.NewFactory(t, db)

	owner, _ := f.CreateRandomUser(t, testutil.UserOpts{})
	item := f.CreateRandomItem(t, testutil.ItemOpts{Owner: owner})

	updated, err := UpdateItem(db, owner, item.ID, ItemUpdate{
		Title: testutil.Ptr("new title"),
	})
	require.NoError(t, err)
	assert.Equal(t, "new title", updated.Title)
	// Unset fields keep their value.
	assert.Equal(t, item.Description, updated.Description)
	assert.Equal(t, item.ID, updated.ID)
	assert.Equal(t, item.OwnerID, updated.OwnerID)

	got, err := GetItem(db, owner, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "new title", got.Title)
	assert.Equal(t, item.Description, got.Description)
}

func TestUpdateItemForbidden(t *testing.T) {
	db := testutil.NewTestDB(t)
	f := testutil.NewFactory(t, db)

	stranger, _ := f.CreateRandomUser(t, testutil.UserOpts{})
	item := f.CreateRandomItem(t, testutil.ItemOpts{})

	_, err := UpdateItem(db, stranger, item.ID, ItemUpdate{Title: testutil.Ptr("nope")})
	assert.ErrorIs(t, err, ErrNotEnoughPermissions)
}

func TestDeleteItem(t *testing.T) {
	db := testutil.NewTestDB(t)
	f := testutil.NewFactory(t, db)

	owner, _ := f.CreateRandomUser(t, testutil.UserOpts{})
	item := f.CreateRandomItem(t, testutil.ItemOpts{Owner: owner})

	require.NoError(t, DeleteItem(db, owner, item.ID))

	_, err := GetItem(db, owner, item.ID)
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestDeleteItemForbidden(t *testing.T) {
	db := testutil.NewTestDB(t)
	f := testutil.NewFactory(t, db)

	stranger, _ := f.CreateRandomUser(t, testutil.UserOpts{})
	item := f.CreateRandomItem(t, testutil.ItemOpts{})

	err := DeleteItem(db, stranger, item.ID)
	assert.ErrorIs(t, err, ErrNotEnoughPermissions)

	// Item must still exist.
	super, _ := f.CreateRandomUser(t, testutil.UserOpts{IsSuperuser: testutil.Ptr(true)})
	_, err = GetItem(db, super, item.ID)
	assert.NoError(t, err)
}

func TestListItemsSuperuserSeesAll(t *testing.T) {
	db := testutil.NewTestDB(t)
	f := testutil.NewFactory(t, db)

	super, _ := f.CreateRandomUser(t, testutil.UserOpts{IsSuperuser: testutil.Ptr(true)})
	f.CreateRandomItem(t, testutil.ItemOpts{})
	f.CreateRandomItem(t, testutil.ItemOpts{})
	f.CreateRandomItem(t, testutil.ItemOpts{Owner: super})

	items, count, err := ListItems(db, super, 0, 100)
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)
	assert.Len(t, items, 3)
}

func TestListItemsOwnerSeesOnlyOwn(t *testing.T) {
	db := testutil.NewTestDB(t)
	f := testutil.NewFactory(t, db)

	owner, _ := f.CreateRandomUser(t, testutil.UserOpts{})
	mine1 := f.CreateRandomItem(t, testutil.ItemOpts{Owner: owner})
	mine2 := f.CreateRandomItem(t, testutil.ItemOpts{Owner: owner})
	f.CreateRandomItem(t, testutil.ItemOpts{}) // someone else's

	items, count, err := ListItems(db, owner, 0, 100)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
	require.Len(t, items, 2)
	for _, item := range items {
		assert.Equal(t, owner.ID, item.OwnerID)
	}
	ids := []uuid.UUID{items[0].ID, items[1].ID}
	assert.ElementsMatch(t, []uuid.UUID{mine1.ID, mine2.ID}, ids)
}

func TestListItemsPagination(t *testing.T) {
	db := testutil.NewTestDB(t)
	f := testutil.NewFactory(t, db)

	owner, _ := f.CreateRandomUser(t, testutil.UserOpts{})
	for i := 0; i < 5; i++ {
		f.CreateRandomItem(t, testutil.ItemOpts{Owner: owner})
	}

	items, count, err := ListItems(db, owner, 2, 2)
	require.NoError(t, err)
	// Count reflects the full matching set, not the page.
	assert.EqualValues(t, 5, count)
	assert.Len(t, items, 2)
}

func TestCreateItemSetsOwner(t *testing.T) {
	db := testutil.NewTestDB(t)
	f := testutil.NewFactory(t, db)

	owner, _ := f.CreateRandomUser(t, testutil.UserOpts{})

	item, err := CreateItem(db, owner, "t1", "d1")
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, item.ID)
	assert.Equal(t, "t1", item.Title)
	assert.Equal(t, "d1", item.Description)
	assert.Equal(t, owner.ID, item.OwnerID)

	t.Cleanup(func() { db.Delete(item) })
}

func TestCanAccessItem(t *testing.T) {
	db := testutil.NewTestDB(t)
	f := testutil.NewFactory(t, db)

	owner, _ := f.CreateRandomUser(t, testutil.UserOpts{})
	stranger, _ := f.CreateRandomUser(t, testutil.UserOpts{})
	super, _ := f.CreateRandomUser(t, testutil.UserOpts{IsSuperuser: testutil.Ptr(true)})
	item := f.CreateRandomItem(t, testutil.ItemOpts{Owner: owner})

	assert.True(t, CanAccessItem(owner, item))
	assert.True(t, CanAccessItem(super, item))
	assert.False(t, CanAccessItem(stranger, item))
}
