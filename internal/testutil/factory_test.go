package testutil

import (
	"testing"

	"itemstore/internal/domain"
	"itemstore/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateRandomUserDefaults(t *testing.T) {
	db := NewTestDB(t)
	f := NewFactory(t, db)

	user, password := f.CreateRandomUser(t, UserOpts{})
	assert.NotEmpty(t, user.Email)
	assert.NotEmpty(t, password)
	assert.True(t, user.IsActive)
	assert.False(t, user.IsSuperuser)
	assert.True(t, utils.VerifyPassword(password, user.HashedPassword))
}

func TestCreateRandomUserOverrides(t *testing.T) {
	db := NewTestDB(t)
	f := NewFactory(t, db)

	user, password := f.CreateRandomUser(t, UserOpts{
		Email:       Ptr("fixed@example.com"),
		Password:    Ptr("hunter2hunter2"),
		FullName:    Ptr("Fixed Name"),
		IsActive:    Ptr(false),
		IsSuperuser: Ptr(true),
	})
	assert.Equal(t, "fixed@example.com", user.Email)
	assert.Equal(t, "hunter2hunter2", password)
	assert.Equal(t, "Fixed Name", user.FullName)
	assert.False(t, user.IsActive)
	assert.True(t, user.IsSuperuser)
}

func TestCreateRandomItemDefaults(t *testing.T) {
	db := NewTestDB(t)
	f := NewFactory(t, db)

	item := f.CreateRandomItem(t, ItemOpts{})
	assert.NotEmpty(t, item.Title)
	assert.NotEmpty(t, item.Description)

	// A random owner was created and referenced.
	var owner domain.User
	require.NoError(t, db.First(&owner, "id = ?", item.OwnerID).Error)
}

func TestCreateRandomItemWithOwner(t *testing.T) {
	db := NewTestDB(t)
	f := NewFactory(t, db)

	owner, _ := f.CreateRandomUser(t, UserOpts{})
	item := f.CreateRandomItem(t, ItemOpts{
		Title:       Ptr("t1"),
		Description: Ptr("d1"),
		Owner:       owner,
	})
	assert.Equal(t, "t1", item.Title)
	assert.Equal(t, "d1", item.Description)
	assert.Equal(t, owner.ID, item.OwnerID)
}

func TestFactoryCleanupRemovesRows(t *testing.T) {
	db := NewTestDB(t)
	f := NewFactory(t, db)

	owner, _ := f.CreateRandomUser(t, UserOpts{})
	f.CreateRandomItem(t, ItemOpts{Owner: owner})
	f.CreateRandomItem(t, ItemOpts{})

	f.Cleanup(t)

	var userCount, itemCount int64
	db.Model(&domain.User{}).Count(&userCount)
	db.Model(&domain.Item{}).Count(&itemCount)
	assert.Zero(t, userCount)
	assert.Zero(t, itemCount)
}

func TestFactoryCleanupIsIdempotent(t *testing.T) {
	db := NewTestDB(t)
	f := NewFactory(t, db)

	f.CreateRandomUser(t, UserOpts{})
	f.Cleanup(t)
	// The t.Cleanup-registered run must be a harmless no-op.
	f.Cleanup(t)
}

func TestRandomHelpers(t *testing.T) {
	s := RandomLowerString(32)
	assert.Len(t, s, 32)
	assert.NotEqual(t, s, RandomLowerString(32))

	email := RandomEmail()
	assert.Contains(t, email, "@")
}
