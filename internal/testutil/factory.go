package testutil

import (
	"testing"

	"itemstore/internal/domain"
	"itemstore/internal/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserOpts overrides random defaults when creating a user. Nil fields keep
// the default: random email, random password, active, not a superuser.
type UserOpts struct {
	Email       *string
	Password    *string
	FullName    *string
	IsActive    *bool
	IsSuperuser *bool
}

// ItemOpts overrides random defaults when creating an item. A nil Owner
// creates a fresh random user to own the item.
type ItemOpts struct {
	Title       *string
	Description *string
	Owner       *domain.User
}

// Factory inserts random rows and tracks them so teardown removes everything
// it created, items before users. Cleanup is registered with t.Cleanup and
// therefore runs on every exit path.
type Factory struct {
	db      *gorm.DB
	userIDs []uuid.UUID
	itemIDs []uuid.UUID
}

// NewFactory returns a factory bound to the given database.
func NewFactory(t *testing.T, db *gorm.DB) *Factory {
	t.Helper()
	f := &Factory{db: db}
	t.Cleanup(func() { f.Cleanup(t) })
	return f
}

// CreateRandomUser inserts a user and returns it together with the plaintext
// password, which is needed to log in over HTTP.
func (f *Factory) CreateRandomUser(t *testing.T, opts UserOpts) (*domain.User, string) {
	t.Helper()

	email := RandomEmail()
	if opts.Email != nil {
		email = *opts.Email
	}
	password := RandomLowerString(24)
	if opts.Password != nil {
		password = *opts.Password
	}
	fullName := ""
	if opts.FullName != nil {
		fullName = *opts.FullName
	}
	isActive := true
	if opts.IsActive != nil {
		isActive = *opts.IsActive
	}
	isSuperuser := false
	if opts.IsSuperuser != nil {
		isSuperuser = *opts.IsSuperuser
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		t.Fatalf("hashing password: %v", err)
	}

	user := &domain.User{
		Email:          email,
		HashedPassword: hash,
		FullName:       fullName,
		IsActive:       isActive,
		IsSuperuser:    isSuperuser,
	}
	if err := f.db.Create(user).Error; err != nil {
		t.Fatalf("creating user: %v", err)
	}
	f.userIDs = append(f.userIDs, user.ID)
	return user, password
}

// CreateRandomItem inserts an item, creating a random owner unless one is given.
func (f *Factory) CreateRandomItem(t *testing.T, opts ItemOpts) *domain.Item {
	t.Helper()

	owner := opts.Owner
	if owner == nil {
		owner, _ = f.CreateRandomUser(t, UserOpts{})
	}
	title := RandomLowerString(16)
	if opts.Title != nil {
		title = *opts.Title
	}
	description := RandomLowerString(32)
	if opts.Description != nil {
		description = *opts.Description
	}

	item := &domain.Item{
		Title:       title,
		Description: description,
		OwnerID:     owner.ID,
	}
	if err := f.db.Create(item).Error; err != nil {
		t.Fatalf("creating item: %v", err)
	}
	f.itemIDs = append(f.itemIDs, item.ID)
	return item
}

// Cleanup deletes everything the factory created, items before users so no
// item ever dangles without an owner.
func (f *Factory) Cleanup(t *testing.T) {
	t.Helper()

	if len(f.itemIDs) > 0 {
		if err := f.db.Where("id IN ?", f.itemIDs).Delete(&domain.Item{}).Error; err != nil {
			t.Errorf("cleaning up items: %v", err)
		}
		f.itemIDs = nil
	}
	if len(f.userIDs) > 0 {
		// Items created outside the factory for these users go too.
		if err := f.db.Where("owner_id IN ?", f.userIDs).Delete(&domain.Item{}).Error; err != nil {
			t.Errorf("cleaning up owned items: %v", err)
		}
		if err := f.db.Where("id IN ?", f.userIDs).Delete(&domain.User{}).Error; err != nil {
			t.Errorf("cleaning up users: %v", err)
		}
		f.userIDs = nil
	}
}
