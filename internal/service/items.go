// Package service implements the ownership-gated item operations. Every read,
// update and delete goes through the same authorization predicate: an item is
// accessible to its owner and to superusers, nobody else.
package service

import (
	"errors"

	"itemstore/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Sentinel errors surfaced to the API layer.
var (
	ErrItemNotFound         = errors.New("item not found")
	ErrNotEnoughPermissions = errors.New("not enough permissions")
)

// CanAccessItem is the authorization predicate shared by all item operations.
func CanAccessItem(requester *domain.User, item *domain.Item) bool {
	return requester.IsSuperuser || requester.ID == item.OwnerID
}

// GetItem looks up an item by ID and authorizes the requester against it.
func GetItem(db *gorm.DB, requester *domain.User, id uuid.UUID) (*domain.Item, error) {
	var item domain.Item
	if err := db.First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}
	if !CanAccessItem(requester, &item) {
		return nil, ErrNotEnoughPermissions
	}
	return &item, nil
}

// ItemUpdate carries optional field overrides; nil means "keep current value".
type ItemUpdate struct {
	Title       *string
	Description *string
}

// UpdateItem applies field overrides to an item after authorization.
func UpdateItem(db *gorm.DB, requester *domain.User, id uuid.UUID, in ItemUpdate) (*domain.Item, error) {
	item, err := GetItem(db, requester, id)
	if err != nil {
		return nil, err
	}
	updates := map[string]any{}
	if in.Title != nil {
		updates["title"] = *in.Title
		item.Title = *in.Title
	}
	if in.Description != nil {
		updates["description"] = *in.Description
		item.Description = *in.Description
	}
	if len(updates) > 0 {
		if err := db.Model(&domain.Item{}).Where("id = ?", item.ID).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return item, nil
}

// DeleteItem removes an item after authorization.
func DeleteItem(db *gorm.DB, requester *domain.User, id uuid.UUID) error {
	item, err := GetItem(db, requester, id)
	if err != nil {
		return err
	}
	return db.Delete(item).Error
}

// ListItems returns a page of items visible to the requester plus the total
// count. Superusers see everything, normal users only what they own.
func ListItems(db *gorm.DB, requester *domain.User, skip, limit int) ([]domain.Item, int64, error) {
	query := db.Model(&domain.Item{})
	if !requester.IsSuperuser {
		query = query.Where("owner_id = ?", requester.ID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	var items []domain.Item
	if err := query.Order("id").Offset(skip).Limit(limit).Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, count, nil
}

// CreateItem creates an item owned by the requester. Creation is permitted
// for every authenticated user.
func CreateItem(db *gorm.DB, requester *domain.User, title, description string) (*domain.Item, error) {
	item := domain.Item{
		Title:       title,
		Description: description,
		OwnerID:     requester.ID,
	}
	if err := db.Create(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}
