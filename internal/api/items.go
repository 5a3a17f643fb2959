package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"itemstore/internal/domain"
	"itemstore/internal/middleware"
	"itemstore/internal/service"
	"itemstore/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// itemCacheTTL bounds staleness of cached single-item reads.
const itemCacheTTL = 60 * time.Second

func itemCacheKey(id uuid.UUID) string {
	return "item:" + id.String()
}

// CreateItemRequest is the body for POST /items/.
type CreateItemRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

// UpdateItemRequest is the body for PUT /items/{id}. Omitted fields keep
// their current value.
type UpdateItemRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

// ItemsResponse is the list envelope for GET /items/.
type ItemsResponse struct {
	Data  []domain.Item `json:"data"`
	Count int64         `json:"count"`
}

// itemError maps service errors to the HTTP contract: missing rows are 404,
// permission failures are 400 with the observed detail message.
func itemError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrItemNotFound):
		c.JSON(http.StatusNotFound, gin.H{"detail": "Item not found"})
	case errors.Is(err, service.ErrNotEnoughPermissions):
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Not enough permissions"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Internal server error"})
	}
}

// parseItemID parses the id path parameter. An unparseable id cannot match
// any item, so it reports not found.
func parseItemID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Item not found"})
		return uuid.Nil, false
	}
	return id, true
}

// CreateItemHandler creates an item owned by the authenticated user
func CreateItemHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		requester := middleware.CurrentUser(c)
		var req CreateItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid request"})
			return
		}

		item, err := service.CreateItem(db, requester, req.Title, req.Description)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to create item"})
			return
		}

		logrus.WithFields(logrus.Fields{
			"item_id":  item.ID,
			"owner_id": item.OwnerID,
		}).Info("Item created")
		c.JSON(http.StatusOK, item)
	}
}

// ReadItemHandler returns a single item, cache-aside over Redis. The
// authorization predicate is applied on cache hits as well.
func ReadItemHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		requester := middleware.CurrentUser(c)
		id, ok := parseItemID(c)
		if !ok {
			return
		}

		ctx := context.Background()
		var cached domain.Item
		found, err := utils.GetCache(ctx, rdb, itemCacheKey(id), &cached)
		if err == nil && found {
			if !service.CanAccessItem(requester, &cached) {
				itemError(c, service.ErrNotEnoughPermissions)
				return
			}
			c.JSON(http.StatusOK, cached)
			return
		}

		item, err := service.GetItem(db, requester, id)
		if err != nil {
			itemError(c, err)
			return
		}
		_ = utils.SetCache(ctx, rdb, itemCacheKey(id), item, itemCacheTTL)
		c.JSON(http.StatusOK, item)
	}
}

// ReadItemsHandler lists items visible to the authenticated user
func ReadItemsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		requester := middleware.CurrentUser(c)

		skip := 0
		limit := 100
		if s := c.Query("skip"); s != "" {
			if v, err := strconv.Atoi(s); err == nil && v >= 0 {
				skip = v
			}
		}
		if l := c.Query("limit"); l != "" {
			if v, err := strconv.Atoi(l); err == nil && v > 0 && v <= 1000 {
				limit = v
			}
		}

		items, count, err := service.ListItems(db, requester, skip, limit)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to list items"})
			return
		}
		if items == nil {
			items = []domain.Item{}
		}
		c.JSON(http.StatusOK, ItemsResponse{Data: items, Count: count})
	}
}

// UpdateItemHandler updates an item's title and/or description
func UpdateItemHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		requester := middleware.CurrentUser(c)
		id, ok := parseItemID(c)
		if !ok {
			return
		}

		var req UpdateItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid request"})
			return
		}

		item, err := service.UpdateItem(db, requester, id, service.ItemUpdate{
			Title:       req.Title,
			Description: req.Description,
		})
		if err != nil {
			itemError(c, err)
			return
		}

		_ = utils.DeleteCache(context.Background(), rdb, itemCacheKey(id))
		logrus.WithFields(logrus.Fields{
			"item_id": item.ID,
			"user_id": requester.ID,
		}).Info("Item updated")
		c.JSON(http.StatusOK, item)
	}
}

// DeleteItemHandler deletes an item
func DeleteItemHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		requester := middleware.CurrentUser(c)
		id, ok := parseItemID(c)
		if !ok {
			return
		}

		if err := service.DeleteItem(db, requester, id); err != nil {
			itemError(c, err)
			return
		}

		_ = utils.DeleteCache(context.Background(), rdb, itemCacheKey(id))
		logrus.WithFields(logrus.Fields{
			"item_id": id,
			"user_id": requester.ID,
		}).Info("Item deleted")
		c.JSON(http.StatusOK, gin.H{"message": "Item deleted successfully"})
	}
}
