package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/latpategaurav/blu/app/repository"
	"github.com/latpategaurav/blu/internal/pkg/cache"
)

// HandleAdminListCacheKeys lists cache keys, optionally filtered by
// ?pattern= (glob). Used to inspect catalog cache entries and OTP state.
func HandleAdminListCacheKeys(c *fiber.Ctx) error {
	repo := repository.GetGlobalFactory().GetCacheRepository()

	pattern := c.Query("pattern", "*")
	keys, err := repo.FindKeysByPatterns([]string{pattern})
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Could not list cache keys")
	}

	type entry struct {
		Key string `json:"key"`
		TTL string `json:"ttl"`
	}
	entries := make([]entry, 0, len(keys))
	for _, key := range keys {
		ttl, err := repo.GetTTL(key)
		ttlStr := "unknown"
		if err == nil {
			ttlStr = ttl.String()
		}
		entries = append(entries, entry{Key: key, TTL: ttlStr})
	}

	return c.JSON(fiber.Map{"keys": entries, "count": len(entries)})
}

// HandleAdminGetCacheValue shows a single cache entry.
func HandleAdminGetCacheValue(c *fiber.Ctx) error {
	key := c.Query("key")
	if key == "" {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "key is required")
	}

	repo := repository.GetGlobalFactory().GetCacheRepository()
	value, err := repo.GetValue(key)
	if err != nil {
		if cache.IsMiss(err) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Key not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Could not read cache entry")
	}
	return c.JSON(fiber.Map{"key": key, "value": value})
}

// HandleAdminFlushCache deletes cache keys matching ?pattern= (required, no
// implicit flush-all).
func HandleAdminFlushCache(c *fiber.Ctx) error {
	pattern := c.Query("pattern")
	if pattern == "" {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "pattern is required")
	}

	repo := repository.GetGlobalFactory().GetCacheRepository()
	keys, err := repo.FindKeysByPatterns([]string{pattern})
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Could not list cache keys")
	}
	deleted, err := repo.DeleteKeys(keys)
	if err != nil {
		log.Errorf("cache flush for pattern %s failed: %v", pattern, err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Could not delete cache keys")
	}

	log.Infof("admin flushed %d cache keys matching %s", deleted, pattern)
	return c.JSON(fiber.Map{"deleted": deleted})
}
