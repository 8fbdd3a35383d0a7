package catalog

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/latpategaurav/blu/app/models"
	"github.com/latpategaurav/blu/app/repository"
	"github.com/latpategaurav/blu/internal/pkg/cache"
	"github.com/latpategaurav/blu/internal/pkg/env"
)

// DefaultTTL is how long cached catalog entries stay fresh. Booking state can
// lag behind the database by up to this long; the payment flow re-reads the
// booking row and is never served from here.
const DefaultTTL = 15 * time.Minute

const keyPrefix = "catalog:"

// Service serves moodboard and model reads through a Redis-backed cache.
type Service struct {
	moodboards repository.MoodboardRepository
	models     repository.ModelRepository
	ttl        time.Duration
}

// NewService creates a catalog service with the given cache TTL. A zero or
// negative ttl falls back to DefaultTTL.
func NewService(moodboards repository.MoodboardRepository, modelRepo repository.ModelRepository, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{
		moodboards: moodboards,
		models:     modelRepo,
		ttl:        ttl,
	}
}

// NewServiceFromEnv builds the catalog service with the TTL taken from
// CATALOG_TTL_MINUTES.
func NewServiceFromEnv(repos *repository.Repositories) *Service {
	ttl := DefaultTTL
	if minutes := env.GetEnvInt("CATALOG_TTL_MINUTES", 0); minutes > 0 {
		ttl = time.Duration(minutes) * time.Minute
	}
	return NewService(repos.Moodboard, repos.Model, ttl)
}

// GetMoodboard returns a single moodboard with its assigned models.
func (s *Service) GetMoodboard(id string) (*models.Moodboard, error) {
	key := keyPrefix + "moodboard:" + id
	var moodboard models.Moodboard
	if hit(key, &moodboard) {
		return &moodboard, nil
	}

	fresh, err := s.moodboards.GetByID(id)
	if err != nil {
		return nil, err
	}
	s.store(key, fresh)
	return fresh, nil
}

// GetCalendar returns published moodboards between two dates for the booking
// calendar.
func (s *Service) GetCalendar(from, to time.Time) ([]models.Moodboard, error) {
	key := fmt.Sprintf("%scalendar:%s:%s", keyPrefix,
		from.Format("2006-01-02"), to.Format("2006-01-02"))
	var list []models.Moodboard
	if hit(key, &list) {
		return list, nil
	}

	list, err := s.moodboards.GetByDateRange(from, to)
	if err != nil {
		return nil, err
	}
	s.store(key, list)
	return list, nil
}

// GetPublished returns a page of published moodboards for the discover view.
func (s *Service) GetPublished(offset, limit int) ([]models.Moodboard, error) {
	key := fmt.Sprintf("%spublished:%d:%d", keyPrefix, offset, limit)
	var list []models.Moodboard
	if hit(key, &list) {
		return list, nil
	}

	list, err := s.moodboards.GetPublished(offset, limit)
	if err != nil {
		return nil, err
	}
	s.store(key, list)
	return list, nil
}

// GetSimilar returns curated similar moodboards for a listing.
func (s *Service) GetSimilar(moodboardID string, limit int) ([]models.Moodboard, error) {
	key := fmt.Sprintf("%ssimilar:%s:%d", keyPrefix, moodboardID, limit)
	var list []models.Moodboard
	if hit(key, &list) {
		return list, nil
	}

	list, err := s.moodboards.GetSimilar(moodboardID, limit)
	if err != nil {
		return nil, err
	}
	s.store(key, list)
	return list, nil
}

// GetModel returns a single model profile.
func (s *Service) GetModel(id string) (*models.Model, error) {
	key := keyPrefix + "model:" + id
	var model models.Model
	if hit(key, &model) {
		return &model, nil
	}

	fresh, err := s.models.GetByID(id)
	if err != nil {
		return nil, err
	}
	s.store(key, fresh)
	return fresh, nil
}

// GetActiveModels returns a page of active models.
func (s *Service) GetActiveModels(offset, limit int) ([]models.Model, error) {
	key := fmt.Sprintf("%smodels:%d:%d", keyPrefix, offset, limit)
	var list []models.Model
	if hit(key, &list) {
		return list, nil
	}

	list, err := s.models.GetActive(offset, limit)
	if err != nil {
		return nil, err
	}
	s.store(key, list)
	return list, nil
}

// Search bypasses the cache; queries are too varied to be worth caching.
func (s *Service) Search(query string) ([]models.Moodboard, error) {
	return s.moodboards.Search(query)
}

// Invalidate drops every cached catalog entry. Admin writes call this so
// edits show up immediately instead of after TTL expiry.
func (s *Service) Invalidate() {
	if _, err := cache.DeleteByPattern(keyPrefix + "*"); err != nil {
		log.Warnf("catalog cache invalidation failed: %v", err)
	}
}

// hit loads a cached JSON entry into dest and reports whether it was present
// and decodable. Cache errors degrade to a miss.
func hit(key string, dest interface{}) bool {
	raw, err := cache.Get(key)
	if err != nil {
		if !cache.IsMiss(err) {
			log.Warnf("catalog cache read failed for %s: %v", key, err)
		}
		return false
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		log.Warnf("catalog cache entry for %s is corrupt, dropping: %v", key, err)
		_ = cache.Delete(key)
		return false
	}
	return true
}

func (s *Service) store(key string, value interface{}) {
	raw, err := json.Marshal(value)
	if err != nil {
		log.Warnf("catalog cache encode failed for %s: %v", key, err)
		return
	}
	if err := cache.Set(key, string(raw), s.ttl); err != nil {
		log.Warnf("catalog cache write failed for %s: %v", key, err)
	}
}
