package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"ekuseyecom/internal/models"
	"ekuseyecom/internal/repositories/interfaces"
	"ekuseyecom/internal/utils"
	"ekuseyecom/pkg/cache"
	"ekuseyecom/pkg/logger"

	"go.mongodb.org/mongo-driver/bson"
)

// bannerOptionKeys are probed in order; site configurations written by
// different admin tools land under different keys.
var bannerOptionKeys = []string{
	"homepage_banner",
	"ekusey_options",
	"ekusey_homepage_banner",
}

type BannerService interface {
	GetHomepageBanner(ctx context.Context) ([]models.BannerRow, error)
	ProbeOptions(ctx context.Context) (map[string]models.OptionProbe, error)
}

type bannerService struct {
	optionRepo interfaces.OptionRepository
	cache      *cache.RedisCache
	logger     *logger.Logger
}

func NewBannerService(
	optionRepo interfaces.OptionRepository,
	cache *cache.RedisCache,
	logger *logger.Logger,
) BannerService {
	return &bannerService{
		optionRepo: optionRepo,
		cache:      cache,
		logger:     logger,
	}
}

// GetHomepageBanner returns the normalized banner rows. A stored row's
// banner value may be an attachment id, a full image map, or a bare
// URL; whatever can be resolved is filled in.
func (s *bannerService) GetHomepageBanner(ctx context.Context) ([]models.BannerRow, error) {
	cacheKey := "homepage_banner_rows"
	if s.cache != nil {
		var rows []models.BannerRow
		if err := s.cache.Get(ctx, cacheKey, &rows); err == nil {
			return rows, nil
		}
	}

	value, key, err := s.optionRepo.GetFirst(ctx, bannerOptionKeys)
	if err != nil {
		return nil, err
	}
	if value == nil {
		return []models.BannerRow{}, nil
	}

	s.logger.WithField("option_key", key).Debug("Homepage banner rows loaded")

	rows := normalizeBannerRows(value)

	if s.cache != nil {
		s.cache.Set(ctx, cacheKey, rows, utils.BannerCacheTTL)
	}

	return rows, nil
}

// ProbeOptions is the admin debug view: it reports what each candidate
// option key currently holds so misconfigured storage is easy to spot.
func (s *bannerService) ProbeOptions(ctx context.Context) (map[string]models.OptionProbe, error) {
	out := make(map[string]models.OptionProbe, len(bannerOptionKeys))

	for _, key := range bannerOptionKeys {
		value, err := s.optionRepo.Get(ctx, key)
		if err != nil {
			return nil, err
		}

		probe := models.OptionProbe{Type: optionTypeName(value)}
		if list, ok := asList(value); ok {
			count := len(list)
			probe.Count = &count
		} else if str, ok := value.(string); ok {
			// Truncate on rune boundaries; byte slicing could split a
			// multi-byte character.
			if utf8.RuneCountInString(str) > 120 {
				str = string([]rune(str)[:120])
			}
			probe.ValuePreview = str
		} else if value != nil {
			probe.ValuePreview = value
		}

		out[key] = probe
	}

	return out, nil
}

func normalizeBannerRows(value interface{}) []models.BannerRow {
	list, ok := asList(value)
	if !ok {
		return []models.BannerRow{}
	}

	rows := make([]models.BannerRow, 0, len(list))

	for i, raw := range list {
		entry, ok := asMap(raw)
		if !ok {
			continue
		}

		banner := entry["banner"]
		row := models.BannerRow{Index: i, Raw: raw}

		switch b := banner.(type) {
		case string:
			if strings.HasPrefix(b, "http://") || strings.HasPrefix(b, "https://") {
				row.ImageURL = b
			} else {
				row.ImageID = b
			}
		case int, int32, int64:
			row.ImageID = fmt.Sprintf("%d", b)
		case float64:
			row.ImageID = strconv.FormatFloat(b, 'f', -1, 64)
		default:
			if m, ok := asMap(banner); ok {
				if id, ok := m["id"].(string); ok {
					row.ImageID = id
				}
				if url, ok := m["url"].(string); ok {
					row.ImageURL = url
				}
				if alt, ok := m["alt"].(string); ok {
					row.ImageAlt = alt
				}
			}
		}

		rows = append(rows, row)
	}

	return rows
}

// Values arrive as bson types from Mongo or as plain JSON types after a
// cache round trip; both shapes are accepted.
func asList(value interface{}) ([]interface{}, bool) {
	switch v := value.(type) {
	case bson.A:
		return []interface{}(v), true
	case []interface{}:
		return v, true
	default:
		return nil, false
	}
}

func asMap(value interface{}) (map[string]interface{}, bool) {
	switch v := value.(type) {
	case bson.M:
		return map[string]interface{}(v), true
	case bson.D:
		return v.Map(), true
	case map[string]interface{}:
		return v, true
	default:
		return nil, false
	}
}

func optionTypeName(value interface{}) string {
	switch value.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case int, int32, int64, float64:
		return "number"
	case bson.A, []interface{}:
		return "array"
	case bson.M, bson.D, map[string]interface{}:
		return "object"
	default:
		return fmt.Sprintf("%T", value)
	}
}
