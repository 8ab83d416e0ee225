package services

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

type fakeOptionRepo struct {
	values map[string]interface{}
}

func (r *fakeOptionRepo) Get(ctx context.Context, key string) (interface{}, error) {
	return r.values[key], nil
}

func (r *fakeOptionRepo) GetFirst(ctx context.Context, keys []string) (interface{}, string, error) {
	for _, key := range keys {
		if v, ok := r.values[key]; ok && v != nil {
			return v, key, nil
		}
	}
	return nil, "", nil
}

func (r *fakeOptionRepo) Set(ctx context.Context, key string, value interface{}) error {
	if r.values == nil {
		r.values = make(map[string]interface{})
	}
	r.values[key] = value
	return nil
}

func newTestBannerService(t *testing.T, repo *fakeOptionRepo) BannerService {
	t.Helper()
	return NewBannerService(repo, nil, testLogger(t))
}

func TestGetHomepageBanner(t *testing.T) {
	t.Run("no stored option yields empty rows", func(t *testing.T) {
		svc := newTestBannerService(t, &fakeOptionRepo{})

		rows, err := svc.GetHomepageBanner(context.Background())
		require.NoError(t, err)
		assert.Empty(t, rows)
	})

	t.Run("url string becomes the image url", func(t *testing.T) {
		svc := newTestBannerService(t, &fakeOptionRepo{values: map[string]interface{}{
			"homepage_banner": bson.A{
				bson.M{"banner": "https://cdn.example.com/hero.jpg"},
			},
		}})

		rows, err := svc.GetHomepageBanner(context.Background())
		require.NoError(t, err)

		require.Len(t, rows, 1)
		assert.Equal(t, "https://cdn.example.com/hero.jpg", rows[0].ImageURL)
		assert.Empty(t, rows[0].ImageID)
	})

	t.Run("non-url string is treated as an attachment id", func(t *testing.T) {
		svc := newTestBannerService(t, &fakeOptionRepo{values: map[string]interface{}{
			"homepage_banner": bson.A{
				bson.M{"banner": "1042"},
			},
		}})

		rows, err := svc.GetHomepageBanner(context.Background())
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "1042", rows[0].ImageID)
	})

	t.Run("numeric banner value is an attachment id", func(t *testing.T) {
		svc := newTestBannerService(t, &fakeOptionRepo{values: map[string]interface{}{
			"homepage_banner": []interface{}{
				map[string]interface{}{"banner": float64(57)},
			},
		}})

		rows, err := svc.GetHomepageBanner(context.Background())
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "57", rows[0].ImageID)
	})

	t.Run("map banner value carries id url and alt", func(t *testing.T) {
		svc := newTestBannerService(t, &fakeOptionRepo{values: map[string]interface{}{
			"homepage_banner": bson.A{
				bson.M{"banner": bson.M{
					"id":  "88",
					"url": "https://cdn.example.com/sale.jpg",
					"alt": "Summer sale",
				}},
			},
		}})

		rows, err := svc.GetHomepageBanner(context.Background())
		require.NoError(t, err)

		require.Len(t, rows, 1)
		assert.Equal(t, "88", rows[0].ImageID)
		assert.Equal(t, "https://cdn.example.com/sale.jpg", rows[0].ImageURL)
		assert.Equal(t, "Summer sale", rows[0].ImageAlt)
	})

	t.Run("non-map entries are skipped, indices kept", func(t *testing.T) {
		svc := newTestBannerService(t, &fakeOptionRepo{values: map[string]interface{}{
			"homepage_banner": bson.A{
				"not a row",
				bson.M{"banner": "https://cdn.example.com/second.jpg"},
			},
		}})

		rows, err := svc.GetHomepageBanner(context.Background())
		require.NoError(t, err)

		require.Len(t, rows, 1)
		assert.Equal(t, 1, rows[0].Index)
	})

	t.Run("fallback keys are probed in order", func(t *testing.T) {
		svc := newTestBannerService(t, &fakeOptionRepo{values: map[string]interface{}{
			"ekusey_homepage_banner": bson.A{
				bson.M{"banner": "https://cdn.example.com/fallback.jpg"},
			},
		}})

		rows, err := svc.GetHomepageBanner(context.Background())
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "https://cdn.example.com/fallback.jpg", rows[0].ImageURL)
	})

	t.Run("scalar option value yields empty rows", func(t *testing.T) {
		svc := newTestBannerService(t, &fakeOptionRepo{values: map[string]interface{}{
			"homepage_banner": "oops",
		}})

		rows, err := svc.GetHomepageBanner(context.Background())
		require.NoError(t, err)
		assert.Empty(t, rows)
	})
}

func TestProbeOptions(t *testing.T) {
	svc := newTestBannerService(t, &fakeOptionRepo{values: map[string]interface{}{
		"homepage_banner": bson.A{bson.M{"banner": "a"}, bson.M{"banner": "b"}},
		"ekusey_options":  "just a string that is fairly short",
	}})

	probes, err := svc.ProbeOptions(context.Background())
	require.NoError(t, err)

	banner := probes["homepage_banner"]
	assert.Equal(t, "array", banner.Type)
	require.NotNil(t, banner.Count)
	assert.Equal(t, 2, *banner.Count)

	opts := probes["ekusey_options"]
	assert.Equal(t, "string", opts.Type)
	assert.Equal(t, "just a string that is fairly short", opts.ValuePreview)

	missing := probes["ekusey_homepage_banner"]
	assert.Equal(t, "null", missing.Type)
}

func TestProbeOptionsPreviewTruncation(t *testing.T) {
	svc := newTestBannerService(t, &fakeOptionRepo{values: map[string]interface{}{
		"ekusey_options": strings.Repeat("৳", 150),
	}})

	probes, err := svc.ProbeOptions(context.Background())
	require.NoError(t, err)

	preview, ok := probes["ekusey_options"].ValuePreview.(string)
	require.True(t, ok)
	assert.Equal(t, 120, utf8.RuneCountInString(preview))
	assert.True(t, utf8.ValidString(preview))
}
