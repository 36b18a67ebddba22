package classifier_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ammerola/pantry-be/internal/adapters/classifier"
	redis_a "github.com/ammerola/pantry-be/internal/adapters/redis_adapter"
	"github.com/ammerola/pantry-be/internal/core/domain"
	"github.com/ammerola/pantry-be/internal/core/ports"
	"github.com/ammerola/pantry-be/test/helpers"
	"github.com/ammerola/pantry-be/test/mocks"
)

// fakeGemini answers generateContent calls with label and records the last
// request body.
func fakeGemini(t *testing.T, status int, label string) (*httptest.Server, *atomic.Value) {
	t.Helper()

	var lastBody atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		lastBody.Store(string(body))

		if !strings.HasSuffix(r.URL.Path, ":generateContent") {
			http.NotFound(w, r)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			_, _ = w.Write([]byte(`{"error":{"code":500,"message":"backend exploded","status":"INTERNAL"}}`))
			return
		}

		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{{
				"content": map[string]any{
					"role":  "model",
					"parts": []map[string]any{{"text": label}},
				},
			}},
		})
	}))
	t.Cleanup(server.Close)

	return server, &lastBody
}

func newTestClassifier(t *testing.T, baseURL string) *classifier.GenAIClassifier {
	t.Helper()

	c, err := classifier.NewGenAIClassifier(context.Background(), classifier.Config{
		APIKey:  "test-key",
		Model:   "test-model",
		BaseURL: baseURL,
	}, helpers.TestLogger())
	require.NoError(t, err)
	return c
}

func TestGenAIClassifier_Classify(t *testing.T) {
	tests := []struct {
		name         string
		image        string
		label        string
		expected     string
		bodyContains []string
	}{
		{
			name:     "url_source_goes_into_prompt",
			image:    "https://example.com/rice.jpg",
			label:    "  A bag of rice\n",
			expected: "A bag of rice",
			bodyContains: []string{
				"Classify this image: https://example.com/rice.jpg",
				`"maxOutputTokens":100`,
			},
		},
		{
			name:     "data_uri_sent_inline",
			image:    classifier.EncodeDataURI([]byte("\x89PNG fake"), "image/png"),
			label:    "a can of beans",
			expected: "a can of beans",
			bodyContains: []string{
				`"text":"Classify this image:"`,
				`"mimeType":"image/png"`,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, lastBody := fakeGemini(t, http.StatusOK, tt.label)
			c := newTestClassifier(t, server.URL)

			label, err := c.Classify(context.Background(), tt.image)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, label)

			body, _ := lastBody.Load().(string)
			for _, fragment := range tt.bodyContains {
				assert.Contains(t, body, fragment)
			}
		})
	}
}

func TestGenAIClassifier_Errors(t *testing.T) {
	t.Run("backend_failure", func(t *testing.T) {
		server, _ := fakeGemini(t, http.StatusInternalServerError, "")
		c := newTestClassifier(t, server.URL)

		_, err := c.Classify(context.Background(), "https://example.com/x.jpg")
		assert.Error(t, err)
	})

	t.Run("empty_answer", func(t *testing.T) {
		server, _ := fakeGemini(t, http.StatusOK, "   ")
		c := newTestClassifier(t, server.URL)

		_, err := c.Classify(context.Background(), "https://example.com/x.jpg")
		assert.ErrorIs(t, err, classifier.ErrEmptyLabel)
	})

	t.Run("malformed_data_uri", func(t *testing.T) {
		server, _ := fakeGemini(t, http.StatusOK, "label")
		c := newTestClassifier(t, server.URL)

		_, err := c.Classify(context.Background(), "data:image/png;base64,@@@")
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("missing_api_key", func(t *testing.T) {
		_, err := classifier.NewGenAIClassifier(context.Background(), classifier.Config{}, helpers.TestLogger())
		assert.Error(t, err)
	})
}

func TestDecodeDataURI(t *testing.T) {
	tests := []struct {
		name         string
		src          string
		expectedData string
		expectedMime string
		wantErr      bool
	}{
		{name: "base64_png", src: "data:image/png;base64,aGVsbG8=", expectedData: "hello", expectedMime: "image/png"},
		{name: "unpadded_base64", src: "data:image/jpeg;base64,aGVsbG8", expectedData: "hello", expectedMime: "image/jpeg"},
		{name: "parameters_dropped", src: "data:text/plain;charset=utf-8,hi%20there", expectedData: "hi there", expectedMime: "text/plain"},
		{name: "default_mime", src: "data:,plain", expectedData: "plain", expectedMime: "text/plain"},
		{name: "uppercase_scheme", src: "DATA:image/gif;BASE64,aGVsbG8=", expectedData: "hello", expectedMime: "image/gif"},
		{name: "missing_comma", src: "data:image/png;base64", wantErr: true},
		{name: "not_a_data_uri", src: "https://example.com/a.png", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, mimeType, err := classifier.DecodeDataURI(tt.src)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectedData, string(data))
			assert.Equal(t, tt.expectedMime, mimeType)
		})
	}
}

func TestCachingClassifier(t *testing.T) {
	const image = "https://example.com/rice.jpg"
	digest := classifier.Digest(image)

	tests := []struct {
		name        string
		setupMocks  func(*mocks.MockClassifier, *mocks.MockLabelCache)
		expected    string
		expectedErr bool
	}{
		{
			name: "cache_hit_skips_classifier",
			setupMocks: func(c *mocks.MockClassifier, cache *mocks.MockLabelCache) {
				cache.EXPECT().GetLabel(gomock.Any(), digest).Return("rice", nil)
			},
			expected: "rice",
		},
		{
			name: "cache_miss_classifies_and_stores",
			setupMocks: func(c *mocks.MockClassifier, cache *mocks.MockLabelCache) {
				cache.EXPECT().GetLabel(gomock.Any(), digest).Return("", ports.ErrCacheMiss)
				c.EXPECT().Classify(gomock.Any(), image).Return("rice", nil)
				cache.EXPECT().SetLabel(gomock.Any(), digest, "rice", time.Hour).Return(nil)
			},
			expected: "rice",
		},
		{
			name: "cache_down_still_classifies",
			setupMocks: func(c *mocks.MockClassifier, cache *mocks.MockLabelCache) {
				cache.EXPECT().GetLabel(gomock.Any(), digest).Return("", errors.New("connection refused"))
				c.EXPECT().Classify(gomock.Any(), image).Return("rice", nil)
				cache.EXPECT().SetLabel(gomock.Any(), digest, "rice", time.Hour).Return(errors.New("connection refused"))
			},
			expected: "rice",
		},
		{
			name: "classifier_error_not_cached",
			setupMocks: func(c *mocks.MockClassifier, cache *mocks.MockLabelCache) {
				cache.EXPECT().GetLabel(gomock.Any(), digest).Return("", ports.ErrCacheMiss)
				c.EXPECT().Classify(gomock.Any(), image).Return("", errors.New("quota exceeded"))
			},
			expectedErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			inner := mocks.NewMockClassifier(ctrl)
			cache := mocks.NewMockLabelCache(ctrl)
			tt.setupMocks(inner, cache)

			c := classifier.NewCachingClassifier(inner, cache, time.Hour, helpers.TestLogger())
			label, err := c.Classify(context.Background(), image)

			if tt.expectedErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, label)
		})
	}
}

func TestCachingClassifier_WithRedis(t *testing.T) {
	tr := helpers.SetupTestRedis(t)
	cache := redis_a.NewLabelCache(tr.Client, time.Hour, helpers.TestLogger())

	var calls atomic.Int32
	server, _ := fakeGemini(t, http.StatusOK, "a jar of honey")
	inner := newTestClassifier(t, server.URL)

	counting := classifierFunc(func(ctx context.Context, image string) (string, error) {
		calls.Add(1)
		return inner.Classify(ctx, image)
	})

	c := classifier.NewCachingClassifier(counting, cache, time.Hour, helpers.TestLogger())

	for i := 0; i < 3; i++ {
		label, err := c.Classify(context.Background(), "https://example.com/honey.jpg")
		require.NoError(t, err)
		assert.Equal(t, "a jar of honey", label)
	}
	assert.Equal(t, int32(1), calls.Load())
	assert.True(t, tr.Server.Exists(redis_a.LabelKey(classifier.Digest("https://example.com/honey.jpg"))))
}

type classifierFunc func(ctx context.Context, image string) (string, error)

func (f classifierFunc) Classify(ctx context.Context, image string) (string, error) {
	return f(ctx, image)
}
