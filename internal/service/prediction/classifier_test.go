package prediction

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neuroscan/clinic-api/internal/config"
	"github.com/neuroscan/clinic-api/internal/model"
	"github.com/neuroscan/clinic-api/pkg/errors"
)

func classifierConfig(url string) *config.ClassifierConfig {
	return &config.ClassifierConfig{
		URL:         url,
		Timeout:     2 * time.Second,
		MaxFailures: 3,
	}
}

func TestHTTPClassifier(t *testing.T) {
	t.Run("decodes a valid response", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/predict", r.URL.Path)
			assert.Equal(t, http.MethodPost, r.Method)

			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "scans/scan-001.png", body["image_ref"])

			json.NewEncoder(w).Encode(map[string]interface{}{
				"prediction": "meningioma",
				"confidence": 0.87,
				"region":     "parietal",
			})
		}))
		defer server.Close()

		c := NewHTTPClassifier(classifierConfig(server.URL))
		result, err := c.Classify(context.Background(), "scans/scan-001.png")
		require.NoError(t, err)
		assert.Equal(t, model.LabelMeningioma, result.Label)
		assert.Equal(t, 0.87, result.Confidence)
		assert.Equal(t, "parietal", result.Region)
	})

	t.Run("non-200 is unavailable", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		c := NewHTTPClassifier(classifierConfig(server.URL))
		_, err := c.Classify(context.Background(), "scans/scan-001.png")
		assert.Equal(t, errors.ErrStorageUnavailable, errors.Code(err))
	})

	t.Run("unknown label is rejected", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]interface{}{"prediction": "benign", "confidence": 0.5})
		}))
		defer server.Close()

		c := NewHTTPClassifier(classifierConfig(server.URL))
		_, err := c.Classify(context.Background(), "scans/scan-001.png")
		assert.Equal(t, errors.ErrInternal, errors.Code(err))
	})

	t.Run("breaker opens after repeated failures", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		c := NewHTTPClassifier(classifierConfig(server.URL))
		for i := 0; i < 3; i++ {
			_, err := c.Classify(context.Background(), "scans/scan-001.png")
			require.Error(t, err)
		}

		// The breaker is now open; the request fails without reaching the server.
		server.Close()
		_, err := c.Classify(context.Background(), "scans/scan-001.png")
		assert.Equal(t, errors.ErrStorageUnavailable, errors.Code(err))
	})
}
