package prediction

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/neuroscan/clinic-api/internal/config"
	"github.com/neuroscan/clinic-api/internal/model"
	"github.com/neuroscan/clinic-api/pkg/circuitbreaker"
	"github.com/neuroscan/clinic-api/pkg/errors"
)

// Classifier produces a tumor classification for a stored scan image.
type Classifier interface {
	Classify(ctx context.Context, imageRef string) (*model.ClassifierResult, error)
}

// httpClassifier calls the external model-serving endpoint. The breaker
// keeps a dead classifier from stalling every upload.
type httpClassifier struct {
	baseURL string
	client  *http.Client
	breaker *circuitbreaker.CircuitBreaker
}

func NewHTTPClassifier(cfg *config.ClassifierConfig) Classifier {
	return &httpClassifier{
		baseURL: cfg.URL,
		client:  &http.Client{Timeout: cfg.Timeout},
		breaker: circuitbreaker.NewCircuitBreaker(circuitbreaker.Settings{
			Name:        "classifier",
			MaxFailures: cfg.MaxFailures,
			Timeout:     cfg.Timeout,
		}),
	}
}

func (c *httpClassifier) Classify(ctx context.Context, imageRef string) (*model.ClassifierResult, error) {
	var result *model.ClassifierResult

	err := c.breaker.Execute(func() error {
		body, err := json.Marshal(map[string]string{"image_ref": imageRef})
		if err != nil {
			return err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predict", bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("classifier returned status %d", resp.StatusCode)
		}

		var out model.ClassifierResult
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			return err
		}
		result = &out
		return nil
	})
	if err != nil {
		return nil, errors.StorageUnavailable(fmt.Errorf("classifier: %w", err))
	}

	if !model.ValidPredictionLabel(result.Label) {
		return nil, errors.Internal(fmt.Errorf("classifier returned unknown label %q", result.Label))
	}
	return result, nil
}
