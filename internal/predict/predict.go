// Package predict serves crop recommendations from a trained forest and
// records each one in the offline log.
package predict

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"reflect"
	"slices"
	"strings"
	"sync/atomic"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/agropredict/agropredict/internal/domain"
	"github.com/agropredict/agropredict/internal/forest"
	"github.com/agropredict/agropredict/internal/observability"
)

var (
	// ErrModelNotLoaded is returned while no model has been loaded.
	ErrModelNotLoaded = errors.New("model not loaded")
	// ErrInvalidFeatures wraps feature validation failures.
	ErrInvalidFeatures = errors.New("invalid features")
)

var validate = newValidator()

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		return name
	})
	return v
}

// Recorder persists served predictions.
type Recorder interface {
	Record(ctx context.Context, p domain.Prediction) error
}

// Service answers crop predictions. It is safe for concurrent use; the model
// can be swapped while serving.
type Service struct {
	model    atomic.Pointer[forest.Forest]
	recorder Recorder
	logger   *slog.Logger
	metrics  *observability.Metrics
}

// NewService creates a Service without a model. recorder may be nil, in which
// case predictions are not logged.
func NewService(recorder Recorder, logger *slog.Logger, metrics *observability.Metrics) *Service {
	return &Service{recorder: recorder, logger: logger, metrics: metrics}
}

// LoadModel reads a model artifact from path and starts serving it.
func (s *Service) LoadModel(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open model: %w", err)
	}
	defer f.Close()

	model, err := forest.Decode(f)
	if err != nil {
		return fmt.Errorf("load model %s: %w", path, err)
	}
	if err := s.SetModel(model); err != nil {
		return err
	}
	s.logger.Info("model loaded", "path", path, "trees", len(model.Trees), "crops", len(model.Classes))
	return nil
}

// SetModel replaces the served model. The model's feature columns must match
// domain.FeatureNames.
func (s *Service) SetModel(model *forest.Forest) error {
	if !slices.Equal(model.Features, domain.FeatureNames[:]) {
		return fmt.Errorf("model features %v do not match %v", model.Features, domain.FeatureNames)
	}
	s.model.Store(model)
	s.metrics.ModelLoaded.Set(1)
	return nil
}

// CheckReadiness reports ErrModelNotLoaded until a model is loaded.
func (s *Service) CheckReadiness(_ context.Context) error {
	if s.model.Load() == nil {
		return ErrModelNotLoaded
	}
	return nil
}

// Crops lists the crops the loaded model can recommend.
func (s *Service) Crops() []string {
	m := s.model.Load()
	if m == nil {
		return nil
	}
	return slices.Clone(m.Classes)
}

// Predict validates features and returns the most probable crop with its
// probability as confidence. The result is recorded in the offline log; a
// recording failure is logged and does not fail the prediction.
func (s *Service) Predict(ctx context.Context, features domain.Features) (domain.Prediction, error) {
	model := s.model.Load()
	if model == nil {
		return domain.Prediction{}, ErrModelNotLoaded
	}
	if err := Validate(features); err != nil {
		return domain.Prediction{}, err
	}

	v := features.Vector()
	crop, confidence := model.Predict(v[:])

	p := domain.Prediction{
		ID:         uuid.NewString(),
		Crop:       crop,
		Confidence: confidence,
		Features:   features,
		CreatedAt:  domain.Now(),
	}
	s.metrics.Predictions.WithLabelValues(crop).Inc()

	if s.recorder != nil {
		if err := s.recorder.Record(ctx, p); err != nil {
			s.metrics.OfflineLogErrors.Inc()
			s.logger.Warn("failed to record prediction", "id", p.ID, "error", err)
		}
	}

	s.logger.Debug("prediction served", "id", p.ID, "crop", crop, "confidence", confidence)
	return p, nil
}

// ValidateStruct runs the package validator over v. Field errors carry the
// field's JSON name.
func ValidateStruct(v any) error {
	return validate.Struct(v)
}

// Validate checks features against their allowed ranges.
func Validate(features domain.Features) error {
	err := ValidateStruct(features)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidFeatures, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s must be %s %s", fe.Field(), tagText(fe.Tag()), fe.Param()))
	}
	return fmt.Errorf("%w: %s", ErrInvalidFeatures, strings.Join(msgs, "; "))
}

func tagText(tag string) string {
	switch tag {
	case "gte":
		return ">="
	case "lte":
		return "<="
	default:
		return tag
	}
}
