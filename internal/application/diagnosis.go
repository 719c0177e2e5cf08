package app

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"pneumo-bot/internal/domain/entity"
	"pneumo-bot/internal/domain/port"
)

// DiagnosisService собирает отчёт по одному снимку: классификация и пояснение
// выполняются параллельно, отчёт возвращается после завершения обеих веток.
type DiagnosisService struct {
	normalizer port.ImageNormalizer
	classifier port.Classifier
	explainer  port.Explainer
	log        zerolog.Logger
	now        func() time.Time
}

// NewDiagnosisService создаёт оркестратор. Зависимости только читаются,
// поэтому один сервис обслуживает независимые запросы параллельно.
func NewDiagnosisService(normalizer port.ImageNormalizer, classifier port.Classifier, explainer port.Explainer, log zerolog.Logger) *DiagnosisService {
	return &DiagnosisService{
		normalizer: normalizer,
		classifier: classifier,
		explainer:  explainer,
		log:        log.With().Str("component", "diagnosis").Logger(),
		now:        time.Now,
	}
}

// RunDiagnosis декодирует снимок и запускает обе ветки.
// Ошибка классификации прерывает запрос, сбой пояснения попадает в отчёт.
func (s *DiagnosisService) RunDiagnosis(ctx context.Context, raw []byte) (*entity.DiagnosticReport, error) {
	if s.normalizer == nil || s.classifier == nil {
		return nil, errors.New("classifier is not configured")
	}

	img, err := s.normalizer.Decode(raw)
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	log := s.log.With().Str("report_id", id).Logger()
	start := s.now()

	var (
		classification entity.ClassificationResult
		explanation    entity.ExplanationResult
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		res, err := s.classify(gctx, img)
		if err != nil {
			return err
		}
		classification = res
		return nil
	})
	g.Go(func() error {
		explanation = s.explain(gctx, img)
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("Classification failed")
		return nil, err
	}

	log.Info().
		Stringer("label", classification.Label).
		Float64("confidence", classification.ConfidencePercent).
		Bool("explained", explanation.Succeeded).
		Dur("elapsed", s.now().Sub(start)).
		Msg("Diagnosis completed")

	return &entity.DiagnosticReport{
		ID:             id,
		CreatedAt:      start,
		Classification: classification,
		Explanation:    explanation,
	}, nil
}

func (s *DiagnosisService) classify(ctx context.Context, img image.Image) (entity.ClassificationResult, error) {
	tensor, err := s.normalizer.Normalize(img)
	if err != nil {
		return entity.ClassificationResult{}, fmt.Errorf("normalize: %w", err)
	}

	scores, err := s.classifier.Predict(ctx, tensor)
	if err != nil {
		return entity.ClassificationResult{}, fmt.Errorf("predict: %w", err)
	}

	res, err := entity.Interpret(scores)
	if err != nil {
		return entity.ClassificationResult{}, fmt.Errorf("interpret: %w", err)
	}
	return res, nil
}

func (s *DiagnosisService) explain(ctx context.Context, img image.Image) entity.ExplanationResult {
	if s.explainer == nil {
		return entity.ExplanationResult{Text: "Explanation unavailable: explainer is not configured."}
	}
	return s.explainer.Explain(ctx, img)
}

// ExplainerName возвращает имя провайдера пояснений или пустую строку.
func (s *DiagnosisService) ExplainerName() string {
	if s.explainer == nil {
		return ""
	}
	return s.explainer.Name()
}
