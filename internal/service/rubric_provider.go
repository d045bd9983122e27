package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/praxis-api/internal/models"
	"github.com/noah-isme/praxis-api/internal/repository"
)

// RubricProvider assembles full rubric trees for scoring. Rubric data is
// read-only here, so reads go through a redis JSON cache when one is
// configured.
type RubricProvider interface {
	GetRubric(ctx context.Context, assessmentID uint) (models.Assessment, error)
}

type rubricProvider struct {
	repo     repository.RubricRepository
	cache    *redis.Client
	cacheTTL time.Duration
	logger   zerolog.Logger
}

// NewRubricProvider builds the cached rubric provider. The cache client may
// be nil, in which case every read hits the database.
func NewRubricProvider(repo repository.RubricRepository, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) RubricProvider {
	return &rubricProvider{
		repo:     repo,
		cache:    cache,
		cacheTTL: ttl,
		logger:   logger.With().Str("component", "rubric_provider").Logger(),
	}
}

func (p *rubricProvider) GetRubric(ctx context.Context, assessmentID uint) (models.Assessment, error) {
	cacheKey := fmt.Sprintf("rubric:assessment:%d", assessmentID)

	if p.cache != nil {
		if cached, err := p.cache.Get(ctx, cacheKey).Result(); err == nil {
			var assessment models.Assessment
			if unmarshalErr := json.Unmarshal([]byte(cached), &assessment); unmarshalErr == nil {
				p.logger.Debug().Uint("assessment_id", assessmentID).Msg("rubric cache hit")
				return assessment, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			p.logger.Warn().Err(err).Msg("failed to read rubric cache")
		}
	}

	assessment, err := p.repo.GetAssessment(ctx, assessmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Assessment{}, ErrMissingRubric
		}
		return models.Assessment{}, err
	}

	domains, err := p.repo.GetDomains(ctx, assessmentID)
	if err != nil {
		return models.Assessment{}, err
	}

	for i := range domains {
		questions, err := p.repo.GetQuestions(ctx, domains[i].ID)
		if err != nil {
			return models.Assessment{}, err
		}
		domains[i].Questions = questions
	}
	assessment.Domains = domains

	if p.cache != nil {
		if payload, err := json.Marshal(assessment); err == nil {
			if err := p.cache.Set(ctx, cacheKey, payload, p.cacheTTL).Err(); err != nil {
				p.logger.Warn().Err(err).Msg("failed to store rubric cache")
			}
		}
	}

	return assessment, nil
}
