package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/noah-isme/praxis-api/internal/models"
)

type countingRubricRepo struct {
	assessment models.Assessment
	calls      int
}

func (r *countingRubricRepo) GetAssessment(_ context.Context, id uint) (models.Assessment, error) {
	if id != r.assessment.ID {
		return models.Assessment{}, gorm.ErrRecordNotFound
	}
	r.calls++

	assessment := r.assessment
	assessment.Domains = nil

	return assessment, nil
}

func (r *countingRubricRepo) GetDomains(_ context.Context, _ uint) ([]models.AssessmentDomain, error) {
	domains := make([]models.AssessmentDomain, len(r.assessment.Domains))
	for i, domain := range r.assessment.Domains {
		domain.Questions = nil
		domains[i] = domain
	}

	return domains, nil
}

func (r *countingRubricRepo) GetQuestions(_ context.Context, domainID uint) ([]models.AssessmentQuestion, error) {
	for _, domain := range r.assessment.Domains {
		if domain.ID == domainID {
			return domain.Questions, nil
		}
	}

	return nil, nil
}

func TestRubricProviderAssemblesFullTree(t *testing.T) {
	repo := &countingRubricRepo{assessment: twoDomainAssessment()}
	provider := NewRubricProvider(repo, nil, time.Minute, testLogger())

	assessment, err := provider.GetRubric(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, assessment.Domains, 2)
	require.Len(t, assessment.Domains[0].Questions, 2)
	require.Equal(t, uint(101), assessment.Domains[0].Questions[0].ID)
}

func TestRubricProviderMissingAssessment(t *testing.T) {
	repo := &countingRubricRepo{assessment: twoDomainAssessment()}
	provider := NewRubricProvider(repo, nil, time.Minute, testLogger())

	_, err := provider.GetRubric(context.Background(), 404)
	require.ErrorIs(t, err, ErrMissingRubric)
}

func TestRubricProviderServesSecondReadFromCache(t *testing.T) {
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { client.Close() })

	repo := &countingRubricRepo{assessment: twoDomainAssessment()}
	provider := NewRubricProvider(repo, client, time.Minute, testLogger())

	first, err := provider.GetRubric(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, 1, repo.calls)

	second, err := provider.GetRubric(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, 1, repo.calls, "second read must hit the cache")
	require.Equal(t, first.ID, second.ID)
	require.Len(t, second.Domains, 2)
	require.Len(t, second.Domains[1].Questions, 2)
}

func TestRubricProviderCacheExpiry(t *testing.T) {
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { client.Close() })

	repo := &countingRubricRepo{assessment: twoDomainAssessment()}
	provider := NewRubricProvider(repo, client, time.Minute, testLogger())

	_, err := provider.GetRubric(context.Background(), 1)
	require.NoError(t, err)

	server.FastForward(2 * time.Minute)

	_, err = provider.GetRubric(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, 2, repo.calls, "expired cache entries fall back to the database")
}
