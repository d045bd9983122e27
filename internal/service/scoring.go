package service

import (
	"math"

	"github.com/noah-isme/praxis-api/internal/models"
)

// Pass/fail outcome labels shown to clients.
const (
	PassFailLabelPass  = "Pass"
	PassFailLabelNeeds = "Needs Improvement"
)

// PassFailOutcome is the result of evaluating ratings against a rubric's
// pass threshold.
type PassFailOutcome struct {
	Passed bool   `json:"passed"`
	Label  string `json:"label"`
}

// DomainScore aggregates the ratings of one rubric domain. Average and
// Percentage are nil when no question in the domain has been rated yet; an
// unscored domain is never treated as zero.
type DomainScore struct {
	DomainID   uint     `json:"domain_id"`
	Name       string   `json:"name"`
	Average    *float64 `json:"average"`
	Percentage *float64 `json:"percentage"`
}

// DomainAverage returns the arithmetic mean of the ratings present for the
// domain's questions, or nil when none are present.
func DomainAverage(domain models.AssessmentDomain, ratings map[uint]int) *float64 {
	var sum, count int
	for _, question := range domain.Questions {
		if rating, ok := ratings[question.ID]; ok {
			sum += rating
			count++
		}
	}

	if count == 0 {
		return nil
	}

	average := float64(sum) / float64(count)

	return &average
}

// OverallAverage returns the mean over all present ratings across every
// domain, or nil when nothing has been rated.
func OverallAverage(domains []models.AssessmentDomain, ratings map[uint]int) *float64 {
	var sum, count int
	for _, domain := range domains {
		for _, question := range domain.Questions {
			if rating, ok := ratings[question.ID]; ok {
				sum += rating
				count++
			}
		}
	}

	if count == 0 {
		return nil
	}

	average := float64(sum) / float64(count)

	return &average
}

// DomainScores computes the per-domain aggregate for every domain of the
// rubric, in rubric order.
func DomainScores(assessment models.Assessment, ratings map[uint]int) []DomainScore {
	scores := make([]DomainScore, 0, len(assessment.Domains))
	for _, domain := range assessment.Domains {
		score := DomainScore{DomainID: domain.ID, Name: domain.Name}
		if average := DomainAverage(domain, ratings); average != nil {
			score.Average = average
			percentage := toPercentage(*average, assessment.RatingScale)
			score.Percentage = &percentage
		}
		scores = append(scores, score)
	}

	return scores
}

// EvaluatePassFail evaluates the rubric's pass threshold against the given
// ratings. Returns nil unless pass/fail is enabled, a threshold is set, and
// at least one rating is present. Comparisons use unrounded averages.
func EvaluatePassFail(assessment models.Assessment, ratings map[uint]int) *PassFailOutcome {
	if !assessment.PassFailEnabled || assessment.PassFailThreshold == nil {
		return nil
	}

	overall := OverallAverage(assessment.Domains, ratings)
	if overall == nil {
		return nil
	}

	threshold := *assessment.PassFailThreshold

	if assessment.PassFailMode == models.PassFailModePerDomain {
		for _, domain := range assessment.Domains {
			average := DomainAverage(domain, ratings)
			if average == nil {
				// A domain with no ratings yet does not block a pass.
				continue
			}
			if toPercentage(*average, assessment.RatingScale) < threshold {
				return &PassFailOutcome{Passed: false, Label: PassFailLabelNeeds}
			}
		}

		return &PassFailOutcome{Passed: true, Label: PassFailLabelPass}
	}

	if toPercentage(*overall, assessment.RatingScale) >= threshold {
		return &PassFailOutcome{Passed: true, Label: PassFailLabelPass}
	}

	return &PassFailOutcome{Passed: false, Label: PassFailLabelNeeds}
}

// RoundScore rounds an average to one decimal for display. Threshold
// comparisons never use the rounded value.
func RoundScore(value float64) float64 {
	return math.Round(value*10) / 10
}

func toPercentage(average float64, scale int) float64 {
	if scale <= 0 {
		return 0
	}

	return average / float64(scale) * 100
}
