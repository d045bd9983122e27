package dto

import "github.com/noah-isme/praxis-api/internal/models"

// RubricResponse serializes a rubric with its ordered domains and questions.
type RubricResponse struct {
	ID                uint             `json:"id"`
	Name              string           `json:"name"`
	RatingScale       int              `json:"rating_scale"`
	PassFailEnabled   bool             `json:"pass_fail_enabled"`
	PassFailThreshold *float64         `json:"pass_fail_threshold"`
	PassFailMode      string           `json:"pass_fail_mode"`
	Domains           []RubricDomain   `json:"domains"`
}

// RubricDomain serializes one domain of a rubric.
type RubricDomain struct {
	ID         uint             `json:"id"`
	Name       string           `json:"name"`
	OrderIndex int              `json:"order_index"`
	Questions  []RubricQuestion `json:"questions"`
}

// RubricQuestion serializes one rated item.
type RubricQuestion struct {
	ID         uint   `json:"id"`
	Text       string `json:"text"`
	OrderIndex int    `json:"order_index"`
}

// NewRubricResponse converts an Assessment model (with nested domains and
// questions) into a DTO.
func NewRubricResponse(model models.Assessment) RubricResponse {
	response := RubricResponse{
		ID:                model.ID,
		Name:              model.Name,
		RatingScale:       model.RatingScale,
		PassFailEnabled:   model.PassFailEnabled,
		PassFailThreshold: model.PassFailThreshold,
		PassFailMode:      model.PassFailMode,
		Domains:           make([]RubricDomain, 0, len(model.Domains)),
	}

	for _, domain := range model.Domains {
		questions := make([]RubricQuestion, 0, len(domain.Questions))
		for _, question := range domain.Questions {
			questions = append(questions, RubricQuestion{
				ID:         question.ID,
				Text:       question.Text,
				OrderIndex: question.OrderIndex,
			})
		}
		response.Domains = append(response.Domains, RubricDomain{
			ID:         domain.ID,
			Name:       domain.Name,
			OrderIndex: domain.OrderIndex,
			Questions:  questions,
		})
	}

	return response
}
