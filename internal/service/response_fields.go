package service

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/noah-isme/praxis-api/internal/models"
)

const defaultRatingFieldMax = 5

// ParseResponseFields decodes the assignment type's field schema.
func ParseResponseFields(assignmentType models.AssignmentType) ([]models.ResponseField, error) {
	if len(assignmentType.Fields) == 0 {
		return nil, nil
	}

	var fields []models.ResponseField
	if err := json.Unmarshal(assignmentType.Fields, &fields); err != nil {
		return nil, fmt.Errorf("malformed field schema for assignment type %d: %w", assignmentType.ID, err)
	}

	return fields, nil
}

// ValidateResponses checks a responses map against the assignment type's
// field schema. Unknown field ids are always rejected; required fields are
// enforced only when requireAll is set (submit time), so partial drafts can
// be saved freely.
func ValidateResponses(fields []models.ResponseField, responses map[string]interface{}, requireAll bool) error {
	byID := make(map[string]models.ResponseField, len(fields))
	for _, field := range fields {
		byID[field.ID] = field
	}

	for id, value := range responses {
		field, ok := byID[id]
		if !ok {
			return fmt.Errorf("%w: unknown field %q", ErrInvalidResponse, id)
		}
		if err := validateFieldValue(field, value); err != nil {
			return err
		}
	}

	if !requireAll {
		return nil
	}

	for _, field := range fields {
		if !field.Required {
			continue
		}
		value, present := responses[field.ID]
		if !present || isBlankValue(value) {
			return fmt.Errorf("%w: field %q is required", ErrInvalidResponse, field.ID)
		}
	}

	return nil
}

func validateFieldValue(field models.ResponseField, value interface{}) error {
	if value == nil {
		return nil
	}

	switch field.Kind {
	case models.FieldKindText, models.FieldKindFile:
		if _, ok := value.(string); !ok {
			return fmt.Errorf("%w: field %q expects text", ErrInvalidResponse, field.ID)
		}
	case models.FieldKindNumber:
		number, ok := asNumber(value)
		if !ok {
			return fmt.Errorf("%w: field %q expects a number", ErrInvalidResponse, field.ID)
		}
		if field.Max != nil && number > *field.Max {
			return fmt.Errorf("%w: field %q exceeds maximum %v", ErrInvalidResponse, field.ID, *field.Max)
		}
	case models.FieldKindRating:
		number, ok := asNumber(value)
		if !ok || number != float64(int(number)) {
			return fmt.Errorf("%w: field %q expects an integer rating", ErrInvalidResponse, field.ID)
		}
		max := float64(defaultRatingFieldMax)
		if field.Max != nil {
			max = *field.Max
		}
		if number < 1 || number > max {
			return fmt.Errorf("%w: field %q rating must be between 1 and %v", ErrInvalidResponse, field.ID, max)
		}
	case models.FieldKindCheckbox:
		if _, ok := value.(bool); !ok {
			return fmt.Errorf("%w: field %q expects a boolean", ErrInvalidResponse, field.ID)
		}
	case models.FieldKindSelect:
		selected, ok := value.(string)
		if !ok {
			return fmt.Errorf("%w: field %q expects a selection", ErrInvalidResponse, field.ID)
		}
		if selected == "" {
			return nil
		}
		for _, option := range field.Options {
			if option == selected {
				return nil
			}
		}
		return fmt.Errorf("%w: field %q has no option %q", ErrInvalidResponse, field.ID, selected)
	default:
		return fmt.Errorf("%w: field %q has unsupported kind %q", ErrInvalidResponse, field.ID, field.Kind)
	}

	return nil
}

func asNumber(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}

func isBlankValue(value interface{}) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	default:
		return false
	}
}
