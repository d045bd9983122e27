package service

import "errors"

// ErrAssignmentNotFound indicates the assignment was not located.
var ErrAssignmentNotFound = errors.New("assignment not found")

// ErrSnapshotNotFound indicates the capability snapshot was not located.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// ErrModuleProgressNotFound indicates the module progress context is absent.
var ErrModuleProgressNotFound = errors.New("module progress not found")

// ErrAssignmentTypeNotFound indicates the assignment type is absent.
var ErrAssignmentTypeNotFound = errors.New("assignment type not found")

// ErrForbidden indicates the caller may not act on this assignment.
var ErrForbidden = errors.New("insufficient permissions")

// ErrInvalidTransition indicates the requested action is not legal for the
// assignment's current status.
var ErrInvalidTransition = errors.New("action not allowed for current assignment status")

// ErrNotSubmitted indicates grading was attempted before submission. The
// message is user-facing and must stay distinct from ErrAlreadyReviewed.
var ErrNotSubmitted = errors.New("assignment has not been submitted yet")

// ErrAlreadyReviewed indicates grading was attempted on finalized work.
var ErrAlreadyReviewed = errors.New("assignment has already been reviewed")

// ErrNotReviewed indicates feedback was requested before grading finished.
var ErrNotReviewed = errors.New("assignment has not been reviewed yet")

// ErrMissingRubric indicates a scoring action on an assignment type with no
// configured rubric.
var ErrMissingRubric = errors.New("no rubric configured for this assignment type")

// ErrScoringRequired indicates markReviewedWithoutRubric was called for an
// assignment type that does have a rubric.
var ErrScoringRequired = errors.New("assignment type has a rubric; complete scoring instead")

// ErrInvalidRating indicates a rating outside the rubric's integer scale.
var ErrInvalidRating = errors.New("rating outside rubric scale")

// ErrUnknownQuestion indicates a rating or note keyed by a question that is
// not part of the rubric.
var ErrUnknownQuestion = errors.New("question does not belong to rubric")

// ErrUnknownDomain indicates a note keyed by a domain that is not part of
// the rubric.
var ErrUnknownDomain = errors.New("domain does not belong to rubric")

// ErrInvalidResponse indicates submitted responses do not match the
// assignment type's field schema.
var ErrInvalidResponse = errors.New("invalid response payload")
