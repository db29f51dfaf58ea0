package rating

import (
	"context"
	"cooked/internal/schedule"
)

// Lookup finds the public rating of an instructor.
// A nil rating with a nil error means the instructor has no data.
type Lookup interface {
	LookupRating(ctx context.Context, professor string) (*schedule.ProfessorRating, error)
}
