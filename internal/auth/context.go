package auth

import (
	"context"

	"github.com/google/uuid"
	"github.com/lexprocure/api/internal/models"
)

type contextKey string

const subjectKey contextKey = "subject"

func WithSubject(ctx context.Context, u *models.User) context.Context {
	return context.WithValue(ctx, subjectKey, u)
}

func SubjectFromContext(ctx context.Context) *models.User {
	u, _ := ctx.Value(subjectKey).(*models.User)
	return u
}

func SubjectIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	if u := SubjectFromContext(ctx); u != nil {
		return u.ID, true
	}
	return uuid.Nil, false
}
