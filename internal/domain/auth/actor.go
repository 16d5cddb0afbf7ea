package auth

import (
	"context"

	"github.com/go-chi/jwtauth/v5"
	"github.com/satshine/satshine-backend/internal/domain/employee"
)

// Actor is the authenticated employee behind a request.
type Actor struct {
	EmployeeID   string
	EmployeeCode string
	Designation  employee.Designation
}

func (a Actor) IsAdmin() bool {
	return a.Designation.IsAdmin()
}

type actorKey struct{}

// WithActor stores the actor on ctx. The auth middleware and the CLI use it so
// services never parse tokens themselves.
func WithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, a)
}

// ActorFromContext returns the actor set by WithActor, falling back to the
// access token claims placed by jwtauth.Verifier.
func ActorFromContext(ctx context.Context) (Actor, error) {
	if a, ok := ctx.Value(actorKey{}).(Actor); ok && a.EmployeeID != "" {
		return a, nil
	}

	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return Actor{}, ErrMissingClaims
	}

	employeeID, ok := claims["employee_id"].(string)
	if !ok || employeeID == "" {
		return Actor{}, ErrMissingClaims
	}
	designation, ok := claims["designation"].(string)
	if !ok || designation == "" {
		return Actor{}, ErrMissingClaims
	}
	code, _ := claims["employee_code"].(string)

	return Actor{
		EmployeeID:   employeeID,
		EmployeeCode: code,
		Designation:  employee.Designation(designation),
	}, nil
}
