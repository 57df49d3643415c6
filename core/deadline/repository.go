package deadline

import (
	"context"
	"errors"
)

var (
	// errors
	ErrAssignmentNotFound  = errors.New("assignment not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrDuplicateEmail      = errors.New("more than one user has this email")
	ErrParticipantNotFound = errors.New("participant not found")
	ErrSignUpNotFound      = errors.New("topic sign-up not found")
)

// Repository is the view of the external store the deadline tasks need.
// Deletes of absent records are no-ops.
type Repository interface {
	GetAssignment(ctx context.Context, id int64) (Assignment, error)
	QueryParticipants(ctx context.Context, assignmentID int64) ([]Participant, error)
	GetUser(ctx context.Context, id int64) (User, error)
	// GetUserByEmail fails with ErrDuplicateEmail when the email is not unique.
	GetUserByEmail(ctx context.Context, email string) (User, error)
	GetParticipant(ctx context.Context, userID, assignmentID int64) (Participant, error)

	// CountTeamMembers returns the number of members per team id, over all teams.
	CountTeamMembers(ctx context.Context) (map[int64]int, error)
	GetSignedUpTeam(ctx context.Context, teamID int64) (SignedUpTeam, error)
	DeleteSignedUpTeam(ctx context.Context, id int64) error

	QueryResponseMaps(ctx context.Context, reviewedObjectID int64) ([]ResponseMap, error)
	CountResponses(ctx context.Context, mapID int64) (int, error)
	DeleteResponseMap(ctx context.Context, id int64) error
}
