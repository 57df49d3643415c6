package inmemdb

import (
	"context"
	"sort"

	"github.com/trezcool/deadlines/core"
	"github.com/trezcool/deadlines/core/deadline"
)

type deadlineRepository struct {
	db *DB
}

var _ deadline.Repository = (*deadlineRepository)(nil) // interface compliance check

func NewDeadlineRepository(db *DB) deadline.Repository {
	return &deadlineRepository{db: db}
}

func (repo *deadlineRepository) GetAssignment(_ context.Context, id int64) (deadline.Assignment, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if a, ok := repo.db.assignments[id]; ok {
		return *a, nil
	}
	return deadline.Assignment{}, deadline.ErrAssignmentNotFound
}

func (repo *deadlineRepository) QueryParticipants(_ context.Context, assignmentID int64) ([]deadline.Participant, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	var participants []deadline.Participant
	for _, p := range repo.db.participants {
		if p.ParentID == assignmentID {
			participants = append(participants, *p)
		}
	}
	sort.Slice(participants, func(i, j int) bool { return participants[i].ID < participants[j].ID })
	return participants, nil
}

func (repo *deadlineRepository) GetUser(_ context.Context, id int64) (deadline.User, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if u, ok := repo.db.users[id]; ok {
		return *u, nil
	}
	return deadline.User{}, deadline.ErrUserNotFound
}

func (repo *deadlineRepository) GetUserByEmail(_ context.Context, email string) (deadline.User, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	email = core.CleanString(email, true /* lower */)
	var matches []deadline.User
	for _, u := range repo.db.users {
		if email != "" && core.CleanString(u.Email, true /* lower */) == email {
			matches = append(matches, *u)
		}
	}
	switch len(matches) {
	case 0:
		return deadline.User{}, deadline.ErrUserNotFound
	case 1:
		return matches[0], nil
	default:
		return deadline.User{}, deadline.ErrDuplicateEmail
	}
}

func (repo *deadlineRepository) GetParticipant(_ context.Context, userID, assignmentID int64) (deadline.Participant, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	var found *deadline.Participant
	for _, p := range repo.db.participants {
		if p.UserID == userID && p.ParentID == assignmentID && (found == nil || p.ID < found.ID) {
			found = p
		}
	}
	if found == nil {
		return deadline.Participant{}, deadline.ErrParticipantNotFound
	}
	return *found, nil
}

func (repo *deadlineRepository) CountTeamMembers(_ context.Context) (map[int64]int, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	counts := make(map[int64]int)
	for _, m := range repo.db.teamMembers {
		counts[m.TeamID]++
	}
	return counts, nil
}

func (repo *deadlineRepository) GetSignedUpTeam(_ context.Context, teamID int64) (deadline.SignedUpTeam, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	var found *deadline.SignedUpTeam
	for _, s := range repo.db.signedUpTeams {
		if s.TeamID == teamID && (found == nil || s.ID < found.ID) {
			found = s
		}
	}
	if found == nil {
		return deadline.SignedUpTeam{}, deadline.ErrSignUpNotFound
	}
	return *found, nil
}

func (repo *deadlineRepository) DeleteSignedUpTeam(_ context.Context, id int64) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()
	delete(repo.db.signedUpTeams, id)
	return nil
}

func (repo *deadlineRepository) QueryResponseMaps(_ context.Context, reviewedObjectID int64) ([]deadline.ResponseMap, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	var maps []deadline.ResponseMap
	for _, rm := range repo.db.responseMaps {
		if rm.ReviewedObjectID == reviewedObjectID {
			maps = append(maps, *rm)
		}
	}
	sort.Slice(maps, func(i, j int) bool { return maps[i].ID < maps[j].ID })
	return maps, nil
}

func (repo *deadlineRepository) CountResponses(_ context.Context, mapID int64) (int, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	var n int
	for _, r := range repo.db.responses {
		if r.MapID == mapID {
			n++
		}
	}
	return n, nil
}

func (repo *deadlineRepository) DeleteResponseMap(_ context.Context, id int64) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()
	delete(repo.db.responseMaps, id)
	return nil
}
