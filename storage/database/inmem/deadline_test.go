package inmemdb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/deadlines/core/deadline"
)

var ctx = context.Background()

func TestDeadlineRepository_users(t *testing.T) {
	db := Open()
	repo := NewDeadlineRepository(db)

	ann := db.InsertUser(deadline.User{Name: "Ann", Email: "Ann@Test.edu"})
	db.InsertUser(deadline.User{Name: "Bob", Email: "bob@test.edu"})
	db.InsertUser(deadline.User{Name: "Bob 2", Email: " BOB@test.edu "})
	db.InsertUser(deadline.User{Name: "Nobody"})

	got, err := repo.GetUser(ctx, ann.ID)
	require.NoError(t, err)
	assert.Equal(t, ann, got)

	_, err = repo.GetUser(ctx, 404)
	assert.Equal(t, deadline.ErrUserNotFound, err)

	tests := []struct {
		email   string
		want    deadline.User
		wantErr error
	}{
		{email: "ann@test.edu", want: ann},
		{email: " ANN@TEST.EDU", want: ann},
		{email: "bob@test.edu", wantErr: deadline.ErrDuplicateEmail},
		{email: "cid@test.edu", wantErr: deadline.ErrUserNotFound},
		{email: "", wantErr: deadline.ErrUserNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			got, err := repo.GetUserByEmail(ctx, tt.email)
			assert.Equal(t, tt.wantErr, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDeadlineRepository_participants(t *testing.T) {
	db := Open()
	repo := NewDeadlineRepository(db)

	p2 := db.InsertParticipant(deadline.Participant{ID: 20, ParentID: 1, UserID: 5})
	p1 := db.InsertParticipant(deadline.Participant{ID: 10, ParentID: 1, UserID: 5})
	db.InsertParticipant(deadline.Participant{ID: 30, ParentID: 2, UserID: 5})

	got, err := repo.QueryParticipants(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []deadline.Participant{p1, p2}, got)

	first, err := repo.GetParticipant(ctx, 5, 1)
	require.NoError(t, err)
	assert.Equal(t, p1, first)

	_, err = repo.GetParticipant(ctx, 6, 1)
	assert.Equal(t, deadline.ErrParticipantNotFound, err)
}

func TestDeadlineRepository_topics(t *testing.T) {
	db := Open()
	repo := NewDeadlineRepository(db)

	db.InsertTeamMember(deadline.TeamMember{TeamID: 1, UserID: 1})
	db.InsertTeamMember(deadline.TeamMember{TeamID: 2, UserID: 2})
	db.InsertTeamMember(deadline.TeamMember{TeamID: 2, UserID: 3})
	signUp := db.InsertSignedUpTeam(deadline.SignedUpTeam{TopicID: 7, TeamID: 1})

	counts, err := repo.CountTeamMembers(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[int64]int{1: 1, 2: 2}, counts)

	got, err := repo.GetSignedUpTeam(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, signUp, got)

	_, err = repo.GetSignedUpTeam(ctx, 2)
	assert.Equal(t, deadline.ErrSignUpNotFound, err)

	require.NoError(t, repo.DeleteSignedUpTeam(ctx, signUp.ID))
	assert.False(t, db.HasSignedUpTeam(signUp.ID))
	assert.NoError(t, repo.DeleteSignedUpTeam(ctx, signUp.ID))
	assert.NoError(t, repo.DeleteSignedUpTeam(ctx, 404))
}

func TestDeadlineRepository_reviews(t *testing.T) {
	db := Open()
	repo := NewDeadlineRepository(db)

	rm1 := db.InsertResponseMap(deadline.ResponseMap{ReviewedObjectID: 1, ReviewerID: 1, RevieweeID: 2})
	rm2 := db.InsertResponseMap(deadline.ResponseMap{ReviewedObjectID: 1, ReviewerID: 2, RevieweeID: 1})
	db.InsertResponseMap(deadline.ResponseMap{ReviewedObjectID: 2})
	db.InsertResponse(deadline.Response{MapID: rm2.ID})
	db.InsertResponse(deadline.Response{MapID: rm2.ID})

	maps, err := repo.QueryResponseMaps(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []deadline.ResponseMap{rm1, rm2}, maps)

	n, err := repo.CountResponses(ctx, rm2.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	require.NoError(t, repo.DeleteResponseMap(ctx, rm1.ID))
	assert.False(t, db.HasResponseMap(rm1.ID))
	assert.True(t, db.HasResponseMap(rm2.ID))
	assert.NoError(t, repo.DeleteResponseMap(ctx, rm1.ID))
	assert.NoError(t, repo.DeleteResponseMap(ctx, 404))
}
