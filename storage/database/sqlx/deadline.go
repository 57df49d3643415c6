package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/deadlines/core"
	"github.com/trezcool/deadlines/core/deadline"
)

type (
	assignmentRow struct {
		ID             int64       `db:"id"`
		Name           null.String `db:"name"`
		TeamAssignment null.Bool   `db:"team_assignment"`
	}

	userRow struct {
		ID    int64       `db:"id"`
		Name  null.String `db:"name"`
		Email null.String `db:"email"`
	}

	participantRow struct {
		ID       int64      `db:"id"`
		ParentID null.Int64 `db:"parent_id"`
		UserID   null.Int64 `db:"user_id"`
	}

	signedUpTeamRow struct {
		ID      int64      `db:"id"`
		TopicID null.Int64 `db:"topic_id"`
		TeamID  int64      `db:"team_id"`
	}

	responseMapRow struct {
		ID               int64      `db:"id"`
		ReviewedObjectID int64      `db:"reviewed_object_id"`
		ReviewerID       null.Int64 `db:"reviewer_id"`
		RevieweeID       null.Int64 `db:"reviewee_id"`
	}

	teamCountRow struct {
		TeamID int64 `db:"team_id"`
		Count  int   `db:"count"`
	}
)

func (r assignmentRow) unboil() deadline.Assignment {
	return deadline.Assignment{ID: r.ID, Name: r.Name.String, IsTeamAssignment: r.TeamAssignment.Bool}
}

func (r userRow) unboil() deadline.User {
	return deadline.User{ID: r.ID, Name: r.Name.String, Email: r.Email.String}
}

func (r participantRow) unboil() deadline.Participant {
	return deadline.Participant{ID: r.ID, ParentID: r.ParentID.Int64, UserID: r.UserID.Int64}
}

func (r signedUpTeamRow) unboil() deadline.SignedUpTeam {
	return deadline.SignedUpTeam{ID: r.ID, TopicID: r.TopicID.Int64, TeamID: r.TeamID}
}

func (r responseMapRow) unboil() deadline.ResponseMap {
	return deadline.ResponseMap{
		ID:               r.ID,
		ReviewedObjectID: r.ReviewedObjectID,
		ReviewerID:       r.ReviewerID.Int64,
		RevieweeID:       r.RevieweeID.Int64,
	}
}

type deadlineRepository struct {
	exec core.DBExecutor
}

var _ deadline.Repository = (*deadlineRepository)(nil) // interface compliance check

func NewDeadlineRepository(exec core.DBExecutor) deadline.Repository {
	return &deadlineRepository{exec: exec}
}

// trapNoRowsErr maps psql "no rows" err to notFound
func trapNoRowsErr(err error, notFound error, msg string) error {
	if errors.Cause(err) == sql.ErrNoRows {
		return notFound
	}
	return errors.Wrap(err, msg)
}

func (repo *deadlineRepository) GetAssignment(ctx context.Context, id int64) (deadline.Assignment, error) {
	var row assignmentRow
	q := `SELECT id, name, team_assignment FROM assignments WHERE id = $1`
	if err := repo.exec.GetContext(ctx, &row, q, id); err != nil {
		return deadline.Assignment{}, trapNoRowsErr(err, deadline.ErrAssignmentNotFound, "finding assignment")
	}
	return row.unboil(), nil
}

func (repo *deadlineRepository) QueryParticipants(ctx context.Context, assignmentID int64) ([]deadline.Participant, error) {
	var rows []participantRow
	q := `SELECT id, parent_id, user_id FROM participants WHERE parent_id = $1 ORDER BY id`
	if err := repo.exec.SelectContext(ctx, &rows, q, assignmentID); err != nil {
		return nil, errors.Wrap(err, "querying participants")
	}
	participants := make([]deadline.Participant, 0, len(rows))
	for _, r := range rows {
		participants = append(participants, r.unboil())
	}
	return participants, nil
}

func (repo *deadlineRepository) GetUser(ctx context.Context, id int64) (deadline.User, error) {
	var row userRow
	q := `SELECT id, name, email FROM users WHERE id = $1`
	if err := repo.exec.GetContext(ctx, &row, q, id); err != nil {
		return deadline.User{}, trapNoRowsErr(err, deadline.ErrUserNotFound, "finding user")
	}
	return row.unboil(), nil
}

func (repo *deadlineRepository) GetUserByEmail(ctx context.Context, email string) (deadline.User, error) {
	email = core.CleanString(email, true /* lower */)
	if email == "" {
		return deadline.User{}, deadline.ErrUserNotFound
	}

	var rows []userRow
	q := `SELECT id, name, email FROM users WHERE LOWER(TRIM(email)) = $1 ORDER BY id LIMIT 2`
	if err := repo.exec.SelectContext(ctx, &rows, q, email); err != nil {
		return deadline.User{}, errors.Wrap(err, "finding user by email")
	}
	switch len(rows) {
	case 0:
		return deadline.User{}, deadline.ErrUserNotFound
	case 1:
		return rows[0].unboil(), nil
	default:
		return deadline.User{}, deadline.ErrDuplicateEmail
	}
}

func (repo *deadlineRepository) GetParticipant(ctx context.Context, userID, assignmentID int64) (deadline.Participant, error) {
	var row participantRow
	q := `SELECT id, parent_id, user_id FROM participants WHERE user_id = $1 AND parent_id = $2 ORDER BY id LIMIT 1`
	if err := repo.exec.GetContext(ctx, &row, q, userID, assignmentID); err != nil {
		return deadline.Participant{}, trapNoRowsErr(err, deadline.ErrParticipantNotFound, "finding participant")
	}
	return row.unboil(), nil
}

func (repo *deadlineRepository) CountTeamMembers(ctx context.Context) (map[int64]int, error) {
	var rows []teamCountRow
	q := `SELECT team_id, COUNT(team_id) AS count FROM teams_users GROUP BY team_id`
	if err := repo.exec.SelectContext(ctx, &rows, q); err != nil {
		return nil, errors.Wrap(err, "counting team members")
	}
	counts := make(map[int64]int, len(rows))
	for _, r := range rows {
		counts[r.TeamID] = r.Count
	}
	return counts, nil
}

func (repo *deadlineRepository) GetSignedUpTeam(ctx context.Context, teamID int64) (deadline.SignedUpTeam, error) {
	var row signedUpTeamRow
	q := `SELECT id, topic_id, team_id FROM signed_up_teams WHERE team_id = $1 ORDER BY id LIMIT 1`
	if err := repo.exec.GetContext(ctx, &row, q, teamID); err != nil {
		return deadline.SignedUpTeam{}, trapNoRowsErr(err, deadline.ErrSignUpNotFound, "finding topic sign-up")
	}
	return row.unboil(), nil
}

func (repo *deadlineRepository) DeleteSignedUpTeam(ctx context.Context, id int64) error {
	if _, err := repo.exec.ExecContext(ctx, `DELETE FROM signed_up_teams WHERE id = $1`, id); err != nil {
		return errors.Wrap(err, "deleting topic sign-up")
	}
	return nil
}

func (repo *deadlineRepository) QueryResponseMaps(ctx context.Context, reviewedObjectID int64) ([]deadline.ResponseMap, error) {
	var rows []responseMapRow
	q := `SELECT id, reviewed_object_id, reviewer_id, reviewee_id FROM response_maps WHERE reviewed_object_id = $1 ORDER BY id`
	if err := repo.exec.SelectContext(ctx, &rows, q, reviewedObjectID); err != nil {
		return nil, errors.Wrap(err, "querying review maps")
	}
	maps := make([]deadline.ResponseMap, 0, len(rows))
	for _, r := range rows {
		maps = append(maps, r.unboil())
	}
	return maps, nil
}

func (repo *deadlineRepository) CountResponses(ctx context.Context, mapID int64) (int, error) {
	var n int
	if err := repo.exec.GetContext(ctx, &n, `SELECT COUNT(*) FROM responses WHERE map_id = $1`, mapID); err != nil {
		return 0, errors.Wrap(err, "counting responses")
	}
	return n, nil
}

func (repo *deadlineRepository) DeleteResponseMap(ctx context.Context, id int64) error {
	if _, err := repo.exec.ExecContext(ctx, `DELETE FROM response_maps WHERE id = $1`, id); err != nil {
		return errors.Wrap(err, "deleting review map")
	}
	return nil
}
