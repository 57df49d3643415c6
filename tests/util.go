package testutil

import (
	"context"
	"io"
	"log"
	"os"
	"testing"

	"github.com/jmoiron/sqlx"

	"github.com/trezcool/deadlines/core"
	"github.com/trezcool/deadlines/core/deadline"
	emailsvc "github.com/trezcool/deadlines/services/email"
	logsvc "github.com/trezcool/deadlines/services/logger"
	plagiarismsvc "github.com/trezcool/deadlines/services/plagiarism"
	"github.com/trezcool/deadlines/storage/database"
	inmemdb "github.com/trezcool/deadlines/storage/database/inmem"
)

// Fixture bundles an in-memory store with the mocked services a deadline.Service needs.
type Fixture struct {
	Conf       *core.Config
	Logger     core.Logger
	DB         *inmemdb.DB
	Repo       deadline.Repository
	Mail       *emailsvc.ConsoleService
	Plagiarism *plagiarismsvc.ConsoleService
}

func NewFixture(t *testing.T) *Fixture {
	t.Helper()
	conf := core.NewTestConfig()
	logger := NewLogger(conf)
	db := inmemdb.Open()
	return &Fixture{
		Conf:       conf,
		Logger:     logger,
		DB:         db,
		Repo:       inmemdb.NewDeadlineRepository(db),
		Mail:       emailsvc.NewConsoleServiceMock(conf),
		Plagiarism: plagiarismsvc.NewConsoleService(logger),
	}
}

// Service returns a deadline.Service wired to the fixture.
func (f *Fixture) Service() *deadline.Service {
	return deadline.NewService(f.Repo, f.Mail, f.Plagiarism, f.Logger, f.Conf)
}

// NewLogger returns a silent logger that never reaches rollbar.
func NewLogger(conf *core.Config) core.Logger {
	logger := logsvc.NewRollbarLogger(log.New(io.Discard, "", 0), conf)
	logger.Enable(false)
	return logger
}

// CreateParticipant creates a user and enrolls them in the assignment.
func CreateParticipant(db *inmemdb.DB, assignmentID int64, name, email string) (deadline.User, deadline.Participant) {
	usr := db.InsertUser(deadline.User{Name: name, Email: email})
	p := db.InsertParticipant(deadline.Participant{ParentID: assignmentID, UserID: usr.ID})
	return usr, p
}

// CreateTeam creates a team of size members; it signs up for topicID unless topicID is 0.
func CreateTeam(db *inmemdb.DB, teamID int64, size int, topicID int64) (signUp deadline.SignedUpTeam) {
	for i := 0; i < size; i++ {
		usr := db.InsertUser(deadline.User{Name: "member"})
		db.InsertTeamMember(deadline.TeamMember{TeamID: teamID, UserID: usr.ID})
	}
	if topicID != 0 {
		signUp = db.InsertSignedUpTeam(deadline.SignedUpTeam{TopicID: topicID, TeamID: teamID})
	}
	return signUp
}

// PrepareDB opens the Postgres test database from TEST_DATABASE_URL, migrates it and empties it.
// The test is skipped when TEST_DATABASE_URL is not set.
func PrepareDB(t *testing.T) *sqlx.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := database.OpenURL(dsn)
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err = database.Ping(context.Background(), db); err != nil {
		t.Fatalf("pinging test database: %v", err)
	}
	if err = database.Migrate(db); err != nil {
		t.Fatalf("migrating test database: %v", err)
	}
	const truncate = `TRUNCATE responses, response_maps, signed_up_teams, teams_users, participants, users, assignments RESTART IDENTITY`
	if _, err = db.Exec(truncate); err != nil {
		t.Fatalf("truncating test database: %v", err)
	}
	return db
}
