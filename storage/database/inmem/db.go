package inmemdb

import (
	"sync"

	"github.com/trezcool/deadlines/core/deadline"
)

// DB is an in-memory stand-in for the external relational store.
type DB struct {
	mu    sync.RWMutex
	pkSeq int64

	assignments   map[int64]*deadline.Assignment
	users         map[int64]*deadline.User
	participants  map[int64]*deadline.Participant
	teamMembers   map[int64]*deadline.TeamMember
	signedUpTeams map[int64]*deadline.SignedUpTeam
	responseMaps  map[int64]*deadline.ResponseMap
	responses     map[int64]*deadline.Response
}

func Open() *DB {
	return &DB{
		assignments:   make(map[int64]*deadline.Assignment),
		users:         make(map[int64]*deadline.User),
		participants:  make(map[int64]*deadline.Participant),
		teamMembers:   make(map[int64]*deadline.TeamMember),
		signedUpTeams: make(map[int64]*deadline.SignedUpTeam),
		responseMaps:  make(map[int64]*deadline.ResponseMap),
		responses:     make(map[int64]*deadline.Response),
	}
}

func (db *DB) nextPK(id int64) int64 {
	if id != 0 {
		if id > db.pkSeq {
			db.pkSeq = id
		}
		return id
	}
	db.pkSeq++
	return db.pkSeq
}

// Fixtures: records are stored with the given ID, or a generated one when ID is 0.

func (db *DB) InsertAssignment(a deadline.Assignment) deadline.Assignment {
	db.mu.Lock()
	defer db.mu.Unlock()
	a.ID = db.nextPK(a.ID)
	db.assignments[a.ID] = &a
	return a
}

func (db *DB) InsertUser(u deadline.User) deadline.User {
	db.mu.Lock()
	defer db.mu.Unlock()
	u.ID = db.nextPK(u.ID)
	db.users[u.ID] = &u
	return u
}

func (db *DB) InsertParticipant(p deadline.Participant) deadline.Participant {
	db.mu.Lock()
	defer db.mu.Unlock()
	p.ID = db.nextPK(p.ID)
	db.participants[p.ID] = &p
	return p
}

func (db *DB) InsertTeamMember(m deadline.TeamMember) deadline.TeamMember {
	db.mu.Lock()
	defer db.mu.Unlock()
	m.ID = db.nextPK(m.ID)
	db.teamMembers[m.ID] = &m
	return m
}

func (db *DB) InsertSignedUpTeam(s deadline.SignedUpTeam) deadline.SignedUpTeam {
	db.mu.Lock()
	defer db.mu.Unlock()
	s.ID = db.nextPK(s.ID)
	db.signedUpTeams[s.ID] = &s
	return s
}

func (db *DB) InsertResponseMap(rm deadline.ResponseMap) deadline.ResponseMap {
	db.mu.Lock()
	defer db.mu.Unlock()
	rm.ID = db.nextPK(rm.ID)
	db.responseMaps[rm.ID] = &rm
	return rm
}

func (db *DB) InsertResponse(r deadline.Response) deadline.Response {
	db.mu.Lock()
	defer db.mu.Unlock()
	r.ID = db.nextPK(r.ID)
	db.responses[r.ID] = &r
	return r
}

// HasSignedUpTeam reports whether the topic sign-up still exists.
func (db *DB) HasSignedUpTeam(id int64) bool {
	db.mu.RLock()
	defer db.mu.RUnlock()
	_, ok := db.signedUpTeams[id]
	return ok
}

// HasResponseMap reports whether the review map still exists.
func (db *DB) HasResponseMap(id int64) bool {
	db.mu.RLock()
	defer db.mu.RUnlock()
	_, ok := db.responseMaps[id]
	return ok
}
