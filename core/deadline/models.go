package deadline

// Assignment is the assignment a deadline belongs to.
type Assignment struct {
	ID               int64  `json:"id"`
	Name             string `json:"name"`
	IsTeamAssignment bool   `json:"is_team_assignment"`
}

// Participant links a User to an Assignment (ParentID).
// UserID is 0 when the participant has no user.
type Participant struct {
	ID       int64 `json:"id"`
	ParentID int64 `json:"parent_id"`
	UserID   int64 `json:"user_id"`
}

type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// TeamMember is a team membership record.
type TeamMember struct {
	ID     int64 `json:"id"`
	TeamID int64 `json:"team_id"`
	UserID int64 `json:"user_id"`
}

// SignedUpTeam records the topic a team signed up for.
type SignedUpTeam struct {
	ID      int64 `json:"id"`
	TopicID int64 `json:"topic_id"`
	TeamID  int64 `json:"team_id"`
}

// ResponseMap is an assigned peer review.
type ResponseMap struct {
	ID               int64 `json:"id"`
	ReviewedObjectID int64 `json:"reviewed_object_id"`
	ReviewerID       int64 `json:"reviewer_id"`
	RevieweeID       int64 `json:"reviewee_id"`
}

// Response is a submitted review fulfilling a ResponseMap.
type Response struct {
	ID    int64 `json:"id"`
	MapID int64 `json:"map_id"`
}
