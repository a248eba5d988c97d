package models

import "time"

// Comment is a reply under a community post
type Comment struct {
	ID        string    `json:"id"`
	Author    string    `json:"author"`
	AuthorID  string    `json:"authorId,omitempty"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// CommunityPost is an entry of the community board
type CommunityPost struct {
	ID        string    `json:"id"`
	Author    string    `json:"author"`
	AuthorID  string    `json:"authorId,omitempty"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	Likes     int       `json:"likes"`
	Comments  []Comment `json:"comments"`
}

// Message is a single line of a conversation
type Message struct {
	ID         string    `json:"id"`
	SenderID   string    `json:"senderId"`
	SenderName string    `json:"senderName"`
	Text       string    `json:"text"`
	Timestamp  time.Time `json:"timestamp"`
}

// Conversation is a direct thread between two members
type Conversation struct {
	ID                   string    `json:"id"`
	Participant1ID       string    `json:"participant1Id"`
	Participant1Name     string    `json:"participant1Name"`
	Participant2ID       string    `json:"participant2Id"`
	Participant2Name     string    `json:"participant2Name"`
	Participant2Business string    `json:"participant2Business,omitempty"`
	Messages             []Message `json:"messages"`
}

// Involves reports whether id is one of the two participants
func (c *Conversation) Involves(id string) bool {
	return c.Participant1ID == id || c.Participant2ID == id
}

// Between reports whether the conversation joins a and b, in either order
func (c *Conversation) Between(a, b string) bool {
	return (c.Participant1ID == a && c.Participant2ID == b) ||
		(c.Participant1ID == b && c.Participant2ID == a)
}

// AdminMessage is a line of the board-only chat
type AdminMessage struct {
	ID        string    `json:"id"`
	Author    string    `json:"author"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// Meeting is a board meeting scheduled from the admin console
type Meeting struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Agenda      string `json:"agenda"`
	ScheduledBy string `json:"scheduledBy"`
}

// Suggestion is member feedback reviewed by the board
type Suggestion struct {
	ID        string    `json:"id"`
	Author    string    `json:"author"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// ActivityType classifies activity log entries
type ActivityType string

const (
	ActivityNewMember ActivityType = "new_member"
	ActivityUpgrade   ActivityType = "upgrade"
	ActivityAdmin     ActivityType = "admin"
)

// ActivityLogLimit caps the activity log to its most recent entries
const ActivityLogLimit = 10

// ActivityLogEntry is one line of the recent activity feed
type ActivityLogEntry struct {
	ID        string       `json:"id"`
	Type      ActivityType `json:"type"`
	Text      string       `json:"text"`
	Timestamp time.Time    `json:"timestamp"`
}

// MemberStatus is the roster state of a member
type MemberStatus string

const (
	MemberActive    MemberStatus = "active"
	MemberPending   MemberStatus = "pending"
	MemberSuspended MemberStatus = "suspended"
)

// Member is an entry of the board-managed roster
type Member struct {
	ID             string       `json:"id"`
	Name           string       `json:"name"`
	Email          string       `json:"email"`
	BusinessName   string       `json:"businessName"`
	MembershipType Tier         `json:"membershipType"`
	JoinDate       string       `json:"joinDate"`
	Status         MemberStatus `json:"status"`
}
