package domain

import "time"

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is the only persistent entity in this core: one turn in an
// append-only conversation log, ordered by insertion.
type Message struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"timestamp"`
}

// UserKey scopes a conversation. Either an identified user or the shared
// anonymous bucket; the two are stored distinctly rather than overloading a
// string id with a sentinel.
type UserKey struct {
	id string
}

func IdentifiedUser(id string) UserKey { return UserKey{id: id} }
func AnonymousUser() UserKey           { return UserKey{} }

func (k UserKey) Anonymous() bool { return k.id == "" }
func (k UserKey) ID() string      { return k.id }

// String is for logging only; storage keys on (kind, subject) columns.
func (k UserKey) String() string {
	if k.Anonymous() {
		return "anonymous"
	}
	return "user:" + k.id
}
