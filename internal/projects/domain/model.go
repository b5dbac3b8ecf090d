package domain

import (
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// InitialMessageID marks the request a project was created from.
const InitialMessageID = "init"

const (
	nameRunes       = 20
	DefaultSaveName = "Untitled Project"
)

// ChatMessage is immutable once appended to a transcript.
type ChatMessage struct {
	ID        string `json:"id"`
	Role      Role   `json:"role"`
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp"`
}

// Project is a chat transcript plus the latest generated artifact.
// Messages are append-only.
type Project struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	CreatedAt   int64         `json:"createdAt"`
	Messages    []ChatMessage `json:"messages"`
	CurrentCode string        `json:"currentCode,omitempty"`
}

// Meta is what is kept besides the transcript and the code.
type Meta struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt int64  `json:"createdAt"`
}

func (p *Project) Meta() Meta {
	return Meta{ID: p.ID, Name: p.Name, CreatedAt: p.CreatedAt}
}

// NewProjectID derives an id from the creation time in unix milliseconds.
func NewProjectID(at time.Time) string {
	return strconv.FormatInt(at.UnixMilli(), 10)
}

func NewMessageID() string {
	return uuid.NewString()
}

// NameFromRequest uses the first 20 characters of the opening request.
func NameFromRequest(request string) string {
	if utf8.RuneCountInString(request) <= nameRunes {
		return request + "..."
	}
	r := []rune(request)
	return string(r[:nameRunes]) + "..."
}

func NewMessage(role Role, text string, at time.Time) ChatMessage {
	return ChatMessage{
		ID:        NewMessageID(),
		Role:      role,
		Text:      text,
		Timestamp: at.UnixMilli(),
	}
}

// LastTexts returns the texts of the n most recent messages, oldest first.
func LastTexts(msgs []ChatMessage, n int) []string {
	if len(msgs) > n {
		msgs = msgs[len(msgs)-n:]
	}
	out := make([]string, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, m.Text)
	}
	return out
}

// NeedsFirstGeneration is true for a freshly created project that has not been answered yet.
func (p *Project) NeedsFirstGeneration() bool {
	return len(p.Messages) == 1 && p.Messages[0].Role == RoleUser && p.CurrentCode == ""
}
