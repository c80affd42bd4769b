package resolver

import (
	"time"

	domain "user-directory-service/internal/domain/user"
)

// Kind distinguishes read-only queries from mutations.
type Kind string

const (
	KindQuery    Kind = "query"
	KindMutation Kind = "mutation"
)

// Request names one operation and its arguments.
type Request struct {
	Operation string         `json:"operation"`
	Arguments map[string]any `json:"arguments,omitempty"`
}

// ErrorEntry is the client-facing error envelope.
type ErrorEntry struct {
	Category string   `json:"category"`
	Message  string   `json:"message"`
	Path     []string `json:"path"`
}

// Response carries the operation result under its name. Errors holds at most one entry.
type Response struct {
	Data   map[string]any `json:"data"`
	Errors []ErrorEntry   `json:"errors,omitempty"`
}

// TimestampLayout is the wire format of user timestamps.
const TimestampLayout = "2006-01-02T15:04:05"

// UserView is the wire shape of a user.
type UserView struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	Phone     *string `json:"phone"`
	Address   *string `json:"address"`
	CreatedAt string  `json:"createdAt"`
	UpdatedAt string  `json:"updatedAt"`
}

func formatTime(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// NewUserView converts a domain user to its wire shape.
func NewUserView(u *domain.User) *UserView {
	if u == nil {
		return nil
	}
	return &UserView{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Phone:     u.Phone,
		Address:   u.Address,
		CreatedAt: formatTime(u.CreatedAt),
		UpdatedAt: formatTime(u.UpdatedAt),
	}
}

// NewUserViews converts a list; the result is never nil.
func NewUserViews(users []domain.User) []UserView {
	views := make([]UserView, len(users))
	for i := range users {
		views[i] = *NewUserView(&users[i])
	}
	return views
}
