package domain

import "time"

// Principal identifies a participant. The system has no authenticated
// identity: a principal is whatever display name the client chose, and
// membership/authorship checks compare these strings exactly. Keeping it
// a named type lets a stronger identity scheme replace it later without
// reshaping the data model.
type Principal string

func (p Principal) String() string { return string(p) }

const RoleAdmin = "admin"

// User is an admin-console account. Credentials are stored in plaintext,
// mirroring the trivial check this board has always shipped with.
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Password  string    `json:"-"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func NewUser(username, password, role string) *User {
	return &User{
		ID:        NextID(),
		Username:  username,
		Password:  password,
		Role:      role,
		CreatedAt: time.Now().UTC(),
	}
}
