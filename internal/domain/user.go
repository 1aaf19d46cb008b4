package domain

type User struct {
	ID    string `db:"id"`
	Email string `db:"email"`
	Name  string `db:"name"`
	Hash  string `db:"password_hash"`
	Role  string `db:"role"`
}

const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"
)

// Session binds a browser session id to an authenticated user.
type Session struct {
	ID   string
	User User
}

func (s *Session) IsAdmin() bool { return s != nil && s.User.Role == RoleAdmin }
