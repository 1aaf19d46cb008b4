package services

import (
	"errors"

	"menuboard/internal/domain"
	"menuboard/internal/repos"

	"golang.org/x/crypto/bcrypt"
)

var ErrBadCreds = errors.New("invalid email or password")

type Credentials struct {
	Email    string
	Password string
}

type AuthService struct {
	Users *repos.UserRepo
}

// Authenticate checks the credentials and binds the browser session to the user.
func (s *AuthService) Authenticate(sid string, cred Credentials) (*domain.Session, error) {
	u, err := s.Users.ByEmail(cred.Email)
	if err != nil {
		return nil, ErrBadCreds
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(cred.Password)) != nil {
		return nil, ErrBadCreds
	}
	if err := s.Users.BindSession(sid, u.ID); err != nil {
		return nil, err
	}
	return &domain.Session{ID: sid, User: *u}, nil
}

func (s *AuthService) Logout(sid string) error {
	return s.Users.UnbindSession(sid)
}

// Session returns the signed-in session for sid, or repos.ErrNotFound.
func (s *AuthService) Session(sid string) (*domain.Session, error) {
	u, err := s.Users.SessionUser(sid)
	if err != nil {
		return nil, err
	}
	return &domain.Session{ID: sid, User: *u}, nil
}
