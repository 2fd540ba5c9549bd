package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/Sepehr-khosravi/mazeh-backend/internal/apperr"
	identitydomain "github.com/Sepehr-khosravi/mazeh-backend/internal/identity/domain"
	"github.com/Sepehr-khosravi/mazeh-backend/internal/security"
	userdomain "github.com/Sepehr-khosravi/mazeh-backend/internal/user/domain"
)

// Client-facing messages.
const (
	MsgIdentifierRequired = "at least you must have one of these information as a user (email, username)"
	MsgUserNotFound       = "User not found"
	MsgInvalidCredentials = "Invalid credentials"
	MsgUserExists         = "User already exists"
	MsgPasswordTooShort   = "password must be longer than or equal to 8 characters"
	MsgPasswordTooLong    = "password must be shorter than or equal to 72 bytes"
	MsgInvalidEmail       = "email must be an email"
)

// Password length bounds, in bytes, applied at register and login. bcrypt
// rejects longer inputs when hashing and truncates them when comparing.
const (
	MinPasswordLength = 8
	MaxPasswordLength = 72
)

// UserRepo is the minimal User Directory needed by the auth service.
type UserRepo interface {
	FindByEmailOrUsername(ctx context.Context, email, username string) (*userdomain.User, error)
	Create(ctx context.Context, u *userdomain.User) error
}

// PasswordHasher hashes and verifies passwords. *security.Hasher satisfies it.
type PasswordHasher interface {
	Hash(password []byte) (string, error)
	Verify(hash string, password []byte) (bool, error)
}

// TokenIssuer mints bearer tokens. *security.TokenProvider satisfies it.
type TokenIssuer interface {
	Issue(c security.Claims) (string, time.Time, error)
}

// AuthService implements register, login and the verify identity echo.
type AuthService struct {
	users  UserRepo
	hasher PasswordHasher
	tokens TokenIssuer
}

// NewAuthService returns an AuthService with the given dependencies.
func NewAuthService(users UserRepo, hasher PasswordHasher, tokens TokenIssuer) *AuthService {
	return &AuthService{users: users, hasher: hasher, tokens: tokens}
}

// Login finds the user by email or username, checks the password and issues a token.
// Unknown user is ErrNotFound, wrong password is ErrInvalidCredentials, anything
// else is ErrInternal.
func (s *AuthService) Login(ctx context.Context, creds identitydomain.Credentials) (*identitydomain.AuthData, error) {
	creds = normalize(creds)
	if err := validate(creds); err != nil {
		return nil, err
	}
	u, err := s.users.FindByEmailOrUsername(ctx, creds.Email, creds.Username)
	if err != nil {
		return nil, apperr.Internal("AUTH_LOGIN_LOOKUP", err)
	}
	if u == nil {
		return nil, apperr.New(apperr.ErrNotFound, MsgUserNotFound)
	}
	ok, err := s.hasher.Verify(u.PasswordHash, []byte(creds.Password))
	if err != nil {
		return nil, apperr.Internal("AUTH_LOGIN_VERIFY", err, "user_id", u.ID)
	}
	if !ok {
		return nil, apperr.New(apperr.ErrInvalidCredentials, MsgInvalidCredentials)
	}
	return s.issue(u)
}

// Register creates the user and issues a token. An identifier already in use
// is ErrAlreadyExists, whether found by the precheck or by the store constraint.
func (s *AuthService) Register(ctx context.Context, creds identitydomain.Credentials) (*identitydomain.AuthData, error) {
	creds = normalize(creds)
	if err := validate(creds); err != nil {
		return nil, err
	}
	existing, err := s.users.FindByEmailOrUsername(ctx, creds.Email, creds.Username)
	if err != nil {
		return nil, apperr.Internal("AUTH_REGISTER_LOOKUP", err)
	}
	if existing != nil {
		return nil, apperr.New(apperr.ErrAlreadyExists, MsgUserExists)
	}
	hash, err := s.hasher.Hash([]byte(creds.Password))
	if err != nil {
		return nil, apperr.Internal("AUTH_REGISTER_HASH", err)
	}
	u := &userdomain.User{
		Username:     creds.Username,
		Email:        creds.Email,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, userdomain.ErrDuplicate) {
			return nil, apperr.New(apperr.ErrAlreadyExists, MsgUserExists)
		}
		return nil, apperr.Internal("AUTH_REGISTER_CREATE", err)
	}
	return s.issue(u)
}

// VerifyTokens echoes the identity the guard attached. It does no I/O.
// The username-only branch carries the id like the others.
func (s *AuthService) VerifyTokens(id identitydomain.Identity) (*identitydomain.VerifyData, error) {
	switch {
	case id.Email != "" && id.Username != "":
		return &identitydomain.VerifyData{ID: id.ID, Email: id.Email, Username: id.Username}, nil
	case id.Email != "":
		return &identitydomain.VerifyData{ID: id.ID, Email: id.Email}, nil
	case id.Username != "":
		return &identitydomain.VerifyData{ID: id.ID, Username: id.Username}, nil
	default:
		return nil, apperr.New(apperr.ErrInvalidInput, MsgIdentifierRequired)
	}
}

func (s *AuthService) issue(u *userdomain.User) (*identitydomain.AuthData, error) {
	token, _, err := s.tokens.Issue(security.Claims{ID: u.ID, Email: u.Email, Username: u.Username})
	if err != nil {
		return nil, apperr.Internal("AUTH_TOKEN_SIGN", err, "user_id", u.ID)
	}
	return &identitydomain.AuthData{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Token:    token,
	}, nil
}

func normalize(c identitydomain.Credentials) identitydomain.Credentials {
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	c.Username = strings.TrimSpace(c.Username)
	return c
}

func validate(c identitydomain.Credentials) error {
	if c.Email == "" && c.Username == "" {
		return apperr.New(apperr.ErrInvalidInput, MsgIdentifierRequired)
	}
	if c.Email != "" && !emailPattern.MatchString(c.Email) {
		return apperr.New(apperr.ErrInvalidInput, MsgInvalidEmail)
	}
	if len(c.Password) < MinPasswordLength {
		return apperr.New(apperr.ErrInvalidInput, MsgPasswordTooShort)
	}
	if len(c.Password) > MaxPasswordLength {
		return apperr.New(apperr.ErrInvalidInput, MsgPasswordTooLong)
	}
	return nil
}

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
