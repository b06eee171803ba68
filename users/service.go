package users

import (
	"context"
	"strings"

	"github.com/MiladArbabi/aurora-baby-mvp/log"
	"github.com/MiladArbabi/aurora-baby-mvp/store"

	"github.com/badoux/checkmail"
	"github.com/jinzhu/gorm"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrAllFieldsRequired  = errors.New("All fields required")
	ErrInvalidEmail       = errors.New("invalid email")
	ErrEmailExists        = errors.New("Email already exists")
	ErrMissingCredentials = errors.New("Email and password required")
	ErrInvalidCredentials = errors.New("Invalid credentials")
	ErrNameRequired       = errors.New("Name is required")
)

// dummyPassword backs the rows created through POST /users, a fixture
// endpoint kept for the front-end tests.
const dummyPassword = "dummy123"

type Service interface {
	Register(ctx context.Context, request RegisterRequest) (string, error)
	Login(ctx context.Context, request LoginRequest) (string, error)
	AddUser(ctx context.Context, request AddUserRequest) (store.User, error)
	ListUsers(ctx context.Context) ([]store.User, error)
}

type UserService struct {
	Store interface {
		AddUser(tx *gorm.DB, user store.User) (store.User, error)
		GetUserByEmail(tx *gorm.DB, email string) (store.User, error)
		ListUsers(tx *gorm.DB) ([]store.User, error)
	} `inject:""`
	Tokens interface {
		Mint(userId string) (string, error)
	} `inject:""`
	Logger *log.Logger `inject:""`
}

func (s *UserService) Register(ctx context.Context, request RegisterRequest) (string, error) {
	if request.Name == "" || request.Email == "" || request.Password == "" {
		return "", ErrAllFieldsRequired
	}
	if err := checkmail.ValidateFormat(request.Email); err != nil {
		return "", ErrInvalidEmail
	}

	// exact-match uniqueness, the email is stored as given
	_, err := s.Store.GetUserByEmail(nil, request.Email)
	if err == nil {
		return "", ErrEmailExists
	}
	if errors.Cause(err) != store.ErrUserNotFound {
		return "", errors.Wrap(err, "failed to check email")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(request.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", errors.Wrap(err, "failed to hash password")
	}

	user, err := s.Store.AddUser(nil, store.User{
		Name:         store.DbNullString(&request.Name),
		Email:        store.DbNullString(&request.Email),
		PasswordHash: store.DbNullString(strPtr(string(hash))),
	})
	if err != nil {
		return "", errors.Wrap(err, "failed to create user")
	}

	s.Logger.Info(ctx, "registered new user", "email", request.Email)
	return s.Tokens.Mint(user.UserId.String)
}

func (s *UserService) Login(ctx context.Context, request LoginRequest) (string, error) {
	if request.Email == "" || request.Password == "" {
		return "", ErrMissingCredentials
	}

	// unknown email and wrong password must stay indistinguishable
	user, err := s.Store.GetUserByEmail(nil, request.Email)
	if err != nil {
		if errors.Cause(err) == store.ErrUserNotFound {
			return "", ErrInvalidCredentials
		}
		return "", errors.Wrap(err, "failed to look up user")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash.String), []byte(request.Password)); err != nil {
		return "", ErrInvalidCredentials
	}

	return s.Tokens.Mint(user.UserId.String)
}

func (s *UserService) AddUser(ctx context.Context, request AddUserRequest) (store.User, error) {
	if request.Name == "" {
		return store.User{}, ErrNameRequired
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dummyPassword), bcrypt.DefaultCost)
	if err != nil {
		return store.User{}, errors.Wrap(err, "failed to hash password")
	}

	email := strings.ToLower(request.Name) + "@example.com"
	user, err := s.Store.AddUser(nil, store.User{
		Name:         store.DbNullString(&request.Name),
		Email:        store.DbNullString(&email),
		PasswordHash: store.DbNullString(strPtr(string(hash))),
	})
	if err != nil {
		return store.User{}, errors.Wrap(err, "failed to create user")
	}
	return user, nil
}

func (s *UserService) ListUsers(ctx context.Context) ([]store.User, error) {
	users, err := s.Store.ListUsers(nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list users")
	}
	return users, nil
}

func strPtr(s string) *string {
	return &s
}
