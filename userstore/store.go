// Package userstore is a gorm-backed account store that satisfies the
// gateway's UserProvider boundary and handles password login.
package userstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/panelkit/authgate"
)

// ErrInvalidCredentials covers both an unknown email and a wrong password,
// so login responses cannot be used to probe which accounts exist.
var ErrInvalidCredentials = errors.New("invalid credentials")

// User is the persisted account row. Password holds a bcrypt hash, never
// plaintext. Token is an opaque per-account value handed back on login.
type User struct {
	ID        int64  `gorm:"primaryKey"`
	Email     string `gorm:"uniqueIndex;size:255"`
	Password  string
	Token     string
	IsAdmin   bool
	IsStaff   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Store wraps a gorm handle. Safe for concurrent use.
type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Migrate creates or updates the users table.
func (s *Store) Migrate() error {
	return s.db.AutoMigrate(&User{})
}

// FindUserByID returns the identity projection for id, or (nil, nil) when
// no such account exists.
func (s *Store) FindUserByID(ctx context.Context, id int64) (*authgate.User, error) {
	var row User
	err := s.db.WithContext(ctx).
		Select("id", "email", "is_admin", "is_staff").
		First(&row, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("find user %d: %w", id, err)
	}
	return &authgate.User{
		ID:      row.ID,
		Email:   row.Email,
		IsAdmin: row.IsAdmin,
		IsStaff: row.IsStaff,
	}, nil
}

// Login verifies email and password and returns the account the gateway
// should issue a credential for. Unknown email and wrong password both
// return [ErrInvalidCredentials].
func (s *Store) Login(ctx context.Context, email, password string) (*authgate.Account, error) {
	var row User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup %q: %w", email, err)
	}
	if bcrypt.CompareHashAndPassword([]byte(row.Password), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return &authgate.Account{
		ID:      row.ID,
		Token:   row.Token,
		IsAdmin: row.IsAdmin,
	}, nil
}

// Create inserts a new account, hashing the password.
func (s *Store) Create(ctx context.Context, user *User, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.Password = string(hash)
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("create user %q: %w", user.Email, err)
	}
	return nil
}
