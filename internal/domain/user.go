package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// User-specific validation errors
var (
	ErrEmptyUserID         = errors.New("user ID cannot be empty")
	ErrEmptyName           = errors.New("name cannot be empty")
	ErrEmptyEmail          = errors.New("email cannot be empty")
	ErrInvalidEmail        = errors.New("invalid email format")
	ErrNegativeAge         = errors.New("age must be a positive number")
	ErrPasswordTooShort    = errors.New("password must be at least 7 characters long")
	ErrPasswordForbidden   = errors.New("password must not contain the word \"password\"")
	ErrEmptyPassword       = errors.New("password cannot be empty")
	ErrEmptyHashedPassword = errors.New("hashed password cannot be empty")
)

// MinPasswordLength is the minimum accepted plaintext password length.
const MinPasswordLength = 7

// User represents a registered account.
//
// Password holds the plaintext only transiently during registration or a
// password update; it is never persisted. HashedPassword, Avatar and the
// user's session tokens are never part of the external representation
// (see api.UserResponse for the explicit serialization boundary).
type User struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Age            int       `json:"age"`
	Password       string    `json:"-"`
	HashedPassword string    `json:"-"`
	Avatar         []byte    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewUser creates a new User with the given profile fields and plaintext
// password. Name and email are normalized (trimmed, email lowercased) before
// validation. Returns an error if validation fails.
//
// NOTE: the returned user still carries the plaintext password. The caller is
// responsible for hashing it before the user is stored.
func NewUser(name, email string, age int, password string) (*User, error) {
	user := &User{
		ID:        uuid.New(),
		Name:      strings.TrimSpace(name),
		Email:     NormalizeEmail(email),
		Age:       age,
		Password:  strings.TrimSpace(password),
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// NormalizeEmail trims surrounding whitespace and lowercases an email address.
// Applied before every store lookup so that equality matches the stored form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Validate checks if the User has valid data.
// Returns an error wrapping ErrValidation if any field fails validation.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return fmt.Errorf("%w: %w", ErrValidation, ErrEmptyUserID)
	}

	if strings.TrimSpace(u.Name) == "" {
		return fmt.Errorf("%w: %w", ErrValidation, ErrEmptyName)
	}

	if u.Email == "" {
		return fmt.Errorf("%w: %w", ErrValidation, ErrEmptyEmail)
	}
	if !validEmailFormat(u.Email) {
		return fmt.Errorf("%w: %w", ErrValidation, ErrInvalidEmail)
	}

	if u.Age < 0 {
		return fmt.Errorf("%w: %w", ErrValidation, ErrNegativeAge)
	}

	if u.Password != "" {
		if err := ValidatePassword(u.Password); err != nil {
			return err
		}
	} else if u.HashedPassword == "" {
		// Users loaded from the store have no plaintext; they must carry a hash.
		return fmt.Errorf("%w: %w", ErrValidation, ErrEmptyPassword)
	}

	return nil
}

// ValidatePassword checks a plaintext password against the account rules:
// minimum length and the ban on the literal substring "password" in any case.
func ValidatePassword(password string) error {
	if password == "" {
		return fmt.Errorf("%w: %w", ErrValidation, ErrEmptyPassword)
	}
	if len(password) < MinPasswordLength {
		return fmt.Errorf("%w: %w", ErrValidation, ErrPasswordTooShort)
	}
	if strings.Contains(strings.ToLower(password), "password") {
		return fmt.Errorf("%w: %w", ErrValidation, ErrPasswordForbidden)
	}
	return nil
}

// validEmailFormat performs basic validation of email format: a single local
// part, an @, and a dotted domain. The API layer additionally validates emails
// with go-playground/validator; this guards entities constructed in code.
func validEmailFormat(email string) bool {
	at := strings.IndexByte(email, '@')
	if at <= 0 || at == len(email)-1 {
		return false
	}

	domain := email[at+1:]
	if strings.ContainsAny(domain, "@ ") {
		return false
	}

	dot := strings.IndexByte(domain, '.')
	return dot > 0 && dot < len(domain)-1
}
