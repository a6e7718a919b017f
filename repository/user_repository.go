package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"pricescout/database"
	"pricescout/models"

	"github.com/lib/pq"
)

// ErrUserNotFound means no account exists for the given email.
var ErrUserNotFound = errors.New("user not found")

// ErrEmailTaken means an account already exists for the given email.
var ErrEmailTaken = errors.New("email already in use")

// UserRepository stores user accounts.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a user repository over the shared connection.
func NewUserRepository() *UserRepository {
	return &UserRepository{db: database.DB}
}

// CreateUser inserts a new account.
func (r *UserRepository) CreateUser(user *models.User) error {
	exists, err := r.emailExists(user.Email)
	if err != nil {
		return err
	}
	if exists {
		return ErrEmailTaken
	}

	query := `
		INSERT INTO users (id, email, hashed_password, first_name, last_name)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`
	err = r.db.QueryRow(query, user.ID, user.Email, user.HashedPassword,
		user.FirstName, user.LastName).Scan(&user.CreatedAt)
	if err != nil {
		// a concurrent registration can slip past the pre-check and hit
		// the unique constraint instead
		if isUniqueViolation(err) {
			return ErrEmailTaken
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// isUniqueViolation reports whether err is a Postgres unique-constraint
// violation (code 23505).
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// GetUserByEmail fetches an account by email.
func (r *UserRepository) GetUserByEmail(email string) (*models.User, error) {
	query := `
		SELECT id, email, hashed_password, first_name, last_name, created_at
		FROM users WHERE email = $1`

	var user models.User
	err := r.db.QueryRow(query, email).Scan(&user.ID, &user.Email,
		&user.HashedPassword, &user.FirstName, &user.LastName, &user.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func (r *UserRepository) emailExists(email string) (bool, error) {
	var count int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM users WHERE email = $1`, email).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}
	return count > 0, nil
}
