package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/unify-api/internal/models"
)

const userColumns = `id, username, email, password_hash, created_at`

// UserRepository provides database access for accounts and their profiles.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByUsernameOrEmail returns a user matching the identifier on username or email.
func (r *UserRepository) FindByUsernameOrEmail(ctx context.Context, identifier string) (*models.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE username = $1 OR email = $1 LIMIT 1`
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, identifier); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find user by identifier: %w", err)
	}
	return &user, nil
}

// FindByID returns a user by identifier.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE id = $1 LIMIT 1`
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return &user, nil
}

// ExistsByUsernameOrEmail reports whether either value is already taken.
func (r *UserRepository) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM users WHERE username = $1 OR email = $2)`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, username, email); err != nil {
		return false, fmt.Errorf("check user existence: %w", err)
	}
	return exists, nil
}

// CreateWithProfile inserts the user and at most one profile in a single transaction.
func (r *UserRepository) CreateWithProfile(ctx context.Context, user *models.User, student *models.Student, professor *models.Professor) (err error) {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin user transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const userQuery = `INSERT INTO users (id, username, email, password_hash, created_at) VALUES (:id, :username, :email, :password_hash, :created_at)`
	if _, err = tx.NamedExecContext(ctx, userQuery, user); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("create user: %w", err)
	}

	if student != nil {
		if student.ID == "" {
			student.ID = uuid.NewString()
		}
		student.UserID = user.ID
		const studentQuery = `INSERT INTO students (id, user_id, first_name, last_name, matricule) VALUES (:id, :user_id, :first_name, :last_name, :matricule)`
		if _, err = tx.NamedExecContext(ctx, studentQuery, student); err != nil {
			if isUniqueViolation(err) {
				return ErrDuplicate
			}
			return fmt.Errorf("create student profile: %w", err)
		}
	}

	if professor != nil {
		if professor.ID == "" {
			professor.ID = uuid.NewString()
		}
		professor.UserID = user.ID
		const professorQuery = `INSERT INTO professors (id, user_id, first_name, last_name, department) VALUES (:id, :user_id, :first_name, :last_name, :department)`
		if _, err = tx.NamedExecContext(ctx, professorQuery, professor); err != nil {
			return fmt.Errorf("create professor profile: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit user: %w", err)
	}
	return nil
}

// FindStudentByUserID returns the student profile of a user.
func (r *UserRepository) FindStudentByUserID(ctx context.Context, userID string) (*models.Student, error) {
	const query = `SELECT id, user_id, first_name, last_name, matricule FROM students WHERE user_id = $1 LIMIT 1`
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, userID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find student profile: %w", err)
	}
	return &student, nil
}

// FindProfessorByUserID returns the professor profile of a user.
func (r *UserRepository) FindProfessorByUserID(ctx context.Context, userID string) (*models.Professor, error) {
	const query = `SELECT id, user_id, first_name, last_name, department FROM professors WHERE user_id = $1 LIMIT 1`
	var professor models.Professor
	if err := r.db.GetContext(ctx, &professor, query, userID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find professor profile: %w", err)
	}
	return &professor, nil
}
