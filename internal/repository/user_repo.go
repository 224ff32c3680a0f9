package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/eunrcn/cs4218-2420-ecom-project-team48-sub000/internal/domain"
)

type postgresUserRepository struct {
	db  *sql.DB
	log *logrus.Logger
}

func NewPostgresUserRepository(db *sql.DB, logger *logrus.Logger) domain.UserRepository {
	return &postgresUserRepository{
		db:  db,
		log: logger,
	}
}

const userColumns = `id, name, email, password_hash, phone, address, security_answer_hash, role, created_at, updated_at`

func (r *postgresUserRepository) CreateUser(user *domain.User) (*domain.User, error) {
	query := `
        INSERT INTO users (name, email, password_hash, phone, address, security_answer_hash, role)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(query,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Phone,
		user.Address,
		user.SecurityAnswerHash,
		user.Role,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			r.log.Warnf("Attempted to create user with duplicate email: %s", user.Email)
			return nil, fmt.Errorf("user with email '%s' already exists", user.Email)
		}
		r.log.Errorf("Failed to create user '%s': %v", user.Email, err)
		return nil, fmt.Errorf("could not create user: %w", err)
	}

	r.log.Infof("User created with ID: %d, Email: %s", user.ID, user.Email)
	return user, nil
}

func (r *postgresUserRepository) GetUserByEmail(email string) (*domain.User, error) {
	// Email uniqueness and lookup are case-sensitive at this layer.
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.scanUser(r.db.QueryRow(query, email), fmt.Sprintf("user with email %s not found", email))
}

func (r *postgresUserRepository) GetUserByID(id int) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanUser(r.db.QueryRow(query, id), fmt.Sprintf("user with id %d not found", id))
}

func (r *postgresUserRepository) UpdateUser(id int, updates map[string]interface{}) (*domain.User, error) {
	if len(updates) == 0 {
		return r.GetUserByID(id)
	}

	setClauses := []string{}
	args := []interface{}{}
	argCounter := 1

	for key, value := range updates {
		switch key {
		case "name", "password_hash", "phone", "address":
			setClauses = append(setClauses, fmt.Sprintf("%s = $%d", key, argCounter))
			args = append(args, value)
			argCounter++
		default:
			r.log.Warnf("Skipping unknown field '%s' in user update for ID %d", key, id)
		}
	}

	if len(setClauses) == 0 {
		return r.GetUserByID(id)
	}

	setClauses = append(setClauses, "updated_at = NOW()")
	query := "UPDATE users SET " + strings.Join(setClauses, ", ") + fmt.Sprintf(" WHERE id = $%d", argCounter)
	args = append(args, id)

	result, err := r.db.Exec(query, args...)
	if err != nil {
		r.log.Errorf("Failed to update user ID %d: %v", id, err)
		return nil, fmt.Errorf("could not update user: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		r.log.Errorf("Failed to get rows affected after updating user ID %d: %v", id, err)
		return nil, fmt.Errorf("could not confirm user update: %w", err)
	}
	if rowsAffected == 0 {
		r.log.Warnf("User with ID %d not found for update", id)
		return nil, fmt.Errorf("user with id %d not found for update", id)
	}

	r.log.Infof("User updated with ID: %d", id)
	return r.GetUserByID(id)
}

func (r *postgresUserRepository) ListUsers() ([]domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC`
	rows, err := r.db.Query(query)
	if err != nil {
		r.log.Errorf("Failed to list users: %v", err)
		return nil, fmt.Errorf("could not list users: %w", err)
	}
	defer rows.Close()

	users := []domain.User{}
	for rows.Next() {
		var user domain.User
		if err := rows.Scan(
			&user.ID,
			&user.Name,
			&user.Email,
			&user.PasswordHash,
			&user.Phone,
			&user.Address,
			&user.SecurityAnswerHash,
			&user.Role,
			&user.CreatedAt,
			&user.UpdatedAt,
		); err != nil {
			r.log.Errorf("Failed to scan user row: %v", err)
			return nil, fmt.Errorf("error scanning user data: %w", err)
		}
		users = append(users, user)
	}
	if err = rows.Err(); err != nil {
		r.log.Errorf("Error during users iteration: %v", err)
		return nil, fmt.Errorf("error iterating users: %w", err)
	}

	return users, nil
}

func (r *postgresUserRepository) scanUser(row *sql.Row, notFoundMsg string) (*domain.User, error) {
	user := &domain.User{}
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Phone,
		&user.Address,
		&user.SecurityAnswerHash,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("Repository: %s", notFoundMsg)
			return nil, errors.New(notFoundMsg)
		}
		r.log.Errorf("Failed to get user: %v", err)
		return nil, fmt.Errorf("could not get user: %w", err)
	}
	return user, nil
}
