package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/nextdink/api/internal/database"
	"github.com/nextdink/api/internal/model"
)

// UserRepository handles account data access.
type UserRepository struct {
	db database.Database
}

// NewUserRepository creates a new user repository
func NewUserRepository(db database.Database) *UserRepository {
	return &UserRepository{db: db}
}

// Create creates a new account. A duplicate email surfaces as
// database.ErrDuplicate.
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	query := `CREATE user SET
		email = string::lowercase($email),
		display_name = $display_name,
		photo_url = $photo_url,
		password_hash = $password_hash,
		created_on = time::now(),
		updated_on = time::now()`
	vars := map[string]interface{}{
		"email":         user.Email,
		"display_name":  user.DisplayName,
		"photo_url":     user.PhotoURL,
		"password_hash": user.PasswordHash,
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		if isUniqueConstraintError(err) {
			return fmt.Errorf("%w: email already registered", database.ErrDuplicate)
		}
		return err
	}

	records, ok := extractQueryResults(result)
	if !ok || len(records) == 0 {
		return database.ErrQuery
	}
	created, ok := records[0].(map[string]interface{})
	if !ok {
		return database.ErrQuery
	}

	user.ID = extractRecordID(created["id"])
	user.Email = getString(created, "email")
	user.CreatedOn = getTime(created, "created_on")
	user.UpdatedOn = getTime(created, "updated_on")
	return nil
}

// GetByEmail retrieves an account by email. Returns (nil, nil) when no
// account exists.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT * FROM user WHERE email = string::lowercase($email) LIMIT 1`
	vars := map[string]interface{}{"email": email}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return parseUserResult(result)
}

// Get retrieves an account by ID. Returns (nil, nil) when no account
// exists.
func (r *UserRepository) Get(ctx context.Context, userID string) (*model.User, error) {
	query := `SELECT * FROM type::record($user_id)`
	vars := map[string]interface{}{"user_id": userID}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return parseUserResult(result)
}

// GetByIDs retrieves the accounts for a set of IDs. Missing IDs are
// simply absent from the result, never an error.
func (r *UserRepository) GetByIDs(ctx context.Context, userIDs []string) ([]*model.User, error) {
	if len(userIDs) == 0 {
		return []*model.User{}, nil
	}

	query := `SELECT * FROM user WHERE id IN $user_ids`
	records := make([]interface{}, 0, len(userIDs))
	for _, id := range userIDs {
		records = append(records, id)
	}
	vars := map[string]interface{}{"user_ids": records}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	rows, ok := extractQueryResults(result)
	if !ok {
		return []*model.User{}, nil
	}

	users := make([]*model.User, 0, len(rows))
	for _, row := range rows {
		user, err := parseUserResult(row)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

// SearchByName retrieves accounts whose display name starts with the
// query, case-insensitively, capped at limit.
func (r *UserRepository) SearchByName(ctx context.Context, prefix string, limit int) ([]*model.User, error) {
	query := `SELECT * FROM user
		WHERE string::lowercase(display_name) CONTAINS string::lowercase($prefix)
		ORDER BY display_name ASC
		LIMIT $limit`
	vars := map[string]interface{}{
		"prefix": prefix,
		"limit":  limit,
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	rows, ok := extractQueryResults(result)
	if !ok {
		return []*model.User{}, nil
	}

	users := make([]*model.User, 0, len(rows))
	for _, row := range rows {
		user, err := parseUserResult(row)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

func parseUserResult(result interface{}) (*model.User, error) {
	m, ok := result.(map[string]interface{})
	if !ok {
		return nil, database.ErrQuery
	}

	return &model.User{
		ID:           extractRecordID(m["id"]),
		Email:        getString(m, "email"),
		DisplayName:  getString(m, "display_name"),
		PhotoURL:     getString(m, "photo_url"),
		PasswordHash: getString(m, "password_hash"),
		CreatedOn:    getTime(m, "created_on"),
		UpdatedOn:    getTime(m, "updated_on"),
	}, nil
}
