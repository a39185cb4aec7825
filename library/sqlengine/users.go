package sqlengine

import (
	"context"
	"time"

	"github.com/doug-martin/goqu/v9"

	"github.com/AntonStoeckl/library-circulation-api/library"
	"github.com/AntonStoeckl/library-circulation-api/library/sqlengine/internal/adapters"
)

const (
	operationInsertUser = "insert_user"
	operationListUsers  = "list_users"
)

// NewUser carries the columns of a user row to be inserted.
type NewUser struct {
	FirstName string
	LastName  string
	Email     string
	PassHash  string
	CreatedAt time.Time
}

// InsertUser stores a new user and returns its id.
func (s Session) InsertUser(ctx context.Context, user NewUser) (int64, error) {
	var id int64

	err := s.store.observe(ctx, operationInsertUser, func(ctx context.Context) error {
		ds := s.store.dialect.Insert(tableUsers).Rows(goqu.Record{
			"first_name": user.FirstName,
			"last_name":  user.LastName,
			"email":      user.Email,
			"pass_hash":  user.PassHash,
			"created_at": user.CreatedAt.UTC(),
		})

		var err error
		id, err = s.insertReturningID(ctx, operationInsertUser, ds)

		return err
	})

	return id, err
}

// ListUsers returns all users ordered by id.
func (s Session) ListUsers(ctx context.Context) ([]library.User, error) {
	users := make([]library.User, 0)

	err := s.store.observe(ctx, operationListUsers, func(ctx context.Context) error {
		ds := s.store.dialect.From(tableUsers).
			Select("id", "first_name", "last_name", "email", "created_at").
			Order(goqu.C("id").Asc()).
			Prepared(true)

		sqlQuery, args, err := s.build(ctx, operationListUsers, ds)
		if err != nil {
			return err
		}

		return s.queryRows(ctx, operationListUsers, sqlQuery, args, func(rows adapters.DBRows) error {
			var user library.User
			if scanErr := rows.Scan(&user.ID, &user.FirstName, &user.LastName, &user.Email, &user.CreatedAt); scanErr != nil {
				return scanErr
			}

			user.CreatedAt = normalizeTime(user.CreatedAt)
			users = append(users, user)

			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return users, nil
}
