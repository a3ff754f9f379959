package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore runs each unit of work in a pgx transaction.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore builds a Store backed by the pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// WithinTx commits when fn returns nil and rolls back otherwise.
func (s *PostgresStore) WithinTx(ctx context.Context, fn func(repos Repositories) error) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		return fn(NewRepositories(tx))
	})
}

// NewRepositories binds every repository to db.
func NewRepositories(db DBTX) Repositories {
	return Repositories{
		Members:         NewMemberRepository(db),
		Flags:           NewAccountFlagRepository(db),
		ServiceRequests: NewServiceRequestRepository(db),
		Comments:        NewCommentRepository(db),
		AuditLogs:       NewAuditLogRepository(db),
		Staff:           NewStaffRepository(db),
	}
}
