package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/memberops/memberops-api/internal/domain"
)

var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned when a conditional update matched no row
	// because the entity was no longer in the expected state.
	ErrConflict = errors.New("record state changed")
	// ErrDuplicate is returned when an insert violates a uniqueness constraint.
	ErrDuplicate = errors.New("record already exists")
)

// DBTX is satisfied by *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repositories bundles every entity repository bound to one unit of work.
type Repositories struct {
	Members         MemberRepository
	Flags           AccountFlagRepository
	ServiceRequests ServiceRequestRepository
	Comments        CommentRepository
	AuditLogs       AuditLogRepository
	Staff           StaffRepository
}

// Store opens a unit of work. All reads and writes issued through the
// repositories passed to fn commit together, or not at all when fn fails.
type Store interface {
	WithinTx(ctx context.Context, fn func(repos Repositories) error) error
}

// MemberFilter captures member search parameters.
type MemberFilter struct {
	Search string
	Status *domain.MemberStatus
}

// ServiceRequestFilter captures service request list parameters.
type ServiceRequestFilter struct {
	Status       *domain.ServiceRequestStatus
	Priority     *domain.ServiceRequestPriority
	AssignedToID *int64
	MemberID     *int64
}

// AuditLogFilter captures audit query parameters. Until is exclusive.
type AuditLogFilter struct {
	From     *time.Time
	Until    *time.Time
	MemberID *int64
	Action   *domain.AuditAction
	Actor    string
}

// MemberRepository persists members.
type MemberRepository interface {
	Create(ctx context.Context, member *domain.Member) error
	GetByID(ctx context.Context, id int64) (*domain.Member, error)
	GetByIDs(ctx context.Context, ids []int64) ([]domain.Member, error)
	List(ctx context.Context, filter MemberFilter) ([]domain.Member, error)
	// UpdateStatus moves a member from expected to next, returning ErrConflict
	// when the stored status is not expected.
	UpdateStatus(ctx context.Context, id int64, expected, next domain.MemberStatus) error
	UpdateNotes(ctx context.Context, id int64, notes *string) error
}

// AccountFlagRepository persists account flags.
type AccountFlagRepository interface {
	Create(ctx context.Context, flag *domain.AccountFlag) error
	GetForMember(ctx context.Context, memberID, flagID int64) (*domain.AccountFlag, error)
	ListByMember(ctx context.Context, memberID int64) ([]domain.AccountFlag, error)
	ListByMembers(ctx context.Context, memberIDs []int64) ([]domain.AccountFlag, error)
	// MarkResolved writes the resolution triple only while the flag is open.
	MarkResolved(ctx context.Context, flag *domain.AccountFlag) error
}

// ServiceRequestRepository persists service requests.
type ServiceRequestRepository interface {
	Create(ctx context.Context, sr *domain.ServiceRequest) error
	GetByID(ctx context.Context, id int64) (*domain.ServiceRequest, error)
	List(ctx context.Context, filter ServiceRequestFilter) ([]domain.ServiceRequest, error)
	Update(ctx context.Context, sr *domain.ServiceRequest) error
	// MarkResolved writes the resolution fields only while the request is not Resolved.
	MarkResolved(ctx context.Context, sr *domain.ServiceRequest) error
}

// CommentRepository persists service request comments.
type CommentRepository interface {
	Create(ctx context.Context, comment *domain.ServiceRequestComment) error
	ListByRequest(ctx context.Context, requestID int64) ([]domain.ServiceRequestComment, error)
}

// AuditLogRepository appends and queries audit entries.
type AuditLogRepository interface {
	Create(ctx context.Context, entry *domain.AuditLog) error
	List(ctx context.Context, filter AuditLogFilter) ([]domain.AuditLog, error)
}

// StaffRepository handles persistence for staff.
type StaffRepository interface {
	Create(ctx context.Context, staff *domain.Staff) error
	GetByID(ctx context.Context, id int64) (*domain.Staff, error)
	GetByIDs(ctx context.Context, ids []int64) ([]domain.Staff, error)
	GetByUsername(ctx context.Context, username string) (*domain.Staff, error)
	List(ctx context.Context) ([]domain.Staff, error)
}

func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func translateWriteErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrDuplicate
	}
	return err
}
