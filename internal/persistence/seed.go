package persistence

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/memberops/memberops-api/internal/auth"
	"github.com/memberops/memberops-api/internal/domain"
	"github.com/memberops/memberops-api/internal/repository"
)

type seedStaff struct {
	username, password, displayName, email string
	role                                   domain.Role
}

var demoStaff = []seedStaff{
	{"admin", "Admin123!", "Admin User", "admin@memberops.local", domain.RoleAdmin},
	{"supervisor", "Super123!", "Sarah Supervisor", "supervisor@memberops.local", domain.RoleSupervisor},
	{"staff", "Staff123!", "Sam Staff", "staff@memberops.local", domain.RoleStaff},
}

// Seed loads the demo data set when no staff exist yet. It reports whether
// anything was written.
func Seed(ctx context.Context, store repository.Store, bcryptCost int, logger *zap.Logger) (bool, error) {
	now := time.Now().UTC()
	seeded := false

	err := store.WithinTx(ctx, func(repos repository.Repositories) error {
		existing, err := repos.Staff.List(ctx)
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			return nil
		}

		staff := make(map[string]*domain.Staff, len(demoStaff))
		for _, s := range demoStaff {
			hash, err := auth.HashPassword(s.password, bcryptCost)
			if err != nil {
				return fmt.Errorf("hash password for %s: %w", s.username, err)
			}
			record := &domain.Staff{
				Username:     s.username,
				PasswordHash: hash,
				DisplayName:  s.displayName,
				Email:        s.email,
				Role:         s.role,
				CreatedAt:    now,
			}
			if err := repos.Staff.Create(ctx, record); err != nil {
				return fmt.Errorf("seed staff %s: %w", s.username, err)
			}
			staff[s.username] = record
		}

		members := demoMembers(now)
		for i := range members {
			if err := repos.Members.Create(ctx, &members[i]); err != nil {
				return fmt.Errorf("seed member %s: %w", members[i].MemberNumber, err)
			}
		}

		for _, flag := range demoFlags(now, members) {
			if err := repos.Flags.Create(ctx, &flag); err != nil {
				return fmt.Errorf("seed flag: %w", err)
			}
			if flag.ResolvedAt != nil {
				if err := repos.Flags.MarkResolved(ctx, &flag); err != nil {
					return fmt.Errorf("seed flag resolution: %w", err)
				}
			}
		}

		for _, sr := range demoRequests(now, members, staff) {
			final := sr.Status
			if final == domain.ServiceRequestStatusResolved {
				sr.Status = domain.ServiceRequestStatusInProgress
			}
			if err := repos.ServiceRequests.Create(ctx, &sr); err != nil {
				return fmt.Errorf("seed service request: %w", err)
			}
			if final == domain.ServiceRequestStatusResolved {
				sr.Status = final
				if err := repos.ServiceRequests.MarkResolved(ctx, &sr); err != nil {
					return fmt.Errorf("seed service request resolution: %w", err)
				}
			}
		}

		for _, entry := range demoAudit(now, members) {
			if err := repos.AuditLogs.Create(ctx, &entry); err != nil {
				return fmt.Errorf("seed audit log: %w", err)
			}
		}

		seeded = true
		return nil
	})
	if err != nil {
		return false, err
	}

	if seeded {
		logger.Info("demo data seeded", zap.Int("staff", len(demoStaff)))
	} else {
		logger.Info("staff already present; skipping seed")
	}
	return seeded, nil
}

func demoMembers(now time.Time) []domain.Member {
	notes := func(s string) *string { return &s }
	return []domain.Member{
		{MemberNumber: "M-100001", FirstName: "John", LastName: "Doe", Email: "john.doe@email.com", Phone: "519-555-0101", Status: domain.MemberStatusActive, JoinDate: now.AddDate(-5, 0, 0)},
		{MemberNumber: "M-100002", FirstName: "Jane", LastName: "Smith", Email: "jane.smith@email.com", Phone: "519-555-0102", Status: domain.MemberStatusActive, JoinDate: now.AddDate(-3, 0, 0), Notes: notes("Preferred contact method: email")},
		{MemberNumber: "M-100003", FirstName: "Robert", LastName: "Johnson", Email: "robert.j@email.com", Phone: "519-555-0103", Status: domain.MemberStatusLocked, JoinDate: now.AddDate(-2, 0, 0), Notes: notes("Account locked pending ID verification")},
		{MemberNumber: "M-100004", FirstName: "Emily", LastName: "Davis", Email: "emily.davis@email.com", Phone: "519-555-0104", Status: domain.MemberStatusActive, JoinDate: now.AddDate(-1, 0, 0)},
		{MemberNumber: "M-100005", FirstName: "Michael", LastName: "Wilson", Email: "m.wilson@email.com", Phone: "519-555-0105", Status: domain.MemberStatusActive, JoinDate: now.AddDate(0, -6, 0)},
		{MemberNumber: "M-100006", FirstName: "Sarah", LastName: "Brown", Email: "sarah.brown@email.com", Phone: "519-555-0106", Status: domain.MemberStatusClosed, JoinDate: now.AddDate(-4, 0, 0), Notes: notes("Account closed at member request")},
		{MemberNumber: "M-100007", FirstName: "David", LastName: "Martinez", Email: "david.m@email.com", Phone: "519-555-0107", Status: domain.MemberStatusActive, JoinDate: now.AddDate(-7, 0, 0)},
		{MemberNumber: "M-100008", FirstName: "Lisa", LastName: "Anderson", Email: "lisa.anderson@email.com", Phone: "519-555-0108", Status: domain.MemberStatusActive, JoinDate: now.AddDate(0, -3, 0)},
	}
}

func demoFlags(now time.Time, members []domain.Member) []domain.AccountFlag {
	resolvedBy := "supervisor"
	resolvedAt := now.Add(-2 * time.Hour)
	resolution := "Payment received, flag resolved"
	return []domain.AccountFlag{
		{MemberID: members[2].ID, FlagType: domain.FlagTypeIDVerification, Description: "Driver's license expired, needs updated ID", CreatedBy: "supervisor", CreatedAt: now.AddDate(0, 0, -5)},
		{MemberID: members[1].ID, FlagType: domain.FlagTypeGeneralReview, Description: "Requested credit limit increase review", CreatedBy: "staff", CreatedAt: now.AddDate(0, 0, -2)},
		{MemberID: members[6].ID, FlagType: domain.FlagTypePaymentIssue, Description: "Missed payment - contacted member", CreatedBy: "staff", CreatedAt: now.AddDate(0, 0, -1),
			ResolvedBy: &resolvedBy, ResolvedAt: &resolvedAt, ResolutionNotes: &resolution},
	}
}

func demoRequests(now time.Time, members []domain.Member, staff map[string]*domain.Staff) []domain.ServiceRequest {
	resolutionType := domain.ResolutionResolved
	resolvedAt := now.AddDate(0, 0, -6)
	supervisorID := staff["supervisor"].ID
	staffID := staff["staff"].ID

	request := func(member domain.Member, requestType, description string, status domain.ServiceRequestStatus, createdAt time.Time) domain.ServiceRequest {
		return domain.ServiceRequest{
			MemberID:    member.ID,
			RequestType: requestType,
			Description: description,
			Status:      status,
			Priority:    domain.PriorityMedium,
			CreatedByID: staffID,
			CreatedAt:   createdAt,
			UpdatedAt:   createdAt,
		}
	}

	inProgress := request(members[0], "CardReplacement", "Lost card, needs replacement", domain.ServiceRequestStatusInProgress, now.AddDate(0, 0, -3))
	inProgress.AssignedToID = &staffID

	resolved := request(members[1], "AddressChange", "Moving to new address, update records", domain.ServiceRequestStatusResolved, now.AddDate(0, 0, -7))
	resolved.ResolutionType = &resolutionType
	resolved.ResolvedAt = &resolvedAt
	resolved.ResolvedByID = &supervisorID
	resolved.UpdatedAt = resolvedAt

	question := request(members[4], "Question", "Question about overdraft protection options", domain.ServiceRequestStatusNew, now.Add(-4*time.Hour))
	question.Priority = domain.PriorityLow

	return []domain.ServiceRequest{
		inProgress,
		request(members[3], "StatementRequest", "Needs last 6 months statements for tax purposes", domain.ServiceRequestStatusNew, now.AddDate(0, 0, -1)),
		resolved,
		question,
	}
}

func demoAudit(now time.Time, members []domain.Member) []domain.AuditLog {
	details := func(s string) *string { return &s }
	return []domain.AuditLog{
		{MemberID: members[2].ID, Actor: "supervisor", Action: domain.AuditAccountLocked, Details: details("Account locked due to ID verification requirement"), Timestamp: now.AddDate(0, 0, -5)},
		{MemberID: members[2].ID, Actor: "supervisor", Action: domain.AuditFlagCreated, Details: details("Flag Type: IDVerification"), Timestamp: now.AddDate(0, 0, -5)},
		{MemberID: members[1].ID, Actor: "supervisor", Action: domain.AuditNotesUpdated, Details: details("Added preferred contact method"), Timestamp: now.AddDate(0, 0, -10)},
		{MemberID: members[6].ID, Actor: "supervisor", Action: domain.AuditFlagResolved, Details: details("PaymentIssue flag resolved - payment received"), Timestamp: now.Add(-2 * time.Hour)},
		{MemberID: members[0].ID, Actor: "staff", Action: domain.AuditRequestCreated, Details: details("Type: CardReplacement"), Timestamp: now.AddDate(0, 0, -3)},
	}
}
