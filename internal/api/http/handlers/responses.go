package handlers

import (
	"github.com/memberops/memberops-api/internal/api/dto"
	"github.com/memberops/memberops-api/internal/domain"
)

func staffResponse(staff *domain.Staff) *dto.StaffResponse {
	if staff == nil {
		return nil
	}
	return &dto.StaffResponse{
		ID:          staff.ID,
		Username:    staff.Username,
		DisplayName: staff.DisplayName,
		Email:       staff.Email,
		Role:        staff.Role,
	}
}

func memberSummary(member *domain.Member) *dto.MemberSummary {
	if member == nil {
		return nil
	}
	return &dto.MemberSummary{
		ID:           member.ID,
		MemberNumber: member.MemberNumber,
		FirstName:    member.FirstName,
		LastName:     member.LastName,
		Email:        member.Email,
		Phone:        member.Phone,
		Status:       member.Status,
		JoinDate:     member.JoinDate,
		Notes:        member.Notes,
	}
}

func memberResponse(member *domain.Member) dto.MemberResponse {
	resp := dto.MemberResponse{
		MemberSummary: *memberSummary(member),
		Flags:         flagResponses(member.Flags),
	}
	if member.ServiceRequests != nil {
		resp.ServiceRequests = serviceRequestResponses(member.ServiceRequests)
	}
	return resp
}

func flagResponse(flag *domain.AccountFlag) dto.AccountFlagResponse {
	return dto.AccountFlagResponse{
		ID:              flag.ID,
		MemberID:        flag.MemberID,
		FlagType:        flag.FlagType,
		Description:     flag.Description,
		CreatedBy:       flag.CreatedBy,
		CreatedAt:       flag.CreatedAt,
		ResolvedBy:      flag.ResolvedBy,
		ResolvedAt:      flag.ResolvedAt,
		ResolutionNotes: flag.ResolutionNotes,
	}
}

func flagResponses(flags []domain.AccountFlag) []dto.AccountFlagResponse {
	items := make([]dto.AccountFlagResponse, 0, len(flags))
	for i := range flags {
		items = append(items, flagResponse(&flags[i]))
	}
	return items
}

func serviceRequestResponse(sr *domain.ServiceRequest) dto.ServiceRequestResponse {
	resp := dto.ServiceRequestResponse{
		ID:              sr.ID,
		MemberID:        sr.MemberID,
		RequestType:     sr.RequestType,
		Description:     sr.Description,
		Status:          sr.Status,
		Priority:        sr.Priority,
		CreatedByID:     sr.CreatedByID,
		AssignedToID:    sr.AssignedToID,
		ResolutionType:  sr.ResolutionType,
		ResolutionNotes: sr.ResolutionNotes,
		ResolvedAt:      sr.ResolvedAt,
		ResolvedByID:    sr.ResolvedByID,
		CreatedAt:       sr.CreatedAt,
		UpdatedAt:       sr.UpdatedAt,
		Member:          memberSummary(sr.Member),
		CreatedBy:       staffResponse(sr.CreatedBy),
		AssignedTo:      staffResponse(sr.AssignedTo),
		ResolvedBy:      staffResponse(sr.ResolvedBy),
	}
	if sr.Comments != nil {
		resp.Comments = make([]dto.CommentResponse, 0, len(sr.Comments))
		for i := range sr.Comments {
			resp.Comments = append(resp.Comments, commentResponse(&sr.Comments[i]))
		}
	}
	return resp
}

func serviceRequestResponses(requests []domain.ServiceRequest) []dto.ServiceRequestResponse {
	items := make([]dto.ServiceRequestResponse, 0, len(requests))
	for i := range requests {
		items = append(items, serviceRequestResponse(&requests[i]))
	}
	return items
}

func commentResponse(comment *domain.ServiceRequestComment) dto.CommentResponse {
	return dto.CommentResponse{
		ID:               comment.ID,
		ServiceRequestID: comment.ServiceRequestID,
		StaffID:          comment.StaffID,
		CommentText:      comment.CommentText,
		CreatedAt:        comment.CreatedAt,
		Staff:            staffResponse(comment.Staff),
	}
}

func auditLogResponse(entry *domain.AuditLog) dto.AuditLogResponse {
	return dto.AuditLogResponse{
		ID:        entry.ID,
		MemberID:  entry.MemberID,
		Actor:     entry.Actor,
		Action:    entry.Action,
		Details:   entry.Details,
		Timestamp: entry.Timestamp,
		Member:    memberSummary(entry.Member),
	}
}
