package domain

import (
	"strings"
	"time"
)

// ApprovalStatus é o status explícito de aprovação de uma peça.
type ApprovalStatus string

const (
	ApprovalPending     ApprovalStatus = "PENDING"
	ApprovalUnderReview ApprovalStatus = "UNDER_REVIEW"
	ApprovalApproved    ApprovalStatus = "APPROVED"
	ApprovalRejected    ApprovalStatus = "REJECTED"
)

// approvalTransitions lista, para cada status de origem, os destinos permitidos.
var approvalTransitions = map[ApprovalStatus][]ApprovalStatus{
	ApprovalPending:     {ApprovalUnderReview, ApprovalApproved, ApprovalRejected},
	ApprovalUnderReview: {ApprovalApproved, ApprovalRejected},
	ApprovalRejected:    {ApprovalUnderReview},
}

// ParseApprovalStatus converte uma string (case-insensitive) em ApprovalStatus.
func ParseApprovalStatus(s string) (ApprovalStatus, bool) {
	st := ApprovalStatus(strings.ToUpper(strings.TrimSpace(s)))
	switch st {
	case ApprovalPending, ApprovalUnderReview, ApprovalApproved, ApprovalRejected:
		return st, true
	}
	return "", false
}

// CanTransitionTo informa se a transição from -> to é permitida.
func (from ApprovalStatus) CanTransitionTo(to ApprovalStatus) bool {
	for _, allowed := range approvalTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// ApprovalEvent é uma entrada do histórico (append-only) de aprovação de uma peça.
type ApprovalEvent struct {
	ID         string         `json:"id"`
	PartID     string         `json:"part_id"`
	FromStatus ApprovalStatus `json:"from_status"`
	ToStatus   ApprovalStatus `json:"to_status"`
	Reason     string         `json:"reason,omitempty"`
	ActorID    string         `json:"actor_id"`
	CreatedAt  time.Time      `json:"created_at"`
}

// ApprovalDecision é o payload do PUT /v1/admin/part-approvals/{part_id}.
type ApprovalDecision struct {
	Decision string `json:"decision"`
	Reason   string `json:"reason"`
}
