package dto

import (
	"time"

	"github.com/bingopos/bingo_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateMemberRequest defines the data needed to create a new member.
type CreateMemberRequest struct {
	Name     string           `json:"name" binding:"required"`
	Abbr     string           `json:"abbr"`
	Gender   string           `json:"gender"`
	Birthday *time.Time       `json:"birthday"`
	Tel      string           `json:"tel"`
	Number   string           `json:"number" binding:"required"`
	Balance  *decimal.Decimal `json:"balance"` // Optional opening balance, must not be negative
	IsStaff  bool             `json:"isStaff"`
	PIN      *string          `json:"pin"` // Required when isStaff is true
}

// UpdateMemberRequest defines the profile fields allowed for updating a member.
// Use pointers to distinguish between zero-value updates and fields not provided.
// Balance is absent on purpose: it only moves through ledger operations.
type UpdateMemberRequest struct {
	Name     *string    `json:"name"`
	Abbr     *string    `json:"abbr"`
	Gender   *string    `json:"gender"`
	Birthday *time.Time `json:"birthday"`
	Tel      *string    `json:"tel"`
	Number   *string    `json:"number"`
	IsStaff  *bool      `json:"isStaff"`
	PIN      *string    `json:"pin"`
}

// TopUpRequest defines the data for a balance top-up.
type TopUpRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// MemberResponse defines the data returned for a member.
type MemberResponse struct {
	MemberID      string          `json:"memberID"`
	Name          string          `json:"name"`
	Abbr          string          `json:"abbr"`
	Gender        string          `json:"gender"`
	Birthday      *time.Time      `json:"birthday"`
	Tel           string          `json:"tel"`
	Number        string          `json:"number"`
	Balance       decimal.Decimal `json:"balance"`
	IsStaff       bool            `json:"isStaff"`
	CreatedAt     time.Time       `json:"createdAt"`
	LastUpdatedAt time.Time       `json:"lastUpdatedAt"`
}

// ToMemberResponse converts a domain.Member to MemberResponse DTO
func ToMemberResponse(m *domain.Member) MemberResponse {
	return MemberResponse{
		MemberID:      m.MemberID,
		Name:          m.Name,
		Abbr:          m.Abbr,
		Gender:        m.Gender,
		Birthday:      m.Birthday,
		Tel:           m.Tel,
		Number:        m.Number,
		Balance:       m.Balance,
		IsStaff:       m.IsStaff,
		CreatedAt:     m.CreatedAt,
		LastUpdatedAt: m.LastUpdatedAt,
	}
}

// ToListMemberResponse converts a slice of domain.Member to MemberResponse DTOs
func ToListMemberResponse(members []domain.Member) []MemberResponse {
	res := make([]MemberResponse, len(members))
	for i, m := range members {
		res[i] = ToMemberResponse(&m)
	}
	return res
}

// ListMembersParams defines query parameters for listing members.
type ListMembersParams struct {
	Name   string `form:"name"` // Substring match against name or abbr
	Limit  int    `form:"limit,default=20"`
	Offset int    `form:"offset,default=0"`
}

// ListMembersResponse wraps the list of members.
type ListMembersResponse struct {
	Members []MemberResponse `json:"members"`
}
