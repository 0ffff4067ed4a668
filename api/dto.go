/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

TYPES:
  Auth:
    LoginRequest, RegisterRequest, TokenResponse

  Mission:
    mission.DisplayedMissionDTO and mission.Form are the wire types; the
    mission package owns them because they carry the derived-field rules.

  Expense:
    expense.Summary is the listing row; AddLineRequest, LineDTO, ExpenseDTO
    shape the detail endpoints.

  Users/Natures:
    UserDTO, NatureDTO

VALIDATION:
  Request bodies carry validate tags checked with go-playground/validator
  in decodeValid. Handlers only see structurally valid input.

SEE ALSO:
  - handlers.go: Uses these types
  - mission/mapper.go: DisplayedMissionDTO, Form
*/
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/warp/mission-engine/core"
	"github.com/warp/mission-engine/expense"
	"github.com/warp/mission-engine/mission"
	"github.com/warp/mission-engine/user"
)

// validate is the shared validator instance; validators are safe for
// concurrent use and cache struct metadata.
var validate = validator.New()

// =============================================================================
// AUTH TYPES
// =============================================================================

// LoginRequest is the credential pair for /auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest is the sign-up payload.
type RegisterRequest struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
	ManagerID string `json:"manager_id,omitempty"`
}

// TokenResponse carries a signed JWT back to the client.
type TokenResponse struct {
	Token string `json:"token"`
}

// =============================================================================
// USER / NATURE TYPES
// =============================================================================

// UserDTO represents a user in API responses. The password hash never
// leaves the server.
type UserDTO struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	ManagerID string `json:"manager_id,omitempty"`
}

func toUserDTO(u user.User) UserDTO {
	return UserDTO{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Role:      string(u.Role),
		ManagerID: u.ManagerID,
	}
}

// NatureDTO represents a cost policy in API responses.
type NatureDTO struct {
	ID                 string          `json:"id"`
	Label              string          `json:"label"`
	IsBilled           bool            `json:"is_billed"`
	DailyRate          decimal.Decimal `json:"daily_rate"`
	IsEligibleToBounty bool            `json:"is_eligible_to_bounty"`
	BountyPercentage   decimal.Decimal `json:"bounty_percentage"`
}

func toNatureDTO(n mission.NatureMission) NatureDTO {
	return NatureDTO{
		ID:                 n.ID,
		Label:              n.Label,
		IsBilled:           n.IsBilled,
		DailyRate:          n.DailyRate,
		IsEligibleToBounty: n.IsEligibleToBounty,
		BountyPercentage:   n.BountyPercentage,
	}
}

// SaveNatureRequest creates or replaces a cost policy.
type SaveNatureRequest struct {
	ID                 string          `json:"id" validate:"required"`
	Label              string          `json:"label" validate:"required"`
	IsBilled           bool            `json:"is_billed"`
	DailyRate          decimal.Decimal `json:"daily_rate"`
	IsEligibleToBounty bool            `json:"is_eligible_to_bounty"`
	BountyPercentage   decimal.Decimal `json:"bounty_percentage"`
}

// =============================================================================
// EXPENSE TYPES
// =============================================================================

// LineDTO represents one expense line in API responses.
type LineDTO struct {
	ID     string          `json:"id"`
	Date   string          `json:"date"`
	Type   string          `json:"type"`
	Amount decimal.Decimal `json:"amount"`
	Tax    decimal.Decimal `json:"tax"`
}

func toLineDTO(l expense.Line) LineDTO {
	return LineDTO{
		ID:     l.ID,
		Date:   l.Date.String(),
		Type:   l.Type,
		Amount: l.Amount,
		Tax:    l.Tax,
	}
}

// ExpenseDTO is the detail view of one expense with its lines.
type ExpenseDTO struct {
	ID        string          `json:"id"`
	MissionID string          `json:"mission_id"`
	Lines     []LineDTO       `json:"lines"`
	Total     decimal.Decimal `json:"total"`
}

func toExpenseDTO(e expense.Expense) ExpenseDTO {
	lines := make([]LineDTO, len(e.Lines))
	for i, l := range e.Lines {
		lines[i] = toLineDTO(l)
	}
	return ExpenseDTO{
		ID:        e.ID,
		MissionID: e.MissionID,
		Lines:     lines,
		Total:     e.Total(),
	}
}

// AddLineRequest appends one line to an expense.
type AddLineRequest struct {
	Date   string          `json:"date" validate:"required"`
	Type   string          `json:"type" validate:"required"`
	Amount decimal.Decimal `json:"amount" validate:"required"`
	Tax    decimal.Decimal `json:"tax"`
}

// PageDTO wraps a paginated listing the way clients consume it.
type PageDTO[T any] struct {
	Items      []T   `json:"items"`
	Number     int   `json:"number"`
	Size       int   `json:"size"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
}

func toPageDTO[T any](p core.Page[T]) PageDTO[T] {
	items := p.Items
	if items == nil {
		items = []T{}
	}
	return PageDTO[T]{
		Items:      items,
		Number:     p.Number,
		Size:       p.Size,
		TotalItems: p.TotalItems,
		TotalPages: p.TotalPages,
	}
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// decodeValid decodes a JSON body into dst and runs struct validation.
func decodeValid(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	if err := validate.Struct(dst); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	return nil
}

// pageRequest reads ?page= and ?size= with sane bounds.
func pageRequest(r *http.Request) core.PageRequest {
	req := core.PageRequest{Number: 0, Size: 20}
	if v := r.URL.Query().Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			req.Number = n
		}
	}
	if v := r.URL.Query().Get("size"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			req.Size = n
		}
	}
	return req
}
