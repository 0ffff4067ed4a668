/*
handlers.go - HTTP API handlers for the mission management system

PURPOSE:
  Exposes the mission management engine via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Auth:
    POST   /api/auth/login          Exchange credentials for a JWT
    POST   /api/auth/register       Create an account
    GET    /api/auth/refresh        Re-sign a still-valid token
    GET    /api/auth/user           Role probe (any authenticated caller)
    GET    /api/auth/manager        Role probe (manager and up)
    GET    /api/auth/admin          Role probe (admin only)

  Missions:
    GET    /api/missions            List missions (paginated)
    POST   /api/missions            Create mission + empty expense
    GET    /api/missions/{id}       Display view (recomputed cost)
    GET    /api/missions/{id}/form  Edit-form view (scalars only)
    PUT    /api/missions/{id}       Update mission
    DELETE /api/missions/{id}       Delete mission and its expense

  Expenses:
    GET    /api/expenses            All expenses (admin)
    GET    /api/expenses/me         Caller's expenses
    GET    /api/expenses/team       Caller's + direct reports' (manager)
    GET    /api/expenses/{id}       Detail with lines
    POST   /api/expenses/{id}/lines Append a line
    GET    /api/expenses/{id}/export PDF report download

  Reference data:
    GET    /api/natures             Cost-policy catalog
    GET    /api/natures/{id}        One cost policy
    POST   /api/natures             Create/replace a cost policy (admin)
    GET    /api/users               List users (admin)
    GET    /api/users/{id}          One user

ARCHITECTURE:
  Handler struct holds all dependencies:
  - Store: Database access
  - Passwords/Tokens: Credential checks and JWT lifecycle
  - Mapper: Mission <-> DTO conversion with cost recomputation
  - Expenses: Listing aggregation and PDF export

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input, end before start
  - 401: Missing/invalid token
  - 403: Insufficient role
  - 404: Resource not found (including bad login credentials)
  - 409: Duplicate email
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - handlers_auth.go: Auth endpoint implementations
  - handlers_expense.go: Expense endpoint implementations
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/warp/mission-engine/auth"
	"github.com/warp/mission-engine/core"
	"github.com/warp/mission-engine/expense"
	"github.com/warp/mission-engine/mission"
	"github.com/warp/mission-engine/user"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Store is the persistence surface the API needs. Both store/sqlite and
// store/memory satisfy it.
type Store interface {
	CreateUser(ctx context.Context, u *user.User) error
	GetUser(ctx context.Context, id string) (*user.User, error)
	GetUserByEmail(ctx context.Context, email string) (*user.User, error)
	ListUsers(ctx context.Context, req core.PageRequest) ([]user.User, int64, error)

	SaveNature(ctx context.Context, n mission.NatureMission) error
	GetNature(ctx context.Context, id string) (*mission.NatureMission, error)
	ListNatures(ctx context.Context) ([]mission.NatureMission, error)

	CreateMissionWithExpense(ctx context.Context, m *mission.Mission, shell *expense.Expense) error
	UpdateMission(ctx context.Context, m *mission.Mission) error
	GetMission(ctx context.Context, id string) (*mission.Mission, error)
	ListMissions(ctx context.Context, req core.PageRequest) ([]mission.Mission, int64, error)
	DeleteMission(ctx context.Context, id string) error

	expense.Store
}

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store     Store
	Passwords *auth.PasswordAuthenticator
	Tokens    *auth.JWTManager
	Mapper    *mission.Mapper
	Expenses  *expense.Service
	Logger    *slog.Logger
}

// NewHandler wires a handler from the given store and token manager.
func NewHandler(store Store, tokens *auth.JWTManager, logger *slog.Logger) *Handler {
	return &Handler{
		Store:     store,
		Passwords: auth.NewPasswordAuthenticator(store),
		Tokens:    tokens,
		Mapper:    mission.NewMapper(store, store),
		Expenses:  expense.NewService(store),
		Logger:    logger,
	}
}

// =============================================================================
// MISSION HANDLERS
// =============================================================================

// ListMissions returns one page of missions in display form.
func (h *Handler) ListMissions(w http.ResponseWriter, r *http.Request) {
	req := pageRequest(r)

	missions, total, err := h.Store.ListMissions(r.Context(), req)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list missions", err)
		return
	}

	dtos := make([]mission.DisplayedMissionDTO, 0, len(missions))
	for _, m := range missions {
		dto, err := h.Mapper.ToDisplay(r.Context(), m)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to resolve mission", err)
			return
		}
		dtos = append(dtos, *dto)
	}

	writeJSON(w, http.StatusOK, toPageDTO(core.NewPage(dtos, req, total)))
}

// GetMission returns one mission in display form.
func (h *Handler) GetMission(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	m, err := h.Store.GetMission(r.Context(), id)
	if err != nil {
		h.writeDomainError(w, "Failed to get mission", err)
		return
	}

	dto, err := h.Mapper.ToDisplay(r.Context(), *m)
	if err != nil {
		h.writeDomainError(w, "Failed to resolve mission", err)
		return
	}

	writeJSON(w, http.StatusOK, dto)
}

// GetMissionForm returns the edit-form view of a mission.
func (h *Handler) GetMissionForm(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	m, err := h.Store.GetMission(r.Context(), id)
	if err != nil {
		h.writeDomainError(w, "Failed to get mission", err)
		return
	}

	writeJSON(w, http.StatusOK, h.Mapper.ToForm(*m))
}

// CreateMission creates a mission and its empty expense in one transaction.
func (h *Handler) CreateMission(w http.ResponseWriter, r *http.Request) {
	var form mission.Form
	if err := decodeValid(r, &form); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid mission", err)
		return
	}
	if err := validateForm(form); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid mission", err)
		return
	}

	m, shell, err := h.Mapper.FromForm(r.Context(), form)
	if err != nil {
		h.writeDomainError(w, "Failed to create mission", err)
		return
	}

	if err := h.Store.CreateMissionWithExpense(r.Context(), m, shell); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create mission", err)
		return
	}

	dto, err := h.Mapper.ToDisplay(r.Context(), *m)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to resolve mission", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto)
}

// UpdateMission rewrites a mission from its form. The mission keeps its id
// and its original expense; the shell FromForm builds is discarded.
func (h *Handler) UpdateMission(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	existing, err := h.Store.GetMission(r.Context(), id)
	if err != nil {
		h.writeDomainError(w, "Failed to get mission", err)
		return
	}

	var form mission.Form
	if err := decodeValid(r, &form); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid mission", err)
		return
	}
	if err := validateForm(form); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid mission", err)
		return
	}

	m, _, err := h.Mapper.FromForm(r.Context(), form)
	if err != nil {
		h.writeDomainError(w, "Failed to update mission", err)
		return
	}
	m.ID = existing.ID
	m.ExpenseID = existing.ExpenseID

	if err := h.Store.UpdateMission(r.Context(), m); err != nil {
		h.writeDomainError(w, "Failed to update mission", err)
		return
	}

	dto, err := h.Mapper.ToDisplay(r.Context(), *m)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to resolve mission", err)
		return
	}

	writeJSON(w, http.StatusOK, dto)
}

// DeleteMission removes a mission; its expense and lines go with it.
func (h *Handler) DeleteMission(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.Store.DeleteMission(r.Context(), id); err != nil {
		h.writeDomainError(w, "Failed to delete mission", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// validateForm rejects what struct tags cannot express: enum membership and
// date ordering.
func validateForm(f mission.Form) error {
	if !f.Status.Valid() {
		return errInvalid("unknown status " + string(f.Status))
	}
	if !f.Transport.Valid() {
		return errInvalid("unknown transport " + string(f.Transport))
	}

	start, err := core.ParseTimePoint(f.StartDate)
	if err != nil {
		return errInvalid("start_date must be YYYY-MM-DD")
	}
	end, err := core.ParseTimePoint(f.EndDate)
	if err != nil {
		return errInvalid("end_date must be YYYY-MM-DD")
	}
	if period := (core.Period{Start: start, End: end}); period.Validate() != nil {
		return errInvalid("end_date is before start_date")
	}
	return nil
}

type errInvalid string

func (e errInvalid) Error() string { return string(e) }

// =============================================================================
// NATURE HANDLERS
// =============================================================================

// ListNatures returns the cost-policy catalog.
func (h *Handler) ListNatures(w http.ResponseWriter, r *http.Request) {
	natures, err := h.Store.ListNatures(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list natures", err)
		return
	}

	dtos := make([]NatureDTO, len(natures))
	for i, n := range natures {
		dtos[i] = toNatureDTO(n)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetNature returns one cost policy.
func (h *Handler) GetNature(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	n, err := h.Store.GetNature(r.Context(), id)
	if err != nil {
		h.writeDomainError(w, "Failed to get nature", err)
		return
	}

	writeJSON(w, http.StatusOK, toNatureDTO(*n))
}

// SaveNature creates or replaces a cost policy.
func (h *Handler) SaveNature(w http.ResponseWriter, r *http.Request) {
	var req SaveNatureRequest
	if err := decodeValid(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid nature", err)
		return
	}

	n := mission.NatureMission{
		ID:                 req.ID,
		Label:              req.Label,
		IsBilled:           req.IsBilled,
		DailyRate:          req.DailyRate,
		IsEligibleToBounty: req.IsEligibleToBounty,
		BountyPercentage:   req.BountyPercentage,
	}
	if err := h.Store.SaveNature(r.Context(), n); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save nature", err)
		return
	}

	writeJSON(w, http.StatusOK, toNatureDTO(n))
}

// =============================================================================
// USER HANDLERS
// =============================================================================

// ListUsers returns one page of users.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	req := pageRequest(r)

	users, total, err := h.Store.ListUsers(r.Context(), req)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list users", err)
		return
	}

	dtos := make([]UserDTO, len(users))
	for i, u := range users {
		dtos[i] = toUserDTO(u)
	}
	writeJSON(w, http.StatusOK, toPageDTO(core.NewPage(dtos, req, total)))
}

// GetUser returns one user.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	u, err := h.Store.GetUser(r.Context(), id)
	if err != nil {
		h.writeDomainError(w, "Failed to get user", err)
		return
	}

	writeJSON(w, http.StatusOK, toUserDTO(*u))
}

// =============================================================================
// ERROR MAPPING
// =============================================================================

// writeDomainError maps domain sentinels onto HTTP statuses.
func (h *Handler) writeDomainError(w http.ResponseWriter, message string, err error) {
	switch {
	case core.IsNotFound(err):
		writeError(w, http.StatusNotFound, message, err)
	case core.IsClientError(err):
		writeError(w, http.StatusBadRequest, message, err)
	default:
		if h.Logger != nil {
			h.Logger.Error(message, slog.Any("error", err))
		}
		writeError(w, http.StatusInternalServerError, message, err)
	}
}
