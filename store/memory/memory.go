// Package memory provides an in-memory store implementation (for testing/dev).
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/warp/mission-engine/core"
	"github.com/warp/mission-engine/expense"
	"github.com/warp/mission-engine/mission"
	"github.com/warp/mission-engine/user"
)

// =============================================================================
// MEMORY STORE - Implements the same interfaces as store/sqlite
// =============================================================================

type Store struct {
	mu       sync.RWMutex
	users    map[string]user.User
	natures  map[string]mission.NatureMission
	missions map[string]mission.Mission
	expenses map[string]expense.Expense
}

func New() *Store {
	return &Store{
		users:    make(map[string]user.User),
		natures:  make(map[string]mission.NatureMission),
		missions: make(map[string]mission.Mission),
		expenses: make(map[string]expense.Expense),
	}
}

// =============================================================================
// USERS
// =============================================================================

func (s *Store) CreateUser(_ context.Context, u *user.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Email == u.Email {
			return core.ErrEmailExists
		}
	}
	s.users[u.ID] = *u
	return nil
}

func (s *Store) GetUser(_ context.Context, id string) (*user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, core.NewNotFound("user", id)
	}
	return &u, nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (*user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email == email {
			out := u
			return &out, nil
		}
	}
	return nil, core.NewNotFound("user", email)
}

func (s *Store) ListUsers(_ context.Context, req core.PageRequest) ([]user.User, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	all := make([]user.User, 0, len(s.users))
	for _, u := range s.users {
		all = append(all, u)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return slicePage(all, req), int64(len(all)), nil
}

// =============================================================================
// NATURES
// =============================================================================

func (s *Store) SaveNature(_ context.Context, n mission.NatureMission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.natures[n.ID] = n
	return nil
}

func (s *Store) GetNature(_ context.Context, id string) (*mission.NatureMission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, ok := s.natures[id]
	if !ok {
		return nil, core.NewNotFound("nature", id)
	}
	return &n, nil
}

func (s *Store) ListNatures(_ context.Context) ([]mission.NatureMission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	all := make([]mission.NatureMission, 0, len(s.natures))
	for _, n := range s.natures {
		all = append(all, n)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return all, nil
}

// =============================================================================
// MISSIONS
// =============================================================================

// CreateMissionWithExpense persists a mission and its empty expense shell
// together, mirroring the transactional contract of the SQLite store.
func (s *Store) CreateMissionWithExpense(_ context.Context, m *mission.Mission, shell *expense.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.missions[m.ID] = *m
	s.expenses[shell.ID] = *shell
	return nil
}

func (s *Store) UpdateMission(_ context.Context, m *mission.Mission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.missions[m.ID]; !ok {
		return core.NewNotFound("mission", m.ID)
	}
	s.missions[m.ID] = *m
	return nil
}

func (s *Store) GetMission(_ context.Context, id string) (*mission.Mission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.missions[id]
	if !ok {
		return nil, core.NewNotFound("mission", id)
	}
	return &m, nil
}

func (s *Store) ListMissions(_ context.Context, req core.PageRequest) ([]mission.Mission, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	all := make([]mission.Mission, 0, len(s.missions))
	for _, m := range s.missions {
		all = append(all, m)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return slicePage(all, req), int64(len(all)), nil
}

func (s *Store) DeleteMission(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.missions[id]
	if !ok {
		return core.NewNotFound("mission", id)
	}
	delete(s.missions, id)
	if m.ExpenseID != "" {
		delete(s.expenses, m.ExpenseID)
	}
	return nil
}

// =============================================================================
// EXPENSES
// =============================================================================

func (s *Store) ListExpenses(_ context.Context, req core.PageRequest) ([]expense.Summary, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listSummariesLocked(req, func(owner user.User) bool { return true })
}

func (s *Store) ListExpensesByOwner(_ context.Context, ownerID string, req core.PageRequest) ([]expense.Summary, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listSummariesLocked(req, func(owner user.User) bool { return owner.ID == ownerID })
}

func (s *Store) ListExpensesByOwnerManager(_ context.Context, managerID string, req core.PageRequest) ([]expense.Summary, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listSummariesLocked(req, func(owner user.User) bool {
		return owner.ManagerID == managerID && owner.ID != managerID
	})
}

func (s *Store) listSummariesLocked(req core.PageRequest, ownerMatch func(user.User) bool) ([]expense.Summary, int64, error) {
	var all []expense.Summary
	for _, e := range s.expenses {
		m, ok := s.missions[e.MissionID]
		if !ok {
			continue
		}
		owner, ok := s.users[m.UserID]
		if !ok || !ownerMatch(owner) {
			continue
		}
		all = append(all, expense.Summary{
			ID:           e.ID,
			MissionID:    m.ID,
			MissionLabel: m.Label,
			OwnerID:      owner.ID,
			OwnerName:    owner.FullName(),
			LineCount:    len(e.Lines),
			TotalAmount:  e.Total(),
		})
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return slicePage(all, req), int64(len(all)), nil
}

func (s *Store) GetExpense(_ context.Context, id string) (*expense.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.expenses[id]
	if !ok {
		return nil, core.NewNotFound("expense", id)
	}
	out := e
	out.Lines = append([]expense.Line(nil), e.Lines...)
	return &out, nil
}

func (s *Store) SaveLine(_ context.Context, line expense.Line) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.expenses[line.ExpenseID]
	if !ok {
		return core.NewNotFound("expense", line.ExpenseID)
	}
	e.Lines = append(e.Lines, line)
	s.expenses[line.ExpenseID] = e
	return nil
}

func (s *Store) GetReportData(_ context.Context, id string) (*expense.ReportData, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.expenses[id]
	if !ok {
		return nil, core.NewNotFound("expense", id)
	}
	data := &expense.ReportData{
		ExpenseID: e.ID,
		Lines:     append([]expense.Line(nil), e.Lines...),
	}
	if m, ok := s.missions[e.MissionID]; ok {
		data.MissionLabel = m.Label
		if owner, ok := s.users[m.UserID]; ok {
			data.OwnerName = owner.FullName()
		}
	}
	return data, nil
}

// =============================================================================
// HELPERS
// =============================================================================

func slicePage[T any](all []T, req core.PageRequest) []T {
	offset := req.Offset()
	if offset >= len(all) {
		return nil
	}
	end := offset + req.Size
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end]
}
