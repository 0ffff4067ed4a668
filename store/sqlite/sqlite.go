/*
Package sqlite provides a SQLite-backed implementation of the storage interfaces.

PURPOSE:
  Implements all persistence interfaces (auth.UserStorage, mission lookups,
  expense.Store) using SQLite. In production, the same patterns apply to
  PostgreSQL - only minor SQL dialect differences.

INTERFACES IMPLEMENTED:
  auth.UserStorage:      User records and email lookup
  mission.NatureLookup:  Cost-policy reference data
  mission.UserLookup:    User references from the mapper
  expense.Store:         Expense listings, lines, report data

KEY TABLES:
  users:           Accounts with role and manager reference
  nature_missions: Cost policies (rate, bounty scheme)
  missions:        Business trips referencing nature, user, expense
  expenses:        One cost-tracking record per mission
  expense_lines:   Dated line items within an expense

LISTING CONTRACT:
  Every paginated query orders by id ASC with LIMIT/OFFSET and returns the
  scope's full COUNT alongside the window. expense.Service's manager merge
  relies on this ordering.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. In production with PostgreSQL,
  database-level concurrency control handles this instead.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

USAGE:
  store, err := sqlite.New("./data/missions.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - expense/service.go: Store interface contract
  - store/memory/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/warp/mission-engine/core"
	"github.com/warp/mission-engine/expense"
	"github.com/warp/mission-engine/mission"
	"github.com/warp/mission-engine/user"
)

// Store implements all storage interfaces using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Users (accounts with role and manager reference)
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL,
		manager_id TEXT REFERENCES users(id)
	);

	CREATE INDEX IF NOT EXISTS idx_users_manager
		ON users(manager_id) WHERE manager_id IS NOT NULL;

	-- Natures of mission (cost policies)
	CREATE TABLE IF NOT EXISTS nature_missions (
		id TEXT PRIMARY KEY,
		label TEXT NOT NULL,
		is_billed BOOLEAN NOT NULL DEFAULT FALSE,
		daily_rate TEXT NOT NULL DEFAULT '0',
		is_eligible_to_bounty BOOLEAN NOT NULL DEFAULT FALSE,
		bounty_percentage TEXT NOT NULL DEFAULT '0'
	);

	-- Missions
	CREATE TABLE IF NOT EXISTS missions (
		id TEXT PRIMARY KEY,
		label TEXT NOT NULL,
		status TEXT NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		transport TEXT NOT NULL,
		departure_city TEXT NOT NULL,
		arrival_city TEXT NOT NULL,
		nature_id TEXT NOT NULL REFERENCES nature_missions(id),
		user_id TEXT NOT NULL REFERENCES users(id),
		expense_id TEXT,
		total_price TEXT NOT NULL DEFAULT '0',
		bounty_amount TEXT NOT NULL DEFAULT '0',
		bounty_date TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_missions_user
		ON missions(user_id);
	CREATE INDEX IF NOT EXISTS idx_missions_nature
		ON missions(nature_id);

	-- Expenses (one per mission)
	CREATE TABLE IF NOT EXISTS expenses (
		id TEXT PRIMARY KEY,
		mission_id TEXT NOT NULL REFERENCES missions(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_expenses_mission
		ON expenses(mission_id);

	-- Expense lines
	CREATE TABLE IF NOT EXISTS expense_lines (
		id TEXT PRIMARY KEY,
		expense_id TEXT NOT NULL REFERENCES expenses(id) ON DELETE CASCADE,
		date TEXT NOT NULL,
		type TEXT NOT NULL,
		amount TEXT NOT NULL,
		tax TEXT NOT NULL DEFAULT '0',
		seq INTEGER NOT NULL DEFAULT 0
	);

	-- Lines come back in insertion order
	CREATE INDEX IF NOT EXISTS idx_expense_lines_expense
		ON expense_lines(expense_id, seq);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// USER STORE (auth.UserStorage + mission.UserLookup)
// =============================================================================

// CreateUser inserts a user. A duplicate email maps to core.ErrEmailExists.
func (s *Store) CreateUser(ctx context.Context, u *user.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO users (id, first_name, last_name, email, password_hash, role, manager_id)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		u.ID, u.FirstName, u.LastName, u.Email, u.PasswordHash,
		string(u.Role), nullString(u.ManagerID),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return core.ErrEmailExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetUser retrieves a user by ID.
func (s *Store) GetUser(ctx context.Context, id string) (*user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryUser(ctx, "WHERE id = ?", id)
}

// GetUserByEmail retrieves a user by email.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryUser(ctx, "WHERE email = ?", email)
}

func (s *Store) queryUser(ctx context.Context, where string, arg any) (*user.User, error) {
	var u user.User
	var role string
	var managerID sql.NullString

	err := s.db.QueryRowContext(ctx,
		"SELECT id, first_name, last_name, email, password_hash, role, manager_id FROM users "+where,
		arg,
	).Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash, &role, &managerID)

	if err == sql.ErrNoRows {
		return nil, core.NewNotFound("user", fmt.Sprint(arg))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	u.Role = user.Role(role)
	u.ManagerID = managerID.String
	return &u, nil
}

// ListUsers returns one page of users ordered by id.
func (s *Store) ListUsers(ctx context.Context, req core.PageRequest) ([]user.User, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var total int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, first_name, last_name, email, password_hash, role, manager_id
		 FROM users ORDER BY id ASC LIMIT ? OFFSET ?`,
		req.Size, req.Offset(),
	)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []user.User
	for rows.Next() {
		var u user.User
		var role string
		var managerID sql.NullString
		if err := rows.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash, &role, &managerID); err != nil {
			return nil, 0, err
		}
		u.Role = user.Role(role)
		u.ManagerID = managerID.String
		users = append(users, u)
	}
	return users, total, rows.Err()
}

// =============================================================================
// NATURE STORE (mission.NatureLookup)
// =============================================================================

// SaveNature inserts or updates a cost policy.
func (s *Store) SaveNature(ctx context.Context, n mission.NatureMission) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO nature_missions (id, label, is_billed, daily_rate, is_eligible_to_bounty, bounty_percentage)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			label = excluded.label,
			is_billed = excluded.is_billed,
			daily_rate = excluded.daily_rate,
			is_eligible_to_bounty = excluded.is_eligible_to_bounty,
			bounty_percentage = excluded.bounty_percentage
	`

	_, err := s.db.ExecContext(ctx, query,
		n.ID, n.Label, n.IsBilled, n.DailyRate.String(),
		n.IsEligibleToBounty, n.BountyPercentage.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to save nature: %w", err)
	}
	return nil
}

// GetNature retrieves a cost policy by ID.
func (s *Store) GetNature(ctx context.Context, id string) (*mission.NatureMission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n mission.NatureMission
	var dailyRate, bountyPct string

	err := s.db.QueryRowContext(ctx,
		`SELECT id, label, is_billed, daily_rate, is_eligible_to_bounty, bounty_percentage
		 FROM nature_missions WHERE id = ?`,
		id,
	).Scan(&n.ID, &n.Label, &n.IsBilled, &dailyRate, &n.IsEligibleToBounty, &bountyPct)

	if err == sql.ErrNoRows {
		return nil, core.NewNotFound("nature", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query nature: %w", err)
	}

	n.DailyRate = core.MustParseMoney(dailyRate)
	n.BountyPercentage = core.MustParseMoney(bountyPct)
	return &n, nil
}

// ListNatures returns the full cost-policy catalog ordered by id.
func (s *Store) ListNatures(ctx context.Context) ([]mission.NatureMission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, label, is_billed, daily_rate, is_eligible_to_bounty, bounty_percentage
		 FROM nature_missions ORDER BY id ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list natures: %w", err)
	}
	defer rows.Close()

	var natures []mission.NatureMission
	for rows.Next() {
		var n mission.NatureMission
		var dailyRate, bountyPct string
		if err := rows.Scan(&n.ID, &n.Label, &n.IsBilled, &dailyRate, &n.IsEligibleToBounty, &bountyPct); err != nil {
			return nil, err
		}
		n.DailyRate = core.MustParseMoney(dailyRate)
		n.BountyPercentage = core.MustParseMoney(bountyPct)
		natures = append(natures, n)
	}
	return natures, rows.Err()
}

// =============================================================================
// MISSION STORE
// =============================================================================

// CreateMissionWithExpense inserts a mission and its empty expense shell in
// one transaction. Either both rows land or neither does.
func (s *Store) CreateMissionWithExpense(ctx context.Context, m *mission.Mission, shell *expense.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	if err := execMissionInsert(ctx, sqlTx, m); err != nil {
		return err
	}
	if _, err := sqlTx.ExecContext(ctx,
		"INSERT INTO expenses (id, mission_id) VALUES (?, ?)",
		shell.ID, shell.MissionID,
	); err != nil {
		return fmt.Errorf("failed to create expense shell: %w", err)
	}

	return sqlTx.Commit()
}

func execMissionInsert(ctx context.Context, tx *sql.Tx, m *mission.Mission) error {
	query := `
		INSERT INTO missions
		(id, label, status, start_date, end_date, transport, departure_city, arrival_city,
		 nature_id, user_id, expense_id, total_price, bounty_amount, bounty_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := tx.ExecContext(ctx, query,
		m.ID, m.Label, string(m.Status),
		m.Start.String(), m.End.String(),
		string(m.Transport), m.DepartureCity, m.ArrivalCity,
		m.NatureID, m.UserID, nullString(m.ExpenseID),
		m.TotalPrice.String(), m.BountyAmount.String(),
		nullTimePoint(m.BountyDate),
	)
	if err != nil {
		return fmt.Errorf("failed to create mission: %w", err)
	}
	return nil
}

// UpdateMission rewrites a mission row.
func (s *Store) UpdateMission(ctx context.Context, m *mission.Mission) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		UPDATE missions SET
			label = ?, status = ?, start_date = ?, end_date = ?,
			transport = ?, departure_city = ?, arrival_city = ?,
			nature_id = ?, user_id = ?, expense_id = ?,
			total_price = ?, bounty_amount = ?, bounty_date = ?
		WHERE id = ?
	`

	res, err := s.db.ExecContext(ctx, query,
		m.Label, string(m.Status),
		m.Start.String(), m.End.String(),
		string(m.Transport), m.DepartureCity, m.ArrivalCity,
		m.NatureID, m.UserID, nullString(m.ExpenseID),
		m.TotalPrice.String(), m.BountyAmount.String(),
		nullTimePoint(m.BountyDate),
		m.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update mission: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.NewNotFound("mission", m.ID)
	}
	return nil
}

// GetMission retrieves a mission by ID.
func (s *Store) GetMission(ctx context.Context, id string) (*mission.Mission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT id, label, status, start_date, end_date, transport, departure_city, arrival_city,
		        nature_id, user_id, expense_id, total_price, bounty_amount, bounty_date
		 FROM missions WHERE id = ?`,
		id,
	)

	m, err := scanMission(row)
	if err == sql.ErrNoRows {
		return nil, core.NewNotFound("mission", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query mission: %w", err)
	}
	return m, nil
}

// ListMissions returns one page of missions ordered by id.
func (s *Store) ListMissions(ctx context.Context, req core.PageRequest) ([]mission.Mission, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var total int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM missions").Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count missions: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, label, status, start_date, end_date, transport, departure_city, arrival_city,
		        nature_id, user_id, expense_id, total_price, bounty_amount, bounty_date
		 FROM missions ORDER BY id ASC LIMIT ? OFFSET ?`,
		req.Size, req.Offset(),
	)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list missions: %w", err)
	}
	defer rows.Close()

	var missions []mission.Mission
	for rows.Next() {
		m, err := scanMission(rows)
		if err != nil {
			return nil, 0, err
		}
		missions = append(missions, *m)
	}
	return missions, total, rows.Err()
}

// DeleteMission removes a mission; its expense and lines cascade.
func (s *Store) DeleteMission(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM missions WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete mission: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.NewNotFound("mission", id)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMission(row rowScanner) (*mission.Mission, error) {
	var m mission.Mission
	var status, transport, startDate, endDate, totalPrice, bountyAmount string
	var expenseID, bountyDate sql.NullString

	err := row.Scan(
		&m.ID, &m.Label, &status, &startDate, &endDate, &transport,
		&m.DepartureCity, &m.ArrivalCity, &m.NatureID, &m.UserID,
		&expenseID, &totalPrice, &bountyAmount, &bountyDate,
	)
	if err != nil {
		return nil, err
	}

	m.Status = mission.Status(status)
	m.Transport = mission.Transport(transport)
	m.Start, _ = core.ParseTimePoint(startDate)
	m.End, _ = core.ParseTimePoint(endDate)
	m.ExpenseID = expenseID.String
	m.TotalPrice = core.MustParseMoney(totalPrice)
	m.BountyAmount = core.MustParseMoney(bountyAmount)
	if bountyDate.Valid {
		tp, err := core.ParseTimePoint(bountyDate.String)
		if err == nil {
			m.BountyDate = &tp
		}
	}
	return &m, nil
}

// =============================================================================
// EXPENSE STORE (expense.Store)
// =============================================================================

// summarySelect flattens an expense into its listing row: mission label,
// owner identity, and line aggregates in one query. Amounts are stored as
// decimal TEXT; they are concatenated here and summed exactly in Go, since
// SQLite's SUM would aggregate them as binary floats.
const summarySelect = `
	SELECT e.id, m.id, m.label, u.id, u.first_name || ' ' || u.last_name,
	       COUNT(l.id), COALESCE(GROUP_CONCAT(l.amount), '')
	FROM expenses e
	JOIN missions m ON m.id = e.mission_id
	JOIN users u ON u.id = m.user_id
	LEFT JOIN expense_lines l ON l.expense_id = e.id
`

// ListExpenses returns one page of all expenses.
func (s *Store) ListExpenses(ctx context.Context, req core.PageRequest) ([]expense.Summary, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.querySummaries(ctx, "", nil, req)
}

// ListExpensesByOwner returns one page of the expenses whose mission belongs
// to the given user.
func (s *Store) ListExpensesByOwner(ctx context.Context, ownerID string, req core.PageRequest) ([]expense.Summary, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.querySummaries(ctx, "WHERE u.id = ?", []any{ownerID}, req)
}

// ListExpensesByOwnerManager returns one page of the expenses whose mission
// owner reports to the given manager. The manager's own expenses are excluded
// even if their manager reference points at themselves.
func (s *Store) ListExpensesByOwnerManager(ctx context.Context, managerID string, req core.PageRequest) ([]expense.Summary, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.querySummaries(ctx, "WHERE u.manager_id = ? AND u.id != ?", []any{managerID, managerID}, req)
}

func (s *Store) querySummaries(ctx context.Context, where string, args []any, req core.PageRequest) ([]expense.Summary, int64, error) {
	countQuery := `
		SELECT COUNT(*)
		FROM expenses e
		JOIN missions m ON m.id = e.mission_id
		JOIN users u ON u.id = m.user_id
	` + where

	var total int64
	if err := s.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count expenses: %w", err)
	}

	query := summarySelect + where + `
		GROUP BY e.id
		ORDER BY e.id ASC
		LIMIT ? OFFSET ?
	`
	rows, err := s.db.QueryContext(ctx, query, append(args, req.Size, req.Offset())...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var summaries []expense.Summary
	for rows.Next() {
		var sum expense.Summary
		var amounts string
		if err := rows.Scan(&sum.ID, &sum.MissionID, &sum.MissionLabel,
			&sum.OwnerID, &sum.OwnerName, &sum.LineCount, &amounts); err != nil {
			return nil, 0, err
		}
		sum.TotalAmount = sumLineAmounts(amounts)
		summaries = append(summaries, sum)
	}
	return summaries, total, rows.Err()
}

// sumLineAmounts totals a GROUP_CONCAT list of decimal strings. Decimal
// strings never contain commas, so the split is safe.
func sumLineAmounts(concat string) decimal.Decimal {
	total := decimal.Zero
	if concat == "" {
		return total
	}
	for _, s := range strings.Split(concat, ",") {
		total = total.Add(core.MustParseMoney(s))
	}
	return total
}

// GetExpense retrieves an expense with its lines in insertion order.
func (s *Store) GetExpense(ctx context.Context, id string) (*expense.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var e expense.Expense
	err := s.db.QueryRowContext(ctx,
		"SELECT id, mission_id FROM expenses WHERE id = ?",
		id,
	).Scan(&e.ID, &e.MissionID)

	if err == sql.ErrNoRows {
		return nil, core.NewNotFound("expense", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query expense: %w", err)
	}

	e.Lines, err = s.queryLines(ctx, id)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *Store) queryLines(ctx context.Context, expenseID string) ([]expense.Line, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, expense_id, date, type, amount, tax
		 FROM expense_lines WHERE expense_id = ? ORDER BY seq ASC`,
		expenseID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query expense lines: %w", err)
	}
	defer rows.Close()

	var lines []expense.Line
	for rows.Next() {
		var l expense.Line
		var date, amount, tax string
		if err := rows.Scan(&l.ID, &l.ExpenseID, &date, &l.Type, &amount, &tax); err != nil {
			return nil, err
		}
		l.Date, _ = core.ParseTimePoint(date)
		l.Amount = core.MustParseMoney(amount)
		l.Tax = core.MustParseMoney(tax)
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

// SaveLine appends a line to an existing expense.
func (s *Store) SaveLine(ctx context.Context, line expense.Line) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO expense_lines (id, expense_id, date, type, amount, tax, seq)
		VALUES (?, ?, ?, ?, ?, ?,
			(SELECT COALESCE(MAX(seq), 0) + 1 FROM expense_lines WHERE expense_id = ?))
	`

	_, err := s.db.ExecContext(ctx, query,
		line.ID, line.ExpenseID, line.Date.String(), line.Type,
		line.Amount.String(), line.Tax.String(), line.ExpenseID,
	)
	if err != nil {
		return fmt.Errorf("failed to save expense line: %w", err)
	}
	return nil
}

// GetReportData returns the report view of an expense.
func (s *Store) GetReportData(ctx context.Context, id string) (*expense.ReportData, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var data expense.ReportData
	err := s.db.QueryRowContext(ctx,
		`SELECT e.id, u.first_name || ' ' || u.last_name, m.label
		 FROM expenses e
		 JOIN missions m ON m.id = e.mission_id
		 JOIN users u ON u.id = m.user_id
		 WHERE e.id = ?`,
		id,
	).Scan(&data.ExpenseID, &data.OwnerName, &data.MissionLabel)

	if err == sql.ErrNoRows {
		return nil, core.NewNotFound("expense", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query report data: %w", err)
	}

	data.Lines, err = s.queryLines(ctx, id)
	if err != nil {
		return nil, err
	}
	return &data, nil
}

// =============================================================================
// UTILITIES
// =============================================================================

// Reset clears all data (for testing/demo).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tables := []string{"expense_lines", "expenses", "missions", "nature_missions", "users"}
	for _, table := range tables {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}

// Helper functions

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullTimePoint(tp *core.TimePoint) sql.NullString {
	if tp == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: tp.String(), Valid: true}
}

func isUniqueConstraintError(err error) bool {
	return err != nil && (strings.Contains(err.Error(), "UNIQUE constraint failed") ||
		strings.Contains(err.Error(), "duplicate key"))
}
