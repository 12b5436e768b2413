// Package history provides SQLite persistence for resolved spins. It is an
// audit log for the review UI and the companion API; live game state is
// never restored from it.
package history

import (
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// TableSession is one sitting at the table, from app start to shutdown.
type TableSession struct {
	ID           string     `json:"id"`
	StartedAt    time.Time  `json:"startedAt"`
	EndedAt      *time.Time `json:"endedAt,omitempty"`
	StartBalance float64    `json:"startBalance"`
	FinalBalance *float64   `json:"finalBalance,omitempty"`
	TotalSpins   int        `json:"totalSpins"`
	TotalBets    int        `json:"totalBets"`
	Wins         int        `json:"wins"`
	Losses       int        `json:"losses"`
	TotalWon     float64    `json:"totalWon"`
	TotalLost    float64    `json:"totalLost"`
}

// Spin is one resolved wheel spin within a session.
type Spin struct {
	ID        int64     `json:"id"`
	SessionID string    `json:"sessionId"`
	Seq       int       `json:"seq"`
	Pocket    int       `json:"pocket"`
	Color     string    `json:"color"`
	BetCount  int       `json:"betCount"`
	Staked    float64   `json:"staked"`
	Payout    float64   `json:"payout"`
	Net       float64   `json:"net"`
	CreatedAt time.Time `json:"createdAt"`
}

// SpinsPage is a paginated spins response.
type SpinsPage struct {
	Spins      []Spin `json:"spins"`
	TotalCount int    `json:"totalCount"`
	Page       int    `json:"page"`
	PerPage    int    `json:"perPage"`
	TotalPages int    `json:"totalPages"`
}

// SessionTotals holds the closing aggregates for EndSession.
type SessionTotals struct {
	FinalBalance float64
	TotalSpins   int
	TotalBets    int
	Wins         int
	Losses       int
	TotalWon     float64
	TotalLost    float64
}

// Store is the SQLite-backed spin history.
type Store struct {
	db *sql.DB
}

// New opens (or creates) the history database at the given path.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("history: open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("history: enable WAL: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return nil, fmt.Errorf("history: enable foreign keys: %w", err)
	}
	return &Store{db: db}, nil
}

// NewFromDB wraps an existing sql.DB.
func NewFromDB(db *sql.DB) *Store {
	return &Store{db: db}
}

// Migrate creates the history tables.
func (s *Store) Migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS table_sessions (
			id TEXT PRIMARY KEY,
			started_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			ended_at DATETIME,
			start_balance REAL NOT NULL DEFAULT 0,
			final_balance REAL,
			total_spins INTEGER NOT NULL DEFAULT 0,
			total_bets INTEGER NOT NULL DEFAULT 0,
			wins INTEGER NOT NULL DEFAULT 0,
			losses INTEGER NOT NULL DEFAULT 0,
			total_won REAL NOT NULL DEFAULT 0,
			total_lost REAL NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS session_spins (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL,
			seq INTEGER NOT NULL,
			pocket INTEGER NOT NULL,
			color TEXT NOT NULL,
			bet_count INTEGER NOT NULL,
			staked REAL NOT NULL,
			payout REAL NOT NULL,
			net REAL NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (session_id) REFERENCES table_sessions(id) ON DELETE CASCADE
		)`,
		`CREATE INDEX IF NOT EXISTS idx_session_spins_session ON session_spins(session_id)`,
		`CREATE INDEX IF NOT EXISTS idx_session_spins_session_seq ON session_spins(session_id, seq)`,
	}
	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("history: migrate: %w", err)
		}
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// CreateSession inserts a new table session and returns its ID.
func (s *Store) CreateSession(startBalance float64) (string, error) {
	id := uuid.NewString()
	_, err := s.db.Exec(
		`INSERT INTO table_sessions (id, start_balance) VALUES (?, ?)`,
		id, startBalance,
	)
	if err != nil {
		return "", fmt.Errorf("history: create session: %w", err)
	}
	return id, nil
}

// EndSession marks a session as ended with its closing aggregates.
func (s *Store) EndSession(id string, totals SessionTotals) error {
	_, err := s.db.Exec(
		`UPDATE table_sessions SET
			ended_at = ?, final_balance = ?,
			total_spins = ?, total_bets = ?, wins = ?, losses = ?,
			total_won = ?, total_lost = ?
		 WHERE id = ?`,
		time.Now(), totals.FinalBalance,
		totals.TotalSpins, totals.TotalBets, totals.Wins, totals.Losses,
		totals.TotalWon, totals.TotalLost,
		id,
	)
	if err != nil {
		return fmt.Errorf("history: end session: %w", err)
	}
	return nil
}

// InsertSpin records a single resolved spin.
func (s *Store) InsertSpin(sessionID string, spin Spin) error {
	_, err := s.db.Exec(
		`INSERT INTO session_spins (session_id, seq, pocket, color, bet_count, staked, payout, net)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		sessionID, spin.Seq, spin.Pocket, spin.Color, spin.BetCount, spin.Staked, spin.Payout, spin.Net,
	)
	if err != nil {
		return fmt.Errorf("history: insert spin: %w", err)
	}
	return nil
}

// InsertSpinsBatch records multiple spins in a single transaction.
func (s *Store) InsertSpinsBatch(sessionID string, spins []Spin) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("history: begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(
		`INSERT INTO session_spins (session_id, seq, pocket, color, bet_count, staked, payout, net)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return fmt.Errorf("history: prepare: %w", err)
	}
	defer stmt.Close()

	for _, sp := range spins {
		if _, err := stmt.Exec(sessionID, sp.Seq, sp.Pocket, sp.Color, sp.BetCount, sp.Staked, sp.Payout, sp.Net); err != nil {
			return fmt.Errorf("history: insert spin #%d: %w", sp.Seq, err)
		}
	}
	return tx.Commit()
}

// GetSession fetches a session by ID.
func (s *Store) GetSession(id string) (*TableSession, error) {
	sess := &TableSession{}
	err := s.db.QueryRow(
		`SELECT id, started_at, ended_at, start_balance, final_balance,
		        total_spins, total_bets, wins, losses, total_won, total_lost
		 FROM table_sessions WHERE id = ?`, id,
	).Scan(
		&sess.ID, &sess.StartedAt, &sess.EndedAt, &sess.StartBalance, &sess.FinalBalance,
		&sess.TotalSpins, &sess.TotalBets, &sess.Wins, &sess.Losses, &sess.TotalWon, &sess.TotalLost,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("history: session %q not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("history: get session: %w", err)
	}
	return sess, nil
}

// ListSessions returns sessions newest first, plus the total count.
func (s *Store) ListSessions(limit, offset int) ([]TableSession, int, error) {
	if limit <= 0 {
		limit = 20
	}

	var total int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM table_sessions").Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("history: count sessions: %w", err)
	}

	rows, err := s.db.Query(
		`SELECT id, started_at, ended_at, start_balance, final_balance,
		        total_spins, total_bets, wins, losses, total_won, total_lost
		 FROM table_sessions ORDER BY started_at DESC LIMIT ? OFFSET ?`,
		limit, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("history: list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []TableSession
	for rows.Next() {
		sess := TableSession{}
		err := rows.Scan(
			&sess.ID, &sess.StartedAt, &sess.EndedAt, &sess.StartBalance, &sess.FinalBalance,
			&sess.TotalSpins, &sess.TotalBets, &sess.Wins, &sess.Losses, &sess.TotalWon, &sess.TotalLost,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("history: scan session: %w", err)
		}
		sessions = append(sessions, sess)
	}

	return sessions, total, nil
}

// GetSessionSpins returns paginated spins for a session, newest first.
func (s *Store) GetSessionSpins(sessionID string, page, perPage int) (*SpinsPage, error) {
	if page < 1 {
		page = 1
	}
	if perPage <= 0 {
		perPage = 50
	}
	offset := (page - 1) * perPage

	var total int
	if err := s.db.QueryRow(
		"SELECT COUNT(*) FROM session_spins WHERE session_id = ?", sessionID,
	).Scan(&total); err != nil {
		return nil, fmt.Errorf("history: count spins: %w", err)
	}

	rows, err := s.db.Query(
		`SELECT id, session_id, seq, pocket, color, bet_count, staked, payout, net, created_at
		 FROM session_spins WHERE session_id = ? ORDER BY seq DESC LIMIT ? OFFSET ?`,
		sessionID, perPage, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("history: get session spins: %w", err)
	}
	defer rows.Close()

	var spins []Spin
	for rows.Next() {
		sp := Spin{}
		if err := rows.Scan(&sp.ID, &sp.SessionID, &sp.Seq, &sp.Pocket, &sp.Color, &sp.BetCount, &sp.Staked, &sp.Payout, &sp.Net, &sp.CreatedAt); err != nil {
			return nil, fmt.Errorf("history: scan spin: %w", err)
		}
		spins = append(spins, sp)
	}

	totalPages := total / perPage
	if total%perPage > 0 {
		totalPages++
	}

	return &SpinsPage{
		Spins:      spins,
		TotalCount: total,
		Page:       page,
		PerPage:    perPage,
		TotalPages: totalPages,
	}, nil
}

// DeleteSession removes a session and all of its spins.
func (s *Store) DeleteSession(id string) error {
	// CASCADE on the foreign key removes the spins.
	_, err := s.db.Exec("DELETE FROM table_sessions WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("history: delete session: %w", err)
	}
	return nil
}

// ExportCSV writes every spin of a session to w, oldest first.
// Header: seq,pocket,color,bet_count,staked,payout,net,created_at
func (s *Store) ExportCSV(w io.Writer, sessionID string) error {
	rows, err := s.db.Query(
		`SELECT seq, pocket, color, bet_count, staked, payout, net, created_at
		 FROM session_spins WHERE session_id = ? ORDER BY seq ASC`,
		sessionID,
	)
	if err != nil {
		return fmt.Errorf("history: export query: %w", err)
	}
	defer rows.Close()

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"seq", "pocket", "color", "bet_count", "staked", "payout", "net", "created_at"}); err != nil {
		return fmt.Errorf("history: export header: %w", err)
	}

	for rows.Next() {
		var seq, pocket, betCount int
		var color string
		var staked, payout, net float64
		var createdAt time.Time
		if err := rows.Scan(&seq, &pocket, &color, &betCount, &staked, &payout, &net, &createdAt); err != nil {
			return fmt.Errorf("history: export scan: %w", err)
		}
		rec := []string{
			strconv.Itoa(seq),
			strconv.Itoa(pocket),
			color,
			strconv.Itoa(betCount),
			strconv.FormatFloat(staked, 'f', -1, 64),
			strconv.FormatFloat(payout, 'f', -1, 64),
			strconv.FormatFloat(net, 'f', -1, 64),
			createdAt.UTC().Format(time.RFC3339),
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("history: export row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
