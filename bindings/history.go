package bindings

import (
	"context"
	"fmt"
	"strings"

	"github.com/spinroom/roulette-sim-go/internal/history"
)

// HistoryModule is the Wails-bound struct for browsing past table sessions.
type HistoryModule struct {
	ctx   context.Context
	store *history.Store
}

// NewHistoryModule creates a HistoryModule over the shared store.
func NewHistoryModule(store *history.Store) *HistoryModule {
	return &HistoryModule{store: store}
}

// Startup is called by Wails on application startup.
func (hm *HistoryModule) Startup(ctx context.Context) {
	hm.ctx = ctx
}

// SessionList is the frontend-facing session listing.
type SessionList struct {
	Sessions []history.TableSession `json:"sessions"`
	Total    int                    `json:"total"`
}

// ListSessions returns past sessions, newest first.
func (hm *HistoryModule) ListSessions(limit, offset int) (SessionList, error) {
	sessions, total, err := hm.store.ListSessions(limit, offset)
	if err != nil {
		return SessionList{}, err
	}
	return SessionList{Sessions: sessions, Total: total}, nil
}

// GetSession returns one session by ID.
func (hm *HistoryModule) GetSession(id string) (*history.TableSession, error) {
	return hm.store.GetSession(id)
}

// GetSessionSpins returns one page of a session's spins, newest first.
func (hm *HistoryModule) GetSessionSpins(id string, page, perPage int) (*history.SpinsPage, error) {
	return hm.store.GetSessionSpins(id, page, perPage)
}

// DeleteSession removes a session and its spins.
func (hm *HistoryModule) DeleteSession(id string) error {
	return hm.store.DeleteSession(id)
}

// ExportSessionCSV returns a session's spins as CSV text for the frontend
// to hand off to a save dialog.
func (hm *HistoryModule) ExportSessionCSV(id string) (string, error) {
	var sb strings.Builder
	if err := hm.store.ExportCSV(&sb, id); err != nil {
		return "", fmt.Errorf("bindings: export session: %w", err)
	}
	return sb.String(), nil
}
