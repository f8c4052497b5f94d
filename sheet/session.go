// Package sheet exposes the grid engine over HTTP: each open sheet is
// an in-memory edit session addressed by a session id.
package sheet

import (
	"fmt"
	"sync"

	"tally/grid"
	"tally/model"
)

// Kind tells the save path how to persist a session.
type Kind int

const (
	KindSheet Kind = iota
	KindRegister
	KindQuery
)

// Session is one open grid with its header context. Handlers lock it
// around every grid mutation.
type Session struct {
	ID     int64
	Kind   Kind
	Table  string
	Header model.SheetHeader
	Grid   *grid.Sheet

	mu sync.Mutex
}

func (s *Session) Lock()   { s.mu.Lock() }
func (s *Session) Unlock() { s.mu.Unlock() }

// Store keeps the live sessions. Saving or closing drops them; an
// abandoned session just stays until process exit, like an unsaved
// window.
type Store struct {
	mu       sync.Mutex
	seq      int64
	sessions map[int64]*Session
}

func NewStore() *Store {
	return &Store{sessions: map[int64]*Session{}}
}

func (st *Store) Add(kind Kind, table string, header model.SheetHeader, g *grid.Sheet) *Session {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.seq++
	s := &Session{ID: st.seq, Kind: kind, Table: table, Header: header, Grid: g}
	st.sessions[s.ID] = s
	return s
}

func (st *Store) Get(id int64) (*Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.sessions[id]
	if !ok {
		return nil, fmt.Errorf("no such session: %d", id)
	}
	return s, nil
}

func (st *Store) Drop(id int64) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sessions, id)
}
