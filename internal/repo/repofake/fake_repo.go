// Package repofake provides an in-memory Repository for handler tests,
// so the HTTP surface can be exercised without a Postgres instance.
package repofake

import (
	"context"
	"sync"
	"time"

	"sessionhub/internal/codes"
	"sessionhub/internal/lookup"
	"sessionhub/internal/model"
	"sessionhub/internal/repo"
)

type FakeRepo struct {
	mu           sync.Mutex
	sessions     map[int64]*model.Session
	attendance   map[int64]*model.Attendance
	nextSession  int64
	nextAttendee int64
}

func New() *FakeRepo {
	return &FakeRepo{
		sessions:     make(map[int64]*model.Session),
		attendance:   make(map[int64]*model.Attendance),
		nextSession:  1,
		nextAttendee: 1,
	}
}

func (f *FakeRepo) CreateSession(_ context.Context, s *model.Session) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	s.ID = f.nextSession
	f.nextSession++
	now := time.Now().UTC().Truncate(time.Microsecond)
	s.CreatedAt = now
	s.UpdatedAt = now

	stored := *s
	f.sessions[s.ID] = &stored
	return s.ID, nil
}

func (f *FakeRepo) ResolveSession(_ context.Context, l lookup.Lookup) (*model.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if l.ByID() {
		if s, ok := f.sessions[l.ID]; ok {
			cp := *s
			return &cp, nil
		}
		return nil, repo.ErrSessionNotFound
	}
	for _, s := range f.sessions {
		if s.PrivateCode != nil && *s.PrivateCode == l.Code {
			cp := *s
			return &cp, nil
		}
	}
	return nil, repo.ErrSessionNotFound
}

func (f *FakeRepo) ListPublicSessions(_ context.Context) ([]model.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []model.Session
	for _, s := range f.sessions {
		if s.Type == model.TypePublic {
			out = append(out, *s)
		}
	}
	// ascending by start_time
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].StartTime.Before(out[j-1].StartTime); j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out, nil
}

func (f *FakeRepo) UpdateSessionTx(_ context.Context, id int64, patch model.SessionPatch) (*model.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	s, ok := f.sessions[id]
	if !ok {
		return nil, repo.ErrSessionNotFound
	}

	patch.Apply(s)
	switch {
	case s.Type == model.TypePrivate && s.PrivateCode == nil:
		code, err := codes.NewPrivateCode()
		if err != nil {
			return nil, err
		}
		s.PrivateCode = &code
	case s.Type == model.TypePublic:
		s.PrivateCode = nil
	}
	s.UpdatedAt = time.Now().UTC().Truncate(time.Microsecond)

	cp := *s
	return &cp, nil
}

func (f *FakeRepo) DeleteSessionTx(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.sessions[id]; !ok {
		return repo.ErrSessionNotFound
	}
	delete(f.sessions, id)
	for aid, a := range f.attendance {
		if a.SessionID == id {
			delete(f.attendance, aid)
		}
	}
	return nil
}

func (f *FakeRepo) JoinSessionTx(_ context.Context, a *model.Attendance) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	s, ok := f.sessions[a.SessionID]
	if !ok {
		return 0, repo.ErrSessionNotFound
	}
	if !s.Unlimited() {
		count := 0
		for _, att := range f.attendance {
			if att.SessionID == a.SessionID {
				count++
			}
		}
		if count >= *s.MaxParticipants {
			return 0, repo.ErrSessionFull
		}
	}

	a.ID = f.nextAttendee
	f.nextAttendee++
	a.CreatedAt = time.Now().UTC().Truncate(time.Microsecond)

	stored := *a
	f.attendance[a.ID] = &stored
	return a.ID, nil
}

func (f *FakeRepo) DeleteAttendance(_ context.Context, sessionID int64, attendanceCode string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for id, a := range f.attendance {
		if a.SessionID == sessionID && a.AttendanceCode == attendanceCode {
			delete(f.attendance, id)
			return nil
		}
	}
	return repo.ErrAttendanceNotFound
}

func (f *FakeRepo) CountAttendance(_ context.Context, sessionID int64) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	count := 0
	for _, a := range f.attendance {
		if a.SessionID == sessionID {
			count++
		}
	}
	return count, nil
}

func (f *FakeRepo) ListAttendance(_ context.Context, sessionID int64) ([]model.Attendance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []model.Attendance
	for _, a := range f.attendance {
		if a.SessionID == sessionID {
			out = append(out, *a)
		}
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].ID < out[j-1].ID; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out, nil
}

func (f *FakeRepo) MigrateUp(string) error   { return nil }
func (f *FakeRepo) MigrateDown(string) error { return nil }
