package model_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"sessionhub/internal/model"
)

func strptr(s string) *string   { return &s }
func intptr(i int) *int         { return &i }
func f64ptr(f float64) *float64 { return &f }

func baseSession() model.Session {
	return model.Session{
		ID:              7,
		Title:           "Chess Night",
		Description:     "casual games",
		StartTime:       time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC),
		MaxParticipants: intptr(8),
		Type:            model.TypePublic,
		ManagementCode:  "mgmtmgmtmgmt",
	}
}

func TestSessionPatchApply(t *testing.T) {
	t.Run("unset fields stay untouched", func(t *testing.T) {
		s := baseSession()
		model.SessionPatch{Title: strptr("Go Night")}.Apply(&s)

		require.Equal(t, "Go Night", s.Title)
		require.Equal(t, "casual games", s.Description)
		require.Equal(t, 8, *s.MaxParticipants)
		require.Equal(t, model.TypePublic, s.Type)
	})

	t.Run("all fields apply", func(t *testing.T) {
		s := baseSession()
		start := time.Date(2025, 7, 2, 19, 30, 0, 0, time.UTC)
		model.SessionPatch{
			Title:           strptr("Bouldering"),
			Description:     strptr("bring shoes"),
			StartTime:       &start,
			MaxParticipants: intptr(4),
			Type:            strptr(model.TypePrivate),
			Location:        strptr("North Gym"),
			Latitude:        f64ptr(52.5),
			Longitude:       f64ptr(13.4),
		}.Apply(&s)

		require.Equal(t, "Bouldering", s.Title)
		require.Equal(t, "bring shoes", s.Description)
		require.Equal(t, start, s.StartTime)
		require.Equal(t, 4, *s.MaxParticipants)
		require.Equal(t, model.TypePrivate, s.Type)
		require.Equal(t, "North Gym", *s.Location)
	})

	t.Run("empty patch", func(t *testing.T) {
		s := baseSession()
		before := s
		p := model.SessionPatch{}
		require.True(t, p.Empty())
		p.Apply(&s)
		require.Equal(t, before, s)
	})

	t.Run("management code never changes", func(t *testing.T) {
		s := baseSession()
		model.SessionPatch{Title: strptr("x")}.Apply(&s)
		require.Equal(t, "mgmtmgmtmgmt", s.ManagementCode)
	})
}

func TestSessionUnlimited(t *testing.T) {
	s := model.Session{}
	require.True(t, s.Unlimited())

	s.MaxParticipants = intptr(0)
	require.True(t, s.Unlimited())

	s.MaxParticipants = intptr(-1)
	require.True(t, s.Unlimited())

	s.MaxParticipants = intptr(3)
	require.False(t, s.Unlimited())
}
