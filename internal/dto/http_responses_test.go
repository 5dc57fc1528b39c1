package dto_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"sessionhub/internal/dto"
	"sessionhub/internal/model"
)

func TestResolveStartTime(t *testing.T) {
	t.Run("explicit start_time wins", func(t *testing.T) {
		start := time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC)
		req := dto.CreateSessionRequest{StartTime: &start, Date: "2030-01-01", Time: "09:00"}
		got, err := req.ResolveStartTime()
		require.NoError(t, err)
		require.Equal(t, start, got)
	})

	t.Run("date and time combine", func(t *testing.T) {
		req := dto.CreateSessionRequest{Date: "2025-06-01", Time: "18:00"}
		got, err := req.ResolveStartTime()
		require.NoError(t, err)
		require.Equal(t, 2025, got.Year())
		require.Equal(t, time.June, got.Month())
		require.Equal(t, 18, got.Hour())
	})

	t.Run("neither form is an error", func(t *testing.T) {
		req := dto.CreateSessionRequest{}
		_, err := req.ResolveStartTime()
		require.Error(t, err)
	})

	t.Run("malformed date is an error", func(t *testing.T) {
		req := dto.CreateSessionRequest{Date: "June 1st", Time: "18:00"}
		_, err := req.ResolveStartTime()
		require.Error(t, err)
	})
}

func TestUpdateRequestPatch(t *testing.T) {
	title := "new title"
	date := "2025-06-02"
	clock := "19:30"

	t.Run("only set fields land in the patch", func(t *testing.T) {
		req := dto.UpdateSessionRequest{Title: &title}
		p, err := req.Patch()
		require.NoError(t, err)
		require.Equal(t, title, *p.Title)
		require.Nil(t, p.Description)
		require.Nil(t, p.StartTime)
	})

	t.Run("date plus time set the start", func(t *testing.T) {
		req := dto.UpdateSessionRequest{Date: &date, Time: &clock}
		p, err := req.Patch()
		require.NoError(t, err)
		require.NotNil(t, p.StartTime)
		require.Equal(t, 19, p.StartTime.Hour())
	})

	t.Run("date without time leaves start alone", func(t *testing.T) {
		req := dto.UpdateSessionRequest{Date: &date}
		p, err := req.Patch()
		require.NoError(t, err)
		require.Nil(t, p.StartTime)
	})

	t.Run("empty request is an empty patch", func(t *testing.T) {
		p, err := dto.UpdateSessionRequest{}.Patch()
		require.NoError(t, err)
		require.True(t, p.Empty())
	})
}

func TestSecretFieldsStayOutOfPublicPayload(t *testing.T) {
	code := "priv1234"
	s := model.Session{
		ID:             1,
		Title:          "t",
		Type:           model.TypePrivate,
		ManagementCode: "mgmt",
		PrivateCode:    &code,
	}

	public := dto.NewSessionResponse(&s)
	require.Equal(t, s.ID, public.ID)

	privileged := dto.NewSessionWithCodesResponse(&s)
	require.Equal(t, "mgmt", privileged.ManagementCode)
	require.Equal(t, code, *privileged.PrivateCode)
}
