package validator_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"sessionhub/internal/dto"
	"sessionhub/pkg/validator"
)

func TestValidateCreateSessionRequest(t *testing.T) {
	t.Run("valid public session", func(t *testing.T) {
		req := dto.CreateSessionRequest{Title: "Chess Night", Type: "public"}
		require.NoError(t, validator.Validate(context.Background(), req))
	})

	t.Run("missing title", func(t *testing.T) {
		req := dto.CreateSessionRequest{Type: "public"}
		err := validator.Validate(context.Background(), req)
		require.Error(t, err)
		require.Contains(t, err.Error(), "required")
	})

	t.Run("bad session type", func(t *testing.T) {
		req := dto.CreateSessionRequest{Title: "x", Type: "secret"}
		err := validator.Validate(context.Background(), req)
		require.Error(t, err)
		require.Contains(t, err.Error(), "public")
	})

	t.Run("bad creator email", func(t *testing.T) {
		req := dto.CreateSessionRequest{Title: "x", Type: "public", CreatorEmail: "not-an-email"}
		require.Error(t, validator.Validate(context.Background(), req))
	})

	t.Run("latitude out of range", func(t *testing.T) {
		lat := 120.0
		req := dto.CreateSessionRequest{Title: "x", Type: "public", Latitude: &lat}
		require.Error(t, validator.Validate(context.Background(), req))
	})
}

func TestValidateUpdateSessionRequest(t *testing.T) {
	t.Run("empty update passes", func(t *testing.T) {
		require.NoError(t, validator.Validate(context.Background(), dto.UpdateSessionRequest{}))
	})

	t.Run("bad type pointer", func(t *testing.T) {
		bad := "invite-only"
		req := dto.UpdateSessionRequest{Type: &bad}
		require.Error(t, validator.Validate(context.Background(), req))
	})
}

func TestValidateJoinRequest(t *testing.T) {
	t.Run("name only", func(t *testing.T) {
		require.NoError(t, validator.Validate(context.Background(), dto.JoinRequest{AttendeeName: "Ann"}))
	})

	t.Run("empty join passes", func(t *testing.T) {
		require.NoError(t, validator.Validate(context.Background(), dto.JoinRequest{}))
	})

	t.Run("bad email", func(t *testing.T) {
		req := dto.JoinRequest{AttendeeName: "Ann", AttendeeEmail: "nope"}
		require.Error(t, validator.Validate(context.Background(), req))
	})
}
