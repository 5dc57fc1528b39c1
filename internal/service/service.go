package service

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/ginext"

	"sessionhub/internal/codes"
	"sessionhub/internal/dto"
	"sessionhub/internal/lookup"
	"sessionhub/internal/model"
	"sessionhub/internal/notify"
	"sessionhub/internal/repo"
	"sessionhub/pkg/validator"
)

type Service interface {
	CreateSession(ctx *ginext.Context)
	ListSessions(ctx *ginext.Context)
	GetSession(ctx *ginext.Context)
	ManageSession(ctx *ginext.Context)
	UpdateSession(ctx *ginext.Context)
	DeleteSession(ctx *ginext.Context)
	Join(ctx *ginext.Context)
	Leave(ctx *ginext.Context)
	RemoveAttendee(ctx *ginext.Context)
	CountAttendees(ctx *ginext.Context)
}

type service struct {
	repo     repo.Repository
	log      *zerolog.Logger
	notifier notify.Notifier
}

func NewService(repo repo.Repository, logger *zerolog.Logger, notifier notify.Notifier) Service {
	return &service{
		repo:     repo,
		log:      logger,
		notifier: notifier,
	}
}

// resolve maps the :idOrCode path segment to a session row, writing
// the 404/500 response itself when that fails.
func (s *service) resolve(ctx *ginext.Context) (*model.Session, bool) {
	l := lookup.Parse(ctx.Param("idOrCode"))
	session, err := s.repo.ResolveSession(ctx.Request.Context(), l)
	if err != nil {
		if errors.Is(err, repo.ErrSessionNotFound) {
			dto.SessionNotFoundError(ctx)
		} else {
			s.log.Error().Err(err).Msg("failed to resolve session")
			dto.InternalServerError(ctx)
		}
		return nil, false
	}
	return session, true
}

// authorize gates mutating operations behind the management code from
// the ?code= query parameter. Plain string equality, per the model:
// the code itself is the whole credential.
func (s *service) authorize(ctx *ginext.Context, session *model.Session) bool {
	if ctx.Query("code") != session.ManagementCode {
		dto.InvalidManagementCodeError(ctx)
		return false
	}
	return true
}

func (s *service) CreateSession(ctx *ginext.Context) {
	var req dto.CreateSessionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		s.log.Error().Err(err).Msg("failed to parse create session request")
		dto.BadRequestError(ctx, "Invalid JSON format")
		return
	}

	if verr := validator.Validate(ctx, req); verr != nil {
		s.log.Error().Msgf("validation failed: %v", verr)
		dto.BadRequestError(ctx, fmt.Sprintf("%v", verr))
		return
	}

	startTime, err := req.ResolveStartTime()
	if err != nil {
		dto.BadRequestError(ctx, err.Error())
		return
	}

	managementCode, err := codes.NewManagementCode()
	if err != nil {
		s.log.Error().Err(err).Msg("failed to generate management code")
		dto.InternalServerError(ctx)
		return
	}

	session := &model.Session{
		Title:           req.Title,
		Description:     req.Description,
		StartTime:       startTime,
		MaxParticipants: req.MaxParticipants,
		Type:            req.Type,
		ManagementCode:  managementCode,
		CreatorEmail:    optional(req.CreatorEmail),
		Location:        optional(req.Location),
		Latitude:        req.Latitude,
		Longitude:       req.Longitude,
	}

	if req.Type == model.TypePrivate {
		privateCode, err := codes.NewPrivateCode()
		if err != nil {
			s.log.Error().Err(err).Msg("failed to generate private code")
			dto.InternalServerError(ctx)
			return
		}
		session.PrivateCode = &privateCode
	}

	id, err := s.repo.CreateSession(ctx.Request.Context(), session)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to create session in DB")
		dto.InternalServerError(ctx)
		return
	}

	s.log.Info().Int64("session_id", id).Str("type", session.Type).Msg("session created successfully")

	dto.SuccessCreatedResponse(ctx, dto.NewSessionWithCodesResponse(session))
}

func (s *service) ListSessions(ctx *ginext.Context) {
	sessions, err := s.repo.ListPublicSessions(ctx.Request.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("failed to list sessions")
		dto.InternalServerError(ctx)
		return
	}

	resp := make([]dto.SessionResponse, 0, len(sessions))
	for i := range sessions {
		resp = append(resp, dto.NewSessionResponse(&sessions[i]))
	}

	dto.SuccessResponseOK(ctx, resp)
}

func (s *service) GetSession(ctx *ginext.Context) {
	session, ok := s.resolve(ctx)
	if !ok {
		return
	}

	dto.SuccessResponseOK(ctx, dto.NewSessionResponse(session))
}

func (s *service) ManageSession(ctx *ginext.Context) {
	session, ok := s.resolve(ctx)
	if !ok {
		return
	}
	if !s.authorize(ctx, session) {
		return
	}

	attendees, err := s.repo.ListAttendance(ctx.Request.Context(), session.ID)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to list attendance for manage view")
		dto.InternalServerError(ctx)
		return
	}

	resp := dto.ManageViewResponse{
		Session:   dto.NewSessionWithCodesResponse(session),
		Attendees: make([]dto.AttendeeResponse, 0, len(attendees)),
	}
	for i := range attendees {
		resp.Attendees = append(resp.Attendees, dto.NewAttendeeResponse(&attendees[i]))
	}

	dto.SuccessResponseOK(ctx, resp)
}

func (s *service) UpdateSession(ctx *ginext.Context) {
	session, ok := s.resolve(ctx)
	if !ok {
		return
	}
	if !s.authorize(ctx, session) {
		return
	}

	var req dto.UpdateSessionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		dto.BadRequestError(ctx, "Invalid JSON format")
		return
	}

	if verr := validator.Validate(ctx, req); verr != nil {
		dto.BadRequestError(ctx, fmt.Sprintf("%v", verr))
		return
	}

	patch, err := req.Patch()
	if err != nil {
		dto.BadRequestError(ctx, err.Error())
		return
	}

	updated, err := s.repo.UpdateSessionTx(ctx.Request.Context(), session.ID, patch)
	if err != nil {
		if errors.Is(err, repo.ErrSessionNotFound) {
			dto.SessionNotFoundError(ctx)
			return
		}
		s.log.Error().Err(err).Msg("failed to update session")
		dto.InternalServerError(ctx)
		return
	}

	s.log.Info().Int64("session_id", session.ID).Msg("session updated successfully")

	dto.SuccessResponseOK(ctx, dto.NewSessionWithCodesResponse(updated))
}

func (s *service) DeleteSession(ctx *ginext.Context) {
	session, ok := s.resolve(ctx)
	if !ok {
		return
	}
	if !s.authorize(ctx, session) {
		return
	}

	if err := s.repo.DeleteSessionTx(ctx.Request.Context(), session.ID); err != nil {
		if errors.Is(err, repo.ErrSessionNotFound) {
			dto.SessionNotFoundError(ctx)
			return
		}
		s.log.Error().Err(err).Msg("failed to delete session")
		dto.InternalServerError(ctx)
		return
	}

	s.log.Info().Int64("session_id", session.ID).Msg("session deleted successfully")

	dto.SuccessResponseOK(ctx, dto.SuccessResponse{Success: true})
}

func (s *service) Join(ctx *ginext.Context) {
	session, ok := s.resolve(ctx)
	if !ok {
		return
	}

	var req dto.JoinRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		dto.BadRequestError(ctx, "Invalid JSON format")
		return
	}

	if verr := validator.Validate(ctx, req); verr != nil {
		dto.BadRequestError(ctx, fmt.Sprintf("%v", verr))
		return
	}

	attendanceCode, err := codes.NewAttendanceCode()
	if err != nil {
		s.log.Error().Err(err).Msg("failed to generate attendance code")
		dto.InternalServerError(ctx)
		return
	}

	attendance := &model.Attendance{
		SessionID:      session.ID,
		AttendeeName:   optional(req.AttendeeName),
		AttendeeEmail:  optional(req.AttendeeEmail),
		AttendeePhone:  optional(req.AttendeePhone),
		AttendanceCode: attendanceCode,
	}

	id, err := s.repo.JoinSessionTx(ctx.Request.Context(), attendance)
	if err != nil {
		switch {
		case errors.Is(err, repo.ErrSessionNotFound):
			dto.SessionNotFoundError(ctx)
		case errors.Is(err, repo.ErrSessionFull):
			dto.BadRequestError(ctx, dto.MsgSessionFull)
		default:
			s.log.Error().Err(err).Msg("failed to join session")
			dto.InternalServerError(ctx)
		}
		return
	}

	s.log.Info().Int64("attendance_id", id).Int64("session_id", session.ID).Msg("attendee joined successfully")

	s.publish(notify.EventJoined, session, req.AttendeeEmail)

	dto.SuccessResponseOK(ctx, dto.JoinResponse{
		Success:        true,
		AttendanceCode: attendanceCode,
	})
}

func (s *service) Leave(ctx *ginext.Context) {
	session, ok := s.resolve(ctx)
	if !ok {
		return
	}

	attendanceCode := ctx.Param("attendanceCode")
	if err := s.repo.DeleteAttendance(ctx.Request.Context(), session.ID, attendanceCode); err != nil {
		if errors.Is(err, repo.ErrAttendanceNotFound) {
			dto.NotFoundError(ctx, dto.MsgInvalidAttendanceCode)
			return
		}
		s.log.Error().Err(err).Msg("failed to leave session")
		dto.InternalServerError(ctx)
		return
	}

	s.log.Info().Int64("session_id", session.ID).Msg("attendee left successfully")

	dto.SuccessResponseOK(ctx, dto.SuccessResponse{Success: true})
}

func (s *service) RemoveAttendee(ctx *ginext.Context) {
	session, ok := s.resolve(ctx)
	if !ok {
		return
	}
	if !s.authorize(ctx, session) {
		return
	}

	attendanceCode := ctx.Param("attendanceCode")

	// Look the attendee up before deleting so the removal notice still
	// has an address to go to.
	var removedEmail string
	if attendees, err := s.repo.ListAttendance(ctx.Request.Context(), session.ID); err == nil {
		for i := range attendees {
			if attendees[i].AttendanceCode == attendanceCode && attendees[i].AttendeeEmail != nil {
				removedEmail = *attendees[i].AttendeeEmail
				break
			}
		}
	}

	if err := s.repo.DeleteAttendance(ctx.Request.Context(), session.ID, attendanceCode); err != nil {
		if errors.Is(err, repo.ErrAttendanceNotFound) {
			dto.NotFoundError(ctx, dto.MsgAttendeeNotFound)
			return
		}
		s.log.Error().Err(err).Msg("failed to remove attendee")
		dto.InternalServerError(ctx)
		return
	}

	s.log.Info().Int64("session_id", session.ID).Msg("attendee removed by organizer")

	s.publish(notify.EventRemoved, session, removedEmail)

	dto.SuccessResponseOK(ctx, dto.SuccessResponse{Success: true})
}

func (s *service) CountAttendees(ctx *ginext.Context) {
	// A numeric id counts directly: a deleted session simply has zero
	// rows. Only a private code needs resolving (and can 404).
	l := lookup.Parse(ctx.Param("idOrCode"))
	sessionID := l.ID
	if !l.ByID() {
		session, ok := s.resolve(ctx)
		if !ok {
			return
		}
		sessionID = session.ID
	}

	count, err := s.repo.CountAttendance(ctx.Request.Context(), sessionID)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to count attendance")
		dto.InternalServerError(ctx)
		return
	}

	dto.SuccessResponseOK(ctx, dto.CountResponse{Count: count})
}

func (s *service) publish(event notify.Event, session *model.Session, attendeeEmail string) {
	if s.notifier == nil || attendeeEmail == "" {
		return
	}
	msg := notify.Message{
		Event:         event,
		SessionID:     session.ID,
		SessionTitle:  session.Title,
		StartTime:     session.StartTime,
		AttendeeEmail: attendeeEmail,
	}
	if err := s.notifier.Notify(msg); err != nil {
		s.log.Warn().Err(err).Msg("failed to publish notification message")
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
