// file: internals/features/quiz/sessions/controller/sessions_controller.go
package controller

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	sdto "quiz_session_backend/internals/features/quiz/sessions/dto"
	ssvc "quiz_session_backend/internals/features/quiz/sessions/service"
	helper "quiz_session_backend/internals/helpers"
)

// SessionLifecycle is what the HTTP layer needs from the session service.
type SessionLifecycle interface {
	CreateSession(ctx context.Context, username string) (*ssvc.Created, error)
	GetStatus(ctx context.Context, sessionID uuid.UUID) (*ssvc.Status, error)
	SubmitAnswers(ctx context.Context, sessionID uuid.UUID, answers []ssvc.SubmittedAnswer) (*ssvc.Submission, error)
	EndSession(ctx context.Context, sessionID uuid.UUID) error
}

/* ============================================================
   Controller
============================================================ */

type SessionsController struct {
	Svc SessionLifecycle
	V   *validator.Validate
	Log logrus.FieldLogger
}

func NewSessionsController(svc SessionLifecycle, log logrus.FieldLogger) *SessionsController {
	return &SessionsController{
		Svc: svc,
		V:   helper.NewValidator(),
		Log: log.WithField("component", "sessions_controller"),
	}
}

func (ctl *SessionsController) ensureValidator() {
	if ctl.V == nil {
		ctl.V = helper.NewValidator()
	}
}

// POST /sessions {username}
func (ctl *SessionsController) Create(c *fiber.Ctx) error {
	ctl.ensureValidator()

	var req sdto.CreateSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	req.Username = strings.TrimSpace(req.Username)
	if err := ctl.V.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	created, err := ctl.Svc.CreateSession(c.UserContext(), req.Username)
	if err != nil {
		return ctl.writeServiceError(c, err)
	}
	return helper.JsonCreated(c, "session created", sdto.ToCreateSessionResponse(created))
}

// GET /sessions/:id
func (ctl *SessionsController) Status(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid session id")
	}

	st, err := ctl.Svc.GetStatus(c.UserContext(), id)
	if err != nil {
		return ctl.writeServiceError(c, err)
	}
	return helper.JsonOK(c, "ok", st)
}

// POST /sessions/:id/answers {answers:[...]}
func (ctl *SessionsController) SubmitAnswers(c *fiber.Ctx) error {
	ctl.ensureValidator()

	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid session id")
	}

	var req sdto.SubmitAnswersRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := ctl.V.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	res, err := ctl.Svc.SubmitAnswers(c.UserContext(), id, req.ToSubmittedAnswers())
	if err != nil {
		return ctl.writeServiceError(c, err)
	}
	return helper.JsonOK(c, "answers submitted", res)
}

// POST /sessions/:id/end
func (ctl *SessionsController) End(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid session id")
	}
	if err := ctl.Svc.EndSession(c.UserContext(), id); err != nil {
		return ctl.writeServiceError(c, err)
	}
	return helper.JsonOK(c, "session ended", fiber.Map{"session_id": id})
}

/* ============================================================
   Error mapping
============================================================ */

func (ctl *SessionsController) writeServiceError(c *fiber.Ctx, err error) error {
	var answerErr *ssvc.AnswerError
	switch {
	case errors.Is(err, ssvc.ErrNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, "session not found")

	case errors.Is(err, ssvc.ErrAlreadyFinished):
		return helper.JsonErrorDetail(c, fiber.StatusBadRequest, helper.ErrorResponse{
			Message:   "session already finished",
			ErrorCode: "ALREADY_FINISHED",
		})

	case errors.As(err, &answerErr):
		details := map[string]any{"session_question_id": answerErr.SessionQuestionID}
		if answerErr.VariantID != uuid.Nil {
			details["variant_id"] = answerErr.VariantID
		}
		msg := "invalid answers"
		if answerErr.Detail != "" {
			msg += ": " + answerErr.Detail
		}
		return helper.JsonErrorDetail(c, fiber.StatusBadRequest, helper.ErrorResponse{
			Message:   msg,
			ErrorCode: "INVALID_ANSWERS",
			Reason:    string(answerErr.Reason),
			Details:   details,
		})

	case errors.Is(err, ssvc.ErrInvalidAnswers):
		return helper.JsonErrorDetail(c, fiber.StatusBadRequest, helper.ErrorResponse{
			Message:   "invalid answers",
			ErrorCode: "INVALID_ANSWERS",
		})

	case errors.Is(err, ssvc.ErrActiveSessionExists):
		return helper.JsonErrorDetail(c, fiber.StatusConflict, helper.ErrorResponse{
			Message:   "user already has an active session",
			ErrorCode: "ACTIVE_SESSION_EXISTS",
		})

	case errors.Is(err, ssvc.ErrInvalidUsername):
		return helper.JsonValidationError(c, map[string][]string{"username": {"required"}})

	case errors.Is(err, ssvc.ErrStoreUnavailable):
		ctl.Log.WithError(err).WithField("path", c.Path()).Error("store unavailable")
		return helper.JsonErrorDetail(c, fiber.StatusServiceUnavailable, helper.ErrorResponse{
			Message:   "storage temporarily unavailable, please retry",
			ErrorCode: "STORE_UNAVAILABLE",
		})
	}

	ctl.Log.WithError(err).WithField("path", c.Path()).Error("unhandled error")
	return helper.JsonError(c, fiber.StatusInternalServerError, "")
}

/* ============================================================
   Tiny helpers
============================================================ */

func parseUUIDParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	s := strings.TrimSpace(c.Params(name))
	return uuid.Parse(s)
}
