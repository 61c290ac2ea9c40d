// file: internals/features/quiz/questions/controller/random_questions_controller.go
package controller

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	qdto "quiz_session_backend/internals/features/quiz/questions/dto"
	qservice "quiz_session_backend/internals/features/quiz/questions/service"
	helper "quiz_session_backend/internals/helpers"
)

/* ============================================================
   Controller (admin / debug: exposes is_correct & answer)
============================================================ */

type RandomQuestionsController struct {
	Store     qservice.Store
	MaxSample int
	Log       logrus.FieldLogger
}

func NewRandomQuestionsController(store qservice.Store, maxSample int, log logrus.FieldLogger) *RandomQuestionsController {
	if maxSample <= 0 {
		maxSample = 50
	}
	return &RandomQuestionsController{
		Store:     store,
		MaxSample: maxSample,
		Log:       log.WithField("component", "random_questions_controller"),
	}
}

// GET /maquestions/random/:n
func (ctl *RandomQuestionsController) RandomMa(c *fiber.Ctx) error {
	n, err := ctl.parseCount(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	rows, err := ctl.Store.SampleMaQuestions(c.UserContext(), n)
	if err != nil {
		return ctl.storeError(c, err)
	}
	return helper.JsonOK(c, "ok", qdto.ToMaQuestionResponses(rows))
}

// GET /tfquestions/random/:n
func (ctl *RandomQuestionsController) RandomTf(c *fiber.Ctx) error {
	n, err := ctl.parseCount(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	rows, err := ctl.Store.SampleTfQuestions(c.UserContext(), n)
	if err != nil {
		return ctl.storeError(c, err)
	}
	return helper.JsonOK(c, "ok", qdto.ToTfQuestionResponses(rows))
}

/* ============================================================
   Tiny helpers
============================================================ */

func (ctl *RandomQuestionsController) parseCount(c *fiber.Ctx) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(c.Params("n")))
	if err != nil || n < 1 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "n must be a positive integer")
	}
	if n > ctl.MaxSample {
		return 0, fiber.NewError(fiber.StatusBadRequest, "n must not exceed "+strconv.Itoa(ctl.MaxSample))
	}
	return n, nil
}

func (ctl *RandomQuestionsController) storeError(c *fiber.Ctx, err error) error {
	ctl.Log.WithError(err).Error("question sampling failed")
	if errors.Is(err, qservice.ErrStoreUnavailable) {
		return helper.JsonError(c, fiber.StatusServiceUnavailable, "question store unavailable")
	}
	return helper.JsonError(c, fiber.StatusInternalServerError, "")
}
