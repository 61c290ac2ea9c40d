package route

import (
	"github.com/gofiber/fiber/v2"

	qcontroller "quiz_session_backend/internals/features/quiz/questions/controller"
)

/*
Catatan:
- Admin / debug only: response includes is_correct (MA) and answer (TF).
- GET /maquestions/random/:n
- GET /tfquestions/random/:n
*/

func RandomQuestionsRoutes(r fiber.Router, ctl *qcontroller.RandomQuestionsController) {
	r.Get("/maquestions/random/:n", ctl.RandomMa)
	r.Get("/tfquestions/random/:n", ctl.RandomTf)
}
