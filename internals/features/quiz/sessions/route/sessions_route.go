package route

import (
	"github.com/gofiber/fiber/v2"

	scontroller "quiz_session_backend/internals/features/quiz/sessions/controller"
)

/*
Catatan:
- POST /sessions                 → buat sesi (409 kalau user masih punya sesi aktif)
- GET  /sessions/:id             → status, tanpa is_correct / answer
- POST /sessions/:id/answers     → submit + scoring (sekali saja)
- POST /sessions/:id/end         → selesaikan tanpa scoring
*/

func SessionsRoutes(r fiber.Router, ctl *scontroller.SessionsController) {
	g := r.Group("/sessions")

	g.Post("/", ctl.Create)
	g.Get("/:id", ctl.Status)
	g.Post("/:id/answers", ctl.SubmitAnswers)
	g.Post("/:id/end", ctl.End)
}
