// file: internals/route/index.go
package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	qcontroller "quiz_session_backend/internals/features/quiz/questions/controller"
	qroute "quiz_session_backend/internals/features/quiz/questions/route"
	scontroller "quiz_session_backend/internals/features/quiz/sessions/controller"
	sroute "quiz_session_backend/internals/features/quiz/sessions/route"
)

// Deps is everything the HTTP layer is wired with; built once in main.
type Deps struct {
	DB        *gorm.DB
	Sessions  *scontroller.SessionsController
	Questions *qcontroller.RandomQuestionsController
	Log       logrus.FieldLogger
}

func SetupRoutes(app *fiber.App, deps Deps) {
	startTime := time.Now()

	deps.Log.Info("[INFO] Setting up BaseRoutes...")
	BaseRoutes(app, deps.DB, startTime)

	deps.Log.Info("[INFO] Mounting Session routes...")
	sroute.SessionsRoutes(app, deps.Sessions)

	deps.Log.Info("[INFO] Mounting Question routes (admin/debug)...")
	qroute.RandomQuestionsRoutes(app, deps.Questions)
}
