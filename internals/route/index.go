// file: internals/route/index.go
package routes

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"procureku_backend/internals/constants"
	evalroute "procureku_backend/internals/features/procurement/evaluations/route"
	rfqroute "procureku_backend/internals/features/procurement/rfqs/route"
	authmw "procureku_backend/internals/middlewares/auth"
)

var startTime time.Time

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	startTime = time.Now()

	BaseRoutes(app, db)

	// ===================== AUTHENTICATED =====================
	log.Println("[INFO] Setting up authenticated API group...")
	api := app.Group("/api", authmw.AuthMiddleware())

	// Engine evaluasi (role guard per operasi di dalam)
	evalroute.EvaluationRoutes(api, db)

	// ===================== ADMIN =====================
	log.Println("[INFO] Setting up ADMIN group (Auth + RoleCheck)...")
	admin := app.Group("/api/a",
		authmw.AuthMiddleware(),
		authmw.OnlyRoles(
			"Hanya owner/admin/procurement officer yang boleh mengakses",
			constants.ManagementRoles...,
		),
	)
	rfqroute.RFQAdminRoutes(admin, db)
}
