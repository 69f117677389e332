// file: internals/features/procurement/evaluations/route/evaluation_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"procureku_backend/internals/configs"
	"procureku_backend/internals/constants"
	evalcontroller "procureku_backend/internals/features/procurement/evaluations/controller"
	evalservice "procureku_backend/internals/features/procurement/evaluations/service"
	notifsvc "procureku_backend/internals/features/procurement/notifications/service"
	reportsvc "procureku_backend/internals/features/procurement/reports/service"
	rfqservice "procureku_backend/internals/features/procurement/rfqs/service"
	middlewares "procureku_backend/internals/middlewares"
	authmw "procureku_backend/internals/middlewares/auth"
)

/*
Catatan:
- Parent router sudah di-mount dengan prefix /api + AuthMiddleware (JWT).
- Otorisasi per-operasi (capability) ada di service; role guard di sini
  hanya gerbang kasar per group.
*/

func EvaluationRoutes(r fiber.Router, db *gorm.DB) {
	svc := evalservice.NewEvaluationService(
		db,
		rfqservice.NewRFQService(db),
		notifsvc.ResolveNotifier(configs.NotificationHook),
		reportsvc.NewAsyncGenerator(nil),
		evalservice.RoleAuthorizer{},
	)
	ctrl := evalcontroller.NewEvaluationController(db, svc)

	// Base: /api/evaluations
	g := r.Group("/evaluations")

	// Dibaca semua user ber-JWT; blind filtering di service
	g.Get("/", ctrl.List)               // GET    /api/evaluations
	g.Get("/:id", ctrl.GetByID)         // GET    /api/evaluations/:id
	g.Get("/:id/results", ctrl.GetResults)   // GET /api/evaluations/:id/results
	g.Get("/:id/disputes", ctrl.ListDisputes) // GET /api/evaluations/:id/disputes

	// Scoring: evaluator (keanggotaan aktif dicek service)
	g.Post("/:id/score", middlewares.ScoringRateLimiter(), ctrl.SubmitScore) // POST /api/evaluations/:id/score

	// Dispute boleh diangkat siapa pun yang ber-JWT
	g.Post("/:id/dispute", ctrl.RaiseDispute) // POST /api/evaluations/:id/dispute

	// Management ops
	mgmt := g.Group("", authmw.OnlyRoles(
		"Hanya owner/admin/procurement officer yang boleh mengelola evaluasi",
		constants.ManagementRoles...,
	))
	mgmt.Post("/", ctrl.Create)                 // POST   /api/evaluations
	mgmt.Put("/:id", ctrl.Update)               // PUT    /api/evaluations/:id
	mgmt.Post("/:id/start", ctrl.Start)         // POST   /api/evaluations/:id/start
	mgmt.Delete("/:id", ctrl.Cancel)            // DELETE /api/evaluations/:id
	mgmt.Post("/:id/consensus", ctrl.BuildConsensus) // POST /api/evaluations/:id/consensus
	mgmt.Post("/:id/finalize", ctrl.Finalize)        // POST /api/evaluations/:id/finalize
	mgmt.Post("/:id/evaluators", ctrl.AddEvaluator)              // POST   /api/evaluations/:id/evaluators
	mgmt.Delete("/:id/evaluators/:user_id", ctrl.RemoveEvaluator) // DELETE /api/evaluations/:id/evaluators/:user_id
}
