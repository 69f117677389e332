package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	rfqcontroller "procureku_backend/internals/features/procurement/rfqs/controller"
)

/*
Catatan:
- Parent router sudah di-mount dengan prefix /api/a + middleware auth & role
  (owner/admin/procurement_officer).
- Publikasi RFQ & fan-out undangan supplier ditangani service lain; endpoint
  submission di sini hanya internal bridge untuk mencatat bid yang masuk.
*/

func RFQAdminRoutes(r fiber.Router, db *gorm.DB) {
	// Base: /api/a/rfqs
	g := r.Group("/rfqs")
	ctrl := rfqcontroller.NewRFQController(db)

	g.Get("/", ctrl.List)         // GET  /api/a/rfqs
	g.Get("/list", ctrl.List)     // alias
	g.Post("/", ctrl.Create)      // POST /api/a/rfqs
	g.Get("/:id", ctrl.GetByID)   // GET  /api/a/rfqs/:id
	g.Post("/:id/publish", ctrl.Publish) // POST /api/a/rfqs/:id/publish
	g.Post("/:id/close", ctrl.Close)     // POST /api/a/rfqs/:id/close

	g.Get("/:id/submissions", ctrl.ListSubmissions)   // GET  /api/a/rfqs/:id/submissions
	g.Post("/:id/submissions", ctrl.CreateSubmission) // POST /api/a/rfqs/:id/submissions
}
