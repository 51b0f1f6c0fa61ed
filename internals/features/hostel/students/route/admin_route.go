package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	studentController "hostelku_backend/internals/features/hostel/students/controller"
)

func StudentAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := studentController.NewStudentController(db)

	grp := r.Group("/students")
	grp.Post("/", ctrl.CreateStudent)
	grp.Get("/", ctrl.ListStudents)
	grp.Post("/fees/:feeId/deactivate", ctrl.DeactivateFeeComponent)
	grp.Get("/:id", ctrl.GetStudent)
	grp.Patch("/:id", ctrl.UpdateStudent)
	grp.Delete("/:id", ctrl.DeleteStudent)
	grp.Post("/:id/bed", ctrl.AssignBed)
	grp.Post("/:id/photo", ctrl.UploadPhoto)
	grp.Post("/:id/fees", ctrl.AddFeeComponent)
}
