package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	roomController "hostelku_backend/internals/features/hostel/rooms/controller"
)

func RoomAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := roomController.NewRoomController(db)

	grp := r.Group("/rooms")
	grp.Post("/", ctrl.CreateRoom)
	grp.Get("/", ctrl.ListRooms)
	grp.Get("/beds/available", ctrl.ListAvailableBeds)
	grp.Patch("/beds/:bedId/status", ctrl.SetBedStatus)
	grp.Get("/:id", ctrl.GetRoom)
	grp.Patch("/:id", ctrl.UpdateRoom)
	grp.Post("/:id/beds", ctrl.AddBed)
}
