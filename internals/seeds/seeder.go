package seeds

import (
	"log"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	roomModel "hostelku_backend/internals/features/hostel/rooms/model"
	studentModel "hostelku_backend/internals/features/hostel/students/model"
	studentService "hostelku_backend/internals/features/hostel/students/service"
	authModel "hostelku_backend/internals/features/users/auth/model"
	authService "hostelku_backend/internals/features/users/auth/service"
)

// Run mengisi data development: 1 admin, 2 kamar + bed, 2 penghuni
// dengan komponen biaya. Idempotent — skip bila data sudah ada.
func Run(db *gorm.DB) {
	log.Println("🌱 Menjalankan seeder...")
	seedAdmin(db)
	seedRooms(db)
	seedStudents(db)
	log.Println("🌱 Seeder selesai")
}

func seedAdmin(db *gorm.DB) {
	var count int64
	if err := db.Model(&authModel.User{}).Count(&count).Error; err != nil || count > 0 {
		return
	}

	svc := authService.NewAuthService(db)
	if _, err := svc.Register(authService.RegisterInput{
		Name:     "admin",
		Email:    "admin@hostelku.local",
		Password: "admin12345",
		Role:     "admin",
	}); err != nil {
		log.Printf("[SEED ERROR] admin: %v", err)
		return
	}
	log.Println("🌱 Admin default dibuat (admin / admin12345)")
}

func seedRooms(db *gorm.DB) {
	var count int64
	if err := db.Model(&roomModel.Room{}).Count(&count).Error; err != nil || count > 0 {
		return
	}

	blockA := "A"
	rooms := []struct {
		number   string
		capacity int
		rate     string
	}{
		{"A-101", 2, "8000.00"},
		{"A-102", 3, "6500.00"},
	}
	for _, r := range rooms {
		room := roomModel.Room{
			RoomNumber:      r.number,
			RoomBlock:       &blockA,
			RoomCapacity:    r.capacity,
			RoomMonthlyRate: decimal.RequireFromString(r.rate),
			RoomAmenities:   datatypes.JSONSlice[string]{"wifi", "lemari"},
		}
		if err := db.Create(&room).Error; err != nil {
			log.Printf("[SEED ERROR] room %s: %v", r.number, err)
			continue
		}
		for i := 0; i < r.capacity; i++ {
			bed := roomModel.Bed{
				BedRoomID: room.RoomID,
				BedLabel:  string(rune('A' + i)),
				BedStatus: roomModel.BedStatusAvailable,
			}
			if err := db.Create(&bed).Error; err != nil {
				log.Printf("[SEED ERROR] bed %s/%s: %v", r.number, bed.BedLabel, err)
			}
		}
	}
	log.Printf("🌱 %d kamar dibuat", len(rooms))
}

func seedStudents(db *gorm.DB) {
	var count int64
	if err := db.Model(&studentModel.Student{}).Count(&count).Error; err != nil || count > 0 {
		return
	}

	var beds []roomModel.Bed
	if err := db.Where("bed_status = ?", roomModel.BedStatusAvailable).
		Order("bed_label ASC").Limit(2).Find(&beds).Error; err != nil {
		log.Printf("[SEED ERROR] ambil bed: %v", err)
		return
	}

	svc := studentService.NewStudentService(db)
	students := []studentService.CreateStudentInput{
		{
			Name:       "Rahul Sharma",
			EnrolledAt: time.Now(),
			Fees: []studentService.FeeComponentInput{
				{FeeType: studentModel.FeeTypeBaseMonthly, Amount: decimal.RequireFromString("8000.00")},
				{FeeType: studentModel.FeeTypeLaundry, Amount: decimal.RequireFromString("500.00")},
			},
		},
		{
			Name:       "Sita Thapa",
			EnrolledAt: time.Now(),
			Fees: []studentService.FeeComponentInput{
				{FeeType: studentModel.FeeTypeBaseMonthly, Amount: decimal.RequireFromString("6500.00")},
				{FeeType: studentModel.FeeTypeFood, Amount: decimal.RequireFromString("3000.00")},
			},
		},
	}
	for i := range students {
		if i < len(beds) {
			students[i].BedID = &beds[i].BedID
		}
		if _, err := svc.Create(students[i]); err != nil {
			log.Printf("[SEED ERROR] student %s: %v", students[i].Name, err)
		}
	}
	log.Printf("🌱 %d penghuni dibuat", len(students))
}
