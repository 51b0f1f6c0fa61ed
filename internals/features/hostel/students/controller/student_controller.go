package controller

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	configs "hostelku_backend/internals/configs"
	dto "hostelku_backend/internals/features/hostel/students/dto"
	studentModel "hostelku_backend/internals/features/hostel/students/model"
	service "hostelku_backend/internals/features/hostel/students/service"
	helper "hostelku_backend/internals/helpers"
)

type StudentController struct {
	DB      *gorm.DB
	Service *service.StudentService
}

func NewStudentController(db *gorm.DB) *StudentController {
	return &StudentController{DB: db, Service: service.NewStudentService(db)}
}

// =======================================================
// POST /api/a/students
// =======================================================
func (h *StudentController) CreateStudent(c *fiber.Ctx) error {
	var in dto.StudentCreateDTO
	if err := c.BodyParser(&in); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid json")
	}
	if err := helper.ValidateStruct(in); err != nil {
		return helper.ValidationErrorResponse(c, err)
	}

	enrolledAt := time.Now()
	if in.EnrolledAt != nil {
		enrolledAt = *in.EnrolledAt
	}

	fees := make([]service.FeeComponentInput, 0, len(in.Fees))
	for _, f := range in.Fees {
		fees = append(fees, service.FeeComponentInput{
			FeeType: studentModel.FeeType(f.FeeType),
			Amount:  f.Amount,
		})
	}

	st, err := h.Service.Create(service.CreateStudentInput{
		Name:       in.Name,
		Phone:      in.Phone,
		Email:      in.Email,
		Guardian:   in.Guardian,
		BedID:      in.BedID,
		EnrolledAt: enrolledAt,
		Fees:       fees,
	})
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	return helper.JsonCreated(c, "student created", st)
}

// =======================================================
// GET /api/a/students
// =======================================================
func (h *StudentController) ListStudents(c *fiber.Ctx) error {
	var q dto.StudentListQuery
	if err := c.QueryParser(&q); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid query")
	}
	paging := helper.ResolvePaging(c, 25, 200)

	tx := h.DB.Model(&studentModel.Student{})
	if q.Search != "" {
		like := "%" + q.Search + "%"
		tx = tx.Where("student_name ILIKE ? OR student_code ILIKE ?", like, like)
	}
	if q.Status != "" {
		tx = tx.Where("student_status = ?", q.Status)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	var students []studentModel.Student
	if err := tx.
		Order("student_code ASC").
		Offset(paging.Offset).Limit(paging.Limit).
		Find(&students).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	p := helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage)
	return helper.JsonList(c, "students", students, &p)
}

// =======================================================
// GET /api/a/students/:id
// =======================================================
func (h *StudentController) GetStudent(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid id")
	}

	var st studentModel.Student
	if err := h.DB.First(&st, "student_id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return helper.JsonError(c, fiber.StatusNotFound, "student tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	var fees []studentModel.FinancialInfo
	if err := h.DB.
		Where("financial_info_student_id = ?", id).
		Order("financial_info_created_at ASC").
		Find(&fees).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	return helper.JsonOK(c, "student detail", fiber.Map{
		"student": st,
		"fees":    fees,
	})
}

// =======================================================
// PATCH /api/a/students/:id
// =======================================================
func (h *StudentController) UpdateStudent(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid id")
	}

	var in dto.StudentUpdateDTO
	if err := c.BodyParser(&in); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid json")
	}
	if err := helper.ValidateStruct(in); err != nil {
		return helper.ValidationErrorResponse(c, err)
	}

	st, err := h.Service.Update(id, service.UpdateStudentInput{
		Name:     in.Name,
		Phone:    in.Phone,
		Email:    in.Email,
		Guardian: in.Guardian,
	})
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	return helper.JsonUpdated(c, "student updated", st)
}

// =======================================================
// DELETE /api/a/students/:id
// =======================================================
func (h *StudentController) DeleteStudent(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid id")
	}

	if err := h.Service.Delete(id); err != nil {
		return helper.JsonServiceError(c, err)
	}
	return helper.JsonDeleted(c, "student deleted", fiber.Map{"student_id": id})
}

// =======================================================
// POST /api/a/students/:id/bed
// =======================================================
func (h *StudentController) AssignBed(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid id")
	}

	var in dto.AssignBedDTO
	if err := c.BodyParser(&in); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid json")
	}
	if err := helper.ValidateStruct(in); err != nil {
		return helper.ValidationErrorResponse(c, err)
	}

	st, err := h.Service.AssignBed(id, in.BedID)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	return helper.JsonUpdated(c, "bed assigned", st)
}

// =======================================================
// POST /api/a/students/:id/photo (multipart, field "photo")
// =======================================================
func (h *StudentController) UploadPhoto(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid id")
	}

	var st studentModel.Student
	if err := h.DB.First(&st, "student_id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return helper.JsonError(c, fiber.StatusNotFound, "student tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "field photo wajib diisi")
	}

	url, err := helper.SavePhotoWebp(configs.UploadDir, "students", fileHeader)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}

	// Foto lama dibuang best-effort
	if st.StudentPhotoURL != nil {
		_ = helper.DeletePhoto(configs.UploadDir, *st.StudentPhotoURL)
	}

	if err := h.DB.Model(&st).Update("student_photo_url", url).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	st.StudentPhotoURL = &url
	return helper.JsonUpdated(c, "photo uploaded", st)
}

// =======================================================
// POST /api/a/students/:id/fees
// =======================================================
func (h *StudentController) AddFeeComponent(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid id")
	}

	var in dto.FeeComponentCreateDTO
	if err := c.BodyParser(&in); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid json")
	}
	if err := helper.ValidateStruct(in); err != nil {
		return helper.ValidationErrorResponse(c, err)
	}

	effective := time.Now()
	if in.EffectiveFrom != nil {
		effective = *in.EffectiveFrom
	}

	fi, err := h.Service.AddFeeComponent(id, studentModel.FeeType(in.FeeType), in.Amount, effective)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	return helper.JsonCreated(c, "fee component added", fi)
}

// =======================================================
// POST /api/a/students/fees/:feeId/deactivate
// =======================================================
func (h *StudentController) DeactivateFeeComponent(c *fiber.Ctx) error {
	feeID, err := uuid.Parse(c.Params("feeId"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid id")
	}

	fi, err := h.Service.DeactivateFeeComponent(feeID)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	return helper.JsonUpdated(c, "fee component deactivated", fi)
}
