package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/example/brritto/internal/config"
	"github.com/example/brritto/internal/services"
	"github.com/example/brritto/internal/session"
	"github.com/example/brritto/internal/utils"
)

// CatalogHandler serves the public course catalog and the authenticated
// lookup endpoints behind the registration form dropdowns.
type CatalogHandler struct {
	cfg     *config.Config
	courses *services.CourseService
	student *services.StudentService
}

// NewCatalogHandler constructs CatalogHandler.
func NewCatalogHandler(cfg *config.Config, courses *services.CourseService, student *services.StudentService) *CatalogHandler {
	return &CatalogHandler{cfg: cfg, courses: courses, student: student}
}

func (h *CatalogHandler) sessionStore(c *fiber.Ctx) session.Store {
	return session.NewCookieStore(c, h.cfg.SessionCookieName, h.cfg.SessionMaxAge, h.cfg.IsProduction())
}

// ListClasses returns all classes. Public.
func (h *CatalogHandler) ListClasses(c *fiber.Ctx) error {
	result := h.courses.GetClasses()
	return c.JSON(fiber.Map{"success": result.Success, "data": result.Classes})
}

// ListCourses returns a course page, optionally filtered by class. Public.
func (h *CatalogHandler) ListCourses(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c, 10)

	var result services.CoursesResult
	if c.Query("all") == "true" && c.Query("class") != "" {
		result = h.courses.GetAllCoursesForClass(c.Query("class"))
	} else {
		result = h.courses.GetCourses(pg.Page, pg.Limit, c.Query("class"))
	}

	payload := fiber.Map{"success": result.Success, "data": result.Courses}
	if result.Meta != nil {
		payload["pagination"] = result.Meta
	}
	return c.JSON(payload)
}

// GetCourse returns a single course by ID. Public.
func (h *CatalogHandler) GetCourse(c *fiber.Ctx) error {
	result := h.courses.GetCourseDetails(c.Params("id"))
	if !result.Success {
		if result.StatusCode == fiber.StatusNotFound {
			return fiber.NewError(fiber.StatusNotFound, "course not found")
		}
		return fiber.NewError(fiber.StatusBadGateway, result.Message)
	}
	return c.JSON(fiber.Map{"success": true, "data": result.Course})
}

// SearchInstitutions serves the institution picker. Requires a session.
func (h *CatalogHandler) SearchInstitutions(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c, 20)
	result := h.student.SearchInstitutions(h.sessionStore(c), c.Query("term"), pg.Page, pg.Limit)
	if !result.Success {
		return fiber.NewError(fiber.StatusUnauthorized, result.Message)
	}
	return c.JSON(fiber.Map{"success": true, "data": result.Institutions})
}

// SearchDistricts serves the district picker. Requires a session.
func (h *CatalogHandler) SearchDistricts(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c, 20)
	result := h.student.SearchDistricts(h.sessionStore(c), c.Query("term"), pg.Page, pg.Limit)
	if !result.Success {
		return fiber.NewError(fiber.StatusUnauthorized, result.Message)
	}
	return c.JSON(fiber.Map{"success": true, "data": result.Districts})
}

// ListClassOptions serves the class picker. Requires a session.
func (h *CatalogHandler) ListClassOptions(c *fiber.Ctx) error {
	result := h.student.GetClassOptions(h.sessionStore(c))
	if !result.Success {
		return fiber.NewError(fiber.StatusUnauthorized, result.Message)
	}
	return c.JSON(fiber.Map{"success": true, "data": result.Classes})
}
