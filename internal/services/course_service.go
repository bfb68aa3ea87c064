package services

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/example/brritto/internal/apiclient"
	"github.com/example/brritto/internal/models"
)

// ClassesResult carries the public class list.
type ClassesResult struct {
	Result
	StatusCode int
	Classes    []models.Class
}

// CoursesResult carries a course page with pagination metadata.
type CoursesResult struct {
	Result
	StatusCode int
	Courses    []models.Course
	Meta       *apiclient.Meta
}

// CourseDetailsResult carries a single course's detail page payload.
type CourseDetailsResult struct {
	Result
	StatusCode int
	Course     *models.CourseDetails
}

// CourseService wraps the public catalog endpoints. None of them require a
// session; failures degrade to empty data rather than erroring the page.
type CourseService struct {
	api *apiclient.Client
	log *zap.SugaredLogger
}

// NewCourseService constructs a CourseService.
func NewCourseService(api *apiclient.Client, log *zap.SugaredLogger) *CourseService {
	return &CourseService{api: api, log: log}
}

// GetClasses fetches all classes sorted by priority.
func (s *CourseService) GetClasses() ClassesResult {
	resp := s.api.Get("/web/classes", "")
	if !resp.Success {
		s.log.Errorw("fetch classes failed", "status", resp.StatusCode, "message", resp.Message)
		return ClassesResult{Result: failure("Failed to fetch classes"), StatusCode: resp.StatusCode, Classes: []models.Class{}}
	}

	classes := decodeList[models.Class](resp)
	return ClassesResult{Result: success(resp.Message), StatusCode: resp.StatusCode, Classes: classes}
}

// GetCourses fetches a paginated course list, optionally filtered by class.
func (s *CourseService) GetCourses(page, limit int, classID string) CoursesResult {
	endpoint := fmt.Sprintf("/web/courses?page=%d&limit=%d", page, limit)
	if classID != "" {
		endpoint += "&class=" + classID
	}

	resp := s.api.Get(endpoint, "")
	if !resp.Success {
		s.log.Errorw("fetch courses failed", "status", resp.StatusCode, "message", resp.Message)
		return CoursesResult{Result: failure("Failed to fetch courses"), StatusCode: resp.StatusCode, Courses: []models.Course{}}
	}

	courses := decodeList[models.Course](resp)
	return CoursesResult{Result: success(resp.Message), StatusCode: resp.StatusCode, Courses: courses, Meta: resp.Meta}
}

// GetAllCoursesForClass fetches every course of a class in one page, for
// pages that must list the complete set.
func (s *CourseService) GetAllCoursesForClass(classID string) CoursesResult {
	return s.GetCourses(1, 1000, classID)
}

// GetCourseDetails fetches a single course by ID.
func (s *CourseService) GetCourseDetails(courseID string) CourseDetailsResult {
	resp := s.api.Get("/web/courses/"+courseID, "")
	if !resp.Success {
		s.log.Errorw("fetch course details failed", "courseId", courseID, "status", resp.StatusCode, "message", resp.Message)
		return CourseDetailsResult{Result: failure("Failed to fetch course details"), StatusCode: resp.StatusCode}
	}

	var details models.CourseDetails
	if err := apiclient.DecodeData(resp, &details); err != nil {
		s.log.Errorw("decode course details", "courseId", courseID, "error", err)
		return CourseDetailsResult{Result: failure("Failed to fetch course details"), StatusCode: resp.StatusCode}
	}

	return CourseDetailsResult{Result: success(resp.Message), StatusCode: resp.StatusCode, Course: &details}
}
