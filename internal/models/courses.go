package models

// Class is an academic class shown in the catalog tabs.
type Class struct {
	ID        string `json:"_id"`
	ClassName string `json:"className"`
	Slug      string `json:"slug,omitempty"`
	Priority  int    `json:"priority,omitempty"`
}

// Course is a catalog entry.
type Course struct {
	ID          string  `json:"_id"`
	Title       string  `json:"title"`
	Slug        string  `json:"slug,omitempty"`
	Description string  `json:"description,omitempty"`
	Thumbnail   string  `json:"thumbnail,omitempty"`
	Price       float64 `json:"price"`
	Discount    float64 `json:"discount,omitempty"`
	Class       *Class  `json:"class,omitempty"`
}

// CourseDetails extends Course with the fields only shown on the detail page.
type CourseDetails struct {
	Course
	Instructors []Instructor `json:"instructors,omitempty"`
	Syllabus    []string     `json:"syllabus,omitempty"`
	Features    []string     `json:"features,omitempty"`
}

// Instructor describes a course instructor.
type Instructor struct {
	Name        string `json:"name"`
	Designation string `json:"designation,omitempty"`
	Avatar      string `json:"avatar,omitempty"`
}
