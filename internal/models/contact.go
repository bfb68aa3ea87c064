package models

// ContactFormData is a contact form submission.
type ContactFormData struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// ContactInfo is the static contact information block.
type ContactInfo struct {
	Location    string            `json:"location"`
	Email       string            `json:"email"`
	Phone       string            `json:"phone"`
	SocialMedia map[string]string `json:"socialMedia"`
}
