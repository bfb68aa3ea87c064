package models

// AuthSession binds a user's tokens and phone number for the duration of a
// login. Stored JSON-serialized in the HTTP-only session cookie and never
// exposed to client-side script.
type AuthSession struct {
	AccessToken      string `json:"accessToken"`
	RefreshToken     string `json:"refreshToken"`
	Mobile           string `json:"mobile"`
	ExpiresAt        int64  `json:"expiresAt"`
	ProfileCompleted *bool  `json:"profileCompleted,omitempty"`
}

// LoginData is the token pair issued by the login and refresh endpoints.
type LoginData struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// SendOtpData is returned by the send-otp endpoint. The profileCompleted
// hint tells the wizard whether the registration step will be needed.
type SendOtpData struct {
	ProfileCompleted *bool `json:"profileCompleted,omitempty"`
}

// Address is the student's address subdocument.
type Address struct {
	District string `json:"district"`
}

// InstitutionRef references an institution, possibly free-typed by the user
// (nil ID with only a short name).
type InstitutionRef struct {
	ID                   *string `json:"_id"`
	InstitutionShortName string  `json:"institutionShortName"`
}

// ClassRef references an academic class.
type ClassRef struct {
	ID        string `json:"_id"`
	ClassName string `json:"className"`
}

// StudentProfile is the profile document served by the backend.
type StudentProfile struct {
	ID               string          `json:"_id,omitempty"`
	Name             string          `json:"name"`
	Email            string          `json:"email,omitempty"`
	Gender           string          `json:"gender,omitempty"`
	Mobile           string          `json:"mobile,omitempty"`
	Address          *Address        `json:"address,omitempty"`
	Institution      *InstitutionRef `json:"institution,omitempty"`
	Class            *ClassRef       `json:"class,omitempty"`
	Cls              string          `json:"cls,omitempty"`
	ProfileCompleted *bool           `json:"profileCompleted,omitempty"`
}

// RegistrationRequest is the payload for student registration and profile
// completion.
type RegistrationRequest struct {
	Name        string         `json:"name"`
	Gender      string         `json:"gender"`
	Address     Address        `json:"address"`
	Institution InstitutionRef `json:"institution"`
	Class       ClassRef       `json:"class"`
	Cls         string         `json:"cls"`
}

// SignupFormData is the wizard's accumulated form state across all three
// steps.
type SignupFormData struct {
	Mobile               string  `json:"mobile"`
	Otp                  string  `json:"otp"`
	Name                 string  `json:"name"`
	Email                string  `json:"email"`
	Gender               string  `json:"gender"`
	District             string  `json:"district"`
	InstitutionID        *string `json:"institutionId"`
	InstitutionShortName string  `json:"institutionShortName"`
	ClassID              string  `json:"classId"`
	Cls                  string  `json:"cls"`
	TermsAccepted        bool    `json:"termsAccepted"`
}

// FormErrors maps form field names to human-readable error messages. An
// absent key means the field is valid.
type FormErrors map[string]string

// InstitutionOption is a dropdown entry for the institution picker.
type InstitutionOption struct {
	ID                   string `json:"_id"`
	Name                 string `json:"name,omitempty"`
	InstitutionShortName string `json:"institutionShortName"`
}

// ClassOption is a dropdown entry for the class picker.
type ClassOption struct {
	ID        string `json:"_id"`
	ClassName string `json:"className"`
}

// District is a dropdown entry for the district picker.
type District struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}
