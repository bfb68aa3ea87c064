package services

import (
	"fmt"
	"net/url"

	"go.uber.org/zap"

	"github.com/example/brritto/internal/apiclient"
	"github.com/example/brritto/internal/models"
	"github.com/example/brritto/internal/session"
)

// InstitutionsResult carries institution search matches.
type InstitutionsResult struct {
	Result
	Institutions []models.InstitutionOption
}

// DistrictsResult carries district search matches.
type DistrictsResult struct {
	Result
	Districts []models.District
}

// ClassOptionsResult carries the class dropdown entries.
type ClassOptionsResult struct {
	Result
	Classes []models.ClassOption
}

// StudentService covers registration, profile completion and the lookup
// endpoints feeding the registration form dropdowns.
type StudentService struct {
	api *apiclient.Client
	log *zap.SugaredLogger
}

// NewStudentService constructs a StudentService.
func NewStudentService(api *apiclient.Client, log *zap.SugaredLogger) *StudentService {
	return &StudentService{api: api, log: log}
}

// UpdateStudentProfile completes the profile of a user who verified an OTP
// but has not finished registration, then re-creates the session with the
// profile marked complete so the route guard permits navigation.
func (s *StudentService) UpdateStudentProfile(store session.Store, reg models.RegistrationRequest) ProfileResult {
	sess := store.Get()
	if sess == nil {
		return ProfileResult{Result: failure("Not authenticated. Please login again.")}
	}

	resp := s.api.Put("/web/student/profile", reg, sess.AccessToken)
	if !resp.Success {
		s.logFailure("update student profile", resp)
		return ProfileResult{Result: failure(orDefault(resp.Message, "Failed to update profile. Please try again."))}
	}

	var profile *models.StudentProfile
	var decoded models.StudentProfile
	if err := apiclient.DecodeData(resp, &decoded); err == nil && decoded.Name != "" {
		profile = &decoded
	}

	store.Create(sess.AccessToken, sess.RefreshToken, sess.Mobile, boolPtr(true))

	return ProfileResult{
		Result:  success(orDefault(resp.Message, "Profile updated successfully")),
		Profile: profile,
	}
}

type verifyRequest struct {
	Mobile string `json:"mobile"`
	Otp    string `json:"otp"`
}

// RegisterStudent verifies the OTP, registers the student with the issued
// access token, and creates the session.
func (s *StudentService) RegisterStudent(store session.Store, mobile, otp string, reg models.RegistrationRequest) Result {
	verifyResp := s.api.Post("/auth/verify", verifyRequest{Mobile: mobile, Otp: otp}, "")
	if !verifyResp.Success {
		s.logFailure("verify otp for registration", verifyResp)
		return failure(orDefault(verifyResp.Message, "Failed to register. Please try again."))
	}

	var tokens models.LoginData
	if err := apiclient.DecodeData(verifyResp, &tokens); err != nil || tokens.AccessToken == "" {
		return failure("Invalid response from server")
	}

	registerResp := s.api.Post("/students/register", reg, tokens.AccessToken)
	if !registerResp.Success {
		s.logFailure("register student", registerResp)
		return failure(orDefault(registerResp.Message, "Failed to register. Please try again."))
	}

	store.Create(tokens.AccessToken, tokens.RefreshToken, mobile, nil)

	return success(orDefault(registerResp.Message, "Registration successful"))
}

// listEnvelope matches the lookup endpoints that nest their slice under a
// second data key next to pagination info.
type listEnvelope[T any] struct {
	Data []T `json:"data"`
}

// SearchInstitutions searches institutions for the registration dropdown.
func (s *StudentService) SearchInstitutions(store session.Store, term string, page, limit int) InstitutionsResult {
	sess := store.Get()
	if sess == nil {
		return InstitutionsResult{Result: failure("Not authenticated")}
	}

	endpoint := fmt.Sprintf("/students/institution?page=%d&limit=%d", page, limit)
	if term != "" {
		endpoint += "&term=" + url.QueryEscape(term)
	}

	resp := s.api.Get(endpoint, sess.AccessToken)
	if !resp.Success {
		s.logFailure("search institutions", resp)
		return InstitutionsResult{Result: failure("Failed to fetch institutions")}
	}

	items := decodeList[models.InstitutionOption](resp)
	return InstitutionsResult{
		Result:       success("Institutions fetched successfully"),
		Institutions: items,
	}
}

// SearchDistricts searches districts for the registration dropdown.
func (s *StudentService) SearchDistricts(store session.Store, term string, page, limit int) DistrictsResult {
	sess := store.Get()
	if sess == nil {
		return DistrictsResult{Result: failure("Not authenticated")}
	}

	endpoint := fmt.Sprintf("/districts?page=%d&limit=%d", page, limit)
	if term != "" {
		endpoint += "&term=" + url.QueryEscape(term)
	}

	resp := s.api.Get(endpoint, sess.AccessToken)
	if !resp.Success {
		s.logFailure("search districts", resp)
		return DistrictsResult{Result: failure("Failed to fetch districts")}
	}

	items := decodeList[models.District](resp)
	return DistrictsResult{
		Result:    success("Districts fetched successfully"),
		Districts: items,
	}
}

// GetClassOptions fetches the class dropdown entries.
func (s *StudentService) GetClassOptions(store session.Store) ClassOptionsResult {
	sess := store.Get()
	if sess == nil {
		return ClassOptionsResult{Result: failure("Not authenticated")}
	}

	resp := s.api.Get("/web/classes", sess.AccessToken)
	if !resp.Success {
		s.logFailure("get class options", resp)
		return ClassOptionsResult{Result: failure("Failed to fetch classes")}
	}

	items := decodeList[models.ClassOption](resp)
	return ClassOptionsResult{
		Result:  success("Classes fetched successfully"),
		Classes: items,
	}
}

// decodeList handles both lookup response shapes: a nested {data: [...],
// pagination: {...}} object and a plain array.
func decodeList[T any](resp *apiclient.Response) []T {
	var nested listEnvelope[T]
	if err := apiclient.DecodeData(resp, &nested); err == nil && nested.Data != nil {
		return nested.Data
	}
	var direct []T
	if err := apiclient.DecodeData(resp, &direct); err == nil && direct != nil {
		return direct
	}
	return []T{}
}

func (s *StudentService) logFailure(op string, resp *apiclient.Response) {
	if resp.Err != nil {
		s.log.Errorw(op+" failed",
			"code", resp.Err.Code,
			"status", resp.StatusCode,
			"traceId", resp.Err.TraceID,
		)
		return
	}
	s.log.Errorw(op+" failed", "status", resp.StatusCode, "message", resp.Message)
}
