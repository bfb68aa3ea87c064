package services

import (
	"go.uber.org/zap"

	"github.com/example/brritto/internal/apiclient"
	"github.com/example/brritto/internal/models"
	"github.com/example/brritto/internal/session"
)

// Result is the uniform outcome of a service operation. Failures are values,
// never panics; handlers and the auth flow only inspect these fields.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// SendOtpResult carries the backend's profileCompleted hint alongside the
// operation outcome.
type SendOtpResult struct {
	Result
	ProfileCompleted *bool
}

// LoginResult carries the fetched profile (when available) after a
// successful OTP verification.
type LoginResult struct {
	Result
	Profile *models.StudentProfile
}

// ProfileResult carries a student profile payload.
type ProfileResult struct {
	Result
	Profile *models.StudentProfile
}

// AuthService coordinates the backend auth endpoints with the session store.
// The store is request-scoped and passed per call.
type AuthService struct {
	api *apiclient.Client
	log *zap.SugaredLogger
}

// NewAuthService constructs an AuthService.
func NewAuthService(api *apiclient.Client, log *zap.SugaredLogger) *AuthService {
	return &AuthService{api: api, log: log}
}

type sendOtpRequest struct {
	MobileNumber string `json:"mobileNumber"`
}

type verifyOtpRequest struct {
	MobileNumber string `json:"mobileNumber"`
	Otp          string `json:"otp"`
}

// SendOtp dispatches an OTP to the phone number. No session is created yet;
// the returned hint decides later whether the wizard must visit the
// registration step.
func (s *AuthService) SendOtp(mobile string) SendOtpResult {
	resp := s.api.Post("/web/auth/send-otp", sendOtpRequest{MobileNumber: mobile}, "")
	if !resp.Success {
		s.logFailure("send otp", resp)
		return SendOtpResult{Result: failure(orDefault(resp.Message, "Failed to send OTP. Please try again."))}
	}

	var data models.SendOtpData
	if err := apiclient.DecodeData(resp, &data); err != nil {
		s.log.Errorw("decode send-otp response", "error", err)
		return SendOtpResult{Result: failure("Failed to send OTP. Please try again.")}
	}

	return SendOtpResult{
		Result:           success(orDefault(resp.Message, "OTP sent successfully")),
		ProfileCompleted: data.ProfileCompleted,
	}
}

// loginEnvelope matches the login endpoint's nested data shape.
type loginEnvelope struct {
	Data models.LoginData `json:"data"`
}

// VerifyOtpAndLogin verifies the OTP, resolves the profile-completed flag
// and creates the session. A failed profile fetch is non-fatal: it degrades
// the flag to an explicit false instead of aborting the login.
func (s *AuthService) VerifyOtpAndLogin(store session.Store, mobile, otp string) LoginResult {
	resp := s.api.Post("/web/auth/login", verifyOtpRequest{MobileNumber: mobile, Otp: otp}, "")
	if !resp.Success {
		s.logFailure("verify otp", resp)
		return LoginResult{Result: failure(orDefault(resp.Message, "Failed to verify OTP. Please try again."))}
	}

	var env loginEnvelope
	if err := apiclient.DecodeData(resp, &env); err != nil || env.Data.AccessToken == "" {
		// Some backend revisions return the token pair unnested.
		var direct models.LoginData
		if err := apiclient.DecodeData(resp, &direct); err == nil && direct.AccessToken != "" {
			env.Data = direct
		}
	}
	if env.Data.AccessToken == "" {
		return LoginResult{Result: failure("Invalid response from server")}
	}

	var (
		profile          *models.StudentProfile
		profileCompleted *bool
	)

	profResp := s.api.Get("/web/student/profile", env.Data.AccessToken)
	if profResp.Success {
		var p models.StudentProfile
		if err := apiclient.DecodeData(profResp, &p); err == nil {
			profile = &p
			profileCompleted = p.ProfileCompleted
		} else {
			s.log.Errorw("decode student profile", "error", err)
			profileCompleted = boolPtr(false)
		}
	} else {
		s.logFailure("fetch student profile", profResp)
		profileCompleted = boolPtr(false)
	}

	store.Create(env.Data.AccessToken, env.Data.RefreshToken, mobile, profileCompleted)

	return LoginResult{
		Result:  success(orDefault(resp.Message, "Login successful")),
		Profile: profile,
	}
}

// Logout calls the backend logout endpoint best-effort and always deletes
// the local session.
func (s *AuthService) Logout(store session.Store) Result {
	if sess := store.Get(); sess != nil {
		if resp := s.api.Post("/web/auth/logout", struct{}{}, sess.AccessToken); !resp.Success {
			s.log.Warnw("backend logout failed, clearing session anyway", "message", resp.Message)
		}
	}
	store.Delete()
	return success("Logged out")
}

// RefreshAccessToken exchanges the refresh token for a new token pair. Any
// failure deletes the session entirely so a broken refresh path forces
// re-authentication.
func (s *AuthService) RefreshAccessToken(store session.Store) Result {
	sess := store.Get()
	if sess == nil {
		return failure("No active session")
	}

	resp := s.api.Post("/web/auth/refresh", struct{}{}, sess.RefreshToken)
	if resp.Success {
		var data models.LoginData
		if err := apiclient.DecodeData(resp, &data); err == nil && data.AccessToken != "" {
			store.Update(data.AccessToken, data.RefreshToken)
			return success("Token refreshed successfully")
		}
	}

	s.logFailure("refresh token", resp)
	store.Delete()
	return failure("Session expired. Please login again.")
}

// GetStudentProfile fetches the authenticated student's profile.
func (s *AuthService) GetStudentProfile(store session.Store) ProfileResult {
	sess := store.Get()
	if sess == nil {
		return ProfileResult{Result: failure("Not authenticated")}
	}

	resp := s.api.Get("/web/student/profile", sess.AccessToken)
	if !resp.Success {
		s.logFailure("get student profile", resp)
		return ProfileResult{Result: failure(orDefault(resp.Message, "Failed to fetch profile"))}
	}

	var profile models.StudentProfile
	if err := apiclient.DecodeData(resp, &profile); err != nil {
		s.log.Errorw("decode student profile", "error", err)
		return ProfileResult{Result: failure("Failed to fetch profile")}
	}

	return ProfileResult{
		Result:  success("Profile fetched successfully"),
		Profile: &profile,
	}
}

func (s *AuthService) logFailure(op string, resp *apiclient.Response) {
	if resp.Err != nil {
		s.log.Errorw(op+" failed",
			"code", resp.Err.Code,
			"status", resp.StatusCode,
			"traceId", resp.Err.TraceID,
			"timestamp", resp.Err.Timestamp,
		)
		return
	}
	s.log.Errorw(op+" failed", "status", resp.StatusCode, "message", resp.Message)
}

func success(message string) Result { return Result{Success: true, Message: message} }

func failure(message string) Result { return Result{Success: false, Message: message} }

func orDefault(message, fallback string) string {
	if message == "" {
		return fallback
	}
	return message
}

func boolPtr(b bool) *bool { return &b }
