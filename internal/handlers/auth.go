package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/example/brritto/internal/authflow"
	"github.com/example/brritto/internal/config"
	"github.com/example/brritto/internal/services"
	"github.com/example/brritto/internal/session"
)

// AuthHandler exposes the login/registration wizard over HTTP. Every request
// rebuilds the flow from the wizard cookie, applies one action, and responds
// with the resulting state so the page can re-render.
type AuthHandler struct {
	cfg     *config.Config
	auth    *services.AuthService
	student *services.StudentService
	log     *zap.SugaredLogger
}

// NewAuthHandler constructs AuthHandler.
func NewAuthHandler(cfg *config.Config, auth *services.AuthService, student *services.StudentService, log *zap.SugaredLogger) *AuthHandler {
	return &AuthHandler{cfg: cfg, auth: auth, student: student, log: log}
}

func (h *AuthHandler) sessionStore(c *fiber.Ctx) session.Store {
	return session.NewCookieStore(c, h.cfg.SessionCookieName, h.cfg.SessionMaxAge, h.cfg.IsProduction())
}

func (h *AuthHandler) flow(c *fiber.Ctx) *authflow.Flow {
	f := authflow.New(
		h.auth,
		h.student,
		h.sessionStore(c),
		authflow.NewCookieWizardStore(c, h.cfg.IsProduction()),
		authflow.NewCookieProfileCache(c, h.cfg.IsProduction()),
		h.log,
	)
	f.Resume()
	return f
}

func (h *AuthHandler) respondState(c *fiber.Ctx, f *authflow.Flow, nav *authflow.Navigation) error {
	state := f.State()
	payload := fiber.Map{
		"success":      len(state.Errors) == 0,
		"state":        state,
		"stepInfo":     f.StepInfo(),
		"showProgress": f.ShowProgress(),
	}
	if nav != nil {
		payload["redirectTo"] = nav.RedirectTo
		payload["hardReload"] = nav.HardReload
	}
	return c.JSON(payload)
}

// GetFlow returns the current wizard state for initial page render.
func (h *AuthHandler) GetFlow(c *fiber.Ctx) error {
	return h.respondState(c, h.flow(c), nil)
}

type phoneRequest struct {
	Mobile string `json:"mobile"`
}

// SubmitPhone handles the phone step.
func (h *AuthHandler) SubmitPhone(c *fiber.Ctx) error {
	var req phoneRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	f := h.flow(c)
	f.SubmitPhone(req.Mobile)
	return h.respondState(c, f, nil)
}

type otpRequest struct {
	Otp      string `json:"otp"`
	Redirect string `json:"redirect"`
}

// SubmitOtp handles the OTP step.
func (h *AuthHandler) SubmitOtp(c *fiber.Ctx) error {
	var req otpRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	f := h.flow(c)
	nav := f.SubmitOtp(req.Otp, req.Redirect)
	return h.respondState(c, f, nav)
}

// ResendOtp re-dispatches the OTP without changing the step.
func (h *AuthHandler) ResendOtp(c *fiber.Ctx) error {
	f := h.flow(c)
	f.ResendOtp()
	return h.respondState(c, f, nil)
}

// Back returns from the OTP step to the phone step. A no-op on any other
// step.
func (h *AuthHandler) Back(c *fiber.Ctx) error {
	f := h.flow(c)
	f.BackToPhone()
	f.HandleBackNavigation()
	return h.respondState(c, f, nil)
}

type registrationRequest struct {
	Name                 string  `json:"name"`
	Email                string  `json:"email"`
	Gender               string  `json:"gender"`
	District             string  `json:"district"`
	InstitutionID        *string `json:"institutionId"`
	InstitutionShortName string  `json:"institutionShortName"`
	ClassID              string  `json:"classId"`
	Cls                  string  `json:"cls"`
	TermsAccepted        bool    `json:"termsAccepted"`
	Redirect             string  `json:"redirect"`
}

// SubmitRegistration handles the registration step.
func (h *AuthHandler) SubmitRegistration(c *fiber.Ctx) error {
	var req registrationRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	f := h.flow(c)
	nav := f.SubmitRegistration(authflow.RegistrationInput{
		Name:                 req.Name,
		Email:                req.Email,
		Gender:               req.Gender,
		District:             req.District,
		InstitutionID:        req.InstitutionID,
		InstitutionShortName: req.InstitutionShortName,
		ClassID:              req.ClassID,
		Cls:                  req.Cls,
		TermsAccepted:        req.TermsAccepted,
	}, req.Redirect)
	return h.respondState(c, f, nav)
}

// Logout clears the session and all wizard progress. Always succeeds.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	f := h.flow(c)
	f.Logout()
	return h.respondState(c, f, &authflow.Navigation{RedirectTo: "/", HardReload: true})
}

// GetSession returns the session summary for the current user. Tokens never
// leave the server.
func (h *AuthHandler) GetSession(c *fiber.Ctx) error {
	sess := h.sessionStore(c).Get()
	if sess == nil {
		return fiber.NewError(fiber.StatusUnauthorized, "not authenticated")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"mobile":           sess.Mobile,
			"profileCompleted": sess.ProfileCompleted,
			"expiresAt":        sess.ExpiresAt,
		},
	})
}

// RefreshSession exchanges the refresh token for a new pair. Failure clears
// the session and demands a fresh login.
func (h *AuthHandler) RefreshSession(c *fiber.Ctx) error {
	result := h.auth.RefreshAccessToken(h.sessionStore(c))
	if !result.Success {
		return fiber.NewError(fiber.StatusUnauthorized, result.Message)
	}
	return c.JSON(fiber.Map{"success": true, "message": result.Message})
}

// GetProfile returns the authenticated student's profile.
func (h *AuthHandler) GetProfile(c *fiber.Ctx) error {
	result := h.auth.GetStudentProfile(h.sessionStore(c))
	if !result.Success {
		return fiber.NewError(fiber.StatusUnauthorized, result.Message)
	}
	return c.JSON(fiber.Map{"success": true, "data": result.Profile})
}
