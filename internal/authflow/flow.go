package authflow

import (
	"strings"

	"go.uber.org/zap"

	"github.com/example/brritto/internal/models"
	"github.com/example/brritto/internal/services"
	"github.com/example/brritto/internal/session"
	"github.com/example/brritto/internal/validators"
)

// Step identifies a wizard step. Steps only advance forward through
// successful service calls; the only ways back are explicit back-navigation
// from the OTP step or logout.
type Step string

const (
	StepPhone        Step = "phone"
	StepOtp          Step = "otp"
	StepRegistration Step = "registration"
)

// StepInfo describes a step for the header and progress display.
type StepInfo struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Index    int    `json:"index"`
}

// GetStepInfo returns the display metadata for a step.
func GetStepInfo(step Step) StepInfo {
	switch step {
	case StepOtp:
		return StepInfo{Title: "Verify OTP", Subtitle: "Enter the OTP sent to your phone", Index: 1}
	case StepRegistration:
		return StepInfo{Title: "Complete Profile", Subtitle: "Fill in your details to finish registration", Index: 2}
	default:
		return StepInfo{Title: "Welcome", Subtitle: "Enter your phone number to continue", Index: 0}
	}
}

// AuthAPI is the slice of the auth service the flow depends on.
type AuthAPI interface {
	SendOtp(mobile string) services.SendOtpResult
	VerifyOtpAndLogin(store session.Store, mobile, otp string) services.LoginResult
	Logout(store session.Store) services.Result
}

// StudentAPI is the slice of the student service the flow depends on.
type StudentAPI interface {
	UpdateStudentProfile(store session.Store, reg models.RegistrationRequest) services.ProfileResult
}

// State is the wizard's observable state.
type State struct {
	Step             Step                  `json:"step"`
	ProfileCompleted *bool                 `json:"profileCompleted"`
	FormData         models.SignupFormData `json:"formData"`
	Errors           models.FormErrors     `json:"errors"`
	SuccessMessage   string                `json:"successMessage"`
	InFlight         bool                  `json:"isLoading"`
}

// Navigation is an exit instruction from the wizard: where to send the
// browser, and whether a full page load is required so profile-dependent UI
// re-reads the advisory cache.
type Navigation struct {
	RedirectTo string
	HardReload bool
}

// RegistrationInput is the registration step's form submission.
type RegistrationInput struct {
	Name                 string
	Email                string
	Gender               string
	District             string
	InstitutionID        *string
	InstitutionShortName string
	ClassID              string
	Cls                  string
	TermsAccepted        bool
}

// Flow drives the three-step login/registration wizard. All transitions
// happen through its action methods; every service-call failure stays on the
// current step with a general error, every validation failure with field
// errors.
type Flow struct {
	state    State
	auth     AuthAPI
	student  StudentAPI
	sessions session.Store
	wizard   WizardStore
	profiles ProfileCache
	log      *zap.SugaredLogger
}

// New builds a Flow at the initial phone step.
func New(auth AuthAPI, student StudentAPI, sessions session.Store, wizard WizardStore, profiles ProfileCache, log *zap.SugaredLogger) *Flow {
	return &Flow{
		state: State{
			Step:     StepPhone,
			FormData: models.SignupFormData{Gender: "Male"},
			Errors:   models.FormErrors{},
		},
		auth:     auth,
		student:  student,
		sessions: sessions,
		wizard:   wizard,
		profiles: profiles,
		log:      log,
	}
}

// State returns a snapshot of the wizard state.
func (f *Flow) State() State {
	return f.state
}

// StepInfo returns display metadata for the current step.
func (f *Flow) StepInfo() StepInfo {
	return GetStepInfo(f.state.Step)
}

// ShowProgress reports whether the multi-step progress indicator applies:
// only new users (hint explicitly false) or users already on the
// registration step ever see it.
func (f *Flow) ShowProgress() bool {
	if f.state.Step == StepRegistration {
		return true
	}
	return f.state.ProfileCompleted != nil && !*f.state.ProfileCompleted
}

// IsValidPhone reports whether the current phone input would pass
// validation. Derived UI value.
func (f *Flow) IsValidPhone() bool {
	return validators.IsValidBDPhone(f.state.FormData.Mobile)
}

// Resume restores persisted wizard progress after a page reload. The
// registration step is sticky: once entered it survives reloads until logout
// or successful submission.
func (f *Flow) Resume() {
	saved := f.wizard.Load()
	if saved == nil || saved.Mobile == "" {
		return
	}
	switch saved.Step {
	case StepOtp, StepRegistration:
	default:
		return
	}

	f.state.Step = saved.Step
	f.state.FormData.Mobile = saved.Mobile
	if saved.ProfileCompleted != nil && !*saved.ProfileCompleted {
		f.state.ProfileCompleted = boolPtr(false)
	}
}

// HandleBackNavigation neutralizes browser back-navigation while on the
// registration step: the step does not change and the persisted state is
// re-asserted.
func (f *Flow) HandleBackNavigation() {
	if f.state.Step != StepRegistration {
		return
	}
	f.persistWizard()
}

// SubmitPhone validates the phone number and dispatches an OTP. On success
// the wizard records the server's profile-completed hint and advances to the
// OTP step.
func (f *Flow) SubmitPhone(mobile string) {
	if f.state.Step != StepPhone || f.state.InFlight {
		return
	}

	f.state.FormData.Mobile = mobile

	if v := validators.ValidatePhone(mobile); !v.IsValid {
		f.state.Errors = models.FormErrors{"mobile": v.Error}
		return
	}

	f.begin()
	defer f.end()

	result := f.auth.SendOtp(mobile)
	if !result.Success {
		f.state.Errors = models.FormErrors{"general": result.Message}
		return
	}

	f.state.SuccessMessage = result.Message
	f.state.ProfileCompleted = result.ProfileCompleted
	f.state.Step = StepOtp
	f.wizard.Save(WizardState{
		Step:             StepOtp,
		Mobile:           mobile,
		ProfileCompleted: result.ProfileCompleted,
	})
}

// SubmitOtp verifies the OTP and decides the post-login branch: an
// explicitly incomplete profile routes to the registration step, anything
// else exits the wizard toward the sanitized redirect target.
func (f *Flow) SubmitOtp(otp, redirectURL string) *Navigation {
	if f.state.Step != StepOtp || f.state.InFlight {
		return nil
	}

	f.state.FormData.Otp = otp

	if v := validators.ValidateOtp(otp); !v.IsValid {
		f.state.Errors = models.FormErrors{"otp": v.Error}
		return nil
	}

	f.begin()
	defer f.end()

	result := f.auth.VerifyOtpAndLogin(f.sessions, f.state.FormData.Mobile, otp)
	if !result.Success {
		f.state.Errors = models.FormErrors{"general": result.Message}
		return nil
	}

	if result.Profile != nil {
		f.profiles.Save(*result.Profile)
	}

	// The freshly fetched profile's flag is authoritative; the send-OTP hint
	// only applies when the fetch produced nothing.
	resolved := resolveProfileCompleted(result.Profile, f.state.ProfileCompleted)

	if resolved != nil && !*resolved {
		f.state.SuccessMessage = "OTP verified! Please complete your profile."
		f.state.Step = StepRegistration
		f.state.ProfileCompleted = boolPtr(false)
		f.persistWizard()
		return nil
	}

	f.state.SuccessMessage = result.Message
	f.wizard.Clear()
	return &Navigation{RedirectTo: SanitizeRedirect(redirectURL)}
}

// SubmitRegistration validates the full form and completes the profile. On
// success the wizard state is cleared and the caller must perform a hard
// navigation to the redirect target.
func (f *Flow) SubmitRegistration(input RegistrationInput, redirectURL string) *Navigation {
	if f.state.Step != StepRegistration || f.state.InFlight {
		return nil
	}

	f.applyRegistrationInput(input)

	if errs := validators.ValidateRegistrationForm(f.state.FormData); !validators.IsFormValid(errs) {
		f.state.Errors = errs
		return nil
	}

	f.begin()
	defer f.end()

	form := f.state.FormData
	reg := models.RegistrationRequest{
		Name:   form.Name,
		Gender: form.Gender,
		Address: models.Address{
			District: form.District,
		},
		Institution: models.InstitutionRef{
			ID:                   form.InstitutionID,
			InstitutionShortName: form.InstitutionShortName,
		},
		Class: models.ClassRef{
			ID:        form.ClassID,
			ClassName: form.ClassID,
		},
		Cls: form.Cls,
	}

	result := f.student.UpdateStudentProfile(f.sessions, reg)
	if !result.Success {
		f.state.Errors = models.FormErrors{"general": result.Message}
		return nil
	}

	if result.Profile != nil {
		f.profiles.Save(*result.Profile)
	} else {
		f.profiles.Save(models.StudentProfile{Name: form.Name})
	}

	f.state.SuccessMessage = "Profile completed successfully!"
	f.wizard.Clear()

	return &Navigation{RedirectTo: SanitizeRedirect(redirectURL), HardReload: true}
}

// ResendOtp clears the OTP input and re-dispatches the code. The step never
// changes, only the message does.
func (f *Flow) ResendOtp() {
	if f.state.Step != StepOtp || f.state.InFlight {
		return
	}

	f.state.FormData.Otp = ""
	f.begin()
	defer f.end()

	result := f.auth.SendOtp(f.state.FormData.Mobile)
	if !result.Success {
		f.state.Errors = models.FormErrors{"general": result.Message}
		return
	}
	f.state.SuccessMessage = "OTP resent successfully"
}

// BackToPhone returns from the OTP step to the phone step, clearing OTP
// input and the captured hint. The registration step is locked: it cannot be
// exited this way.
func (f *Flow) BackToPhone() {
	if f.state.Step != StepOtp {
		return
	}

	f.state.Step = StepPhone
	f.state.FormData.Otp = ""
	f.state.Errors = models.FormErrors{}
	f.state.SuccessMessage = ""
	f.state.ProfileCompleted = nil
	f.wizard.Clear()
}

// Logout clears the session (best-effort against the backend), all wizard
// progress and form data, and returns to the initial step. Works from any
// step.
func (f *Flow) Logout() {
	f.begin()
	defer f.end()

	f.auth.Logout(f.sessions)
	f.wizard.Clear()
	f.profiles.Clear()

	f.state.Step = StepPhone
	f.state.FormData = models.SignupFormData{Gender: "Male"}
	f.state.ProfileCompleted = nil
	f.state.Errors = models.FormErrors{}
	f.state.SuccessMessage = ""
}

// UpdateField sets a single form field by its JSON name and clears that
// field's error. Unknown fields are ignored.
func (f *Flow) UpdateField(field, value string) {
	form := &f.state.FormData
	switch field {
	case "mobile":
		form.Mobile = value
	case "otp":
		form.Otp = value
	case "name":
		form.Name = value
	case "email":
		form.Email = value
	case "gender":
		form.Gender = value
	case "district":
		form.District = value
	case "institutionShortName":
		form.InstitutionShortName = value
	case "classId":
		form.ClassID = value
	case "cls":
		form.Cls = value
	default:
		return
	}
	delete(f.state.Errors, field)
}

func (f *Flow) applyRegistrationInput(input RegistrationInput) {
	form := &f.state.FormData
	form.Name = input.Name
	form.Email = input.Email
	if input.Gender != "" {
		form.Gender = input.Gender
	}
	form.District = input.District
	form.InstitutionID = input.InstitutionID
	form.InstitutionShortName = input.InstitutionShortName
	form.ClassID = input.ClassID
	form.Cls = input.Cls
	form.TermsAccepted = input.TermsAccepted
}

func (f *Flow) persistWizard() {
	f.wizard.Save(WizardState{
		Step:             StepRegistration,
		Mobile:           f.state.FormData.Mobile,
		ProfileCompleted: boolPtr(false),
	})
}

func (f *Flow) begin() {
	f.state.InFlight = true
	f.state.Errors = models.FormErrors{}
	f.state.SuccessMessage = ""
}

func (f *Flow) end() {
	f.state.InFlight = false
}

// resolveProfileCompleted picks the authoritative profile-completed value:
// the fetched profile's flag when a profile was fetched, otherwise the hint
// captured during the phone step.
func resolveProfileCompleted(profile *models.StudentProfile, hint *bool) *bool {
	if profile != nil && profile.ProfileCompleted != nil {
		return profile.ProfileCompleted
	}
	return hint
}

// SanitizeRedirect restricts redirects to same-origin relative paths; any
// absolute or scheme-relative URL falls back to the home page.
func SanitizeRedirect(redirect string) string {
	if redirect == "" {
		return "/"
	}
	if !strings.HasPrefix(redirect, "/") || strings.HasPrefix(redirect, "//") {
		return "/"
	}
	return redirect
}

func boolPtr(b bool) *bool { return &b }
