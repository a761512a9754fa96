package views

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"unicode"

	"agri_advisor/internal/domain"
	"agri_advisor/internal/farmapi"
)

const (
	MsgLoginSuccess    = "Login successful!"
	MsgLoginFailed     = "Invalid email or password"
	MsgRegisterSuccess = "Registration successful!"
	MsgRegisterFailed  = "Registration failed"
	MsgContactSuccess  = "Thanks! We received your message."
	MsgContactFailed   = "Failed to submit"

	minPasswordLength = 8
)

// AuthAPI exchanges credentials for tokens.
type AuthAPI interface {
	Login(ctx context.Context, req farmapi.LoginRequest) (string, error)
	Register(ctx context.Context, req farmapi.RegisterRequest) (string, error)
}

// ContactAPI delivers contact-form messages.
type ContactAPI interface {
	Contact(ctx context.Context, req farmapi.ContactRequest) (*farmapi.ContactResponse, error)
}

// SessionWriter receives tokens obtained by the auth forms.
type SessionWriter interface {
	Login(ctx context.Context, token string) error
	Register(ctx context.Context, token string) error
}

// FormState is shared by every form: per-field problems found before
// submission, or one message from the server.
type FormState struct {
	Submitting bool
	Fields     domain.FieldErrors
	Error      string
	Success    string
}

// OK reports a successful submission.
func (s FormState) OK() bool {
	return s.Success != ""
}

// form serializes submissions and stores the resulting state.
type form struct {
	mu    sync.Mutex
	state FormState
}

func (f *form) begin() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = FormState{Submitting: true}
}

func (f *form) finish(state FormState) FormState {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = state
	return state
}

func (f *form) State() FormState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// serverFailure maps a submission error onto the single form message.
func serverFailure(err error, fallback string) string {
	var derr *domain.Error
	if !errors.As(err, &derr) || derr.Message == "" {
		return fallback
	}
	switch derr.Kind {
	case domain.KindRequestFailed, domain.KindNetwork:
		return derr.Message
	}
	return fallback
}

type LoginInput struct {
	Email    string
	Password string
}

func (in LoginInput) validate() domain.FieldErrors {
	errs := domain.FieldErrors{}
	if strings.TrimSpace(in.Email) == "" {
		errs["email"] = "Email is required"
	}
	if len([]rune(in.Password)) < minPasswordLength {
		errs["password"] = "Password must be at least 8 characters"
	}
	return errs
}

// LoginForm signs a user in and hands the token to the session.
type LoginForm struct {
	form
	auth    AuthAPI
	session SessionWriter
	logger  *slog.Logger
}

func NewLoginForm(auth AuthAPI, session SessionWriter, logger *slog.Logger) *LoginForm {
	return &LoginForm{
		auth:    auth,
		session: session,
		logger:  logger.With("component", "views", "form", "login"),
	}
}

func (f *LoginForm) Submit(ctx context.Context, in LoginInput) FormState {
	f.begin()

	if errs := in.validate(); len(errs) > 0 {
		return f.finish(FormState{Fields: errs})
	}

	token, err := f.auth.Login(ctx, farmapi.LoginRequest{
		Email:    strings.TrimSpace(in.Email),
		Password: in.Password,
	})
	if err != nil {
		f.logger.Info("login rejected", "error", err)
		return f.finish(FormState{Error: serverFailure(err, MsgLoginFailed)})
	}

	if err := f.session.Login(ctx, token); err != nil {
		f.logger.Warn("failed to store session", "error", err)
		return f.finish(FormState{Error: MsgLoginFailed})
	}
	return f.finish(FormState{Success: MsgLoginSuccess})
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Phone    string
	Location string
}

func (in RegisterInput) validate() domain.FieldErrors {
	errs := domain.FieldErrors{}
	if strings.TrimSpace(in.Name) == "" {
		errs["name"] = "Name is required"
	}
	if strings.TrimSpace(in.Email) == "" {
		errs["email"] = "Email is required"
	}
	if !strongPassword(in.Password) {
		errs["password"] = "Password must be 8+ chars and include letters and numbers"
	}
	return errs
}

func strongPassword(pw string) bool {
	if len([]rune(pw)) < minPasswordLength {
		return false
	}
	var letter, digit bool
	for _, r := range pw {
		switch {
		case r < unicode.MaxASCII && unicode.IsLetter(r):
			letter = true
		case r >= '0' && r <= '9':
			digit = true
		}
	}
	return letter && digit
}

// RegisterForm creates an account and signs the user in with the returned
// token.
type RegisterForm struct {
	form
	auth    AuthAPI
	session SessionWriter
	logger  *slog.Logger
}

func NewRegisterForm(auth AuthAPI, session SessionWriter, logger *slog.Logger) *RegisterForm {
	return &RegisterForm{
		auth:    auth,
		session: session,
		logger:  logger.With("component", "views", "form", "register"),
	}
}

func (f *RegisterForm) Submit(ctx context.Context, in RegisterInput) FormState {
	f.begin()

	if errs := in.validate(); len(errs) > 0 {
		return f.finish(FormState{Fields: errs})
	}

	token, err := f.auth.Register(ctx, farmapi.RegisterRequest{
		Name:     strings.TrimSpace(in.Name),
		Email:    strings.TrimSpace(in.Email),
		Password: in.Password,
		Phone:    strings.TrimSpace(in.Phone),
		Location: strings.TrimSpace(in.Location),
	})
	if err != nil {
		f.logger.Info("registration rejected", "error", err)
		return f.finish(FormState{Error: serverFailure(err, MsgRegisterFailed)})
	}

	if err := f.session.Register(ctx, token); err != nil {
		f.logger.Warn("failed to store session", "error", err)
		return f.finish(FormState{Error: MsgRegisterFailed})
	}
	return f.finish(FormState{Success: MsgRegisterSuccess})
}

type ContactInput struct {
	Name    string
	Email   string
	Message string
}

func (in ContactInput) validate() domain.FieldErrors {
	errs := domain.FieldErrors{}
	if strings.TrimSpace(in.Name) == "" {
		errs["name"] = "Name is required"
	}
	if strings.TrimSpace(in.Email) == "" {
		errs["email"] = "Email is required"
	}
	if strings.TrimSpace(in.Message) == "" {
		errs["message"] = "Message is required"
	}
	return errs
}

// ContactForm sends a message to the site operators. The draft is cleared
// after a successful send.
type ContactForm struct {
	form
	api    ContactAPI
	logger *slog.Logger

	draft ContactInput
}

func NewContactForm(api ContactAPI, logger *slog.Logger) *ContactForm {
	return &ContactForm{
		api:    api,
		logger: logger.With("component", "views", "form", "contact"),
	}
}

// Draft returns the input kept from the last submission.
func (f *ContactForm) Draft() ContactInput {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft
}

func (f *ContactForm) Submit(ctx context.Context, in ContactInput) FormState {
	f.begin()
	f.mu.Lock()
	f.draft = in
	f.mu.Unlock()

	if errs := in.validate(); len(errs) > 0 {
		return f.finish(FormState{Fields: errs})
	}

	resp, err := f.api.Contact(ctx, farmapi.ContactRequest{
		Name:    strings.TrimSpace(in.Name),
		Email:   strings.TrimSpace(in.Email),
		Message: in.Message,
	})
	if err != nil {
		f.logger.Info("contact rejected", "error", err)
		return f.finish(FormState{Error: serverFailure(err, MsgContactFailed)})
	}

	f.logger.Debug("contact stored", "stored", resp.Stored, "id", resp.ID)

	f.mu.Lock()
	f.draft = ContactInput{}
	f.mu.Unlock()
	return f.finish(FormState{Success: MsgContactSuccess})
}
