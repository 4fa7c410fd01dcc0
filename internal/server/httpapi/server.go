// Package httpapi exposes the REST surface of the LearnInfinity server:
// registration, login, profile and skill management, the credit ledger
// endpoints, and the explicit session start/end calls. Every request passing
// through /api also feeds the activity tracker that keeps the session
// registry current.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/learninfinity/learninfinity/internal/common"
	"github.com/learninfinity/learninfinity/internal/logging"
	"github.com/learninfinity/learninfinity/internal/server/models"
)

// UserProvider covers the account operations the handlers need.
type UserProvider interface {
	Register(ctx context.Context, name, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.User, error)
	GetUser(ctx context.Context, userID string) (*models.User, error)
	UpdateProfile(ctx context.Context, userID, name, email string) (*models.User, error)
	AccessToken(userID string) (string, error)
}

// SkillEditor mutates the user's skill lists.
type SkillEditor interface {
	Add(ctx context.Context, userID, side string, skill models.Skill) (*models.User, error)
	RemoveByID(ctx context.Context, userID, side, skillID string) (*models.User, error)
	RemoveByIndex(ctx context.Context, userID, side string, index int) (*models.User, error)
}

// CreditLedger performs the explicit balance mutations.
type CreditLedger interface {
	Deduct(ctx context.Context, userID string) (*models.User, error)
	Add(ctx context.Context, userID string, hours int64) (*models.User, error)
}

// SessionRegistry is the process-local active-session store.
type SessionRegistry interface {
	Start(userID string) time.Time
	Touch(userID string)
	End(userID string)
}

// Pinger reports database liveness for the health endpoint.
type Pinger interface {
	PingContext(ctx context.Context) error
}

var emailRegexp = regexp.MustCompile(`^\w+([.-]?\w+)*@\w+([.-]?\w+)*(\.\w{2,3})+$`)

type Server struct {
	logger    logging.Logger
	users     UserProvider
	skills    SkillEditor
	credits   CreditLedger
	sessions  SessionRegistry
	db        Pinger
	jwtSecret []byte
}

func NewServer(l logging.Logger, users UserProvider, skills SkillEditor, credits CreditLedger,
	sessions SessionRegistry, db Pinger, secretKey string) *Server {
	return &Server{
		logger:    l.With("module", "httpapi"),
		users:     users,
		skills:    skills,
		credits:   credits,
		sessions:  sessions,
		db:        db,
		jwtSecret: []byte(secretKey),
	}
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" || req.Email == "" || req.Password == "" {
		fail(w, http.StatusBadRequest, "Please provide name, email, and password")
		return
	}
	if len(strings.TrimSpace(req.Name)) < 2 {
		fail(w, http.StatusBadRequest, "Name must be at least 2 characters long")
		return
	}
	if len(req.Password) < 6 {
		fail(w, http.StatusBadRequest, "Password must be at least 6 characters long")
		return
	}
	if !emailRegexp.MatchString(req.Email) {
		fail(w, http.StatusBadRequest, "Please enter a valid email address")
		return
	}

	user, err := s.users.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			fail(w, http.StatusBadRequest, "User with this email already exists")
			return
		}
		s.serverError(w, r, err, "Server error during registration")
		return
	}

	token, err := s.users.AccessToken(user.ID)
	if err != nil {
		s.serverError(w, r, err, "Server error during registration")
		return
	}

	writeJSON(w, http.StatusCreated, response{
		Success: true,
		Message: "User registered successfully! You have been awarded 24 free credits.",
		Token:   token,
		User:    newUserPayload(user),
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" || req.Password == "" {
		fail(w, http.StatusBadRequest, "Please provide email and password")
		return
	}

	user, err := s.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrAccountDeactivated):
			fail(w, http.StatusUnauthorized, "Account has been deactivated. Please contact support.")
		case errors.Is(err, common.ErrorUnauthorized):
			fail(w, http.StatusUnauthorized, "Invalid email or password")
		default:
			s.serverError(w, r, err, "Server error during login")
		}
		return
	}

	token, err := s.users.AccessToken(user.ID)
	if err != nil {
		s.serverError(w, r, err, "Server error during login")
		return
	}

	writeJSON(w, http.StatusOK, response{
		Success: true,
		Message: "Login successful",
		Token:   token,
		User:    newUserPayload(user),
	})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	user, err := s.users.GetUser(r.Context(), userIDFromContext(r.Context()))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			fail(w, http.StatusUnauthorized, "User not found")
			return
		}
		s.serverError(w, r, err, "Server error")
		return
	}

	writeJSON(w, http.StatusOK, response{Success: true, User: newUserPayload(user)})
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := s.users.UpdateProfile(r.Context(), userIDFromContext(r.Context()), req.Name, req.Email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			fail(w, http.StatusUnauthorized, "User not found")
			return
		}
		s.serverError(w, r, err, "Server error during profile update")
		return
	}

	writeJSON(w, http.StatusOK, response{
		Success: true,
		Message: "Profile updated successfully",
		User:    newUserPayload(user),
	})
}

func (s *Server) handleAddSkill(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Skill       string `json:"skill"`
		Category    string `json:"category"`
		Level       string `json:"level"`
		Description string `json:"description"`
		Type        string `json:"type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil ||
		req.Skill == "" || req.Category == "" || req.Level == "" || req.Type == "" {
		fail(w, http.StatusBadRequest, "Please provide skill, category, level, and type")
		return
	}
	if req.Type != common.SkillSideOffered && req.Type != common.SkillSideLearning {
		fail(w, http.StatusBadRequest, `Type must be either "offered" or "learning"`)
		return
	}

	user, err := s.skills.Add(r.Context(), userIDFromContext(r.Context()), req.Type, models.Skill{
		Name:        req.Skill,
		Category:    req.Category,
		Level:       req.Level,
		Description: req.Description,
	})
	if err != nil {
		s.serverError(w, r, err, "Server error during skill addition")
		return
	}

	writeJSON(w, http.StatusOK, response{
		Success: true,
		Message: "Skill added successfully",
		User:    newUserPayload(user),
	})
}

// handleRemoveSkill deletes a skill addressed either by its stable ID or by
// its position in the list's current ordering.
func (s *Server) handleRemoveSkill(w http.ResponseWriter, r *http.Request) {
	side := chi.URLParam(r, "type")
	ref := chi.URLParam(r, "ref")

	if side != common.SkillSideOffered && side != common.SkillSideLearning {
		fail(w, http.StatusBadRequest, `Type must be either "offered" or "learning"`)
		return
	}

	userID := userIDFromContext(r.Context())

	var user *models.User
	var err error
	if index, convErr := strconv.Atoi(ref); convErr == nil {
		user, err = s.skills.RemoveByIndex(r.Context(), userID, side, index)
	} else {
		user, err = s.skills.RemoveByID(r.Context(), userID, side, ref)
	}
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			fail(w, http.StatusBadRequest, "Invalid skill index")
			return
		}
		s.serverError(w, r, err, "Server error during skill removal")
		return
	}

	writeJSON(w, http.StatusOK, response{
		Success: true,
		Message: "Skill removed successfully",
		User:    newUserPayload(user),
	})
}

func (s *Server) handleDeductCredit(w http.ResponseWriter, r *http.Request) {
	user, err := s.credits.Deduct(r.Context(), userIDFromContext(r.Context()))
	if err != nil {
		switch {
		case errors.Is(err, common.ErrInsufficientCredits):
			fail(w, http.StatusBadRequest, "Insufficient credits")
		case errors.Is(err, common.ErrorNotFound):
			fail(w, http.StatusUnauthorized, "User not found")
		default:
			s.serverError(w, r, err, "Server error during credit deduction")
		}
		return
	}

	writeJSON(w, http.StatusOK, response{
		Success:    true,
		Message:    "Credit deducted successfully",
		User:       newUserPayload(user),
		HoursSpent: user.TotalHoursLearned,
	})
}

func (s *Server) handleAddCredit(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Hours *int64 `json:"hours"`
	}
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	hours := int64(1)
	if req.Hours != nil {
		hours = *req.Hours
	}
	if hours < 1 {
		fail(w, http.StatusBadRequest, "Hours must be a positive number")
		return
	}

	user, err := s.credits.Add(r.Context(), userIDFromContext(r.Context()), hours)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			fail(w, http.StatusUnauthorized, "User not found")
			return
		}
		s.serverError(w, r, err, "Server error during credit addition")
		return
	}

	writeJSON(w, http.StatusOK, response{
		Success:       true,
		Message:       fmt.Sprintf("%d credit(s) added successfully", hours),
		User:          newUserPayload(user),
		CreditsEarned: hours,
	})
}

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromContext(r.Context())

	user, err := s.users.GetUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			fail(w, http.StatusUnauthorized, "User not found")
			return
		}
		s.serverError(w, r, err, "Server error during session start")
		return
	}

	startTime := s.sessions.Start(userID)

	writeJSON(w, http.StatusOK, response{
		Success:          true,
		Message:          "Session started successfully",
		SessionStartTime: &startTime,
		UserCredits:      &user.Credits,
	})
}

func (s *Server) handleEndSession(w http.ResponseWriter, r *http.Request) {
	s.sessions.End(userIDFromContext(r.Context()))

	writeJSON(w, http.StatusOK, response{
		Success: true,
		Message: "Session ended successfully",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	database := "Connected"
	if err := s.db.PingContext(r.Context()); err != nil {
		database = "Disconnected"
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":   "LearnInfinity API is running!",
		"database":  database,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "LearnInfinity API Server",
		"version": "1.0.0",
		"endpoints": map[string]string{
			"health":   "/api/health",
			"register": "POST /api/auth/register",
			"login":    "POST /api/auth/login",
			"profile":  "GET /api/auth/me",
		},
	})
}

// serverError logs the underlying cause and replies with a generic message so
// internals never leak to the client.
func (s *Server) serverError(w http.ResponseWriter, r *http.Request, err error, message string) {
	s.logger.Error(r.Context(), "request failed",
		"method", r.Method, "path", r.URL.Path, "error", err.Error())
	fail(w, http.StatusInternalServerError, message)
}
