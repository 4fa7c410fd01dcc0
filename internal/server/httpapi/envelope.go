package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/learninfinity/learninfinity/internal/server/models"
)

// response is the JSON envelope every endpoint replies with. Mutations embed
// the full user projection so the client resynchronizes from server truth.
type response struct {
	Success          bool         `json:"success"`
	Message          string       `json:"message,omitempty"`
	Token            string       `json:"token,omitempty"`
	User             *userPayload `json:"user,omitempty"`
	HoursSpent       int64        `json:"hoursSpent,omitempty"`
	CreditsEarned    int64        `json:"creditsEarned,omitempty"`
	SessionStartTime *time.Time   `json:"sessionStartTime,omitempty"`
	UserCredits      *int64       `json:"userCredits,omitempty"`
}

type userPayload struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	Email          string         `json:"email"`
	Credits        int64          `json:"credits"`
	SkillsOffered  []models.Skill `json:"skillsOffered"`
	SkillsLearning []models.Skill `json:"skillsLearning"`
	JoinedDate     time.Time      `json:"joinedDate"`
	LastLogin      time.Time      `json:"lastLogin"`
	Stats          models.Stats   `json:"stats"`
}

func newUserPayload(u *models.User) *userPayload {
	return &userPayload{
		ID:             u.ID,
		Name:           u.Name,
		Email:          u.Email,
		Credits:        u.Credits,
		SkillsOffered:  u.SkillsOffered,
		SkillsLearning: u.SkillsLearning,
		JoinedDate:     u.JoinedDate,
		LastLogin:      u.LastLogin,
		Stats:          u.Stats(),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func fail(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, response{Success: false, Message: message})
}
