package coordinator

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"mealcompanion"
)

// Stage is the position of a session in the pipeline.
type Stage int

const (
	AwaitingUser Stage = iota
	ProfileLoaded
	PlanGenerated
	AwaitingGroceryConsent
	ExtractingIngredients
	FormattingList
	SessionEnded
	Aborted
)

func (s Stage) String() string {
	switch s {
	case AwaitingUser:
		return "awaiting_user"
	case ProfileLoaded:
		return "profile_loaded"
	case PlanGenerated:
		return "plan_generated"
	case AwaitingGroceryConsent:
		return "awaiting_grocery_consent"
	case ExtractingIngredients:
		return "extracting_ingredients"
	case FormattingList:
		return "formatting_list"
	case SessionEnded:
		return "session_ended"
	case Aborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// SessionState is everything one session knows. A new one is created for
// every session and nothing in it outlives the session.
type SessionState struct {
	ID           string
	Stage        Stage
	StartedAt    time.Time
	Profile      *mealcompanion.Profile
	LastMealPlan string
	Ingredients  []string
	GroceryList  string
	// Err is the reason the session was aborted, nil otherwise.
	Err error

	gatewayCalls int
}

func NewSessionState() *SessionState {
	return &SessionState{
		ID:        uuid.NewString(),
		Stage:     AwaitingUser,
		StartedAt: time.Now(),
	}
}

// Done reports whether the session reached a terminal stage.
func (s *SessionState) Done() bool {
	return s.Stage == SessionEnded || s.Stage == Aborted
}

// IsAffirmative reports whether a consent answer means yes. Only "yes" and
// "y" count, ignoring case and surrounding space.
func IsAffirmative(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "yes", "y":
		return true
	default:
		return false
	}
}
