package mealcompanion

import (
	"context"
	"net/http"

	"mealcompanion/tools"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type SlackClient interface {
	PostMessage(ctx context.Context, channel string, message string) error
}

type ToolProvider interface {
	GetTools() []tools.Tool
	GetTool(name string) (tools.Tool, error)
}

// Profile is a stored health profile. Age and CalorieTarget are pointers so
// that an absent field can be told apart from zero.
type Profile struct {
	ID                  string   `json:"id,omitempty" yaml:"id,omitempty"`
	Name                string   `json:"name" yaml:"name"`
	Age                 *int     `json:"age,omitempty" yaml:"age,omitempty" validate:"omitempty,gte=0,lte=150"`
	HealthConditions    []string `json:"health_conditions,omitempty" yaml:"health_conditions,omitempty"`
	DietaryRestrictions []string `json:"dietary_restrictions,omitempty" yaml:"dietary_restrictions,omitempty"`
	Preferences         []string `json:"preferences,omitempty" yaml:"preferences,omitempty"`
	CalorieTarget       *int     `json:"calorie_target,omitempty" yaml:"calorie_target,omitempty" validate:"omitempty,gte=0"`
}

// DisplayName returns the profile name, or the generic placeholder when unset.
func (p Profile) DisplayName() string {
	if p.Name == "" {
		return DefaultProfileName
	}
	return p.Name
}

// Defaults substituted for missing profile fields.
const (
	DefaultProfileName   = "User"
	DefaultProfileAge    = "Unknown"
	DefaultCalorieTarget = 1600
)
