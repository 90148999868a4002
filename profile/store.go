package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"mealcompanion"
)

// Store looks up a health profile by user id.
type Store interface {
	Lookup(ctx context.Context, userID string) (mealcompanion.Profile, error)
}

var (
	ErrNotFound = mealcompanion.ErrProfileNotFound
	ErrDecode   = mealcompanion.ErrProfileDecode
)

var (
	validUserID = regexp.MustCompile(`^[a-z0-9_-]+$`)
	validate    = validator.New(validator.WithRequiredStructEnabled())
)

// NormalizeUserID trims and lower-cases a user id and rejects anything that
// could not be a record key.
func NormalizeUserID(userID string) (string, error) {
	id := strings.ToLower(strings.TrimSpace(userID))
	if !validUserID.MatchString(id) {
		return "", fmt.Errorf("user id %q: %w", userID, ErrNotFound)
	}
	return id, nil
}

type format int

const (
	formatJSON format = iota
	formatYAML
)

// decode parses and validates one profile record.
func decode(userID string, data []byte, f format) (mealcompanion.Profile, error) {
	var p mealcompanion.Profile
	var err error
	switch f {
	case formatYAML:
		err = yaml.Unmarshal(data, &p)
	default:
		err = json.Unmarshal(data, &p)
	}
	if err != nil {
		return mealcompanion.Profile{}, fmt.Errorf("profile %q: %w: %v", userID, ErrDecode, err)
	}

	if err := validate.Struct(p); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
			}
			return mealcompanion.Profile{}, fmt.Errorf("profile %q: %w: %s", userID, ErrDecode, strings.Join(fields, "; "))
		}
		return mealcompanion.Profile{}, fmt.Errorf("profile %q: %w: %v", userID, ErrDecode, err)
	}

	if p.ID == "" {
		p.ID = userID
	}
	return p, nil
}
