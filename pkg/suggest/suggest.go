// Package suggest turns a visitor's search input into property search
// suggestions using a language model.
//
// The model is an opaque collaborator. Any failure to reach it or to read its
// answer degrades to an empty list of suggestions.
package suggest

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidUserType is returned for a user type other than investor or
// residential.
var ErrInvalidUserType = errors.New("invalid user type")

// UserType steers the kind of properties suggested.
type UserType string

const (
	Investor    UserType = "investor"
	Residential UserType = "residential"
)

// ParseUserType matches s case-insensitively.
func ParseUserType(s string) (UserType, error) {
	switch t := UserType(strings.ToLower(strings.TrimSpace(s))); t {
	case Investor, Residential:
		return t, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidUserType, s)
}

// Request is the input of one suggestion round.
type Request struct {
	Query    string   `json:"query"`
	UserType UserType `json:"userType"`
}

// Response is the model's answer.
type Response struct {
	Suggestions []string `json:"suggestions"`
}

// DefaultCount is the number of suggestions asked for.
const DefaultCount = 5
