package claims

import (
	"strconv"
	"strings"
	"time"
)

// Type is the kind of forest right being claimed.
type Type string

const (
	// TypeIFR is an Individual Forest Rights claim by a traditional forest dweller.
	TypeIFR Type = "IFR"
	// TypeCFR is a Community Forest Rights claim by a village community.
	TypeCFR Type = "CFR"
	// TypeCR is a Community Rights claim for traditional access.
	TypeCR Type = "CR"
)

// Types lists the claim types in the order they are offered to applicants.
var Types = []Type{TypeIFR, TypeCFR, TypeCR}

// Valid reports whether t is one of the known claim types.
func (t Type) Valid() bool {
	switch t {
	case TypeIFR, TypeCFR, TypeCR:
		return true
	}
	return false
}

// Description returns the long form of the claim type.
func (t Type) Description() string {
	switch t {
	case TypeIFR:
		return "Individual Forest Rights"
	case TypeCFR:
		return "Community Forest Rights"
	case TypeCR:
		return "Community Rights"
	}
	return string(t)
}

// Record is a claim as returned by the claims service.
type Record struct {
	ClaimNumber   string
	ClaimType     Type
	ApplicantName string
	Village       string
	District      string
	State         string
	// Area in hectares.
	Area          float64
	Status        Status
	SubmittedDate time.Time
	History       []StatusEvent
}

// StatusEvent is one entry of a claim's status history.
type StatusEvent struct {
	Status      Status
	Date        time.Time
	Description string
}

// FormatArea renders the area in hectares the way the claim table shows it.
func FormatArea(hectares float64) string {
	return strconv.FormatFloat(hectares, 'f', -1, 64) + " ha"
}

// Query is a trimmed claim number entered by the user.
type Query string

// ParseQuery trims raw user input. ok is false when nothing but whitespace was entered, in which case no lookup may
// be issued.
func ParseQuery(raw string) (Query, bool) {
	q := strings.TrimSpace(raw)
	return Query(q), q != ""
}

// Submission is the payload of a new claim.
type Submission struct {
	ClaimType     Type
	ApplicantName string
	Village       string
	Area          float64
	Documents     []string
	District      string
	State         string
}

// User is the signed-in user as known by the claims service.
type User struct {
	ID       string
	Username string
	Email    string
	Role     string
	State    string
	District string
	Block    string
}
