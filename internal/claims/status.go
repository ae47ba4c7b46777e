package claims

import "strings"

// Status is the lifecycle tag of a claim.
//
// The claims service may introduce statuses this package does not know about, so Status is an open set.
type Status string

const (
	StatusSubmitted            Status = "submitted"
	StatusUnderReview          Status = "under_review"
	StatusDigitized            Status = "digitized"
	StatusApproved             Status = "approved"
	StatusRejected             Status = "rejected"
	StatusPendingGISValidation Status = "pending_gis_validation"
)

// Color is the presentation color of a status chip.
type Color string

const (
	ColorInfo      Color = "info"
	ColorWarning   Color = "warning"
	ColorSecondary Color = "secondary"
	ColorSuccess   Color = "success"
	ColorError     Color = "error"
	ColorDefault   Color = "default"
)

var statusColors = map[Status]Color{
	StatusSubmitted:            ColorInfo,
	StatusUnderReview:          ColorWarning,
	StatusDigitized:            ColorSecondary,
	StatusApproved:             ColorSuccess,
	StatusRejected:             ColorError,
	StatusPendingGISValidation: ColorWarning,
}

// StatusColor maps any status string to its chip color. Unknown statuses are ColorDefault.
func StatusColor(status string) Color {
	if c, ok := statusColors[Status(status)]; ok {
		return c
	}
	return ColorDefault
}

// Color returns the chip color of s.
func (s Status) Color() Color {
	return StatusColor(string(s))
}

// Label returns the chip label: upper case with underscores shown as spaces.
func (s Status) Label() string {
	return strings.ToUpper(strings.ReplaceAll(string(s), "_", " "))
}

// LegendEntry explains a status to applicants.
type LegendEntry struct {
	Status  Status
	Meaning string
}

// Legend lists the statuses explained on the tracking page.
var Legend = []LegendEntry{
	{Status: StatusSubmitted, Meaning: "Claim received and under initial review"},
	{Status: StatusUnderReview, Meaning: "Being reviewed by district office"},
	{Status: StatusApproved, Meaning: "Claim approved and processed"},
}
