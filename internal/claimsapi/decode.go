package claimsapi

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/fraatlas/fraportal/internal/claims"
	"github.com/fraatlas/fraportal/internal/errors"
	"github.com/fraatlas/fraportal/internal/reports"
)

// hectares accepts a JSON number or a numeric string. Numeric columns are serialised as strings by the claims
// service database driver.
type hectares float64

func (h *hectares) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*h = 0
		return nil
	}
	raw := string(data)
	if unquoted, err := strconv.Unquote(raw); err == nil {
		raw = strings.TrimSpace(unquoted)
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return errors.Wrap(err, "parse area", slog.String("value", string(data)))
	}
	*h = hectares(f)
	return nil
}

// timestamp accepts RFC 3339 timestamps and plain dates.
type timestamp time.Time

func (t *timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return errors.Wrap(err, "timestamp is not a string")
	}
	parsed, err := parseTime(s)
	if err != nil {
		return err
	}
	*t = timestamp(parsed)
	return nil
}

func parseTime(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", time.DateOnly} {
		if parsed, err := time.Parse(layout, s); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, errors.New("unrecognised timestamp", slog.String("value", s))
}

type claimJSON struct {
	ClaimNumber   string     `json:"claim_number"`
	ClaimType     string     `json:"claim_type"`
	ApplicantName string     `json:"applicant_name"`
	Village       string     `json:"village"`
	District      string     `json:"district"`
	State         string     `json:"state"`
	Area          *hectares  `json:"area"`
	Status        string     `json:"status"`
	SubmittedDate *timestamp `json:"submitted_date"`
}

type statusEventJSON struct {
	Status      string    `json:"status"`
	Date        timestamp `json:"date"`
	Description string    `json:"description"`
}

type trackResponseJSON struct {
	Claim         *claimJSON        `json:"claim"`
	StatusHistory []statusEventJSON `json:"statusHistory"`
}

// record validates the wire claim and converts it to a claims.Record.
func (c *claimJSON) record() (claims.Record, error) {
	var problems []error
	if strings.TrimSpace(c.ClaimNumber) == "" {
		problems = append(problems, errors.New("claim_number is required"))
	}
	if !claims.Type(c.ClaimType).Valid() {
		problems = append(problems, errors.New("claim_type is invalid", slog.String("claim_type", c.ClaimType)))
	}
	if c.Status == "" {
		problems = append(problems, errors.New("status is required"))
	}
	if c.SubmittedDate == nil {
		problems = append(problems, errors.New("submitted_date is required"))
	}
	var area float64
	if c.Area != nil {
		area = float64(*c.Area)
	}
	if area < 0 {
		problems = append(problems, errors.New("area is negative", slog.Float64("area", area)))
	}
	if len(problems) > 0 {
		return claims.Record{}, mark(ErrDecode, errors.Join(problems...))
	}

	return claims.Record{
		ClaimNumber:   c.ClaimNumber,
		ClaimType:     claims.Type(c.ClaimType),
		ApplicantName: c.ApplicantName,
		Village:       c.Village,
		District:      c.District,
		State:         c.State,
		Area:          area,
		Status:        claims.Status(c.Status),
		SubmittedDate: time.Time(*c.SubmittedDate),
		History:       nil,
	}, nil
}

func (r trackResponseJSON) record() (claims.Record, error) {
	if r.Claim == nil {
		return claims.Record{}, mark(ErrDecode, errors.New("claim is missing"))
	}
	record, err := r.Claim.record()
	if err != nil {
		return claims.Record{}, err
	}
	for _, e := range r.StatusHistory {
		record.History = append(record.History, claims.StatusEvent{
			Status:      claims.Status(e.Status),
			Date:        time.Time(e.Date),
			Description: e.Description,
		})
	}
	return record, nil
}

type submissionJSON struct {
	ClaimType     string   `json:"claim_type"`
	ApplicantName string   `json:"applicant_name"`
	Village       string   `json:"village"`
	Area          float64  `json:"area"`
	Documents     []string `json:"documents"`
	District      string   `json:"district"`
	State         string   `json:"state"`
}

func newSubmissionJSON(s claims.Submission) submissionJSON {
	documents := s.Documents
	if documents == nil {
		documents = []string{}
	}
	return submissionJSON{
		ClaimType:     string(s.ClaimType),
		ApplicantName: s.ApplicantName,
		Village:       s.Village,
		Area:          s.Area,
		Documents:     documents,
		District:      s.District,
		State:         s.State,
	}
}

type submitResponseJSON struct {
	Message string `json:"message"`
	Claim   struct {
		ClaimNumber string `json:"claim_number"`
	} `json:"claim"`
}

type summaryJSON struct {
	Timeseries []struct {
		Month         string `json:"month"`
		Beneficiaries int    `json:"beneficiaries"`
	} `json:"timeseries"`
	ByType []struct {
		Type  string  `json:"type"`
		Value float64 `json:"value"`
	} `json:"byType"`
	TopDistricts []struct {
		Name          string `json:"name"`
		Beneficiaries int    `json:"beneficiaries"`
	} `json:"topDistricts"`
}

func (s summaryJSON) summary() reports.Summary {
	var out reports.Summary
	for _, m := range s.Timeseries {
		out.Timeseries = append(out.Timeseries, reports.MonthlyBeneficiaries{Month: m.Month, Beneficiaries: m.Beneficiaries})
	}
	for _, t := range s.ByType {
		out.ByType = append(out.ByType, reports.TypeShare{Type: t.Type, Value: t.Value})
	}
	for _, d := range s.TopDistricts {
		out.TopDistricts = append(out.TopDistricts, reports.DistrictBeneficiaries{Name: d.Name, Beneficiaries: d.Beneficiaries})
	}
	return out
}

type loginRequestJSON struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userJSON struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	State    string `json:"state"`
	District string `json:"district"`
	Block    string `json:"block"`
}

type loginResponseJSON struct {
	Token string    `json:"token"`
	User  *userJSON `json:"user"`
}
