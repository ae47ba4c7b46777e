// Package claimscmd holds the commands that talk to the claims API.
package claimscmd

import (
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"

	"github.com/fraatlas/fraportal/cmd/cli/settings"
	"github.com/fraatlas/fraportal/internal/claims"
	"github.com/fraatlas/fraportal/internal/claimsapi"
	"github.com/fraatlas/fraportal/internal/errors"
	"github.com/fraatlas/fraportal/internal/logging"
	"github.com/fraatlas/fraportal/internal/reports"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const groupID = "claims"

var Group = &cobra.Group{ //nolint:gochecknoglobals // cobra group
	ID:    groupID,
	Title: "Claims:",
}

var ErrClaimNotFound = errors.NewSentinel("claim not found")

func newLogger(cmd *cobra.Command, s settings.Settings) *slog.Logger {
	level := slog.LevelWarn
	if s.Verbose {
		level = slog.LevelDebug
	}
	return logging.NewLogger(cmd.ErrOrStderr(), level, nil)
}

func newClient(cmd *cobra.Command, s settings.Settings) *claimsapi.Client {
	return claimsapi.NewClient(claimsapi.Config{
		BaseURL:           s.APIURL,
		Timeout:           s.Timeout,
		RequestsPerSecond: 0,
		Burst:             0,
		SummaryTTL:        0,
	}, newLogger(cmd, s))
}

// NewLogin signs in and stores the token in the session file.
func NewLogin(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "login",
		Short:   "Sign in to the claims API",
		GroupID: groupID,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := settings.Load(v)
			if s.Email == "" || s.Password == "" {
				return errors.New("email and password are required, use --email and FRAPORTAL_PASSWORD")
			}
			sess, err := newClient(cmd, s).Login(cmd.Context(), s.Email, s.Password)
			if err != nil {
				if errors.Is(err, claimsapi.ErrUnauthorized) {
					return errors.New("invalid email or password")
				}
				return errors.Wrap(err, "login")
			}
			if err = saveSession(s.SessionFile, newStoredSession(s.APIURL, sess)); err != nil {
				return err
			}
			u := sess.User
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s (%s, %s)\n", u.Username, u.District, u.State)
			return nil
		},
	}
	cmd.Flags().String("email", "", "account email")
	cmd.Flags().String("password", "", "account password, prefer FRAPORTAL_PASSWORD")
	_ = v.BindPFlag(settings.KeyEmail, cmd.Flags().Lookup("email"))
	_ = v.BindPFlag(settings.KeyPassword, cmd.Flags().Lookup("password"))
	return cmd
}

// NewLogout forgets the stored session.
func NewLogout(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:     "logout",
		Short:   "Forget the stored session",
		GroupID: groupID,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := removeSession(settings.Load(v).SessionFile); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
			return nil
		},
	}
}

// NewTrack looks up a claim by its number.
func NewTrack(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:     "track <claim-number>",
		Short:   "Show the status of a claim",
		GroupID: groupID,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, ok := claims.ParseQuery(args[0])
			if !ok {
				return errors.New("claim number is empty")
			}
			s := settings.Load(v)
			stored, err := loadSession(s.SessionFile)
			if err != nil {
				return err
			}
			record, err := newClient(cmd, s).TrackClaim(cmd.Context(), stored.session(), q)
			switch {
			case errors.Is(err, claimsapi.ErrUnauthorized):
				_ = removeSession(s.SessionFile)
				return errNotSignedIn
			case err != nil:
				// Every other failure reads as a missing claim, the same way the web tracker shows it.
				newLogger(cmd, s).DebugContext(cmd.Context(), "track claim failed", errors.SlogError(err))
				return errors.Wrap(ErrClaimNotFound, string(q))
			}
			return printRecord(cmd.OutOrStdout(), record)
		},
	}
}

func printRecord(w io.Writer, r claims.Record) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0) //nolint:mnd // column padding
	_, _ = fmt.Fprintf(tw, "Claim number:\t%s\n", r.ClaimNumber)
	_, _ = fmt.Fprintf(tw, "Type:\t%s (%s)\n", r.ClaimType, r.ClaimType.Description())
	_, _ = fmt.Fprintf(tw, "Applicant:\t%s\n", r.ApplicantName)
	_, _ = fmt.Fprintf(tw, "Village:\t%s\n", r.Village)
	_, _ = fmt.Fprintf(tw, "District:\t%s, %s\n", r.District, r.State)
	_, _ = fmt.Fprintf(tw, "Area:\t%s\n", claims.FormatArea(r.Area))
	_, _ = fmt.Fprintf(tw, "Status:\t%s [%s]\n", r.Status.Label(), r.Status.Color())
	_, _ = fmt.Fprintf(tw, "Submitted:\t%s\n", r.SubmittedDate.Format("02 Jan 2006"))
	for _, event := range r.History {
		_, _ = fmt.Fprintf(tw, "  %s\t%s %s\n", event.Date.Format("02 Jan 2006"), event.Status.Label(), event.Description)
	}
	if err := tw.Flush(); err != nil {
		return errors.Wrap(err, "write claim")
	}
	return nil
}

type summaryOutput struct {
	Headlines headlinesOutput `yaml:"headlines"`
	Monthly   []barOutput     `yaml:"monthly_beneficiaries"`
	ByType    []barOutput     `yaml:"outcomes"`
	Districts []barOutput     `yaml:"top_districts"`
}

type headlinesOutput struct {
	LatestMonth         string   `yaml:"latest_month,omitempty"`
	LatestBeneficiaries int      `yaml:"latest_beneficiaries"`
	GrowthPercent       *float64 `yaml:"growth_percent,omitempty"`
	GrantedPercent      *float64 `yaml:"granted_percent,omitempty"`
	TopDistrict         string   `yaml:"top_district,omitempty"`
}

type barOutput struct {
	Label string  `yaml:"label"`
	Value float64 `yaml:"value"`
}

func newSummaryOutput(s reports.Summary) summaryOutput {
	h := reports.ComputeHeadlines(s)
	out := summaryOutput{
		Headlines: headlinesOutput{
			LatestMonth:         h.LatestMonth,
			LatestBeneficiaries: h.LatestBeneficiaries,
			GrowthPercent:       nil,
			GrantedPercent:      nil,
			TopDistrict:         h.TopDistrict,
		},
		Monthly:   bars(reports.MonthlyBars(s)),
		ByType:    bars(reports.TypeBars(s)),
		Districts: bars(reports.DistrictBars(s)),
	}
	if h.HasGrowth {
		out.Headlines.GrowthPercent = &h.GrowthPercent
	}
	if h.HasGranted {
		out.Headlines.GrantedPercent = &h.GrantedPercent
	}
	return out
}

func bars(in []reports.Bar) []barOutput {
	out := make([]barOutput, 0, len(in))
	for _, b := range in {
		out = append(out, barOutput{Label: b.Label, Value: b.Value})
	}
	return out
}

// NewSummary prints the report summary as YAML.
func NewSummary(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:     "summary",
		Short:   "Print the FRA report summary as YAML",
		GroupID: groupID,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := settings.Load(v)
			stored, err := loadSession(s.SessionFile)
			if err != nil {
				return err
			}
			summary, err := newClient(cmd, s).ReportSummary(cmd.Context(), stored.session())
			if errors.Is(err, claimsapi.ErrUnauthorized) {
				_ = removeSession(s.SessionFile)
				return errNotSignedIn
			}
			if err != nil {
				return errors.Wrap(err, "fetch report summary")
			}
			if summary.Empty() {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No data available")
				return nil
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2) //nolint:mnd // two spaces
			if err = enc.Encode(newSummaryOutput(summary)); err != nil {
				return errors.Wrap(err, "encode summary")
			}
			return errors.Wrap(enc.Close(), "encode summary")
		},
	}
}
