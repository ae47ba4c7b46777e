package claimscmd

import (
	"os"
	"path/filepath"

	"github.com/fraatlas/fraportal/internal/claims"
	"github.com/fraatlas/fraportal/internal/claimsapi"
	"github.com/fraatlas/fraportal/internal/errors"
	"gopkg.in/yaml.v3"
)

var errNotSignedIn = errors.NewSentinel("not signed in, run fraportal-cli login first")

type storedUser struct {
	ID       string `yaml:"id"`
	Username string `yaml:"username"`
	Email    string `yaml:"email"`
	Role     string `yaml:"role"`
	State    string `yaml:"state"`
	District string `yaml:"district"`
	Block    string `yaml:"block,omitempty"`
}

type storedSession struct {
	APIURL string     `yaml:"api_url"`
	Token  string     `yaml:"token"`
	User   storedUser `yaml:"user"`
}

func newStoredSession(apiURL string, sess claimsapi.Session) storedSession {
	u := sess.User
	return storedSession{
		APIURL: apiURL,
		Token:  sess.Token,
		User: storedUser{
			ID:       u.ID,
			Username: u.Username,
			Email:    u.Email,
			Role:     u.Role,
			State:    u.State,
			District: u.District,
			Block:    u.Block,
		},
	}
}

func (s storedSession) session() claimsapi.Session {
	return claimsapi.Session{
		Token: s.Token,
		User: claims.User{
			ID:       s.User.ID,
			Username: s.User.Username,
			Email:    s.User.Email,
			Role:     s.User.Role,
			State:    s.User.State,
			District: s.User.District,
			Block:    s.User.Block,
		},
	}
}

func saveSession(path string, s storedSession) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return errors.Wrap(err, "marshal session")
	}
	if err = os.MkdirAll(filepath.Dir(path), 0o700); err != nil { //nolint:mnd // owner only
		return errors.Wrap(err, "create session directory")
	}
	if err = os.WriteFile(path, data, 0o600); err != nil { //nolint:mnd // owner only
		return errors.Wrap(err, "write session file")
	}
	return nil
}

// loadSession reads the session saved by login. errNotSignedIn is returned when there is none.
func loadSession(path string) (storedSession, error) {
	var s storedSession
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, errNotSignedIn
	}
	if err != nil {
		return s, errors.Wrap(err, "read session file")
	}
	if err = yaml.Unmarshal(data, &s); err != nil {
		return s, errors.Wrap(err, "parse session file")
	}
	if s.Token == "" {
		return s, errNotSignedIn
	}
	return s, nil
}

func removeSession(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return errors.Wrap(err, "remove session file")
	}
	return nil
}
