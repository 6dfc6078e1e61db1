package testsupport

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// ExternalDependenciesSuite loads live credentials from SETTINGS_FILE, or
// $HOME/.env when that exists, before suites that call real provider APIs.
type ExternalDependenciesSuite struct {
	suite.Suite
	settingsFile string
}

func (s *ExternalDependenciesSuite) SetupSuite() {
	settingsFromEnv := strings.TrimSpace(os.Getenv("SETTINGS_FILE"))
	settingsFile := settingsFromEnv
	if settingsFile == "" {
		homeDir, err := os.UserHomeDir()
		require.NoError(s.T(), err)
		settingsFile = filepath.Join(homeDir, ".env")
	}

	s.settingsFile = settingsFile

	_, err := os.Stat(settingsFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && settingsFromEnv == "" {
			return
		}
		require.NoError(s.T(), err)
		return
	}

	err = godotenv.Overload(settingsFile)
	require.NoError(s.T(), err)
}

func (s *ExternalDependenciesSuite) SettingsFile() string {
	return s.settingsFile
}

// RequireEnv returns the trimmed value of name or skips the suite.
func (s *ExternalDependenciesSuite) RequireEnv(name string) string {
	value := strings.TrimSpace(os.Getenv(name))
	if value == "" {
		s.T().Skipf("%s is not set; skipping external dependency integration test", name)
	}
	return value
}
