package configuration

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	path := writeConfig(t, `
llm:
  api_key: sk-test
ratings:
  school_id: U2Nob29sLTEzODE=
`)

	config, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "info", config.Logger.Level)
	assert.Equal(t, LogFormatJSON, config.Logger.Format)
	assert.Equal(t, ":8080", config.Server.Address)
	assert.Equal(t, 10, config.Server.MaxUploadMB)
	assert.Equal(t, 15*time.Second, config.Server.ReadTimeout)
	assert.Equal(t, 2*time.Minute, config.Server.WriteTimeout)
	assert.Equal(t, "gpt-4o-mini", config.LLM.Model)
	assert.Equal(t, 60*time.Second, config.LLM.Timeout)
	assert.True(t, config.Ratings.Enabled)
	assert.Equal(t, 10*time.Second, config.Ratings.Timeout)
	assert.False(t, config.Social.Enabled())
	assert.True(t, config.Classifier.UseLLM)
	assert.Equal(t, "HUMANITIES", config.Classifier.Fallback)
	assert.Equal(t, 0.0, config.Scoring.TypicalHardSemester)
	assert.Equal(t, 4, config.Scoring.Concurrency)
}

func TestLoadConfig_FileValues(t *testing.T) {
	path := writeConfig(t, `
logger:
  level: DEBUG
  format: text
server:
  address: 127.0.0.1:9000
  max_upload_mb: 2
llm:
  api_key: sk-test
  model: gpt-4o
  timeout: 5s
ratings:
  enabled: false
classifier:
  rules: /etc/cooked/course_types.yaml
  use_llm: false
  fallback: stem
scoring:
  typical_hard_semester: 1200
  concurrency: 1
`)

	config, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, LogFormatText, config.Logger.Format)
	assert.Equal(t, "127.0.0.1:9000", config.Server.Address)
	assert.Equal(t, 2, config.Server.MaxUploadMB)
	assert.Equal(t, 5*time.Second, config.LLM.Timeout)
	assert.False(t, config.Ratings.Enabled)
	assert.Equal(t, "/etc/cooked/course_types.yaml", config.Classifier.Rules)
	assert.False(t, config.Classifier.UseLLM)
	assert.Equal(t, "STEM", config.Classifier.Fallback)
	assert.Equal(t, 1200.0, config.Scoring.TypicalHardSemester)
	assert.Equal(t, 1, config.Scoring.Concurrency)
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	t.Setenv("COOKED_LLM_API_KEY", "sk-from-env")
	t.Setenv("COOKED_RATINGS_ENABLED", "false")
	path := writeConfig(t, "logger:\n  level: warn\n")

	config, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "sk-from-env", config.LLM.APIKey)
	assert.False(t, config.Ratings.Enabled)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "error reading config file")
}

func TestLoadConfig_Invalid(t *testing.T) {
	cases := map[string]string{
		"llm.api_key: must be specified": `
ratings:
  enabled: false
`,
		"logger.level: unsupported level 'loud'": `
logger:
  level: loud
llm:
  api_key: sk-test
`,
		"logger.format: unsupported format 'xml'": `
logger:
  format: xml
llm:
  api_key: sk-test
`,
		"ratings.school_id: must be specified": `
llm:
  api_key: sk-test
`,
		"social.subreddit: must be specified": `
llm:
  api_key: sk-test
ratings:
  enabled: false
social:
  client_id: id
  client_secret: secret
`,
		"classifier.fallback: unsupported type 'ARTS'": `
llm:
  api_key: sk-test
ratings:
  enabled: false
classifier:
  fallback: ARTS
`,
	}

	for expected, content := range cases {
		_, err := LoadConfig(writeConfig(t, content))
		assert.ErrorContains(t, err, expected)
	}
}

func TestSocialConfig_Validate_Defaults(t *testing.T) {
	social := SocialConfig{ClientID: "id", ClientSecret: "secret", Subreddit: "USC"}

	require.NoError(t, social.Validate())
	assert.Equal(t, 5, social.Limit)
	assert.Equal(t, 10*time.Second, social.Timeout)
}
