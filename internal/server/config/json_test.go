package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJson_OverlaysFromFile(t *testing.T) {
	origArgs := os.Args
	defer func() { os.Args = origArgs }()

	dir := t.TempDir()
	path := filepath.Join(dir, "conf.json")
	body := `{
		"endpoint_addr": ":9999",
		"database_dsn": "postgres://u:p@db:5432/x",
		"app_name": "TestApp",
		"app_base_url": "https://app.example.com",
		"access_token_secret": "acs",
		"refresh_token_secret": "rsh",
		"access_token_validity_duration": "1h",
		"refresh_token_validity_duration": "720h",
		"reset_token_validity_duration": "5m",
		"smtp_addr": "mail:25",
		"smtp_user": "mailer",
		"smtp_password": "pw",
		"smtp_from": "no-reply@example.com",
		"s3_root_user": "root",
		"s3_root_password": "rootpw",
		"s3_bucket": "imgs",
		"s3_region": "eu-west-1",
		"s3_base_endpoint": "http://minio:9000/"
	}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	os.Args = []string{"server", "-c", path}

	var c Config
	c.LoadDefaults()
	parseJson(&c)

	assert.Equal(t, ":9999", c.EndpointAddr)
	assert.Equal(t, "postgres://u:p@db:5432/x", c.DatabaseDSN)
	assert.Equal(t, "TestApp", c.AppName)
	assert.Equal(t, "https://app.example.com", c.AppBaseURL)
	assert.Equal(t, "acs", c.AccessTokenSecret)
	assert.Equal(t, "rsh", c.RefreshTokenSecret)
	assert.Equal(t, time.Hour, c.AccessTokenValidityDuration)
	assert.Equal(t, 720*time.Hour, c.RefreshTokenValidityDuration)
	assert.Equal(t, 5*time.Minute, c.ResetTokenValidityDuration)
	assert.Equal(t, "mail:25", c.SMTPAddr)
	assert.Equal(t, "mailer", c.SMTPUser)
	assert.Equal(t, "pw", c.SMTPPassword)
	assert.Equal(t, "no-reply@example.com", c.SMTPFrom)
	assert.Equal(t, "root", c.S3RootUser)
	assert.Equal(t, "rootpw", c.S3RootPassword)
	assert.Equal(t, "imgs", c.S3Bucket)
	assert.Equal(t, "eu-west-1", c.S3Region)
	assert.Equal(t, "http://minio:9000/", c.S3BaseEndpoint)
}

func TestParseJson_NoFlagIsNoop(t *testing.T) {
	origArgs := os.Args
	defer func() { os.Args = origArgs }()

	os.Args = []string{"server"}

	var c Config
	c.LoadDefaults()
	before := c
	parseJson(&c)

	assert.Equal(t, before, c)
}
