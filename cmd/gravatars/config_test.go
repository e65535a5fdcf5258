package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/function61/gokit/testing/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	conf, err := loadConfig()
	assert.Ok(t, err)

	assert.Equal(t, conf.SaveDir, "gravatars")
	assert.Equal(t, conf.Parallelism, 1)
	assert.Equal(t, conf.HTTPTimeout, time.Duration(0))
	assert.Equal(t, conf.ListenAddr, ":80")
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("GRAVATARS_DIR", "/tmp/avatars")
	t.Setenv("GRAVATARS_PARALLELISM", "4")
	t.Setenv("GRAVATARS_HTTP_TIMEOUT", "15s")

	conf, err := loadConfig()
	assert.Ok(t, err)

	assert.Equal(t, conf.SaveDir, "/tmp/avatars")
	assert.Equal(t, conf.Parallelism, 4)
	assert.Equal(t, conf.HTTPTimeout, 15*time.Second)
}

func TestLoadConfigInvalid(t *testing.T) {
	t.Setenv("GRAVATARS_PARALLELISM", "many")

	_, err := loadConfig()
	assert.Assert(t, err != nil)
}

func TestLoadConfigOrReportPrintsError(t *testing.T) {
	t.Setenv("GRAVATARS_HTTP_TIMEOUT", "forever")

	output := &bytes.Buffer{}

	conf, ok := loadConfigOrReport(output)
	assert.Assert(t, !ok)
	assert.Assert(t, conf == nil)
	assert.Assert(t, strings.HasPrefix(output.String(), "loadConfig: "))
}
