package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseFlags_OverridesSelectedFields(t *testing.T) {
	orig := os.Args
	os.Args = []string{orig[0], "-a", ":3000", "-d", "memory", "-t", "5"}
	t.Cleanup(func() { os.Args = orig })

	var c Config
	c.LoadDefaults()
	parseFlags(&c)

	assert.Equal(t, ":3000", c.EndpointAddr)
	assert.Equal(t, "memory", c.DatabaseDSN)
	assert.Equal(t, 5*time.Minute, c.AccessTokenValidityDuration)
	assert.Equal(t, "secretKey", c.SecretKey)
}

func TestParseFlags_NoFlagsKeepsDefaults(t *testing.T) {
	orig := os.Args
	os.Args = []string{orig[0]}
	t.Cleanup(func() { os.Args = orig })

	var c Config
	c.LoadDefaults()
	parseFlags(&c)

	assert.Equal(t, ":8080", c.EndpointAddr)
	assert.Equal(t, 15*time.Minute, c.AccessTokenValidityDuration)
}
