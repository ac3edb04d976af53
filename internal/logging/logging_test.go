package logging_test

import (
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"

	"github.com/Staffjoy/mobius-assignment/internal/config"
	"github.com/Staffjoy/mobius-assignment/internal/logging"
)

func TestNewUsesConfiguredLevelAndName(t *testing.T) {
	cfg := config.Config{Env: "test", LogLevel: "debug", Syslog: false}

	logger := logging.New(cfg)

	assert.Equal(t, hclog.Debug, logger.GetLevel())
	assert.Equal(t, "mobius", logger.Name())
}

func TestNewFallsBackToStdoutWhenSyslogUnreachable(t *testing.T) {
	cfg := config.Config{Env: "prod", LogLevel: "info", Syslog: true, SyslogAddr: "127.0.0.1:1"}

	logger := logging.New(cfg)

	assert.NotNil(t, logger)
	assert.Equal(t, hclog.Info, logger.GetLevel())
}
