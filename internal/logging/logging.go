// Package logging builds the process-wide leveled logger, mirroring
// mobius/__init__.py's logging setup: a level taken from configuration, a
// "hostname" field tagging every line with "mobius-<env>", and a choice
// between a syslog sink (Papertrail in the original) and stdout.
package logging

import (
	"fmt"
	"io"
	"net"
	"os"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/Staffjoy/mobius-assignment/internal/config"
)

// New builds the logger for one process run. When cfg.Syslog is set it
// dials cfg.SyslogAddr over TCP and logs there; otherwise it logs to
// stdout. A syslog dial failure falls back to stdout rather than failing
// startup, since losing the log sink should never stop the calculation.
func New(cfg config.Config) hclog.Logger {
	var output io.Writer = os.Stdout
	if cfg.Syslog {
		conn, err := net.DialTimeout("tcp", cfg.SyslogAddr, 5*time.Second)
		if err != nil {
			fmt.Fprintf(os.Stderr, "mobius-assignment: syslog dial failed, logging to stdout: %v\n", err)
		} else {
			output = conn
		}
	}

	base := hclog.New(&hclog.LoggerOptions{
		Name:            "mobius",
		Level:           hclog.LevelFromString(cfg.LogLevel),
		Output:          output,
		TimeFormat:      "2006-01-02T15:04:05",
		IncludeLocation: false,
	})

	return base.With("hostname", fmt.Sprintf("mobius-%s", cfg.Env))
}
