// internal/telemetry/logging.go
package telemetry

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
)

// SetupLogging configures the global logrus logger. Format is "text" or
// "json".
func SetupLogging(level, format string) error {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	log.SetLevel(lvl)
	log.SetOutput(os.Stdout)

	switch format {
	case "json":
		log.SetFormatter(&log.JSONFormatter{})
	case "text", "":
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	default:
		return fmt.Errorf("unknown log format %q", format)
	}
	return nil
}
