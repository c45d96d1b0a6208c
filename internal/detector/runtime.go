package detector

import (
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"golang.org/x/sys/unix"

	terr "netemlab/internal/errors"
)

// requiredCommands are invoked by rendered scripts.
var requiredCommands = []string{"bash", "sudo", "sysctl", "iptables", "tc"}

// lookPath and geteuid are swapped out by tests.
var (
	lookPath = exec.LookPath
	geteuid  = unix.Geteuid
)

// ValidateRuntime reports binaries missing from PATH that applying or resetting
// would need. Rendering works without them, so callers log the result instead
// of refusing to start.
func ValidateRuntime(logger *slog.Logger) error {
	if logger != nil {
		logger.Info("runtime prerequisite check started")
	}

	var issues []string
	for _, cmd := range requiredCommands {
		if _, err := lookPath(cmd); err != nil {
			issues = append(issues, fmt.Sprintf("missing command %q: %v", cmd, err))
		}
	}

	if len(issues) > 0 {
		description := strings.Join(issues, "; ")
		if logger != nil {
			logger.Warn("runtime prerequisite check failed", slog.String("issues", description))
		}
		return terr.New(
			terr.CategoryExecution,
			errors.New("runtime prerequisites missing"),
			terr.ErrorContext{Operation: "runtime_validation", Value: description},
		)
	}

	if logger != nil {
		logger.Info("runtime prerequisite check passed")
	}
	return nil
}

// ValidatePrivileges reports whether the process runs as root. Scripts prefix
// every command with sudo, so a non-root server still works when sudo is
// configured without a password prompt.
func ValidatePrivileges(logger *slog.Logger) bool {
	if uid := geteuid(); uid != 0 {
		if logger != nil {
			logger.Warn("not running as root; apply and reset rely on non-interactive sudo", slog.Int("euid", uid))
		}
		return false
	}
	return true
}
