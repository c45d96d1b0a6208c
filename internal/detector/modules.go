package detector

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// ModuleInfo captures kernel module metadata.
type ModuleInfo struct {
	Name        string
	Description string
}

// ShapingModules enumerates the kernel modules rendered scripts rely on.
var ShapingModules = []ModuleInfo{
	{
		Name:        "sch_netem",
		Description: "netem qdisc for delay, loss, duplication and corruption",
	},
	{
		Name:        "sch_htb",
		Description: "HTB qdisc for the bandwidth cap",
	},
	{
		Name:        "iptable_nat",
		Description: "NAT table for masquerading the test network",
	},
}

// sysModuleDir is overridden by tests.
var sysModuleDir = "/sys/module"

// CheckKernelModules returns the shaping modules that are not loaded. The
// kernel usually autoloads them on first use, so absence is only a warning.
// Nothing is modprobed: the server may run without privileges.
func CheckKernelModules(logger *slog.Logger) []ModuleInfo {
	var missing []ModuleInfo

	for _, module := range ShapingModules {
		if err := moduleLoaded(module.Name); err != nil {
			missing = append(missing, module)
			if logger != nil {
				logger.Warn("kernel module not loaded",
					slog.String("module", module.Name),
					slog.String("description", module.Description),
					slog.String("error", err.Error()))
			}
			continue
		}

		if logger != nil {
			logger.Debug("kernel module ready", slog.String("module", module.Name))
		}
	}

	return missing
}

// MissingModuleNames joins module names for display.
func MissingModuleNames(modules []ModuleInfo) string {
	names := make([]string, 0, len(modules))
	for _, m := range modules {
		names = append(names, m.Name)
	}
	return strings.Join(names, ", ")
}

func moduleLoaded(name string) error {
	if _, err := os.Stat(filepath.Join(sysModuleDir, name)); err != nil {
		return fmt.Errorf("module %s not present: %w", name, err)
	}
	return nil
}
