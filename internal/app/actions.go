package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	terr "netemlab/internal/errors"
	"netemlab/internal/netem"
)

var errNoRunner = errors.New("script execution is not configured")
var errNoPresets = errors.New("preset storage is not configured")

func (a *App) run(ctx context.Context, resp *Response, operation string, script netem.Script) {
	if a.runner == nil {
		resp.fail(1, errNoRunner.Error())
		return
	}

	a.logger.Info("running script",
		slog.String("operation", operation),
		slog.String("downlink", resp.Config.Downlink),
		slog.Int("commands", len(script.Commands())))

	result, err := a.runner.Run(ctx, script.String())
	if err != nil {
		a.logError("script execution failed", err)
		output := "execution failed: " + terr.Cause(err)
		if result.Output != "" {
			output += "\n" + result.Output
		}
		resp.fail(1, output)
		return
	}

	if !result.OK() {
		a.logger.Warn("script exited with nonzero status",
			slog.String("operation", operation),
			slog.Int("exit_code", result.ExitCode))
	}
	resp.HasResult = true
	resp.Status = result.ExitCode
	resp.Output = result.Output
}

// warnConfig collects advisory problems; it never blocks an apply.
func (a *App) warnConfig(resp *Response) {
	if err := resp.Config.Validate(); err != nil {
		resp.Warnings = append(resp.Warnings, causes(err)...)
		a.logger.Warn("config failed strict validation", slog.String("error", err.Error()))
	}
	a.warnInterfaces(resp, resp.Config.Uplink, resp.Config.Downlink)
}

func (a *App) warnInterfaces(resp *Response, names ...string) {
	if a.interfaces == nil {
		return
	}
	err := a.interfaces.CheckInterfaces(names...)
	if err == nil {
		return
	}
	resp.Warnings = append(resp.Warnings, causes(err)...)
	a.logger.Warn("interface check failed", slog.String("error", err.Error()))
}

// causes flattens a MultiError into one display message per problem.
func causes(err error) []string {
	var multi *terr.MultiError
	if !errors.As(err, &multi) {
		return []string{terr.Cause(err)}
	}
	messages := make([]string, 0, multi.Len())
	for _, e := range multi.Errors {
		messages = append(messages, terr.Cause(e))
	}
	return messages
}

func (a *App) savePreset(resp *Response) {
	if a.presets == nil {
		resp.fail(1, errNoPresets.Error())
		return
	}
	safe, err := a.presets.Save(resp.PresetName, resp.Config)
	if err != nil {
		a.logError("save preset failed", err)
		if terr.Is(err, terr.CategoryValidation) {
			resp.fail(1, "invalid preset name")
			return
		}
		resp.fail(1, "failed to save preset: "+terr.Cause(err))
		return
	}
	resp.PresetName = safe
	resp.succeed("saved preset: " + safe)
}

func (a *App) loadPreset(resp *Response) {
	if a.presets == nil {
		resp.fail(1, errNoPresets.Error())
		return
	}
	cfg, err := a.presets.Load(resp.SelectedPreset)
	if err != nil {
		a.logError("load preset failed", err)
		switch {
		case terr.Is(err, terr.CategoryNotFound):
			resp.fail(1, "preset not found")
		case terr.Is(err, terr.CategoryValidation):
			resp.fail(1, "invalid preset name")
		default:
			resp.fail(1, "failed to load preset: "+terr.Cause(err))
		}
		return
	}
	resp.Config = cfg
	resp.succeed(fmt.Sprintf("loaded preset: %s", resp.SelectedPreset))
}

func (a *App) deletePreset(resp *Response) {
	if a.presets == nil {
		resp.fail(1, errNoPresets.Error())
		return
	}
	safe, err := a.presets.Delete(resp.SelectedPreset)
	if err != nil {
		a.logError("delete preset failed", err)
		switch {
		case terr.Is(err, terr.CategoryNotFound):
			resp.fail(1, "preset not found")
		case terr.Is(err, terr.CategoryValidation):
			resp.fail(1, "invalid preset name")
		default:
			resp.fail(1, "failed to delete preset: "+terr.Cause(err))
		}
		return
	}
	resp.SelectedPreset = ""
	resp.succeed("deleted preset: " + safe)
}
