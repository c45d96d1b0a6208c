package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"runtime/debug"

	terr "netemlab/internal/errors"
	"netemlab/internal/executor"
	"netemlab/internal/netem"
)

// Action names a form submission.
type Action string

const (
	ActionGenerate     Action = "generate"
	ActionApply        Action = "apply"
	ActionReset        Action = "reset"
	ActionSavePreset   Action = "save_preset"
	ActionLoadPreset   Action = "load_preset"
	ActionDeletePreset Action = "delete_preset"
	ActionClear        Action = "clear"
)

// Form keys that are not part of the config.
const (
	FieldAction       = "action"
	FieldPresetName   = "preset_name"
	FieldPresetSelect = "preset_select"
)

// PresetStore persists named configs.
type PresetStore interface {
	List() ([]string, error)
	Save(name string, cfg netem.Config) (string, error)
	Load(name string) (netem.Config, error)
	Delete(name string) (string, error)
}

// ScriptRunner executes a rendered script.
type ScriptRunner interface {
	Run(ctx context.Context, script string) (executor.Result, error)
}

// InterfaceInspector discovers host interfaces.
type InterfaceInspector interface {
	Names() []string
	CheckInterfaces(names ...string) error
}

// Dependencies groups the collaborators an App needs. Defaults left zero are
// replaced by netem.Defaults(). Runner and Interfaces are optional.
type Dependencies struct {
	Defaults   netem.Config
	Presets    PresetStore
	Runner     ScriptRunner
	Interfaces InterfaceInspector
	Logger     *slog.Logger
}

// App handles one form action at a time. It holds no per-request state.
type App struct {
	defaults   netem.Config
	presets    PresetStore
	runner     ScriptRunner
	interfaces InterfaceInspector
	logger     *slog.Logger
}

// New constructs an App from explicit dependencies.
func New(deps Dependencies) *App {
	if deps.Logger == nil {
		deps.Logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))
	}
	if deps.Defaults == (netem.Config{}) {
		deps.Defaults = netem.Defaults()
	}
	return &App{
		defaults:   deps.Defaults,
		presets:    deps.Presets,
		runner:     deps.Runner,
		interfaces: deps.Interfaces,
		logger:     deps.Logger,
	}
}

// Defaults returns the config used for empty forms and missing preset fields.
func (a *App) Defaults() netem.Config {
	return a.defaults
}

// Request is a decoded form submission. A nil Form renders defaults.
type Request struct {
	Action       Action
	Form         url.Values
	PresetName   string
	PresetSelect string
}

// RequestFromForm splits a submitted form into a Request.
func RequestFromForm(form url.Values) Request {
	return Request{
		Action:       Action(form.Get(FieldAction)),
		Form:         form,
		PresetName:   form.Get(FieldPresetName),
		PresetSelect: form.Get(FieldPresetSelect),
	}
}

// Response is everything the form page shows after an action.
type Response struct {
	Config  netem.Config
	Script  netem.Script
	Preview string

	// HasResult is set when the action produced a status to display.
	HasResult bool
	Status    int
	Output    string
	Warnings  []string

	Presets        []string
	PresetName     string
	SelectedPreset string
	Interfaces     []string
}

// Handle performs the requested action and renders the preview of the
// resulting config. Failures are reported through Status and Output.
func (a *App) Handle(ctx context.Context, req Request) (resp Response) {
	resp = Response{
		Config:         netem.FromForm(req.Form, a.defaults),
		PresetName:     req.PresetName,
		SelectedPreset: req.PresetSelect,
	}

	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("action panic recovered",
				slog.String("action", string(req.Action)),
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())))
			resp.fail(1, fmt.Sprintf("internal error: %v", r))
		}
		a.finish(&resp)
	}()

	switch req.Action {
	case "", ActionGenerate:
	case ActionApply:
		a.warnConfig(&resp)
		a.run(ctx, &resp, "apply", netem.ApplyScript(resp.Config, a.defaults))
	case ActionReset:
		a.warnInterfaces(&resp, resp.Config.Downlink)
		a.run(ctx, &resp, "reset", netem.ResetScript(resp.Config))
	case ActionSavePreset:
		a.savePreset(&resp)
	case ActionLoadPreset:
		a.loadPreset(&resp)
	case ActionDeletePreset:
		a.deletePreset(&resp)
	case ActionClear:
		resp.Config = resp.Config.Cleared()
		resp.PresetName = ""
		resp.SelectedPreset = ""
	default:
		a.logger.Warn("unknown action, rendering preview only", slog.String("action", string(req.Action)))
	}

	return resp
}

func (a *App) finish(resp *Response) {
	resp.Script = netem.ApplyScript(resp.Config, a.defaults)
	resp.Preview = resp.Script.String()

	if a.presets != nil {
		names, err := a.presets.List()
		if err != nil {
			a.logError("list presets failed", err)
		}
		resp.Presets = names
	}
	if a.interfaces != nil {
		resp.Interfaces = a.interfaces.Names()
	}
}

func (r *Response) succeed(output string) {
	r.HasResult = true
	r.Status = 0
	r.Output = output
}

func (r *Response) fail(status int, output string) {
	r.HasResult = true
	r.Status = status
	r.Output = output
}

func (a *App) logError(message string, err error) {
	attrs := terr.LogAttrs(err)
	if terr.Is(err, terr.CategoryValidation) || terr.Is(err, terr.CategoryNotFound) {
		a.logger.Warn(message, terr.AttrsToArgs(attrs)...)
		return
	}
	a.logger.Error(message, terr.AttrsToArgs(attrs)...)
}
