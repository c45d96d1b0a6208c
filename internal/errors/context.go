package errors

const (
	contextKeyOperation = "operation"
	contextKeyInterface = "interface"
	contextKeyPreset    = "preset"
	contextKeyCommand   = "command"
	contextKeyPath      = "path"
	contextKeyValue     = "value"
)

// ErrorContext captures structured metadata for categorized errors.
type ErrorContext struct {
	Operation string
	Interface string
	Preset    string
	Command   string
	Path      string
	Value     string
	Extra     map[string]any
}

// Merge returns a new ErrorContext combining the receiver with the provided context.
// Non-empty fields from the other context override existing values. Extra maps are merged.
func (ec ErrorContext) Merge(other ErrorContext) ErrorContext {
	result := ec

	if other.Operation != "" {
		result.Operation = other.Operation
	}
	if other.Interface != "" {
		result.Interface = other.Interface
	}
	if other.Preset != "" {
		result.Preset = other.Preset
	}
	if other.Command != "" {
		result.Command = other.Command
	}
	if other.Path != "" {
		result.Path = other.Path
	}
	if other.Value != "" {
		result.Value = other.Value
	}

	if len(other.Extra) > 0 {
		merged := make(map[string]any, len(result.Extra)+len(other.Extra))
		for k, v := range result.Extra {
			merged[k] = v
		}
		for k, v := range other.Extra {
			merged[k] = v
		}
		result.Extra = merged
	}

	return result
}

// ToMap converts the context into a map for logging compatibility.
func (ec ErrorContext) ToMap() map[string]any {
	result := make(map[string]any)

	if ec.Operation != "" {
		result[contextKeyOperation] = ec.Operation
	}
	if ec.Interface != "" {
		result[contextKeyInterface] = ec.Interface
	}
	if ec.Preset != "" {
		result[contextKeyPreset] = ec.Preset
	}
	if ec.Command != "" {
		result[contextKeyCommand] = ec.Command
	}
	if ec.Path != "" {
		result[contextKeyPath] = ec.Path
	}
	if ec.Value != "" {
		result[contextKeyValue] = ec.Value
	}

	for k, v := range ec.Extra {
		result[k] = v
	}

	return result
}
