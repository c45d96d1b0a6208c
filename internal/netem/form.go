package netem

import (
	"net/url"
	"strings"
)

// Form field names shared by the HTML form, the query endpoints and presets.
const (
	FieldUplink           = "uplink"
	FieldDownlink         = "downlink"
	FieldDelayMs          = "delay_ms"
	FieldJitterMs         = "jitter_ms"
	FieldLossPct          = "loss_pct"
	FieldDuplicatePct     = "duplicate_pct"
	FieldCorruptPct       = "corrupt_pct"
	FieldRateKbit         = "rate_kbit"
	FieldDelayEnabled     = "delay_enabled"
	FieldJitterEnabled    = "jitter_enabled"
	FieldLossEnabled      = "loss_enabled"
	FieldDuplicateEnabled = "duplicate_enabled"
	FieldCorruptEnabled   = "corrupt_enabled"
	FieldRateEnabled      = "rate_enabled"
)

// FromForm builds a Config from raw form values merged over defaults.
//
// Interfaces fall back to the default when absent or empty. Numeric fields
// fall back only when absent; a present empty field stays unset. Flags take
// their default when the form is empty, otherwise a flag is on only when its
// key is present with a truthy value, matching how browsers omit unchecked
// checkboxes.
func FromForm(form url.Values, defaults Config) Config {
	submitted := len(form) > 0
	return Config{
		Uplink:           interfaceField(form, FieldUplink, defaults.Uplink),
		Downlink:         interfaceField(form, FieldDownlink, defaults.Downlink),
		DelayMs:          valueField(form, FieldDelayMs, defaults.DelayMs),
		JitterMs:         valueField(form, FieldJitterMs, defaults.JitterMs),
		LossPct:          valueField(form, FieldLossPct, defaults.LossPct),
		DuplicatePct:     valueField(form, FieldDuplicatePct, defaults.DuplicatePct),
		CorruptPct:       valueField(form, FieldCorruptPct, defaults.CorruptPct),
		RateKbit:         valueField(form, FieldRateKbit, defaults.RateKbit),
		DelayEnabled:     flagField(form, submitted, FieldDelayEnabled, defaults.DelayEnabled),
		JitterEnabled:    flagField(form, submitted, FieldJitterEnabled, defaults.JitterEnabled),
		LossEnabled:      flagField(form, submitted, FieldLossEnabled, defaults.LossEnabled),
		DuplicateEnabled: flagField(form, submitted, FieldDuplicateEnabled, defaults.DuplicateEnabled),
		CorruptEnabled:   flagField(form, submitted, FieldCorruptEnabled, defaults.CorruptEnabled),
		RateEnabled:      flagField(form, submitted, FieldRateEnabled, defaults.RateEnabled),
	}
}

// Values renders the config back into form values. Disabled flags are
// omitted, so FromForm(c.Values(), d) == c for any c whose interfaces are set.
func (c Config) Values() url.Values {
	form := url.Values{}
	form.Set(FieldUplink, c.Uplink)
	form.Set(FieldDownlink, c.Downlink)
	form.Set(FieldDelayMs, c.DelayMs.String())
	form.Set(FieldJitterMs, c.JitterMs.String())
	form.Set(FieldLossPct, c.LossPct.String())
	form.Set(FieldDuplicatePct, c.DuplicatePct.String())
	form.Set(FieldCorruptPct, c.CorruptPct.String())
	form.Set(FieldRateKbit, c.RateKbit.String())
	setFlag(form, FieldDelayEnabled, c.DelayEnabled)
	setFlag(form, FieldJitterEnabled, c.JitterEnabled)
	setFlag(form, FieldLossEnabled, c.LossEnabled)
	setFlag(form, FieldDuplicateEnabled, c.DuplicateEnabled)
	setFlag(form, FieldCorruptEnabled, c.CorruptEnabled)
	setFlag(form, FieldRateEnabled, c.RateEnabled)
	return form
}

func interfaceField(form url.Values, key, fallback string) string {
	if v := form.Get(key); v != "" {
		return v
	}
	return fallback
}

func valueField(form url.Values, key string, fallback Value) Value {
	if !form.Has(key) {
		return fallback
	}
	return Value(form.Get(key))
}

func flagField(form url.Values, submitted bool, key string, fallback bool) bool {
	if !submitted {
		return fallback
	}
	if !form.Has(key) {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(form.Get(key))) {
	case "0", "false", "off", "no":
		return false
	default:
		return true
	}
}

func setFlag(form url.Values, key string, enabled bool) {
	if enabled {
		form.Set(key, "on")
	}
}
