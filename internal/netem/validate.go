package netem

import (
	"fmt"

	terr "netemlab/internal/errors"
)

// Validate checks enabled numeric fields strictly. Rendering never depends on
// it: out-of-range or non-numeric text is still rendered verbatim and left for
// tc to reject, so callers treat the result as advisory.
func (c Config) Validate() error {
	var errs terr.MultiError

	if c.DelayEnabled {
		errs.Add(checkRange(FieldDelayMs, c.DelayMs, 0, -1))
	}
	if c.JitterEnabled {
		errs.Add(checkRange(FieldJitterMs, c.JitterMs, 0, -1))
	}
	if c.LossEnabled {
		errs.Add(checkRange(FieldLossPct, c.LossPct, 0, 100))
	}
	if c.DuplicateEnabled {
		errs.Add(checkRange(FieldDuplicatePct, c.DuplicatePct, 0, 100))
	}
	if c.CorruptEnabled {
		errs.Add(checkRange(FieldCorruptPct, c.CorruptPct, 0, 100))
	}
	if c.RateEnabled {
		if err := checkRange(FieldRateKbit, c.RateKbit, 0, -1); err != nil {
			errs.Add(err)
		} else if rate, _ := c.RateKbit.Float(); c.RateKbit.IsSet() && rate == 0 {
			errs.Add(terr.Validation(fmt.Errorf("%s must be positive", FieldRateKbit), "validate_config", terr.ErrorContext{Value: c.RateKbit.String()}))
		}
	}

	return errs.ErrorOrNil()
}

// checkRange validates an optional value against [min, max]; max < 0 means unbounded.
func checkRange(field string, v Value, min, max float64) error {
	if !v.IsSet() {
		return nil
	}
	n, err := v.Float()
	if err != nil {
		return terr.Validation(fmt.Errorf("%s is not a number: %q", field, v), "validate_config", terr.ErrorContext{Value: v.String()})
	}
	if n < min || (max >= 0 && n > max) {
		return terr.Validation(fmt.Errorf("%s out of range: %q", field, v), "validate_config", terr.ErrorContext{Value: v.String()})
	}
	return nil
}
