package netem

const (
	DefaultUplink       = "eth0"
	DefaultDownlink     = "eth1"
	DefaultDelayMs      = Value("500")
	DefaultJitterMs     = Value("100")
	DefaultLossPct      = Value("5")
	DefaultDuplicatePct = Value("0.1")
	DefaultCorruptPct   = Value("0.1")
	// DefaultRateKbit caps the downlink at 1 mbit.
	DefaultRateKbit = Value("1000")
)

// Config holds the impairment parameters applied to the downlink interface.
// A Config is built once per request and never mutated afterwards.
type Config struct {
	// Uplink is the interface with working internet access.
	Uplink string `json:"uplink"`
	// Downlink is the test interface whose egress traffic is shaped.
	Downlink string `json:"downlink"`

	DelayMs      Value `json:"delay_ms"`
	JitterMs     Value `json:"jitter_ms"`
	LossPct      Value `json:"loss_pct"`
	DuplicatePct Value `json:"duplicate_pct"`
	CorruptPct   Value `json:"corrupt_pct"`
	RateKbit     Value `json:"rate_kbit"`

	DelayEnabled     bool `json:"delay_enabled"`
	JitterEnabled    bool `json:"jitter_enabled"`
	LossEnabled      bool `json:"loss_enabled"`
	DuplicateEnabled bool `json:"duplicate_enabled"`
	CorruptEnabled   bool `json:"corrupt_enabled"`
	RateEnabled      bool `json:"rate_enabled"`
}

// Defaults returns the Config used when the operator supplies nothing.
func Defaults() Config {
	return Config{
		Uplink:           DefaultUplink,
		Downlink:         DefaultDownlink,
		DelayMs:          DefaultDelayMs,
		JitterMs:         DefaultJitterMs,
		LossPct:          DefaultLossPct,
		DuplicatePct:     DefaultDuplicatePct,
		CorruptPct:       DefaultCorruptPct,
		RateKbit:         DefaultRateKbit,
		DelayEnabled:     true,
		JitterEnabled:    true,
		LossEnabled:      true,
		DuplicateEnabled: true,
		CorruptEnabled:   true,
		RateEnabled:      true,
	}
}

// Cleared returns a copy keeping only the interfaces, with every value unset
// and every clause disabled.
func (c Config) Cleared() Config {
	return Config{
		Uplink:   c.Uplink,
		Downlink: c.Downlink,
	}
}
