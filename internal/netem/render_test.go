package netem

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func disabled() Config {
	return Defaults().Cleared()
}

func TestNetemClause(t *testing.T) {
	defaults := Defaults()

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{
			name:   "everything disabled",
			mutate: func(*Config) {},
			want:   "delay 0ms",
		},
		{
			name: "delay with jitter",
			mutate: func(c *Config) {
				c.DelayEnabled, c.DelayMs = true, "500"
				c.JitterEnabled, c.JitterMs = true, "100"
			},
			want: "delay 500ms 100ms distribution normal",
		},
		{
			name: "delay only",
			mutate: func(c *Config) {
				c.DelayEnabled, c.DelayMs = true, "250"
				c.JitterMs = "100"
			},
			want: "delay 250ms",
		},
		{
			name: "jitter without delay",
			mutate: func(c *Config) {
				c.DelayMs = "500"
				c.JitterEnabled, c.JitterMs = true, "100"
			},
			want: "delay 0ms 100ms distribution normal",
		},
		{
			name: "loss duplicate corrupt in fixed order",
			mutate: func(c *Config) {
				c.CorruptEnabled, c.CorruptPct = true, "0.1"
				c.LossEnabled, c.LossPct = true, "5"
				c.DuplicateEnabled, c.DuplicatePct = true, "0.1"
			},
			want: "loss 5% duplicate 0.1% corrupt 0.1%",
		},
		{
			name: "enabled with empty values falls back to defaults",
			mutate: func(c *Config) {
				c.DelayEnabled, c.JitterEnabled, c.LossEnabled = true, true, true
				c.DuplicateEnabled, c.CorruptEnabled = true, true
			},
			want: "delay 500ms 100ms distribution normal loss 5% duplicate 0.1% corrupt 0.1%",
		},
		{
			name: "values of disabled clauses are ignored",
			mutate: func(c *Config) {
				c.DelayMs, c.LossPct, c.CorruptPct = "10", "50", "3"
				c.DuplicateEnabled, c.DuplicatePct = true, "2"
			},
			want: "duplicate 2%",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := disabled()
			tt.mutate(&cfg)
			assert.Equal(t, tt.want, NetemClause(cfg, defaults))
		})
	}
}

func TestNetemClauseEscapesValues(t *testing.T) {
	cfg := disabled()
	cfg.LossEnabled, cfg.LossPct = true, "5; reboot"

	assert.Equal(t, "loss '5; reboot'%", NetemClause(cfg, Defaults()))
}

func endToEndConfig() Config {
	return Config{
		Uplink:        "eth0",
		Downlink:      "eth1",
		RateKbit:      "1000",
		RateEnabled:   true,
		DelayMs:       "500",
		DelayEnabled:  true,
		JitterMs:      "100",
		JitterEnabled: true,
		LossPct:       "5",
		LossEnabled:   true,
	}
}

func TestApplyScriptWithRate(t *testing.T) {
	script := ApplyScript(endToEndConfig(), Defaults())

	want := Script{
		"# Enable IPv4 forwarding",
		"sudo sysctl -w net.ipv4.ip_forward=1",
		"# NAT traffic from test network to uplink",
		"sudo iptables -t nat -F POSTROUTING",
		"sudo iptables -F FORWARD",
		"sudo iptables -t nat -A POSTROUTING -o eth0 -j MASQUERADE",
		"sudo iptables -A FORWARD -i eth1 -o eth0 -m state --state RELATED,ESTABLISHED -j ACCEPT",
		"sudo iptables -A FORWARD -i eth0 -o eth1 -m state --state NEW -j ACCEPT",
		"# Reset old tc rules",
		"sudo tc qdisc del dev eth1 root 2>/dev/null",
		"# Shape bandwidth and add netem",
		"sudo tc qdisc add dev eth1 root handle 1: htb default 10",
		"sudo tc class add dev eth1 parent 1: classid 1:10 htb rate 1000kbit ceil 1000kbit",
		"sudo tc qdisc add dev eth1 parent 1:10 handle 10: netem delay 500ms 100ms distribution normal loss 5%",
	}
	assert.Equal(t, want, script)

	tail := script[len(script)-3:]
	assert.Contains(t, tail[0], "htb")
	assert.Contains(t, tail[1], "rate 1000kbit ceil 1000kbit")
	assert.True(t, strings.HasSuffix(tail[2], "netem delay 500ms 100ms distribution normal loss 5%"))
}

func TestApplyScriptWithoutRate(t *testing.T) {
	cfg := endToEndConfig()
	cfg.RateEnabled = false

	script := ApplyScript(cfg, Defaults())
	require.NotEmpty(t, script)
	assert.Equal(t, "sudo tc qdisc add dev eth1 root netem delay 500ms 100ms distribution normal loss 5%", script[len(script)-1])
	assert.NotContains(t, script.String(), "htb")
}

func TestApplyScriptRateFallsBackToDefault(t *testing.T) {
	cfg := disabled()
	cfg.RateEnabled = true

	script := ApplyScript(cfg, Defaults())
	assert.Contains(t, script, "sudo tc class add dev eth1 parent 1: classid 1:10 htb rate 1000kbit ceil 1000kbit")
	assert.Equal(t, "sudo tc qdisc add dev eth1 parent 1:10 handle 10: netem delay 0ms", script[len(script)-1])
}

func TestApplyScriptQuotesInterfaces(t *testing.T) {
	tests := []struct {
		name   string
		iface  string
		quoted string
	}{
		{name: "whitespace", iface: "eth 1", quoted: "'eth 1'"},
		{name: "command separator", iface: "eth1; rm -rf /", quoted: "'eth1; rm -rf /'"},
		{name: "substitution", iface: "$(reboot)", quoted: "'$(reboot)'"},
		{name: "single quote", iface: "it's", quoted: `'it'"'"'s'`},
		{name: "surrounding whitespace is trimmed", iface: "  eth1  ", quoted: "eth1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := endToEndConfig()
			cfg.Downlink = tt.iface
			cfg.Uplink = tt.iface

			text := ApplyScript(cfg, Defaults()).String() + "\n" + ResetScript(cfg).String()
			assert.Contains(t, text, tt.quoted)
			if tt.quoted != strings.TrimSpace(tt.iface) {
				assert.NotContains(t, text, " "+tt.iface+" ")
				assert.NotContains(t, text, "dev "+tt.iface)
			}
		})
	}
}

func TestRenderingIsDeterministic(t *testing.T) {
	cfg := endToEndConfig()
	first := ApplyScript(cfg, Defaults()).String()
	second := ApplyScript(cfg, Defaults()).String()
	assert.Equal(t, first, second)
	assert.Equal(t, ResetScript(cfg).String(), ResetScript(cfg).String())
}

func TestResetScript(t *testing.T) {
	cfg := Config{Downlink: "eth1"}
	want := "sudo tc qdisc del dev eth1 root 2>/dev/null\n" +
		"sudo iptables -t nat -F POSTROUTING\n" +
		"sudo iptables -F FORWARD"
	assert.Equal(t, want, ResetScript(cfg).String())

	other := Defaults()
	other.Downlink = "eth1"
	other.Uplink = "wlan0"
	other.RateEnabled = false
	assert.Equal(t, ResetScript(cfg), ResetScript(other))
}

func TestScriptCommands(t *testing.T) {
	cmds := ApplyScript(endToEndConfig(), Defaults()).Commands()
	require.Len(t, cmds, 10)
	for _, cmd := range cmds {
		assert.True(t, strings.HasPrefix(cmd, "sudo "), cmd)
	}
}
