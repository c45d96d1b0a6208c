package netem

import "strings"

// Script is an ordered list of shell lines. Comment lines are part of the
// output so the preview reads the same as what gets executed.
type Script []string

// String joins the lines with newlines, without a trailing newline.
func (s Script) String() string {
	return strings.Join(s, "\n")
}

// Commands returns the executable lines, skipping comments.
func (s Script) Commands() []string {
	cmds := make([]string, 0, len(s))
	for _, line := range s {
		if strings.HasPrefix(line, "#") {
			continue
		}
		cmds = append(cmds, line)
	}
	return cmds
}

// NetemClause renders the netem parameters of cfg, for example
// "delay 500ms 100ms distribution normal loss 5%". Unset values of enabled
// clauses fall back to defaults. The result is never empty.
func NetemClause(cfg, defaults Config) string {
	return strings.Join(netemClauseArgs(cfg, defaults), " ")
}

func netemClauseArgs(cfg, defaults Config) []string {
	var args []string

	switch {
	case cfg.DelayEnabled:
		args = append(args, "delay", quoteValue(cfg.DelayMs.Or(defaults.DelayMs))+"ms")
		if cfg.JitterEnabled {
			args = append(args, jitterArgs(cfg, defaults)...)
		}
	case cfg.JitterEnabled:
		// netem has no standalone jitter, so it rides on a zero base delay.
		args = append(args, "delay", "0ms")
		args = append(args, jitterArgs(cfg, defaults)...)
	}

	if cfg.LossEnabled {
		args = append(args, "loss", quoteValue(cfg.LossPct.Or(defaults.LossPct))+"%")
	}
	if cfg.DuplicateEnabled {
		args = append(args, "duplicate", quoteValue(cfg.DuplicatePct.Or(defaults.DuplicatePct))+"%")
	}
	if cfg.CorruptEnabled {
		args = append(args, "corrupt", quoteValue(cfg.CorruptPct.Or(defaults.CorruptPct))+"%")
	}

	if len(args) == 0 {
		args = []string{"delay", "0ms"}
	}
	return args
}

func jitterArgs(cfg, defaults Config) []string {
	return []string{quoteValue(cfg.JitterMs.Or(defaults.JitterMs)) + "ms", "distribution", "normal"}
}

// quoteValue escapes a numeric value. Plain numbers come back unchanged.
func quoteValue(v Value) string {
	return Quote(v.String())
}

// ApplyScript renders the script that enables forwarding, sets up NAT from the
// downlink out through the uplink and installs the netem qdisc on the
// downlink, under an HTB rate cap when rate shaping is enabled.
func ApplyScript(cfg, defaults Config) Script {
	uplink := Quote(cfg.Uplink)
	downlink := Quote(cfg.Downlink)
	clause := netemClauseArgs(cfg, defaults)

	script := Script{
		"# Enable IPv4 forwarding",
		sysctl("-w", "net.ipv4.ip_forward=1").line(),
		"# NAT traffic from test network to uplink",
	}
	script = append(script, flushNATLines()...)
	script = append(script,
		iptables("-t", "nat", "-A", "POSTROUTING", "-o", uplink, "-j", "MASQUERADE").line(),
		iptables("-A", "FORWARD", "-i", downlink, "-o", uplink, "-m", "state", "--state", "RELATED,ESTABLISHED", "-j", "ACCEPT").line(),
		iptables("-A", "FORWARD", "-i", uplink, "-o", downlink, "-m", "state", "--state", "NEW", "-j", "ACCEPT").line(),
		"# Reset old tc rules",
		deleteRootQdiscLine(downlink),
		"# Shape bandwidth and add netem",
	)

	if cfg.RateEnabled {
		rate := quoteValue(cfg.RateKbit.Or(defaults.RateKbit))
		return append(script,
			tc(htbRootQdiscConfig(downlink).AddArgs()).line(),
			tc(htbClassConfig(downlink, rate).AddArgs()).line(),
			tc(netemQdiscConfig(downlink, false, clause).AddArgs()).line(),
		)
	}
	return append(script, tc(netemQdiscConfig(downlink, true, clause).AddArgs()).line())
}

// ResetScript renders the script that removes the downlink root qdisc and
// flushes the NAT and forwarding rules. It reads only cfg.Downlink.
func ResetScript(cfg Config) Script {
	script := Script{deleteRootQdiscLine(Quote(cfg.Downlink))}
	return append(script, flushNATLines()...)
}

// deleteRootQdiscLine tolerates a missing qdisc.
func deleteRootQdiscLine(device string) string {
	return tcTolerant(rootQdiscConfig(device).DeleteArgs()).line()
}

func flushNATLines() []string {
	return []string{
		iptables("-t", "nat", "-F", "POSTROUTING").line(),
		iptables("-F", "FORWARD").line(),
	}
}
