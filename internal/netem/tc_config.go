package netem

import "strings"

const (
	// htbRootHandle is the handle of the rate-limiting root qdisc.
	htbRootHandle = "1:"
	// htbClassID is the single HTB class all traffic defaults into.
	htbClassID = "1:10"
	// htbDefaultClass is the minor number of htbClassID.
	htbDefaultClass = "10"
	// netemChildHandle is the handle of the netem qdisc under the HTB class.
	netemChildHandle = "10:"
)

// command is one privileged shell command of a rendered script.
type command struct {
	name string
	args []string
	// tolerant commands discard stderr so an expected failure stays silent.
	tolerant bool
}

func (c command) line() string {
	var b strings.Builder
	b.WriteString("sudo ")
	b.WriteString(c.name)
	for _, arg := range c.args {
		b.WriteByte(' ')
		b.WriteString(arg)
	}
	if c.tolerant {
		b.WriteString(" 2>/dev/null")
	}
	return b.String()
}

// QdiscConfig describes a tc qdisc operation. Device must already be quoted.
type QdiscConfig struct {
	Device  string
	Root    bool
	Parent  string
	Handle  string
	Kind    string
	Options []string
}

func (qc QdiscConfig) target(verb string) []string {
	args := []string{"qdisc", verb, "dev", qc.Device}

	switch {
	case qc.Root:
		args = append(args, "root")
	case qc.Parent != "":
		args = append(args, "parent", qc.Parent)
	}

	if qc.Handle != "" {
		args = append(args, "handle", qc.Handle)
	}
	return args
}

// AddArgs renders the tc arguments required to add the qdisc.
func (qc QdiscConfig) AddArgs() []string {
	args := qc.target("add")
	if qc.Kind != "" {
		args = append(args, qc.Kind)
	}
	if len(qc.Options) > 0 {
		args = append(args, qc.Options...)
	}
	return args
}

// DeleteArgs renders the tc arguments required to delete the qdisc.
func (qc QdiscConfig) DeleteArgs() []string {
	return qc.target("del")
}

// ClassConfig describes a tc class operation. Device must already be quoted.
type ClassConfig struct {
	Device  string
	Parent  string
	ClassID string
	Kind    string
	Options []string
}

// AddArgs renders the tc arguments required to add the class.
func (cc ClassConfig) AddArgs() []string {
	args := []string{
		"class", "add",
		"dev", cc.Device,
		"parent", cc.Parent,
		"classid", cc.ClassID,
		cc.Kind,
	}
	return append(args, cc.Options...)
}

func rootQdiscConfig(device string) QdiscConfig {
	return QdiscConfig{Device: device, Root: true}
}

func htbRootQdiscConfig(device string) QdiscConfig {
	return QdiscConfig{
		Device:  device,
		Root:    true,
		Handle:  htbRootHandle,
		Kind:    "htb",
		Options: []string{"default", htbDefaultClass},
	}
}

// htbClassConfig caps the class at rate with no burst above it.
func htbClassConfig(device, rate string) ClassConfig {
	r := rate + "kbit"
	return ClassConfig{
		Device:  device,
		Parent:  htbRootHandle,
		ClassID: htbClassID,
		Kind:    "htb",
		Options: []string{"rate", r, "ceil", r},
	}
}

func netemQdiscConfig(device string, root bool, clause []string) QdiscConfig {
	qc := QdiscConfig{Device: device, Root: root, Kind: "netem", Options: clause}
	if !root {
		qc.Parent = htbClassID
		qc.Handle = netemChildHandle
	}
	return qc
}

func tc(args []string) command {
	return command{name: "tc", args: args}
}

func tcTolerant(args []string) command {
	return command{name: "tc", args: args, tolerant: true}
}

func iptables(args ...string) command {
	return command{name: "iptables", args: args}
}

func sysctl(args ...string) command {
	return command{name: "sysctl", args: args}
}
