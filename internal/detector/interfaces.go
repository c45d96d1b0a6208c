package detector

import (
	"fmt"
	"log/slog"
	"net"
	"sort"

	"github.com/vishvananda/netlink"

	terr "netemlab/internal/errors"
)

// NetlinkClient abstracts the netlink lookups used for interface discovery.
type NetlinkClient interface {
	LinkList() ([]netlink.Link, error)
	LinkByName(name string) (netlink.Link, error)
}

type defaultNetlinkClient struct{}

func (defaultNetlinkClient) LinkList() ([]netlink.Link, error) {
	return netlink.LinkList()
}

func (defaultNetlinkClient) LinkByName(name string) (netlink.Link, error) {
	return netlink.LinkByName(name)
}

// Interface describes a host link offered as uplink or downlink.
type Interface struct {
	Name  string
	Index int
	Up    bool
	Type  string
}

// Inspector discovers host network interfaces.
type Inspector struct {
	logger  *slog.Logger
	netlink NetlinkClient
}

// NewInspector constructs an Inspector using the host netlink socket.
func NewInspector(logger *slog.Logger) *Inspector {
	return NewInspectorWithClient(logger, defaultNetlinkClient{})
}

// NewInspectorWithClient constructs an Inspector with an injected netlink client.
func NewInspectorWithClient(logger *slog.Logger, client NetlinkClient) *Inspector {
	if client == nil {
		client = defaultNetlinkClient{}
	}
	return &Inspector{logger: logger, netlink: client}
}

// Interfaces lists non-loopback links sorted by name.
func (in *Inspector) Interfaces() ([]Interface, error) {
	links, err := in.netlink.LinkList()
	if err != nil {
		return nil, terr.Unexpected(fmt.Errorf("list links: %w", err), "link_list")
	}

	result := make([]Interface, 0, len(links))
	for _, link := range links {
		attrs := link.Attrs()
		if attrs == nil || attrs.Name == "" {
			continue
		}
		if attrs.Flags&net.FlagLoopback != 0 || attrs.Name == "lo" {
			continue
		}
		result = append(result, Interface{
			Name:  attrs.Name,
			Index: attrs.Index,
			Up:    attrs.Flags&net.FlagUp != 0,
			Type:  link.Type(),
		})
	}

	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// Names returns the names of Interfaces, or nil when discovery fails.
func (in *Inspector) Names() []string {
	ifaces, err := in.Interfaces()
	if err != nil {
		if in.logger != nil {
			in.logger.Debug("interface discovery failed", terr.AttrsToArgs(terr.LogAttrs(err))...)
		}
		return nil
	}
	names := make([]string, 0, len(ifaces))
	for _, iface := range ifaces {
		names = append(names, iface.Name)
	}
	return names
}

// CheckInterfaces reports every named interface that does not exist on the
// host. Empty names are skipped.
func (in *Inspector) CheckInterfaces(names ...string) error {
	var errs terr.MultiError
	seen := make(map[string]struct{}, len(names))

	for _, name := range names {
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}

		link, err := in.netlink.LinkByName(name)
		if err != nil {
			errs.Add(terr.NotFound(fmt.Errorf("interface %s: %w", name, err), "link_lookup", terr.ErrorContext{Interface: name}))
			continue
		}
		if attrs := link.Attrs(); attrs != nil && attrs.Flags&net.FlagUp == 0 && in.logger != nil {
			in.logger.Warn("interface is down", slog.String("interface", name))
		}
	}

	return errs.ErrorOrNil()
}
