package socket

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net"
	"net/netip"
	"strings"

	"github.com/miekg/dns"
)

// ResolveConfig customizes name lookups. The zero value uses the system
// resolver with no search domains.
type ResolveConfig struct {
	// Nameservers is a list of nameservers to query, as host or host:port.
	// If empty, the system default resolver is used.
	Nameservers []string
	// SearchDomains are appended to relative names before the name itself
	// is tried.
	SearchDomains []string
	// Options is a list of resolver options. Supported options:
	// - ndots:<n> sets the number of dots a name needs before it is tried
	//   as is first. The default is 1.
	Options []string
}

// Resolver turns an Endpoint into an ordered list of candidates.
type Resolver struct {
	lookup        *net.Resolver
	searchDomains []string
	ndots         int
}

var (
	errNoName        = errors.New("name or service not known")
	errFamilyMissing = errors.New("address family for hostname not supported")
	errNoAddress     = errors.New("no address associated with hostname")
)

var (
	wildcards = []netip.Addr{netip.IPv4Unspecified(), netip.IPv6Unspecified()}
	loopbacks = []netip.Addr{netip.AddrFrom4([4]byte{127, 0, 0, 1}), netip.IPv6Loopback()}
)

// NewResolver creates a resolver. A nil config selects the system resolver.
func NewResolver(cfg *ResolveConfig) *Resolver {
	r := &Resolver{lookup: net.DefaultResolver, ndots: 1}
	if cfg == nil {
		return r
	}

	r.searchDomains = cfg.SearchDomains
	for _, opt := range cfg.Options {
		if v, ok := strings.CutPrefix(opt, "ndots:"); ok {
			if n, err := fmt.Sscanf(v, "%d", &r.ndots); err != nil || n != 1 || r.ndots < 0 {
				r.ndots = 1
			}
		}
	}

	if len(cfg.Nameservers) > 0 {
		nameservers := cfg.Nameservers
		r.lookup = &net.Resolver{
			PreferGo: true,
			Dial: func(ctx context.Context, network, _ string) (net.Conn, error) {
				ns := nameservers[rand.Intn(len(nameservers))]

				// If the nameserver does not have a port, add the default DNS port.
				if _, _, err := net.SplitHostPort(ns); err != nil {
					ns = net.JoinHostPort(ns, "53")
				}

				var d net.Dialer
				return d.DialContext(ctx, network, ns)
			},
		}
	}

	return r
}

// Resolve returns the candidates for ep in the order the platform resolver
// produced them. It never retries and never re-sorts.
func (r *Resolver) Resolve(ctx context.Context, ep Endpoint) ([]Candidate, error) {
	if !ep.Family.valid() {
		return nil, invalidArgument("getaddrinfo", "unsupported address family %v", ep.Family)
	}
	proto, network, ok := ep.Type.protocol()
	if !ok {
		return nil, invalidArgument("getaddrinfo", "unsupported socket type %v", ep.Type)
	}
	if ep.Flags&^flagsMask != 0 {
		return nil, invalidArgument("getaddrinfo", "unsupported flags %#x", int(ep.Flags))
	}
	if ep.Host == "" && ep.Service == "" {
		return nil, newError(ErrResolution, "getaddrinfo", errNoName)
	}

	var port int
	if ep.Service != "" {
		p, err := r.lookup.LookupPort(ctx, network, ep.Service)
		if err != nil {
			return nil, newError(ErrResolution, "getaddrinfo", err)
		}
		port = p
	}

	addrs, err := r.addrs(ctx, ep)
	if err != nil {
		return nil, newError(ErrResolution, "getaddrinfo", err)
	}

	var cands []Candidate
	for _, a := range addrs {
		// IPv4-mapped addresses stay IPv6 candidates unless IPv4 is allowed.
		if a.Is4In6() && ep.Family&FamilyIPv4 != 0 {
			a = a.Unmap()
		}
		if ep.Family&familyOf(a) == 0 {
			continue
		}
		cands = append(cands, Candidate{
			Family:   familyOf(a),
			Type:     ep.Type,
			Protocol: proto,
			Addr:     netip.AddrPortFrom(a, uint16(port)),
		})
	}
	if len(cands) == 0 {
		return nil, newError(ErrResolution, "getaddrinfo", errNoAddress)
	}

	return cands, nil
}

func (r *Resolver) addrs(ctx context.Context, ep Endpoint) ([]netip.Addr, error) {
	if ep.Host == "" {
		if ep.Passive {
			return wildcards, nil
		}
		return loopbacks, nil
	}

	if a, err := netip.ParseAddr(ep.Host); err == nil {
		if ep.Family&familyOf(a) == 0 && !(a.Is4In6() && ep.Family&FamilyIPv4 != 0) {
			return nil, errFamilyMissing
		}
		return []netip.Addr{a}, nil
	}

	return r.lookupHost(ctx, ep.Host, ep.Family.network())
}

func (r *Resolver) lookupHost(ctx context.Context, host, network string) ([]netip.Addr, error) {
	// Try search domains first.
	if strings.Count(host, ".") < r.ndots && !dns.IsFqdn(host) {
		for _, domain := range r.searchDomains {
			addrs, err := r.lookup.LookupNetIP(ctx, network, host+"."+domain)
			if err == nil && len(addrs) > 0 {
				return addrs, nil
			}
		}
	}

	return r.lookup.LookupNetIP(ctx, network, host)
}

// Resolve resolves ep with the stack's resolver.
func (s *Stack) Resolve(ctx context.Context, ep Endpoint) ([]Candidate, error) {
	return s.resolver.Resolve(ctx, ep)
}
