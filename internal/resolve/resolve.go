// Package resolve turns textual host specifiers into a deduplicated,
// sorted list of IP addresses.
package resolve

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"net/netip"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/miekg/dns"
	"github.com/projectdiscovery/mapcidr"

	"github.com/netcrate/portscan/internal/logging"
)

// specifierConcurrency bounds how many HostSpecifiers are resolved at once.
const specifierConcurrency = 4

// fileLineConcurrency bounds how many lines of a host file are resolved at once.
const fileLineConcurrency = 4

// dnsBudget is the total wall clock allotted to a single DNS resolution,
// covering both the system resolver and the configured resolver.
const dnsBudget = 10 * time.Second

// Config controls how DNS names are resolved.
type Config struct {
	// Servers, when non-empty, are queried directly via github.com/miekg/dns
	// instead of (or alongside) the system resolver.
	Servers []string
}

// Resolve expands specifiers into a sorted, deduplicated IP list, with any
// IP resolved from excludeSpecifiers removed from the result.
//
// Resolve never returns an error for a single bad specifier: failures are
// logged as warnings and skipped. An empty result is a valid return value;
// callers treat it as fatal input error per the scanner's error taxonomy.
func Resolve(ctx context.Context, specifiers, excludeSpecifiers []string, cfg Config) []netip.Addr {
	included := resolveAll(ctx, specifiers, cfg)
	excluded := resolveAll(ctx, excludeSpecifiers, cfg)

	excludeSet := make(map[netip.Addr]struct{}, len(excluded))
	for _, a := range excluded {
		excludeSet[a] = struct{}{}
	}

	seen := make(map[netip.Addr]struct{}, len(included))
	out := make([]netip.Addr, 0, len(included))
	for _, a := range included {
		if _, skip := excludeSet[a]; skip {
			continue
		}
		if _, dup := seen[a]; dup {
			continue
		}
		seen[a] = struct{}{}
		out = append(out, a)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Compare(out[j]) < 0 })
	return out
}

func resolveAll(ctx context.Context, specifiers []string, cfg Config) []netip.Addr {
	if len(specifiers) == 0 {
		return nil
	}

	sem := make(chan struct{}, specifierConcurrency)
	var wg sync.WaitGroup
	var mu sync.Mutex
	var all []netip.Addr

	for _, spec := range specifiers {
		wg.Add(1)
		sem <- struct{}{}
		go func(spec string) {
			defer wg.Done()
			defer func() { <-sem }()

			addrs := resolveOne(ctx, spec, cfg)
			mu.Lock()
			all = append(all, addrs...)
			mu.Unlock()
		}(spec)
	}

	wg.Wait()
	return all
}

// resolveOne attempts, in order: literal IP, CIDR block, DNS name, and
// finally (if all three fail) a newline-delimited file of specifiers.
func resolveOne(ctx context.Context, spec string, cfg Config) []netip.Addr {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil
	}

	if addr, err := netip.ParseAddr(spec); err == nil {
		return []netip.Addr{addr}
	}

	if prefix, err := netip.ParsePrefix(spec); err == nil {
		return expandPrefix(prefix)
	}

	if addrs := resolveDNS(ctx, spec, cfg); len(addrs) > 0 {
		return addrs
	}

	if addrs, ok := resolveFile(ctx, spec, cfg); ok {
		return addrs
	}

	logging.Warnf("host %q could not be resolved", spec)
	return nil
}

// expandPrefix enumerates every address in the prefix (including network
// and broadcast addresses: the scanner treats the CIDR literally, the
// spec makes no exception for them). The address count comes from
// mapcidr, the same helper naabu's runner uses to size its IP ranges,
// so a /21 is sized without ever materializing a throwaway slice of it.
func expandPrefix(prefix netip.Prefix) []netip.Addr {
	prefix = prefix.Masked()
	addr := prefix.Addr()

	n := hostCount(prefix)
	addrs := make([]netip.Addr, 0, n)
	for i := int64(0); i < n; i++ {
		addrs = append(addrs, addr)
		addr = incrementAddr(addr)
	}
	return addrs
}

// incrementAddr adds one to the address, treating it as a big-endian
// integer, the same byte-carry approach the original CIDR walker used.
func incrementAddr(a netip.Addr) netip.Addr {
	b := a.As16()
	for i := len(b) - 1; i >= 0; i-- {
		b[i]++
		if b[i] != 0 {
			break
		}
	}
	next := netip.AddrFrom16(b)
	if a.Is4() {
		next = next.Unmap()
	}
	return next
}

// hostCount sizes the prefix via mapcidr.AddressCountIpnet, the same call
// naabu's runner makes when shrinking its scan targets to the minimum set
// of CIDRs, so a /21 is sized without walking it first.
func hostCount(p netip.Prefix) int64 {
	ipnet := &net.IPNet{
		IP:   net.IP(p.Addr().AsSlice()),
		Mask: net.CIDRMask(p.Bits(), p.Addr().BitLen()),
	}
	count := mapcidr.AddressCountIpnet(ipnet)
	if count == 0 || count > (1<<62) {
		// A /0 or near-/0 block; callers bound actual scanning via
		// batch size and ulimit, so refuse to overflow here.
		return 1 << 62
	}
	return int64(count)
}

// resolveDNS races the system resolver against the configured resolver (if
// any) and returns whichever answers first within the DNS budget.
func resolveDNS(ctx context.Context, host string, cfg Config) []netip.Addr {
	ctx, cancel := context.WithTimeout(ctx, dnsBudget)
	defer cancel()

	type outcome struct {
		addrs []netip.Addr
	}
	results := make(chan outcome, 2)

	var inflight int
	inflight++
	go func() {
		results <- outcome{addrs: systemLookup(ctx, host)}
	}()

	if len(cfg.Servers) > 0 {
		inflight++
		go func() {
			results <- outcome{addrs: configuredLookup(ctx, host, cfg.Servers)}
		}()
	}

	for i := 0; i < inflight; i++ {
		select {
		case res := <-results:
			if len(res.addrs) > 0 {
				return res.addrs
			}
		case <-ctx.Done():
			return nil
		}
	}
	return nil
}

func systemLookup(ctx context.Context, host string) []netip.Addr {
	var r net.Resolver
	ips, err := r.LookupIP(ctx, "ip", host)
	if err != nil {
		return nil
	}
	out := make([]netip.Addr, 0, len(ips))
	for _, ip := range ips {
		if a, ok := netip.AddrFromSlice(ip); ok {
			out = append(out, a.Unmap())
		}
	}
	return out
}

// configuredLookup queries each configured nameserver in turn via
// github.com/miekg/dns, returning on the first nameserver that answers.
func configuredLookup(ctx context.Context, host string, servers []string) []netip.Addr {
	client := &dns.Client{Timeout: dnsBudget}
	fqdn := dns.Fqdn(host)

	for _, server := range servers {
		server = withPort(server)
		for _, qtype := range []uint16{dns.TypeA, dns.TypeAAAA} {
			msg := new(dns.Msg)
			msg.SetQuestion(fqdn, qtype)
			msg.RecursionDesired = true

			resp, _, err := client.ExchangeContext(ctx, msg, server)
			if err != nil || resp == nil {
				continue
			}
			var addrs []netip.Addr
			for _, rr := range resp.Answer {
				switch rec := rr.(type) {
				case *dns.A:
					if a, ok := netip.AddrFromSlice(rec.A); ok {
						addrs = append(addrs, a.Unmap())
					}
				case *dns.AAAA:
					if a, ok := netip.AddrFromSlice(rec.AAAA); ok {
						addrs = append(addrs, a)
					}
				}
			}
			if len(addrs) > 0 {
				return addrs
			}
		}
	}
	return nil
}

func withPort(server string) string {
	if strings.Contains(server, ":") {
		return server
	}
	return server + ":53"
}

// resolveFile treats spec as a filesystem path of newline-delimited
// HostSpecifiers. ok is false when spec is not a readable regular file,
// signalling the caller to fall through to the "unresolvable" warning.
func resolveFile(ctx context.Context, spec string, cfg Config) ([]netip.Addr, bool) {
	info, err := os.Stat(spec)
	if err != nil || !info.Mode().IsRegular() {
		return nil, false
	}

	f, err := os.Open(spec)
	if err != nil {
		return nil, false
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		logging.Warnf("reading host file %q: %v", spec, err)
	}

	sem := make(chan struct{}, fileLineConcurrency)
	var wg sync.WaitGroup
	var mu sync.Mutex
	var addrs []netip.Addr

	for _, line := range lines {
		wg.Add(1)
		sem <- struct{}{}
		go func(line string) {
			defer wg.Done()
			defer func() { <-sem }()
			a := resolveOne(ctx, line, cfg)
			mu.Lock()
			addrs = append(addrs, a...)
			mu.Unlock()
		}(line)
	}
	wg.Wait()

	return addrs, true
}

// ConfigFromFileOrList builds a Config from either a comma-separated list
// of resolver IPs or a path to a file containing one per line, matching
// the --resolver CLI flag's dual meaning.
func ConfigFromFileOrList(value string) (Config, error) {
	if value == "" {
		return Config{}, nil
	}

	if info, err := os.Stat(value); err == nil && info.Mode().IsRegular() {
		data, err := os.ReadFile(value)
		if err != nil {
			return Config{}, fmt.Errorf("reading resolver file: %w", err)
		}
		var servers []string
		for _, line := range strings.Split(string(data), "\n") {
			line = strings.TrimSpace(line)
			if line != "" {
				servers = append(servers, line)
			}
		}
		return Config{Servers: servers}, nil
	}

	var servers []string
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			servers = append(servers, part)
		}
	}
	return Config{Servers: servers}, nil
}
