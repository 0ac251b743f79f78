package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/netcrate/portscan/internal/aggregate"
	"github.com/netcrate/portscan/internal/config"
	"github.com/netcrate/portscan/internal/logging"
	"github.com/netcrate/portscan/internal/output"
	"github.com/netcrate/portscan/internal/portstrategy"
	"github.com/netcrate/portscan/internal/resolve"
	"github.com/netcrate/portscan/internal/scan"
	"github.com/netcrate/portscan/internal/ulimit"
)

func newScanCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan a set of addresses and ports",
		Run:   runScan,
	}

	cmd.Flags().StringSlice("addresses", nil, "Target host specifiers (IP, CIDR, DNS name, or path to a file of them)")
	cmd.Flags().StringSlice("exclude-addresses", nil, "Host specifiers to exclude from the resolved target set")
	cmd.Flags().String("ports", "", "Port range (\"1-1000\") or explicit list (\"22,80,443\")")
	cmd.Flags().String("exclude-ports", "", "Comma-separated ports to remove after the strategy is built")
	cmd.Flags().String("top", "", "Name of a top-ports catalogue entry from the config file")
	cmd.Flags().String("scan-order", "serial", "Port iteration order: serial or random")
	cmd.Flags().Uint32("batch-size", 0, "Maximum in-flight probes (0 = derive from rate profile/ulimit)")
	cmd.Flags().Duration("timeout", 0, "Per-probe timeout (0 = derive from rate profile)")
	cmd.Flags().Int("tries", 0, "Attempts per endpoint before giving up (0 = derive from rate profile)")
	cmd.Flags().Uint64("ulimit", 0, "Attempt to raise the open-file-descriptor limit to this value")
	cmd.Flags().String("resolver", "", "Comma-separated DNS server IPs, or a path to a file of them")
	cmd.Flags().Bool("udp", false, "Probe via UDP instead of TCP connect")
	cmd.Flags().String("rate-profile", "", "Named built-in rate profile (slow, medium, fast, ludicrous)")
	cmd.Flags().Bool("greppable", false, "Emit only machine-parseable result lines")
	cmd.Flags().Bool("accessible", false, "Plain output with no color or box-drawing characters")

	return cmd
}

func runScan(cmd *cobra.Command, args []string) {
	addresses, _ := cmd.Flags().GetStringSlice("addresses")
	excludeAddresses, _ := cmd.Flags().GetStringSlice("exclude-addresses")
	portsFlag, _ := cmd.Flags().GetString("ports")
	excludePortsFlag, _ := cmd.Flags().GetString("exclude-ports")
	topFlag, _ := cmd.Flags().GetString("top")
	scanOrder, _ := cmd.Flags().GetString("scan-order")
	batchSize, _ := cmd.Flags().GetUint32("batch-size")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	tries, _ := cmd.Flags().GetInt("tries")
	requestedUlimit, _ := cmd.Flags().GetUint64("ulimit")
	resolverFlag, _ := cmd.Flags().GetString("resolver")
	udp, _ := cmd.Flags().GetBool("udp")
	rateProfileName, _ := cmd.Flags().GetString("rate-profile")
	greppable, _ := cmd.Flags().GetBool("greppable")
	accessible, _ := cmd.Flags().GetBool("accessible")

	applyMode(greppable, accessible)

	if len(addresses) == 0 {
		logging.Fatalf("no addresses specified; use --addresses")
		os.Exit(1)
	}

	mgr, err := config.Load()
	if err != nil {
		logging.Fatalf("loading config: %v", err)
		os.Exit(1)
	}
	profile := mgr.CurrentRateProfile()
	if rateProfileName != "" {
		if p, ok := config.DefaultRateProfiles[rateProfileName]; ok {
			profile = p
		} else {
			logging.Warnf("unknown rate profile %q, using %q", rateProfileName, profile.Name)
		}
	}
	if batchSize == 0 {
		batchSize = uint32(profile.BatchSize)
	}
	if timeout == 0 {
		timeout = profile.Timeout
	}
	if tries == 0 {
		tries = profile.Tries
	}

	resolverCfg, err := resolve.ConfigFromFileOrList(resolverFlag)
	if err != nil {
		logging.Fatalf("parsing --resolver: %v", err)
		os.Exit(1)
	}
	if len(resolverCfg.Servers) == 0 {
		resolverCfg.Servers = mgr.Resolver()
	}

	ctx := context.Background()
	ips := resolve.Resolve(ctx, addresses, excludeAddresses, resolverCfg)
	if len(ips) == 0 {
		logging.Fatalf("no addresses could be resolved")
		os.Exit(1)
	}

	order := portstrategy.OrderSerial
	if scanOrder == "random" {
		order = portstrategy.OrderRandom
	}

	spec, err := buildPortSpec(portsFlag, topFlag, mgr)
	if err != nil {
		logging.Fatalf("parsing --ports: %v", err)
		os.Exit(1)
	}
	strategy := portstrategy.Build(spec, order)
	if excludePortsFlag != "" {
		strategy, err = withExcludedPorts(strategy, excludePortsFlag)
		if err != nil {
			logging.Fatalf("parsing --exclude-ports: %v", err)
			os.Exit(1)
		}
	}

	softLimit, err := ulimit.Adjust(requestedUlimit)
	if err != nil {
		logging.Fatalf("adjusting file descriptor limit: %v", err)
		os.Exit(1)
	}
	inferredBatch, err := ulimit.InferBatchSize(batchSize, softLimit)
	if err != nil {
		logging.Fatalf("%v", err)
		os.Exit(1)
	}

	cfg := scan.Config{
		IPs:       ips,
		Ports:     strategy,
		BatchSize: inferredBatch,
		Timeout:   timeout,
		Tries:     tries,
		UDP:       udp,
	}

	runID := fmt.Sprintf("scan_%d", time.Now().Unix())
	start := time.Now()

	result, err := scan.Run(ctx, cfg)
	if err != nil {
		logging.Fatalf("%v", err)
		os.Exit(2)
	}

	var endpoints []aggregate.Endpoint
	for _, ep := range result.Open {
		endpoints = append(endpoints, aggregate.Endpoint{Addr: ep.Addr, Port: ep.Port})
		output.PrintOpenLine(ep.Addr, ep.Port, currentMode(greppable, accessible))
	}

	grouped := aggregate.ByHost(ips, endpoints)
	output.PrintGrouped(grouped)

	summaryHosts := make(map[string][]uint16, len(grouped))
	for addr, ports := range grouped {
		summaryHosts[addr.String()] = ports
	}
	summary := output.Summary{
		RunID:     runID,
		StartTime: start,
		Duration:  time.Since(start).Seconds(),
		Hosts:     summaryHosts,
		ErrorsLen: len(result.Errors),
	}
	if err := output.SaveRun(summary); err != nil {
		logging.Warnf("failed to save run history: %v", err)
	}
}

func currentMode(greppable, accessible bool) logging.Mode {
	switch {
	case greppable:
		return logging.ModeGreppable
	case accessible:
		return logging.ModeAccessible
	default:
		return logging.ModeNormal
	}
}

// buildPortSpec resolves --ports/--top into a portstrategy.Spec. --top
// takes precedence when both are given, matching the CLI's general
// "most specific flag wins" convention.
func buildPortSpec(portsFlag, topFlag string, mgr *config.Manager) (portstrategy.Spec, error) {
	if topFlag != "" {
		ports, err := mgr.TopPorts(topFlag)
		if err != nil {
			return portstrategy.Spec{}, err
		}
		return portstrategy.Spec{List: ports}, nil
	}

	if portsFlag == "" {
		return portstrategy.Spec{Range: portstrategy.DefaultRange}, nil
	}

	if strings.Contains(portsFlag, "-") && !strings.Contains(portsFlag, ",") {
		parts := strings.SplitN(portsFlag, "-", 2)
		start, err := parsePort(parts[0])
		if err != nil {
			return portstrategy.Spec{}, err
		}
		end, err := parsePort(parts[1])
		if err != nil {
			return portstrategy.Spec{}, err
		}
		if start > end {
			return portstrategy.Spec{}, fmt.Errorf("range start %d is after end %d", start, end)
		}
		return portstrategy.Spec{Range: portstrategy.Range{Start: start, End: end}}, nil
	}

	var list []uint16
	for _, part := range strings.Split(portsFlag, ",") {
		p, err := parsePort(strings.TrimSpace(part))
		if err != nil {
			return portstrategy.Spec{}, err
		}
		list = append(list, p)
	}
	return portstrategy.Spec{List: list}, nil
}

func parsePort(s string) (uint16, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 10, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid port %q: %w", s, err)
	}
	return uint16(v), nil
}

// withExcludedPorts drains strategy (preserving its already-applied
// order), removes every excluded port, and rewraps the remainder as a
// serial strategy so the order is not reshuffled a second time. When
// every port is excluded it returns a nil strategy, which scan.Run
// treats as an empty port set.
func withExcludedPorts(strategy portstrategy.Strategy, excludeFlag string) (portstrategy.Strategy, error) {
	exclude := make(map[uint16]struct{})
	for _, part := range strings.Split(excludeFlag, ",") {
		p, err := parsePort(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		exclude[p] = struct{}{}
	}

	var kept []uint16
	for p := range strategy.Ports() {
		if _, excluded := exclude[p]; !excluded {
			kept = append(kept, p)
		}
	}
	if len(kept) == 0 {
		return nil, nil
	}
	return portstrategy.Build(portstrategy.Spec{List: kept}, portstrategy.OrderSerial), nil
}
