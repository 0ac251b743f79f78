package scan

import (
	"context"
	"net"
	"net/netip"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/netcrate/portscan/internal/portstrategy"
)

func mustListen(t *testing.T) (net.Listener, uint16) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	_, portStr, err := net.SplitHostPort(ln.Addr().String())
	if err != nil {
		t.Fatalf("split host port: %v", err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		t.Fatalf("parse port: %v", err)
	}
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			conn.Close()
		}
	}()
	return ln, uint16(port)
}

func TestRunFindsOpenLocalListener(t *testing.T) {
	ln, port := mustListen(t)
	defer ln.Close()

	loopback := netip.MustParseAddr("127.0.0.1")
	// The listener sits on an OS-assigned ephemeral port, so scan a
	// 1000-port range that contains it.
	start := uint16(1)
	if port > 1000 {
		start = port - 999
	}
	cfg := Config{
		IPs:       []netip.Addr{loopback},
		Ports:     portstrategy.Build(portstrategy.Spec{Range: portstrategy.Range{Start: start, End: start + 999}}, portstrategy.OrderSerial),
		BatchSize: 10,
		Timeout:   200 * time.Millisecond,
		Tries:     1,
	}

	result, err := Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := Endpoint{Addr: loopback, Port: port}
	found := false
	for _, ep := range result.Open {
		if ep == want {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected %v in open set, got %v", want, result.Open)
	}
}

func TestRunNoFalsePositivesOnClosedPorts(t *testing.T) {
	loopback := netip.MustParseAddr("127.0.0.1")
	// 1 is almost always closed on a loopback interface in test environments.
	cfg := Config{
		IPs:       []netip.Addr{loopback},
		Ports:     portstrategy.Build(portstrategy.Spec{List: []uint16{1}}, portstrategy.OrderSerial),
		BatchSize: 5,
		Timeout:   100 * time.Millisecond,
		Tries:     1,
	}

	result, err := Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Open) != 0 {
		t.Fatalf("expected no open ports, got %v", result.Open)
	}
}

func TestRunRespectsBatchSizeUpperBound(t *testing.T) {
	loopback := netip.MustParseAddr("127.0.0.1")
	ports := make([]uint16, 0, 200)
	for p := uint16(20000); p < 20200; p++ {
		ports = append(ports, p)
	}

	const batchSize = 8
	cfg := Config{
		IPs:       []netip.Addr{loopback},
		Ports:     portstrategy.Build(portstrategy.Spec{List: ports}, portstrategy.OrderSerial),
		BatchSize: batchSize,
		Timeout:   150 * time.Millisecond,
		Tries:     1,
	}

	var maxObserved atomic.Int64
	stop := make(chan struct{})
	go func() {
		for {
			select {
			case <-stop:
				return
			default:
			}
			if cur := inFlight.Load(); cur > maxObserved.Load() {
				maxObserved.Store(cur)
			}
			time.Sleep(time.Millisecond)
		}
	}()

	_, err := Run(context.Background(), cfg)
	close(stop)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if maxObserved.Load() > int64(batchSize) {
		t.Fatalf("observed %d in-flight probes, exceeds batch size %d", maxObserved.Load(), batchSize)
	}
}

func TestParseEndpoint(t *testing.T) {
	ep, err := parseEndpoint("127.0.0.1:80")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := Endpoint{Addr: netip.MustParseAddr("127.0.0.1"), Port: 80}
	if ep != want {
		t.Fatalf("got %+v, want %+v", ep, want)
	}

	if _, err := parseEndpoint("not-an-endpoint"); err == nil {
		t.Fatalf("expected error for malformed input")
	}
}
