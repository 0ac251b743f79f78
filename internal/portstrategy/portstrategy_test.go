package portstrategy

import "testing"

func drain(s Strategy) []uint16 {
	var out []uint16
	for p := range s.Ports() {
		out = append(out, p)
	}
	return out
}

func TestSerialRangeAscending(t *testing.T) {
	s := Build(Spec{Range: Range{Start: 1, End: 100}}, OrderSerial)
	got := drain(s)
	if len(got) != 100 {
		t.Fatalf("expected 100 ports, got %d", len(got))
	}
	for i, p := range got {
		if p != uint16(i+1) {
			t.Fatalf("expected ascending order at index %d: got %d", i, p)
		}
	}
}

func TestRandomRangeIsPermutation(t *testing.T) {
	s := Build(Spec{Range: Range{Start: 1, End: 500}}, OrderRandom)
	got := drain(s)
	seen := make(map[uint16]bool, len(got))
	for _, p := range got {
		if p < 1 || p > 500 {
			t.Fatalf("port %d out of range", p)
		}
		if seen[p] {
			t.Fatalf("duplicate port %d", p)
		}
		seen[p] = true
	}
	if len(got) != 500 {
		t.Fatalf("expected 500 ports, got %d", len(got))
	}
}

func TestRandomRangeSmallSpanPermutation(t *testing.T) {
	for _, r := range []Range{{Start: 1, End: 1}, {Start: 10, End: 11}, {Start: 10, End: 12}} {
		s := Build(Spec{Range: r}, OrderRandom)
		got := drain(s)
		want := int(r.End) - int(r.Start) + 1
		if len(got) != want {
			t.Fatalf("range %+v: expected %d ports, got %d", r, want, len(got))
		}
	}
}

func TestExplicitListSerialPreservesOrder(t *testing.T) {
	ports := []uint16{443, 22, 8080, 80}
	s := Build(Spec{List: ports}, OrderSerial)
	got := drain(s)
	for i, p := range got {
		if p != ports[i] {
			t.Fatalf("expected order preserved at index %d: got %d want %d", i, p, ports[i])
		}
	}
}

func TestExplicitListRandomIsShuffledPermutation(t *testing.T) {
	ports := make([]uint16, 0, 50)
	for i := uint16(1); i <= 50; i++ {
		ports = append(ports, i)
	}
	s := Build(Spec{List: ports}, OrderRandom)
	got := drain(s)
	if len(got) != len(ports) {
		t.Fatalf("expected %d ports, got %d", len(ports), len(got))
	}
	seen := make(map[uint16]bool)
	for _, p := range got {
		seen[p] = true
	}
	for _, p := range ports {
		if !seen[p] {
			t.Fatalf("missing port %d from shuffled result", p)
		}
	}
}

func TestDefaultRangeWhenSpecEmpty(t *testing.T) {
	s := Build(Spec{}, OrderSerial)
	got := drain(s)
	if len(got) != 65535 {
		t.Fatalf("expected full 1-65535 range, got %d ports", len(got))
	}
	if got[0] != 1 || got[len(got)-1] != 65535 {
		t.Fatalf("expected default range bounds 1..65535, got %d..%d", got[0], got[len(got)-1])
	}
}
