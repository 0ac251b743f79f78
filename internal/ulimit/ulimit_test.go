package ulimit

import "testing"

func TestInferBatchSizeFitsWithinLimit(t *testing.T) {
	got, err := InferBatchSize(500, 10000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 500 {
		t.Fatalf("expected requested batch unchanged, got %d", got)
	}
}

func TestInferBatchSizeSpecScenarios(t *testing.T) {
	cases := []struct {
		requested uint32
		soft      uint64
		want      uint16
	}{
		{50000, 9000, 3000},
		{50000, 5000, 4900},
		{50000, 120, 60},
	}
	for _, c := range cases {
		got, err := InferBatchSize(c.requested, c.soft)
		if err != nil {
			t.Fatalf("requested=%d soft=%d: unexpected error: %v", c.requested, c.soft, err)
		}
		if got != c.want {
			t.Fatalf("requested=%d soft=%d: want %d, got %d", c.requested, c.soft, c.want, got)
		}
	}
}

func TestInferBatchSizeOverflowIsFatal(t *testing.T) {
	_, err := InferBatchSize(1<<20, 1<<21)
	if err == nil {
		t.Fatalf("expected overflow error")
	}
}
