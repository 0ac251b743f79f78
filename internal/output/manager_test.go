package output

import "testing"

func TestSaveAndListRunsRoundtrip(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	s := Summary{
		RunID:     "scan_1",
		Hosts:     map[string][]uint16{"127.0.0.1": {22, 80}},
		ErrorsLen: 0,
	}
	if err := SaveRun(s); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	runs, err := ListRuns()
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 1 || runs[0].RunID != "scan_1" {
		t.Fatalf("expected one run with ID scan_1, got %v", runs)
	}

	got, err := GetRunByID("scan_1")
	if err != nil {
		t.Fatalf("GetRunByID: %v", err)
	}
	if got.RunID != "scan_1" {
		t.Fatalf("expected run scan_1, got %v", got)
	}
}

func TestGetRunByIDMissing(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	if _, err := GetRunByID("does-not-exist"); err == nil {
		t.Fatalf("expected error for missing run")
	}
}
