package observe

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/vipinkashyap/go-guardian/internal/model"
)

func TestGlobalSlot(t *testing.T) {
	t.Cleanup(func() { SetGlobal(nil) })

	if Global() != nil {
		t.Fatal("slot should start unset")
	}

	calls := 0
	SetGlobal(Funcs{Completed: func(EvaluationCompleted) { calls++ }})
	sink := Global()
	if sink == nil {
		t.Fatal("slot should be set")
	}
	sink.OnEvaluationCompleted(EvaluationCompleted{})
	if calls != 1 {
		t.Errorf("calls = %d", calls)
	}

	SetGlobal(nil)
	if Global() != nil {
		t.Error("slot should unset")
	}
}

func TestFuncsNilFieldsDropEvents(t *testing.T) {
	var f Funcs
	f.OnEvaluationStarted(EvaluationStarted{})
	f.OnGuardChecked(GuardChecked{})
	f.OnEvaluationCompleted(EvaluationCompleted{})
}

func TestLogSinkChainsRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "decisions.jsonl")
	sink, err := OpenLogSink(path)
	if err != nil {
		t.Fatal(err)
	}

	sink.OnEvaluationCompleted(EvaluationCompleted{
		Path:      "/dashboard",
		Outcome:   model.RedirectTo("/login"),
		Elapsed:   3 * time.Millisecond,
		Evaluated: 1,
	})
	sink.OnEvaluationCompleted(EvaluationCompleted{
		Path:      "/about",
		Outcome:   model.Proceed(),
		Evaluated: 0,
	})
	if err := sink.Close(); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	var records []Record
	var lines [][]byte
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := make([]byte, len(scanner.Bytes()))
		copy(line, scanner.Bytes())
		lines = append(lines, line)
		var rec Record
		if err := json.Unmarshal(line, &rec); err != nil {
			t.Fatal(err)
		}
		records = append(records, rec)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records", len(records))
	}

	if records[0].PrevHash != GenesisHash {
		t.Errorf("first record prev_hash = %s", records[0].PrevHash)
	}
	if records[0].Outcome != "redirect" || records[0].Redirect != "/login" {
		t.Errorf("first record = %+v", records[0])
	}
	if records[1].Outcome != "proceed" || records[1].Redirect != "" {
		t.Errorf("second record = %+v", records[1])
	}
	if want := hashLine(lines[0]); records[1].PrevHash != want {
		t.Errorf("chain broken: prev_hash = %s, want %s", records[1].PrevHash, want)
	}
}

func TestLogSinkContinuesChainAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "decisions.jsonl")

	sink, err := OpenLogSink(path)
	if err != nil {
		t.Fatal(err)
	}
	sink.OnEvaluationCompleted(EvaluationCompleted{Path: "/a", Outcome: model.Proceed()})
	if err := sink.Close(); err != nil {
		t.Fatal(err)
	}

	sink, err = OpenLogSink(path)
	if err != nil {
		t.Fatal(err)
	}
	sink.OnEvaluationCompleted(EvaluationCompleted{Path: "/b", Outcome: model.Proceed()})
	if err := sink.Close(); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	var lines [][]byte
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := make([]byte, len(scanner.Bytes()))
		copy(line, scanner.Bytes())
		lines = append(lines, line)
	}
	if len(lines) != 2 {
		t.Fatalf("got %d lines", len(lines))
	}

	var second Record
	if err := json.Unmarshal(lines[1], &second); err != nil {
		t.Fatal(err)
	}
	if want := hashLine(lines[0]); second.PrevHash != want {
		t.Errorf("chain broken across reopen: prev_hash = %s, want %s", second.PrevHash, want)
	}
}
