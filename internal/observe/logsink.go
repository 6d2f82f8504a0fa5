package observe

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// GenesisHash is the prev_hash for the first record in a new decision log.
const GenesisHash = "sha256:0000000000000000000000000000000000000000000000000000000000000000"

// Record is one completed evaluation as written to the decision log.
type Record struct {
	Timestamp string `json:"ts"`
	Path      string `json:"path"`
	Outcome   string `json:"outcome"`
	Redirect  string `json:"redirect,omitempty"`
	Evaluated int    `json:"guards_evaluated"`
	ElapsedUS int64  `json:"elapsed_us"`
	PrevHash  string `json:"prev_hash"`
}

// LogSink is an Observer that appends completed evaluations to a JSONL file
// with SHA-256 hash chaining. Each record's prev_hash is the hash of the
// previous line, forming a tamper-evident chain. Started and per-guard
// events are dropped; only final decisions are recorded.
type LogSink struct {
	Nop

	mu       sync.Mutex
	file     *os.File
	prevHash string
}

// OpenLogSink opens (or creates) a decision log file for appending. An
// existing file is scanned to its last line so the hash chain continues
// across reopens instead of restarting at the genesis hash.
func OpenLogSink(path string) (*LogSink, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("observe: create directory: %w", err)
	}

	prevHash := GenesisHash
	if info, err := os.Stat(path); err == nil && info.Size() > 0 {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("observe: read existing log: %w", err)
		}
		scanner := bufio.NewScanner(f)
		var lastLine []byte
		for scanner.Scan() {
			lastLine = append(lastLine[:0], scanner.Bytes()...)
		}
		f.Close()
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("observe: scan existing log: %w", err)
		}
		if len(lastLine) > 0 {
			prevHash = hashLine(lastLine)
		}
	}

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("observe: open log: %w", err)
	}
	return &LogSink{file: file, prevHash: prevHash}, nil
}

// OnEvaluationCompleted appends the decision to the log. Write failures are
// swallowed: diagnostics must never disturb navigation.
func (s *LogSink) OnEvaluationCompleted(e EvaluationCompleted) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := Record{
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		Path:      e.Path,
		Evaluated: e.Evaluated,
		ElapsedUS: e.Elapsed.Microseconds(),
		PrevHash:  s.prevHash,
	}
	if target, redirected := e.Outcome.Redirect(); redirected {
		rec.Outcome = "redirect"
		rec.Redirect = target
	} else {
		rec.Outcome = "proceed"
	}

	line, err := json.Marshal(rec)
	if err != nil {
		return
	}
	if _, err := s.file.Write(append(line, '\n')); err != nil {
		return
	}
	s.prevHash = hashLine(line)
}

// Close flushes and closes the underlying file.
func (s *LogSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file.Close()
}

func hashLine(line []byte) string {
	h := sha256.Sum256(line)
	return "sha256:" + hex.EncodeToString(h[:])
}
