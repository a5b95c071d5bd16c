package service

import (
	"bufio"
	"encoding/json"
	"os"
	"sync"
	"time"

	"launchpad/internal/logging"
)

// maxOperationLogEntries bounds the operation log so it never grows
// unboundedly across the lifetime of a workstation.
const maxOperationLogEntries = 1000

// OperationEntry is one recorded state transition or failure.
type OperationEntry struct {
	Time    time.Time `json:"time"`
	Service string    `json:"service"`
	From    State     `json:"from"`
	To      State     `json:"to"`
	Error   string    `json:"error,omitempty"`
}

// OperationLog appends JSON-lines entries to a file, trimming to the most
// recent maxOperationLogEntries on each append.
type OperationLog struct {
	mu   sync.Mutex
	path string
}

// NewOperationLog opens the operation log at path (created lazily on
// first Append).
func NewOperationLog(path string) *OperationLog {
	return &OperationLog{path: path}
}

// Append records entry, trimming the file to the most recent
// maxOperationLogEntries lines.
func (l *OperationLog) Append(entry OperationEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entries := l.readAll()
	entries = append(entries, entry)
	if len(entries) > maxOperationLogEntries {
		entries = entries[len(entries)-maxOperationLogEntries:]
	}

	tmp := l.path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		logging.Warn("service", "could not open operation log: %v", err)
		return
	}
	w := bufio.NewWriter(f)
	for _, e := range entries {
		b, err := json.Marshal(e)
		if err != nil {
			continue
		}
		w.Write(b)
		w.WriteByte('\n')
	}
	if err := w.Flush(); err != nil {
		f.Close()
		logging.Warn("service", "could not flush operation log: %v", err)
		return
	}
	f.Close()
	if err := os.Rename(tmp, l.path); err != nil {
		logging.Warn("service", "could not persist operation log: %v", err)
	}
}

func (l *OperationLog) readAll() []OperationEntry {
	f, err := os.Open(l.path)
	if err != nil {
		return nil
	}
	defer f.Close()

	var entries []OperationEntry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var e OperationEntry
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			continue // corrupt line, skipped silently
		}
		entries = append(entries, e)
	}
	return entries
}
