package history

import (
	"sync"
	"time"

	"github.com/qiniu/x/log"
)

// Writer appends entries to the run log, keeping at most MaxEntries.
// A MaxEntries of zero keeps everything.
type Writer struct {
	StateDir   string
	MaxEntries int

	mu sync.Mutex
}

func NewWriter(stateDir string, maxEntries int) *Writer {
	return &Writer{StateDir: stateDir, MaxEntries: maxEntries}
}

// LogRun stamps entry with its start time and elapsed duration, then logs it.
func (w *Writer) LogRun(started time.Time, entry HistoryEntry) {
	entry.Timestamp = started
	entry.Duration = time.Since(started).Round(time.Millisecond).String()
	w.LogEntry(entry)
}

// LogEntry appends entry. A failure to record is only warned about; the
// run it describes has already happened.
func (w *Writer) LogEntry(entry HistoryEntry) {
	if err := w.append(entry); err != nil {
		log.Warnf("run history not recorded: %v", err)
	}
}

func (w *Writer) append(entry HistoryEntry) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	h, err := LoadHistory(w.StateDir)
	if err != nil {
		return err
	}
	h.Entries = keepNewest(append(h.Entries, entry), w.MaxEntries)
	return SaveHistory(w.StateDir, h)
}

func keepNewest(entries []HistoryEntry, limit int) []HistoryEntry {
	if limit <= 0 || len(entries) <= limit {
		return entries
	}
	return entries[len(entries)-limit:]
}
