package store

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"os"
	"path/filepath"
	"time"

	"github.com/borgmon/med-reminder/pkg/errors"
	"github.com/borgmon/med-reminder/pkg/models"
)

// LogStore persists the medication log as a single JSON document.
// Every write is a full read-merge-write; there is no locking, so only one
// process should use a given file at a time.
type LogStore struct {
	path string
	now  func() time.Time
}

// LogStoreOption configures a LogStore
type LogStoreOption func(*LogStore)

// WithClock overrides the clock used for time_taken
func WithClock(now func() time.Time) LogStoreOption {
	return func(ls *LogStore) {
		ls.now = now
	}
}

// NewLogStore creates a LogStore backed by the file at path
func NewLogStore(path string, opts ...LogStoreOption) *LogStore {
	ls := &LogStore{
		path: path,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(ls)
	}
	return ls
}

// Path returns the log file location
func (ls *LogStore) Path() string {
	return ls.path
}

// Load reads the log. A missing file yields an empty log; a file that exists
// but cannot be parsed yields a CORRUPT_LOG error.
func (ls *LogStore) Load() (models.DailyLog, error) {
	data, err := os.ReadFile(ls.path)
	if err != nil {
		if stderrors.Is(err, os.ErrNotExist) {
			return models.DailyLog{}, nil
		}
		return nil, errors.NewInternal("reading medication log", err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.NewCorruptLog(ls.path, stderrors.New("file is empty"))
	}

	log := models.DailyLog{}
	if err := json.Unmarshal(data, &log); err != nil {
		return nil, errors.NewCorruptLog(ls.path, err)
	}
	if log == nil {
		// literal "null"
		log = models.DailyLog{}
	}

	return log, nil
}

// Record stores a confirmation for (day, slot), replacing any earlier entry
// for that pair and leaving every other entry untouched.
func (ls *LogStore) Record(day, slot string, medicines []string, attempt int) (models.LogEntry, error) {
	log, err := ls.Load()
	if err != nil {
		return models.LogEntry{}, err
	}

	entry := models.LogEntry{
		Medicines:     append([]string(nil), medicines...),
		TimeTaken:     ls.now(),
		ReminderCount: attempt,
	}
	if prev, ok := log.Entry(day, slot); ok {
		entry.Extra = prev.Extra
	}
	log.Set(day, slot, entry)

	if err := ls.save(log); err != nil {
		return models.LogEntry{}, err
	}

	return entry, nil
}

// save writes the log to a temp file next to the target and renames it into place
func (ls *LogStore) save(log models.DailyLog) error {
	data, err := json.MarshalIndent(log, "", "  ")
	if err != nil {
		return errors.NewInternal("encoding medication log", err)
	}

	dir := filepath.Dir(ls.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.NewInternal("creating log directory", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(ls.path)+".*.tmp")
	if err != nil {
		return errors.NewInternal("creating temp log file", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.NewInternal("writing temp log file", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return errors.NewInternal("syncing temp log file", err)
	}
	if err := tmp.Close(); err != nil {
		return errors.NewInternal("closing temp log file", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		return errors.NewInternal("setting log file mode", err)
	}

	if err := os.Rename(tmpPath, ls.path); err != nil {
		return errors.NewInternal("replacing medication log", err)
	}

	return nil
}
