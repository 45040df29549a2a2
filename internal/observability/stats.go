package observability

import "sync/atomic"

// StatsSnapshot is the run summary logged when a pull finishes.
type StatsSnapshot struct {
	PagesFetched     uint64 `json:"pages_fetched"`
	EntriesExtracted uint64 `json:"entries_extracted"`
	RecordsProduced  uint64 `json:"records_produced"`
	FilesWritten     uint64 `json:"files_written"`
	ErrorsTotal      uint64 `json:"errors_total"`
}

var (
	pagesFetched     uint64
	entriesExtracted uint64
	recordsProduced  uint64
	filesWritten     uint64
	errorsTotal      uint64
)

func IncPagesFetched() {
	atomic.AddUint64(&pagesFetched, 1)
}

func AddEntriesExtracted(n int) {
	if n > 0 {
		atomic.AddUint64(&entriesExtracted, uint64(n))
	}
}

func AddRecordsProduced(n int) {
	if n > 0 {
		atomic.AddUint64(&recordsProduced, uint64(n))
	}
}

func AddFilesWritten(n int) {
	if n > 0 {
		atomic.AddUint64(&filesWritten, uint64(n))
	}
}

func IncError() {
	atomic.AddUint64(&errorsTotal, 1)
}

func Snapshot() StatsSnapshot {
	return StatsSnapshot{
		PagesFetched:     atomic.LoadUint64(&pagesFetched),
		EntriesExtracted: atomic.LoadUint64(&entriesExtracted),
		RecordsProduced:  atomic.LoadUint64(&recordsProduced),
		FilesWritten:     atomic.LoadUint64(&filesWritten),
		ErrorsTotal:      atomic.LoadUint64(&errorsTotal),
	}
}

// Reset zeroes all counters. Tests only.
func Reset() {
	atomic.StoreUint64(&pagesFetched, 0)
	atomic.StoreUint64(&entriesExtracted, 0)
	atomic.StoreUint64(&recordsProduced, 0)
	atomic.StoreUint64(&filesWritten, 0)
	atomic.StoreUint64(&errorsTotal, 0)
}
