// Package ingest provides thin CSV-reading glue, kept external to the
// three core data structures. It knows nothing about Bloom vs. Cuckoo
// internals: it streams lines, splits fields, and hands each field to
// whatever AddFunc the caller constructed its filter with.
package ingest

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"setindex/internal/logging"
)

// AddFunc is the minimal capability an ingestion target needs. Bloom and
// Cuckoo name their insertion operation differently (Add vs. Insert), so
// callers pass the bound method directly — bf.Add or cf.Insert — rather
// than this package assuming either name.
type AddFunc func(value string) bool

// Options configures a single ingestion run.
type Options struct {
	// Column selects which comma-separated field of each line is fed to
	// the AddFunc. A negative value treats the whole line as one field,
	// for single-column key files; the zero value selects the first column.
	Column int
	// SkipHeader discards the first line before reading data rows.
	SkipHeader bool
}

// Result summarizes one ingestion run's operational counters.
type Result struct {
	BatchID     string
	LinesRead   uint64
	Inserted    uint64
	AlreadySeen uint64
}

// FromReader streams newline-delimited records from r into add, one add
// call per non-empty row that has the selected column. It performs no retries and applies no backpressure.
func FromReader(ctx context.Context, r io.Reader, add AddFunc, opts Options) (Result, error) {
	batchID := uuid.NewString()
	ctx = logging.WithCorrelationID(ctx, batchID)

	res := Result{BatchID: batchID}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	first := true
	for scanner.Scan() {
		line := scanner.Text()
		if first && opts.SkipHeader {
			first = false
			continue
		}
		first = false
		if line == "" {
			continue
		}
		res.LinesRead++

		field := line
		if opts.Column >= 0 {
			cols := strings.Split(line, ",")
			if opts.Column >= len(cols) {
				logging.Warn(ctx, logging.ComponentIngest, logging.ActionAdd,
					"line has fewer columns than requested", map[string]interface{}{
						"line_number": res.LinesRead,
						"column":      opts.Column,
					})
				continue
			}
			field = strings.TrimSpace(cols[opts.Column])
		}

		if add(field) {
			res.Inserted++
		} else {
			res.AlreadySeen++
		}
	}
	if err := scanner.Err(); err != nil {
		return res, fmt.Errorf("ingest: reading input: %w", err)
	}

	logging.Info(ctx, logging.ComponentIngest, logging.ActionAdd, "ingestion batch complete", map[string]interface{}{
		"lines_read":   res.LinesRead,
		"inserted":     res.Inserted,
		"already_seen": res.AlreadySeen,
	})

	return res, nil
}
