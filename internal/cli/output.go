// # Naming Conventions
//
//   - Display* functions write formatted output to an [io.Writer].
//     Examples: [DisplayProgress], [DisplayQuietSummary].
//
//   - Format* functions return a formatted string without performing I/O.
//     Example: [FormatQuietSummary].
//
//   - Open* functions create files on the filesystem.
//     Example: [OpenSinks].

package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	apperrors "github.com/agbru/cassels/internal/errors"
	"github.com/agbru/cassels/internal/orchestration"
)

// Sinks are the two artifact files of a program run.
type Sinks struct {
	Tables     *os.File
	Candidates *os.File
}

// OpenSinks creates or truncates the tables and candidates files, creating
// missing parent directories. Failures are reported as SinkError.
func OpenSinks(tablesPath, candidatesPath string) (*Sinks, error) {
	tables, err := createFile(tablesPath, orchestration.TablesSink)
	if err != nil {
		return nil, err
	}
	candidates, err := createFile(candidatesPath, orchestration.CandidatesSink)
	if err != nil {
		tables.Close()
		return nil, err
	}
	return &Sinks{Tables: tables, Candidates: candidates}, nil
}

func createFile(path, sink string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, apperrors.SinkError{Sink: sink, Cause: fmt.Errorf("failed to create directory: %w", err)}
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, apperrors.SinkError{Sink: sink, Cause: err}
	}
	return f, nil
}

// Close closes both files. A failed close loses buffered data, so it is a
// SinkError like a failed write.
func (s *Sinks) Close() error {
	var errs []error
	if err := s.Tables.Close(); err != nil {
		errs = append(errs, apperrors.SinkError{Sink: orchestration.TablesSink, Cause: err})
	}
	if err := s.Candidates.Close(); err != nil {
		errs = append(errs, apperrors.SinkError{Sink: orchestration.CandidatesSink, Cause: err})
	}
	return errors.Join(errs...)
}

// FormatQuietSummary formats a run for quiet mode: modulus, max_len,
// candidate count and digest, space separated.
func FormatQuietSummary(s orchestration.Summary) string {
	return fmt.Sprintf("%d %d %d %016x", s.Modulus, s.MaxLen, s.Candidates, s.Digest)
}

// DisplayQuietSummary writes FormatQuietSummary(s) on its own line.
func DisplayQuietSummary(out io.Writer, s orchestration.Summary) {
	fmt.Fprintln(out, FormatQuietSummary(s))
}
