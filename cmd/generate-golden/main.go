// Command generate-golden rewrites the candidate dumps that the
// orchestration tests compare against. Run it from the module root after a
// deliberate change to the search:
//
//	go run ./cmd/generate-golden
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/agbru/cassels/internal/orchestration"
	"github.com/agbru/cassels/internal/search"
)

type goldenRun struct {
	Level  int
	MaxLen int
}

var goldenRuns = []goldenRun{
	{Level: 15, MaxLen: 4},
	{Level: 7, MaxLen: 4},
}

func goldenName(r goldenRun) string {
	return fmt.Sprintf("level_%d_len_%d.txt", r.Level, r.MaxLen)
}

func main() {
	dir := flag.String("dir", filepath.Join("internal", "orchestration", "testdata", "golden"), "directory receiving the golden files")
	flag.Parse()

	if err := generate(context.Background(), *dir); err != nil {
		fmt.Fprintln(os.Stderr, "generate-golden:", err)
		os.Exit(1)
	}
}

// generate writes one file per golden run into dir. A single worker is
// used; the dumps do not depend on it.
func generate(ctx context.Context, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	engine := search.New(search.WithWorkers(1))
	for _, r := range goldenRuns {
		path := filepath.Join(dir, goldenName(r))
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		summary, err := orchestration.Invoke(ctx, engine, r.Level, r.MaxLen, io.Discard, f)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		fmt.Printf("%s: %d candidates, digest %016x\n", path, summary.Candidates, summary.Digest)
	}
	return nil
}
