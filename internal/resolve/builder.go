package resolve

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"strings"
	"sync"

	"github.com/jchantrell/tadhash/internal/address"
)

// BuildProgressCallback is called as paths are hashed
type BuildProgressCallback func(done int, total int, path string)

// BuildOptions configures snapshot building
type BuildOptions struct {
	// Root is the asset root used when stripping paths
	Root string

	// Workers bounds the number of hashing goroutines
	Workers int

	// Progress receives a call per hashed path; it may be nil
	Progress BuildProgressCallback
}

// DefaultBuildOptions returns options using the default asset root and one worker per CPU
func DefaultBuildOptions() *BuildOptions {
	return &BuildOptions{
		Root:    address.DefaultAssetRoot,
		Workers: runtime.NumCPU(),
	}
}

// ReadPathList reads one path per line, skipping blank lines and '#' comments
func ReadPathList(r io.Reader) ([]string, error) {
	var paths []string

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		paths = append(paths, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading path list: %w", err)
	}

	return paths, nil
}

// Build computes two-stage addresses for paths and returns snapshot
// entries in input order. Paths that normalize to the same slashed form
// are kept once, at their first position.
func Build(ctx context.Context, paths []string, opts *BuildOptions) ([]Entry, error) {
	if opts == nil {
		opts = DefaultBuildOptions()
	}

	unique := make([]string, 0, len(paths))
	seen := make(map[string]bool, len(paths))
	for _, p := range paths {
		slashed := address.Slashed(p)
		if seen[slashed] {
			continue
		}
		seen[slashed] = true
		unique = append(unique, slashed)
	}

	if len(unique) < len(paths) {
		slog.Debug("Dropped duplicate paths", "input", len(paths), "unique", len(unique))
	}

	if len(unique) == 0 {
		return []Entry{}, nil
	}

	calc := address.New(opts.Root)

	type buildWork struct {
		path  string
		index int
	}

	workChan := make(chan buildWork, len(unique))
	for i, p := range unique {
		workChan <- buildWork{path: p, index: i}
	}
	close(workChan)

	entries := make([]Entry, len(unique))

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		done int
	)

	numWorkers := max(1, min(opts.Workers, len(unique)))
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for work := range workChan {
				if ctx.Err() != nil {
					return
				}

				addr := calc.Compute(work.path, true)
				entries[work.index] = Entry{
					Hash:     addr.FinalHash,
					PathHash: addr.PathHash,
					Path:     work.path,
				}

				if opts.Progress != nil {
					mu.Lock()
					done++
					opts.Progress(done, len(unique), work.path)
					mu.Unlock()
				}
			}
		}()
	}

	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("building snapshot: %w", err)
	}

	return entries, nil
}
