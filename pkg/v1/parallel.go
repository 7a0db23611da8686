package kad

import (
	"fmt"
	"io"
	"runtime"
	"sync"
	"time"

	"github.com/beetlebugorg/kirrakad/pkg/kad"
)

// LoadOptions controls parallel loading behavior and error handling for a
// batch of blast design files.
type LoadOptions struct {
	// Parallel enables concurrent file loading across a worker pool.
	Parallel bool

	// Workers specifies the number of parallel loader goroutines. Zero
	// defaults to runtime.NumCPU(). Only used when Parallel is true.
	Workers int

	// SkipErrors continues loading when individual files fail, collecting
	// their errors instead of aborting the whole batch.
	SkipErrors bool

	// Progress is called after each file is processed.
	Progress func(loaded, total int)

	// ErrorLog receives a line per load error, if set.
	ErrorLog io.Writer
}

// DefaultLoadOptions returns load options with sensible defaults.
func DefaultLoadOptions() LoadOptions {
	return LoadOptions{Parallel: true, Workers: runtime.NumCPU(), SkipErrors: true}
}

// LoadDocumentsParallel parses a batch of files with a bounded worker pool,
// preserving the caller's input order in the returned slice.
//
// Example:
//
//	parser := kad.NewParser()
//	paths := []string{"pattern1.kad", "pattern2.dxf"}
//	docs, errs := kad.LoadDocumentsParallel(paths, parser, kad.DefaultLoadOptions())
func LoadDocumentsParallel(paths []string, parser kad.Parser, opts LoadOptions) ([]*kad.Document, []error) {
	if len(paths) == 0 {
		return nil, nil
	}
	if !opts.Parallel {
		return loadDocumentsSerial(paths, parser, opts)
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(paths) {
		workers = len(paths)
	}

	type loadResult struct {
		index int
		doc   *kad.Document
		err   error
	}

	jobs := make(chan int, len(paths))
	results := make(chan loadResult, len(paths))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for index := range jobs {
				r, err := parser.Parse(paths[index])
				var doc *kad.Document
				if r != nil {
					doc = r.Document
				}
				results <- loadResult{index: index, doc: doc, err: err}
			}
		}()
	}

	for i := range paths {
		jobs <- i
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	docMap := make(map[int]*kad.Document)
	var errs []error
	loaded := 0
	for r := range results {
		loaded++
		if opts.Progress != nil {
			opts.Progress(loaded, len(paths))
		}
		if r.err != nil {
			err := fmt.Errorf("%s: %w", paths[r.index], r.err)
			if opts.ErrorLog != nil {
				fmt.Fprintf(opts.ErrorLog, "error loading document: %v\n", err)
			}
			if opts.SkipErrors {
				errs = append(errs, err)
				continue
			}
			return nil, []error{err}
		}
		docMap[r.index] = r.doc
	}

	docs := make([]*kad.Document, 0, len(docMap))
	for i := 0; i < len(paths); i++ {
		if d, ok := docMap[i]; ok {
			docs = append(docs, d)
		}
	}
	return docs, errs
}

func loadDocumentsSerial(paths []string, parser kad.Parser, opts LoadOptions) ([]*kad.Document, []error) {
	docs := make([]*kad.Document, 0, len(paths))
	var errs []error
	for i, path := range paths {
		r, err := parser.Parse(path)
		if opts.Progress != nil {
			opts.Progress(i+1, len(paths))
		}
		if err != nil {
			err := fmt.Errorf("%s: %w", path, err)
			if opts.ErrorLog != nil {
				fmt.Fprintf(opts.ErrorLog, "error loading document: %v\n", err)
			}
			if opts.SkipErrors {
				errs = append(errs, err)
				continue
			}
			return nil, []error{err}
		}
		docs = append(docs, r.Document)
	}
	return docs, errs
}

// RebuildTexturedSurfaces rebuilds the OBJ/MTL/texture blobs for every
// textured surface in a KAP import concurrently, staggering each spawn by
// 50ms so a large import does not saturate disk/CPU in one burst (spec.md
// §4.6.8). All rebuilds are awaited before this returns.
func RebuildTexturedSurfaces(surfaces map[string]*kad.Surface, rebuild func(*kad.Surface) error) []error {
	var wg sync.WaitGroup
	errCh := make(chan error, len(surfaces))

	i := 0
	for _, surf := range surfaces {
		if surf.MaterialName == "" {
			continue
		}
		wg.Add(1)
		delay := time.Duration(i) * 50 * time.Millisecond
		i++
		go func(s *kad.Surface, d time.Duration) {
			defer wg.Done()
			time.Sleep(d)
			if err := rebuild(s); err != nil {
				errCh <- err
			}
		}(surf, delay)
	}

	wg.Wait()
	close(errCh)

	var errs []error
	for err := range errCh {
		errs = append(errs, err)
	}
	return errs
}
