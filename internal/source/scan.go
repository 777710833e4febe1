package source

import (
	"fmt"
	"io"
	"runtime"
	"sync"

	"github.com/beetlebugorg/geosvg/internal/bounds"
)

// Summary is the metadata of one layer, without its features.
type Summary struct {
	Path     string
	Name     string
	CRS      string
	Bounds   bounds.Partial
	Fields   []string
	Features int
}

// Summarize returns l's metadata.
func Summarize(l *Layer) Summary {
	return Summary{
		Path:     l.Path(),
		Name:     l.Name(),
		CRS:      l.CRS(),
		Bounds:   l.Bounds(),
		Fields:   l.Fields(),
		Features: l.Len(),
	}
}

// ScanOptions controls parallel scanning and error handling.
type ScanOptions struct {
	// Parallel enables concurrent scanning with a worker pool.
	Parallel bool

	// Workers is the number of goroutines. If 0, defaults to runtime.NumCPU().
	Workers int

	// SkipErrors continues past layers that fail to open. When false, the
	// first error stops the scan and is returned alone.
	SkipErrors bool

	// Progress, if set, is called after each layer with (scanned, total).
	Progress func(scanned, total int)

	// ErrorLog, if set, receives one line per failed layer.
	ErrorLog io.Writer
}

// DefaultScanOptions returns parallel scanning that skips bad files.
func DefaultScanOptions() ScanOptions {
	return ScanOptions{
		Parallel:   true,
		Workers:    runtime.NumCPU(),
		SkipErrors: true,
	}
}

// ScanAll opens every path with open and summarizes it. Summaries come back
// in input order with failed paths left out.
//
// Every failure is written to ErrorLog. Without SkipErrors the result is just
// the first failure and no summaries. Progress is called from one goroutine.
//
// Example:
//
//	paths, _ := source.Discover([]string{"data/"})
//	summaries, errs := source.ScanAll(paths, source.Files{}, source.ScanOptions{
//	    Parallel:   true,
//	    Workers:    8,
//	    SkipErrors: true,
//	    Progress: func(scanned, total int) {
//	        fmt.Printf("\rScanning: %d/%d", scanned, total)
//	    },
//	    ErrorLog: os.Stderr,
//	})
//	for _, s := range summaries {
//	    fmt.Printf("%s: %d features in %s\n", s.Name, s.Features, s.CRS)
//	}
//	if len(errs) > 0 {
//	    fmt.Printf("%d layers could not be read\n", len(errs))
//	}
func ScanAll(paths []string, open Opener, opts ScanOptions) ([]Summary, []error) {
	if len(paths) == 0 {
		return []Summary{}, nil
	}
	if !opts.Parallel {
		return scanSerial(paths, open, opts)
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(paths) {
		workers = len(paths)
	}

	type scanResult struct {
		index   int
		summary Summary
		err     error
	}

	jobs := make(chan int, len(paths))
	results := make(chan scanResult, len(paths))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for index := range jobs {
				l, err := open.Open(paths[index])
				r := scanResult{index: index, err: err}
				if err == nil {
					r.summary = Summarize(l)
				}
				results <- r
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

	byIndex := make(map[int]Summary)
	var errs []error
	scanned := 0
	var firstErr error

	// drain every result even after a failure so the workers can exit
	for result := range results {
		scanned++
		if opts.Progress != nil {
			opts.Progress(scanned, len(paths))
		}

		if result.err != nil {
			err := fmt.Errorf("%s: %w", paths[result.index], result.err)
			if opts.ErrorLog != nil {
				fmt.Fprintf(opts.ErrorLog, "Error scanning layer: %v\n", err)
			}
			if !opts.SkipErrors && firstErr == nil {
				firstErr = err
			}
			errs = append(errs, err)
			continue
		}
		byIndex[result.index] = result.summary
	}
	if firstErr != nil {
		return nil, []error{firstErr}
	}

	summaries := make([]Summary, 0, len(byIndex))
	for i := range paths {
		if s, ok := byIndex[i]; ok {
			summaries = append(summaries, s)
		}
	}
	return summaries, errs
}

func scanSerial(paths []string, open Opener, opts ScanOptions) ([]Summary, []error) {
	summaries := make([]Summary, 0, len(paths))
	var errs []error

	for i, path := range paths {
		if opts.Progress != nil {
			opts.Progress(i, len(paths))
		}

		l, err := open.Open(path)
		if err != nil {
			err := fmt.Errorf("%s: %w", path, err)
			if opts.ErrorLog != nil {
				fmt.Fprintf(opts.ErrorLog, "Error scanning layer: %v\n", err)
			}
			if !opts.SkipErrors {
				return nil, []error{err}
			}
			errs = append(errs, err)
			continue
		}
		summaries = append(summaries, Summarize(l))
	}

	if opts.Progress != nil {
		opts.Progress(len(paths), len(paths))
	}
	return summaries, errs
}
