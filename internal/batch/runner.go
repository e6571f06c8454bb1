// Package batch runs an extractor over every photo folder under a root and
// writes one report per folder.
package batch

import (
	"context"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"time"

	"github.com/ironsheep/photo-field-ocr/internal/extract"
	"github.com/ironsheep/photo-field-ocr/internal/imaging"
	"github.com/ironsheep/photo-field-ocr/internal/report"
	"github.com/ironsheep/photo-field-ocr/internal/walker"
)

// Runner processes a folder tree sequentially: one photo at a time, one
// report per folder, each report written before the next folder starts.
type Runner struct {
	Extractor extract.Extractor

	// Cache is the image cache the extractor loads through. Each photo is
	// evicted once its row is recorded and the cache is cleared when Run
	// returns. May be nil.
	Cache *imaging.ImageCache

	Mode          report.OutputMode
	OutputDirName string

	// Out receives operator progress lines. Nil discards them.
	Out io.Writer

	Debug bool
}

// Summary counts what a run did.
type Summary struct {
	Folders int
	Images  int
	Errors  int
	Reports int
}

func (s Summary) String() string {
	return fmt.Sprintf("%d folders, %d photos, %d errors, %d reports written",
		s.Folders, s.Images, s.Errors, s.Reports)
}

// Run walks root and processes every folder holding photos.
//
// Per-photo failures are recorded in the report and never stop the run. A
// report that cannot be written stops the run with an error wrapping
// report.ErrOutput; reports already written stay on disk.
func (r *Runner) Run(ctx context.Context, root string) (Summary, error) {
	var sum Summary

	abs, err := filepath.Abs(root)
	if err != nil {
		return sum, fmt.Errorf("invalid folder path: %w", err)
	}

	dest := report.Destination{Mode: r.Mode, Root: abs, DirName: r.OutputDirName}

	folders, err := walker.Walk(abs)
	if err != nil {
		return sum, err
	}
	if r.Cache != nil {
		defer r.Cache.Clear()
	}

	out := r.Out
	if out == nil {
		out = io.Discard
	}

	rootName := filepath.Base(abs)
	written := make(map[string]string)

	for _, folder := range folders {
		if err := ctx.Err(); err != nil {
			return sum, err
		}

		doc := r.processFolder(ctx, folder, rootName, out, &sum)

		path, err := report.Write(doc, dest.Dir(folder.Path))
		if err != nil {
			return sum, err
		}
		if prev, ok := written[path]; ok {
			log.Printf("Warning: report %s for %s replaces the one written for %s", path, folder.Path, prev)
		}
		written[path] = folder.Path

		sum.Reports++
		fmt.Fprintf(out, "Saved report: %s\n", path)
	}

	return sum, nil
}

func (r *Runner) processFolder(ctx context.Context, folder walker.Folder, rootName string, out io.Writer, sum *Summary) *report.Document {
	doc := &report.Document{
		Folder:    folder.Name,
		Root:      rootName,
		SheetName: r.Extractor.SheetName(),
		Header:    [2]string{extract.PhotoColumn, r.Extractor.Header()},
	}

	sum.Folders++
	if r.Debug {
		log.Printf("Folder %s: %d photos", folder.Path, len(folder.Images))
	}

	for _, path := range folder.Images {
		start := time.Now()
		res := r.Extractor.Extract(ctx, path)
		if r.Debug {
			log.Printf("%s %s: %v", r.Extractor.Name(), path, time.Since(start))
		}

		name := filepath.Base(path)
		doc.Add(name, res.Cell())

		sum.Images++
		if !res.OK() {
			sum.Errors++
		}

		fmt.Fprintf(out, "Processed: %s\n  -> %s\n", name, res.Cell())

		if r.Cache != nil {
			r.Cache.Evict(path)
		}
	}

	return doc
}
