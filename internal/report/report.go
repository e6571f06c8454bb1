// Package report writes one spreadsheet per photo folder.
package report

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

// ErrOutput wraps every failure to create or write a report.
var ErrOutput = errors.New("report output failed")

// OutputMode selects where reports are written.
type OutputMode string

const (
	// Centralized writes every report into one directory under the root.
	Centralized OutputMode = "centralized"

	// PerFolder writes each report next to the photos it describes.
	PerFolder OutputMode = "per-folder"
)

// DefaultOutputDirName is the centralized output directory under the root.
const DefaultOutputDirName = "output"

const defaultSheet = "Sheet1"

// ParseOutputMode accepts the two mode names.
func ParseOutputMode(s string) (OutputMode, error) {
	switch OutputMode(s) {
	case Centralized, PerFolder:
		return OutputMode(s), nil
	default:
		return "", fmt.Errorf("unknown output mode %q (want %q or %q)", s, Centralized, PerFolder)
	}
}

// Row is one photo and the value extracted from it.
type Row struct {
	Photo string
	Value string
}

// Document is the report for one folder in one run.
type Document struct {
	// Folder is the base name of the folder the photos came from.
	Folder string

	// Root is the base name of the walk root.
	Root string

	// SheetName titles the worksheet; empty keeps the spreadsheet default.
	SheetName string

	// Header holds the two column titles.
	Header [2]string

	Rows []Row
}

// FileName is "<folder>_<root>.xlsx".
func (d *Document) FileName() string {
	return d.Folder + "_" + d.Root + ".xlsx"
}

// Add appends a row.
func (d *Document) Add(photo, value string) {
	d.Rows = append(d.Rows, Row{Photo: photo, Value: value})
}

// Destination resolves the output directory for a folder.
type Destination struct {
	Mode OutputMode

	// Root is the walk root; centralized output goes to Root/DirName.
	Root    string
	DirName string
}

// Dir returns the directory a report for folderPath is written to.
func (d Destination) Dir(folderPath string) string {
	if d.Mode == PerFolder {
		return folderPath
	}
	name := d.DirName
	if name == "" {
		name = DefaultOutputDirName
	}
	return filepath.Join(d.Root, name)
}

// Write stores doc in outputDir, creating the directory if needed and
// replacing any existing file of the same name. The workbook is written to a
// temporary file in outputDir and renamed into place. Returns the final path.
func Write(doc *Document, outputDir string) (string, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("%w: failed to create output directory: %v", ErrOutput, err)
	}

	f, err := build(doc)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrOutput, err)
	}
	defer f.Close()

	final := filepath.Join(outputDir, doc.FileName())

	tmp, err := os.CreateTemp(outputDir, "."+doc.FileName()+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("%w: failed to create temp file: %v", ErrOutput, err)
	}
	tmpPath := tmp.Name()

	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return "", fmt.Errorf("%w: failed to set report permissions: %v", ErrOutput, err)
	}

	if err := f.Write(tmp); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return "", fmt.Errorf("%w: failed to write workbook: %v", ErrOutput, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("%w: failed to close temp file: %v", ErrOutput, err)
	}
	if err := os.Rename(tmpPath, final); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("%w: failed to move report into place: %v", ErrOutput, err)
	}

	return final, nil
}

func build(doc *Document) (*excelize.File, error) {
	f := excelize.NewFile()

	sheet := defaultSheet
	if doc.SheetName != "" {
		if err := f.SetSheetName(defaultSheet, doc.SheetName); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to name sheet: %w", err)
		}
		sheet = doc.SheetName
	}

	header := []interface{}{doc.Header[0], doc.Header[1]}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	for i, row := range doc.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			f.Close()
			return nil, err
		}
		values := []interface{}{row.Photo, row.Value}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.SetColWidth(sheet, "A", "A", 24); err != nil {
		f.Close()
		return nil, err
	}
	if err := f.SetColWidth(sheet, "B", "B", 60); err != nil {
		f.Close()
		return nil, err
	}

	return f, nil
}
