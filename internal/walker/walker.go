// Package walker groups the photos under a root directory by the folder that
// directly contains them.
package walker

import (
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"github.com/ironsheep/photo-field-ocr/internal/imaging"
)

// Folder is one directory holding at least one photo.
type Folder struct {
	// Path is the directory path, rooted at the walk root.
	Path string

	// Name is the directory's base name; for the root itself it is the
	// root's base name.
	Name string

	// Images are the photo paths directly inside Path, in lexical order.
	Images []string
}

// Walk visits root and every directory below it, depth first, and returns the
// directories that directly contain at least one photo. Directories with no
// photos (including ones with only other files) are left out.
//
// Symlinks count as photos only when they resolve to a regular file; links to
// directories are listed but not descended into. Unreadable subdirectories
// are logged and skipped; only a root that cannot be read is an error.
func Walk(root string) ([]Folder, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("invalid folder path: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("invalid folder path: %s is not a directory", root)
	}

	var (
		order []string
		byDir = make(map[string][]string)
	)

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			log.Printf("Skipping %s: %v", path, err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			order = append(order, path)
			return nil
		}

		if imaging.IsImageFile(d.Name()) && isPhotoFile(path, d) {
			dir := filepath.Dir(path)
			byDir[dir] = append(byDir[dir], path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}

	folders := make([]Folder, 0, len(byDir))
	for _, dir := range order {
		images := byDir[filepath.Clean(dir)]
		if len(images) == 0 {
			continue
		}
		folders = append(folders, Folder{
			Path:   dir,
			Name:   filepath.Base(filepath.Clean(dir)),
			Images: images,
		})
	}
	return folders, nil
}

// isPhotoFile reports whether the entry is a regular file, following one
// level of symlink.
func isPhotoFile(path string, d fs.DirEntry) bool {
	if d.Type().IsRegular() {
		return true
	}
	if d.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	if err != nil {
		log.Printf("Skipping %s: %v", path, err)
		return false
	}
	return info.Mode().IsRegular()
}
