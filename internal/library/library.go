// Package library copies reference photos and drawings into application
// storage
package library

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/maruel/natural"

	"github.com/ayoisaiah/sketch/internal/apperr"
	"github.com/ayoisaiah/sketch/internal/osutil"
)

var imageExts = []string{
	".jpg",
	".jpeg",
	".png",
	".bmp",
	".gif",
	".webp",
	".tif",
	".tiff",
}

var (
	errNotImage = &apperr.Error{
		Message: "%s is not a supported image (expected one of %s)",
	}

	errCopy = &apperr.Error{
		Message: "unable to copy %s into %s",
	}
)

// File is an image that has been copied into storage.
type File struct {
	// Path is the stored copy
	Path string
	// OriginalName is the base name of the source file
	OriginalName string
}

// IsImage reports whether path has a supported image extension.
func IsImage(path string) bool {
	return slices.Contains(imageExts, strings.ToLower(filepath.Ext(path)))
}

// Import copies src into dir under a random name that keeps the extension.
func Import(src, dir string) (File, error) {
	if !IsImage(src) {
		return File{}, errNotImage.Fmt(src, strings.Join(imageExts, ", "))
	}

	err := os.MkdirAll(dir, osutil.DirPermission)
	if err != nil {
		return File{}, errCopy.Fmt(src, dir).Wrap(err)
	}

	name := uuid.NewString() + strings.ToLower(filepath.Ext(src))
	dst := filepath.Join(dir, name)

	err = copyFile(src, dst)
	if err != nil {
		_ = os.Remove(dst)
		return File{}, errCopy.Fmt(src, dir).Wrap(err)
	}

	return File{
		Path:         dst,
		OriginalName: filepath.Base(src),
	}, nil
}

// Collect expands the given paths into the list of images to import.
// Directories contribute the images directly inside them. The result is in
// natural order so that pose2.jpg comes before pose10.jpg.
func Collect(paths []string) ([]string, error) {
	var files []string

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}

		if !info.IsDir() {
			if !IsImage(p) {
				return nil, errNotImage.Fmt(p, strings.Join(imageExts, ", "))
			}

			files = append(files, p)

			continue
		}

		entries, err := os.ReadDir(p)
		if err != nil {
			return nil, err
		}

		for _, e := range entries {
			if e.Type()&fs.ModeType == 0 && IsImage(e.Name()) {
				files = append(files, filepath.Join(p, e.Name()))
			}
		}
	}

	slices.SortStableFunc(files, func(a, b string) int {
		switch {
		case natural.Less(a, b):
			return -1
		case natural.Less(b, a):
			return 1
		default:
			return 0
		}
	})

	return slices.Compact(files), nil
}

// Remove deletes a stored file. A file that is already gone is not an error.
func Remove(path string) error {
	err := os.Remove(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing %s: %w", path, err)
	}

	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(
		dst,
		os.O_CREATE|os.O_EXCL|os.O_WRONLY,
		osutil.FilePermission,
	)
	if err != nil {
		return err
	}

	_, err = io.Copy(out, in)
	if err != nil {
		out.Close()
		return err
	}

	return out.Close()
}
