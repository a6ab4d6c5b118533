package files

import (
	"bufio"
	"bytes"
	"encoding/json"
	"image"
	_ "image/gif"  // needed to decode gif covers
	_ "image/jpeg" // needed to decode jpeg covers
	_ "image/png"  // needed to decode png covers
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	_ "golang.org/x/image/webp" // needed to decode webp
)

func IsValidLocation(location string) error {
	if _, err := os.Stat(location); err != nil {
		return err
	}

	return nil
}

// EnsureDirs creates every directory in dirs, existing ones are left alone.
func EnsureDirs(dirs ...string) error {
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return errors.Wrapf(err, "could not create directory %s", dir)
		}
	}

	return nil
}

// Exists reports whether path is a regular, non-empty file.
func Exists(path string) (int64, bool) {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() || info.Size() == 0 {
		return 0, false
	}

	return info.Size(), true
}

// WriteAtomic copies r into a temporary file next to path and renames it into
// place once everything is written. On failure path is left untouched.
func WriteAtomic(path string, r io.Reader) (int64, error) {
	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return 0, errors.Wrapf(err, "could not create temp file in %s", dir)
	}
	tmpPath := tmp.Name()

	// no-op once the rename succeeded
	defer os.Remove(tmpPath)

	writeBuf := bufio.NewWriter(tmp)

	n, err := io.Copy(writeBuf, r)
	if err != nil {
		tmp.Close()
		return n, errors.Wrapf(err, "could not write %s", path)
	}

	if err := writeBuf.Flush(); err != nil {
		tmp.Close()
		return n, errors.Wrapf(err, "could not write %s", path)
	}

	// CreateTemp uses 0600
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return n, errors.Wrapf(err, "could not chmod %s", path)
	}

	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return n, errors.Wrapf(err, "could not sync %s", path)
	}

	if err := tmp.Close(); err != nil {
		return n, errors.Wrapf(err, "could not close %s", path)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return n, errors.Wrapf(err, "could not move %s into place", path)
	}

	return n, nil
}

// WriteJSON writes v as indented json, atomically.
func WriteJSON(path string, v any) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := EnsureDirs(dir); err != nil {
			return err
		}
	}

	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return errors.Wrap(err, "could not encode json")
	}

	_, err := WriteAtomic(path, &buf)
	return err
}

// ImageConfig returns the format and dimensions of the image at path.
func ImageConfig(path string) (string, image.Config, error) {
	imgFile, err := os.Open(path)
	if err != nil {
		return "", image.Config{}, err
	}
	defer imgFile.Close()

	cfg, format, err := image.DecodeConfig(bufio.NewReader(imgFile))
	if err != nil {
		return "", image.Config{}, errors.Wrapf(err, "could not decode image %s", path)
	}

	return format, cfg, nil
}
