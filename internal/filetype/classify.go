// Package filetype classifies attachments and archive entries by file
// extension. Classification is pure: no I/O, no content sniffing.
package filetype

import (
	"path/filepath"
	"strings"
)

// Kind is the coarse category of a file.
type Kind string

const (
	KindImage   Kind = "image"
	KindArchive Kind = "archive"
	KindText    Kind = "text"
	KindOther   Kind = "other"
)

var imageExts = map[string]struct{}{
	".jpg": {}, ".jpeg": {}, ".png": {}, ".gif": {},
	".bmp": {}, ".webp": {}, ".tiff": {},
}

var archiveExts = map[string]struct{}{
	".zip": {}, ".rar": {}, ".7z": {},
}

var textExts = map[string]struct{}{
	".txt": {}, ".md": {}, ".py": {}, ".js": {}, ".html": {},
	".css": {}, ".json": {}, ".xml": {}, ".csv": {},
}

// Classify returns the kind of the file at path, judged by extension alone.
func Classify(path string) Kind {
	ext := Ext(path)
	switch {
	case isIn(imageExts, ext):
		return KindImage
	case isIn(archiveExts, ext):
		return KindArchive
	case isIn(textExts, ext):
		return KindText
	default:
		return KindOther
	}
}

// IsImage reports whether path has a supported image extension.
func IsImage(path string) bool {
	return isIn(imageExts, Ext(path))
}

// IsArchive reports whether path has a supported archive extension.
func IsArchive(path string) bool {
	return isIn(archiveExts, Ext(path))
}

// Ext returns the lowercased extension of path, including the leading dot.
// Query strings and fragments on URL-ish paths are stripped first.
func Ext(path string) string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	return strings.ToLower(filepath.Ext(path))
}

func isIn(set map[string]struct{}, ext string) bool {
	_, ok := set[ext]
	return ok
}
