// Package dataset enumerates and loads the local image files a quiz round
// can be built from. The answer key of an image is derived from its filename
// stem, so the rest of the engine never touches filesystem paths.
package dataset

import (
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	_ "golang.org/x/image/bmp"

	apperrors "go-reveal-quiz/internal/errors"
)

// supportedExtensions lists the decodable image formats.
var supportedExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".bmp":  true,
	".gif":  true,
}

// Loader lists candidate image files from a directory. The file list is
// cached; Refresh rescans the directory.
type Loader struct {
	dir string

	mu    sync.RWMutex
	files []string
}

// NewLoader scans dir for supported image files. A missing directory is
// created empty rather than treated as an error.
func NewLoader(dir string) (*Loader, error) {
	l := &Loader{dir: dir}
	if err := l.Refresh(); err != nil {
		return nil, err
	}
	return l, nil
}

// Refresh rescans the dataset directory.
func (l *Loader) Refresh() error {
	if _, err := os.Stat(l.dir); os.IsNotExist(err) {
		if err := os.MkdirAll(l.dir, 0755); err != nil {
			return err
		}
	}

	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return err
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if supportedExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			files = append(files, filepath.Join(l.dir, entry.Name()))
		}
	}
	sort.Strings(files)

	l.mu.Lock()
	l.files = files
	l.mu.Unlock()
	return nil
}

// ListAll returns a copy of the known image paths.
func (l *Loader) ListAll() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]string, len(l.files))
	copy(out, l.files)
	return out
}

// Count returns the number of known images.
func (l *Loader) Count() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.files)
}

// PickRandom selects one image path at random. The second return is false
// when the dataset is empty.
func (l *Loader) PickRandom() (string, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if len(l.files) == 0 {
		return "", false
	}
	return l.files[rand.Intn(len(l.files))], true
}

// Find resolves a bare filename against the cached listing. Matching by base
// name keeps callers from smuggling paths outside the dataset directory.
func (l *Loader) Find(name string) (string, bool) {
	base := filepath.Base(name)
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, path := range l.files {
		if filepath.Base(path) == base {
			return path, true
		}
	}
	return "", false
}

// ByCategory groups image paths by their derived answer key.
func (l *Loader) ByCategory() map[string][]string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	categories := make(map[string][]string)
	for _, path := range l.files {
		key := KeyFromFilename(path)
		categories[key] = append(categories[key], path)
	}
	return categories
}

// KeyFromFilename derives the canonical answer key from an image path: the
// filename stem up to the first underscore or hyphen, lowercased. For
// example "cat_image.jpg" yields "cat".
func KeyFromFilename(path string) string {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if i := strings.IndexAny(stem, "_-"); i >= 0 {
		stem = stem[:i]
	}
	return strings.ToLower(stem)
}

// LoadImage decodes an image file. A missing file surfaces as a not-found
// error and an undecodable file as a decode error; both abort round
// construction.
func LoadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.NewNotFoundError("image file not found: "+path, err)
		}
		return nil, apperrors.NewInternalError("failed to open image file: "+path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, apperrors.NewDecodeError("failed to decode image: "+path, err)
	}
	return img, nil
}
