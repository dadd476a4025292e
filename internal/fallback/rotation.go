package fallback

import (
	"log/slog"
	"os"
	"path"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
)

// RotationConfig describes where the rotating images live.
type RotationConfig struct {
	// Dir is the directory listed on first use.
	Dir string `yaml:"dir"`
	// Prefix filters file names, e.g. "threads-og-image-fallback".
	Prefix string `yaml:"prefix"`
	// URLPath is joined with each file name to build the public path.
	URLPath string `yaml:"url_path"`
}

var rotationExtensions = []string{".jpg", ".jpeg", ".png"}

// Rotation is a cursor over a sorted list of image paths. The list is read
// once, lazily; every Next call advances the cursor exactly once.
type Rotation struct {
	cfg    RotationConfig
	logger *slog.Logger

	mu     sync.Mutex
	loaded bool
	paths  []string
	cursor atomic.Uint64
}

// NewRotation creates a Rotation. Nothing is read from disk until Next.
func NewRotation(cfg RotationConfig, logger *slog.Logger) *Rotation {
	if logger == nil {
		logger = slog.Default()
	}
	return &Rotation{cfg: cfg, logger: logger}
}

// Next returns the next image path, or false when no images are available.
func (r *Rotation) Next() (string, bool) {
	paths := r.load()
	if len(paths) == 0 {
		return "", false
	}
	n := r.cursor.Add(1) - 1
	return paths[n%uint64(len(paths))], true
}

// Reset forgets the listing and rewinds the cursor.
func (r *Rotation) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loaded = false
	r.paths = nil
	r.cursor.Store(0)
}

// Len returns the number of images in the listing, loading it if needed.
func (r *Rotation) Len() int {
	return len(r.load())
}

func (r *Rotation) load() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.loaded {
		return r.paths
	}
	r.loaded = true

	entries, err := os.ReadDir(r.cfg.Dir)
	if err != nil {
		r.logger.Warn("rotating fallback directory unreadable",
			slog.String("dir", r.cfg.Dir),
			slog.Any("error", err))
		return nil
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), r.cfg.Prefix) || !hasImageExt(e.Name()) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	r.paths = make([]string, len(names))
	for i, n := range names {
		r.paths[i] = path.Join("/", r.cfg.URLPath, n)
	}
	r.logger.Info("rotating fallback images loaded",
		slog.String("dir", r.cfg.Dir),
		slog.Int("count", len(r.paths)))
	return r.paths
}

func hasImageExt(name string) bool {
	lower := strings.ToLower(name)
	for _, ext := range rotationExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}
