package render

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
)

// FontConfig holds paths to the font files used for measurement and
// painting.
type FontConfig struct {
	Regular    string
	Bold       string
	Italic     string
	BoldItalic string
	Monospace  string
	MonoBold   string
}

// DefaultFontConfig looks for a fonts directory next to the executable, then
// falls back to common system locations. Missing files are tolerated: the
// device estimates metrics when a face cannot be loaded.
func DefaultFontConfig() FontConfig {
	for _, dir := range fontDirs() {
		fc := FontConfig{
			Regular:    filepath.Join(dir, "DejaVuSans.ttf"),
			Bold:       filepath.Join(dir, "DejaVuSans-Bold.ttf"),
			Italic:     filepath.Join(dir, "DejaVuSans-Oblique.ttf"),
			BoldItalic: filepath.Join(dir, "DejaVuSans-BoldOblique.ttf"),
			Monospace:  filepath.Join(dir, "DejaVuSansMono.ttf"),
			MonoBold:   filepath.Join(dir, "DejaVuSansMono-Bold.ttf"),
		}
		if _, err := os.Stat(fc.Regular); err == nil {
			return fc
		}
	}
	return FontConfig{}
}

func fontDirs() []string {
	dirs := []string{}
	if exe, err := os.Executable(); err == nil {
		dirs = append(dirs, filepath.Join(filepath.Dir(exe), "..", "fonts"))
		dirs = append(dirs, filepath.Join(filepath.Dir(exe), "fonts"))
	}
	dirs = append(dirs,
		"/usr/share/fonts/truetype/dejavu",
		"/usr/share/fonts/TTF",
		"/Library/Fonts",
	)
	return dirs
}

// FontPath picks the file for a style combination. Monospace families use the
// mono faces; anything else gets the proportional set.
func (fc FontConfig) FontPath(family string, bold, italic bool) string {
	mono := strings.Contains(strings.ToLower(family), "mono")
	if mono {
		if bold && fc.MonoBold != "" {
			return fc.MonoBold
		}
		if fc.Monospace != "" {
			return fc.Monospace
		}
	}
	if bold && italic && fc.BoldItalic != "" {
		return fc.BoldItalic
	}
	if bold && fc.Bold != "" {
		return fc.Bold
	}
	if italic && fc.Italic != "" {
		return fc.Italic
	}
	return fc.Regular
}

// fontCache keeps loaded faces keyed by path and size, bounded so a document
// with many font sizes cannot grow it without limit.
type fontCache struct {
	cap   int
	faces map[faceKey]font.Face
}

type faceKey struct {
	path string
	size float64
}

func newFontCache(capacity int) *fontCache {
	return &fontCache{cap: capacity, faces: make(map[faceKey]font.Face)}
}

// get loads and caches a face. A nil return means the file could not be
// loaded; callers fall back to estimated metrics.
func (c *fontCache) get(path string, size float64) font.Face {
	if path == "" {
		return nil
	}
	key := faceKey{path: path, size: size}
	if f, ok := c.faces[key]; ok {
		return f
	}
	face, err := gg.LoadFontFace(path, size)
	if err != nil {
		return nil
	}
	if len(c.faces) >= c.cap {
		for k := range c.faces {
			delete(c.faces, k)
			break
		}
	}
	c.faces[key] = face
	return face
}
