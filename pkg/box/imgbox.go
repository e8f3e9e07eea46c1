package box

import (
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strconv"

	"github.com/charmbracelet/log"

	"flowbox/pkg/markup"
	"flowbox/pkg/resource"
)

// ImageContent is the replaced content of an img box.
type ImageContent struct {
	URI    string
	Img    image.Image // nil when the image could not be decoded
	Width  float64
	Height float64
}

func (ic *ImageContent) IntrinsicSize() (float64, float64) { return ic.Width, ic.Height }
func (ic *ImageContent) Source() string                    { return ic.URI }

// ImageGenerator builds img boxes: it retrieves the source through a Locator,
// decodes it, and attaches it as replaced content with its intrinsic size.
type ImageGenerator struct {
	loc    resource.Locator
	logger *log.Logger
}

// NewImageGenerator creates an ImageGenerator. A nil locator disables
// retrieval; boxes then fall back to the width/height attributes.
func NewImageGenerator(loc resource.Locator, logger *log.Logger) *ImageGenerator {
	return &ImageGenerator{loc: loc, logger: logger}
}

// CreateBox implements BoxGenerator for the img element.
func (ig *ImageGenerator) CreateBox(name string, attrs map[string]string) *Box {
	ic := &ImageContent{URI: attrs["src"]}
	if w, err := strconv.ParseFloat(attrs["width"], 64); err == nil && w > 0 {
		ic.Width = w
	}
	if h, err := strconv.ParseFloat(attrs["height"], 64); err == nil && h > 0 {
		ic.Height = h
	}
	if ig.loc != nil && ic.URI != "" {
		ig.load(ic)
	}
	b := NewBox(markup.Node{}, nil)
	b.Replaced = ic
	return b
}

func (ig *ImageGenerator) load(ic *ImageContent) {
	rc, err := ig.loc.GetStream(ic.URI)
	if err != nil {
		ig.warn("image unavailable", ic.URI, err)
		return
	}
	defer rc.Close()
	img, _, err := image.Decode(rc)
	if err != nil {
		ig.warn("image undecodable", ic.URI, err)
		return
	}
	ic.Img = img
	// Dimension attributes, when present, win over the decoded size; a
	// single attribute scales the other axis to keep the aspect ratio.
	bounds := img.Bounds()
	nw, nh := float64(bounds.Dx()), float64(bounds.Dy())
	switch {
	case ic.Width == 0 && ic.Height == 0:
		ic.Width, ic.Height = nw, nh
	case ic.Width == 0 && nh > 0:
		ic.Width = nw * ic.Height / nh
	case ic.Height == 0 && nw > 0:
		ic.Height = nh * ic.Width / nw
	}
}

func (ig *ImageGenerator) warn(msg, uri string, err error) {
	if ig.logger != nil {
		ig.logger.Warn(msg, "src", uri, "err", err)
	}
}
