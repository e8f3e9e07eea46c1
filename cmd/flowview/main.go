package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/charmbracelet/log"

	"flowbox/pkg/markup"
	"flowbox/pkg/render"
	"flowbox/pkg/resource"
	"flowbox/pkg/script"
	"flowbox/pkg/view"
)

const (
	viewW = 1024
	viewH = 700
)

func main() {
	logger := log.New(os.Stderr)

	a := app.New()
	w := a.NewWindow("flowview")
	w.Resize(fyne.NewSize(viewW, viewH+80))

	status := widget.NewLabel("Enter a file path and press Enter")

	img := canvas.NewImageFromImage(nil)
	img.FillMode = canvas.ImageFillOriginal

	var current *view.View
	page := newClickableImage(img, func(x, y float32) {
		if current == nil {
			return
		}
		hits := current.FramesForPoint(float64(x), float64(y))
		if len(hits) == 0 {
			status.SetText("(nothing)")
			return
		}
		paths := make([]string, 0, len(hits))
		for _, f := range hits {
			paths = append(paths, f.Box.El.Path())
		}
		// the topmost frame is last; show it first
		status.SetText(paths[len(paths)-1] + "  |  " + strings.Join(paths, " ; "))
	})

	pathEntry := widget.NewEntry()
	pathEntry.SetPlaceHolder("page.html")
	pathEntry.OnSubmitted = func(path string) {
		v, dev, err := loadPage(path, logger)
		if err != nil {
			status.SetText("Error: " + err.Error())
			return
		}
		frame := v.EnsureLayout()
		if frame == nil {
			status.SetText("page renders to nothing")
			return
		}
		render.Paint(dev, frame)
		current = v
		img.Image = dev.Image()
		img.Refresh()
		status.SetText(path)
		w.SetTitle(fmt.Sprintf("flowview - %s", filepath.Base(path)))
	}

	top := container.NewBorder(nil, nil, nil, nil, pathEntry)
	w.SetContent(container.NewBorder(top, status, nil, nil, page))
	w.Canvas().Focus(pathEntry)
	w.ShowAndRun()
}

func loadPage(path string, logger *log.Logger) (*view.View, *render.GGDevice, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	doc := markup.NewDocument()
	loc := resource.NewFileLocator(filepath.Dir(path))
	dev := render.NewGGDevice(viewW, viewH, render.DefaultFontConfig())
	v := view.New(doc, dev, loc, viewW, viewH, logger)

	if err := markup.ParseHTML(f, doc, markup.NewBuilder(doc, logger)); err != nil {
		return nil, nil, err
	}
	eng := script.New(logger)
	for _, src := range doc.Scripts {
		if err := eng.Run(doc, src); err != nil {
			logger.Warn("script failed", "err", err)
		}
	}
	return v, dev, nil
}

// clickableImage is an image widget that reports tap positions in image
// coordinates.
type clickableImage struct {
	widget.BaseWidget
	img   *canvas.Image
	onTap func(x, y float32)
}

func newClickableImage(img *canvas.Image, onTap func(x, y float32)) *clickableImage {
	c := &clickableImage{img: img, onTap: onTap}
	c.ExtendBaseWidget(c)
	return c
}

func (c *clickableImage) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(c.img)
}

func (c *clickableImage) Tapped(ev *fyne.PointEvent) {
	c.onTap(ev.Position.X, ev.Position.Y)
}
