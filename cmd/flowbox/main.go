package main

import (
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/xlab/treeprint"

	"flowbox/pkg/layout"
	"flowbox/pkg/markup"
	"flowbox/pkg/render"
	"flowbox/pkg/resource"
	"flowbox/pkg/script"
	"flowbox/pkg/view"
)

var (
	configPath string
	verbose    bool

	flagWidth  int
	flagHeight int
	scriptPath string
)

func main() {
	root := &cobra.Command{
		Use:           "flowbox",
		Short:         "flowbox lays out and renders documents styled with a CSS 2.1 subset",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to flowbox.toml")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	renderCmd := &cobra.Command{
		Use:   "render <input.html> <output.png>",
		Short: "Render a document to a PNG image",
		Args:  cobra.ExactArgs(2),
		RunE:  runRender,
	}
	renderCmd.Flags().IntVar(&flagWidth, "width", 0, "viewport width in pixels")
	renderCmd.Flags().IntVar(&flagHeight, "height", 0, "viewport height in pixels")
	renderCmd.Flags().StringVar(&scriptPath, "script", "", "script file to run before layout")

	dumpCmd := &cobra.Command{
		Use:   "dump <input.html>",
		Short: "Print the laid-out frame tree",
		Args:  cobra.ExactArgs(1),
		RunE:  runDump,
	}
	dumpCmd.Flags().IntVar(&flagWidth, "width", 0, "viewport width in pixels")
	dumpCmd.Flags().IntVar(&flagHeight, "height", 0, "viewport height in pixels")

	hitCmd := &cobra.Command{
		Use:   "hittest <input.html> <x> <y>",
		Short: "List the frames under a point, topmost last",
		Args:  cobra.ExactArgs(3),
		RunE:  runHitTest,
	}
	hitCmd.Flags().IntVar(&flagWidth, "width", 0, "viewport width in pixels")
	hitCmd.Flags().IntVar(&flagHeight, "height", 0, "viewport height in pixels")

	root.AddCommand(renderCmd, dumpCmd, hitCmd)
	if err := root.Execute(); err != nil {
		log.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func newLogger(cfg Config) *log.Logger {
	logger := log.New(os.Stderr)
	if verbose {
		logger.SetLevel(log.DebugLevel)
		return logger
	}
	if lvl, err := log.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(lvl)
	}
	return logger
}

// buildView loads the document and wires up a view for it.
func buildView(input string, logger *log.Logger, cfg Config) (*view.View, *markup.Document, *render.GGDevice, error) {
	w, h := cfg.ViewportWidth, cfg.ViewportHeight
	if flagWidth > 0 {
		w = flagWidth
	}
	if flagHeight > 0 {
		h = flagHeight
	}

	f, err := os.Open(input)
	if err != nil {
		return nil, nil, nil, err
	}
	defer f.Close()

	doc := markup.NewDocument()
	loc := resource.NewFileLocator(filepath.Dir(input))
	dev := render.NewGGDevice(w, h, cfg.fontConfig())
	v := view.New(doc, dev, loc, float64(w), float64(h), logger)

	if err := markup.ParseHTML(f, doc, markup.NewBuilder(doc, logger)); err != nil {
		return nil, nil, nil, fmt.Errorf("parsing %s: %w", input, err)
	}

	eng := script.New(logger)
	for _, src := range doc.Scripts {
		if err := eng.Run(doc, src); err != nil {
			logger.Warn("script failed", "err", err)
		}
	}
	if scriptPath != "" {
		src, err := os.ReadFile(scriptPath)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := eng.Run(doc, string(src)); err != nil {
			return nil, nil, nil, err
		}
	}
	return v, doc, dev, nil
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	v, _, dev, err := buildView(args[0], logger, cfg)
	if err != nil {
		return err
	}
	frame := v.EnsureLayout()
	if frame == nil {
		return fmt.Errorf("%s renders to nothing", args[0])
	}
	render.Paint(dev, frame)

	out, err := os.Create(args[1])
	if err != nil {
		return err
	}
	defer out.Close()
	if err := png.Encode(out, dev.Image()); err != nil {
		return fmt.Errorf("writing %s: %w", args[1], err)
	}
	logger.Info("rendered", "in", args[0], "out", args[1],
		"w", frame.Width, "h", frame.Height)
	return nil
}

func runDump(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	v, _, _, err := buildView(args[0], logger, cfg)
	if err != nil {
		return err
	}
	frame := v.EnsureLayout()
	if frame == nil {
		fmt.Println("(empty)")
		return nil
	}
	tree := treeprint.New()
	addFrame(tree, frame)
	fmt.Print(tree.String())
	return nil
}

func addFrame(branch treeprint.Tree, f *layout.Frame) {
	label := frameLabel(f)
	if len(f.Children) == 0 {
		branch.AddNode(label)
		return
	}
	sub := branch.AddBranch(label)
	for _, c := range f.Children {
		addFrame(sub, c)
	}
}

func frameLabel(f *layout.Frame) string {
	name := f.Box.El.TagName()
	if f.Box.Anonymous {
		name = "(anonymous)"
	}
	if f.Box.IsText() {
		name = "#text"
	}
	if id := f.Box.El.ID(); id != "" {
		name += "#" + id
	}
	b := f.Bounds()
	return fmt.Sprintf("%s [%.0f,%.0f %.0fx%.0f]", name, b.X, b.Y, b.W, b.H)
}

func runHitTest(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	x, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("bad x %q: %w", args[1], err)
	}
	y, err := strconv.ParseFloat(args[2], 64)
	if err != nil {
		return fmt.Errorf("bad y %q: %w", args[2], err)
	}

	v, _, _, err := buildView(args[0], logger, cfg)
	if err != nil {
		return err
	}
	hits := v.FramesForPoint(x, y)
	if len(hits) == 0 {
		fmt.Println("no frame at point")
		return nil
	}
	for _, f := range hits {
		fmt.Println(f.Box.El.Path())
	}
	return nil
}
