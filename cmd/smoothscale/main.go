// Copyright 2026 The Smoothscale Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command smoothscale resizes an image file.
//
// Usage:
//
//	smoothscale -in photo.jpg -out thumb.png -size 320x240
//
// A zero in -size keeps the aspect ratio of the input along that axis. The
// output format follows the extension of -out: .png, .jpg, .jpeg, .gif, .bmp,
// .tif or .tiff.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"io"
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/smoothscale/smoothscale/smooth"
	"github.com/smoothscale/smoothscale/workpool"
)

type config struct {
	in, out string
	w, h    int
	filter  string
	flipH   bool
	flipV   bool
	serial  bool
	workers int
	quality int
	lang    language.Tag
	verbose bool
}

var filters = map[string]draw.Interpolator{
	"smooth":     nil,
	"nearest":    nil,
	"approx":     draw.ApproxBiLinear,
	"bilinear":   draw.BiLinear,
	"catmullrom": draw.CatmullRom,
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("smoothscale: ")

	cfg, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		log.Fatal(err)
	}
	if err := run(cfg, os.Stdout); err != nil {
		log.Fatal(err)
	}
}

func parseFlags(args []string, output io.Writer) (*config, error) {
	fs := flag.NewFlagSet("smoothscale", flag.ContinueOnError)
	fs.SetOutput(output)
	var (
		in      = fs.String("in", "", "input image `file`")
		out     = fs.String("out", "", "output image `file`")
		size    = fs.String("size", "", "output size `WxH`; 0 on one axis keeps the aspect ratio")
		filter  = fs.String("filter", "smooth", "filter: smooth, nearest, approx, bilinear or catmullrom")
		flip    = fs.String("flip", "", "mirror the output: h, v or hv")
		serial  = fs.Bool("serial", false, "scale on a single goroutine")
		workers = fs.Int("workers", 0, "number of scaling workers; 0 uses GOMAXPROCS")
		quality = fs.Int("quality", 90, "JPEG output quality")
		lang    = fs.String("lang", "en", "language of the report")
		verbose = fs.Bool("v", false, "log scaling decisions")
	)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if *in == "" || *out == "" || *size == "" {
		fs.Usage()
		return nil, errors.New("-in, -out and -size are required")
	}
	cfg := &config{
		in:      *in,
		out:     *out,
		filter:  *filter,
		serial:  *serial,
		workers: *workers,
		quality: *quality,
		verbose: *verbose,
	}
	var err error
	if cfg.w, cfg.h, err = parseSize(*size); err != nil {
		return nil, err
	}
	if _, ok := filters[cfg.filter]; !ok {
		return nil, fmt.Errorf("unknown filter %q", cfg.filter)
	}
	switch *flip {
	case "":
	case "h":
		cfg.flipH = true
	case "v":
		cfg.flipV = true
	case "hv", "vh":
		cfg.flipH, cfg.flipV = true, true
	default:
		return nil, fmt.Errorf("invalid -flip %q", *flip)
	}
	if cfg.quality < 1 || cfg.quality > 100 {
		return nil, fmt.Errorf("-quality %d out of range [1, 100]", cfg.quality)
	}
	if cfg.lang, err = language.Parse(*lang); err != nil {
		return nil, fmt.Errorf("invalid -lang: %w", err)
	}
	return cfg, nil
}

// parseSize parses "WxH". Either extent, but not both, may be 0.
func parseSize(s string) (w, h int, err error) {
	ws, hs, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return 0, 0, fmt.Errorf("invalid size %q: want WxH", s)
	}
	if w, err = strconv.Atoi(ws); err != nil {
		return 0, 0, fmt.Errorf("invalid size %q: %w", s, err)
	}
	if h, err = strconv.Atoi(hs); err != nil {
		return 0, 0, fmt.Errorf("invalid size %q: %w", s, err)
	}
	if w < 0 || h < 0 || w == 0 && h == 0 {
		return 0, 0, fmt.Errorf("invalid size %q", s)
	}
	return w, h, nil
}

// fit resolves a zero extent of w×h from the aspect ratio of sw×sh.
func fit(w, h, sw, sh int) (int, int) {
	switch {
	case w == 0:
		w = max(1, (h*sw+sh/2)/sh)
	case h == 0:
		h = max(1, (w*sh+sw/2)/sw)
	}
	return w, h
}

func run(cfg *config, stdout io.Writer) error {
	logger := slog.New(slog.DiscardHandler)
	if cfg.verbose {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
		smooth.SetLogger(logger)
		defer smooth.SetLogger(nil)
	}

	src, format, err := readImage(cfg.in)
	if err != nil {
		return err
	}
	logger.Debug("decoded input", "file", cfg.in, "format", format)
	enc, err := encoderFor(cfg.out, cfg.quality)
	if err != nil {
		return err
	}
	sb := src.Bounds()
	w, h := fit(cfg.w, cfg.h, sb.Dx(), sb.Dy())

	start := time.Now()
	dst, err := resize(cfg, src, w, h)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	if err := writeImage(cfg.out, dst, enc); err != nil {
		return err
	}
	p := message.NewPrinter(cfg.lang)
	_, err = p.Fprintf(stdout, "%s %d×%d → %s %d×%d (%s, %v)\n",
		cfg.in, sb.Dx(), sb.Dy(), cfg.out, w, h, cfg.filter, elapsed.Round(time.Microsecond))
	return err
}

func resize(cfg *config, src image.Image, w, h int) (image.Image, error) {
	if q := filters[cfg.filter]; q != nil {
		return transform(q, src, w, h, cfg.flipH, cfg.flipV), nil
	}
	opts := &smooth.Options{
		FlipH:   cfg.flipH,
		FlipV:   cfg.flipV,
		Nearest: cfg.filter == "nearest",
		Serial:  cfg.serial,
	}
	if cfg.workers > 0 && !cfg.serial {
		opts.Pool = workpool.New(cfg.workers)
		defer opts.Pool.Close()
	}
	dst := smooth.ScaleWith(context.Background(), src, w, h, opts)
	if dst == nil {
		return nil, fmt.Errorf("cannot scale %v to %d×%d", src.Bounds().Size(), w, h)
	}
	return dst, nil
}

// transform scales src to w×h with an x/image/draw interpolator, mirroring
// through the affine transform when asked to.
func transform(q draw.Interpolator, src image.Image, w, h int, flipH, flipV bool) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	sr := src.Bounds()
	if !flipH && !flipV {
		q.Scale(dst, dst.Bounds(), src, sr, draw.Src, nil)
		return dst
	}
	sx := float64(w) / float64(sr.Dx())
	sy := float64(h) / float64(sr.Dy())
	m := f64.Aff3{
		sx, 0, -sx * float64(sr.Min.X),
		0, sy, -sy * float64(sr.Min.Y),
	}
	if flipH {
		m[0], m[2] = -sx, float64(w)+sx*float64(sr.Min.X)
	}
	if flipV {
		m[4], m[5] = -sy, float64(h)+sy*float64(sr.Min.Y)
	}
	q.Transform(dst, m, src, sr, draw.Src, nil)
	return dst
}
