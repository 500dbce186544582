// Copyright 2026 The Smoothscale Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bufio"
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gen2brain/jpegn"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	_ "golang.org/x/image/webp"
)

// encoder writes m to w in one image format.
type encoder func(w io.Writer, m image.Image) error

// encoderFor returns the encoder for the extension of name.
func encoderFor(name string, quality int) (encoder, error) {
	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".png":
		return png.Encode, nil
	case ".jpg", ".jpeg":
		return func(w io.Writer, m image.Image) error {
			return jpeg.Encode(w, m, &jpeg.Options{Quality: quality})
		}, nil
	case ".gif":
		return func(w io.Writer, m image.Image) error {
			return gif.Encode(w, m, nil)
		}, nil
	case ".bmp":
		return bmp.Encode, nil
	case ".tif", ".tiff":
		return func(w io.Writer, m image.Image) error {
			return tiff.Encode(w, m, &tiff.Options{Compression: tiff.Deflate, Predictor: true})
		}, nil
	case "":
		return nil, fmt.Errorf("%s: no file extension to choose an output format", name)
	default:
		return nil, fmt.Errorf("%s: unsupported output format %q", name, ext)
	}
}

// jpegMagic starts every JPEG stream.
const jpegMagic = "\xff\xd8"

// decode decodes an image of any registered format. JPEG images are rotated
// upright according to their EXIF orientation.
func decode(data []byte) (image.Image, string, error) {
	if bytes.HasPrefix(data, []byte(jpegMagic)) {
		m, err := jpegn.Decode(bytes.NewReader(data), &jpegn.Options{
			ToRGBA:         true,
			UpsampleMethod: jpegn.CatmullRom,
			AutoRotate:     true,
		})
		return m, "jpeg", err
	}
	return image.Decode(bytes.NewReader(data))
}

func readImage(name string) (image.Image, string, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, "", err
	}
	m, format, err := decode(data)
	if err != nil {
		return nil, "", fmt.Errorf("decoding %s: %w", name, err)
	}
	return m, format, nil
}

func writeImage(name string, m image.Image, enc encoder) (err error) {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	w := bufio.NewWriter(f)
	if err := enc(w, m); err != nil {
		return fmt.Errorf("encoding %s: %w", name, err)
	}
	return w.Flush()
}
