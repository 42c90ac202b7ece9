// ABOUTME: Tests for the frame codec: quality validation, JPEG output, downscaling
// ABOUTME: Decodes produced bytes to verify dimensions instead of comparing raw data

package capture

import (
	"bytes"
	"context"
	"image/jpeg"
	"testing"
)

func testImage(t *testing.T, w, h int) *fakeGrabber {
	t.Helper()
	return newFakeGrabber(w, h)
}

func TestCodecRejectsInvalidQuality(t *testing.T) {
	t.Parallel()

	g := testImage(t, 16, 16)
	img, err := g.Grab(context.Background(), g.bounds)
	if err != nil {
		t.Fatal(err)
	}

	c := &Codec{}
	for _, q := range []int{0, -5, 101, 1000} {
		if _, err := c.Encode(img, q); err == nil {
			t.Errorf("Encode with quality %d succeeded, want error", q)
		}
	}
}

func TestCodecProducesJPEG(t *testing.T) {
	t.Parallel()

	g := testImage(t, 64, 48)
	img, _ := g.Grab(context.Background(), g.bounds)

	c := &Codec{}
	data, err := c.Encode(img, 85)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	cfg, err := jpeg.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("output is not decodable JPEG: %v", err)
	}
	if cfg.Width != 64 || cfg.Height != 48 {
		t.Errorf("decoded dimensions %dx%d, want 64x48", cfg.Width, cfg.Height)
	}
}

func TestCodecDownscales(t *testing.T) {
	t.Parallel()

	g := testImage(t, 200, 100)
	img, _ := g.Grab(context.Background(), g.bounds)

	c := &Codec{MaxWidth: 100, MaxHeight: 100}
	data, err := c.Encode(img, 60)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	cfg, err := jpeg.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if cfg.Width != 100 || cfg.Height != 50 {
		t.Errorf("decoded dimensions %dx%d, want 100x50 (aspect preserved)", cfg.Width, cfg.Height)
	}
}

func TestCodecLeavesSmallImagesAlone(t *testing.T) {
	t.Parallel()

	g := testImage(t, 50, 40)
	img, _ := g.Grab(context.Background(), g.bounds)

	c := &Codec{MaxWidth: 100, MaxHeight: 100}
	data, err := c.Encode(img, 60)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	cfg, _ := jpeg.DecodeConfig(bytes.NewReader(data))
	if cfg.Width != 50 || cfg.Height != 40 {
		t.Errorf("decoded dimensions %dx%d, want unchanged 50x40", cfg.Width, cfg.Height)
	}
}

func TestQualityBounds(t *testing.T) {
	t.Parallel()

	cases := []struct {
		q    int
		want bool
	}{
		{0, false}, {1, true}, {50, true}, {100, true}, {101, false},
	}
	for _, tc := range cases {
		if got := ValidQuality(tc.q); got != tc.want {
			t.Errorf("ValidQuality(%d) = %v, want %v", tc.q, got, tc.want)
		}
	}
}
