package timeplot

import (
	"fmt"
	"image"
	"io"
	"math"

	"github.com/gogpu/gg"
	"golang.org/x/image/draw"
)

// compose renders the container: the canvas at its padding offset, then
// the overlays on top.
func (tp *Timeplot) compose() (*gg.Context, error) {
	cw, ch := tp.container.ClientSize()
	dst := image.NewRGBA(image.Rect(0, 0, max(1, cw), max(1, ch)))

	if tp.surface != nil {
		tp.paintMu.Lock()
		px, py := tp.surface.Padding()
		if src := tp.surface.Image(); src != nil {
			at := image.Pt(int(math.Round(px)), int(math.Round(py)))
			draw.Draw(dst, src.Bounds().Add(at), src, src.Bounds().Min, draw.Over)
		}
		tp.paintMu.Unlock()
	}

	dc := gg.NewContextForImage(dst)
	if err := tp.overlay.Render(dc); err != nil {
		_ = dc.Close()
		return nil, fmt.Errorf("timeplot: compose: %w", err)
	}
	return dc, nil
}

// Image returns the container as it would be displayed: the drawable
// area at its padding offset with the overlays on top.
func (tp *Timeplot) Image() (image.Image, error) {
	dc, err := tp.compose()
	if err != nil {
		return nil, err
	}
	defer dc.Close()
	return dc.Image(), nil
}

// WritePNG encodes Image as PNG to w.
func (tp *Timeplot) WritePNG(w io.Writer) error {
	dc, err := tp.compose()
	if err != nil {
		return err
	}
	defer dc.Close()
	return dc.EncodePNG(w)
}

// SavePNG writes Image as a PNG file.
func (tp *Timeplot) SavePNG(path string) error {
	dc, err := tp.compose()
	if err != nil {
		return err
	}
	defer dc.Close()
	return dc.SavePNG(path)
}
