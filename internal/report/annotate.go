package report

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"

	"github.com/fogleman/gg"

	"cephai-backend/internal/models"
)

// per-landmark colors for variety, cycled in order
var landmarkColors = [][3]float64{
	{1, 0, 0}, {0, 1, 0}, {0, 0, 1}, {1, 0.65, 0}, {0.5, 0, 0.5},
	{0, 1, 1}, {1, 0.75, 0.8}, {0.65, 0.16, 0.16}, {0.13, 0.55, 0.13},
	{0.29, 0, 0.51}, {1, 0.84, 0},
}

// annotateImage decodes the uploaded image, draws each landmark as a
// filled circle with its name beside it, and writes the result as a PNG
// to outputPath. Normalized [0,1] coordinates are scaled to pixels here
// and nowhere else.
func annotateImage(imageBytes []byte, landmarks models.Landmarks, outputPath string) error {
	img, _, err := image.Decode(bytes.NewReader(imageBytes))
	if err != nil {
		return fmt.Errorf("decoding uploaded image: %w", err)
	}

	dc := gg.NewContextForImage(img)
	w := float64(dc.Width())
	h := float64(dc.Height())

	// scale the marker with the image, but keep it visible on small inputs
	radius := w * 0.006
	if radius < 4 {
		radius = 4
	}

	for i, lm := range landmarks {
		x := lm.X * w
		y := lm.Y * h
		c := landmarkColors[i%len(landmarkColors)]

		dc.SetRGB(c[0], c[1], c[2])
		dc.DrawCircle(x, y, radius)
		dc.Fill()

		dc.SetRGB(0, 0, 0)
		dc.DrawCircle(x, y, radius)
		dc.Stroke()

		dc.SetRGB(1, 1, 0)
		dc.DrawString(lm.Name, x+radius+2, y-radius-2)
	}

	if err := dc.SavePNG(outputPath); err != nil {
		return fmt.Errorf("saving annotated image: %w", err)
	}
	return nil
}
