package debug

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/Faultbox/beltline/internal/geometry"
)

// Capture writes screenshots and mesh exports to a directory.
type Capture struct {
	outputDir string
	prefix    string
	now       func() time.Time
}

// NewCapture creates a capture handler writing prefix_<timestamp> files.
func NewCapture(outputDir, prefix string) *Capture {
	return &Capture{
		outputDir: outputDir,
		prefix:    prefix,
		now:       time.Now,
	}
}

// SavePixels writes RGBA pixel data as a PNG. pixels must hold
// width*height*4 bytes; rows are flipped since OpenGL has origin at
// bottom-left.
func (c *Capture) SavePixels(pixels []byte, width, height int) (string, error) {
	if len(pixels) != width*height*4 {
		return "", fmt.Errorf("pixel data size mismatch: expected %d, got %d", width*height*4, len(pixels))
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	rowSize := width * 4
	for y := 0; y < height; y++ {
		srcOffset := (height - 1 - y) * rowSize
		dstOffset := y * img.Stride
		copy(img.Pix[dstOffset:dstOffset+rowSize], pixels[srcOffset:srcOffset+rowSize])
	}

	filename, f, err := c.create("png")
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return "", fmt.Errorf("encoding PNG: %w", err)
	}
	return filename, nil
}

// SaveMesh writes the mesh as a Wavefront OBJ file.
func (c *Capture) SaveMesh(m *geometry.Mesh) (string, error) {
	filename, f, err := c.create("obj")
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := geometry.WriteOBJ(f, c.prefix, m); err != nil {
		return "", fmt.Errorf("writing OBJ: %w", err)
	}
	return filename, nil
}

// Filename returns the path the next capture with extension ext would use.
func (c *Capture) Filename(ext string) string {
	timestamp := c.now().Format("2006-01-02_15-04-05.000")
	filename := fmt.Sprintf("%s_%s.%s", c.prefix, timestamp, ext)
	if c.outputDir != "" {
		filename = filepath.Join(c.outputDir, filename)
	}
	return filename
}

func (c *Capture) create(ext string) (string, *os.File, error) {
	if c.outputDir != "" {
		if err := os.MkdirAll(c.outputDir, 0755); err != nil {
			return "", nil, fmt.Errorf("creating output dir: %w", err)
		}
	}
	filename := c.Filename(ext)
	f, err := os.Create(filename)
	if err != nil {
		return "", nil, fmt.Errorf("creating file: %w", err)
	}
	return filename, f, nil
}
