package debug

import (
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Faultbox/beltline/internal/geometry"
	"github.com/Faultbox/beltline/pkg/math"
)

func TestPathLineVertices(t *testing.T) {
	pts := []math.Vec3{{X: 0}, {X: 1}, {X: 1, Z: 1}}

	open := PathLineVertices(pts, false)
	if len(open) != 2*6 {
		t.Errorf("open polyline: expected 12 floats, got %d", len(open))
	}

	closed := PathLineVertices(pts, true)
	if len(closed) != 3*6 {
		t.Fatalf("closed polyline: expected 18 floats, got %d", len(closed))
	}
	// Last segment returns to the start.
	if closed[15] != 0 || closed[16] != 0 || closed[17] != 0 {
		t.Errorf("closing segment should end at the first point, got %v", closed[15:])
	}

	if PathLineVertices(pts[:1], true) != nil {
		t.Error("a single point has no segments")
	}
}

func TestMarkerAndBBoxCounts(t *testing.T) {
	m := MarkerVertices([]math.Vec3{{}, {X: 1}}, 0.2)
	if len(m) != 2*MarkerVertexCount*3 {
		t.Errorf("expected %d floats, got %d", 2*MarkerVertexCount*3, len(m))
	}

	b := BBoxWireframeVertices(math.Vec3{X: -1, Y: -1, Z: -1}, math.One)
	if len(b) != BBoxWireframeVertexCount*3 {
		t.Errorf("expected %d floats, got %d", BBoxWireframeVertexCount*3, len(b))
	}
}

func TestCaptureSavePixels(t *testing.T) {
	dir := t.TempDir()
	c := NewCapture(filepath.Join(dir, "shots"), "belt")
	c.now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }

	// 1x2 image: bottom row red, top row blue (GL order).
	pixels := []byte{255, 0, 0, 255, 0, 0, 255, 255}
	name, err := c.SavePixels(pixels, 1, 2)
	if err != nil {
		t.Fatalf("SavePixels: %v", err)
	}
	if !strings.HasSuffix(name, "belt_2024-01-02_03-04-05.000.png") {
		t.Errorf("unexpected filename %s", name)
	}

	f, err := os.Open(name)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, _, b, _ := img.At(0, 0).RGBA(); b == 0 {
		t.Error("top image row should be the last GL row (blue)")
	}

	if _, err := c.SavePixels(pixels, 2, 2); err == nil {
		t.Error("expected size mismatch error")
	}
}

func TestCaptureSaveMesh(t *testing.T) {
	c := NewCapture(t.TempDir(), "belt")
	m := geometry.BuildRibbon([]math.Vec3{{}, {X: 2}}, geometry.RibbonOptions{Width: 1, Thickness: 0.2, Up: math.Up})

	name, err := c.SaveMesh(m)
	if err != nil {
		t.Fatalf("SaveMesh: %v", err)
	}
	data, err := os.ReadFile(name)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.HasPrefix(string(data), "o belt\n") {
		t.Errorf("unexpected OBJ header: %q", string(data[:10]))
	}
}
