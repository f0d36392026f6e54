package engo

import (
	"image"
	"testing"
)

func TestNewAssetManager(t *testing.T) {
	am := NewAssetManager(40)
	if am.vehicleSize != 40 {
		t.Errorf("vehicleSize = %d, want 40", am.vehicleSize)
	}
	if am.VehicleSprite() != nil || am.GroundTile() != nil {
		t.Error("textures should be nil before LoadAssets")
	}

	if got := NewAssetManager(2).vehicleSize; got != 8 {
		t.Errorf("tiny vehicle size = %d, want clamped to 8", got)
	}
}

func TestCarImage_Layout(t *testing.T) {
	const size = 40
	img := carImage(size)

	if b := img.Bounds(); b.Dx() != size || b.Dy() != size {
		t.Fatalf("bounds = %v, want %dx%d", b, size, size)
	}

	tests := []struct {
		name string
		x, y int
		want any
	}{
		{"corner is transparent", 0, 0, uint8(0)},
		{"centre is body", size / 2, size / 2, bodyColor},
		{"windscreen is at the front", size - 3*size/8 + 1, size / 2, glassColor},
		{"rear left wheel", size/8 + 1, size/8 + 1, wheelColor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := img.NRGBAAt(tt.x, tt.y)
			switch want := tt.want.(type) {
			case uint8:
				if got.A != want {
					t.Errorf("alpha at (%d,%d) = %d, want %d", tt.x, tt.y, got.A, want)
				}
			default:
				if got != want {
					t.Errorf("pixel at (%d,%d) = %v, want %v", tt.x, tt.y, got, want)
				}
			}
		})
	}
}

func TestGroundImage_GridLines(t *testing.T) {
	img := groundImage(100)

	if got := img.NRGBAAt(0, 50); got != markColor {
		t.Errorf("left edge = %v, want grid mark", got)
	}
	if got := img.NRGBAAt(50, 0); got != markColor {
		t.Errorf("top edge = %v, want grid mark", got)
	}
	if got := img.NRGBAAt(50, 50); got != groundColor {
		t.Errorf("interior = %v, want ground", got)
	}
}

func TestTileOrigins(t *testing.T) {
	tests := []struct {
		name          string
		width, height float64
		want          int
	}{
		{"exact fit", 2000, 1000, 2},
		{"partial tiles round up", 2500, 1001, 6},
		{"smaller than one tile", 10, 10, 1},
		{"empty world", 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tileOrigins(tt.width, tt.height)
			if len(got) != tt.want {
				t.Fatalf("got %d tiles, want %d", len(got), tt.want)
			}
		})
	}

	got := tileOrigins(2500, 1000)
	if got[2] != (image.Point{X: 2000, Y: 0}) {
		t.Errorf("third tile origin = %v, want (2000,0)", got[2])
	}
}
