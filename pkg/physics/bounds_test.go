package physics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBounds_Clamp(t *testing.T) {
	b := Bounds{Width: 1000, Height: 800, VehicleSize: 40}

	tests := []struct {
		name     string
		in       Vector2D
		expected Vector2D
		contact  Contact
	}{
		{"inside", Vector2D{X: 500, Y: 400}, Vector2D{X: 500, Y: 400}, Contact{}},
		{"left", Vector2D{X: -3, Y: 400}, Vector2D{X: 0, Y: 400}, Contact{Left: true}},
		{"touching_left", Vector2D{X: 0, Y: 400}, Vector2D{X: 0, Y: 400}, Contact{Left: true}},
		{"right", Vector2D{X: 999, Y: 400}, Vector2D{X: 960, Y: 400}, Contact{Right: true}},
		{"top", Vector2D{X: 10, Y: -0.5}, Vector2D{X: 10, Y: 0}, Contact{Top: true}},
		{"bottom", Vector2D{X: 10, Y: 900}, Vector2D{X: 10, Y: 760}, Contact{Bottom: true}},
		{"corner", Vector2D{X: -1, Y: 761}, Vector2D{X: 0, Y: 760}, Contact{Left: true, Bottom: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, contact := b.Clamp(tt.in)
			assert.Equal(t, tt.expected, got)
			assert.Equal(t, tt.contact, contact)
			assert.True(t, b.Contains(got))
		})
	}
}

func TestBounds_Center(t *testing.T) {
	b := Bounds{Width: 1040, Height: 840, VehicleSize: 40}
	assert.Equal(t, Vector2D{X: 500, Y: 400}, b.Center())
	assert.False(t, b.Contains(Vector2D{X: 1001, Y: 0}))
}

func TestContact_Merge(t *testing.T) {
	c := Contact{Left: true}.Merge(Contact{Top: true})
	assert.Equal(t, Contact{Left: true, Top: true}, c)
	assert.True(t, c.Any())
	assert.False(t, Contact{}.Any())
}
