// pkg/render/engo/hud.go
package engo

import (
	"bytes"
	"image/color"
	"strings"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"
	"golang.org/x/image/font/gofont/gomono"

	"github.com/opd-ai/go-topdrive/pkg/render"
)

// hudFontURL is the name the embedded font is registered under with engo.Files.
const hudFontURL = "hud/gomono.ttf"

// LoadHUDFont registers the embedded monospace font. Call from Preload.
func LoadHUDFont() error {
	return engo.Files.LoadReaderData(hudFontURL, bytes.NewReader(gomono.TTF))
}

// HUDSystem draws the driver readout in the top-left corner of the screen.
type HUDSystem struct {
	font   *common.Font
	entity *spriteEntity

	text    string
	pending *render.HUD
}

// NewHUDSystem creates a HUD system. font may be nil, in which case the
// text is tracked but never drawn.
func NewHUDSystem(font *common.Font) *HUDSystem {
	e := &spriteEntity{BasicEntity: ecs.NewBasic()}
	e.RenderComponent = common.RenderComponent{Color: color.White}
	e.SpaceComponent = common.SpaceComponent{Position: engo.Point{X: 10, Y: 10}}
	if font != nil {
		e.RenderComponent.SetShader(common.HUDShader)
		e.RenderComponent.SetZIndex(1000)
	}
	return &HUDSystem{font: font, entity: e}
}

// NewHUDFont builds the font for NewHUDSystem from the embedded font
// loaded by LoadHUDFont.
func NewHUDFont() (*common.Font, error) {
	f := &common.Font{
		URL:  hudFontURL,
		FG:   color.White,
		BG:   color.Transparent,
		Size: 18,
	}
	if err := f.CreatePreloaded(); err != nil {
		return nil, err
	}
	return f, nil
}

// Entity exposes the text entity so it can be added to a RenderSystem.
func (hud *HUDSystem) Entity() (*ecs.BasicEntity, *common.RenderComponent, *common.SpaceComponent) {
	return &hud.entity.BasicEntity, &hud.entity.RenderComponent, &hud.entity.SpaceComponent
}

// SetHUD queues h to be shown on the next Update.
func (hud *HUDSystem) SetHUD(h render.HUD) {
	hud.pending = &h
}

// Remove satisfies the ecs.System interface
func (hud *HUDSystem) Remove(basic ecs.BasicEntity) {}

// Update redraws the readout when it changed.
func (hud *HUDSystem) Update(dt float32) {
	if hud.pending == nil {
		return
	}
	text := strings.Join(hud.pending.Lines(), "\n")
	hud.pending = nil
	if text == hud.text {
		return
	}
	hud.text = text
	if hud.font != nil {
		hud.entity.RenderComponent.Drawable = common.Text{
			Font:        hud.font,
			Text:        text,
			LineSpacing: 0.3,
		}
	}
}

// Text returns the readout currently shown.
func (hud *HUDSystem) Text() string {
	return hud.text
}
