package audio

import (
	"errors"
	"fmt"
	"time"

	"github.com/hajimehoshi/oto/v2"

	"github.com/opd-ai/go-topdrive/pkg/config"
	"github.com/opd-ai/go-topdrive/pkg/engine"
)

// readyTimeout bounds how long Start waits for the audio device.
const readyTimeout = 2 * time.Second

// limiterLoad is the tone level while the rev limiter cuts the throttle.
const limiterLoad = 0.35

// Player streams an EngineTone to the default audio device. A disabled
// player accepts every call and does nothing.
type Player struct {
	cfg    config.AudioConfig
	tone   *EngineTone
	ctx    *oto.Context
	ready  chan struct{}
	player oto.Player
}

// NewPlayer opens the audio device when cfg.Enabled is set.
func NewPlayer(cfg config.AudioConfig) (*Player, error) {
	p := &Player{
		cfg:  cfg,
		tone: NewEngineTone(cfg.SampleRate, cfg.Cylinders),
	}
	if !cfg.Enabled {
		return p, nil
	}

	ctx, ready, err := oto.NewContext(cfg.SampleRate, ChannelCount, oto.FormatFloat32LE)
	if err != nil {
		return nil, fmt.Errorf("failed to open audio device: %w", err)
	}
	p.ctx = ctx
	p.ready = ready
	return p, nil
}

// Enabled reports whether the player drives a real device.
func (p *Player) Enabled() bool {
	return p.ctx != nil
}

// Tone returns the tone generator fed by Update.
func (p *Player) Tone() *EngineTone {
	return p.tone
}

// Start waits for the device and begins playback.
func (p *Player) Start() error {
	if p.ctx == nil || p.player != nil {
		return nil
	}
	select {
	case <-p.ready:
	case <-time.After(readyTimeout):
		return errors.New("audio device not ready")
	}

	p.player = p.ctx.NewPlayer(p.tone)
	p.player.SetVolume(p.cfg.Volume)
	p.player.Play()
	return nil
}

// Update points the tone at the snapshot's RPM.
func (p *Player) Update(snap engine.Snapshot) {
	p.tone.SetRPM(snap.State.RPM)
	if snap.LimiterActive {
		p.tone.SetLoad(limiterLoad)
	} else {
		p.tone.SetLoad(1)
	}
}

// Close stops playback.
func (p *Player) Close() error {
	if p.player == nil {
		return nil
	}
	err := p.player.Close()
	p.player = nil
	return err
}
