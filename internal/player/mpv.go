package player

import (
	"context"
	"fmt"

	"github.com/tr1v3r/pkg/log"

	"github.com/tr1v3r/mpvipc"
)

// https://mpv.io/manual/stable/#properties

var _ Player = (*MPVPlayer)(nil)

// NewMPVPlayer drives the player behind c. The caller keeps ownership of c.
func NewMPVPlayer(c *mpvipc.Client) *MPVPlayer { return &MPVPlayer{client: c} }

type MPVPlayer struct {
	client *mpvipc.Client
}

func (p *MPVPlayer) Load(ctx context.Context, uri string) error {
	log.CtxDebug(ctx, "MPVPlayer Load: uri=%s", uri)
	if _, err := p.client.Command(ctx, "loadfile", uri, "replace"); err != nil {
		return fmt.Errorf("calling mpv loadfile failed: %w", err)
	}
	return nil
}

func (p *MPVPlayer) Pause(ctx context.Context) error {
	if err := p.client.SetProperty(ctx, mpvipc.Pause, true); err != nil {
		return fmt.Errorf("calling mpv pause failed: %w", err)
	}
	return nil
}

func (p *MPVPlayer) Resume(ctx context.Context) error {
	if err := p.client.SetProperty(ctx, mpvipc.Pause, false); err != nil {
		return fmt.Errorf("calling mpv resume failed: %w", err)
	}
	return nil
}

// Stop ends playback of the current file; the player process keeps running.
func (p *MPVPlayer) Stop(ctx context.Context) error {
	if _, err := p.client.Command(ctx, "stop"); err != nil {
		return fmt.Errorf("calling mpv stop failed: %w", err)
	}
	return nil
}

func (p *MPVPlayer) SetVolume(ctx context.Context, v int) error {
	if err := p.client.SetProperty(ctx, mpvipc.Volume, v); err != nil {
		return fmt.Errorf("calling mpv set volume failed: %w", err)
	}
	return nil
}

func (p *MPVPlayer) SetMute(ctx context.Context, m bool) error {
	if err := p.client.SetProperty(ctx, mpvipc.Mute, m); err != nil {
		return fmt.Errorf("calling mpv set mute failed: %w", err)
	}
	return nil
}

func (p *MPVPlayer) SetFullscreen(ctx context.Context, f bool) error {
	if err := p.client.SetProperty(ctx, mpvipc.Fullscreen, f); err != nil {
		return fmt.Errorf("calling mpv set fullscreen failed: %w", err)
	}
	return nil
}

func (p *MPVPlayer) SetTitle(ctx context.Context, title string) error {
	if err := p.client.SetProperty(ctx, mpvipc.Title, title); err != nil {
		return fmt.Errorf("calling mpv set title failed: %w", err)
	}
	return nil
}

// Screenshot saves the current frame to path, or to mpv's default
// location when path is empty.
func (p *MPVPlayer) Screenshot(ctx context.Context, path string) error {
	var err error
	if path == "" {
		_, err = p.client.Command(ctx, "screenshot")
	} else {
		_, err = p.client.Command(ctx, "screenshot-to-file", path)
	}
	if err != nil {
		return fmt.Errorf("calling mpv screenshot failed: %w", err)
	}
	return nil
}

func (p *MPVPlayer) SetSpeed(ctx context.Context, speed float64) error {
	if err := p.client.SetProperty(ctx, mpvipc.Speed, speed); err != nil {
		return fmt.Errorf("calling mpv set speed failed: %w", err)
	}
	return nil
}

func (p *MPVPlayer) Seek(ctx context.Context, seconds float64) error {
	if _, err := p.client.Command(ctx, "seek", seconds, "absolute"); err != nil {
		return fmt.Errorf("calling mpv seek failed: %w", err)
	}
	return nil
}

func (p *MPVPlayer) GetPosition(ctx context.Context) (float64, error) {
	v, err := mpvipc.GetProperty[float64](ctx, p.client, mpvipc.TimePos)
	if err != nil {
		return 0, fmt.Errorf("getting mpv time-pos failed: %w", err)
	}
	return v, nil
}

func (p *MPVPlayer) GetDuration(ctx context.Context) (float64, error) {
	v, err := mpvipc.GetProperty[float64](ctx, p.client, mpvipc.Duration)
	if err != nil {
		return 0, fmt.Errorf("getting mpv duration failed: %w", err)
	}
	return v, nil
}

// Status queries title, pause state, position and duration in turn.
func (p *MPVPlayer) Status(ctx context.Context) (Status, error) {
	var st Status
	var err error
	if st.Title, err = mpvipc.GetProperty[string](ctx, p.client, mpvipc.MediaTitle); err != nil {
		return st, fmt.Errorf("getting mpv media-title failed: %w", err)
	}
	if st.Paused, err = mpvipc.GetProperty[bool](ctx, p.client, mpvipc.Pause); err != nil {
		return st, fmt.Errorf("getting mpv pause failed: %w", err)
	}
	pos, err := p.GetPosition(ctx)
	if err != nil {
		return st, err
	}
	dur, err := p.GetDuration(ctx)
	if err != nil {
		return st, err
	}
	st.Position, st.Duration = seconds(pos), seconds(dur)
	return st, nil
}
