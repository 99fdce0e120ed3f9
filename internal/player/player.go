package player

import (
	"context"
	"time"
)

// Player is the playback surface mpvctl drives. Positions are seconds.
type Player interface {
	Load(ctx context.Context, uri string) error
	Pause(ctx context.Context) error
	Resume(ctx context.Context) error
	Stop(ctx context.Context) error
	SetVolume(ctx context.Context, v int) error
	SetMute(ctx context.Context, m bool) error
	SetFullscreen(ctx context.Context, f bool) error
	SetTitle(ctx context.Context, title string) error
	Screenshot(ctx context.Context, path string) error
	SetSpeed(ctx context.Context, speed float64) error
	Seek(ctx context.Context, seconds float64) error
	GetPosition(ctx context.Context) (float64, error)
	GetDuration(ctx context.Context) (float64, error)
	Status(ctx context.Context) (Status, error)
}

// Status is a point-in-time view of the loaded file.
type Status struct {
	Title    string
	Paused   bool
	Position time.Duration
	Duration time.Duration
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
