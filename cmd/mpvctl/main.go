package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/tr1v3r/pkg/log"
	"github.com/urfave/cli/v3"

	"github.com/tr1v3r/mpvipc"
	"github.com/tr1v3r/mpvipc/internal/config"
	"github.com/tr1v3r/mpvipc/internal/player"
)

func main() {
	defer log.Close()

	cfg, err := config.Load()
	if err != nil {
		log.Error("config load error, using defaults: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newApp(cfg).Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		log.Close()
		os.Exit(1)
	}
}

func newApp(cfg config.Config) *cli.Command {
	return &cli.Command{
		Name:  "mpvctl",
		Usage: "talk to a running mpv over its JSON IPC channel",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "socket",
				Aliases: []string{"s"},
				Usage:   "unix socket path or windows named pipe of --input-ipc-server",
				Value:   cfg.SocketPath,
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "connect timeout",
				Value: cfg.ConnectTimeout,
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "log every line on the channel",
				Value: cfg.Debug,
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			if cmd.Bool("debug") {
				log.SetLevel(log.DebugLevel)
			}
			return ctx, nil
		},
		Commands: []*cli.Command{
			{
				Name:   "info",
				Usage:  "print client name, protocol version and player time",
				Action: withClient(infoAction),
			},
			{
				Name:      "get",
				Usage:     "print the value of a property",
				ArgsUsage: "<property>",
				Action:    withClient(getAction),
			},
			{
				Name:      "set",
				Usage:     "set a property to a JSON value",
				ArgsUsage: "<property> <json-value>",
				Action:    withClient(setAction),
			},
			{
				Name:      "observe",
				Usage:     "print changes of one or more properties",
				ArgsUsage: "<property>...",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "count",
						Aliases: []string{"n"},
						Usage:   "stop after this many changes, 0 for no limit",
						Value:   cfg.ObserveCount,
					},
				},
				Action: withClient(observeAction),
			},
			{
				Name:      "cmd",
				Usage:     "send an arbitrary command, arguments are parsed as JSON when possible",
				ArgsUsage: "<command> [args...]",
				Action:    withClient(commandAction),
			},
			{
				Name:      "load",
				Usage:     "play a file or URL",
				ArgsUsage: "<uri>",
				Action: withPlayer(func(ctx context.Context, cmd *cli.Command, p player.Player) error {
					if cmd.Args().Len() != 1 {
						return fmt.Errorf("load needs exactly one uri")
					}
					return p.Load(ctx, cmd.Args().First())
				}),
			},
			{
				Name:   "pause",
				Usage:  "pause playback",
				Action: withPlayer(func(ctx context.Context, _ *cli.Command, p player.Player) error { return p.Pause(ctx) }),
			},
			{
				Name:   "resume",
				Usage:  "resume playback",
				Action: withPlayer(func(ctx context.Context, _ *cli.Command, p player.Player) error { return p.Resume(ctx) }),
			},
			{
				Name:      "seek",
				Usage:     "seek to an absolute position in seconds",
				ArgsUsage: "<seconds>",
				Action: withPlayer(func(ctx context.Context, cmd *cli.Command, p player.Player) error {
					sec, err := strconv.ParseFloat(cmd.Args().First(), 64)
					if err != nil {
						return fmt.Errorf("invalid position %q: %w", cmd.Args().First(), err)
					}
					return p.Seek(ctx, sec)
				}),
			},
			{
				Name:  "status",
				Usage: "print title, pause state, position and duration",
				Action: withPlayer(func(ctx context.Context, _ *cli.Command, p player.Player) error {
					st, err := p.Status(ctx)
					if err != nil {
						return err
					}
					state := "playing"
					if st.Paused {
						state = "paused"
					}
					fmt.Printf("%s [%s] %s / %s\n", st.Title, state, st.Position.Round(time.Second), st.Duration.Round(time.Second))
					return nil
				}),
			},
		},
	}
}

type clientAction func(ctx context.Context, cmd *cli.Command, c *mpvipc.Client) error

func withClient(action clientAction) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		dialCtx, cancel := context.WithTimeout(ctx, cmd.Duration("timeout"))
		c, err := mpvipc.Connect(dialCtx, cmd.String("socket"))
		cancel()
		if err != nil {
			return err
		}
		defer func() {
			if cmd.Bool("debug") {
				c.LogStats()
			}
			_ = c.Close()
		}()
		return action(ctx, cmd, c)
	}
}

func withPlayer(action func(ctx context.Context, cmd *cli.Command, p player.Player) error) cli.ActionFunc {
	return withClient(func(ctx context.Context, cmd *cli.Command, c *mpvipc.Client) error {
		return action(ctx, cmd, player.NewMPVPlayer(c))
	})
}

func infoAction(ctx context.Context, _ *cli.Command, c *mpvipc.Client) error {
	name, err := c.ClientName(ctx)
	if err != nil {
		return err
	}
	version, err := c.GetVersion(ctx)
	if err != nil {
		return err
	}
	timeUs, err := c.GetTimeUs(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Client name: %s\n", name)
	fmt.Printf("Version: %d\n", version)
	fmt.Printf("Time: %s\n", time.Duration(timeUs)*time.Microsecond)
	return nil
}

func getAction(ctx context.Context, cmd *cli.Command, c *mpvipc.Client) error {
	if cmd.Args().Len() != 1 {
		return fmt.Errorf("get needs exactly one property")
	}
	v, err := mpvipc.GetProperty[json.RawMessage](ctx, c, mpvipc.Property(cmd.Args().First()))
	if err != nil {
		return err
	}
	fmt.Println(string(v))
	return nil
}

func setAction(ctx context.Context, cmd *cli.Command, c *mpvipc.Client) error {
	if cmd.Args().Len() != 2 {
		return fmt.Errorf("set needs a property and a value")
	}
	return c.SetProperty(ctx, mpvipc.Property(cmd.Args().Get(0)), parseArg(cmd.Args().Get(1)))
}

func observeAction(ctx context.Context, cmd *cli.Command, c *mpvipc.Client) error {
	if cmd.Args().Len() == 0 {
		return fmt.Errorf("observe needs at least one property")
	}
	props := make([]mpvipc.Property, 0, cmd.Args().Len())
	for _, name := range cmd.Args().Slice() {
		props = append(props, mpvipc.Property(name))
	}

	o, err := c.ObserveProperties(ctx, props...)
	if err != nil {
		return err
	}

	n := int(cmd.Int("count"))
	if n == 0 {
		n = -1
	}
	for change, err := range o.Take(ctx, n) {
		if errors.Is(err, context.Canceled) || errors.Is(err, mpvipc.ErrShutdown) {
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Printf("Property %q changed to: %s\n", change.Name, change.Data)
	}
	return nil
}

func commandAction(ctx context.Context, cmd *cli.Command, c *mpvipc.Client) error {
	if cmd.Args().Len() == 0 {
		return fmt.Errorf("cmd needs a command name")
	}
	args := make([]any, 0, cmd.Args().Len()-1)
	for _, a := range cmd.Args().Tail() {
		args = append(args, parseArg(a))
	}
	data, err := c.Command(ctx, cmd.Args().First(), args...)
	if err != nil {
		return err
	}
	if len(data) > 0 {
		fmt.Println(string(data))
	}
	return nil
}

// parseArg keeps JSON literals typed (numbers, bools, objects) and falls
// back to a plain string.
func parseArg(s string) any {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err == nil {
		return v
	}
	return s
}
