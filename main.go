package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/iburimskiy/portfolio/internal/audio"
	"github.com/iburimskiy/portfolio/internal/config"
	"github.com/iburimskiy/portfolio/internal/content"
	"github.com/iburimskiy/portfolio/internal/game"
	"github.com/iburimskiy/portfolio/internal/logging"
	"github.com/iburimskiy/portfolio/internal/page"
	"github.com/iburimskiy/portfolio/internal/scene"
	"github.com/iburimskiy/portfolio/internal/tui"
	"github.com/spf13/cobra"
)

var mainLog = logging.Module("main")

type flags struct {
	config  string
	content string
	width   int
	height  int
	mute    bool
	verbose bool
	logFile string
}

// session is everything a host needs, built from settings and flags.
type session struct {
	settings *config.Settings
	content  *content.Content
	player   *audio.Player
	watcher  *content.Watcher
}

func (s *session) updates() <-chan *content.Content {
	if s.watcher == nil {
		return nil
	}
	return s.watcher.Updates()
}

func (s *session) sceneOptions() scene.Options {
	return scene.Options{
		Chimes:       s.player,
		SnapRelease:  s.settings.SnapReleaseDuration(),
		SmoothScroll: s.settings.SmoothScrollDuration(),
	}
}

func (s *session) close() {
	if s.watcher != nil {
		s.watcher.Stop()
	}
	s.player.Close()
}

func openSession(ctx context.Context, cmd *cobra.Command, f *flags) (*session, error) {
	settings, err := config.Load(f.config)
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("width") {
		settings.Window.Width = f.width
	}
	if cmd.Flags().Changed("height") {
		settings.Window.Height = f.height
	}
	if cmd.Flags().Changed("content") {
		settings.Content.Path = f.content
	}
	if f.mute {
		settings.Audio.Enabled = false
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	level := settings.Logging.Level
	if f.verbose {
		level = "debug"
	}
	if err := logging.SetLevel(level); err != nil {
		return nil, err
	}

	s := &session{settings: settings, content: content.Default()}
	if path := settings.Content.Path; path != "" {
		c, err := content.Load(path)
		if err != nil {
			return nil, err
		}
		s.content = c

		if settings.Content.Watch {
			w, err := content.NewWatcher(path)
			if err == nil {
				err = w.Start(ctx)
			}
			if err != nil {
				mainLog.Warn().Err(err).Msg("content hot reload disabled")
			} else {
				s.watcher = w
			}
		}
	}

	s.player = audio.NewPlayer(settings.Audio.Enabled, settings.Audio.Volume)
	return s, nil
}

func newRootCmd() *cobra.Command {
	f := &flags{}

	root := &cobra.Command{
		Use:           "portfolio",
		Short:         "Interactive portfolio page",
		Long:          "Shows the portfolio card, then the scroll-snapped page with a particle trail.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			s, err := openSession(ctx, cmd, f)
			if err != nil {
				return err
			}
			defer s.close()

			w, h := float64(s.settings.Window.Width), float64(s.settings.Window.Height)
			sc := scene.New(s.content, page.WindowMetrics, w, h, s.sceneOptions())
			g := game.New(sc, game.Options{Player: s.player, Updates: s.updates()})
			mainLog.Info().Str("name", s.content.Name).Msg("opening window")
			return game.Run(g, s.settings)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&f.config, "config", "", "settings file (YAML)")
	pf.StringVar(&f.content, "content", "", "portfolio content file (YAML)")
	pf.BoolVar(&f.mute, "mute", false, "disable chimes")
	pf.BoolVarP(&f.verbose, "verbose", "v", false, "debug logging")
	root.Flags().IntVar(&f.width, "width", config.WindowWidth, "window width")
	root.Flags().IntVar(&f.height, "height", config.WindowHeight, "window height")

	root.AddCommand(newTUICmd(f), newContentCmd())
	return root
}

func newTUICmd(f *flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Run the portfolio in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			// The terminal owns stdout and stderr while the screen is up.
			var logOut io.Writer = io.Discard
			if f.logFile != "" {
				file, err := os.OpenFile(f.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
				if err != nil {
					return fmt.Errorf("failed to open log file: %w", err)
				}
				defer file.Close()
				logOut = file
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			s, err := openSession(ctx, cmd, f)
			if err != nil {
				return err
			}
			defer s.close()

			screen, err := tui.OpenScreen()
			if err != nil {
				return err
			}
			logging.Redirect(logOut)
			defer logging.Redirect(os.Stderr)

			w, h := screen.Size()
			sc := scene.New(s.content, tui.Metrics(), float64(w), float64(h), s.sceneOptions())
			app := tui.New(screen, sc, tui.Options{Player: s.player, Updates: s.updates()})
			return app.Run(ctx)
		},
	}
	cmd.Flags().StringVar(&f.logFile, "log-file", "", "append logs to this file")
	return cmd
}

func newContentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "content",
		Short: "Work with portfolio content files",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "check <file>",
		Short: "Validate a content file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := content.Load(args[0])
			if err != nil {
				if errors.Is(err, content.ErrEmpty) {
					return fmt.Errorf("%s: %w (set the top level name field)", args[0], err)
				}
				return fmt.Errorf("%s: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%s, %d roles, %d projects, %d contacts)\n",
				args[0], c.Name, len(c.Roles), len(c.Projects), len(c.Contacts))
			return nil
		},
	})
	return cmd
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
