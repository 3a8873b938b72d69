package cli

import (
	"context"
	"fmt"
	"os"
	"os/user"
	"path/filepath"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/lyfe691/self/internal/config"
	"github.com/lyfe691/self/internal/display"
	"github.com/lyfe691/self/internal/render"
	"github.com/lyfe691/self/internal/sysinfo"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// SetVersion injects build metadata, typically via ldflags.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

type rootFlags struct {
	configPath string
	image      string
	height     int
	width      int
	mode       string
	theme      string
	noCache    bool
}

// Execute runs the CLI.
func Execute() error {
	var (
		verbose bool
		flags   rootFlags
	)

	root := &cobra.Command{
		Use:          "self",
		Short:        "self shows system info next to a terminal-rendered image",
		Long:         `self renders an image as colored terminal glyphs (half-block or braille) and displays it beside system information, caching rendered frames on disk.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(os.Stderr, level)))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFetch(cmd.Context(), flags)
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("self %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.Flags().StringVar(&flags.configPath, "config", "", "path to config file")
	root.Flags().StringVar(&flags.image, "image", "", "image to render")
	root.Flags().IntVar(&flags.height, "height", 0, "image height in terminal rows")
	root.Flags().IntVar(&flags.width, "width", 0, "image width in terminal columns (0 = auto)")
	root.Flags().StringVar(&flags.mode, "mode", "", "render mode: block or braille")
	root.Flags().StringVar(&flags.theme, "theme", "", "color theme")
	root.Flags().BoolVar(&flags.noCache, "no-cache", false, "bypass the render cache")

	root.AddCommand(newCacheCmd())
	root.AddCommand(newPreviewCmd())
	root.AddCommand(newThemesCmd())

	return root.ExecuteContext(context.Background())
}

// runFetch renders the image and collects system info concurrently,
// then prints the composed columns.
func runFetch(ctx context.Context, flags rootFlags) error {
	logger := loggerFromContext(ctx)

	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}
	mergeFlags(&cfg, flags)

	mode, err := render.ParseMode(cfg.Mode)
	if err != nil {
		return err
	}

	var (
		frame *render.Frame
		info  map[string]string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		r := render.New(
			render.WithCache(frameCache(cfg, logger)),
			render.WithLogger(logger),
		)
		var err error
		frame, err = r.Render(render.Request{
			Path:   cfg.Image,
			Height: cfg.Height,
			Width:  cfg.Width,
			Mode:   mode,
		})
		return err
	})
	g.Go(func() error {
		info = sysinfo.Collect(gctx, logger)
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	if frame.Fallback {
		logger.Debug("image unusable, showing placeholder", "reason", frame.Reason)
	}

	lines := display.Compose(display.Layout{
		Left:     frame.Lines,
		Info:     info,
		Order:    cfg.Info,
		UserHost: userHost(),
		Theme:    display.ThemeByName(cfg.Theme),
	})

	fmt.Println()
	for _, line := range lines {
		fmt.Println(line)
	}
	fmt.Println()
	return nil
}

func loadConfig(flags rootFlags) (config.Config, error) {
	path := flags.configPath
	if path == "" {
		var err error
		if path, err = config.Path(); err != nil {
			return config.Default(), nil
		}
	}
	return config.Load(path)
}

func mergeFlags(cfg *config.Config, flags rootFlags) {
	if flags.image != "" {
		cfg.Image = flags.image
	}
	if flags.height > 0 {
		cfg.Height = flags.height
	}
	if flags.width > 0 {
		cfg.Width = flags.width
	}
	if flags.mode != "" {
		cfg.Mode = flags.mode
	}
	if flags.theme != "" {
		cfg.Theme = flags.theme
	}
	if flags.noCache {
		cfg.NoCache = true
	}
}

func frameCache(cfg config.Config, logger *charmlog.Logger) render.Cache {
	if cfg.NoCache {
		return render.NopCache{}
	}
	dir, err := cacheDir()
	if err != nil {
		logger.Debug("cache disabled", "err", err)
		return render.NopCache{}
	}
	return render.NewDirCache(dir, render.DefaultTTL, logger)
}

func cacheDir() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("resolve cache dir: %w", err)
	}
	return filepath.Join(dir, "self", "render"), nil
}

func userHost() string {
	name := "user"
	if u, err := user.Current(); err == nil && u.Username != "" {
		name = u.Username
	}
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "localhost"
	}
	return name + "@" + host
}
