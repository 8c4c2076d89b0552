package widgettui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/tOgg1/chatline/internal/config"
	"github.com/tOgg1/chatline/internal/history"
	"github.com/tOgg1/chatline/internal/logging"
	"github.com/tOgg1/chatline/internal/metrics"
)

// ErrNoTTY is returned when the widget is launched without a terminal.
var ErrNoTTY = errors.New("chatline requires an interactive terminal")

// flags holds command-line overrides. Zero values leave config untouched.
type flags struct {
	configFile  string
	logLevel    string
	seed        int
	pageSize    int
	theme       string
	metricsAddr string
}

func Execute(version string) error {
	return newRootCmd(version).Execute()
}

func newRootCmd(version string) *cobra.Command {
	f := flags{}
	cmd := &cobra.Command{
		Use:           "chatline",
		Short:         "chat widget in the terminal",
		Long:          "Bubbletea-hosted chat widget with paginated history and an unread badge.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !hasTTY() {
				return ErrNoTTY
			}
			cfg, err := loadConfig(cmd, f)
			if err != nil {
				return err
			}
			return Run(cmd.Context(), cfg, f.theme)
		},
	}
	cmd.Flags().StringVar(&f.configFile, "config", "", "config file (default $XDG_CONFIG_HOME/chatline/config.yaml)")
	cmd.Flags().StringVar(&f.logLevel, "log-level", "", "log level: debug|info|warn|error|disabled")
	cmd.Flags().IntVar(&f.seed, "seed", 0, "number of demo messages to archive on start")
	cmd.Flags().IntVar(&f.pageSize, "page-size", 0, "messages per older-history page")
	cmd.Flags().StringVar(&f.theme, "theme", "default", "theme: default|high-contrast")
	cmd.Flags().StringVar(&f.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	return cmd
}

// loadConfig applies changed flags on top of file and environment settings.
func loadConfig(cmd *cobra.Command, f flags) (*config.Config, error) {
	loader := config.NewLoader()
	if f.configFile != "" {
		loader.SetConfigFile(f.configFile)
	}
	if cmd.Flags().Changed("log-level") {
		loader.Set("logging.level", f.logLevel)
	}
	if cmd.Flags().Changed("seed") {
		loader.Set("history.seed_count", f.seed)
	}
	if cmd.Flags().Changed("page-size") {
		loader.Set("pagination.page_size", f.pageSize)
	}
	if cmd.Flags().Changed("metrics-addr") {
		loader.Set("metrics.addr", f.metricsAddr)
	}
	return loader.Load()
}

// Run starts the terminal widget and blocks until the user quits.
func Run(ctx context.Context, cfg *config.Config, theme string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	logOut, closeLog, err := logOutput(cfg.Logging.File)
	if err != nil {
		return err
	}
	defer closeLog()
	logging.Init(logging.Config{
		Level:        cfg.Logging.Level,
		Format:       cfg.Logging.Format,
		Output:       logOut,
		EnableCaller: cfg.Logging.EnableCaller,
	})
	logger := logging.Component("chatline")

	archive, err := openSeededArchive(ctx, cfg.History)
	if err != nil {
		return err
	}
	defer archive.Close()

	collector := metrics.New()
	if cfg.Metrics.Addr != "" {
		srv := &http.Server{Addr: cfg.Metrics.Addr, Handler: metricsMux(collector), ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Warn().Err(err).Str("addr", cfg.Metrics.Addr).Msg("metrics server stopped")
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	var session *config.SessionStore
	if cfg.Widget.SessionFile != "" {
		session = config.NewSessionStore(cfg.Widget.SessionFile)
	}

	model, err := NewModel(Options{
		Config:   cfg,
		Archive:  archive,
		Recorder: collector,
		Session:  session,
		Theme:    theme,
	})
	if err != nil {
		return err
	}
	defer model.Close()

	logger.Info().Str("history", cfg.History.Path).Int("page_size", cfg.Pagination.PageSize).Msg("starting widget")
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	_, err = program.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

func openSeededArchive(ctx context.Context, cfg config.HistoryConfig) (*history.Archive, error) {
	archive, err := history.Open(cfg.Path)
	if err != nil {
		return nil, err
	}
	n, err := archive.Count(ctx)
	if err != nil {
		_ = archive.Close()
		return nil, err
	}
	if n == 0 && cfg.SeedCount > 0 {
		if _, err := archive.Seed(ctx, cfg.SeedCount, time.Now()); err != nil {
			_ = archive.Close()
			return nil, err
		}
	}
	return archive, nil
}

func metricsMux(collector *metrics.Collector) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", collector.Handler())
	return mux
}

// logOutput returns the log destination. The widget owns the terminal, so
// without a file logs are discarded.
func logOutput(path string) (io.Writer, func(), error) {
	if path == "" {
		return io.Discard, func() {}, nil
	}
	f, err := logging.OpenFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}

func hasTTY() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}
