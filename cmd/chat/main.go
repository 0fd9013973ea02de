package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ergochat/readline"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/zhouzirui/medchat/internal/client"
	"github.com/zhouzirui/medchat/internal/config"
	"github.com/zhouzirui/medchat/internal/logging"
	"github.com/zhouzirui/medchat/internal/tui"
	"github.com/zhouzirui/medchat/internal/widget"
)

var (
	apiBase string
	origin  string
	rich    bool
	plain   bool
	timeout time.Duration
	logFile string
)

var rootCmd = &cobra.Command{
	Use:   "medchat",
	Short: "Terminal client for the medical chatbot",
	Long: `medchat talks to the medical chatbot backend.

By default the backend is http://localhost:8000 when the origin host is
localhost and <origin>/api otherwise. Pass --api-base to point somewhere else.`,
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().StringVar(&apiBase, "api-base", "", "Backend base URL (or set MEDCHAT_API_BASE)")
	rootCmd.Flags().StringVar(&origin, "origin", "", "Origin used to derive the backend URL (or set MEDCHAT_ORIGIN)")
	rootCmd.Flags().BoolVar(&rich, "rich", false, "Render assistant replies as markdown")
	rootCmd.Flags().BoolVar(&plain, "plain", false, "Use a line-oriented prompt instead of the full-screen UI")
	rootCmd.Flags().DurationVar(&timeout, "timeout", 0, "Request timeout, 0 for none")
	rootCmd.Flags().StringVar(&logFile, "log-file", "", "Log file path (or set MEDCHAT_LOG_FILE)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, _ []string) error {
	_ = godotenv.Load()

	cfg, err := config.LoadClient()
	if err != nil {
		return err
	}
	applyFlags(cmd, cfg)

	var outputs []string
	if cfg.LogFile != "" {
		outputs = append(outputs, cfg.LogFile)
	} else if !plain {
		outputs = append(outputs, os.DevNull)
	}
	logger, err := logging.New(cfg.LogLevel, outputs...)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	base, err := cfg.ResolveAPIBase()
	if err != nil {
		return err
	}
	api, err := client.New(base,
		client.WithTimeout(cfg.Timeout),
		client.WithLogger(logger.Named("client")),
	)
	if err != nil {
		return err
	}
	logger.Info("using backend", zap.String("api_base", api.BaseURL()))

	renderer, err := tui.NewRenderer(cfg.Rich, 0)
	if err != nil {
		return fmt.Errorf("failed to initialize renderer: %w", err)
	}

	w := widget.New(api, widget.WithLogger(logger.Named("widget")))
	defer w.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if plain {
		return runPlain(ctx, w, renderer)
	}
	return runInteractive(ctx, w, renderer, logger)
}

func applyFlags(cmd *cobra.Command, cfg *config.ClientConfig) {
	flags := cmd.Flags()
	if flags.Changed("api-base") {
		cfg.APIBase = apiBase
	}
	if flags.Changed("origin") {
		cfg.Origin = origin
	}
	if flags.Changed("rich") {
		cfg.Rich = rich
	}
	if flags.Changed("timeout") {
		cfg.Timeout = timeout
	}
	if flags.Changed("log-file") {
		cfg.LogFile = logFile
	}
}

func runInteractive(ctx context.Context, w *widget.Widget, renderer *tui.Renderer, logger *zap.Logger) error {
	m := tui.NewModel(ctx, w, renderer, logger.Named("tui"))
	defer m.Close()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("chat UI: %w", err)
	}
	return nil
}

// lineReader adapts readline so Ctrl+C ends the session like Ctrl+D.
type lineReader struct {
	rl *readline.Instance
}

func (l lineReader) Readline() (string, error) {
	line, err := l.rl.Readline()
	if errors.Is(err, readline.ErrInterrupt) {
		return "", io.EOF
	}
	return line, err
}

func runPlain(ctx context.Context, w *widget.Widget, renderer *tui.Renderer) error {
	rl, err := readline.New("> ")
	if err != nil {
		return fmt.Errorf("failed to initialize readline: %w", err)
	}
	defer rl.Close()

	return tui.RunPlain(ctx, w, lineReader{rl: rl}, os.Stdout, renderer)
}
