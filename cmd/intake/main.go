package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/goliatone/go-formintake/internal/config"
	"github.com/goliatone/go-formintake/internal/logging"
	"github.com/goliatone/go-formintake/internal/server"
	"github.com/goliatone/go-formintake/internal/telemetry"
	"github.com/goliatone/go-formintake/pkg/forms"
	"github.com/goliatone/go-formintake/pkg/intake"
	"github.com/goliatone/go-formintake/pkg/model"
	"github.com/goliatone/go-formintake/pkg/openapi"
	"github.com/goliatone/go-formintake/pkg/renderers/tui"
	"github.com/goliatone/go-formintake/pkg/webhook"
)

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

func usage(w io.Writer) {
	fmt.Fprintf(w, "Usage: %s [-config file] <command> [flags]\n\n", filepath.Base(os.Args[0]))
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  prompt -form <id>   fill in a form in the terminal and submit it")
	fmt.Fprintln(w, "  serve [-addr addr]  serve the JSON intake API")
	fmt.Fprintln(w, "  schema [-form <id>] print the OpenAPI payload contract")
	fmt.Fprintln(w, "  forms               list available forms")
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	global := flag.NewFlagSet("intake", flag.ContinueOnError)
	global.SetOutput(stderr)
	configPath := global.String("config", "", "config file (defaults to "+config.DefaultFile+" when present)")
	global.Usage = func() { usage(stderr) }
	if err := global.Parse(args); err != nil {
		return 2
	}
	rest := global.Args()
	if len(rest) == 0 {
		usage(stderr)
		return 2
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	logger, closer, err := logging.New(cfg.Log, stderr)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	defer closer.Close()

	shutdown := telemetry.ShutdownFunc(telemetry.Noop)
	if cfg.Telemetry.Enabled {
		shutdown, err = telemetry.InitTracer(cfg.Telemetry.Service, stderr, logger)
		if err != nil {
			logger.Error("failed to initialize tracer", slog.String("error", err.Error()))
			return 1
		}
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			logger.Error("failed to shutdown tracer", slog.String("error", err.Error()))
		}
	}()

	a, err := newApp(cfg, logger)
	if err != nil {
		logger.Error("failed to load forms", slog.String("error", err.Error()))
		return 1
	}

	switch rest[0] {
	case "prompt":
		return a.prompt(ctx, rest[1:], stdout, stderr)
	case "serve":
		return a.serve(ctx, rest[1:], stderr)
	case "schema":
		return a.schema(rest[1:], stdout, stderr)
	case "forms":
		return a.list(stdout)
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n", rest[0])
		usage(stderr)
		return 2
	}
}

type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	registry *forms.Registry
	pipeline *intake.Pipeline
}

func newApp(cfg *config.Config, logger *slog.Logger) (*app, error) {
	registry := forms.Builtin()
	if cfg.Forms.Dir != "" {
		loaded, err := forms.LoadFS(os.DirFS(cfg.Forms.Dir), registry)
		if err != nil {
			return nil, err
		}
		logger.Info("loaded form definitions", slog.String("dir", cfg.Forms.Dir), slog.Any("forms", loaded))
	}

	client := webhook.New(
		webhook.WithTimeout(cfg.Webhook.Timeout),
		webhook.WithRetries(cfg.Webhook.Retries),
		webhook.WithBackoff(cfg.Webhook.Backoff),
		webhook.WithHeaders(cfg.ExpandHeaders()),
		webhook.WithLogger(logger),
	)
	pipeline := intake.NewPipeline(client,
		intake.WithEndpoints(cfg.Webhooks),
		intake.WithSanitizer(cfg.Intake.Sanitize),
		intake.WithLogger(logger),
	)

	for _, id := range registry.List() {
		form, err := registry.Get(id)
		if err != nil {
			return nil, err
		}
		if pipeline.Endpoint(intake.NewState(form)) == "" {
			logger.Warn("no webhook configured for form; submissions will fail",
				slog.String("form_id", id),
				slog.String("env", config.WebhookEnv(id)),
			)
		}
	}

	return &app{cfg: cfg, logger: logger, registry: registry, pipeline: pipeline}, nil
}

func (a *app) prompt(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("prompt", flag.ContinueOnError)
	fs.SetOutput(stderr)
	formID := fs.String("form", forms.ICPFormID, "form to fill in")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	form, err := a.registry.Get(*formID)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	renderer, err := tui.New(tui.WithOutput(stdout), tui.WithTheme(tui.Theme{ErrorPrefix: "! "}))
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	_, result, err := renderer.Run(ctx, a.pipeline, intake.NewState(form))
	switch {
	case errors.Is(err, tui.ErrAborted), errors.Is(err, context.Canceled):
		return 130
	case err != nil:
		a.logger.Error("prompt session failed", slog.String("error", err.Error()))
		return 1
	case !result.Success:
		return 1
	}
	return 0
}

func (a *app) serve(ctx context.Context, args []string, stderr io.Writer) int {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(stderr)
	addr := fs.String("addr", a.cfg.Server.Addr, "listen address")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	srv := server.New(*addr, a.logger, a.registry, a.pipeline)
	if err := srv.Start(ctx); err != nil {
		a.logger.Error("server stopped", slog.String("error", err.Error()))
		return 1
	}
	return 0
}

func (a *app) schema(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("schema", flag.ContinueOnError)
	fs.SetOutput(stderr)
	formID := fs.String("form", "", "form to export (all when empty)")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	var selected []model.FormModel
	ids := a.registry.List()
	if *formID != "" {
		ids = []string{*formID}
	}
	for _, id := range ids {
		form, err := a.registry.Get(id)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		selected = append(selected, form)
	}

	raw, err := json.MarshalIndent(openapi.Document(selected...), "", "  ")
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	fmt.Fprintln(stdout, string(raw))
	return 0
}

func (a *app) list(stdout io.Writer) int {
	for _, id := range a.registry.List() {
		form, err := a.registry.Get(id)
		if err != nil {
			continue
		}
		fmt.Fprintf(stdout, "%s\t%s\n", form.ID, form.Title)
	}
	return 0
}
