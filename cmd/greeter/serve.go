package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/skufinskiy/itnelep-tools/pkg/api"
)

var serveFlags struct {
	addr     string
	mcpStdio bool
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP API and MCP tools",
	Long: `Serve the HTTP API (/v1/*, /metrics) with MCP tools at /mcp.

SIGHUP reloads the lexicon; with lexicon.watch set the lexicon directory is
also watched for changes. --mcp-stdio serves the MCP tools over stdin/stdout
instead of HTTP.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveFlags.addr, "addr", "", "listen address (default server.addr)")
	serveCmd.Flags().BoolVar(&serveFlags.mcpStdio, "mcp-stdio", false, "serve MCP over stdio")
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	c, err := a.cfg.Case()
	if err != nil {
		return err
	}
	f, err := a.cfg.NameFormat()
	if err != nil {
		return err
	}
	store, err := a.openArchive(false)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}

	promReg := prometheus.NewRegistry()
	promReg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	svc := &api.Service{
		Engine:   a.engine,
		Archive:  store,
		Lexicon:  a.lexicon,
		Defaults: api.Defaults{Organization: a.cfg.Defaults.Organization, Case: c, Format: f},
		Logger:   a.logger,
		Metrics:  api.NewMetrics(promReg),
	}

	mcpSrv := server.NewMCPServer("greeter", version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)
	api.RegisterMCPTools(mcpSrv, svc)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go a.reloadLoop(ctx)

	if serveFlags.mcpStdio {
		a.logger.Info("serving MCP over stdio")
		return server.ServeStdio(mcpSrv)
	}

	addr := serveFlags.addr
	if addr == "" {
		addr = a.cfg.Server.Addr
	}
	mux := http.NewServeMux()
	mux.Handle("/mcp", server.NewStreamableHTTPServer(mcpSrv))
	mux.Handle("/", api.NewRouter(svc, promReg))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	errc := make(chan error, 1)
	go func() {
		a.logger.Info("greeter listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	a.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// reloadLoop reloads the lexicon on SIGHUP and, when configured, on file
// changes, then rebuilds the engine's lexicon-backed components.
func (a *app) reloadLoop(ctx context.Context) {
	apply := func() {
		if err := a.engine.ApplyLexicon(a.lexicon, a.cfg.Inflection.Backend); err != nil {
			a.logger.Error("apply lexicon", zap.Error(err))
		}
	}

	if a.cfg.Lexicon.Watch && a.cfg.Lexicon.Dir != "" {
		go func() {
			if err := a.lexicon.Watch(ctx, apply); err != nil {
				a.logger.Warn("lexicon watch stopped", zap.Error(err))
			}
		}()
	}

	sighup := make(chan os.Signal, 1)
	signal.Notify(sighup, syscall.SIGHUP)
	defer signal.Stop(sighup)
	for {
		select {
		case <-ctx.Done():
			return
		case <-sighup:
			a.logger.Info("SIGHUP received, reloading lexicon")
			if err := a.lexicon.Reload(); err != nil {
				a.logger.Error("reload failed", zap.Error(err))
				continue
			}
			apply()
			a.logger.Info("lexicon reloaded", zap.Int("lists", len(a.lexicon.Lists())))
		}
	}
}
