package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/huyng-sec/cyberhealth/internal/api"
	"github.com/huyng-sec/cyberhealth/internal/report"
	"github.com/huyng-sec/cyberhealth/internal/scanner"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run cyberhealth as a REST API service",
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		corsOrigins, _ := cmd.Flags().GetStringSlice("cors-origins")
		shutdownTimeout, _ := cmd.Flags().GetDuration("shutdown-timeout")

		if addr == "" {
			addr = cliConfig.Serve.Addr
		}
		if len(corsOrigins) == 0 {
			corsOrigins = cliConfig.Serve.CORSOrigins
		}

		zlog := logger.Desugar()
		sc := scanner.New(cliConfig.Scan.ScannerConfig(zlog))

		server := api.NewServer(api.Config{
			Scanner:     sc,
			RenderPDF:   report.Render,
			Logger:      zlog,
			CORSOrigins: corsOrigins,
		})

		httpServer := &http.Server{
			Addr:         addr,
			Handler:      server,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 2 * time.Minute,
			IdleTimeout:  120 * time.Second,
		}

		serverErrors := make(chan error, 1)

		go func() {
			fmt.Printf("%s API server listening on %s\n", colorInfo("→"), addr)
			fmt.Printf("%s Press Ctrl+C to gracefully shutdown\n", colorInfo("→"))
			serverErrors <- httpServer.ListenAndServe()
		}()

		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			if !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server error: %w", err)
			}
		case sig := <-shutdown:
			fmt.Printf("\n%s Received signal %v, initiating graceful shutdown...\n", colorInfo("→"), sig)

			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()

			if err := httpServer.Shutdown(ctx); err != nil {
				if closeErr := httpServer.Close(); closeErr != nil {
					return fmt.Errorf("failed to gracefully shutdown server: %w (close error: %v)", err, closeErr)
				}
				return fmt.Errorf("failed to gracefully shutdown server: %w", err)
			}

			fmt.Printf("%s Server shutdown complete\n", colorInfo("✓"))
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Address for the API server (default from config)")
	serveCmd.Flags().StringSlice("cors-origins", nil, "Allowed CORS origins; * when empty")
	serveCmd.Flags().Duration("shutdown-timeout", 10*time.Second, "Graceful shutdown timeout")
}
