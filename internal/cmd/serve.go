package cmd

import (
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/elektrokombinacija/warehouse-sim/internal/config"
	"github.com/elektrokombinacija/warehouse-sim/internal/server"
	"github.com/elektrokombinacija/warehouse-sim/internal/sim"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the simulation over websockets",
	Long: `Serve runs the simulation on a wall-clock ticker and exposes it on
HTTP: snapshot broadcasts and a JSON command channel on /ws, liveness
on /healthz, and the current state on /status.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "listen address")
	_ = viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	tracker := sim.NewPerformanceTracker()
	s, err := sim.New(cfg.Params(), tracker)
	if err != nil {
		return fmt.Errorf("create simulation: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := server.New(s, tracker, time.Duration(cfg.Run.TickMs)*time.Millisecond)
	go srv.Run(ctx)

	mux := http.NewServeMux()
	srv.Routes(mux)

	httpSrv := &http.Server{Addr: cfg.Server.Addr, Handler: mux}
	go func() {
		<-ctx.Done()
		httpSrv.Close()
	}()

	log.Printf("serving on %s", cfg.Server.Addr)
	if err := httpSrv.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}
