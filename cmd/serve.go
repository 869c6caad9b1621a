package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/chronos-timereg/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the week view API for the local web console",
	Long: `Serve the logged-in user's weeks over HTTP on a local address. The web
console reads weeks and adds, edits and deletes entries and leave through it.
Stop with Ctrl-C.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default serve.addr from the config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, err := openSession(ctx)
	if err != nil {
		fail(err)
	}
	addr := serveAddr
	if addr == "" {
		addr = s.cfg.Serve.Addr
	}

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	h := server.NewHandler(s.sheet, s.userID, s.today)
	router := server.NewRouter(h, server.Options{
		AllowedOrigins: s.cfg.Serve.AllowedOrigins,
		Logger:         server.NewLogger(os.Stderr, level, version),
	})

	fmt.Fprintf(os.Stderr, "Serving week view for user %d on http://%s\n", s.userID, addr)
	if err := server.ListenAndServe(ctx, addr, router); err != nil {
		fail(err)
	}
	return nil
}
