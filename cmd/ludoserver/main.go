// Command ludoserver runs the Ludo REST API server.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/yourusername/ludoengine/pkg/api"
)

const version = "0.1.0"

func main() {
	host := flag.String("host", "localhost", "Host to bind to (use 0.0.0.0 for all interfaces)")
	port := flag.Int("port", 8080, "Port to listen on")
	readTimeout := flag.Duration("read-timeout", 30*time.Second, "HTTP read timeout")
	idleTimeout := flag.Duration("idle-timeout", 60*time.Second, "HTTP idle timeout")
	gameWorkers := flag.Int("game-workers", 100, "Max concurrent game operations")
	simWorkers := flag.Int("sim-workers", 4, "Max concurrent simulations")
	debug := flag.Bool("debug", false, "Enable debug logging (per-request logs)")
	showVersion := flag.Bool("version", false, "Show version and exit")

	flag.Parse()

	if *showVersion {
		fmt.Printf("ludoserver v%s\n", version)
		os.Exit(0)
	}

	level := zerolog.InfoLevel
	if *debug {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(level).
		With().Timestamp().Logger()

	config := api.ServerConfig{
		Host:           *host,
		Port:           *port,
		ReadTimeout:    *readTimeout,
		IdleTimeout:    *idleTimeout,
		MaxGameWorkers: *gameWorkers,
		MaxSimWorkers:  *simWorkers,
	}

	server := api.NewServer(config, version, logger)

	if err := server.ListenAndServeWithGracefulShutdown(); err != nil {
		logger.Fatal().Err(err).Msg("server error")
	}
}
