package main

import (
	"context"
	"os"
	"runtime/debug"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/snipdoc/snipdoc/cmd/snipdoc/annotate"
	"gitlab.com/tozd/go/errors"
)

func main() {
	if err := run(); err != nil {
		println(err.Error())
		os.Exit(1)
	}
}

func run() error {
	var debugLogs bool

	rootCmd := &cobra.Command{
		Use:   "snipdoc",
		Short: "annotate source code snippets with syntax, symbol, and diagnostic metadata",
	}
	rootCmd.PersistentFlags().BoolVar(&debugLogs, "debug", false, "enable debug logging")

	info, ok := debug.ReadBuildInfo()
	if !ok {
		rootCmd.Version = "unknown"
	} else {
		rootCmd.Version = info.Main.Version
	}

	rootCmd.AddCommand(annotate.NewAnnotateCommand())

	level := zerolog.InfoLevel
	for _, arg := range os.Args {
		if arg == "--debug" {
			level = zerolog.DebugLevel
		}
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
	ctx := logger.WithContext(context.Background())

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		return errors.Errorf("failed to execute command: %w", err)
	}

	return nil
}
