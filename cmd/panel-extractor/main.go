package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

const logLevelEnv = "PANEL_EXTRACTOR_LOG_LEVEL"

func main() {
	args := os.Args[1:]
	if len(args) > 0 {
		switch args[0] {
		case "--version", "-v", "version":
			fmt.Printf("panel-extractor %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			printUsage()
			return
		}
	}

	log := newLogger()
	log.WithFields(logrus.Fields{
		"version": Version,
		"built":   BuildTime,
		"commit":  GitCommit,
	}).Debug("panel-extractor starting")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := "serve"
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		cmd, args = args[0], args[1:]
	}

	var err error
	switch cmd {
	case "serve":
		err = runServe(ctx, log, args)
	case "extract":
		err = runExtract(ctx, log, args)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", cmd)
		printUsage()
		os.Exit(2)
	}

	switch {
	case err == nil:
	case errors.Is(err, flag.ErrHelp):
	case errors.Is(err, context.Canceled):
		log.Warn("interrupted")
		os.Exit(130)
	default:
		log.WithError(err).Error(cmd + " failed")
		os.Exit(1)
	}
}

// newLogger logs text with full timestamps to stderr; stdout carries the MCP
// protocol.
func newLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	log.SetLevel(logrus.InfoLevel)

	if v := os.Getenv(logLevelEnv); v != "" {
		level, err := logrus.ParseLevel(v)
		if err != nil {
			log.WithField("value", v).Warnf("ignoring invalid %s", logLevelEnv)
		} else {
			log.SetLevel(level)
		}
	}
	return log
}

func printUsage() {
	fmt.Println("panel-extractor - cut comic pages into panels")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  panel-extractor [serve] [-config file] [-backend name]")
	fmt.Println("  panel-extractor extract [flags] inputs...")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  serve            MCP server over stdin/stdout (default)")
	fmt.Println("  extract          Cut image files, image directories or PDFs")
	fmt.Println("                   into panel files; see 'extract -h' for flags")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --version, -v    Print version information")
	fmt.Println("  --help, -h       Print this help message")
	fmt.Println()
	fmt.Println("Environment variables:")
	fmt.Printf("  %s=debug    Set the log level (debug, info, warn, error)\n", logLevelEnv)
	fmt.Println()
	fmt.Println("In serve mode the process speaks MCP over stdin/stdout.")
	fmt.Println("Configure it in your MCP client (e.g., Claude Desktop).")
}
