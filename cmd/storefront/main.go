package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"mei-storefront/internal/config"
	"mei-storefront/internal/logger"

	"go.uber.org/zap"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	global := flag.NewFlagSet("storefront", flag.ContinueOnError)
	global.SetOutput(stderr)
	yes := global.Bool("yes", false, "approve every confirmation prompt")
	stats := global.Bool("stats", false, "print request statistics after the command")
	global.Usage = func() { usage(global, stderr) }

	if err := global.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	if global.NArg() == 0 {
		usage(global, stderr)
		return exitUsage
	}

	name, rest := global.Arg(0), global.Args()[1:]
	cmd, ok := commands[name]
	if !ok {
		fmt.Fprintf(stderr, "unknown command %q\n\n", name)
		usage(global, stderr)
		return exitUsage
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(stderr, "config: %v\n", err)
		return exitError
	}
	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	a, closeApp, err := setup(ctx, cfg, stdin, stdout, *yes)
	if err != nil {
		logger.L().Error("failed to start", zap.Error(err))
		fmt.Fprintf(stderr, "error: %s\n", describe(err))
		return exitError
	}
	defer closeApp()

	err = cmd.run(ctx, a, rest)
	if *stats {
		printStats(stderr, a.client.Stats())
	}
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, flag.ErrHelp):
		return exitOK
	case errors.Is(err, errUsage):
		return exitUsage
	default:
		fmt.Fprintf(stderr, "error: %s\n", describe(err))
		return exitError
	}
}

func usage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "usage: storefront [-yes] [-stats] <command> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "commands:")

	names := make([]string, 0, len(commands))
	for n := range commands {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		fmt.Fprintf(w, "  %-18s %s\n", n, commands[n].help)
	}
	fmt.Fprintln(w)
	fs.PrintDefaults()
}
