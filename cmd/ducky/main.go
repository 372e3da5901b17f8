package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/pflag"

	"github.com/lixenwraith/ducky/audio"
	"github.com/lixenwraith/ducky/core"
	"github.com/lixenwraith/ducky/engine"
	"github.com/lixenwraith/ducky/manifest"
	"github.com/lixenwraith/ducky/status"
	"github.com/lixenwraith/ducky/terminal"
)

type options struct {
	configPath    string
	debug         bool
	watch         bool
	reducedMotion bool
	mute          bool
	seed          uint64
}

func main() {
	// Panic recovery: restore the screen before the trace is printed
	defer func() {
		if r := recover(); r != nil {
			core.HandleCrash(r)
		}
	}()

	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "ducky: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags(args []string) (options, bool, error) {
	opts := envDefaults()
	flagSet := pflag.NewFlagSet("ducky", pflag.ContinueOnError)
	flagSet.StringVarP(&opts.configPath, "config", "c", opts.configPath, "manifest path (default: "+manifest.DefaultPath()+", then embedded)")
	flagSet.BoolVar(&opts.debug, "debug", false, "write JSON debug logs to logs/ducky.log and show metrics")
	flagSet.BoolVarP(&opts.watch, "watch", "w", false, "reload the manifest when its file changes")
	flagSet.BoolVar(&opts.reducedMotion, "reduced-motion", opts.reducedMotion, "never walk")
	flagSet.BoolVar(&opts.mute, "mute", opts.mute, "disable sound cues")
	flagSet.Uint64Var(&opts.seed, "seed", opts.seed, "random seed for timeouts and motion (0 picks one)")
	flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			printHelp(flagSet)
			return opts, true, nil
		}
		return opts, false, err
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(flagSet)
		return opts, true, nil
	}
	if rest := flagSet.Args(); len(rest) > 0 {
		return opts, false, fmt.Errorf("unexpected argument: %s", rest[0])
	}
	return opts, false, nil
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `ducky: a little duck that walks along the bottom of your terminal.

Click it (or press c) and it leads you to the chatbot prompt.
Defaults may also come from DUCKY_CONFIG, DUCKY_REDUCED_MOTION, DUCKY_MUTE
and DUCKY_SEED, read from the environment or a .env file.

Usage:
  ducky [flags]

Flags:
%s`, flagSet.FlagUsages())
}

func run(args []string) error {
	envLoaded := loadEnvFile()
	opts, done, err := parseFlags(args)
	if err != nil || done {
		return err
	}

	logger, logFile := setupLogging(opts.debug)
	if logFile != nil {
		defer logFile.Close()
	}
	logger.Debug("environment", "env_file", envLoaded)

	m, source, err := manifest.LoadAuto(opts.configPath)
	if err != nil {
		return err
	}
	logger.Info("manifest loaded", "source", source)

	seed := opts.seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	reg := status.NewRegistry()

	audioCfg := m.AudioConfig()
	if opts.mute {
		audioCfg.Enabled = false
	}
	cues := audio.NewCueBank(audioCfg, logger, reg)
	if err := cues.Initialize(); err != nil {
		logger.Warn("audio unavailable, continuing without sound", "error", err)
	}
	defer cues.Close()

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("initialize screen: %w", err)
	}
	var restoreOnce sync.Once
	restore := func() { restoreOnce.Do(screen.Fini) }
	core.SetCrashCleanup(restore)
	defer restore()
	screen.EnableMouse()
	screen.HideCursor()

	loop := engine.NewLoop(engine.NewRealClock(), 0)
	host, err := terminal.New(terminal.Options{
		Screen:        screen,
		Loop:          loop,
		Manifest:      m,
		Cues:          cues,
		ReducedMotion: opts.reducedMotion,
		Debug:         opts.debug,
		Rand:          rng,
		Logger:        logger,
		Status:        reg,
	})
	if err != nil {
		return err
	}

	if opts.watch {
		if source == manifest.SourceEmbedded {
			logger.Warn("watch ignored for the embedded manifest")
		} else {
			w, err := manifest.NewWatcher(source)
			if err != nil {
				return fmt.Errorf("watch %s: %w", source, err)
			}
			defer w.Close()
			host.Watch(w)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = host.Run(ctx)
	host.Close()
	restore()
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	if !host.HandedOff() {
		return nil
	}
	message, ok, err := runPrompt(os.Stdin, os.Stdout)
	if err != nil {
		return fmt.Errorf("prompt: %w", err)
	}
	if ok {
		fmt.Printf("you asked: %s\n", message)
		logger.Info("hand-off message", "length", len(message))
	}
	return nil
}
