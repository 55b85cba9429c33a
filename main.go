package main

import (
	"context"
	"flag"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"gosh/internal/lineinput"
	"gosh/internal/logger"
)

func main() {
	var (
		configPath = flag.String("config", "", "config file (default goshrc.toml if present)")
		expr       = flag.String("e", "", "evaluate expression and exit")
		storePath  = flag.String("s", "", "non-volatile store image file")
		trace      = flag.Bool("t", false, "enable trace mode")
		mnemonics  = flag.Bool("n", false, "trace with long-form mnemonics")
		raw        = flag.Bool("raw", false, "put the terminal in raw mode")
		memLimit   = flag.Int("mem-limit", 0, "arena size in bytes")
		timeout    = flag.Duration("timeout", 0, "time limit for the session")
		verbose    = flag.Bool("v", false, "enable debug logging")
	)
	flag.Parse()

	stderrTTY := term.IsTerminal(int(os.Stderr.Fd()))
	logger.Init(*verbose, !stderrTTY)

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatal("config", "err", err)
	}

	opts := cfg.options()
	opts = append(opts, WithOutput(os.Stdout), WithLogf(logger.Logf))

	if *storePath != "" {
		st, err := LoadStoreFile(*storePath, DefaultStoreSize)
		if err != nil {
			log.Fatal("store", "path", *storePath, "err", err)
		}
		opts = append(opts, WithStore(st))
	}
	if *memLimit > 0 {
		opts = append(opts, WithHeapLimit(*memLimit))
	}
	if *trace {
		opts = append(opts, WithTrace(true))
	}
	if *mnemonics {
		opts = append(opts, WithMnemonics(true))
	}

	for _, path := range flag.Args() {
		src, err := os.ReadFile(path)
		if err != nil {
			log.Fatal("script", "path", path, "err", err)
		}
		opts = append(opts, WithProgram(string(src)))
	}

	stdinTTY := term.IsTerminal(int(os.Stdin.Fd()))
	if *expr != "" {
		opts = append(opts, WithProgram(*expr), WithInput(strings.NewReader("")))
	} else {
		opts = append(opts, WithInput(lineinput.NamedReader("stdin", os.Stdin)))
		if stdinTTY {
			opts = append(opts, WithInteractive(true))
			if cfg.Prompt == "" {
				opts = append(opts, WithPrompt("> "))
			}
		}
	}

	var rawState *term.State
	if *raw && stdinTTY {
		rawState, err = term.MakeRaw(int(os.Stdin.Fd()))
		if err != nil {
			log.Fatal("raw mode", "err", err)
		}
	}

	ctx := context.Background()
	cancel := func() {}
	if *timeout != 0 {
		ctx, cancel = context.WithTimeout(ctx, *timeout)
	}

	sh := New(opts...)
	runErr := sh.Run(ctx)
	closeErr := sh.Close()
	cancel()
	if rawState != nil {
		term.Restore(int(os.Stdin.Fd()), rawState)
	}
	if runErr != nil {
		log.Fatal("run", "err", runErr)
	}
	if closeErr != nil {
		log.Fatal("close", "err", closeErr)
	}
}
