package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/mudproxy/internal/config"
	"github.com/cory-johannsen/mudproxy/internal/game/flags"
	"github.com/cory-johannsen/mudproxy/internal/game/parser"
	"github.com/cory-johannsen/mudproxy/internal/game/session"
	"github.com/cory-johannsen/mudproxy/internal/observability"
	"github.com/cory-johannsen/mudproxy/internal/proxy"
)

const maxLogLine = 1 << 20

type replayOptions struct {
	format    string
	flagsDir  string
	policy    string
	echoGains bool
	logLevel  string
}

func replayCmd() *cobra.Command {
	opts := replayOptions{}
	cmd := &cobra.Command{
		Use:   "replay [log-file]",
		Short: "Feed a captured game log through the parser and print the resulting state",
		Long: "Replay reads a captured game session line by line (stdin when the file is\n" +
			"omitted or \"-\"), parses it exactly as the proxy would and prints the final\n" +
			"session snapshot. Parse failures are logged to stderr.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("opening log: %w", err)
				}
				defer f.Close()
				in = f
			}
			return replay(in, cmd.OutOrStdout(), cmd.ErrOrStderr(), opts)
		},
	}
	cmd.Flags().StringVar(&opts.format, "format", "yaml", "output format: yaml or json")
	cmd.Flags().StringVar(&opts.flagsDir, "flags-dir", "content/flags", "flag definitions to register; empty disables")
	cmd.Flags().StringVar(&opts.policy, "capture-policy", "keep_armed", "capture policy: keep_armed or reset_on_error")
	cmd.Flags().BoolVar(&opts.echoGains, "echo-gains", true, "record skill gains")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "warn", "log level for parse diagnostics")
	return cmd
}

// replay parses every line of in and writes the final snapshot to out.
// Notices go to errOut.
func replay(in io.Reader, out, errOut io.Writer, opts replayOptions) error {
	if opts.format != "yaml" && opts.format != "json" {
		return fmt.Errorf("unknown format %q", opts.format)
	}
	policy, err := parser.ParseCapturePolicy(opts.policy)
	if err != nil {
		return err
	}
	logger, err := observability.NewLogger(config.LoggingConfig{Level: opts.logLevel, Format: "console"})
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	reg := flags.NewRegistry()
	if opts.flagsDir != "" {
		if _, err := flags.LoadDirectory(opts.flagsDir, reg); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return err
			}
			logger.Warn("flag directory missing", zap.String("dir", opts.flagsDir))
		}
	}

	sess := session.New(session.Options{Flags: reg, EchoGains: opts.echoGains})
	defer sess.Close()
	p := parser.New(sess, parser.Options{
		Logger: logger,
		Policy: policy,
		Notifier: parser.NotifierFunc(func(msg string) error {
			_, err := fmt.Fprintln(errOut, msg)
			return err
		}),
	})

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 64*1024), maxLogLine)
	lines := 0
	for scanner.Scan() {
		line := string(proxy.FilterIAC(scanner.Bytes()))
		p.Parse(strings.TrimRight(line, "\r"))
		lines++
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading log after %d lines: %w", lines, err)
	}
	logger.Debug("replay finished", zap.Int("lines", lines))

	return writeState(out, sess.Snapshot(), opts.format)
}

func writeState(w io.Writer, st session.State, format string) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(st)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(st); err != nil {
		return err
	}
	return enc.Close()
}
