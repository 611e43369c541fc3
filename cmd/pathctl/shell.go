package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"
	"github.com/xrash/smetrics"

	gp "nickandperla.net/genetic_paths"
)

type shellCommandFunc func(s *shell, args []string) error

type shellCmd struct {
	usage string
	help  string
	run   shellCommandFunc
}

type shell struct {
	ctl      *gp.Controller
	out      io.Writer
	commands map[string]shellCmd
	quit     bool
}

func shellCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Drive a run interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctl, store, err := newController(true)
			if err != nil {
				return err
			}
			if store != nil {
				defer store.Shutdown()
			}
			return newShell(ctl, cmd.OutOrStdout()).loop()
		},
	}
}

func newShell(ctl *gp.Controller, out io.Writer) *shell {
	s := &shell{ctl: ctl, out: out}
	s.commands = map[string]shellCmd{
		"play":        {"play", "start or resume evolving", stateCommand(gp.Play)},
		"pause":       {"pause", "pause after the current generation", stateCommand(gp.Pause)},
		"stop":        {"stop", "stop, save the history and reset", stopCommand},
		"tick":        {"tick [seconds]", "advance the run clock", tickCommand},
		"step":        {"step [n]", "run n generations now (play only)", stepCommand},
		"info":        {"info", "show the latest generation", infoCommand},
		"state":       {"state", "show the run state", stateInfoCommand},
		"serialize":   {"serialize [file]", "serialize the history, optionally to a file", serializeCommand},
		"restore":     {"restore <file>", "restore a history from a file", restoreCommand},
		"deserialize": {"deserialize", "restore the latest persisted run", deserializeCommand},
		"scrub":       {"scrub <generation>", "show a recorded generation", scrubCommand},
		"help":        {"help", "list commands", helpCommand},
		"quit":        {"quit", "leave the shell", quitCommand},
	}
	return s
}

func (s *shell) loop() error {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)
	line.SetCompleter(func(input string) []string {
		var matches []string
		for name := range s.commands {
			if strings.HasPrefix(name, strings.ToLower(input)) {
				matches = append(matches, name)
			}
		}
		sort.Strings(matches)
		return matches
	})

	for !s.quit {
		input, err := line.Prompt(fmt.Sprintf("pathctl [%s #%d]> ", s.ctl.State(), s.ctl.GenerationCount()))
		if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)
		if err := s.exec(input); err != nil {
			fmt.Fprintf(s.out, "error: %v\n", err)
		}
	}
	return nil
}

func (s *shell) exec(input string) error {
	fields := strings.Fields(input)
	name := strings.ToLower(fields[0])
	cmd, ok := s.commands[name]
	if !ok {
		if suggestion := s.suggest(name); suggestion != "" {
			return fmt.Errorf("unknown command %q, did you mean %q?", name, suggestion)
		}
		return fmt.Errorf("unknown command %q, try help", name)
	}
	return cmd.run(s, fields[1:])
}

// suggest returns the closest command name within a small edit distance.
func (s *shell) suggest(name string) string {
	best, bestDistance := "", 3
	for candidate := range s.commands {
		d := smetrics.WagnerFischer(name, candidate, 1, 1, 2)
		if d < bestDistance || (d == bestDistance && candidate < best) {
			best, bestDistance = candidate, d
		}
	}
	return best
}

func stateCommand(next gp.RunState) shellCommandFunc {
	return func(s *shell, args []string) error {
		return s.ctl.RequestStateChange(next)
	}
}

func stopCommand(s *shell, args []string) error {
	if err := s.ctl.RequestStateChange(gp.Stop); err != nil {
		return err
	}
	if err := s.ctl.Tick(0); err != nil {
		return err
	}
	if run := s.ctl.LastRun(); run != nil {
		fmt.Fprintf(s.out, "saved run %s\n", run.UUID)
	} else {
		fmt.Fprintf(s.out, "history kept in memory (%s), no persistence configured\n",
			humanize.Bytes(uint64(len(s.ctl.LastBlob()))))
	}
	return nil
}

func tickCommand(s *shell, args []string) error {
	dt := s.ctl.Config.TimeBetweenGenerations
	if len(args) > 0 {
		v, err := strconv.ParseFloat(args[0], 32)
		if err != nil {
			return fmt.Errorf("bad tick length %q: %w", args[0], err)
		}
		dt = float32(v)
	}
	return s.ctl.Tick(dt)
}

func stepCommand(s *shell, args []string) error {
	n := 1
	if len(args) > 0 {
		v, err := strconv.Atoi(args[0])
		if err != nil || v < 1 {
			return fmt.Errorf("bad generation count %q", args[0])
		}
		n = v
	}
	if s.ctl.State() != gp.Play {
		return fmt.Errorf("step needs the run to be playing, it is %s", s.ctl.State())
	}
	dt := s.ctl.Config.TimeBetweenGenerations + 1
	target := s.ctl.GenerationCount() + uint32(n)
	for s.ctl.GenerationCount() < target {
		if err := s.ctl.Tick(dt); err != nil {
			return err
		}
	}
	return nil
}

func infoCommand(s *shell, args []string) error {
	fmt.Fprint(s.out, s.ctl.GenerationInfoText())
	return nil
}

func stateInfoCommand(s *shell, args []string) error {
	fmt.Fprintf(s.out, "%s, %s recorded generations\n", s.ctl.State(), humanize.Comma(int64(s.ctl.History.Len())))
	return nil
}

func serializeCommand(s *shell, args []string) error {
	blob, err := s.ctl.RequestSerialize()
	if err != nil {
		return err
	}
	if len(args) > 0 {
		if err := os.WriteFile(args[0], blob, 0o644); err != nil {
			return err
		}
	}
	fmt.Fprintf(s.out, "serialized %s\n", humanize.Bytes(uint64(len(blob))))
	return nil
}

func restoreCommand(s *shell, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: restore <file>")
	}
	blob, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	return s.ctl.Restore(blob)
}

func deserializeCommand(s *shell, args []string) error {
	return s.ctl.RequestDeserialize()
}

func scrubCommand(s *shell, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: scrub <generation>")
	}
	i, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("bad generation %q: %w", args[0], err)
	}
	return s.ctl.SetScrub(i)
}

func helpCommand(s *shell, args []string) error {
	names := make([]string, 0, len(s.commands))
	for name := range s.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		c := s.commands[name]
		fmt.Fprintf(s.out, "  %-20s %s\n", c.usage, c.help)
	}
	return nil
}

func quitCommand(s *shell, args []string) error {
	s.quit = true
	return nil
}
