package main

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/colorfulnotion/x86jit/asmtext"
	"github.com/colorfulnotion/x86jit/encerrors"
	log "github.com/colorfulnotion/x86jit/log"
	"github.com/colorfulnotion/x86jit/x86"
	"github.com/spf13/cobra"
)

const replHelp = `enter one instruction, label or directive per line
  .code    finalize and list everything entered so far
  .labels  list labels and whether they are bound
  .reset   start over with an empty buffer
  .quit    leave`

// repl keeps the accepted lines so that an encoder error, which poisons the
// assembler, can be dropped by replaying them into a fresh one.
type repl struct {
	sess    *session
	out     io.Writer
	prog    *asmtext.Program
	history []string
}

func newRepl(sess *session, out io.Writer) *repl {
	r := &repl{sess: sess, out: out}
	r.reset()
	return r
}

func (r *repl) reset() {
	r.prog = asmtext.New(x86.NewAssembler(r.sess.features, r.sess.opts))
	r.history = r.history[:0]
}

func (r *repl) rebuild() error {
	lines := append([]string(nil), r.history...)
	r.reset()
	for _, line := range lines {
		if err := r.prog.Line(line); err != nil {
			return err
		}
		r.history = append(r.history, line)
	}
	return nil
}

// eval handles one input line and reports whether the session should end.
func (r *repl) eval(line string) bool {
	line = strings.TrimSpace(line)
	switch line {
	case "":
		return false
	case ".quit", ".exit":
		return true
	case ".help":
		fmt.Fprintln(r.out, replHelp)
		return false
	case ".reset":
		r.reset()
		fmt.Fprintln(r.out, "buffer cleared")
		return false
	case ".labels":
		r.printLabels()
		return false
	case ".code":
		r.printCode()
		return false
	}

	a := r.prog.Assembler()
	start := a.Position()
	if err := r.prog.Line(line); err != nil {
		fmt.Fprintf(r.out, "error: %v\n", err)
		if !asmtext.IsParseError(err) {
			log.Debug(log.CLIMonitoring, "replaying history after error", "lines", len(r.history))
			if err := r.rebuild(); err != nil {
				fmt.Fprintf(r.out, "error: replay failed: %v\n", err)
			}
		}
		return false
	}
	r.history = append(r.history, line)
	emitted := a.Buffer().Bytes()[start:]
	fmt.Fprintf(r.out, "%04x: %s\n", start, hex.EncodeToString(emitted))
	return false
}

func (r *repl) printLabels() {
	for _, name := range r.prog.Labels() {
		state := "unbound"
		if off, err := r.prog.Label(name).Position(); err == nil {
			state = fmt.Sprintf("0x%04x", off)
		}
		fmt.Fprintf(r.out, "%-16s %s\n", name, state)
	}
}

// printCode finalizes a replay so the live assembler stays open for input.
func (r *repl) printCode() {
	snap := asmtext.New(x86.NewAssembler(r.sess.features, r.sess.opts))
	for _, line := range r.history {
		if err := snap.Line(line); err != nil {
			fmt.Fprintf(r.out, "error: %v\n", err)
			return
		}
	}
	if undef := snap.Undefined(); len(undef) > 0 {
		fmt.Fprintf(r.out, "error: %v: %s\n", encerrors.ErrLUnresolvedLabel, strings.Join(undef, ", "))
		return
	}
	code, err := snap.Assembler().Finalize()
	if err != nil {
		fmt.Fprintf(r.out, "error: %v\n", err)
		return
	}
	printCode(r.out, code)
}

func newReplCmd(s *settings) *cobra.Command {
	var historyFile string
	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Encode instructions interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := s.session(cmd)
			if err != nil {
				return err
			}
			rl, err := readline.NewEx(&readline.Config{
				Prompt:          "jitasm> ",
				HistoryFile:     historyFile,
				InterruptPrompt: "^C",
				EOFPrompt:       ".quit",
			})
			if err != nil {
				return fmt.Errorf("readline: %w", err)
			}
			defer rl.Close()

			r := newRepl(sess, rl.Stdout())
			fmt.Fprintln(r.out, replHelp)
			for {
				line, err := rl.Readline()
				if errors.Is(err, readline.ErrInterrupt) {
					if line == "" {
						return nil
					}
					continue
				}
				if errors.Is(err, io.EOF) {
					return nil
				}
				if err != nil {
					return err
				}
				if r.eval(line) {
					return nil
				}
			}
		},
	}
	cmd.Flags().StringVar(&historyFile, "history", filepath.Join(os.TempDir(), "jitasm_history.txt"), "Readline history file")
	return cmd
}
