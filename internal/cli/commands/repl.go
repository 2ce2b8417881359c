package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/leapstack-labs/bqlint/internal/cli/output"
	"github.com/leapstack-labs/bqlint/pkg/lint"
	"github.com/spf13/cobra"
)

const (
	replPrompt     = "bqlint> "
	replContPrompt = "    ...> "
)

// NewREPLCommand creates the repl command.
func NewREPLCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Lint SQL interactively",
		Long: `Start an interactive session. Each statement terminated by ';' is
linted as soon as it is complete and its findings are printed as
line:col: message.`,
		Args: cobra.NoArgs,
		RunE: runREPL,
	}
}

func runREPL(cmd *cobra.Command, _ []string) error {
	cmdCtx := NewCommandContext(cmd, "")

	d, err := cmdCtx.Dialect()
	if err != nil {
		return err
	}
	lintCfg, err := buildLintConfig(cmdCtx.Cfg, &LintOptions{})
	if err != nil {
		return err
	}
	session := &replSession{
		linter: newLinter(lintCfg, d, cmdCtx.Logger, 1),
		r:      cmdCtx.Renderer,
	}

	historyFile := ""
	if dir := filepath.Dir(cmdCtx.Cfg.StatePath); cmdCtx.Cfg.StatePath != ":memory:" {
		if err := os.MkdirAll(dir, 0o750); err == nil {
			historyFile = filepath.Join(dir, "repl_history")
		}
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          replPrompt,
		HistoryFile:     historyFile,
		AutoComplete:    newREPLCompleter(),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	r := cmdCtx.Renderer
	r.Printf("bqlint REPL (dialect: %s)\n", d.Name)
	r.Println("Type .help for commands, .quit to exit")
	r.Println()

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			session.reset()
			rl.SetPrompt(replPrompt)
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}

		if quit := session.handleLine(line); quit {
			break
		}
		if session.pending() {
			rl.SetPrompt(replContPrompt)
		} else {
			rl.SetPrompt(replPrompt)
		}
	}
	return nil
}

// replSession accumulates input until a statement is complete.
type replSession struct {
	linter *linter
	r      *output.Renderer
	buf    strings.Builder
}

func (s *replSession) reset() { s.buf.Reset() }

func (s *replSession) pending() bool { return s.buf.Len() > 0 }

// handleLine consumes one line of input and reports whether to quit.
func (s *replSession) handleLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		if s.pending() {
			s.buf.WriteString("\n")
		}
		return false
	}

	if !s.pending() && strings.HasPrefix(trimmed, ".") {
		return s.handleDotCommand(trimmed)
	}

	s.buf.WriteString(line)
	s.buf.WriteString("\n")
	if !strings.HasSuffix(trimmed, ";") {
		return false
	}

	src := s.buf.String()
	s.buf.Reset()
	s.lint(src)
	return false
}

func (s *replSession) lint(src string) {
	res := s.linter.lintSource(StdinPath, src)
	if len(res.Diagnostics) == 0 {
		s.r.Success("No issues")
		return
	}
	styles := s.r.Styles()
	for _, d := range res.Diagnostics {
		s.r.Printf("%d:%d: %s %s\n", d.Pos.Line, d.Pos.Column, d.Message, styles.Muted.Render("("+d.RuleID+")"))
	}
}

func (s *replSession) handleDotCommand(line string) bool {
	parts := strings.Fields(line)
	switch strings.ToLower(parts[0]) {
	case ".quit", ".exit":
		return true
	case ".help":
		s.r.Println(replHelp)
	case ".rules":
		for _, rule := range lint.AllRules() {
			s.r.Printf("  %s  %s\n", s.r.Styles().RuleID.Render(rule.ID), rule.Name)
		}
	case ".clear":
		s.r.Printf("\033[H\033[2J")
	default:
		_, _ = fmt.Fprintf(s.r.ErrWriter(), "Unknown command: %s (type .help for commands)\n", parts[0])
	}
	return false
}

const replHelp = `
Commands:
  .help           Show this help message
  .rules          List lint rules
  .clear          Clear the screen
  .quit / .exit   Exit the REPL

Tips:
  - Statements must end with a semicolon (;)
  - Ctrl+C discards the statement being typed
  - Use arrow keys to navigate history`

func newREPLCompleter() *readline.PrefixCompleter {
	return readline.NewPrefixCompleter(
		readline.PcItem(".help"),
		readline.PcItem(".rules"),
		readline.PcItem(".clear"),
		readline.PcItem(".quit"),
		readline.PcItem(".exit"),
		readline.PcItem("WITH"),
		readline.PcItem("SELECT"),
	)
}
