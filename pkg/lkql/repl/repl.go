// Package repl is an interactive shell that parses LKQL as it is typed and
// prints the resulting tree.
package repl

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"go.uber.org/zap"

	lkqlerrors "github.com/sambeau/lkql/pkg/lkql/errors"
	"github.com/sambeau/lkql/pkg/lkql/format"
	"github.com/sambeau/lkql/pkg/lkql/lexer"
	"github.com/sambeau/lkql/pkg/lkql/lkql"
	"github.com/sambeau/lkql/pkg/lkql/parser"
)

const PROMPT = "lkql> "
const CONTINUATION_PROMPT = "....> "

// Mode selects what the REPL prints for a parsed input
type Mode int

const (
	ModeSexpr Mode = iota
	ModeYAML
	ModeTokens
)

var modeNames = map[Mode]string{
	ModeSexpr:  "sexpr",
	ModeYAML:   "yaml",
	ModeTokens: "tokens",
}

func (m Mode) String() string { return modeNames[m] }

// Options configures a REPL
type Options struct {
	Version     string
	HistoryFile string // defaults to .lkql_history in the temp dir
	MaxDepth    int
	Logger      *zap.Logger
}

// Session holds the state of one REPL, independent of the terminal.
type Session struct {
	out     io.Writer
	mode    Mode
	opts    []parser.Option
	pending strings.Builder
	logger  *zap.Logger
}

// NewSession returns a session writing its results to out.
func NewSession(out io.Writer, opts Options) *Session {
	s := &Session{out: out, logger: opts.Logger}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if opts.MaxDepth > 0 {
		s.opts = append(s.opts, parser.WithMaxDepth(opts.MaxDepth))
	}
	return s
}

// Mode returns the current output mode
func (s *Session) Mode() Mode { return s.mode }

// Pending reports whether the session is waiting for more lines.
func (s *Session) Pending() bool { return s.pending.Len() > 0 }

// Feed handles one line of input. It returns false once the user asked to
// quit. Input with unclosed brackets is buffered until it is complete.
func (s *Session) Feed(input string) bool {
	trimmed := strings.TrimSpace(input)

	if !s.Pending() {
		if trimmed == "" {
			return true
		}
		if strings.HasPrefix(trimmed, ":") {
			return s.command(trimmed)
		}
	}

	if s.Pending() {
		s.pending.WriteString("\n")
	}
	s.pending.WriteString(input)

	source := s.pending.String()
	if needsMoreInput(source) {
		return true
	}
	s.pending.Reset()
	s.eval(source)
	return true
}

func (s *Session) eval(source string) {
	if s.mode == ModeTokens {
		tokens, err := lexer.Tokenize(source)
		if err != nil {
			s.printError(err)
			return
		}
		io.WriteString(s.out, format.Tokens(tokens))
		return
	}

	unit, err := lkql.Parse(source, s.opts...)
	if err != nil {
		s.printError(err)
		return
	}

	for _, stmt := range unit.Program.Statements {
		switch s.mode {
		case ModeYAML:
			data, err := format.YAML(stmt)
			if err != nil {
				fmt.Fprintf(s.out, "error: %v\n", err)
				return
			}
			s.out.Write(data)
		default:
			fmt.Fprintln(s.out, format.Sexpr(stmt))
		}
	}
}

func (s *Session) printError(err error) {
	d := lkqlerrors.AsDiagnostic(err)
	if d == nil {
		fmt.Fprintf(s.out, "error: %v\n", err)
		return
	}
	s.logger.Debug("parse failed", zap.String("code", d.Code), zap.Int("line", d.Line), zap.Int("column", d.Column))
	fmt.Fprintln(s.out, d.PrettyString())
}

// command handles REPL meta-commands that start with ':'
func (s *Session) command(cmd string) bool {
	switch cmd {
	case ":help", ":h", ":?":
		fmt.Fprintln(s.out, "REPL Commands:")
		fmt.Fprintln(s.out, "  :sexpr          Print trees as S-expressions (default)")
		fmt.Fprintln(s.out, "  :yaml           Print trees as YAML")
		fmt.Fprintln(s.out, "  :tokens         Print the token stream instead of the tree")
		fmt.Fprintln(s.out, "  :quit, :q       Exit the REPL")
	case ":sexpr":
		s.setMode(ModeSexpr)
	case ":yaml":
		s.setMode(ModeYAML)
	case ":tokens":
		s.setMode(ModeTokens)
	case ":quit", ":q":
		return false
	default:
		fmt.Fprintf(s.out, "Unknown command: %s (type :help for commands)\n", cmd)
	}
	return true
}

func (s *Session) setMode(m Mode) {
	s.mode = m
	fmt.Fprintf(s.out, "output mode: %s\n", m)
}

// Start runs the REPL on the terminal with line editing, history, and tab
// completion. It returns on :quit or Ctrl+D.
func Start(in io.Reader, out io.Writer, opts Options) {
	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)
	line.SetCompleter(filterCompletions)

	historyFile := opts.HistoryFile
	if historyFile == "" {
		historyFile = filepath.Join(os.TempDir(), ".lkql_history")
	}
	if f, err := os.Open(historyFile); err == nil {
		line.ReadHistory(f)
		f.Close()
	}
	defer func() {
		f, err := os.Create(historyFile)
		if err != nil {
			if opts.Logger != nil {
				opts.Logger.Warn("failed to save history", zap.String("path", historyFile), zap.Error(err))
			}
			return
		}
		line.WriteHistory(f)
		f.Close()
	}()

	session := NewSession(out, opts)

	fmt.Fprintf(out, "LKQL %s\n", opts.Version)
	fmt.Fprintln(out, "Type ':help' for commands, ':quit' or Ctrl+D to exit")

	for {
		prompt := PROMPT
		if session.Pending() {
			prompt = CONTINUATION_PROMPT
		}
		input, err := line.Prompt(prompt)
		if err != nil {
			if err == liner.ErrPromptAborted {
				fmt.Fprintln(out, "^C")
				session.pending.Reset()
				continue
			}
			if err == io.EOF {
				fmt.Fprintln(out)
				return
			}
			fmt.Fprintf(out, "Error reading input: %v\n", err)
			continue
		}

		if strings.TrimSpace(input) != "" {
			line.AppendHistory(input)
		}
		if !session.Feed(input) {
			return
		}
	}
}

var completionWords = append(append([]string{}, lkqlerrors.Keywords...),
	":help", ":sexpr", ":yaml", ":tokens", ":quit")

// filterCompletions returns the line with its last word completed
func filterCompletions(line string) []string {
	if strings.TrimSpace(line) == "" {
		return nil
	}
	if last := line[len(line)-1]; last == ' ' || last == '\t' {
		return nil
	}

	cut := strings.LastIndexAny(line, " \t([") + 1
	head, word := line[:cut], line[cut:]

	var matches []string
	for _, w := range completionWords {
		if strings.HasPrefix(w, word) {
			matches = append(matches, head+w)
		}
	}
	return matches
}

// needsMoreInput reports unclosed brackets or strings, ignoring comments
func needsMoreInput(input string) bool {
	depth := 0
	inString := false
	inComment := false

	for i := 0; i < len(input); i++ {
		ch := input[i]
		switch {
		case inComment:
			if ch == '\n' {
				inComment = false
			}
		case inString:
			if ch == '"' {
				inString = false
			}
		case ch == '"':
			inString = true
		case ch == '#':
			inComment = true
		case ch == '(' || ch == '[' || ch == '{':
			depth++
		case ch == ')' || ch == ']' || ch == '}':
			depth--
		}
	}

	return inString || depth > 0
}
