// Package gtp is a line based text protocol, modelled on the Go Text Protocol, to play m,n,k games against
// a searching agent.
package gtp

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/treesearch/uct"
	"github.com/treesearch/uct/game/mnk"
)

var known_commands = []string{
	"protocol_version",
	"name",
	"version",
	"known_command",
	"list_commands",
	"quit",

	// setup
	"boardsize",
	"clear_board",
	"showboard",

	// play
	"play",
	"genmove",
	"undo",
}

// Engine answers protocol commands. The game being played is held by the engine.
type Engine struct {
	g       *mnk.MNK
	history []*mnk.MNK // previous states, for undo

	known map[string]Command

	ch  chan string
	ret chan string
	ctx context.Context

	agent         *uct.Agent[*mnk.MNK]
	New           func(m, n, k int) *mnk.MNK
	name, version string
	quitting      bool
}

// New creates an engine playing g. genmove is answered by the agent. If known is nil, the standard commands are
// used.
func New(g *mnk.MNK, agent *uct.Agent[*mnk.MNK], name, version string, known map[string]Command) *Engine {
	if known == nil {
		known = StandardLib()
	}
	return &Engine{
		g:       g,
		known:   known,
		ctx:     context.Background(),
		agent:   agent,
		New:     mnk.New,
		name:    name,
		version: version,
	}
}

// Start starts answering commands sent on input. Every command gets exactly one response on output. After
// "quit" has been answered, output is closed.
func (e *Engine) Start(ctx context.Context) (input chan<- string, output <-chan string) {
	e.ch = make(chan string)
	e.ret = make(chan string)
	e.ctx = ctx
	go e.start()
	return e.ch, e.ret
}

func (e *Engine) State() *mnk.MNK { return e.g }

// Quitting reports whether "quit" was received. It's safe to call once the response to "quit" has been read.
func (e *Engine) Quitting() bool { return e.quitting }

// Serve reads commands from r, one per line, and writes the responses to w, until r runs out or "quit" is received.
func (e *Engine) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	in, out := e.Start(ctx)
	defer close(in)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if preprocess(scanner.Text()) == "" {
			continue
		}
		in <- scanner.Text()
		if _, err := io.WriteString(w, <-out); err != nil {
			return errors.WithStack(err)
		}
		if e.Quitting() {
			return nil
		}
	}
	return errors.WithStack(scanner.Err())
}

func (e *Engine) start() {
	defer close(e.ret)
	for cmd := range e.ch {
		id, x, args, err := e.parse(cmd)
		if err != nil {
			e.ret <- handleErr(id, err)
			continue
		}
		if x == nil {
			e.ret <- handleResult(id, "", nil)
			continue
		}
		id, result, err := x.Do(id, args, e)
		e.ret <- handleResult(id, result, err)
		if e.quitting {
			return
		}
	}
}

// refer to this
// https://www.lysator.liu.se/%7Egunnar/gtp/gtp2-spec-draft2/gtp2-spec.html#SECTION00030000000000000000
func (e *Engine) parse(cmd string) (id int, x Command, args []string, err error) {
	cmd = preprocess(cmd)
	tokens := strings.Fields(cmd)
	id = -1
	if len(tokens) == 0 {
		return id, nil, nil, nil
	}
	if i, err := strconv.Atoi(tokens[0]); err == nil {
		// we've consumed ID
		id = i
		tokens = tokens[1:]
	}

	if len(tokens) == 0 {
		return id, nil, nil, nil // an ID on its own is a no-op
	}

	var ok bool
	if x, ok = e.known[tokens[0]]; !ok {
		return id, nil, nil, errors.Errorf("Unknown command %q", tokens[0])
	}
	if len(tokens) > 1 {
		args = tokens[1:]
	}
	return
}

// preprocess drops comments and lowercases the command.
func preprocess(a string) string {
	if i := strings.IndexByte(a, '#'); i >= 0 {
		a = a[:i]
	}
	return strings.ToLower(strings.TrimSpace(a))
}

func handleErr(id int, err error) string {
	if id != -1 {
		return fmt.Sprintf("? %d %v\n\n", id, err)
	}
	return fmt.Sprintf("? %v\n\n", err)
}

func handleResult(id int, result string, err error) string {
	if err != nil {
		return handleErr(id, err)
	}

	if id != -1 {
		return fmt.Sprintf("= %d %v\n\n", id, result)
	}
	return fmt.Sprintf("= %v\n\n", result)
}
