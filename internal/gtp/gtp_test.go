package gtp

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/treesearch/uct"
	"github.com/treesearch/uct/game"
	"github.com/treesearch/uct/game/mnk"
)

func newAgent() *uct.Agent[*mnk.MNK] {
	conf := uct.DefaultConfig().MCTSConf
	conf.Budget = 200
	return uct.NewAgent[*mnk.MNK]("gtp", mnk.NewAdapter(1337), conf, 1337)
}

func Test_General(t *testing.T) {
	assert := assert.New(t)
	e := New(mnk.TicTacToe(), nil, "xx", "1", nil)
	var x string

	ch, ret := e.Start(context.Background())
	defer close(ch)
	ch <- "version"
	x = <-ret
	assert.Equal("= 1\n\n", x)

	ch <- "known_command hello"
	x = <-ret
	assert.Equal("= false\n\n", x)

	ch <- "known_command name"
	x = <-ret
	assert.Equal("= true\n\n", x)

	ch <- "completelyUnheardOfCommand xxx"
	x = <-ret
	assert.Equal("? Unknown command \"completelyunheardofcommand\"\n\n", x)

	ch <- "7 name # with a comment"
	x = <-ret
	assert.Equal("= 7 xx\n\n", x)

	ch <- "genmove x"
	x = <-ret
	assert.Equal("? Unable to generate moves. No agent found\n\n", x)
}

func TestPlayAndUndo(t *testing.T) {
	assert := assert.New(t)
	e := New(mnk.TicTacToe(), nil, "xx", "1", nil)
	ch, ret := e.Start(context.Background())
	defer close(ch)

	ch <- "play x b2"
	assert.Equal("= \n\n", <-ret)
	assert.Equal(game.Colour(mnk.Cross), e.State().Board()[4])

	ch <- "play x a1"
	assert.True(strings.HasPrefix(<-ret, "? illegal move"), "not X's turn")

	ch <- "play o d1"
	assert.Equal("? vertex \"d1\" is off the board\n\n", <-ret)

	ch <- "play o zz"
	assert.Equal("? invalid vertex \"zz\"\n\n", <-ret)

	ch <- "play q a1"
	assert.Equal("? invalid color \"q\"\n\n", <-ret)

	ch <- "play white a1"
	assert.Equal("= \n\n", <-ret)
	assert.Equal(game.Colour(mnk.Nought), e.State().Board()[0])

	ch <- "undo"
	assert.Equal("= \n\n", <-ret)
	assert.Equal(game.None, e.State().Board()[0])
	assert.Equal(mnk.Nought, e.State().ToMove())

	ch <- "undo"
	assert.Equal("= \n\n", <-ret)
	ch <- "undo"
	assert.Equal("? cannot undo\n\n", <-ret)
}

func TestBoardSize(t *testing.T) {
	assert := assert.New(t)
	e := New(mnk.TicTacToe(), nil, "xx", "1", nil)
	ch, ret := e.Start(context.Background())
	defer close(ch)

	ch <- "boardsize 7 6 4"
	assert.Equal("= \n\n", <-ret)
	m, n := e.State().BoardSize()
	assert.Equal(7, m)
	assert.Equal(6, n)
	assert.Equal(4, e.State().InARow())

	ch <- "boardsize 2"
	assert.Equal("= \n\n", <-ret)
	m, n = e.State().BoardSize()
	assert.Equal(2, m)
	assert.Equal(2, n)
	assert.Equal(2, e.State().InARow(), "k shrinks with the board")

	ch <- "boardsize x"
	assert.True(strings.HasPrefix(<-ret, "? Unable to parse argument 1 of boardsize"))
	ch <- "boardsize 0"
	assert.Equal("? unacceptable size\n\n", <-ret)
	ch <- "boardsize 100000 100000"
	assert.Equal("? unacceptable size\n\n", <-ret)
	ch <- "boardsize 3 27"
	assert.Equal("? unacceptable size\n\n", <-ret)
	m, n = e.State().BoardSize()
	assert.Equal(2, m, "a rejected size leaves the board alone")
	assert.Equal(2, n)
	ch <- "boardsize 26 26 30"
	assert.Equal("= \n\n", <-ret)
	m, n = e.State().BoardSize()
	assert.Equal(26, m)
	assert.Equal(26, n)
	assert.Equal(26, e.State().InARow())
	ch <- "boardsize 2"
	<-ret

	ch <- "play b a1"
	<-ret
	ch <- "clear_board"
	assert.Equal("= \n\n", <-ret)
	assert.Zero(e.State().MoveNumber())
	assert.Equal(2, e.State().InARow())
}

func TestGenmove(t *testing.T) {
	e := New(mnk.TicTacToe(), newAgent(), "xx", "1", nil)
	ch, ret := e.Start(context.Background())
	defer close(ch)

	ch <- "genmove w"
	assert.Equal(t, "? not White's turn\n\n", <-ret)

	ch <- "genmove b"
	x := <-ret
	require.True(t, strings.HasPrefix(x, "= "), x)
	assert.Equal(t, 1, e.State().MoveNumber())
	last := e.State().LastMove()
	assert.Equal(t, mnk.Cross, last.Player)
	assert.Equal(t, "= "+formatVertex(last.Single, e.State())+"\n\n", x)

	move, err := parseVertex(strings.ToLower(strings.TrimSpace(x[2:])), e.State())
	require.NoError(t, err)
	assert.Equal(t, last.Single, move)
}

func TestServe(t *testing.T) {
	e := New(mnk.TicTacToe(), newAgent(), "xx", "1", nil)
	in := strings.NewReader("protocol_version\n\n# nothing\nlist_commands\nquit\nname\n")
	var out bytes.Buffer
	require.NoError(t, e.Serve(context.Background(), in, &out))

	want := "= 2\n\n= " + strings.Join(known_commands, "\n") + "\n\n= \n\n"
	assert.Equal(t, want, out.String(), "nothing is answered after quit")
	assert.True(t, e.Quitting())
}

func TestVertex(t *testing.T) {
	g := mnk.New(3, 4, 3)
	for i := 0; i < g.ActionSpace(); i++ {
		s := game.Single(i)
		v := formatVertex(s, g)
		got, err := parseVertex(strings.ToLower(v), g)
		require.NoError(t, err, v)
		assert.Equal(t, s, got, v)
	}
	assert.Equal(t, "D1", formatVertex(3, g))
	assert.Equal(t, "A2", formatVertex(4, g))

	ttt := mnk.TicTacToe()
	for _, v := range []string{"a0", "a4", "d1", "a-1", "a65537", "b65538", "a4294967297"} {
		got, err := parseVertex(v, ttt)
		assert.Error(t, err, v)
		assert.Equal(t, mnk.NoMove, got, v)
	}
}
