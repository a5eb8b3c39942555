package gif

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"io"
	"math"
	"strings"

	"github.com/golang/freetype/truetype"
	"github.com/pkg/errors"
	"github.com/treesearch/uct"
	"github.com/treesearch/uct/game"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/math/fixed"
)

var regular *truetype.Font

const (
	dpi             = 144.0
	fontsize        = 12.0
	lineheight      = 1.2
	dummyLongString = `UNKNOWN GAME, Game Number: 10000`

	endDelay = 300 // hundredths of a second
)

func init() {
	var err error
	if regular, err = truetype.Parse(gomono.TTF); err != nil {
		panic(err)
	}
}

var globPalette = color.Palette{
	color.Gray{0},
	color.Gray{253},
}

// Game is a state that can tell whether the game is over. Its text representation (%s) is what gets drawn.
type Game interface {
	Ended() (bool, game.Player)
}

// Encoder draws every move of a game as a frame of an animated GIF. It implements uct.OutputEncoder.
type Encoder[S Game] struct {
	H, W int
	font.Drawer

	out *gif.GIF
	io.Writer
	face font.Face

	maxH, maxW  int // maxHeight and maxWidth
	padH, padW  int // padding so everything don't start at the topleft
	initialized bool
}

// NewEncoder creates an encoder writing to w. Frames are at most h high and w wide.
func NewEncoder[S Game](w io.Writer, maxH, maxW int) *Encoder[S] {
	return &Encoder[S]{
		H:    -1,
		W:    -1,
		maxH: maxH,
		maxW: maxW,
		padH: 10,
		padW: 10,

		Drawer: font.Drawer{
			Src: image.Black,
		},
		out:    &gif.GIF{LoopCount: -1},
		Writer: w,
	}
}

// Encode a move.
func (enc *Encoder[S]) Encode(ms uct.MetaState[S]) error {
	g := ms.State()
	repr := strings.TrimRight(fmt.Sprintf("%s", any(g)), "\n")

	if !enc.initialized {
		// lazy init of specifications
		enc.face = truetype.NewFace(regular, &truetype.Options{
			Size:    fontsize,
			DPI:     dpi,
			Hinting: font.HintingFull,
		})
		enc.Drawer.Src = image.Black
		enc.Drawer.Face = enc.face

		// first calculate how long the max length will be
		splits := strings.Split(repr, "\n")
		oneline := splits[0]
		maxW := max(font.MeasureString(enc.Face, oneline).Ceil(), font.MeasureString(enc.Face, dummyLongString).Ceil())
		dy := int(math.Ceil(fontsize * lineheight * dpi / 72))
		w := maxW + 2*enc.padW
		h := (len(splits)+3)*dy + 2*enc.padH // + 3 is for the 3 extra lines: game name, game number, and winner

		w = min(w, enc.maxW)
		h = min(h, enc.maxH)

		if w == enc.maxW {
			enc.padW = 0
		}
		if h == enc.maxH {
			enc.padH = 0
		}

		enc.H = h
		enc.W = w
		enc.initialized = true
	}

	im := image.NewPaletted(image.Rect(0, 0, enc.W, enc.H), globPalette)
	draw.Draw(im, im.Bounds(), image.White, image.Point{}, draw.Src)
	dy := int(math.Ceil(fontsize * lineheight * dpi / 72))
	y := dy
	enc.Dst = im
	for _, s := range strings.Split(repr, "\n") {
		enc.Dot = fixed.P(enc.padW, y)
		enc.DrawString(s)
		y += dy
	}
	enc.Dot = fixed.P(enc.padW, y)
	enc.DrawString(ms.Name())
	y += dy

	enc.Dot = fixed.P(enc.padW, y)
	enc.DrawString(fmt.Sprintf("Game Number: %d", ms.GameNumber()))
	y += dy

	var delay int
	if ended, winner := g.Ended(); ended {
		delay = endDelay
		enc.Dot = fixed.P(enc.padW, y)
		if winner == game.Player(game.None) {
			enc.DrawString("Draw")
		} else {
			enc.DrawString(fmt.Sprintf("Winner: %s", winner))
		}
	}
	enc.out.Image = append(enc.out.Image, im)
	enc.out.Delay = append(enc.out.Delay, delay)
	return nil
}

// Flush writes the frames of all the games so far into the writer. The writer is expected to be rewritten as a
// whole, so Flush is meant to be called once.
func (enc *Encoder[S]) Flush() error {
	if len(enc.out.Image) == 0 {
		return nil
	}
	return errors.WithStack(gif.EncodeAll(enc.Writer, enc.out))
}

// Frames is the number of frames encoded so far.
func (enc *Encoder[S]) Frames() int { return len(enc.out.Image) }
