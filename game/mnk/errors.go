package mnk

import (
	"fmt"

	"github.com/treesearch/uct/game"
)

type moveError game.PlayerMove

func (err moveError) Error() string {
	return fmt.Sprintf("Unable to make %v", game.PlayerMove(err))
}
