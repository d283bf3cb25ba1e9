// Package shell is the terminal front end: it turns typed lines into
// controller calls and prints the game.
package shell

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/robalobadob/wordscramble/internal/game"
)

// Commands start with a colon; anything else is a word submission.
const (
	cmdReset = ":reset"
	cmdScore = ":score"
	cmdHelp  = ":help"
	cmdQuit  = ":quit"
)

// Shell holds the single game played in a terminal session.
type Shell struct {
	ctrl  *game.Controller
	state *game.State
	out   io.Writer
}

// New starts a game and returns a Shell writing to out.
func New(ctx context.Context, ctrl *game.Controller, out io.Writer) (*Shell, error) {
	st, err := ctrl.Start(ctx)
	if err != nil {
		return nil, err
	}
	sh := &Shell{ctrl: ctrl, state: st, out: out}
	sh.banner()
	return sh, nil
}

// State returns the current game.
func (sh *Shell) State() *game.State { return sh.state }

// Prompt is the readline prompt for the current root word.
func (sh *Shell) Prompt() string {
	return fmt.Sprintf("%s [%d]> ", sh.state.RootWord, sh.state.Score)
}

// Handle processes one input line. It returns quit=true for :quit.
func (sh *Shell) Handle(ctx context.Context, line string) (quit bool, err error) {
	line = strings.TrimSpace(line)
	switch strings.ToLower(line) {
	case "":
		return false, nil
	case cmdQuit, ":q", ":exit":
		fmt.Fprintf(sh.out, "Final score: %d\n", sh.state.Score)
		return true, nil
	case cmdHelp:
		sh.help()
		return false, nil
	case cmdScore:
		sh.printState()
		return false, nil
	case cmdReset:
		st, err := sh.ctrl.Reset(ctx, sh.state)
		if err != nil {
			return false, err
		}
		sh.state = st
		sh.banner()
		return false, nil
	}

	st, out, err := sh.ctrl.Submit(ctx, sh.state, line)
	if err != nil {
		return false, err
	}
	sh.state = st
	if out.Accepted() {
		fmt.Fprintf(sh.out, "+%d  %s\n", out.Points, out.Word)
		return false, nil
	}
	fmt.Fprintf(sh.out, "%s: %s\n", out.Title, out.Message)
	return false, nil
}

func (sh *Shell) banner() {
	fmt.Fprintf(sh.out, "Root word: %s\n", strings.ToUpper(sh.state.RootWord))
	fmt.Fprintf(sh.out, "Make words from its letters. Type %s for commands.\n", cmdHelp)
}

func (sh *Shell) help() {
	fmt.Fprintf(sh.out, "%-8s start over with a new root word\n", cmdReset)
	fmt.Fprintf(sh.out, "%-8s show your words and score\n", cmdScore)
	fmt.Fprintf(sh.out, "%-8s leave\n", cmdQuit)
}

func (sh *Shell) printState() {
	fmt.Fprintf(sh.out, "Root word: %s  Score: %d\n", strings.ToUpper(sh.state.RootWord), sh.state.Score)
	for _, w := range sh.state.UsedWords {
		fmt.Fprintf(sh.out, "  %2d  %s\n", len([]rune(w)), w)
	}
}
