package tui

// ActionKind names a normal-mode command produced by the keymap.
type ActionKind uint8

const (
	ActNone ActionKind = iota
	ActQuit
	// ActMoveX scrolls horizontally by Amount bases (negative = left).
	ActMoveX
	// ActMoveY scrolls lanes by Amount (negative = up).
	ActMoveY
	// ActZoomIn / ActZoomOut change zoom by a factor of Amount.
	ActZoomIn
	ActZoomOut
	ActNextExonStart
	ActPrevExonStart
	ActNextExonEnd
	ActPrevExonEnd
	ActNextGeneStart
	ActPrevGeneStart
	ActNextGeneEnd
	ActPrevGeneEnd
	ActTop
	ActBottom
	ActTogglePairs
	ActCommand
	ActFilter
	ActSort
	ActRefresh
)

// Action is one decoded normal-mode command.
type Action struct {
	Kind   ActionKind
	Amount int
}

// Keymap decodes vim-style normal-mode key presses, holding the digit
// count prefix and the pending `g` across calls. It is pure state
// machine, no terminal attached, so it is tested directly.
type Keymap struct {
	count    int
	hasCount bool
	pendingG bool
}

// Reset drops any pending prefix state.
func (k *Keymap) Reset() {
	k.count = 0
	k.hasCount = false
	k.pendingG = false
}

func (k *Keymap) take() int {
	n := 1
	if k.hasCount && k.count > 0 {
		n = k.count
	}
	k.count = 0
	k.hasCount = false
	return n
}

// Press feeds one key (the bubbletea string form) and returns the
// decoded action; ActNone while a prefix is still accumulating or the
// key means nothing.
func (k *Keymap) Press(key string) Action {
	if len(key) == 1 && key[0] >= '0' && key[0] <= '9' && !k.pendingG {
		// a count prefix; `0` alone starts a count of zero, which take()
		// treats as the default step.
		k.count = k.count*10 + int(key[0]-'0')
		k.hasCount = true
		return Action{Kind: ActNone}
	}
	if k.pendingG {
		k.pendingG = false
		switch key {
		case "g":
			k.take()
			return Action{Kind: ActTop}
		case "G":
			k.take()
			return Action{Kind: ActBottom}
		case "e":
			return Action{Kind: ActPrevExonEnd, Amount: k.take()}
		case "E":
			return Action{Kind: ActPrevGeneEnd, Amount: k.take()}
		}
		k.Reset()
		return Action{Kind: ActNone}
	}
	switch key {
	case "q", "ctrl+c":
		return Action{Kind: ActQuit}
	case "h":
		return Action{Kind: ActMoveX, Amount: -k.take()}
	case "l":
		return Action{Kind: ActMoveX, Amount: k.take()}
	case "y":
		return Action{Kind: ActMoveX, Amount: -30 * k.take()}
	case "p":
		return Action{Kind: ActMoveX, Amount: 30 * k.take()}
	case "j":
		return Action{Kind: ActMoveY, Amount: k.take()}
	case "k":
		return Action{Kind: ActMoveY, Amount: -k.take()}
	case "{":
		return Action{Kind: ActMoveY, Amount: 30 * k.take()}
	case "}":
		return Action{Kind: ActMoveY, Amount: -30 * k.take()}
	case "z":
		return Action{Kind: ActZoomIn, Amount: 2 * k.take()}
	case "o":
		return Action{Kind: ActZoomOut, Amount: 2 * k.take()}
	case "w":
		return Action{Kind: ActNextExonStart, Amount: k.take()}
	case "b":
		return Action{Kind: ActPrevExonStart, Amount: k.take()}
	case "e":
		return Action{Kind: ActNextExonEnd, Amount: k.take()}
	case "W":
		return Action{Kind: ActNextGeneStart, Amount: k.take()}
	case "B":
		return Action{Kind: ActPrevGeneStart, Amount: k.take()}
	case "E":
		return Action{Kind: ActNextGeneEnd, Amount: k.take()}
	case "G":
		k.take()
		return Action{Kind: ActBottom}
	case "g":
		k.pendingG = true
		return Action{Kind: ActNone}
	case "v":
		k.take()
		return Action{Kind: ActTogglePairs}
	case ":":
		k.Reset()
		return Action{Kind: ActCommand}
	case "f":
		k.Reset()
		return Action{Kind: ActFilter}
	case "s":
		k.Reset()
		return Action{Kind: ActSort}
	case "r", "ctrl+l":
		k.Reset()
		return Action{Kind: ActRefresh}
	}
	k.Reset()
	return Action{Kind: ActNone}
}
