package handlers

import (
	"strings"
	"unicode"
)

// Command is a quiz command recognised in chat text.
type Command int

const (
	CmdNone Command = iota
	CmdShow
	CmdAnswer
	CmdAdvance
	CmdScores
	CmdReset
	CmdHelp
)

var commandNames = map[string]Command{
	"p":         CmdShow,
	"r":         CmdAnswer,
	"siguiente": CmdAdvance,
	"tantos":    CmdScores,
	"reiniciar": CmdReset,
	"ayuda":     CmdHelp,
	"help":      CmdHelp,
	"start":     CmdHelp,
}

func (c Command) String() string {
	switch c {
	case CmdShow:
		return "show"
	case CmdAnswer:
		return "answer"
	case CmdAdvance:
		return "advance"
	case CmdScores:
		return "scores"
	case CmdReset:
		return "reset"
	case CmdHelp:
		return "help"
	default:
		return "none"
	}
}

// ParseCommand recognises "!name args" and "/name[@bot] args". A command
// addressed to a different bot is ignored. Names are case-insensitive;
// args keep their original text, trimmed.
func ParseCommand(text, botName string) (Command, string) {
	text = strings.TrimLeftFunc(text, unicode.IsSpace)
	if text == "" || (text[0] != '!' && text[0] != '/') {
		return CmdNone, ""
	}

	word, args := text[1:], ""
	if i := strings.IndexFunc(word, unicode.IsSpace); i >= 0 {
		word, args = word[:i], strings.TrimSpace(word[i:])
	}

	if at := strings.IndexByte(word, '@'); at >= 0 {
		target := word[at+1:]
		if botName == "" || !strings.EqualFold(target, botName) {
			return CmdNone, ""
		}
		word = word[:at]
	}

	cmd, ok := commandNames[strings.ToLower(word)]
	if !ok {
		return CmdNone, ""
	}
	return cmd, args
}
