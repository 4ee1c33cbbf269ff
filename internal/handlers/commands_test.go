package handlers

import "testing"

func TestParseCommand(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		wantCmd  Command
		wantArgs string
	}{
		{"Bang show", "!p", CmdShow, ""},
		{"Slash show", "/p", CmdShow, ""},
		{"Answer with text", "!r  Un proceso es un programa en ejecución ", CmdAnswer, "Un proceso es un programa en ejecución"},
		{"Answer keeps case", "/r Memoria VIRTUAL", CmdAnswer, "Memoria VIRTUAL"},
		{"Answer on next line", "/r\nUna instancia", CmdAnswer, "Una instancia"},
		{"Answer without text", "!r", CmdAnswer, ""},
		{"Advance", "!siguiente", CmdAdvance, ""},
		{"Uppercase name", "!SIGUIENTE", CmdAdvance, ""},
		{"Scores", "/tantos", CmdScores, ""},
		{"Reset", "!reiniciar", CmdReset, ""},
		{"Help", "!ayuda", CmdHelp, ""},
		{"English help", "/help", CmdHelp, ""},
		{"Start", "/start", CmdHelp, ""},
		{"Addressed to this bot", "/siguiente@QuizBot", CmdAdvance, ""},
		{"Addressed to another bot", "/siguiente@OtherBot", CmdNone, ""},
		{"Leading whitespace", "   !tantos", CmdScores, ""},
		{"Unknown command", "!pizza", CmdNone, ""},
		{"Plain text", "hola a todos", CmdNone, ""},
		{"Empty", "", CmdNone, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, args := ParseCommand(tt.text, "quizbot")
			if cmd != tt.wantCmd || args != tt.wantArgs {
				t.Errorf("ParseCommand(%q) = (%v, %q), want (%v, %q)", tt.text, cmd, args, tt.wantCmd, tt.wantArgs)
			}
		})
	}
}
