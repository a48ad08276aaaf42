// Package testutils builds key messages for driving UI models in tests.
package testutils

import (
	tea "charm.land/bubbletea/v2"
)

// KeyPress creates a KeyPressMsg for a special key.
func KeyPress(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg(tea.Key{Code: code})
}

// CtrlKey creates a KeyPressMsg for ctrl+char.
func CtrlKey(char rune) tea.KeyPressMsg {
	return tea.KeyPressMsg(tea.Key{Code: char, Mod: tea.ModCtrl})
}

// Type returns one KeyPressMsg per rune of text.
func Type(text string) []tea.KeyPressMsg {
	msgs := make([]tea.KeyPressMsg, 0, len(text))
	for _, r := range text {
		msgs = append(msgs, tea.KeyPressMsg(tea.Key{Code: r, Text: string(r)}))
	}
	return msgs
}

var (
	KeyEnter     = KeyPress(tea.KeyEnter)
	KeyEsc       = KeyPress(tea.KeyEscape)
	KeyBackspace = KeyPress(tea.KeyBackspace)
	KeyCtrlC     = CtrlKey('c')
)
