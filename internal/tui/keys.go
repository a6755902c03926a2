package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Left         key.Binding
	Right        key.Binding
	Up           key.Binding
	Down         key.Binding
	MoveBack     key.Binding
	MoveForward  key.Binding
	Remove       key.Binding
	Present      key.Binding
	Exit         key.Binding
	Titles       key.Binding
	Save         key.Binding
	Load         key.Binding
	Quit         key.Binding
	ToggleHelp   key.Binding
	presentation bool
}

func newKeyMap() keyMap {
	return keyMap{
		Left:        key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev")),
		Right:       key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next")),
		Up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:        key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		MoveBack:    key.NewBinding(key.WithKeys("["), key.WithHelp("[", "move back")),
		MoveForward: key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "move forward")),
		Remove:      key.NewBinding(key.WithKeys("d", "delete", "backspace"), key.WithHelp("d", "remove")),
		Present:     key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "present")),
		Exit:        key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "exit")),
		Titles:      key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "titles")),
		Save:        key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "save order")),
		Load:        key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "load order")),
		Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		ToggleHelp:  key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	}
}

// forMode returns the keymap with bindings enabled for the display mode.
func (k keyMap) forMode(presenting bool) keyMap {
	k.presentation = presenting
	k.Exit.SetEnabled(presenting)
	for _, b := range []*key.Binding{&k.Left, &k.Right, &k.Up, &k.Down, &k.MoveBack, &k.MoveForward, &k.Remove, &k.Save, &k.Load} {
		b.SetEnabled(!presenting)
	}
	if presenting {
		k.Present.SetHelp("f", "grid")
	}
	return k
}

func (k keyMap) ShortHelp() []key.Binding {
	if k.presentation {
		return []key.Binding{k.Present, k.Exit, k.Titles, k.Quit}
	}
	return []key.Binding{k.Left, k.Right, k.MoveBack, k.MoveForward, k.Present, k.Save, k.Quit, k.ToggleHelp}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.Up, k.Down},
		{k.MoveBack, k.MoveForward, k.Remove},
		{k.Present, k.Exit, k.Titles},
		{k.Save, k.Load, k.Quit, k.ToggleHelp},
	}
}
