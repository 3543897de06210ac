package tui

import "github.com/charmbracelet/bubbles/key"

func Key(help string, keys ...string) key.Binding {
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(keys[0], help))
}

type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Left   key.Binding
	Right  key.Binding
	Toggle key.Binding
	Play   key.Binding
	Clear  key.Binding
	Focus  key.Binding
	Preset key.Binding
	Less   key.Binding
	More   key.Binding
	Save   key.Binding
	Help   key.Binding
	Quit   key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Up:     Key("row up", "up", "k"),
		Down:   Key("row down", "down", "j"),
		Left:   Key("step left / param -5", "left", "h"),
		Right:  Key("step right / param +5", "right", "l"),
		Toggle: key.NewBinding(key.WithKeys(" ", "enter"), key.WithHelp("space", "toggle note")),
		Play:   Key("play/stop", "p"),
		Clear:  Key("clear pattern", "c"),
		Focus:  Key("grid/params", "tab"),
		Preset: Key("next scale", "n"),
		Less:   Key("param -1", "["),
		More:   Key("param +1", "]"),
		Save:   Key("save config", "w"),
		Help:   Key("more keys", "?"),
		Quit:   Key("quit", "q", "ctrl+c"),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Play, k.Focus, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Toggle, k.Clear, k.Preset},
		{k.Focus, k.Less, k.More},
		{k.Play, k.Save, k.Help, k.Quit},
	}
}
