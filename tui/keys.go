package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds every binding of both phases.
type keyMap struct {
	Play      key.Binding
	Toggle    key.Binding
	Edit      key.Binding
	Delete    key.Binding
	Refresh   key.Binding
	Up        key.Binding
	Down      key.Binding
	Next      key.Binding
	Submit    key.Binding
	Cancel    key.Binding
	Quit      key.Binding
	ForceQuit key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Play: key.NewBinding(
			key.WithKeys(" ", "space", "up", "down", "left", "right"),
			key.WithHelp("espaço/setas", "jogar"),
		),
		Toggle: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "nova mensagem"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e", "enter"),
			key.WithHelp("e", "editar"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "deletar"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "atualizar"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "acima"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "abaixo"),
		),
		Next: key.NewBinding(
			key.WithKeys("tab", "shift+tab"),
			key.WithHelp("tab", "trocar campo"),
		),
		Submit: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "transmitir"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancelar"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "sair"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Edit, k.Delete, k.Refresh, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Toggle, k.Edit},
		{k.Delete, k.Refresh, k.Quit},
	}
}

// formHelp is shown while the form is open.
type formHelp struct {
	keys keyMap
}

func (f formHelp) ShortHelp() []key.Binding {
	return []key.Binding{f.keys.Next, f.keys.Submit, f.keys.Cancel}
}

func (f formHelp) FullHelp() [][]key.Binding {
	return [][]key.Binding{f.ShortHelp()}
}
