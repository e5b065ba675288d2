package state

import "github.com/charmbracelet/bubbles/key"

// KeyMap contains all key bindings for the application.
type KeyMap struct {
	PrevWeek   key.Binding
	NextWeek   key.Binding
	ThisWeek   key.Binding
	ScrollUp   key.Binding
	ScrollDown key.Binding
	NextItem   key.Binding
	PrevItem   key.Binding

	TogglePool    key.Binding
	AddTask       key.Binding
	Complete      key.Binding
	Copy          key.Binding
	Export        key.Binding
	ToggleProject key.Binding
	Refresh       key.Binding

	Cancel key.Binding
	Help   key.Binding
	Quit   key.Binding
}

// DefaultKeyMap returns the key bindings. Vim mode adds h/j/k/l.
func DefaultKeyMap(vim bool) KeyMap {
	prev, next, up, down := []string{"[", "left"}, []string{"]", "right"}, []string{"up"}, []string{"down"}
	if vim {
		prev = append(prev, "h")
		next = append(next, "l")
		up = append(up, "k")
		down = append(down, "j")
	}
	return KeyMap{
		PrevWeek:   key.NewBinding(key.WithKeys(prev...), key.WithHelp(prev[len(prev)-1], "prev week")),
		NextWeek:   key.NewBinding(key.WithKeys(next...), key.WithHelp(next[len(next)-1], "next week")),
		ThisWeek:   key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "this week")),
		ScrollUp:   key.NewBinding(key.WithKeys(up...), key.WithHelp(up[len(up)-1], "scroll up")),
		ScrollDown: key.NewBinding(key.WithKeys(down...), key.WithHelp(down[len(down)-1], "scroll down")),
		NextItem:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next item")),
		PrevItem:   key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev item")),

		TogglePool:    key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "toggle pool")),
		AddTask:       key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add task")),
		Complete:      key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "complete")),
		Copy:          key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy")),
		Export:        key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "export .ics")),
		ToggleProject: key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "hide/show project")),
		Refresh:       key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),

		Cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.PrevWeek, k.NextWeek, k.AddTask, k.Complete, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.PrevWeek, k.NextWeek, k.ThisWeek, k.ScrollUp, k.ScrollDown, k.NextItem, k.PrevItem},
		{k.AddTask, k.Complete, k.Copy, k.ToggleProject, k.TogglePool},
		{k.Export, k.Refresh, k.Cancel, k.Help, k.Quit},
	}
}
