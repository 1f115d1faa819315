package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit      key.Binding
	Back      key.Binding
	List      key.Binding
	Favorites key.Binding
	Regions   key.Binding
	Login     key.Binding
	SignOut   key.Binding

	Up     key.Binding
	Down   key.Binding
	Open   key.Binding
	Search key.Binding
	Region key.Binding
	Sort   key.Binding
	Flip   key.Binding
	Prev   key.Binding
	Next   key.Binding
	Size   key.Binding

	Toggle key.Binding
	Remove key.Binding
}

var keys = keyMap{
	Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Back:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	List:      key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "countries")),
	Favorites: key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "favorites")),
	Regions:   key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "regions")),
	Login:     key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "sign in")),
	SignOut:   key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "sign out")),

	Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Open:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
	Search: key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
	Region: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "region")),
	Sort:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort")),
	Flip:   key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "order")),
	Prev:   key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "prev page")),
	Next:   key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "next page")),
	Size:   key.NewBinding(key.WithKeys("z"), key.WithHelp("z", "page size")),

	Toggle: key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "favorite")),
	Remove: key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "remove")),
}

func helpLine(bindings ...key.Binding) string {
	out := ""
	for i, b := range bindings {
		if i > 0 {
			out += " · "
		}
		h := b.Help()
		out += h.Key + " " + h.Desc
	}
	return out
}
