package display

import (
	"fmt"
	"log/slog"

	"github.com/pixil98/go-errors"
)

// MessageData is the data available to every message template.
type MessageData struct {
	Name string
	Room string
}

// Messages holds the text shown to players for world events.
type Messages struct {
	Blocked      *Template
	Occupied     *Template
	Entered      *Template
	Denied       *Template
	Joined       *Template
	Disconnected *Template
	Renamed      *Template
}

func DefaultMessages() *Messages {
	return &Messages{
		Blocked:      MustParseTemplate("You can't go there."),
		Occupied:     MustParseTemplate("It's {{ .Name }}."),
		Entered:      MustParseTemplate("You have entered {{ .Room }}."),
		Denied:       MustParseTemplate("You are not welcome in {{ .Room }}."),
		Joined:       MustParseTemplate("{{ .Name }} has arrived."),
		Disconnected: MustParseTemplate("{{ .Name }} has disconnected."),
		Renamed:      MustParseTemplate("You are now known as {{ .Name }}."),
	}
}

// MessageOverrides replaces individual default templates. Empty fields keep
// the default.
type MessageOverrides struct {
	Blocked      string `json:"blocked,omitempty"`
	Occupied     string `json:"occupied,omitempty"`
	Entered      string `json:"entered,omitempty"`
	Denied       string `json:"denied,omitempty"`
	Joined       string `json:"joined,omitempty"`
	Disconnected string `json:"disconnected,omitempty"`
	Renamed      string `json:"renamed,omitempty"`
}

// Build returns the default messages with the overrides applied.
func (o *MessageOverrides) Build() (*Messages, error) {
	m := DefaultMessages()
	el := errors.NewErrorList()

	set := func(name, src string, dst **Template) {
		if src == "" {
			return
		}
		t, err := ParseTemplate(src)
		if err != nil {
			el.Add(fmt.Errorf("%s: %w", name, err))
			return
		}
		*dst = t
	}

	set("blocked", o.Blocked, &m.Blocked)
	set("occupied", o.Occupied, &m.Occupied)
	set("entered", o.Entered, &m.Entered)
	set("denied", o.Denied, &m.Denied)
	set("joined", o.Joined, &m.Joined)
	set("disconnected", o.Disconnected, &m.Disconnected)
	set("renamed", o.Renamed, &m.Renamed)

	if err := el.Err(); err != nil {
		return nil, err
	}
	return m, nil
}

// Render expands t, falling back to the raw template text if expansion fails.
func Render(t *Template, data MessageData) string {
	s, err := t.Expand(data)
	if err != nil {
		slog.Warn("rendering message", "template", t.String(), "error", err)
		return t.String()
	}
	return s
}
