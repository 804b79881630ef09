package protocol

import (
	"fmt"
	"strconv"
	"strings"
)

// Terminator ends every frame on the wire.
const Terminator = ":END"

// Server to client tags. MAP frames carry the room dimensions in the tag itself.
const (
	TagMap     = "MAP"
	TagPlay    = "PLAY"
	TagConsole = "CONSOLE"
	TagChat    = "CHAT"
	TagGlobal  = "GMSG"
)

// Client to server tags.
const (
	TagKey  = "KEY"
	TagName = "NAME"
)

// Frame is one logical protocol message.
type Frame struct {
	Tag     string
	Payload string
}

// Encode renders the frame as <TAG>:<payload>:END.
func (f Frame) Encode() []byte {
	b := make([]byte, 0, len(f.Tag)+len(f.Payload)+len(Terminator)+1)
	b = append(b, f.Tag...)
	b = append(b, ':')
	b = append(b, f.Payload...)
	b = append(b, Terminator...)
	return b
}

func (f Frame) String() string {
	return string(f.Encode())
}

// ParseFrame splits a frame body (without the terminator) into tag and payload.
func ParseFrame(body string) Frame {
	tag, payload, _ := strings.Cut(body, ":")
	return Frame{Tag: tag, Payload: payload}
}

// EntityFields is the serialized form of a placed entity.
type EntityFields struct {
	ID    string
	Color string
	X     int
	Y     int
	Room  string
	Glyph string
}

func (e EntityFields) String() string {
	return strings.Join([]string{
		e.ID,
		e.Color,
		strconv.Itoa(e.X),
		strconv.Itoa(e.Y),
		e.Room,
		e.Glyph,
	}, ":")
}

// ParseEntityFields is the inverse of EntityFields.String.
func ParseEntityFields(s string) (EntityFields, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 6 {
		return EntityFields{}, fmt.Errorf("entity %q: expected 6 fields, got %d", s, len(parts))
	}
	x, err := strconv.Atoi(parts[2])
	if err != nil {
		return EntityFields{}, fmt.Errorf("entity %q: parsing x: %w", s, err)
	}
	y, err := strconv.Atoi(parts[3])
	if err != nil {
		return EntityFields{}, fmt.Errorf("entity %q: parsing y: %w", s, err)
	}
	return EntityFields{
		ID:    parts[0],
		Color: parts[1],
		X:     x,
		Y:     y,
		Room:  parts[4],
		Glyph: parts[5],
	}, nil
}

// Map builds a full room snapshot frame.
func Map(width, height int, entities []EntityFields) Frame {
	parts := make([]string, len(entities))
	for i, e := range entities {
		parts[i] = e.String()
	}
	return Frame{
		Tag:     fmt.Sprintf("%s%d,%d", TagMap, width, height),
		Payload: strings.Join(parts, "|"),
	}
}

// ParseMapTag extracts the dimensions from a MAP tag such as "MAP32,16".
func ParseMapTag(tag string) (width, height int, err error) {
	dims, ok := strings.CutPrefix(tag, TagMap)
	if !ok {
		return 0, 0, fmt.Errorf("tag %q is not a map tag", tag)
	}
	w, h, ok := strings.Cut(dims, ",")
	if !ok {
		return 0, 0, fmt.Errorf("tag %q: missing dimensions", tag)
	}
	width, err = strconv.Atoi(w)
	if err != nil {
		return 0, 0, fmt.Errorf("tag %q: parsing width: %w", tag, err)
	}
	height, err = strconv.Atoi(h)
	if err != nil {
		return 0, 0, fmt.Errorf("tag %q: parsing height: %w", tag, err)
	}
	return width, height, nil
}

func Play(e EntityFields) Frame {
	return Frame{Tag: TagPlay, Payload: e.String()}
}

func Console(text string) Frame {
	return Frame{Tag: TagConsole, Payload: Sanitize(text)}
}

func Chat(color, sender, text string) Frame {
	return Frame{Tag: TagChat, Payload: strings.Join([]string{color, sender, Sanitize(text)}, ":")}
}

func GlobalMessage(text string) Frame {
	return Frame{Tag: TagGlobal, Payload: Sanitize(text)}
}

// Sanitize removes sequences from free text that would corrupt framing.
func Sanitize(text string) string {
	for strings.Contains(text, Terminator) {
		text = strings.ReplaceAll(text, Terminator, "")
	}
	return strings.ReplaceAll(text, "|", "")
}
