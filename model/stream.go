package model

type MessageType int

const (
	TrackName MessageType = iota
	NoteOn
	NoteOff
	Other
)

func (t MessageType) String() string {
	switch t {
	case TrackName:
		return "track_name"
	case NoteOn:
		return "note_on"
	case NoteOff:
		return "note_off"
	}
	return "other"
}

// Message is one timed event of a track. Delta is in ticks since the
// previous message of the same track.
type Message struct {
	Type     MessageType
	Delta    uint32
	Note     uint8
	Velocity uint8
	Name     string
}

type Track = []Message

type Tracks = []Track
