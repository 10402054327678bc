package api

// PlaybackStatus is the scheduler state
type PlaybackStatus int

const (
	StatusStopped PlaybackStatus = iota
	StatusPlaying
)

func (s PlaybackStatus) String() string {
	if s == StatusPlaying {
		return "playing"
	}
	return "stopped"
}

// EventType identifies the kind of editor event
type EventType int

const (
	EventPlayheadUpdate EventType = iota
	EventStateChange
	EventDocumentChanged
	EventAssetLoaded
	EventError
)

// Event is published on the event bus
type Event struct {
	Type    EventType
	Payload interface{}
}

// PlaybackState is a snapshot of the transport
type PlaybackState struct {
	Status   PlaybackStatus
	Playhead float64
	Looping  bool
}
