package midi

import (
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/jsphweid/phonomidi/constants"
	"github.com/jsphweid/phonomidi/model"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

type timedEvent struct {
	time    uint32
	off     bool
	message smf.Message
}

func beatsToTicks(beats float64) uint32 {
	return uint32(math.Round(beats * constants.TicksPerBeat))
}

func conductorTrack() smf.Track {
	track := smf.Track{}
	track = append(track, smf.Event{Delta: 0, Message: smf.Message(smf.MetaTrackSequenceName("Conductor"))})
	track = append(track, smf.Event{Delta: 0, Message: smf.Message(smf.MetaTempo(constants.Tempo))})
	track = append(track, smf.Event{Delta: 0, Message: smf.Message(smf.MetaTimeSig(4, 4, 24, 8))})
	return append(track, smf.Event{Delta: 0, Message: smf.EOT})
}

func partTrack(part model.Part) smf.Track {
	track := smf.Track{}
	track = append(track, smf.Event{Delta: 0, Message: smf.Message(smf.MetaTrackSequenceName(part.Name))})
	track = append(track, smf.Event{Delta: 0, Message: smf.Message(gomidi.ProgramChange(part.Channel, part.Program))})

	events := make([]timedEvent, 0, 2*len(part.Notes))
	for _, n := range part.Notes {
		start := beatsToTicks(n.Offset)
		end := beatsToTicks(n.Offset + n.Duration)
		if end <= start {
			end = start + 1
		}
		events = append(events,
			timedEvent{time: start, message: smf.Message(gomidi.NoteOn(part.Channel, n.Pitch, n.Velocity))},
			timedEvent{time: end, off: true, message: smf.Message(gomidi.NoteOff(part.Channel, n.Pitch))},
		)
	}

	// note-offs first so back to back notes of one pitch do not overlap
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].time == events[j].time {
			return events[i].off && !events[j].off
		}
		return events[i].time < events[j].time
	})

	var lastTime uint32
	for _, e := range events {
		track = append(track, smf.Event{Delta: e.time - lastTime, Message: e.message})
		lastTime = e.time
	}
	return append(track, smf.Event{Delta: 0, Message: smf.EOT})
}

// NewScoreFile builds a format 1 file: a conductor track followed by one
// track per part.
func NewScoreFile(score model.Score) *smf.SMF {
	s := smf.NewSMF1()
	s.TimeFormat = smf.MetricTicks(constants.TicksPerBeat)
	s.Add(conductorTrack())
	for _, part := range score.Parts() {
		s.Add(partTrack(part))
	}
	return s
}

func WriteScore(score model.Score, w io.Writer) error {
	if _, err := NewScoreFile(score).WriteTo(w); err != nil {
		return fmt.Errorf("error writing midi file: %w", err)
	}
	return nil
}
