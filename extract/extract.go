// Package extract rebuilds (pitch, beats, velocity) notes from the timed
// on/off messages of a single track.
package extract

import (
	"strings"

	"github.com/jsphweid/phonomidi/constants"
	"github.com/jsphweid/phonomidi/model"
)

type active struct {
	start    uint64
	velocity uint8
}

func trackName(track model.Track) string {
	for _, msg := range track {
		if msg.Type == model.TrackName {
			return msg.Name
		}
	}
	return ""
}

func hasNotes(track model.Track) bool {
	for _, msg := range track {
		if msg.Type == model.NoteOn && msg.Velocity > 0 {
			return true
		}
	}
	return false
}

// SelectTrack prefers a track named like the melody/data track, then the
// first track that sounds any note.
func SelectTrack(tracks model.Tracks) (model.Track, bool) {
	var firstWithNotes model.Track
	found := false
	for _, track := range tracks {
		name := trackName(track)
		if strings.Contains(name, constants.MelodyTrackName) || strings.Contains(name, constants.DataTrackName) {
			return track, true
		}
		if !found && hasNotes(track) {
			firstWithNotes = track
			found = true
		}
	}
	return firstWithNotes, found
}

// ExtractNotes pairs note-ons with their note-offs. A note-on for a pitch
// that is still sounding replaces the open note. Note-offs without an open
// note are ignored, and notes still open at the end are dropped.
func ExtractNotes(track model.Track, ticksPerBeat int) model.Notes {
	if ticksPerBeat <= 0 {
		return nil
	}

	var notes model.Notes
	var absTicks uint64
	pressed := make(map[uint8]active)
	for _, msg := range track {
		absTicks += uint64(msg.Delta)
		switch {
		case msg.Type == model.NoteOn && msg.Velocity > 0:
			pressed[msg.Note] = active{start: absTicks, velocity: msg.Velocity}
		case msg.Type == model.NoteOff, msg.Type == model.NoteOn:
			a, ok := pressed[msg.Note]
			if !ok {
				continue
			}
			notes = append(notes, model.NoteEvent{
				Pitch:    msg.Note,
				Duration: float64(absTicks-a.start) / float64(ticksPerBeat),
				Velocity: a.velocity,
			})
			delete(pressed, msg.Note)
		}
	}
	return notes
}

// ExtractFromTracks selects the melody track and extracts its notes.
func ExtractFromTracks(tracks model.Tracks, ticksPerBeat int) model.Notes {
	track, ok := SelectTrack(tracks)
	if !ok {
		return nil
	}
	return ExtractNotes(track, ticksPerBeat)
}
