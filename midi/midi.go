package midi

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jsphweid/phonomidi/model"
	"gitlab.com/gomidi/midi/v2/smf"
)

var ErrNoTimeFormat = errors.New("midi file does not use metric ticks")

func ReadMidiFile(filepath string) (*smf.SMF, error) {
	dat, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("error reading midi file: %w", err)
	}
	return ReadMidi(bytes.NewReader(dat))
}

func ReadMidi(r io.Reader) (s *smf.SMF, e error) {
	// handle panics
	// https://github.com/gomidi/midi/issues/20
	defer func() {
		if rec := recover(); rec != nil {
			s = nil
			e = fmt.Errorf("error parsing midi file: %v", rec)
		}
	}()

	res, err := smf.ReadFrom(r)
	if err != nil {
		return nil, fmt.Errorf("error parsing midi file: %w", err)
	}
	return res, nil
}

// ToTracks flattens a parsed file into timed messages and returns its ticks
// per beat.
func ToTracks(s *smf.SMF) (model.Tracks, int, error) {
	ticks, ok := s.TimeFormat.(smf.MetricTicks)
	if !ok {
		return nil, 0, ErrNoTimeFormat
	}

	res := make(model.Tracks, 0, len(s.Tracks))
	for _, events := range s.Tracks {
		track := make(model.Track, 0, len(events))
		for _, event := range events {
			track = append(track, toMessage(event))
		}
		res = append(res, track)
	}
	return res, int(ticks), nil
}

func toMessage(event smf.Event) model.Message {
	msg := model.Message{Type: model.Other, Delta: event.Delta}

	var channel, key, velocity uint8
	var name string
	switch {
	case event.Message.GetNoteOn(&channel, &key, &velocity):
		msg.Type = model.NoteOn
		msg.Note = key
		msg.Velocity = velocity
	case event.Message.GetNoteOff(&channel, &key, &velocity):
		msg.Type = model.NoteOff
		msg.Note = key
		msg.Velocity = velocity
	case event.Message.GetMetaTrackName(&name):
		msg.Type = model.TrackName
		msg.Name = name
	}
	return msg
}

// ReadTracks parses r and flattens it in one step.
func ReadTracks(r io.Reader) (model.Tracks, int, error) {
	s, err := ReadMidi(r)
	if err != nil {
		return nil, 0, err
	}
	return ToTracks(s)
}
