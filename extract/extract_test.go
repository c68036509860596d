package extract

import (
	"testing"

	"github.com/jsphweid/phonomidi/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func on(delta uint32, note, velocity uint8) model.Message {
	return model.Message{Type: model.NoteOn, Delta: delta, Note: note, Velocity: velocity}
}

func off(delta uint32, note uint8) model.Message {
	return model.Message{Type: model.NoteOff, Delta: delta, Note: note}
}

func named(name string) model.Message {
	return model.Message{Type: model.TrackName, Name: name}
}

func TestExtractNotesPairsOnAndOff(t *testing.T) {
	track := model.Track{
		named("Melody"),
		on(0, 60, 90),
		off(480, 60),
		on(0, 62, 80),
		on(240, 62, 0), // note-on with zero velocity ends the note
	}
	notes := ExtractNotes(track, 480)
	assert.Equal(t, model.Notes{
		{Pitch: 60, Duration: 1, Velocity: 90},
		{Pitch: 62, Duration: 0.5, Velocity: 80},
	}, notes)
}

func TestExtractNotesReopenOverwrites(t *testing.T) {
	track := model.Track{
		on(0, 60, 90),
		on(480, 60, 50),
		off(240, 60),
	}
	notes := ExtractNotes(track, 480)
	assert.Equal(t, model.Notes{{Pitch: 60, Duration: 0.5, Velocity: 50}}, notes)
}

func TestExtractNotesIgnoresStrayOffsAndDropsOpenNotes(t *testing.T) {
	track := model.Track{
		off(10, 64),
		on(0, 60, 90),
		on(0, 67, 90),
		off(96, 60),
		off(0, 60),
	}
	notes := ExtractNotes(track, 96)
	assert.Equal(t, model.Notes{{Pitch: 60, Duration: 1, Velocity: 90}}, notes)
}

func TestExtractNotesBadTicks(t *testing.T) {
	assert.Nil(t, ExtractNotes(model.Track{on(0, 60, 90), off(10, 60)}, 0))
}

func TestSelectTrackByName(t *testing.T) {
	conductor := model.Track{named("Conductor")}
	bass := model.Track{named("Bass"), on(0, 36, 75), off(960, 36)}
	melody := model.Track{named("Melody"), on(0, 60, 90), off(480, 60)}
	data := model.Track{named("Data 1"), on(0, 61, 90), off(480, 61)}

	track, ok := SelectTrack(model.Tracks{conductor, bass, melody})
	require.True(t, ok)
	assert.Equal(t, melody, track)

	track, ok = SelectTrack(model.Tracks{bass, data, melody})
	require.True(t, ok)
	assert.Equal(t, data, track)
}

func TestSelectTrackFallsBackToFirstWithNotes(t *testing.T) {
	silent := model.Track{named("Piano"), on(0, 60, 0)}
	first := model.Track{on(0, 50, 70), off(480, 50)}
	second := model.Track{on(0, 52, 70), off(480, 52)}

	track, ok := SelectTrack(model.Tracks{silent, first, second})
	require.True(t, ok)
	assert.Equal(t, first, track)

	_, ok = SelectTrack(model.Tracks{silent})
	assert.False(t, ok)
}

func TestExtractFromTracks(t *testing.T) {
	tracks := model.Tracks{
		{named("Bass"), on(0, 36, 75), off(960, 36)},
		{named("Melody"), on(0, 60, 90), off(480, 60)},
	}
	assert.Equal(t, model.Notes{{Pitch: 60, Duration: 1, Velocity: 90}}, ExtractFromTracks(tracks, 480))
	assert.Nil(t, ExtractFromTracks(nil, 480))
}
