package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/jsphweid/phonomidi/chord"
	"github.com/jsphweid/phonomidi/decoder"
	"github.com/jsphweid/phonomidi/extract"
	"github.com/jsphweid/phonomidi/mapping"
	"github.com/jsphweid/phonomidi/midi"
	"github.com/jsphweid/phonomidi/model"
	"github.com/jsphweid/phonomidi/util"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <file.mid>",
	Short: "Inspects a MIDI file",
	Long:  `Lists the tracks of a MIDI file, the track the decoder would read and the notes it extracts.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := midi.ReadMidiFile(args[0])
		if err != nil {
			return err
		}
		tracks, ticksPerBeat, err := midi.ToTracks(s)
		if err != nil {
			return err
		}
		inspect(cmd.OutOrStdout(), tracks, ticksPerBeat, mapping.Default())
		return nil
	},
}

func inspect(w io.Writer, tracks model.Tracks, ticksPerBeat int, table *mapping.Table) {
	fmt.Fprintf(w, "ticks per beat: %v\n", ticksPerBeat)
	for i, track := range tracks {
		counts := make(map[model.MessageType]int)
		name := ""
		for _, msg := range track {
			counts[msg.Type]++
			if msg.Type == model.TrackName && name == "" {
				name = msg.Name
			}
		}
		parts := make([]string, 0, len(counts))
		for _, typ := range util.GetSortedKeys(counts) {
			parts = append(parts, fmt.Sprintf("%s=%d", typ, counts[typ]))
		}
		fmt.Fprintf(w, "track %d %q: %s\n", i, name, strings.Join(parts, " "))
		if keys := chordKeys(track); len(keys) > 0 {
			fmt.Fprintf(w, "  chords: %s\n", strings.Join(keys, " "))
		}
	}

	track, ok := extract.SelectTrack(tracks)
	if !ok {
		fmt.Fprintln(w, "no track with notes")
		return
	}
	notes := extract.ExtractNotes(track, ticksPerBeat)
	symbols := decoder.NotesToPhonemes(notes, table)
	fmt.Fprintf(w, "selected track notes: %d\n", len(notes))
	for i, n := range notes {
		fmt.Fprintf(w, "%4d pitch=%d duration=%.3f velocity=%d symbol=%q\n", i, n.Pitch, n.Duration, n.Velocity, symbols[i])
	}
}

// chordKeys lists the onsets of a track that start more than one note.
func chordKeys(track model.Track) []string {
	var res []string
	for _, onset := range chord.Onsets(track) {
		if len(onset.Notes) > 1 {
			res = append(res, chord.CreateChordKey(onset.Notes))
		}
	}
	return res
}
