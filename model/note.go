package model

// NoteEvent is the common currency between the encode and decode sides.
type NoteEvent struct {
	Pitch    uint8
	Duration float64 // in beats
	Velocity uint8
}

type Notes = []NoteEvent

type MappingEntry struct {
	Symbol string
	Note   NoteEvent
}

// PhonemeToken is a single table symbol or the word boundary " ".
type PhonemeToken = string

const WordBoundary PhonemeToken = " "
