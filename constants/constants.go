package constants

import "os"

func GetDictionaryPath() string {
	path := os.Getenv("DICTIONARY_PATH")
	if path != "" {
		return path
	}
	return "data/en_US.txt"
}

func GetOutputsDir() string {
	path := os.Getenv("OUTPUTS_DIR")
	if path != "" {
		return path
	}
	return "outputs"
}

// word boundary sentinel
const (
	SentinelPitch    = 24
	SentinelDuration = 0.25
	SentinelVelocity = 1
	// anything at or below this on the sentinel pitch is a boundary
	SentinelMaxVelocity = 2
)

// used when a cleaned phoneme has no table entry
const (
	FallbackPitch    = 60
	FallbackDuration = 0.4
	FallbackVelocity = 80
)

// The composer stretches every 4th note and compresses the one two places
// after it. The decoder matches durations against the same multipliers.
const (
	VariationPeriod = 4
	StretchFactor   = 1.2
	CompressFactor  = 0.9
)

// Number of arpeggio notes injected before and after the melody. The decoder
// trims exactly this many from each end.
const ArpeggioLength = 4

const (
	ArpeggioDuration = 0.5
	ArpeggioVelocity = 70
	IntroRegister    = 48
	OutroRegister    = 60
)

// window sizes in beats
const (
	BassWindow    = 2.0
	HarmonyWindow = 3.0
	PadWindow     = 6.0
)

const (
	BassRegister    = 36
	HarmonyRegister = 48
	PadRegister     = 36
)

const (
	BassVelocity    = 75
	HarmonyVelocity = 55
	PadVelocity     = 40
)

// General MIDI programs
const (
	ProgramPiano          = 0
	ProgramAcousticBass   = 32
	ProgramStringEnsemble = 48
	ProgramWarmPad        = 89
)

const (
	MelodyTrackName  = "Melody"
	BassTrackName    = "Bass"
	HarmonyTrackName = "Harmony"
	PadTrackName     = "Pad"
	// a track whose name contains one of these carries the encoded melody
	DataTrackName = "Data"
)

const (
	TicksPerBeat = 480
	Tempo        = 120.0
)

const (
	MaxTextLength = 500
	MaxFileSize   = 5 * 1024 * 1024
)

const (
	PrimaryStress   = "ˈ"
	SecondaryStress = "ˌ"
)
