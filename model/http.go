package model

type EncodeRequestBody struct {
	Text string `json:"text"`
}

type NoteResult struct {
	Pitch    uint8   `json:"pitch"`
	Duration float64 `json:"duration"`
	Velocity uint8   `json:"velocity"`
	Time     float64 `json:"time"`
	Phoneme  string  `json:"phoneme"`
}

type EncodeResponse struct {
	Success   bool         `json:"success"`
	IPA       string       `json:"ipa"`
	NoteCount int          `json:"note_count"`
	MidiFile  string       `json:"midi_file"`
	Notes     []NoteResult `json:"notes"`
	Phonemes  []string     `json:"phonemes"`
	Message   string       `json:"message"`
}

type DecodeResponse struct {
	Success     bool   `json:"success"`
	DecodedText string `json:"decoded_text"`
	Message     string `json:"message"`
}

type HealthResponse struct {
	Status         string `json:"status"`
	Words          int    `json:"words"`
	Pronunciations int    `json:"pronunciations"`
}

type ErrorResponse struct {
	Error string `json:"detail"`
}
