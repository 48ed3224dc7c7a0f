package dialogue

// Utterance is one parsed transcript line with the speaker already replaced by its code.
type Utterance struct {
	SpeakerCode string
	Text        string
	Timestamp   string
}

// Anomaly is a non-empty line that could not be attributed to a known speaker.
type Anomaly struct {
	LineNumber int
	Line       string
	Reason     string
}
