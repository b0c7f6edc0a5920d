package midi

import gomidi "gitlab.com/gomidi/midi/v2"

// Channel voice status bytes (high nibble)
const (
	StatusNoteOff uint8 = 0x80
	StatusNoteOn  uint8 = 0x90
	StatusCC      uint8 = 0xB0
)

// CCAllNotesOff is the channel mode message that silences a channel
const CCAllNotesOff uint8 = 123

func noteOnMsg(channel, note, velocity uint8) gomidi.Message {
	return gomidi.NoteOn(channel, note&0x7F, velocity&0x7F)
}

func noteOffMsg(channel, note uint8) gomidi.Message {
	return gomidi.NoteOff(channel, note&0x7F)
}

func allNotesOffMsg(channel uint8) gomidi.Message {
	return gomidi.ControlChange(channel, CCAllNotesOff, 0)
}
