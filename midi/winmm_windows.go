//go:build windows
// +build windows

package midi

import (
	"fmt"
	"sync"
	"unsafe"

	"go.uber.org/zap"
	"golang.org/x/sys/windows"
)

// HMIDIOUT is a WinMM output handle
type HMIDIOUT windows.Handle

const callbackNull = 0x00000000

// midiOutCaps mirrors MIDIOUTCAPSW
type midiOutCaps struct {
	wMid           uint16
	wPid           uint16
	vDriverVersion uint32
	szPname        [32]uint16
	wTechnology    uint16
	wVoices        uint16
	wNotes         uint16
	wChannelMask   uint16
	dwSupport      uint32
}

var (
	winmm                 = windows.NewLazySystemDLL("winmm.dll")
	procMidiOutGetNumDevs = winmm.NewProc("midiOutGetNumDevs")
	procMidiOutGetDevCaps = winmm.NewProc("midiOutGetDevCapsW")
	procMidiOutOpen       = winmm.NewProc("midiOutOpen")
	procMidiOutShortMsg   = winmm.NewProc("midiOutShortMsg")
	procMidiOutReset      = winmm.NewProc("midiOutReset")
	procMidiOutClose      = winmm.NewProc("midiOutClose")
)

type winMMBackend struct {
	log *zap.Logger
}

func newWinMMBackend(log *zap.Logger) (backend, error) {
	if err := winmm.Load(); err != nil {
		return nil, fmt.Errorf("load winmm.dll: %w", err)
	}
	return &winMMBackend{log: log}, nil
}

func (b *winMMBackend) outPorts() ([]string, error) {
	r0, _, _ := procMidiOutGetNumDevs.Call()
	n := uint32(r0)

	names := make([]string, 0, n)
	for i := uint32(0); i < n; i++ {
		var caps midiOutCaps
		r1, _, _ := procMidiOutGetDevCaps.Call(
			uintptr(i),
			uintptr(unsafe.Pointer(&caps)),
			unsafe.Sizeof(caps),
		)
		if r1 != 0 {
			b.log.Warn("failed to get MIDI output caps", zap.Uint32("device", i))
			names = append(names, fmt.Sprintf("MIDI Out %d", i))
			continue
		}
		names = append(names, windows.UTF16ToString(caps.szPname[:]))
	}
	return names, nil
}

func (b *winMMBackend) open(index int) (port, error) {
	var h HMIDIOUT
	r1, _, err := procMidiOutOpen.Call(
		uintptr(unsafe.Pointer(&h)),
		uintptr(index),
		0,
		0,
		callbackNull,
	)
	if r1 != 0 {
		return nil, fmt.Errorf("midiOutOpen %d: mmresult %d: %v", index, r1, err)
	}

	var caps midiOutCaps
	procMidiOutGetDevCaps.Call(uintptr(index), uintptr(unsafe.Pointer(&caps)), unsafe.Sizeof(caps))
	return &winMMPort{handle: h, name: windows.UTF16ToString(caps.szPname[:])}, nil
}

type winMMPort struct {
	mu     sync.Mutex
	handle HMIDIOUT
	name   string
}

// Send packs a channel message into the little-endian DWORD midiOutShortMsg
// expects.
func (p *winMMPort) Send(msg []byte) error {
	if len(msg) == 0 || len(msg) > 3 {
		return fmt.Errorf("winmm: cannot send %d byte message", len(msg))
	}
	var dw uint32
	for i, b := range msg {
		dw |= uint32(b) << (8 * i)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.handle == 0 {
		return fmt.Errorf("winmm: port closed")
	}
	r1, _, err := procMidiOutShortMsg.Call(uintptr(p.handle), uintptr(dw))
	if r1 != 0 {
		return fmt.Errorf("midiOutShortMsg: mmresult %d: %v", r1, err)
	}
	return nil
}

func (p *winMMPort) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.handle == 0 {
		return nil
	}
	procMidiOutReset.Call(uintptr(p.handle))
	r1, _, err := procMidiOutClose.Call(uintptr(p.handle))
	p.handle = 0
	if r1 != 0 {
		return fmt.Errorf("midiOutClose: mmresult %d: %v", r1, err)
	}
	return nil
}

func (p *winMMPort) String() string {
	return p.name
}
