package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"go-jammer/input"
	"go-jammer/jammer"
	"go-jammer/layout"
	"go-jammer/midi"
	"go-jammer/tuning"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}

	var err error
	switch os.Args[1] {
	case "list":
		err = listPorts()
	case "probe":
		err = probe(arg(2))
	case "resolve":
		err = resolve(arg(2), arg(3), arg(4))
	case "devices":
		err = listDevices()
	case "keys":
		err = echoKeys(arg(2))
	case "poll":
		err = pollPorts()
	default:
		usage()
	}
	if err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
}

func arg(i int) string {
	if i < len(os.Args) {
		return os.Args[i]
	}
	return ""
}

func usage() {
	fmt.Println("MIDI Test Scripts")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  list                         - List MIDI outputs of every backend")
	fmt.Println("  probe [port]                 - Play a short scale on an output")
	fmt.Println("  resolve <layout> <tuning> <keys> - Print the pitch of each key")
	fmt.Println("  devices                      - List evdev keyboards")
	fmt.Println("  keys [device]                - Print raw key events of a keyboard")
	fmt.Println("  poll                         - Poll for output port changes")
}

func listPorts() error {
	for _, b := range midi.Backends() {
		fmt.Printf("=== %s ===\n", b)
		names, err := midi.ListOutPorts(b, midi.DefaultScanTimeout)
		if err != nil {
			fmt.Println("  ", err)
			continue
		}
		if len(names) == 0 {
			fmt.Println("  (no ports)")
		}
		for i, n := range names {
			fmt.Printf("  [%d] %s\n", i, n)
		}
	}
	return nil
}

func probe(port string) error {
	out, err := midi.Open(midi.WithPort(port))
	if err != nil {
		return err
	}
	defer out.Close()

	fmt.Printf("Playing on %s\n", out.Name())
	for _, note := range []uint8{60, 62, 64, 65, 67, 69, 71, 72} {
		out.NoteOn(note, jammer.Velocity)
		time.Sleep(150 * time.Millisecond)
		out.NoteOff(note)
	}
	out.AllNotesOff()
	return nil
}

func resolve(layoutID, tuningID, keys string) error {
	if keys == "" {
		return fmt.Errorf("usage: resolve <layout> <tuning> <keys>")
	}
	r := jammer.NewResolver(tuning.Default(), layout.Default())
	s := jammer.Session{Tuning: tuning.ID(tuningID), Layout: layout.ID(layoutID)}

	for _, c := range keys {
		k := jammer.CharKey(c)
		if p, ok := r.Resolve(k, s); ok {
			fmt.Printf("  %s -> %s\n", k, p)
		} else {
			fmt.Printf("  %s -> (none)\n", k)
		}
	}
	return nil
}

func listDevices() error {
	infos, err := input.ListDevices()
	if err != nil {
		return err
	}
	if len(infos) == 0 {
		fmt.Println("No keyboards found (check read access to /dev/input)")
	}
	for _, d := range infos {
		fmt.Printf("  %s  %s\n", d.Path, d.Name)
	}
	return nil
}

func echoKeys(path string) error {
	dev, err := input.Open(path, nil)
	if err != nil {
		return err
	}
	defer dev.Close()

	fmt.Printf("Reading %s (%s), Ctrl+C to stop\n", dev.Name(), dev.Path())
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err = dev.Listen(ctx, func(ev input.KeyEvent) {
		state := "up"
		switch {
		case ev.Repeat:
			state = "repeat"
		case ev.Down:
			state = "down"
		}
		sym, _ := jammer.Normalize(ev.Key)
		fmt.Printf("  %-8s %-6s %q\n", ev.Key, state, sym)
	})
	if ctx.Err() != nil {
		return nil
	}
	return err
}

func pollPorts() error {
	w, err := midi.NewWatcher(midi.BackendRtMidi, nil)
	if err != nil {
		return err
	}
	fmt.Println("Watching outputs, Ctrl+C to stop")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go w.Run(ctx)
	for ev := range w.Events() {
		fmt.Printf("  %s: %s\n", ev.Type, ev.Name)
	}
	return nil
}
