package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"go-jammer/config"
	"go-jammer/debug"
	"go-jammer/input"
	"go-jammer/jammer"
	"go-jammer/layout"
	"go-jammer/midi"
	"go-jammer/theme"
	"go-jammer/tui"
	"go-jammer/tuning"
	"go-jammer/widgets"
)

var (
	Version = "dev"

	// Command-line configuration, overrides the config file when set
	flags struct {
		tuning       string
		layout       string
		backend      string
		port         string
		channel      int
		device       string
		grab         bool
		releaseAfter int
		palette      string
		log          string
		config       string
		save         bool
	}
)

var rootCmd = &cobra.Command{
	Use:   "go-jammer",
	Short: "Play MIDI notes from the computer keyboard",
	Long: `go-jammer turns the computer keyboard into an isomorphic MIDI
instrument. Keys are mapped through a keyboard layout onto a tuning grid
and sent as note messages to a MIDI output port.

Notes only play while the terminal has focus.`,
	Version:      Version,
	SilenceUsage: true,
	RunE:         runJammer,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tunings, layouts, MIDI outputs and input devices",
	RunE:  runList,
}

func init() {
	f := rootCmd.PersistentFlags()
	f.StringVar(&flags.config, "config", "",
		"Config file (default ~/.config/go-jammer/config.json)")
	f.StringVarP(&flags.backend, "backend", "b", string(midi.BackendRtMidi),
		"MIDI backend: rtmidi, coremidi or winmm")

	f = rootCmd.Flags()
	f.StringVarP(&flags.tuning, "tuning", "t", string(tuning.EDO12),
		"Tuning id")
	f.StringVarP(&flags.layout, "layout", "k", string(layout.QWERTZ),
		"Keyboard layout id")
	f.StringVarP(&flags.port, "port", "p", "",
		"MIDI output port name, name fragment or index (empty picks the first)")
	f.IntVarP(&flags.channel, "channel", "c", 1,
		"MIDI channel 1-16")
	f.StringVarP(&flags.device, "device", "d", "",
		`Read keys from an evdev device node ("auto" finds a keyboard)`)
	f.BoolVar(&flags.grab, "grab", false,
		"Grab the input device so keys do not reach other programs")
	f.IntVar(&flags.releaseAfter, "release-after", 600,
		"Milliseconds without repeats before a terminal key counts as released")
	f.StringVar(&flags.palette, "palette", "",
		"GIMP palette (.gpl) for the UI colors")
	f.StringVarP(&flags.log, "log", "l", "",
		"Write debug logs to the file (empty disables)")
	f.BoolVar(&flags.save, "save", false,
		"Save the effective settings to the config file")

	rootCmd.AddCommand(listCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	if flags.config != "" {
		return config.LoadFrom(flags.config)
	}
	return config.Load()
}

// applyFlags copies the flags the user set over the config. Persistent
// flags of the root command count for subcommands too.
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	changed := func(name string) bool {
		f := cmd.Flag(name)
		return f != nil && f.Changed
	}
	if changed("tuning") {
		cfg.Tuning = tuning.ID(flags.tuning)
	}
	if changed("layout") {
		cfg.Layout = layout.ID(flags.layout)
	}
	if changed("backend") {
		cfg.Output.Backend = midi.Backend(flags.backend)
	}
	if changed("port") {
		cfg.Output.Port = flags.port
	}
	if changed("channel") {
		cfg.Output.Channel = flags.channel
	}
	if changed("device") {
		cfg.Input.Device = flags.device
	}
	if changed("grab") {
		cfg.Input.Grab = flags.grab
	}
	if changed("release-after") {
		cfg.Input.ReleaseAfterMS = flags.releaseAfter
	}
	if changed("palette") {
		cfg.UI.Palette = flags.palette
	}
	if changed("log") {
		cfg.LogFile = flags.log
	}
}

func runJammer(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyFlags(cmd, cfg)

	tunings, layouts := tuning.Default(), layout.Default()
	if err := cfg.Validate(tunings, layouts); err != nil {
		return err
	}

	if cfg.LogFile != "" {
		if err := debug.Enable(cfg.LogFile); err != nil {
			return err
		}
		defer debug.Disable()
	}
	log := debug.Logger()

	th := theme.Default()
	if cfg.UI.Palette != "" {
		palette, err := theme.LoadGPL(cfg.UI.Palette)
		if err != nil {
			return err
		}
		th = theme.New(palette)
	}

	// The jammer still runs without an output so the grid can be explored
	var sink jammer.Sink = midi.Discard
	status := tui.Status{}
	out, err := midi.Open(
		midi.WithBackend(cfg.Output.Backend),
		midi.WithPort(cfg.Output.Port),
		midi.WithChannel(uint8(cfg.Output.Channel-1)),
		midi.WithLogger(log),
	)
	if err != nil {
		fmt.Fprintln(os.Stderr, "No MIDI output device found.")
		log.Warn("no MIDI output", zap.Error(err))
	} else {
		defer out.Close()
		sink = out
		status.Output = out.Name()
	}

	ctrl, err := jammer.NewController(tunings, layouts, sink,
		jammer.WithSession(jammer.Session{Tuning: cfg.Tuning, Layout: cfg.Layout}),
		jammer.WithLogger(log),
	)
	if err != nil {
		return err
	}

	var dev *input.Device
	if cfg.Input.Device != "" {
		path := cfg.Input.Device
		if path == "auto" {
			path = ""
		}
		dev, err = input.Open(path, log)
		if err != nil {
			return err
		}
		defer dev.Close()
		if cfg.Input.Grab {
			if err := dev.Grab(); err != nil {
				return err
			}
			status.Grabbed = true
		}
		status.Device = dev.Name()
	}

	m := tui.NewModel(ctrl, th, status, cfg.ReleaseAfter())
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithReportFocus())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if dev != nil {
		go func() {
			err := dev.Listen(ctx, func(ev input.KeyEvent) {
				p.Send(tui.DeviceKeyMsg(ev))
			})
			if err != nil && !errors.Is(err, context.Canceled) {
				p.Send(tui.DeviceErrMsg{Err: err})
			}
		}()
	}

	if out != nil {
		if w, err := midi.NewWatcher(cfg.Output.Backend, log); err == nil {
			go w.Run(ctx)
			go func() {
				for ev := range w.Events() {
					p.Send(tui.PortMsg(ev))
				}
			}()
		}
	}

	_, runErr := p.Run()

	// silence anything the UI did not get to release
	ctrl.Shutdown()
	if out != nil {
		out.AllNotesOff()
	}

	if flags.save {
		cfg.Tuning = ctrl.Session().Tuning
		cfg.Layout = ctrl.Session().Layout
		if err := saveConfig(cfg); err != nil {
			return err
		}
	}
	return runErr
}

func saveConfig(cfg *config.Config) error {
	if flags.config != "" {
		return cfg.SaveTo(flags.config)
	}
	return cfg.Save()
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyFlags(cmd, cfg)

	var sections []widgets.Section

	ts := tuning.Default()
	tunings := widgets.Section{Title: "Tunings"}
	for _, id := range ts.IDs() {
		t, _ := ts.Table(id)
		tunings.Items = append(tunings.Items, widgets.Item{Name: string(id), Desc: t.Description})
	}
	sections = append(sections, tunings)

	layouts := widgets.Section{Title: "Layouts"}
	for _, id := range layout.Default().IDs() {
		layouts.Items = append(layouts.Items, widgets.Item{Name: string(id)})
	}
	sections = append(sections, layouts)

	b := cfg.Output.Backend
	outputs := widgets.Section{Title: fmt.Sprintf("MIDI outputs (%s)", b)}
	names, err := midi.ListOutPorts(b, midi.DefaultScanTimeout)
	if err != nil {
		outputs.Items = append(outputs.Items, widgets.Item{Name: "error", Desc: err.Error()})
	}
	for i, n := range names {
		outputs.Items = append(outputs.Items, widgets.Item{Name: fmt.Sprint(i), Desc: n})
	}
	sections = append(sections, outputs)

	devices := widgets.Section{Title: "Keyboards"}
	infos, err := input.ListDevices()
	if err != nil && !errors.Is(err, input.ErrUnsupported) {
		devices.Items = append(devices.Items, widgets.Item{Name: "error", Desc: err.Error()})
	}
	for _, d := range infos {
		devices.Items = append(devices.Items, widgets.Item{Name: d.Path, Desc: d.Name})
	}
	sections = append(sections, devices)

	fmt.Println(widgets.RenderSections(sections))
	return nil
}
