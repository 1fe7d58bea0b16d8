// main.go - entry point

/*
(c) 2025 - 2026 belykhm
https://github.com/belykhm/stm32f407-z80emu
License: GPLv3 or later
*/

package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
)

func boilerPlate() {
	fmt.Println("\nSTM32F407 ZX Spectrum " + FIRMWARE_VERSION)
	fmt.Println("VGA text console and Spectrum display on the desktop")
	fmt.Println("(c) 2025 - 2026 belykhm")
	fmt.Println("https://github.com/belykhm/stm32f407-z80emu")
	fmt.Println("License: GPLv3 or later")
}

func main() {
	var (
		profilePath string
		scale       int
		fullscreen  bool
		snapshotDir string
		headless    bool
		monitor     bool
		loadName    string
		noClick     bool
		quiet       bool
	)

	flagSet := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	flagSet.StringVar(&profilePath, "profile", "machine.yaml", "Machine profile path")
	flagSet.IntVar(&scale, "scale", 0, "Window scale factor (overrides profile)")
	flagSet.BoolVar(&fullscreen, "fullscreen", false, "Start fullscreen")
	flagSet.StringVar(&snapshotDir, "sd", "", "Snapshot directory (overrides profile)")
	flagSet.BoolVar(&headless, "headless", false, "Run without a window")
	flagSet.BoolVar(&monitor, "monitor", false, "Enable the stdin monitor")
	flagSet.StringVar(&loadName, "load", "", "Snapshot to load at startup")
	flagSet.BoolVar(&noClick, "noclick", false, "Disable the key click")
	flagSet.BoolVar(&quiet, "quiet", false, "Suppress diagnostic output")

	flagSet.Usage = func() {
		flagSet.SetOutput(os.Stdout)
		fmt.Println("Usage: ./stm32-spectrum [-profile machine.yaml] [-headless] [-monitor] [-load name.sna]")
		flagSet.PrintDefaults()
	}

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			flagSet.Usage()
			os.Exit(0)
		}
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	profile, err := LoadProfile(profilePath)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	if scale > 0 {
		profile.Scale = scale
	}
	if fullscreen {
		profile.Fullscreen = true
	}
	if snapshotDir != "" {
		profile.SnapshotDir = snapshotDir
	}
	if noClick {
		profile.KeyClick = false
	}
	Quiet = profile.Quiet || quiet

	if !Quiet {
		boilerPlate()
	}

	backend := VIDEO_BACKEND_EBITEN
	if headless {
		backend = VIDEO_BACKEND_HEADLESS
	}
	output, err := NewVideoOutput(backend)
	if err != nil {
		fmt.Printf("Failed to initialize video: %v\n", err)
		os.Exit(1)
	}
	if err := output.SetDisplayConfig(DisplayConfig{
		Width:       DISPLAY_WIDTH,
		Height:      DISPLAY_HEIGHT,
		Scale:       profile.Scale,
		RefreshRate: REFRESH_RATE,
		VSync:       true,
		Fullscreen:  profile.Fullscreen,
	}); err != nil {
		fmt.Printf("Failed to configure video: %v\n", err)
		os.Exit(1)
	}

	sd, err := NewSDCard(profile.SnapshotDir)
	if err != nil {
		fmt.Printf("Failed to open snapshot directory: %v\n", err)
		os.Exit(1)
	}

	var beeper *Beeper
	if !headless {
		if beeper, err = NewBeeper(); err != nil {
			logf("audio unavailable, running silent: %v", err)
			beeper = nil
		}
	}

	regs := &VGARegisters{}
	driver := NewVideoDriver(output, regs)
	fw := NewFirmware(driver, sd, beeper, profile.KeyClick)

	if sc, ok := output.(ScancodeCapable); ok {
		sc.SetScancodeHandler(fw.HandleScancode)
	}
	if st, ok := output.(StatusCapable); ok {
		st.SetStatusLine("SD: " + profile.SnapshotDir)
	}
	if tc, ok := output.(TokenCapable); ok {
		tc.SetDeviceTokens([]statusToken{
			{name: "VGA", enabled: true},
			{name: "KBD", enabled: true},
			{name: "SD", enabled: true},
			{name: "BEEP", enabled: beeper.Enabled()},
		})
	}

	if err := output.Start(); err != nil {
		fmt.Printf("Failed to start video: %v\n", err)
		os.Exit(1)
	}
	go driver.Run()

	if loadName != "" {
		fw.LoadSnapshot(loadName)
	}

	var host *TerminalHost
	if monitor {
		host = NewTerminalHost(NewMonitor(fw))
		host.Start()
	}

	if dc, ok := output.(DoneCapable); ok {
		<-dc.Done()
	} else {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
	}

	if host != nil {
		host.Stop()
	}
	driver.Stop()
	beeper.Close()
	_ = output.Close()
}
