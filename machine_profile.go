// machine_profile.go - YAML machine profile

/*
(c) 2025 - 2026 belykhm
https://github.com/belykhm/stm32f407-z80emu
License: GPLv3 or later
*/

/*
machine_profile.go - Machine Profile

Persistent host-side settings live in a small YAML file, command line flags
override it per run. A missing profile is created with defaults and a
commented template so the file is self-documenting.
*/

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// MachineProfile holds the persisted host configuration.
type MachineProfile struct {
	Scale       int    `yaml:"scale"`        // window scale factor
	Fullscreen  bool   `yaml:"fullscreen"`   // start fullscreen
	SnapshotDir string `yaml:"snapshot_dir"` // SD card directory
	KeyClick    bool   `yaml:"key_click"`    // beeper key click
	Quiet       bool   `yaml:"quiet"`        // suppress diagnostics
}

// DefaultProfile returns the settings used when no profile exists.
func DefaultProfile() MachineProfile {
	return MachineProfile{
		Scale:       2,
		SnapshotDir: "sdcard",
		KeyClick:    true,
	}
}

const profileTemplate = `# STM32 Spectrum machine profile
#
# scale:        integer window scale factor (1-8)
# fullscreen:   start in fullscreen mode
# snapshot_dir: directory holding .sna snapshots (the "SD card")
# key_click:    audible key click
# quiet:        suppress diagnostic output
`

// LoadProfile reads the profile at path, writing a default one first when
// the file does not exist.
func LoadProfile(path string) (MachineProfile, error) {
	profile := DefaultProfile()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		if werr := SaveProfile(path, profile); werr != nil {
			return profile, werr
		}
		return profile, nil
	}
	if err != nil {
		return profile, fmt.Errorf("profile: reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &profile); err != nil {
		return profile, fmt.Errorf("profile: parsing %s: %w", path, err)
	}
	if profile.Scale < 1 || profile.Scale > 8 {
		profile.Scale = DefaultProfile().Scale
	}
	if profile.SnapshotDir == "" {
		profile.SnapshotDir = DefaultProfile().SnapshotDir
	}
	return profile, nil
}

// SaveProfile writes the profile with its documentation header.
func SaveProfile(path string, profile MachineProfile) error {
	data, err := yaml.Marshal(profile)
	if err != nil {
		return fmt.Errorf("profile: encoding: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("profile: creating %s: %w", dir, err)
		}
	}
	out := append([]byte(profileTemplate), data...)
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("profile: writing %s: %w", path, err)
	}
	return nil
}
