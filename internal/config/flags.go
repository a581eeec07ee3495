// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package config

import "github.com/spf13/pflag"

// RegisterFlags defines one flag per configuration key. Flag defaults equal
// the built-in defaults, so an unchanged flag never overrides the file.
func RegisterFlags(fs *pflag.FlagSet) {
	d := defaultSnapshot()
	fs.String("config-version", d.ConfigVersion, "configuration format version")
	fs.Int("cooldown-seconds", d.CooldownSeconds, "quiet period between seat actions")
	fs.Bool("prevent-while-gliding", d.PreventWhileGliding, "refuse to seat gliding actors")
	fs.Bool("prevent-while-swimming", d.PreventWhileSwimming, "refuse to seat swimming actors")
	fs.Bool("prevent-while-falling", d.PreventWhileFalling, "refuse to seat falling actors")
	fs.Bool("prevent-in-liquid", d.PreventInLiquid, "refuse to seat actors standing in liquid")
	fs.StringSlice("blacklist-blocks", d.BlacklistBlocks, "surface names or glob patterns nobody may sit on")
	fs.Bool("auto-unsit.on-quit", d.AutoUnsit.OnQuit, "stand up on disconnect")
	fs.Bool("auto-unsit.on-world-change", d.AutoUnsit.OnWorldChange, "stand up on world change")
	fs.Bool("auto-unsit.on-teleport", d.AutoUnsit.OnTeleport, "stand up on teleport")
	fs.Bool("auto-unsit.on-sneak", d.AutoUnsit.OnSneak, "stand up on sneak")
	fs.Int("orphan-sweep-seconds", d.OrphanSweepSeconds, "interval of the periodic orphan sweep (0 disables it)")
}
