// Package config provides the configuration model for lineruler.
//
// Settings come from layered sources, higher layers overriding lower:
//
//	┌─────────────────────────────┐
//	│  4. Command Line Flags      │  ← Highest priority (applied by cmd)
//	├─────────────────────────────┤
//	│  3. Environment Variables   │  ← LINERULER_*
//	├─────────────────────────────┤
//	│  2. Config File             │  ← .toml, .yaml or .yml
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │  ← Lowest priority
//	└─────────────────────────────┘
//
// # Basic Usage
//
//	cfg, err := config.Load("lineruler.toml")
//	if err != nil {
//	    return err
//	}
//	cfg.Ruler.Locale = override
//	if err := cfg.Validate(); err != nil {
//	    return err
//	}
//
// Load only merges; Validate runs once every layer, flags included, has
// been applied.
package config
