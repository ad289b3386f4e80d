package main

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/RichardKnop/viewscan/internal/viewscan"
)

type fileConfig struct {
	FieldMask        []string `toml:"field_mask"`
	Entries          uint32   `toml:"entries"`
	GMTOffsetMinutes int      `toml:"gmt_offset_minutes"`
	Daylight         bool     `toml:"daylight"`
	Charset          string   `toml:"charset"`
	Columns          []string `toml:"columns"`
}

// dumpConfig describes how a captured buffer was requested: the field mask
// and entry count of the scan step, and the context to decode it in.
type dumpConfig struct {
	Mask     viewscan.FieldMask
	Entries  uint32
	DTC      viewscan.DateTimeContext
	Charset  string
	Columns  []string
	Filter   viewscan.ColumnFilter
}

func defaultDumpConfig() dumpConfig {
	return dumpConfig{
		Mask:    viewscan.FieldNoteID | viewscan.FieldPosition | viewscan.FieldSummaryValues,
		Entries: 1,
		Charset: "utf-8",
	}
}

func loadDumpConfig(path string) (dumpConfig, error) {
	cfg := defaultDumpConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return dumpConfig{}, fmt.Errorf("load viewdump config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return dumpConfig{}, fmt.Errorf("load viewdump config: unknown key %q", undecoded[0].String())
	}

	if meta.IsDefined("field_mask") {
		mask, err := parseFieldMask(raw.FieldMask)
		if err != nil {
			return dumpConfig{}, err
		}
		cfg.Mask = mask
	}

	if meta.IsDefined("entries") {
		cfg.Entries = raw.Entries
	}

	if meta.IsDefined("gmt_offset_minutes") {
		cfg.DTC.GMTOffsetMinutes = raw.GMTOffsetMinutes
	}

	if meta.IsDefined("daylight") {
		cfg.DTC.Daylight = raw.Daylight
	}

	if meta.IsDefined("charset") {
		if charset := strings.TrimSpace(raw.Charset); charset != "" {
			cfg.Charset = charset
		}
	}

	if meta.IsDefined("columns") {
		cfg.Columns = normalizeNames(raw.Columns)
	}

	return cfg, nil
}

func parseFieldMask(names []string) (viewscan.FieldMask, error) {
	mask, ok := viewscan.ParseFieldMask(names...)
	if !ok {
		return 0, fmt.Errorf("parse field_mask: unknown field in %q", strings.Join(names, ","))
	}
	return mask, nil
}

func normalizeNames(names []string) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		if name = strings.TrimSpace(name); name != "" {
			out = append(out, name)
		}
	}
	return out
}
