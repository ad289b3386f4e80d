// Command viewdump decodes a captured summary buffer and prints its entries.
// It is meant for checking what a store actually sends against what the
// decoder expects.
//
//	viewdump -config dump.toml -entries 20 buffer.bin
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/RichardKnop/viewscan/internal/pkg/logging"
	"github.com/RichardKnop/viewscan/internal/pkg/util"
	"github.com/RichardKnop/viewscan/internal/viewscan"
)

const cliName = "viewdump"

func main() {
	logger, err := logging.FromEnv("info")
	if err != nil {
		panic(err)
	}
	defer logger.Sync() // flushes buffer, if any

	if err := run(os.Args[1:], os.Stdin, os.Stdout, logger); err != nil {
		logger.Sugar().With("error", err).Error(cliName + " failed")
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout io.Writer, logger *zap.Logger) error {
	var (
		flags      = flag.NewFlagSet(cliName, flag.ContinueOnError)
		configPath = flags.String("config", "", "TOML file describing the captured scan step")
		fields     = flags.String("fields", "", "comma separated field mask, e.g. noteid,position,values")
		entries    = flags.Uint("entries", 0, "number of entries in the buffer")
		charset    = flags.String("charset", "", "native character set of text values")
		gmtOffset  = flags.Int("gmt-offset", 0, "decode zone offset in minutes east of GMT")
		daylight   = flags.Bool("daylight", false, "daylight saving in effect")
		columns    = flags.String("columns", "", "comma separated column names")
		only       = flags.String("only", "", "comma separated column indexes to decode")
	)
	flags.SetOutput(stdout)
	if err := flags.Parse(args); err != nil {
		return err
	}
	if flags.NArg() != 1 {
		return fmt.Errorf("expected one buffer file, use - for stdin")
	}

	cfg := defaultDumpConfig()
	if *configPath != "" {
		var err error
		cfg, err = loadDumpConfig(*configPath)
		if err != nil {
			return err
		}
	}

	// Flags given on the command line win over the file.
	var flagErr error
	flags.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "fields":
			mask, err := parseFieldMask(strings.Split(*fields, ","))
			if err != nil {
				flagErr = err
				return
			}
			cfg.Mask = mask
		case "entries":
			cfg.Entries = uint32(*entries)
		case "charset":
			cfg.Charset = *charset
		case "gmt-offset":
			cfg.DTC.GMTOffsetMinutes = *gmtOffset
		case "daylight":
			cfg.DTC.Daylight = *daylight
		case "columns":
			cfg.Columns = normalizeNames(strings.Split(*columns, ","))
		case "only":
			filter, err := parseColumnFilter(*only)
			if err != nil {
				flagErr = err
				return
			}
			cfg.Filter = filter
		}
	})
	if flagErr != nil {
		return flagErr
	}

	buf, err := readBuffer(flags.Arg(0), stdin)
	if err != nil {
		return err
	}

	logger.Sugar().With(
		"bytes", len(buf),
		"entries", cfg.Entries,
		"field_mask", cfg.Mask.String(),
		"charset", cfg.Charset,
	).Debug("decoding buffer")

	return dump(stdout, buf, cfg)
}

func readBuffer(path string, stdin io.Reader) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read buffer: %w", err)
	}
	return buf, nil
}

func parseColumnFilter(s string) (viewscan.ColumnFilter, error) {
	var columns []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		column, err := strconv.Atoi(part)
		if err != nil || column < 0 {
			return nil, fmt.Errorf("invalid column index %q", part)
		}
		columns = append(columns, column)
	}
	return viewscan.NewColumnFilter(columns...), nil
}

func dump(w io.Writer, buf []byte, cfg dumpConfig) error {
	codec, err := viewscan.TextCodecForCharset(cfg.Charset, 0)
	if err != nil {
		return err
	}

	decoder := viewscan.NewDecoder(codec, cfg.DTC, cfg.Columns...)
	stats, entries, err := decoder.Decode(buf, cfg.Entries, cfg.Mask, cfg.Filter)
	if err != nil {
		var corruptErr *viewscan.BufferCorruptError
		if errors.As(err, &corruptErr) {
			fmt.Fprintf(w, "buffer corrupt at offset %d of %d\n", corruptErr.Offset, len(buf))
		}
		return err
	}

	if stats != nil {
		fmt.Fprintf(w, "top level entries: %d\n", stats.TopLevelEntries)
		fmt.Fprintf(w, "last modified: %s\n", stats.LastModified.Time(cfg.DTC).Format("2006-01-02 15:04:05.00 MST"))
	}
	if len(entries) == 0 {
		fmt.Fprintln(w, "no entries")
		return nil
	}

	columns := entryColumns(cfg, entries)
	util.PrintTableHeader(w, columns)
	for _, entry := range entries {
		util.PrintTableRow(w, columns, entryRow(cfg, entry, len(columns)))
	}
	util.PrintTableEnd(w, columns)

	return nil
}
