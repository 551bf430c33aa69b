package main

import (
	"agent-lab/repositories"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/kelseyhightower/envconfig"
	"github.com/mama165/sdk-go/logs"
	"github.com/olekukonko/tablewriter"
)

type Config struct {
	BadgerFilepath string `envconfig:"BADGER_FILEPATH" required:"true"`
	// INSPECT_KIND keeps only "agent" or "group" entries
	Kind string `envconfig:"INSPECT_KIND"`
	// INSPECT_COLOURS colours the header row
	Colours bool `envconfig:"INSPECT_COLOURS" default:"true"`
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithReadOnly(true).
		WithLogger(nil).
		WithBypassLockGuard(true))
	if err != nil {
		return fmt.Errorf("database opening failed: %w", err)
	}
	defer db.Close()

	entries, err := repositories.NewCacheRepository(db, logs.GetLoggerFromLevel(slog.LevelWarn)).LoadEntries()
	if err != nil {
		return err
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Kind != entries[j].Kind {
			return entries[i].Kind < entries[j].Kind
		}
		return strings.ToLower(entries[i].Name) < strings.ToLower(entries[j].Name)
	})

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader(header(config.Colours, "Kind", "UUID", "Name"))
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	for _, e := range entries {
		if config.Kind != "" && string(e.Kind) != config.Kind {
			continue
		}
		table.Append([]string{string(e.Kind), e.ID.String(), e.Name})
	}
	table.Render()
	return nil
}

func header(colours bool, titles ...string) []string {
	if !colours {
		return titles
	}
	style := color.New(color.BgBlack, color.FgGreen)
	out := make([]string, len(titles))
	for i, title := range titles {
		out[i] = style.Render(title)
	}
	return out
}
