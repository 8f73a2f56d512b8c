package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/trezcool/tawajud/apps"
	"github.com/trezcool/tawajud/core/calendar"
	"github.com/trezcool/tawajud/core/dataset"
	"github.com/trezcool/tawajud/core/stats"
)

var errHelp = errors.New("help provided")

type commandLine struct {
	store dataset.Store
	stats *stats.Engine
	out   io.Writer
	now   func() time.Time
	// persistent is false when no override path is configured: overrides would die with the process.
	persistent bool
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  integrity - list the data inconsistencies of the snapshot in effect")
	fmt.Fprintln(cli.out, "  stats -region NAME [-lang ar|en] [-tab Day|Month|Year] [-start YYYY-MM-DD -end YYYY-MM-DD] - print a region's stats")
	fmt.Fprintln(cli.out, "  override -file PATH - replace the snapshot with the one stored at PATH")
	fmt.Fprintln(cli.out, "  clear-override - go back to the bundled snapshot")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	statsCmd := flag.NewFlagSet("stats", flag.ContinueOnError)
	statsCmd.SetOutput(cli.out)
	statsRegion := statsCmd.String("region", "", "The region's name, in the chosen language.")
	statsLang := statsCmd.String("lang", string(dataset.LangEn), "The language of the region's name: ar or en.")
	statsTab := statsCmd.String("tab", string(calendar.TabMonth), "The reporting period: Day, Month or Year.")
	statsStart := statsCmd.String("start", "", "First day of an explicit period. Needs -end.")
	statsEnd := statsCmd.String("end", "", "Last day of an explicit period. Needs -start.")

	overrideCmd := flag.NewFlagSet("override", flag.ContinueOnError)
	overrideCmd.SetOutput(cli.out)
	overrideFile := overrideCmd.String("file", "", "Path to a JSON snapshot.")

	switch args[1] {
	case "integrity":
		return cli.integrity()
	case "stats":
		if err := statsCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *statsRegion == "" {
			statsCmd.Usage()
			return errHelp
		}
		r, err := cli.period(*statsTab, *statsStart, *statsEnd)
		if err != nil {
			return err
		}
		return cli.regionStats(*statsRegion, dataset.Lang(*statsLang), r)
	case "override":
		if err := overrideCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *overrideFile == "" {
			overrideCmd.Usage()
			return errHelp
		}
		return cli.override(*overrideFile)
	case "clear-override":
		return cli.clearOverride()
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) period(tab, start, end string) (calendar.Range, error) {
	if start != "" || end != "" {
		if start == "" || end == "" {
			return calendar.Range{}, apps.NewArgumentError("-start and -end go together")
		}
		return calendar.NewRange(start, end), nil
	}
	t, err := calendar.ParseTab(tab)
	if err != nil {
		return calendar.Range{}, apps.NewArgumentError(fmt.Sprintf("-tab must be one of [Day Month Year] (got %q)", tab))
	}
	return calendar.TabPeriod(t, cli.now()).Days(), nil
}

func (cli *commandLine) integrity() error {
	issues := cli.store.Index().CheckIntegrity()
	if len(issues) == 0 {
		fmt.Fprintln(cli.out, "no issues found")
		return nil
	}
	for _, issue := range issues {
		fmt.Fprintln(cli.out, issue)
	}
	fmt.Fprintf(cli.out, "%d issue(s) found\n", len(issues))
	return nil
}

func (cli *commandLine) regionStats(name string, lang dataset.Lang, r calendar.Range) error {
	id, ok := cli.store.Index().RegionIDByName(name, lang)
	if !ok {
		return apps.NewArgumentError(fmt.Sprintf("unknown region %q", name))
	}
	enc := json.NewEncoder(cli.out)
	enc.SetIndent("", "  ")
	return enc.Encode(cli.stats.RegionStats(id, r))
}

func (cli *commandLine) override(path string) error {
	if !cli.persistent {
		return apps.NewArgumentError("no override path configured (data.overridePath)")
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	snap, err := dataset.Decode(f)
	if err != nil {
		return err
	}
	if err = cli.store.Replace(snap); err != nil {
		return err
	}
	fmt.Fprintln(cli.out, "snapshot override saved")
	return cli.integrity()
}

func (cli *commandLine) clearOverride() error {
	if err := cli.store.ClearOverride(); err != nil {
		return err
	}
	fmt.Fprintln(cli.out, "snapshot override cleared")
	return nil
}
