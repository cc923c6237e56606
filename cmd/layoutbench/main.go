// Command layoutbench times building and mutating N people as an array of
// structs and as a struct of arrays, logs the phase timings, and optionally
// publishes the report to the store named by PEOPLEDB_REPORT_DRIVER.
// With -list or -show it browses previously published reports instead.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"peopledb/internal/config"
	"peopledb/internal/core"
	"peopledb/internal/layout"
	"peopledb/internal/reports"
	rcore "peopledb/internal/reports/core"
	"time"
)

var exitFunc = os.Exit

var errNoReportStore = errors.New(config.EnvReportDriver + " names no report store")

func main() {
	exitFunc(cli(context.Background(), os.Args[1:], os.Getenv, os.Stdout, os.Stderr))
}

func cli(ctx context.Context, args []string, getenv func(string) string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("layoutbench", flag.ContinueOnError)
	fs.SetOutput(stderr)
	n := fs.Int("n", layout.DefaultN, "number of people to build in each layout")
	verify := fs.Bool("verify", false, "keep both layouts and check they agree (doubles peak memory)")
	list := fs.Bool("list", false, "list published reports instead of running")
	show := fs.String("show", "", "print the published report with this key instead of running")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	cfg, err := config.Load(getenv)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "invalid configuration: %v\n", err)
		return 2
	}
	logger := core.NewZerologLogger(stderr, cfg.LogLevel)

	store, err := reports.Open(ctx, cfg.Reports)
	if err != nil {
		logger.Error("open report store", "error", err)
		return 1
	}

	switch {
	case *list:
		err = listReports(ctx, store, stdout)
	case *show != "":
		err = showReport(ctx, store, *show, stdout)
	default:
		return runBench(ctx, store, layout.Config{N: *n, Verify: *verify}, logger)
	}
	if err != nil {
		logger.Error("browse reports", "error", err)
		return 1
	}
	return 0
}

func runBench(ctx context.Context, store rcore.Store, cfg layout.Config, logger core.Logger) int {
	report, err := layout.Run(cfg, time.Now)
	if err != nil {
		logger.Error("layout run failed", "id", report.ID, "error", err)
		return 1
	}
	logger.Info("layout run complete",
		"id", report.ID,
		"records", report.Records,
		"aos_construct", report.ArrayOfStructs.Construct,
		"aos_mutate", report.ArrayOfStructs.Mutate,
		"soa_construct", report.StructOfArrays.Construct,
		"soa_mutate", report.StructOfArrays.Mutate,
		"verified", report.Verified,
	)

	if store == nil {
		return 0
	}
	info, err := layout.Publish(ctx, store, report)
	if err != nil {
		logger.Error("publish report", "error", err)
		return 1
	}
	logger.Info("report published", "driver", string(store.Driver()), "key", info.Key, "size", info.Size)
	return 0
}

// listReports prints one line per published report. Listings carry no
// metadata on every driver, so each entry is completed with a Head.
func listReports(ctx context.Context, store rcore.Store, w io.Writer) error {
	if store == nil {
		return errNoReportStore
	}
	infos, err := store.List(ctx, layout.KeyPrefix)
	if err != nil {
		return err
	}
	for _, info := range infos {
		head, err := store.Head(ctx, info.Key)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "%s\t%d\trecords=%s\tverified=%s\n",
			head.Key, head.Size, head.Metadata["records"], head.Metadata["verified"]); err != nil {
			return err
		}
	}
	return nil
}

func showReport(ctx context.Context, store rcore.Store, key string, w io.Writer) error {
	if store == nil {
		return errNoReportStore
	}
	_, body, err := store.Get(ctx, key)
	if err != nil {
		return err
	}
	defer func() { _ = body.Close() }()
	_, err = io.Copy(w, body)
	return err
}
