// Copyright 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

// Command db2xlsx streams a SQL query result into a partitioned xlsx
// file, one sheet per segment, without holding the result set in
// memory. The sqlite3 driver is compiled in; any other registered
// database/sql driver works through -driver.
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/UNO-SOFT/zlog/v2"
	_ "github.com/mattn/go-sqlite3"
	"github.com/peterbourgon/ff/v3/ffcli"

	"github.com/UNO-SOFT/xlsplit"
	"github.com/UNO-SOFT/xlsplit/xlsx"
)

var verbose zlog.VerboseVar
var logger = zlog.NewLogger(zlog.MaybeConsoleHandler(&verbose, os.Stderr)).SLog()

func main() {
	if err := Main(); err != nil {
		slog.Error("MAIN", "error", err)
		os.Exit(1)
	}
}

func Main() error {
	fs := flag.NewFlagSet("db2xlsx", flag.ContinueOnError)
	fs.Var(&verbose, "v", "logging verbosity")
	flagDriver := fs.String("driver", "sqlite3", "database/sql driver name")
	flagDSN := fs.String("dsn", "", "data source name")
	flagOut := fs.String("o", "export.xlsx", "output file name")
	flagMaxRows := fs.Int64("max-rows", xlsx.MaxRowCount-1, "maximum data rows per segment")
	flagBatch := fs.Int("batch", xlsplit.DefaultBatchSize, "rows written between flushes")
	flagSheet := fs.String("sheet", "Sheet", "sheet name base")

	app := ffcli.Command{Name: "db2xlsx", ShortUsage: "db2xlsx [flags] 'SELECT ...'",
		FlagSet: fs,
		Exec: func(ctx context.Context, args []string) error {
			if len(args) == 0 {
				return fmt.Errorf("a query is required")
			}
			db, err := sql.Open(*flagDriver, *flagDSN)
			if err != nil {
				return err
			}
			defer db.Close()

			rows, err := db.QueryContext(ctx, args[0])
			if err != nil {
				return fmt.Errorf("query: %w", err)
			}
			defer rows.Close()
			names, err := rows.Columns()
			if err != nil {
				return err
			}
			cols := make([]xlsplit.Column, len(names))
			for i, name := range names {
				cols[i].Name = name
				cols[i].Header.FontBold = true
			}
			src, err := xlsplit.SQLSource(rows)
			if err != nil {
				return err
			}

			sink, err := xlsplit.NewFileSink(*flagOut)
			if err != nil {
				return err
			}
			asm := xlsx.NewWriter(sink, *flagSheet)
			stats, err := xlsplit.Copy(ctx, asm, src,
				xlsplit.WithCapacity(*flagMaxRows),
				xlsplit.WithBatchSize(*flagBatch),
				xlsplit.WithColumns(cols...),
				xlsplit.WithLogger(logger),
			)
			if err != nil {
				sink.Close()
				return err
			}
			if err = asm.Close(); err != nil {
				sink.Close()
				return err
			}
			if err = sink.Close(); err != nil {
				return err
			}
			logger.Info("written", "output", *flagOut,
				"rows", stats.Rows, "segments", stats.Segments)
			return nil
		}}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	return app.ParseAndRun(ctx, os.Args[1:])
}
