// Copyright 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

// Command csv2xlsx streams a CSV file into a partitioned xlsx output:
// one sheet per segment in a single workbook by default, one workbook
// file per segment with -split. The first CSV record becomes the header
// row, replicated at the top of every segment.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/UNO-SOFT/zlog/v2"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
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
	fs := flag.NewFlagSet("csv2xlsx", flag.ContinueOnError)
	fs.Var(&verbose, "v", "logging verbosity")
	flagEnc := fs.String("charset", xlsplit.EncName, "csv charset name")
	flagOut := fs.String("o", "", "output file name (default: input + .xlsx)")
	flagMaxRows := fs.Int64("max-rows", xlsx.MaxRowCount-1, "maximum data rows per segment")
	flagBatch := fs.Int("batch", xlsplit.DefaultBatchSize, "rows written between flushes")
	flagSplit := fs.Bool("split", false, "one workbook file per segment")
	flagSheet := fs.String("sheet", "Sheet", "sheet name base")
	flagWorkers := fs.Int("workers", 1, "parallel encode workers")
	flagS3 := fs.String("s3", "", "write to s3://bucket/key instead of a local file")

	app := ffcli.Command{Name: "csv2xlsx", ShortUsage: "csv2xlsx [flags] input.csv",
		FlagSet: fs,
		Exec: func(ctx context.Context, args []string) error {
			if len(args) == 0 {
				return fmt.Errorf("input csv file is required")
			}
			cr, err := xlsplit.OpenCsv(args[0], *flagEnc)
			if err != nil {
				return err
			}
			defer cr.Close()

			headers, err := cr.Read()
			if err != nil {
				return err
			}
			cols := make([]xlsplit.Column, len(headers))
			for i, name := range headers {
				cols[i].Name = name
				cols[i].Header.FontBold = true
			}

			out := *flagOut
			if out == "" {
				out = strings.TrimSuffix(args[0], ".csv") + ".xlsx"
			}
			asm, finish, abort, err := newAssembler(ctx, out, *flagS3, *flagSplit, *flagSheet)
			if err != nil {
				return err
			}

			stats, err := xlsplit.Copy(ctx, asm, xlsplit.CSVSource(cr.Reader),
				xlsplit.WithCapacity(*flagMaxRows),
				xlsplit.WithBatchSize(*flagBatch),
				xlsplit.WithColumns(cols...),
				xlsplit.WithEncodeWorkers(*flagWorkers),
				xlsplit.WithLogger(logger),
			)
			if err != nil {
				abort()
				return err
			}
			if err = asm.Close(); err != nil {
				abort()
				return err
			}
			if err = finish(); err != nil {
				return err
			}
			logger.Info("written", "output", out,
				"rows", stats.Rows, "segments", stats.Segments, "flushes", stats.Flushes)
			return nil
		}}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	return app.ParseAndRun(ctx, os.Args[1:])
}

// newAssembler wires the output side: local file or S3, one shared
// workbook or one file per segment. finish closes the sink the
// single-file modes keep open across segments; abort tears it down
// without letting a partial output look complete.
func newAssembler(ctx context.Context, out, s3url string, split bool, sheetBase string) (xlsplit.Assembler, func() error, func(), error) {
	noop := func() error { return nil }
	if s3url == "" {
		if split {
			return xlsx.NewSplitWriter(out), noop, func() {}, nil
		}
		sink, err := xlsplit.NewFileSink(out)
		if err != nil {
			return nil, nil, nil, err
		}
		abort := func() {
			sink.Close()
			os.Remove(sink.Path())
		}
		return xlsx.NewWriter(sink, sheetBase), sink.Close, abort, nil
	}

	bucket, key, err := splitS3URL(s3url)
	if err != nil {
		return nil, nil, nil, err
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	client := s3.NewFromConfig(cfg)
	if split {
		asm := xlsx.NewSplitWriterFunc(func(entry xlsplit.PlanEntry) (xlsplit.Sink, error) {
			return xlsplit.NewS3Sink(ctx, client, bucket, entry.FileName(key), 0)
		})
		return asm, noop, func() {}, nil
	}
	sink, err := xlsplit.NewS3Sink(ctx, client, bucket, key, 0)
	if err != nil {
		return nil, nil, nil, err
	}
	return xlsx.NewWriter(sink, sheetBase), sink.Close, func() { sink.Abort() }, nil
}

func splitS3URL(s string) (bucket, key string, err error) {
	rest, ok := strings.CutPrefix(s, "s3://")
	if !ok {
		return "", "", fmt.Errorf("%q: want s3://bucket/key", s)
	}
	if bucket, key, ok = strings.Cut(rest, "/"); !ok || bucket == "" || key == "" {
		return "", "", fmt.Errorf("%q: want s3://bucket/key", s)
	}
	return bucket, key, nil
}
