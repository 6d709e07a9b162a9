// deviation-export writes every stored deviation and the dashboard tables to
// an XLSX workbook. Storage is resolved from the same env as the server.
//
// Usage:
//
//	go run ./cmd/deviation-export -o desvios.xlsx
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/mmdatafocus/devitrack/config"
	"github.com/mmdatafocus/devitrack/models/reports"
	"github.com/mmdatafocus/devitrack/store"
	"github.com/sirupsen/logrus"
)

func main() {
	out := flag.String("o", "desvios.xlsx", "Output file path")
	flag.Parse()

	n, err := run(context.Background(), config.Load(), config.GetLogger(), *out)
	if err != nil {
		fmt.Fprintf(os.Stderr, "export failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("exported %d deviations to %s\n", n, *out)
}

func run(ctx context.Context, cfg config.AppConfig, logger *logrus.Logger, out string) (int, error) {
	repo, closeStore, err := store.Open(ctx, cfg, logger)
	if err != nil {
		return 0, err
	}
	defer closeStore()

	list, err := repo.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list deviations: %w", err)
	}
	stats := reports.BuildDashboardStats(list)
	f, err := reports.ExportExcel(list, stats)
	if err != nil {
		return 0, fmt.Errorf("build workbook: %w", err)
	}
	defer f.Close()

	if err := f.SaveAs(out); err != nil {
		return 0, fmt.Errorf("save %s: %w", out, err)
	}
	return stats.TotalDeviations, nil
}
