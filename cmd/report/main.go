package main

import (
	"flag"
	"fmt"
	"os"

	"bizledger/internal/database"
	"bizledger/internal/logger"
	"bizledger/internal/models"
	"bizledger/internal/report"
	"bizledger/internal/services"
)

type options struct {
	Period   string
	DateFrom string
	DateTo   string
	Chart    string
}

func parseFlags() options {
	var opts options
	flag.StringVar(&opts.Period, "period", "month", "Bucket size: day, week, month or year")
	flag.StringVar(&opts.DateFrom, "from", "", "Inclusive start date (YYYY-MM-DD)")
	flag.StringVar(&opts.DateTo, "to", "", "Inclusive end date (YYYY-MM-DD)")
	flag.StringVar(&opts.Chart, "chart", "", "Write a PNG chart of expenses by category to this file")
	flag.Parse()
	return opts
}

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(parseFlags()); err != nil {
		logger.Get().Fatalf("Report error: %v", err)
	}
}

func run(opts options) error {
	r, err := dateRange(opts.DateFrom, opts.DateTo)
	if err != nil {
		return err
	}

	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer func() { _ = dbManager.Close() }()

	db := dbManager.DB()
	stats := services.NewStatisticsService(db, services.NewCategoryService(db))

	rep, err := report.Collect(stats, opts.Period, r)
	if err != nil {
		return err
	}
	rep.WriteText(os.Stdout)

	if opts.Chart == "" {
		return nil
	}
	f, err := os.Create(opts.Chart)
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	defer f.Close()

	if err := rep.WriteChart(f); err != nil {
		return err
	}
	fmt.Printf("\nChart saved to: %s\n", opts.Chart)
	return nil
}

func dateRange(from, to string) (services.DateRange, error) {
	var r services.DateRange
	if from != "" {
		d, err := models.ParseDate(from)
		if err != nil {
			return r, err
		}
		r.From = &d
	}
	if to != "" {
		d, err := models.ParseDate(to)
		if err != nil {
			return r, err
		}
		r.To = &d
	}
	return r, nil
}
