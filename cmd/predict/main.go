package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"slices"
	"strconv"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/olekukonko/tablewriter"

	"github.com/JaimeStill/rankwise/internal/config"
	"github.com/JaimeStill/rankwise/internal/cutoffs"
	"github.com/JaimeStill/rankwise/internal/eligibility"
	"github.com/JaimeStill/rankwise/pkg/database"
)

func main() {
	err := run(os.Args[1:])
	if err != nil && !errors.Is(err, flag.ErrHelp) {
		log.Fatal(err)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("predict", flag.ContinueOnError)
	var (
		rank     = fs.Int("rank", 0, "Candidate rank")
		branch   = fs.String("branch", "", "Branch of study")
		category = fs.String("category", "", "Reservation category")
		quota    = fs.String("quota", "", "Admission quota")
		year     = fs.Int("year", 0, "Cutoff year (current year when -history is set)")
		location = fs.String("location", "", "Only institutions whose location contains this text")
		instCat  = fs.String("institution-category", "", "Only institutions of this category")
		history  = fs.Bool("history", false, "Classify against the years before -year")
		back     = fs.Int("years-back", 0, "Years to include with -history")
		track    = fs.Bool("track", false, "Record the lookup")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("env file load failed: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config load failed: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	db, err := database.New(&cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("database init failed: %w", err)
	}
	conn := db.Connection()
	defer conn.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := conn.PingContext(pingCtx); err != nil {
		return fmt.Errorf("database unreachable: %w", err)
	}

	var recorder eligibility.Recorder
	if *track {
		recorder = eligibility.NewRecorder(conn)
	}

	engine := eligibility.NewEngine(
		cutoffs.New(conn, logger, cfg.API.Pagination),
		recorder,
		nil,
		logger,
		cfg.Eligibility.YearsBack,
	)

	q := eligibility.Query{
		Rank:     *rank,
		Branch:   *branch,
		Category: *category,
		Quota:    *quota,
		Year:     *year,
		Track:    *track,
	}
	if *location != "" {
		q.Location = location
	}
	if *instCat != "" {
		q.InstitutionCategory = instCat
	}

	if *history {
		byYear, err := engine.ClassifyAcrossYears(ctx, q, *year, *back)
		if err != nil {
			return err
		}

		years := make([]int, 0, len(byYear))
		for y := range byYear {
			years = append(years, y)
		}
		slices.Sort(years)
		slices.Reverse(years)

		for _, y := range years {
			render(y, byYear[y])
		}
		return nil
	}

	results, err := engine.Classify(ctx, q)
	if err != nil {
		return err
	}
	render(*year, results)
	return nil
}

var tierColors = map[eligibility.Chance]*color.Color{
	eligibility.ChanceHigh:     color.New(color.FgGreen),
	eligibility.ChanceModerate: color.New(color.FgYellow),
	eligibility.ChanceLow:      color.New(color.FgRed),
}

func render(year int, results []eligibility.Candidate) {
	color.Cyan("\n=== %d: %d eligible ===", year, len(results))
	if len(results) == 0 {
		color.Yellow("No institutions match this rank.")
		return
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Institution", "Location", "Type", "Opening", "Closing", "Margin", "Chance"})

	for _, c := range results {
		label := c.TierLabel
		if paint, ok := tierColors[c.Tier]; ok {
			label = paint.Sprint(label)
		}
		table.Append([]string{
			c.InstitutionName,
			c.InstitutionLocation,
			c.InstitutionCategory,
			strconv.Itoa(c.OpeningRank),
			strconv.Itoa(c.ClosingRank),
			fmt.Sprintf("%.1f%%", c.Margin),
			label,
		})
	}

	table.Render()
}
