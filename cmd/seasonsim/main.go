package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/dustin/go-humanize"

	staticcatalog "terragrow/internal/adapter/catalog/static"
	"terragrow/internal/adapter/random"
	"terragrow/internal/adapter/repo/memory"
	"terragrow/internal/adapter/weather/scenario"
	"terragrow/internal/adapter/weather/synthetic"
	"terragrow/internal/app/harvest"
	"terragrow/internal/app/loan"
	"terragrow/internal/app/newgame"
	"terragrow/internal/app/ports"
	"terragrow/internal/app/step"
	"terragrow/internal/domain/season"
)

type options struct {
	Region      string
	Crop        string
	Soil        string
	Irrigation  float64
	Fertilizer  float64
	Seed        uint64
	Loan        bool
	ScenarioDir string
	Sheet       string
}

func main() {
	var opts options
	flag.StringVar(&opts.Region, "region", "iowa", "region key")
	flag.StringVar(&opts.Crop, "crop", "", "crop key (default: region recommendation)")
	flag.StringVar(&opts.Soil, "soil", "", "soil key (default: region soil)")
	flag.Float64Var(&opts.Irrigation, "irrigation", 20, "weekly irrigation in mm")
	flag.Float64Var(&opts.Fertilizer, "fertilizer", 10, "weekly fertilizer in kg N/ha")
	flag.Uint64Var(&opts.Seed, "seed", 1, "seed for weather and events")
	flag.BoolVar(&opts.Loan, "loan", false, "accept the emergency loan when a step is refused for budget")
	flag.StringVar(&opts.ScenarioDir, "scenarios", "", "directory of recorded weather scenarios")
	flag.StringVar(&opts.Sheet, "catalog", "", "csv or xlsx catalog override")
	flag.Parse()

	if err := run(context.Background(), opts, os.Stdout); err != nil {
		log.Fatalf("seasonsim: %v", err)
	}
}

func run(ctx context.Context, opts options, out io.Writer) error {
	cat := staticcatalog.New()
	if opts.Sheet != "" {
		if err := cat.LoadFile(opts.Sheet); err != nil {
			return err
		}
	}
	store := memory.NewStore()
	repo := memory.NewSessionRepo(store)
	tx := memory.NewTxManager(store)

	var weather ports.WeatherProvider = synthetic.Provider{Seed: int64(opts.Seed)}
	if opts.ScenarioDir != "" {
		weather = scenario.Provider{Root: opts.ScenarioDir, Fallback: weather}
	}

	created, err := newgame.UseCase{Repo: repo, Catalog: cat, Weather: weather}.Execute(ctx, newgame.Request{
		RegionKey: opts.Region,
		CropKey:   opts.Crop,
		SoilKey:   opts.Soil,
	})
	if err != nil {
		return err
	}
	id := created.Session.ID
	fmt.Fprintf(out, "%s | %s on %s | budget %s\n",
		created.Session.Region.Name, created.Session.Crop.Name, created.Session.Soil.Type, season.Money(created.Session.Budget))

	stepper := step.UseCase{TxManager: tx, Repo: repo, RNG: random.NewSeeded(opts.Seed)}
	lender := loan.UseCase{TxManager: tx, Repo: repo}
	req := step.Request{SessionID: id, IrrigationMM: opts.Irrigation, FertilizerKG: opts.Fertilizer}
	water := 0.0
	for {
		res, err := stepper.Execute(ctx, req)
		var budgetErr *season.InsufficientBudgetError
		switch {
		case errors.As(err, &budgetErr) && opts.Loan && budgetErr.Offer != nil:
			if _, err := lender.Execute(ctx, loan.Request{SessionID: id}); err != nil {
				return err
			}
			fmt.Fprintf(out, "loan accepted: %s\n", season.Money(budgetErr.Offer.Amount))
			continue
		case errors.As(err, &budgetErr):
			// out of money: let the rest of the season run dry
			req.IrrigationMM, req.FertilizerKG = 0, 0
			continue
		case err != nil:
			return err
		}
		water += req.IrrigationMM
		fmt.Fprintf(out, "week %2d  ndvi %.2f  moisture %5.1f%%  %-8s budget %s\n",
			res.WeekPlayed, res.Crop.NDVI, res.Soil.Moisture, res.Growth.Health, season.Money(res.Budget))
		if res.Event != nil {
			fmt.Fprintf(out, "         event: %s\n", res.Event.Name)
		}
		if res.IsComplete {
			break
		}
	}

	report, err := harvest.UseCase{Repo: repo}.Execute(ctx, harvest.Request{SessionID: id})
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "yield %.2f %s (%+.0f%% vs regional %.1f)\n", report.Yield, report.YieldUnit, report.YieldDiff, report.RegionalAvg)
	fmt.Fprintf(out, "revenue %s  costs %s  profit %s\n",
		season.Money(report.Revenue), season.Money(report.TotalCosts), season.Money(report.Profit))
	fmt.Fprintf(out, "water %s mm  sustainability %.0f  stars %d/5\n",
		humanize.Commaf(water), report.Sustainability, report.Stars)
	for _, rec := range report.Recommendations {
		fmt.Fprintf(out, "- %s\n", rec.Text)
	}
	return nil
}
