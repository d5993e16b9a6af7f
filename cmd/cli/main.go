package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/joho/godotenv"

	"github.com/eddie-greenwood/letool-bess-arbitrage-sub000/internal/analysis"
	"github.com/eddie-greenwood/letool-bess-arbitrage-sub000/internal/arb"
	"github.com/eddie-greenwood/letool-bess-arbitrage-sub000/internal/batch"
	"github.com/eddie-greenwood/letool-bess-arbitrage-sub000/internal/config"
	"github.com/eddie-greenwood/letool-bess-arbitrage-sub000/internal/data"
	"github.com/eddie-greenwood/letool-bess-arbitrage-sub000/internal/logger"
	"github.com/eddie-greenwood/letool-bess-arbitrage-sub000/internal/model"
	"github.com/eddie-greenwood/letool-bess-arbitrage-sub000/internal/prices"
	"github.com/eddie-greenwood/letool-bess-arbitrage-sub000/internal/sim"
)

func main() {
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "optimize":
		cmdOptimize(os.Args[2:])
	case "sweep":
		cmdSweep(os.Args[2:])
	case "rank":
		cmdRank(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Println("usage:")
	fmt.Println("  bess optimize --config examples/config.yaml --day day.json [--out trace.csv]")
	fmt.Println("  bess optimize --config examples/config.yaml --region NSW1 --date 2024-01-15")
	fmt.Println("  bess sweep    --config examples/config.yaml --days data/")
	fmt.Println("  bess rank     --days data/ [--limit 10]")
	fmt.Println("")
	fmt.Println("notes:")
	fmt.Println("  - day files are JSON documents or NEMWEB-style dispatch price CSVs")
	fmt.Println("  - --region/--date fetch the day from the service at PRICE_API_URL")
	fmt.Println("  - rank needs no battery: it scores days by an oracle profit bound")
}

func cmdOptimize(args []string) {
	fs := flag.NewFlagSet("optimize", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Path to YAML config")
	dayPath := fs.String("day", "", "Day file (JSON or CSV)")
	region := fs.String("region", "", "NEM region to fetch instead of --day")
	date := fs.String("date", "", "Trading date YYYY-MM-DD, with --region")
	batteryPath := fs.String("battery", "", "Battery preset YAML replacing the config battery")
	optName := fs.String("optimizer", "", "Optimizer override: dp or heuristic")
	mode := fs.String("mode", "", "Price mode override: raw, clamp or despike")
	outPath := fs.String("out", "", "Write the dispatch trace CSV here")
	_ = fs.Parse(args)

	cfg := loadConfig(*cfgPath)
	logger.Init(cfg.Log)

	day := loadOneDay(*dayPath, *region, *date)

	battery := cfg.Battery
	if *batteryPath != "" {
		preset, err := config.LoadBatteryFile(*batteryPath)
		if err != nil {
			fatal(err)
		}
		battery = preset
	}

	req := arb.Request{
		Day:       day,
		Battery:   battery.BatteryConfig,
		Optimizer: cfg.Optimizer.Name,
		Params:    cfg.Optimizer.Params(),
		CleanMode: prices.Mode(cfg.Prices.Mode),
	}
	if *optName != "" {
		req.Optimizer = *optName
	}
	if *mode != "" {
		req.CleanMode = prices.Mode(*mode)
	}

	res, err := arb.New().Run(req)
	if err != nil {
		fatal(err)
	}

	printSummary(day, res)

	if *outPath != "" {
		if err := os.MkdirAll(filepath.Dir(*outPath), 0o755); err != nil {
			fatal(err)
		}
		if err := sim.WriteOperationsCSV(*outPath, res.Operations); err != nil {
			fatal(err)
		}
		fmt.Printf("wrote %d rows to %s\n", len(res.Operations), *outPath)
	}
}

func cmdSweep(args []string) {
	fs := flag.NewFlagSet("sweep", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Path to YAML config")
	daysSpec := fs.String("days", "", "Day-file directory or comma-separated files")
	workers := fs.Int("workers", 0, "Worker count (0 = one per CPU)")
	timeout := fs.Duration("timeout", 0, "Per-day solve timeout (0 = none)")
	_ = fs.Parse(args)

	cfg := loadConfig(*cfgPath)
	logger.Init(cfg.Log)

	days := loadManyDays(*daysSpec)

	base := arb.Request{
		Battery:   cfg.Battery.BatteryConfig,
		Optimizer: cfg.Optimizer.Name,
		Params:    cfg.Optimizer.Params(),
		CleanMode: prices.Mode(cfg.Prices.Mode),
	}
	runner := batch.NewRunner(batch.Options{Workers: *workers, Timeout: *timeout})
	results := runner.Sweep(context.Background(), base, days)

	t := newTable()
	t.AppendHeader(table.Row{"region", "date", "revenue", "cycles", "spread", "elapsed", "error"})
	var revenue, cycles float64
	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			t.AppendRow(table.Row{r.Region, r.Date, "", "", "", r.Elapsed.Round(time.Millisecond), r.Err.Error()})
			continue
		}
		revenue += r.Result.Revenue
		cycles += r.Result.Cycles
		t.AppendRow(table.Row{
			r.Region, r.Date,
			fmt.Sprintf("$%.2f", r.Result.Revenue),
			fmt.Sprintf("%.2f", r.Result.Cycles),
			fmt.Sprintf("$%.2f", r.Result.RealizedSpread),
			r.Elapsed.Round(time.Millisecond),
			"",
		})
	}
	t.AppendFooter(table.Row{
		"total", fmt.Sprintf("%d days, %d failed", len(results), failed),
		fmt.Sprintf("$%.2f", revenue), fmt.Sprintf("%.2f", cycles), "", "", "",
	})
	t.Render()
}

func cmdRank(args []string) {
	fs := flag.NewFlagSet("rank", flag.ExitOnError)
	daysSpec := fs.String("days", "", "Day-file directory or comma-separated files")
	limit := fs.Int("limit", 0, "Show only the top N days (0 = all)")
	_ = fs.Parse(args)

	days := loadManyDays(*daysSpec)

	ranked := analysis.RankByOracleProfit(days)
	if *limit > 0 && *limit < len(ranked) {
		ranked = ranked[:*limit]
	}

	t := newTable()
	t.AppendHeader(table.Row{"rank", "region", "date", "count", "p95-p05", "min/max", "oracle $"})
	for i, r := range ranked {
		t.AppendRow(table.Row{
			i + 1, r.Region, r.Date, r.Count,
			fmt.Sprintf("%.2f", r.SpreadP95P05),
			fmt.Sprintf("%.1f/%.1f", r.MinPrice, r.MaxPrice),
			fmt.Sprintf("%.2f", r.OracleProfit),
		})
	}
	t.Render()
}

func printSummary(day model.TradingDay, res *model.OptimizationResult) {
	t := newTable()
	t.AppendHeader(table.Row{"metric", "value"})
	t.AppendRows([]table.Row{
		{"day", fmt.Sprintf("%s %s", day.Region, day.Date)},
		{"optimizer", res.Optimizer},
		{"revenue", fmt.Sprintf("$%.2f", res.Revenue)},
		{"cycles", fmt.Sprintf("%.3f", res.Cycles)},
		{"energy charged", fmt.Sprintf("%.3f MWh", res.EnergyChargedMWh)},
		{"energy discharged", fmt.Sprintf("%.3f MWh", res.EnergyDischargedMWh)},
		{"avg charge price", fmt.Sprintf("$%.2f", res.AvgChargePrice)},
		{"avg discharge price", fmt.Sprintf("$%.2f", res.AvgDischargePrice)},
		{"realized spread", fmt.Sprintf("$%.2f", res.RealizedSpread)},
		{"utilization", fmt.Sprintf("%.1f%%", res.UtilizationPct)},
		{"final soc", fmt.Sprintf("%.3f MWh", res.FinalSoCMWh)},
	})
	if res.Calibration != nil {
		t.AppendRow(table.Row{"throughput cost", fmt.Sprintf(
			"$%.2f/MWh (%d iterations, converged=%t)",
			res.Calibration.ThroughputCost, res.Calibration.Iterations, res.Calibration.Converged,
		)})
	}
	t.Render()
}

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	return t
}

func loadConfig(path string) *config.Config {
	if path == "" {
		fmt.Println("--config is required")
		os.Exit(2)
	}
	cfg, err := config.Load(path)
	if err != nil {
		fatal(err)
	}
	return cfg
}

func loadOneDay(dayPath, region, date string) model.TradingDay {
	switch {
	case dayPath != "":
		day, err := data.LoadDay(dayPath)
		if err != nil {
			fatal(err)
		}
		return day
	case region != "" && date != "":
		client := data.NewPriceClient(os.Getenv("PRICE_API_KEY"), os.Getenv("PRICE_API_URL"))
		day, err := client.FetchDay(region, date)
		if err != nil {
			fatal(err)
		}
		return day
	}
	fmt.Println("either --day or --region and --date are required")
	os.Exit(2)
	return model.TradingDay{}
}

func loadManyDays(spec string) []model.TradingDay {
	if spec == "" {
		fmt.Println("--days is required")
		os.Exit(2)
	}

	var days []model.TradingDay
	for _, p := range splitPaths(spec) {
		info, err := os.Stat(p)
		if err != nil {
			fatal(err)
		}
		if info.IsDir() {
			loaded, err := data.LoadDays(p)
			if err != nil {
				fatal(err)
			}
			days = append(days, loaded...)
			continue
		}
		day, err := data.LoadDay(p)
		if err != nil {
			fatal(err)
		}
		days = append(days, day)
	}
	if len(days) == 0 {
		fatal(fmt.Errorf("no day files under %s", spec))
	}
	return days
}

func splitPaths(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
