package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/eddie-greenwood/letool-bess-arbitrage-sub000/internal/data"
)

// fetch-days pulls trading days from the price service and writes one JSON
// day file per region-date, in the shape the CLI and sweep consume.
func main() {
	var (
		regions = flag.String("regions", "NSW1", "Comma-separated NEM regions")
		from    = flag.String("from", "", "First trading date YYYY-MM-DD")
		to      = flag.String("to", "", "Last trading date YYYY-MM-DD (default: --from)")
		outDir  = flag.String("out", "data/days", "Output directory")
	)
	flag.Parse()
	_ = godotenv.Load()

	if *from == "" {
		log.Fatal("--from is required")
	}
	start, err := time.Parse("2006-01-02", *from)
	if err != nil {
		log.Fatalf("bad --from date: %v", err)
	}
	end := start
	if *to != "" {
		end, err = time.Parse("2006-01-02", *to)
		if err != nil {
			log.Fatalf("bad --to date: %v", err)
		}
	}
	if end.Before(start) {
		log.Fatal("--to is before --from")
	}

	client := data.NewPriceClient(os.Getenv("PRICE_API_KEY"), os.Getenv("PRICE_API_URL"))

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Fatal(err)
	}

	fetched, failed := 0, 0
	for _, region := range splitRegions(*regions) {
		for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
			date := d.Format("2006-01-02")
			day, err := client.FetchDay(region, date)
			if err != nil {
				failed++
				fmt.Printf("  warn: %s %s: %v\n", region, date, err)
				continue
			}

			path := filepath.Join(*outDir, fmt.Sprintf("%s-%s.json", strings.ToLower(region), date))
			if err := data.SaveDayJSON(path, day); err != nil {
				log.Fatalf("write %s: %v", path, err)
			}
			fetched++
			fmt.Printf("  ok: %s (%d intervals)\n", path, len(day.Intervals))
		}
	}

	fmt.Printf("fetched %d day files to %s (%d failed)\n", fetched, *outDir, failed)
	if fetched == 0 {
		os.Exit(1)
	}
}

func splitRegions(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(strings.ToUpper(p))
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
