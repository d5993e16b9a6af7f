// Package data loads trading-day price series from disk and from the
// price API. Missing samples surface as NaN so the preprocessor can
// substitute them; nothing here invents a price.
package data

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/eddie-greenwood/letool-bess-arbitrage-sub000/internal/model"
)

const settlementLayout = "2006/01/02 15:04:05"

// dayDocument is the JSON wire shape for one region-day, shared by day
// files and the price API.
type dayDocument struct {
	Region          string        `json:"region"`
	Date            string        `json:"date"`
	IntervalMinutes int           `json:"interval_minutes"`
	Intervals       []intervalDoc `json:"intervals"`
}

type intervalDoc struct {
	Time  string   `json:"time"`
	Price *float64 `json:"price"`
}

func (d dayDocument) toTradingDay() model.TradingDay {
	day := model.TradingDay{
		Region:          d.Region,
		Date:            d.Date,
		IntervalMinutes: d.IntervalMinutes,
	}
	if day.IntervalMinutes == 0 {
		day.IntervalMinutes = 5
	}
	for i, iv := range d.Intervals {
		price := math.NaN()
		if iv.Price != nil {
			price = *iv.Price
		}
		day.Intervals = append(day.Intervals, model.PriceInterval{
			Index: i,
			Time:  iv.Time,
			Price: price,
		})
	}
	return day
}

// LoadDayJSON reads one trading-day document.
func LoadDayJSON(path string) (model.TradingDay, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return model.TradingDay{}, err
	}
	var doc dayDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return model.TradingDay{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return doc.toTradingDay(), nil
}

// SaveDayJSON writes a trading day in the document shape LoadDayJSON
// reads. NaN prices become null.
func SaveDayJSON(path string, day model.TradingDay) error {
	doc := dayDocument{
		Region:          day.Region,
		Date:            day.Date,
		IntervalMinutes: day.IntervalMinutes,
		Intervals:       make([]intervalDoc, len(day.Intervals)),
	}
	for i, iv := range day.Intervals {
		d := intervalDoc{Time: iv.Time}
		if !math.IsNaN(iv.Price) {
			p := iv.Price
			d.Price = &p
		}
		doc.Intervals[i] = d
	}
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o644)
}

// LoadDayCSV reads an AEMO-flavored dispatch price export: a header row
// naming at least SETTLEMENTDATE, REGIONID and RRP, one row per interval.
// Extra columns are ignored; an empty RRP field is a missing sample.
func LoadDayCSV(path string) (model.TradingDay, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.TradingDay{}, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	rows, err := r.ReadAll()
	if err != nil {
		return model.TradingDay{}, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(rows) < 2 {
		return model.TradingDay{}, fmt.Errorf("%s: no data rows", path)
	}

	timeCol, regionCol, priceCol := -1, -1, -1
	for i, name := range rows[0] {
		switch strings.ToUpper(strings.TrimSpace(name)) {
		case "SETTLEMENTDATE":
			timeCol = i
		case "REGIONID":
			regionCol = i
		case "RRP":
			priceCol = i
		}
	}
	if timeCol < 0 || regionCol < 0 || priceCol < 0 {
		return model.TradingDay{}, fmt.Errorf("%s: header must name SETTLEMENTDATE, REGIONID and RRP", path)
	}

	day := model.TradingDay{IntervalMinutes: 5}
	var stamps []time.Time

	for i, row := range rows[1:] {
		if len(row) <= timeCol || len(row) <= regionCol || len(row) <= priceCol {
			return model.TradingDay{}, fmt.Errorf("%s: row %d is short", path, i+2)
		}
		if day.Region == "" {
			day.Region = strings.TrimSpace(row[regionCol])
		}

		stamp := strings.TrimSpace(row[timeCol])
		if ts, err := time.Parse(settlementLayout, stamp); err == nil {
			stamps = append(stamps, ts)
			if day.Date == "" {
				day.Date = ts.Format("2006-01-02")
			}
		}

		price := math.NaN()
		if field := strings.TrimSpace(row[priceCol]); field != "" {
			price, err = strconv.ParseFloat(field, 64)
			if err != nil {
				return model.TradingDay{}, fmt.Errorf("%s: row %d: bad RRP %q", path, i+2, field)
			}
		}

		day.Intervals = append(day.Intervals, model.PriceInterval{
			Index: i,
			Time:  stamp,
			Price: price,
		})
	}

	if len(stamps) >= 2 {
		if m := int(stamps[1].Sub(stamps[0]).Minutes()); m > 0 {
			day.IntervalMinutes = m
		}
	}
	return day, nil
}

// LoadDay picks the loader by extension.
func LoadDay(path string) (model.TradingDay, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return LoadDayJSON(path)
	case ".csv":
		return LoadDayCSV(path)
	}
	return model.TradingDay{}, fmt.Errorf("%s: unsupported day file extension", path)
}

// LoadDays reads every day file in a directory, sorted by date then region.
func LoadDays(dir string) ([]model.TradingDay, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var days []model.TradingDay
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext != ".json" && ext != ".csv" {
			continue
		}
		day, err := LoadDay(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		days = append(days, day)
	}

	sort.Slice(days, func(i, j int) bool {
		if days[i].Date != days[j].Date {
			return days[i].Date < days[j].Date
		}
		return days[i].Region < days[j].Region
	})
	return days, nil
}

// GroupByRegion splits days into region-keyed slices.
func GroupByRegion(days []model.TradingDay) map[string][]model.TradingDay {
	out := map[string][]model.TradingDay{}
	for _, d := range days {
		out[d.Region] = append(out[d.Region], d)
	}
	return out
}
