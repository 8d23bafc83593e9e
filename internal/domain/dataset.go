package domain

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"time"
)

// TemperatureRecord is a single monthly observation.
type TemperatureRecord struct {
	Year     int     `json:"year"`
	Month    int     `json:"month"`    // 1 = January
	Variance float64 `json:"variance"` // °C relative to Dataset.BaseTemperature
}

// Temperature returns the absolute temperature for the record.
func (r TemperatureRecord) Temperature(base float64) float64 {
	return base + r.Variance
}

// Valid reports whether the record carries a usable year, month and variance.
func (r TemperatureRecord) Valid() bool {
	return r.Year != 0 && r.Month >= 1 && r.Month <= 12 && !math.IsNaN(r.Variance)
}

// Dataset is the loaded document. It is never mutated after decoding.
type Dataset struct {
	BaseTemperature float64             `json:"baseTemperature"`
	Records         []TemperatureRecord `json:"monthlyVariance"`
	LoadedAt        time.Time           `json:"-"`
}

// rawDataset mirrors the upstream JSON with pointer fields so that absent
// values can be told apart from zero.
type rawDataset struct {
	BaseTemperature *float64    `json:"baseTemperature"`
	MonthlyVariance []rawRecord `json:"monthlyVariance"`
}

type rawRecord struct {
	Year     *int     `json:"year"`
	Month    *int     `json:"month"`
	Variance *float64 `json:"variance"`
}

// DecodeDataset reads the upstream JSON document.
func DecodeDataset(r io.Reader) (Dataset, error) {
	var raw rawDataset
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return Dataset{}, fmt.Errorf("decode dataset: %w", err)
	}
	if raw.BaseTemperature == nil {
		return Dataset{}, fmt.Errorf("decode dataset: missing baseTemperature")
	}
	if raw.MonthlyVariance == nil {
		return Dataset{}, fmt.Errorf("decode dataset: missing monthlyVariance")
	}

	records := make([]TemperatureRecord, len(raw.MonthlyVariance))
	for i, rr := range raw.MonthlyVariance {
		rec := TemperatureRecord{Variance: math.NaN()}
		if rr.Year != nil {
			rec.Year = *rr.Year
		}
		if rr.Month != nil {
			rec.Month = *rr.Month
		}
		if rr.Variance != nil {
			rec.Variance = *rr.Variance
		}
		records[i] = rec
	}

	return Dataset{
		BaseTemperature: *raw.BaseTemperature,
		Records:         records,
		LoadedAt:        Now(),
	}, nil
}

// YearExtent returns the smallest and largest year. Both are zero for an
// empty dataset.
func (d Dataset) YearExtent() (minYear, maxYear int) {
	for i, r := range d.Records {
		if i == 0 || r.Year < minYear {
			minYear = r.Year
		}
		if i == 0 || r.Year > maxYear {
			maxYear = r.Year
		}
	}
	return minYear, maxYear
}

// TemperatureExtent returns the lowest and highest absolute temperature.
// NaN temperatures are skipped; both results are NaN when nothing remains.
func (d Dataset) TemperatureExtent() (lo, hi float64) {
	lo, hi = math.NaN(), math.NaN()
	for _, r := range d.Records {
		t := r.Temperature(d.BaseTemperature)
		if math.IsNaN(t) {
			continue
		}
		if math.IsNaN(lo) || t < lo {
			lo = t
		}
		if math.IsNaN(hi) || t > hi {
			hi = t
		}
	}
	return lo, hi
}

// MalformedCount returns how many records fail Valid.
func (d Dataset) MalformedCount() int {
	n := 0
	for _, r := range d.Records {
		if !r.Valid() {
			n++
		}
	}
	return n
}
