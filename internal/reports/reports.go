// Package reports derives the figures shown on the dashboard and reports pages from the claims API summary.
package reports

import (
	"math"
	"strings"
)

// Summary is the aggregate report returned by the claims API.
type Summary struct {
	Timeseries   []MonthlyBeneficiaries
	ByType       []TypeShare
	TopDistricts []DistrictBeneficiaries
}

type MonthlyBeneficiaries struct {
	Month         string
	Beneficiaries int
}

type TypeShare struct {
	Type  string
	Value float64
}

type DistrictBeneficiaries struct {
	Name          string
	Beneficiaries int
}

// Empty reports whether the summary has nothing to show.
func (s Summary) Empty() bool {
	return len(s.Timeseries) == 0 && len(s.ByType) == 0 && len(s.TopDistricts) == 0
}

// Headlines are the key figures shown above the charts.
type Headlines struct {
	LatestMonth         string
	LatestBeneficiaries int
	// GrowthPercent is the month-over-month change of beneficiaries. HasGrowth is false with fewer than two months
	// or when the previous month had no beneficiaries.
	GrowthPercent float64
	HasGrowth     bool
	// GrantedPercent is the share of the "Granted" slice among all ByType values.
	GrantedPercent float64
	HasGranted     bool
	TopDistrict    string
}

// ComputeHeadlines derives the headline figures of s.
func ComputeHeadlines(s Summary) Headlines {
	var h Headlines
	if n := len(s.Timeseries); n > 0 {
		latest := s.Timeseries[n-1]
		h.LatestMonth = latest.Month
		h.LatestBeneficiaries = latest.Beneficiaries
		if n > 1 {
			if prev := s.Timeseries[n-2].Beneficiaries; prev > 0 {
				h.GrowthPercent = round1(float64(latest.Beneficiaries-prev) / float64(prev) * 100) //nolint:mnd // percent
				h.HasGrowth = true
			}
		}
	}

	var total, granted float64
	for _, t := range s.ByType {
		total += t.Value
		if strings.EqualFold(t.Type, "granted") {
			granted += t.Value
		}
	}
	if total > 0 {
		h.GrantedPercent = round1(granted / total * 100) //nolint:mnd // percent
		h.HasGranted = true
	}

	best := -1
	for _, d := range s.TopDistricts {
		if d.Beneficiaries > best {
			best = d.Beneficiaries
			h.TopDistrict = d.Name
		}
	}
	return h
}

// Bar is one row of a horizontal bar chart rendered with plain HTML.
type Bar struct {
	Label string
	Value float64
	// Percent is Value relative to the largest value of the series, 0 to 100.
	Percent float64
}

// MonthlyBars scales the timeseries to its maximum.
func MonthlyBars(s Summary) []Bar {
	bars := make([]Bar, 0, len(s.Timeseries))
	for _, m := range s.Timeseries {
		bars = append(bars, Bar{Label: m.Month, Value: float64(m.Beneficiaries), Percent: 0})
	}
	return scale(bars)
}

// TypeBars scales the type shares to their maximum.
func TypeBars(s Summary) []Bar {
	bars := make([]Bar, 0, len(s.ByType))
	for _, t := range s.ByType {
		bars = append(bars, Bar{Label: t.Type, Value: t.Value, Percent: 0})
	}
	return scale(bars)
}

// DistrictBars scales the districts to their maximum.
func DistrictBars(s Summary) []Bar {
	bars := make([]Bar, 0, len(s.TopDistricts))
	for _, d := range s.TopDistricts {
		bars = append(bars, Bar{Label: d.Name, Value: float64(d.Beneficiaries), Percent: 0})
	}
	return scale(bars)
}

func scale(bars []Bar) []Bar {
	var maxValue float64
	for _, b := range bars {
		maxValue = math.Max(maxValue, b.Value)
	}
	if maxValue <= 0 {
		return bars
	}
	for i := range bars {
		bars[i].Percent = round1(bars[i].Value / maxValue * 100) //nolint:mnd // percent
	}
	return bars
}

func round1(f float64) float64 {
	return math.Round(f*10) / 10 //nolint:mnd // one decimal
}
