package reports

import (
	"sort"

	"github.com/mmdatafocus/devitrack/models"
	"github.com/shopspring/decimal"
)

const (
	DashboardChartAnalysts = 8
	DashboardTableAnalysts = 5
	DashboardTopLocations  = 5
)

type CountEntry struct {
	Name  string          `json:"name"`
	Count int             `json:"count"`
	Share decimal.Decimal `json:"share"`
}

type EquipmentAlert struct {
	Category models.CheckCategory `json:"category"`
	Label    string               `json:"label"`
	Count    int                  `json:"count"`
	Share    decimal.Decimal      `json:"share"`
}

type DashboardStats struct {
	TotalDeviations int               `json:"totalDeviations"`
	AnalystRanking  []*CountEntry     `json:"analystRanking"`
	LocationStats   []*CountEntry     `json:"locationStats"`
	EquipmentAlerts []*EquipmentAlert `json:"equipmentAlerts"`
}

// Share returns count as a percentage of total, rounded to two places.
// A total below one is treated as one.
func Share(count, total int) decimal.Decimal {
	if total < 1 {
		total = 1
	}
	return decimal.NewFromInt(int64(count)).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(int64(total))).
		Round(2)
}

// BuildDashboardStats reduces records to the dashboard statistics in a
// single pass. Rankings are ordered by count descending; equal counts keep
// the order in which the key was first seen.
func BuildDashboardStats(records []*models.Deviation) *DashboardStats {
	analysts := newCounter()
	locations := newCounter()
	alerts := make(map[models.CheckCategory]int, len(models.CheckCategories))

	total := 0
	for _, d := range records {
		if d == nil {
			continue
		}
		total++
		analysts.add(d.AnalystName)
		locations.add(d.Location)
		for _, c := range models.CheckCategories {
			if !d.Validation.Checked(c) {
				alerts[c]++
			}
		}
	}

	stats := &DashboardStats{
		TotalDeviations: total,
		AnalystRanking:  analysts.ranking(total),
		LocationStats:   locations.ranking(total),
		EquipmentAlerts: make([]*EquipmentAlert, 0, len(models.CheckCategories)),
	}
	for _, c := range models.CheckCategories {
		stats.EquipmentAlerts = append(stats.EquipmentAlerts, &EquipmentAlert{
			Category: c,
			Label:    c.Label(),
			Count:    alerts[c],
			Share:    Share(alerts[c], total),
		})
	}
	return stats
}

func (s *DashboardStats) TopAnalysts(n int) []*CountEntry {
	return top(s.AnalystRanking, n)
}

func (s *DashboardStats) TopLocations(n int) []*CountEntry {
	return top(s.LocationStats, n)
}

// Leader is the analyst with the most deviations, or nil for no records.
func (s *DashboardStats) Leader() *CountEntry {
	if len(s.AnalystRanking) == 0 {
		return nil
	}
	return s.AnalystRanking[0]
}

func top(entries []*CountEntry, n int) []*CountEntry {
	if n < 0 || n >= len(entries) {
		return entries
	}
	return entries[:n]
}

type counter struct {
	order  []string
	counts map[string]int
}

func newCounter() *counter {
	return &counter{counts: map[string]int{}}
}

func (c *counter) add(key string) {
	if _, ok := c.counts[key]; !ok {
		c.order = append(c.order, key)
	}
	c.counts[key]++
}

func (c *counter) ranking(total int) []*CountEntry {
	out := make([]*CountEntry, 0, len(c.order))
	for _, key := range c.order {
		out = append(out, &CountEntry{
			Name:  key,
			Count: c.counts[key],
			Share: Share(c.counts[key], total),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	return out
}
