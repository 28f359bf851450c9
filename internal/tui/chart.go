package tui

import (
	"github.com/NimbleMarkets/ntcharts/barchart"

	"github.com/comitanigiacomo/kanso-habits/internal/core/domain"
)

const chartHeight = 10

// completionBars counts completed days per habit, in order of first appearance.
func completionBars(history []domain.HistoryEntry) []barchart.BarData {
	index := make(map[int64]int)
	var bars []barchart.BarData
	for _, entry := range history {
		i, ok := index[entry.HabitID]
		if !ok {
			i = len(bars)
			index[entry.HabitID] = i
			bars = append(bars, barchart.BarData{
				Label:  entry.Name,
				Values: []barchart.BarValue{{Name: entry.Name, Style: barStyle}},
			})
		}
		bars[i].Values[0].Value++
	}
	return bars
}

func buildChart(history []domain.HistoryEntry, width int) barchart.Model {
	if width < 20 {
		width = 20
	}
	chart := barchart.New(width, chartHeight)
	if bars := completionBars(history); len(bars) > 0 {
		chart.PushAll(bars)
		chart.Draw()
	}
	return chart
}
