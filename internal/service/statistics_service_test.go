package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/waterbuddy/internal/db"
	"github.com/waterbuddy/internal/store"
)

func addEntry(t *testing.T, entries *store.MemoryEntryStore, amount float64, container db.ContainerType, at time.Time) {
	t.Helper()
	entry := db.WaterEntry{
		ID:            uuid.NewString(),
		Amount:        amount,
		Unit:          db.UnitMilliliters,
		ContainerType: container,
		Timestamp:     at,
	}
	if err := entries.Add(&entry); err != nil {
		t.Fatalf("add entry: %v", err)
	}
}

func at(day time.Time, hour, minute int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, day.Location())
}

func TestStatisticsForDay(t *testing.T) {
	entries := store.NewMemoryEntryStore()
	profiles := store.NewMemoryProfileStore()
	svc := NewStatisticsService(entries, profiles)

	today := time.Now()
	addEntry(t, entries, 100, db.ContainerCup, at(today, 9, 0))
	addEntry(t, entries, 250, db.ContainerGlass, at(today, 9, 30))
	addEntry(t, entries, 500, db.ContainerBottle, at(today, 14, 0))

	stats, err := svc.ForDay(today)
	if err != nil {
		t.Fatalf("ForDay returned error: %v", err)
	}

	if stats.TotalIntake != 850 {
		t.Fatalf("expected total 850, got %v", stats.TotalIntake)
	}
	if stats.EntryCount != 3 {
		t.Fatalf("expected 3 entries, got %d", stats.EntryCount)
	}
	if stats.GoalAchieved {
		t.Fatal("850 of 2000 must not mark the goal achieved")
	}
	if stats.CompletionPercent != 42.5 {
		t.Fatalf("expected 42.5%%, got %v", stats.CompletionPercent)
	}
	if stats.HourlyDistribution[9] != 350 {
		t.Fatalf("expected 350 at hour 9, got %v", stats.HourlyDistribution[9])
	}
	if stats.HourlyDistribution[14] != 500 {
		t.Fatalf("expected 500 at hour 14, got %v", stats.HourlyDistribution[14])
	}
	if stats.PeakHour() != 14 {
		t.Fatalf("expected peak hour 14, got %d", stats.PeakHour())
	}
}

func TestStatisticsCompletionPercentCapped(t *testing.T) {
	entries := store.NewMemoryEntryStore()
	profiles := store.NewMemoryProfileStore()
	svc := NewStatisticsService(entries, profiles)

	today := time.Now()
	addEntry(t, entries, 2500, db.ContainerBottle, at(today, 10, 0))

	stats, err := svc.ForDay(today)
	if err != nil {
		t.Fatalf("ForDay returned error: %v", err)
	}
	if !stats.GoalAchieved {
		t.Fatal("expected goal achieved")
	}
	if stats.CompletionPercent != 100 {
		t.Fatalf("completion must cap at 100, got %v", stats.CompletionPercent)
	}
}

func TestStatisticsForRange(t *testing.T) {
	entries := store.NewMemoryEntryStore()
	profiles := store.NewMemoryProfileStore()
	svc := NewStatisticsService(entries, profiles)

	today := time.Now()
	yesterday := today.AddDate(0, 0, -1)
	twoDaysAgo := today.AddDate(0, 0, -2)

	addEntry(t, entries, 2000, db.ContainerBottle, at(twoDaysAgo, 12, 0))
	addEntry(t, entries, 500, db.ContainerGlass, at(yesterday, 12, 0))
	addEntry(t, entries, 1000, db.ContainerMug, at(today, 12, 0))

	stats, err := svc.ForRange(twoDaysAgo, today)
	if err != nil {
		t.Fatalf("ForRange returned error: %v", err)
	}

	if len(stats.Days) != 3 {
		t.Fatalf("expected 3 days, got %d", len(stats.Days))
	}
	if stats.TotalIntake != 3500 {
		t.Fatalf("expected total 3500, got %v", stats.TotalIntake)
	}
	wantAverage := 3500.0 / 3
	if stats.AverageIntake != wantAverage {
		t.Fatalf("expected average %v, got %v", wantAverage, stats.AverageIntake)
	}
	if stats.GoalsAchieved != 1 {
		t.Fatalf("expected 1 achieved day, got %d", stats.GoalsAchieved)
	}
	if len(stats.WeeklyTrend) != 7 {
		t.Fatalf("expected 7-day trend, got %d points", len(stats.WeeklyTrend))
	}
	if stats.WeeklyTrend[6] != 1000 {
		t.Fatalf("trend must end at today's total, got %v", stats.WeeklyTrend[6])
	}

	if _, err := svc.ForRange(today, twoDaysAgo); err == nil {
		t.Fatal("expected error when end precedes start")
	}
}

func TestStatisticsDailyTrend(t *testing.T) {
	entries := store.NewMemoryEntryStore()
	profiles := store.NewMemoryProfileStore()
	svc := NewStatisticsService(entries, profiles)

	today := time.Now()
	addEntry(t, entries, 750, db.ContainerBottle, at(today, 8, 0))
	addEntry(t, entries, 300, db.ContainerCup, at(today.AddDate(0, 0, -1), 8, 0))

	trend, err := svc.DailyTrend(3)
	if err != nil {
		t.Fatalf("DailyTrend returned error: %v", err)
	}
	if len(trend) != 3 {
		t.Fatalf("expected 3 points, got %d", len(trend))
	}
	if trend[0] != 0 || trend[1] != 300 || trend[2] != 750 {
		t.Fatalf("unexpected trend %v", trend)
	}
}
