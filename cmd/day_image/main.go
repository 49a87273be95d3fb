package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"

	"github.com/Freeeeeet/kreno_bot/internal/calendar"
	"github.com/Freeeeeet/kreno_bot/internal/model"
)

// Рисует сетку дня на тестовых данных: в терминал и в PNG
func main() {
	out := flag.String("out", "day.png", "PNG output file")
	flag.Parse()

	now := time.Now()
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	date := day.Format(calendar.DateLayout)

	lessons := []model.Lesson{
		{ID: "1", Title: "Parking", Date: date, StartTime: "07:00", EndTime: strPtr("08:00")},
		{ID: "2", Title: "Motorway", Date: date, StartTime: "16:30", EndTime: strPtr("18:00")},
		// без времени окончания урок не попадает в сетку
		{ID: "3", Title: "Night driving", Date: date, StartTime: "N/A"},
	}
	slots := []model.AvailabilitySlot{
		{UserID: "demo", Date: date, StartTime: "09:00"},
		{UserID: "demo", Date: date, StartTime: "09:30"},
		{UserID: "demo", Date: date, StartTime: "17:00"},
		{UserID: "other", Date: date, StartTime: "12:00"},
	}

	cells, err := calendar.BuildDayGrid(calendar.DefaultGridConfig(), day, lessons, slots, "demo", now)
	if err != nil {
		color.Red("Failed to build grid: %v", err)
		os.Exit(1)
	}

	printCells(cells)

	imageData, err := calendar.RenderDayImage(day, cells)
	if err != nil {
		color.Red("Failed to render image: %v", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*out, imageData, 0644); err != nil {
		color.Red("Failed to save image: %v", err)
		os.Exit(1)
	}

	color.Green("✅ Image saved to %s", *out)
	fmt.Printf("📅 %s, %d slots\n", day.Format("02.01.2006"), len(cells))
}

func printCells(cells []calendar.Cell) {
	booked := color.New(color.FgWhite, color.BgRed).SprintFunc()
	available := color.New(color.FgGreen, color.Bold).SprintFunc()
	past := color.New(color.FgHiBlack).SprintFunc()

	for _, cell := range cells {
		label := fmt.Sprintf("%s-%s", cell.Start, cell.End)
		switch cell.Status {
		case calendar.CellBooked:
			fmt.Println(booked(label + " " + cell.Lesson.Title))
		case calendar.CellAvailable:
			fmt.Println(available(label + " available"))
		case calendar.CellPast:
			fmt.Println(past(label))
		default:
			fmt.Println(label)
		}
	}
}

func strPtr(s string) *string {
	return &s
}
