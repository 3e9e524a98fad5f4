package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"

	"chat-sim/services"
)

// Viewer renders an exported chat history file as a terminal table.
func main() {
	file := flag.String("file", "", "Path to a chat-history-*.json export")
	flag.Parse()

	if *file == "" {
		log.Fatal("Missing -file argument")
	}

	data, err := os.ReadFile(*file)
	if err != nil {
		log.Fatalf("Failed to read export: %v", err)
	}

	// Guard against feeding the viewer something that is not an export
	mime := mimetype.Detect(data)
	if !mime.Is("application/json") && !strings.HasPrefix(mime.String(), "text/") {
		log.Fatalf("Not an export file (detected %s)", mime.String())
	}

	var export services.HistoryExport
	if err := json.Unmarshal(data, &export); err != nil {
		log.Fatalf("Failed to decode export: %v", err)
	}

	header := fmt.Sprintf("  ====== %s (exported %s) ======",
		export.Room, export.ExportDate.Format("2006-01-02 15:04:05"))
	fmt.Println(color.New(color.BgBlack, color.FgGreen).Render(header))

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Time", "Author", "Content"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	for _, m := range export.Messages {
		table.Append([]string{
			m.Timestamp.Format("15:04:05"),
			m.Author,
			m.Content,
		})
	}

	table.Render()
	fmt.Printf("%d messages\n", len(export.Messages))
}
