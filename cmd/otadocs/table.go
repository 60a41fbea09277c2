package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// deviceRow is one line of the list command's output.
type deviceRow struct {
	Device   string
	Branches string
	Image    string
	Pages    string
}

// renderDeviceTable lays out registry rows with the page coverage column
// right-aligned so counts line up.
func renderDeviceTable(rows []deviceRow) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Device", "Branches", "Image", "Pages"})
	for _, row := range rows {
		tw.AppendRow(table.Row{row.Device, row.Branches, row.Image, row.Pages})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Pages", Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	return tw.Render()
}
