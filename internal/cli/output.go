package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	gojson "github.com/goccy/go-json"

	"github.com/r9s-ai/hafas-rest-client/pkg/hafas"
)

func printJSON(w io.Writer, v any) error {
	b, err := gojson.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

func printTable(w io.Writer, headers []string, rows [][]string) error {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...)
	_, err := fmt.Fprintln(w, t.Render())
	return err
}

func locationRows(locs []hafas.Location) [][]string {
	rows := make([][]string, 0, len(locs))
	for _, l := range locs {
		name := l.Name
		if name == "" {
			name = l.Address
		}
		kind := l.Type
		if l.POI {
			kind = "poi"
		}
		dist := ""
		if l.Distance > 0 {
			dist = strconv.Itoa(l.Distance) + "m"
		}
		rows = append(rows, []string{kind, l.ID, name, coords(l.Location), dist})
	}
	return rows
}

func coords(c *hafas.Coordinates) string {
	if c == nil {
		return ""
	}
	return fmt.Sprintf("%.5f,%.5f", c.Latitude, c.Longitude)
}

func clock(t *time.Time, loc *time.Location) string {
	if t == nil {
		return ""
	}
	return t.In(loc).Format("15:04")
}

func delay(d *int) string {
	if d == nil {
		return ""
	}
	return fmt.Sprintf("%+d", *d/60)
}

func lineName(l *hafas.Line) string {
	if l == nil {
		return ""
	}
	return l.Name
}

func boardRows(alts []hafas.Alternative, dir hafas.Direction, loc *time.Location) [][]string {
	rows := make([][]string, 0, len(alts))
	for _, a := range alts {
		headsign := a.Direction
		if dir == hafas.DirectionArrival {
			headsign = a.Provenance
		}
		status := delay(a.Delay)
		if a.Cancelled {
			status = "cancelled"
		}
		rows = append(rows, []string{clock(a.PlannedWhen, loc), status, lineName(a.Line), headsign, a.Platform})
	}
	return rows
}

func journeyRows(js []hafas.Journey, loc *time.Location) [][]string {
	rows := make([][]string, 0, len(js))
	for i, j := range js {
		if len(j.Legs) == 0 {
			continue
		}
		first, last := j.Legs[0], j.Legs[len(j.Legs)-1]
		lines := make([]string, 0, len(j.Legs))
		transfers := -1
		for _, l := range j.Legs {
			switch {
			case l.Walking:
				lines = append(lines, "walk")
			case l.Transfer:
				lines = append(lines, "transfer")
			default:
				lines = append(lines, lineName(l.Line))
				transfers++
			}
		}
		if transfers < 0 {
			transfers = 0
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			clock(first.PlannedDeparture, loc) + " " + first.Origin.Name,
			clock(last.PlannedArrival, loc) + " " + last.Destination.Name,
			strconv.Itoa(transfers),
			strings.Join(lines, " > "),
		})
	}
	return rows
}
