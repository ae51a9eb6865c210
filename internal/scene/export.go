package scene

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-jiazi/internal/cycle"
)

// FrameExport is the JSON-serializable representation of a frame.
type FrameExport struct {
	At            time.Time       `json:"at"`
	Year          string          `json:"year"`
	Month         string          `json:"month"`
	Day           string          `json:"day"`
	SolarTerm     TermExport      `json:"solar_term"`
	TrueSolarTerm TermExport      `json:"true_solar_term"`
	Observer      *ObserverExport `json:"observer,omitempty"`
	Bodies        []BodyExport    `json:"bodies"`
	Dropped       []string        `json:"dropped,omitempty"`
}

// TermExport is a solar term index with its name.
type TermExport struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
}

// ObserverExport is the observer location.
type ObserverExport struct {
	Name   string  `json:"name,omitempty"`
	LatDeg float64 `json:"lat_deg"`
	LonDeg float64 `json:"lon_deg"`
}

// BodyExport is a JSON-friendly body.
type BodyExport struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Kind     string     `json:"kind"`
	X        float64    `json:"x"`
	Y        float64    `json:"y"`
	Z        float64    `json:"z"`
	Distance float64    `json:"distance"`
	Horizon  *SkyExport `json:"horizon,omitempty"`
}

// SkyExport holds horizon coordinates.
type SkyExport struct {
	RAdeg  float64 `json:"ra_deg"`
	DecDeg float64 `json:"dec_deg"`
	AzDeg  float64 `json:"az_deg"`
	ElDeg  float64 `json:"el_deg"`
}

// Export converts a frame to its exportable form.
func Export(f Frame) *FrameExport {
	out := &FrameExport{
		At:            f.At,
		Year:          f.Labels.Year.String(),
		Month:         f.Labels.Month.String(),
		Day:           f.Labels.Day.String(),
		SolarTerm:     TermExport{Index: f.SolarTerm, Name: f.SolarTermName()},
		TrueSolarTerm: TermExport{Index: f.TrueSolarTerm, Name: f.TrueSolarTermName()},
		Bodies:        make([]BodyExport, 0, len(f.Bodies)),
	}
	if f.Observer != nil {
		out.Observer = &ObserverExport{Name: f.Observer.Name, LatDeg: f.Observer.LatDeg, LonDeg: f.Observer.LonDeg}
	}
	for _, b := range f.Bodies {
		be := BodyExport{
			ID:       b.ID.String(),
			Name:     b.Name(),
			Kind:     b.Kind.String(),
			X:        b.Pos.X,
			Y:        b.Pos.Y,
			Z:        b.Pos.Z,
			Distance: b.Distance(),
		}
		if b.Sky != nil {
			be.Horizon = &SkyExport{RAdeg: b.Sky.RAdeg, DecDeg: b.Sky.DecDeg, AzDeg: b.Sky.AzDeg, ElDeg: b.Sky.ElDeg}
		}
		out.Bodies = append(out.Bodies, be)
	}
	for _, id := range f.Dropped {
		out.Dropped = append(out.Dropped, id.String())
	}
	return out
}

// WriteJSON writes the export as indented JSON.
func (e *FrameExport) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(e)
}

// WriteSummaryTable writes a text table of the frame.
func WriteSummaryTable(w io.Writer, f Frame) {
	fmt.Fprintf(w, "Orrery @ %s\n", f.At.Format(time.RFC3339))
	fmt.Fprintf(w, "%s  节气 %s (%s)\n", f.Labels, f.SolarTermName(), f.TrueSolarTermName())
	fmt.Fprintln(w, strings.Repeat("─", 72))

	if len(f.Bodies) == 0 {
		fmt.Fprintln(w, "No bodies")
		return
	}

	horizon := f.Observer != nil
	header := pad("Body", 14) + " " + padLeft("X", 8) + " " + padLeft("Z", 8) + " " + padLeft("Dist", 7)
	if horizon {
		header += " " + padLeft("Az", 7) + " " + padLeft("El", 7)
	}
	fmt.Fprintln(w, header)
	fmt.Fprintln(w, strings.Repeat("─", 72))

	for _, b := range f.Bodies {
		line := pad(b.Name(), 14) + " " +
			padLeft(fmt.Sprintf("%.2f", b.Pos.X), 8) + " " +
			padLeft(fmt.Sprintf("%.2f", b.Pos.Z), 8) + " " +
			padLeft(fmt.Sprintf("%.2f", b.Distance()), 7)
		if horizon {
			if b.Sky != nil {
				line += " " + padLeft(fmt.Sprintf("%.1f°", b.Sky.AzDeg), 7) +
					" " + padLeft(fmt.Sprintf("%.1f°", b.Sky.ElDeg), 7)
			} else {
				line += " " + padLeft("-", 7) + " " + padLeft("-", 7)
			}
		}
		fmt.Fprintln(w, line)
	}

	if len(f.Dropped) > 0 {
		fmt.Fprintf(w, "\nDropped: %d bodies with invalid positions\n", len(f.Dropped))
	}
	if horizon {
		name := f.Observer.Name
		if name == "" {
			name = fmt.Sprintf("%.2f, %.2f", f.Observer.LatDeg, f.Observer.LonDeg)
		}
		fmt.Fprintf(w, "\nObserver: %s\n", name)
	}
}

// WriteCycleTable writes the 60-entry cycle table with each entry's element
// and associated body.
func WriteCycleTable(w io.Writer, entries []cycle.Entry) {
	fmt.Fprintf(w, "%s %s %s %s %s\n",
		padLeft("#", 3), pad("Name", 5), padLeft("Year", 6), pad("Elem", 4), "Body")
	fmt.Fprintln(w, strings.Repeat("─", 40))
	for _, e := range entries {
		elem, _ := cycle.ElementOf(e.Name)
		fmt.Fprintf(w, "%s %s %s %s %s\n",
			padLeft(fmt.Sprint(e.CycleIndex), 3),
			pad(e.Name.String(), 5),
			padLeft(fmt.Sprint(e.AnchorYear), 6),
			pad(elem.String(), 4),
			cycle.ResolveBody(e.Name).DisplayName())
	}
}

// pad right-pads s to width terminal cells. CJK characters count as two.
func pad(s string, width int) string {
	if n := lipgloss.Width(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}

func padLeft(s string, width int) string {
	if n := lipgloss.Width(s); n < width {
		return strings.Repeat(" ", width-n) + s
	}
	return s
}
