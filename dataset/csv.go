// ABOUTME: Reads location inventory tables and writes restoration timelines as CSV
// ABOUTME: Header names match case-insensitively and unknown columns are ignored

package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/markalston/grid-restore/models"
)

// Input columns
const (
	ColNode         = "Node"
	ColRegion       = "Region"
	ColCentral      = "Central"
	ColPopulation   = "Population"
	ColWindspeed    = "Windspeed_mph"
	ColTransmission = "Transmission_Towers"
	ColSubstation   = "Substations"
	ColDistribution = "Distribution_Towers"
	ColSolar        = "Solar_Farms"
	ColWind         = "Wind_Turbines"
	ColSolarMW      = "Solar_MW"
	ColWindMW       = "Wind_MW"
	ColTotalMW      = "Total_MW"
)

// RequiredColumns lists every input column in file order
var RequiredColumns = []string{
	ColNode, ColRegion, ColCentral, ColPopulation, ColWindspeed,
	ColTransmission, ColSubstation, ColDistribution, ColSolar, ColWind,
	ColSolarMW, ColWindMW, ColTotalMW,
}

var inventoryColumns = [models.NumAssetClasses]string{
	models.Transmission: ColTransmission,
	models.Substation:   ColSubstation,
	models.Distribution: ColDistribution,
	models.Solar:        ColSolar,
	models.Wind:         ColWind,
}

// TimelineColumns is the header of a written timeline
var TimelineColumns = []string{"time", "costs", "total_outage_fr", "total_pwr_fr", "pop_wo_pwr", "pop_w_pwr"}

// ReadLocationsFile reads a location table from disk
func ReadLocationsFile(path string) ([]models.Location, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening locations: %w", err)
	}
	defer f.Close()

	locations, err := ReadLocations(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return locations, nil
}

// ReadLocations parses a location table. Every bad cell is reported, joined.
// Empty numeric cells read as zero.
func ReadLocations(r io.Reader) ([]models.Location, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, models.ErrNoLocations
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	cols := make(map[string]int, len(RequiredColumns))
	var missing []string
	for _, c := range RequiredColumns {
		i, ok := index[strings.ToLower(c)]
		if !ok {
			missing = append(missing, c)
			continue
		}
		cols[c] = i
	}
	if len(missing) > 0 {
		return nil, &models.ValidationError{Field: "columns", Reason: "missing " + strings.Join(missing, ", ")}
	}

	var (
		locations []models.Location
		errs      []error
	)
	for line := 2; ; line++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row %d: %w", line, err)
		}
		if blank(record) {
			continue
		}

		p := rowParser{record: record, cols: cols, line: line}
		loc := models.Location{
			Name:       p.text(ColNode),
			Region:     p.text(ColRegion),
			Central:    p.flag(ColCentral),
			Population: p.number(ColPopulation),
			WindSpeed:  models.WindSpeed(p.number(ColWindspeed)),
			SolarMW:    p.number(ColSolarMW),
			WindMW:     p.number(ColWindMW),
			TotalMW:    p.number(ColTotalMW),
		}
		for _, class := range models.RepairOrder {
			loc.Inventory[class] = p.number(inventoryColumns[class])
		}
		errs = append(errs, p.errs...)
		locations = append(locations, loc)
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	if len(locations) == 0 {
		return nil, models.ErrNoLocations
	}
	return locations, nil
}

type rowParser struct {
	record []string
	cols   map[string]int
	line   int
	errs   []error
}

func (p *rowParser) text(col string) string {
	i := p.cols[col]
	if i >= len(p.record) {
		return ""
	}
	return strings.TrimSpace(p.record[i])
}

func (p *rowParser) fail(col, reason string) {
	p.errs = append(p.errs, &models.ValidationError{Field: fmt.Sprintf("row %d %s", p.line, col), Reason: reason})
}

func (p *rowParser) number(col string) float64 {
	s := strings.ReplaceAll(p.text(col), ",", "")
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		p.fail(col, fmt.Sprintf("not a number: %q", s))
		return 0
	}
	return v
}

func (p *rowParser) flag(col string) bool {
	switch strings.ToLower(p.text(col)) {
	case "y", "yes", "true", "1":
		return true
	case "n", "no", "false", "0", "":
		return false
	default:
		p.fail(col, fmt.Sprintf("want Y or N, got %q", p.text(col)))
		return false
	}
}

func blank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// WriteTimeline writes one row per simulated day
func WriteTimeline(w io.Writer, timeline models.Timeline) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(TimelineColumns); err != nil {
		return err
	}
	for _, r := range timeline {
		row := []string{
			strconv.Itoa(r.Time),
			formatFloat(r.Costs),
			formatFloat(r.OutageFraction),
			formatFloat(r.PowerFraction),
			formatFloat(r.PopWithout),
			formatFloat(r.PopWith),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteTimelineFile writes a timeline to path, creating parent directories
func WriteTimelineFile(path string, timeline models.Timeline) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating timeline file: %w", err)
	}
	if err := WriteTimeline(f, timeline); err != nil {
		f.Close()
		return fmt.Errorf("writing timeline: %w", err)
	}
	return f.Close()
}

// ResultFileName names the timeline file of one sweep combination
func ResultFileName(scenario string, opts models.RunOptions) string {
	update := "static"
	if opts.SortUpdate {
		update = "update"
	}
	return fmt.Sprintf("Results_%s_%s_%s_%s_%s.csv", scenario, opts.RestoreMethod, opts.SortType, opts.SortOrder, update)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
