// ABOUTME: Fragility command printing failure probabilities for a wind speed
// ABOUTME: One row per asset class with the hazard in the curve's own unit

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/markalston/grid-restore/internal/tui/report"
	"github.com/markalston/grid-restore/models"
	"github.com/markalston/grid-restore/services"
	"github.com/spf13/cobra"
)

var windMPH float64

var fragilityCmd = &cobra.Command{
	Use:   "fragility",
	Short: "Show failure probability per asset class at a wind speed",
	Example: `  grid-restore fragility --wind-mph 155
  grid-restore fragility --wind-mph 120 --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := loadConfig(cmd); err != nil {
			return err
		}
		return runFragility(models.WindSpeed(windMPH), os.Stdout, IsJSONOutput())
	},
}

func init() {
	rootCmd.AddCommand(fragilityCmd)
	fragilityCmd.Flags().Float64Var(&windMPH, "wind-mph", 0, "Peak wind speed in miles per hour")
	_ = fragilityCmd.MarkFlagRequired("wind-mph")
}

func fragilityRows(speed models.WindSpeed) []report.FragilityRow {
	model := services.NewFragilityModel(true, nil)
	rows := make([]report.FragilityRow, 0, models.NumAssetClasses)
	for _, class := range models.RepairOrder {
		curve := model.Curve(class)
		x := curve.Intensity(speed)
		rows = append(rows, report.FragilityRow{
			Class:       class,
			Unit:        curve.Unit,
			Intensity:   x,
			Probability: curve.FailureProbability(x),
		})
	}
	return rows
}

func runFragility(speed models.WindSpeed, w io.Writer, jsonOut bool) error {
	if math.IsNaN(speed.MPH()) || math.IsInf(speed.MPH(), 0) || speed < 0 {
		return &models.ValidationError{Field: "wind_mph", Reason: fmt.Sprintf("must be a non-negative number, got %v", speed.MPH())}
	}

	rows := fragilityRows(speed)

	if jsonOut {
		type row struct {
			Class       string  `json:"class"`
			Unit        string  `json:"unit"`
			Intensity   float64 `json:"intensity"`
			Probability float64 `json:"failure_probability"`
		}
		out := struct {
			WindMPH float64 `json:"wind_mph"`
			Classes []row   `json:"classes"`
		}{WindMPH: speed.MPH()}
		for _, r := range rows {
			out.Classes = append(out.Classes, row{r.Class.String(), r.Unit, r.Intensity, r.Probability})
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	fmt.Fprintln(w, report.FragilityTable(speed, rows))
	return nil
}
