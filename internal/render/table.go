// Package render writes forfeit results as plain text for non-interactive
// output (the calc command and the submit client).
package render

import (
	"fmt"
	"io"
	"strconv"

	"github.com/coder/quartz"
	"github.com/muesli/termenv"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/lox/runnerspoker/internal/forfeit"
)

// Results writes the results table, the per-player summary sentences and
// any chip-check warning to w. Column layout varies by mode exactly as the
// table display does: Weighted adds the fitness category, Custom adds each
// player's personal max.
func Results(w io.Writer, game forfeit.Game, results []forfeit.Result, check *forfeit.ChipCheck, clk quartz.Clock) error {
	out := termenv.NewOutput(w)

	if check != nil {
		fmt.Fprintln(w, out.String(check.Warning()).Foreground(out.Color("3")))
		fmt.Fprintln(w)
	}

	if err := Table(w, game, results); err != nil {
		return err
	}

	fmt.Fprintln(w)
	for _, line := range forfeit.Summaries(game, results, clk) {
		fmt.Fprintln(w, line)
	}

	return nil
}

// Table writes just the results table, without summaries or warnings
func Table(w io.Writer, game forfeit.Game, results []forfeit.Result) error {
	unit := game.Forfeit.Unit()

	headers := []string{"Player"}
	if game.Mode == forfeit.Weighted {
		headers = append(headers, "Fitness category")
	}
	if game.Mode == forfeit.Custom {
		headers = append(headers, fmt.Sprintf("Player max (%s)", unit))
	}
	headers = append(headers, "Final chips", "Chip % of start", fmt.Sprintf("Forfeit (%s)", unit))

	table := tablewriter.NewWriter(w)
	table.Header(headers)

	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, r := range results {
		row := []string{r.Name}
		if game.Mode == forfeit.Weighted {
			row = append(row, string(r.Fitness))
		}
		if game.Mode == forfeit.Custom {
			row = append(row, forfeit.FormatAmount(r.PlayerMax))
		}
		row = append(row,
			strconv.Itoa(r.FinalChips),
			strconv.FormatFloat(r.ChipPercent(), 'f', 1, 64),
			forfeit.FormatAmount(r.Amount),
		)
		data = append(data, row)
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}
