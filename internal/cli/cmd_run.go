package cli

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/odysseus0/headlines/internal/model"
	"github.com/odysseus0/headlines/internal/report"
)

const (
	emptyRunMessage = "No headlines fetched from any source. See debug output above."
	summaryCount    = 2
)

func runHeadlines(cmd *cobra.Command, app *App, token string, outFmt OutputFormat) error {
	if outFmt == OutputOPML {
		return fmt.Errorf("invalid output format %q for a run (expected table|json)", outFmt)
	}
	out := cmd.OutOrStdout()
	mode := model.ParseMode(token)
	fmt.Fprintf(out, "Mode: %s\n", mode)

	rep, err := app.runner.Run(cmd.Context(), mode, func(done, total int, res model.SourceResult) {
		fmt.Fprintf(out, " -> fetched %d item(s) for %s\n", len(res.Headlines), res.Source)
	})
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}

	if len(rep.Headlines) == 0 {
		fmt.Fprintln(out, emptyRunMessage)
		return nil
	}

	csvPath, xlsxPath := app.cfg.CSVPath(), app.cfg.XLSXPath()
	if app.cfg.OutDir != "" {
		if err := os.MkdirAll(app.cfg.OutDir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := report.WriteCSV(csvPath, rep.Headlines, rep.ScrapedAt); err != nil {
		return err
	}
	if err := report.WriteXLSX(xlsxPath, rep.Headlines, rep.ScrapedAt); err != nil {
		return err
	}
	fmt.Fprintf(out, "\nSaved %d rows to %s and %s\n", len(rep.Headlines), csvPath, xlsxPath)

	if app.store != nil {
		runID, err := app.store.SaveRun(cmd.Context(), rep)
		if err != nil {
			return fmt.Errorf("archive run: %w", err)
		}
		app.log.WithFields(logrus.Fields{"run_id": runID, "db": app.cfg.DBPath}).Debug("archived run")
	}

	if outFmt == OutputJSON {
		return writeJSON(out, rep)
	}
	report.WriteSummary(out, rep.Headlines, summaryCount)
	return nil
}
