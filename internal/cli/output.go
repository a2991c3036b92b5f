package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/odysseus0/headlines/internal/model"
)

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeSourcesTable(out io.Writer, sources []model.Source) {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SOURCE\tPRIORITY\tURL")
	for _, src := range sources {
		for i, u := range src.URLs {
			name := ""
			if i == 0 {
				name = compactText(src.Name, 36)
			}
			fmt.Fprintf(tw, "%s\t%d\t%s\n", name, i+1, compactText(u, 80))
		}
	}
	_ = tw.Flush()
}

func writeHistoryTable(out io.Writer, rows []ArchivedHeadline) {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN\tMODE\tSOURCE\tTITLE\tPUBLISHED\tLINK")
	for _, h := range rows {
		fmt.Fprintf(
			tw,
			"%d\t%s\t%s\t%s\t%s\t%s\n",
			h.RunID,
			h.Mode,
			compactText(h.Source, 24),
			compactText(displayTitle(h.Headline), 60),
			formatDate(h.PublishedAt),
			compactText(h.Link, 56),
		)
	}
	_ = tw.Flush()
}

func writeRunsTable(out io.Writer, runs []ArchivedRun) {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tMODE\tHEADLINES\tSCRAPED_AT\tAGE")
	for _, r := range runs {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\t%s\n", r.ID, r.Mode, r.HeadlineCount, r.ScrapedAt.Format("2006-01-02 15:04:05"), humanAgo(r.ScrapedAt))
	}
	_ = tw.Flush()
}

func writeRunDetail(out io.Writer, run ArchivedRun) {
	fmt.Fprintf(out, "Run %d (%s) scraped %s, %d headline(s)\n\n", run.ID, run.Mode, run.ScrapedAt.Format("2006-01-02 15:04:05"), run.HeadlineCount)
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SOURCE\tFETCHED\tATTEMPTS\tRESOLVED_URL")
	for _, src := range run.Sources {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%s\n", compactText(src.Source, 36), src.Fetched, src.Attempts, fallback(src.ResolvedURL, "-"))
	}
	_ = tw.Flush()
}

func displayTitle(h Headline) string {
	if strings.TrimSpace(h.Title) != "" {
		return h.Title
	}
	if strings.TrimSpace(h.Link) != "" {
		return h.Link
	}
	return "(untitled)"
}
