package cli

import "github.com/odysseus0/headlines/internal/model"

type OutputFormat = model.OutputFormat
type Headline = model.Headline
type ArchivedHeadline = model.ArchivedHeadline
type ArchivedRun = model.ArchivedRun
type HistoryOptions = model.HistoryOptions

const (
	OutputTable = model.OutputTable
	OutputJSON  = model.OutputJSON
	OutputOPML  = model.OutputOPML
)
