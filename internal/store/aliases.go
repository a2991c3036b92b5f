package store

import "github.com/odysseus0/headlines/internal/model"

type Headline = model.Headline
type ArchivedHeadline = model.ArchivedHeadline
type ArchivedRun = model.ArchivedRun
type RunSource = model.RunSource
type HistoryOptions = model.HistoryOptions
type Mode = model.Mode
