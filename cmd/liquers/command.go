package main

// LiquersCommand is the root go-flags command: a Version callback plus
// one sub-command per verb.
type LiquersCommand struct {
	Version func() `short:"v" long:"version" description:"Print the version of liquers and exit"`

	Evaluate EvaluateCommand `command:"evaluate" description:"Evaluate a query against a filesystem-rooted store and print the resulting value and metadata."`
}
