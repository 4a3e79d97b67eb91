package sheets

import "golang.org/x/text/cases"

// folder implements casefold(name): sheet names are looked up and
// deduplicated case-insensitively, addresses separately through
// address.Parse's own case-insensitive letters.
var folder = cases.Fold()

func casefoldName(s string) string {
	return folder.String(s)
}
