package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/txbeach/sandcal/internal/tournament"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// WriteAggregate writes the cache document in the specified format.
func WriteAggregate(w io.Writer, agg tournament.Aggregate, format OutputFormat, verbose bool) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, agg)
	case FormatText:
		return writeText(w, agg, verbose)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func writeJSON(w io.Writer, agg tournament.Aggregate) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(agg)
}

// writeText outputs the document as human-readable text, grouped by
// source the way the dataset is gathered.
func writeText(w io.Writer, agg tournament.Aggregate, verbose bool) error {
	if agg.UpdatedAt != "" {
		fmt.Fprintf(w, "Last updated: %s\n", agg.UpdatedAt)
	}

	if len(agg.Tournaments) == 0 {
		fmt.Fprintln(w, "No tournaments found.")
	} else {
		bySource := make(map[string][]tournament.Tournament)
		for _, tour := range agg.Tournaments {
			bySource[tour.Source] = append(bySource[tour.Source], tour)
		}
		sources := make([]string, 0, len(bySource))
		for source := range bySource {
			sources = append(sources, source)
		}
		sort.Strings(sources)

		for _, source := range sources {
			listings := bySource[source]
			fmt.Fprintf(w, "\n%s (%d):\n", source, len(listings))
			for _, tour := range listings {
				fmt.Fprintf(w, "  %s  %s\n", tour.Date, tour.Title)
				if verbose {
					if tour.Location != "" {
						fmt.Fprintf(w, "       Location: %s\n", tour.Location)
					}
					if tour.Link != "" {
						fmt.Fprintf(w, "       Link: %s\n", tour.Link)
					}
				}
			}
		}
		fmt.Fprintf(w, "\nTotal: %d tournaments across %d sources\n", len(agg.Tournaments), len(bySource))
	}

	if len(agg.Errors) > 0 {
		sources := make([]string, 0, len(agg.Errors))
		for source := range agg.Errors {
			sources = append(sources, source)
		}
		sort.Strings(sources)

		fmt.Fprintf(w, "\nErrors (%d):\n", len(agg.Errors))
		for _, source := range sources {
			fmt.Fprintf(w, "  %s: %s\n", source, agg.Errors[source])
		}
	}
	return nil
}
