package view

import (
	"fmt"
	"io"
)

// RenderText writes a plain-text rendition of the snapshot.
func RenderText(w io.Writer, snap Snapshot) error {
	if _, err := fmt.Fprintf(w, "%s\n", snap.Title); err != nil {
		return err
	}
	if snap.Message != "" {
		if _, err := fmt.Fprintf(w, "%s\n", snap.Message); err != nil {
			return err
		}
	}
	if snap.State != StatePopulated {
		return nil
	}

	for _, item := range snap.Items {
		p := item.Presentation
		if _, err := fmt.Fprintf(w, "\n%s %s  %s\n  %s\n", p.Icon, p.Title, item.When, p.Description); err != nil {
			return err
		}
		for _, d := range p.Details {
			if _, err := fmt.Fprintf(w, "  %s: %s\n", d.Label, d.Value); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "  Block #%d  %s\n", item.BlockNumber, item.TxURL); err != nil {
			return err
		}
	}

	if snap.Remaining > 0 {
		_, err := fmt.Fprintf(w, "\nShowing %d of %d total activities (%d more available)\n",
			len(snap.Items), snap.Total, snap.Remaining)
		return err
	}
	return nil
}
