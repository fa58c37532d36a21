package dashboard

import (
	"fmt"
	"io"

	"activityScope/internal/present"
	"activityScope/internal/view"
)

// RenderText writes the dashboard tiles, the proposal list and the recent
// activity view.
func RenderText(w io.Writer, sum Summary) error {
	if _, err := fmt.Fprintf(w, "Dashboard\n\nTotal Proposals: %s\nActive Proposals: %d\nYour Votes: %d\n",
		sum.TotalProposals, sum.ActiveProposals, sum.YourVotes); err != nil {
		return err
	}

	if len(sum.Proposals) > 0 {
		if _, err := fmt.Fprintf(w, "\nProposals\n"); err != nil {
			return err
		}
		for _, p := range sum.Proposals {
			status := "closed"
			switch {
			case p.Fulfilled:
				status = "fulfilled"
			case p.Open:
				status = "open"
			}
			if _, err := fmt.Fprintf(w, "  #%s %s (%s, %d for, %d against)\n",
				p.ID, present.Prose(p.Description), status, p.Approvals, p.Rejections); err != nil {
				return err
			}
		}
	}

	if _, err := fmt.Fprintf(w, "\nRecent Activity\n"); err != nil {
		return err
	}
	return view.RenderText(w, sum.Recent)
}
