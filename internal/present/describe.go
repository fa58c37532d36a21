package present

import (
	"fmt"
	"math/big"

	"activityScope/internal/model"
)

// Icons, one per kind plus the fallback.
const (
	IconProposalCreated   = "📝"
	IconProposalFulfilled = "✅"
	IconVoted             = "🗳️"
	IconNameRegistered    = "🆕"
	IconNameTransferred   = "🔄"
	IconNameUpdated       = "✏️"
	IconUnknown           = "❓"
)

// Color classes.
const (
	ColorBlue   = "text-blue-600"
	ColorGreen  = "text-green-600"
	ColorRed    = "text-red-600"
	ColorYellow = "text-yellow-600"
	ColorGray   = "text-gray-600"
)

// Detail is one labelled field shown under an event.
type Detail struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Presentation is the display form of an event.
type Presentation struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Icon        string   `json:"icon"`
	Color       string   `json:"color"`
	Details     []Detail `json:"details,omitempty"`
}

// Unknown is returned for any kind without a mapping.
var Unknown = Presentation{
	Title:       "Unknown Event",
	Description: "Unknown event",
	Icon:        IconUnknown,
	Color:       ColorGray,
}

// Describe maps an event to its presentation. It never modifies e.
func Describe(e model.Event) Presentation {
	switch ev := e.(type) {
	case model.ProposalCreated:
		return Presentation{
			Title:       "Proposal Created",
			Description: fmt.Sprintf("New proposal created: \"%s\"", Prose(ev.Description)),
			Icon:        IconProposalCreated,
			Color:       ColorBlue,
			Details: []Detail{
				{Label: "Proposal", Value: "#" + bigText(ev.ID)},
				{Label: "Deadline", Value: bigText(ev.Deadline)},
			},
		}
	case model.ProposalFulfilled:
		return Presentation{
			Title:       "Proposal Fulfilled",
			Description: fmt.Sprintf("Proposal fulfilled: \"%s\"", Prose(ev.Description)),
			Icon:        IconProposalFulfilled,
			Color:       ColorGreen,
			Details: []Detail{
				{Label: "Proposal", Value: "#" + bigText(ev.ID)},
				{Label: "Recipient", Value: ShortAddress(ev.Recipient.Hex())},
				{Label: "Amount", Value: bigText(ev.Amount)},
			},
		}
	case model.Voted:
		return Presentation{
			Title:       "Vote Cast",
			Description: fmt.Sprintf("Vote cast (%s) on proposal #%s", ev.State, bigText(ev.ID)),
			Icon:        IconVoted,
			Color:       voteColor(ev.State),
			Details: []Detail{
				{Label: "Voter", Value: ShortAddress(ev.Voter.Hex())},
				{Label: "Comment", Value: Prose(ev.Comment)},
			},
		}
	case model.NameRegistered:
		return Presentation{
			Title:       "Name Registered",
			Description: fmt.Sprintf("New name registered: %s (owner: %s)", Code(ev.Name), ShortAddress(ev.Owner.Hex())),
			Icon:        IconNameRegistered,
			Color:       ColorBlue,
			Details: []Detail{
				{Label: "Name", Value: Code(ev.Name)},
				{Label: "Owner", Value: ShortAddress(ev.Owner.Hex())},
			},
		}
	case model.NameTransferred:
		return Presentation{
			Title: "Name Transferred",
			Description: fmt.Sprintf("Name %s transferred from %s to %s",
				Code(ev.Name), ShortAddress(ev.OldOwner.Hex()), ShortAddress(ev.NewOwner.Hex())),
			Icon:  IconNameTransferred,
			Color: ColorGreen,
			Details: []Detail{
				{Label: "Name", Value: Code(ev.Name)},
				{Label: "From", Value: ShortAddress(ev.OldOwner.Hex())},
				{Label: "To", Value: ShortAddress(ev.NewOwner.Hex())},
			},
		}
	case model.NameUpdated:
		return Presentation{
			Title: "Name Updated",
			Description: fmt.Sprintf("Name %s updated -> Address: %s, Image: %s",
				Code(ev.Name), ShortAddress(ev.NewAddress.Hex()), ShortHash(ev.NewImageHash)),
			Icon:  IconNameUpdated,
			Color: ColorYellow,
			Details: []Detail{
				{Label: "Name", Value: Code(ev.Name)},
				{Label: "New Address", Value: ShortAddress(ev.NewAddress.Hex())},
				{Label: "Image Hash", Value: ShortHash(ev.NewImageHash)},
			},
		}
	default:
		return Unknown
	}
}

func voteColor(state model.ProposalState) string {
	switch state {
	case model.ProposalApproved:
		return ColorGreen
	case model.ProposalRejected:
		return ColorRed
	default:
		return ColorYellow
	}
}

func bigText(v *big.Int) string {
	if v == nil {
		return "?"
	}
	return v.String()
}
