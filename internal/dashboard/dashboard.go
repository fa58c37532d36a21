package dashboard

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"activityScope/internal/feed"
	"activityScope/internal/model"
	"activityScope/internal/view"
	"activityScope/internal/wallet"
)

// RecentLimit is how many events the dashboard lists by default.
const RecentLimit = 5

// Counter reads the on-chain proposal total.
type Counter interface {
	ProposalCount(ctx context.Context) (*big.Int, error)
}

type Config struct {
	RequiredChainID uint64
	NetworkName     string
	ExplorerHost    string
	Limit           int
}

// Proposal is one DAO proposal with its vote tally.
type Proposal struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Deadline    string `json:"deadline"`
	Open        bool   `json:"open"`
	Fulfilled   bool   `json:"fulfilled"`
	Approvals   int    `json:"approvals"`
	Rejections  int    `json:"rejections"`
	BlockNumber uint64 `json:"blockNumber"`
	TxHash      string `json:"txHash"`
}

// Summary backs the dashboard tiles and lists.
type Summary struct {
	TotalProposals  string        `json:"totalProposals"`
	ActiveProposals int           `json:"activeProposals"`
	YourVotes       int           `json:"yourVotes"`
	Proposals       []Proposal    `json:"proposals"`
	Recent          view.Snapshot `json:"recent"`
}

// Tally derives the proposal list and vote counts from DAO events. Proposals
// keep the order of their creation events. A proposal is open until it is
// fulfilled or its deadline (unix seconds) passes.
func Tally(events []model.Event, voter common.Address, now time.Time) (proposals []Proposal, active, votes int) {
	proposals = make([]Proposal, 0)
	byID := map[string]int{}
	fulfilled := map[string]bool{}
	approvals := map[string]int{}
	rejections := map[string]int{}

	for _, e := range events {
		switch ev := e.(type) {
		case model.ProposalCreated:
			id := bigString(ev.ID)
			if _, seen := byID[id]; seen {
				continue
			}
			byID[id] = len(proposals)
			proposals = append(proposals, Proposal{
				ID:          id,
				Description: ev.Description,
				Deadline:    bigString(ev.Deadline),
				Open:        ev.Deadline != nil && ev.Deadline.Cmp(big.NewInt(now.Unix())) > 0,
				BlockNumber: ev.BlockNumber,
				TxHash:      ev.TxHash.Hex(),
			})
		case model.ProposalFulfilled:
			fulfilled[bigString(ev.ID)] = true
		case model.Voted:
			id := bigString(ev.ID)
			switch ev.State {
			case model.ProposalApproved:
				approvals[id]++
			case model.ProposalRejected:
				rejections[id]++
			}
			if voter != (common.Address{}) && ev.Voter == voter {
				votes++
			}
		}
	}

	for i := range proposals {
		p := &proposals[i]
		p.Fulfilled = fulfilled[p.ID]
		p.Approvals = approvals[p.ID]
		p.Rejections = rejections[p.ID]
		if p.Fulfilled {
			p.Open = false
		}
		if p.Open {
			active++
		}
	}
	return proposals, active, votes
}

// Service assembles dashboard summaries from the DAO contract.
type Service struct {
	cfg     Config
	counter Counter
	source  feed.Source
	logger  *zap.Logger
	now     func() time.Time
}

func NewService(cfg Config, counter Counter, source feed.Source, logger *zap.Logger) *Service {
	if cfg.Limit <= 0 {
		cfg.Limit = RecentLimit
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{cfg: cfg, counter: counter, source: source, logger: logger, now: time.Now}
}

// Summary reads the proposal count and the DAO events concurrently. Nothing
// is read unless acc is connected to the required chain. On failure the
// returned summary still carries the error view.
func (s *Service) Summary(ctx context.Context, acc wallet.Account) (Summary, error) {
	now := s.now()
	sum := Summary{TotalProposals: "0", Proposals: make([]Proposal, 0)}
	result := feed.Result{Status: feed.StatusIdle}

	if !acc.Connected || acc.ChainID != s.cfg.RequiredChainID {
		sum.Recent = s.evaluate(acc, result, now)
		return sum, nil
	}

	var (
		total  *big.Int
		events []model.Event
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		total, err = s.counter.ProposalCount(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		events, err = s.source.Run(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Warn("dashboard read failed", zap.Error(err))
		result = feed.Result{Status: feed.StatusError, Err: err, UpdatedAt: now}
		sum.Recent = s.evaluate(acc, result, now)
		return sum, fmt.Errorf("read dashboard: %w", err)
	}

	sum.TotalProposals = bigString(total)
	sum.Proposals, sum.ActiveProposals, sum.YourVotes = Tally(events, acc.Address, now)
	result = feed.Result{Status: feed.StatusSuccess, Events: events, UpdatedAt: now}
	sum.Recent = s.evaluate(acc, result, now)
	return sum, nil
}

func (s *Service) evaluate(acc wallet.Account, result feed.Result, now time.Time) view.Snapshot {
	return view.Evaluate(view.Input{
		Account:         acc,
		RequiredChainID: s.cfg.RequiredChainID,
		NetworkName:     s.cfg.NetworkName,
		Result:          result,
		Limit:           s.cfg.Limit,
		ExplorerHost:    s.cfg.ExplorerHost,
		Now:             now,
	})
}

func bigString(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}
