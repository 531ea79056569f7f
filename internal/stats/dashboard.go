package stats

import (
	"context"
	"sort"

	"crm-platform/internal/lead"
)

// Self-service and overview views. Both operate on the current calendar
// month of uploadDate, matching the month-prefix granularity of Report.

// MyStats summarizes the calling agent's own current-month book, including
// tallies of the recorded failure and cancellation reasons.
func (s *Service) MyStats(ctx context.Context, agentID string) (MyStats, error) {
	if agentID == "" {
		return MyStats{}, ErrInvalidArgument
	}
	month := s.clock().UTC().Format("2006-01")

	leads, err := s.leads.List(ctx, lead.Filter{OwnerID: agentID})
	if err != nil {
		return MyStats{}, err
	}

	out := MyStats{
		Month:         month,
		FailReasons:   []ReasonCount{},
		CancelReasons: []ReasonCount{},
	}
	failCounts := map[string]int{}
	cancelCounts := map[string]int{}

	accepted := 0
	for _, l := range leads {
		if len(l.UploadDate) < 7 || l.UploadDate[:7] != month {
			continue
		}
		out.TotalDB++
		out.TotalAdCost += int64(l.AdCost)

		rev := l.RevenueBasis()
		if isAccepted(l.Status) {
			accepted++
			out.AcceptRevenue += rev
		}
		if isInstalled(l.Status) {
			out.InstalledRevenue += rev
		}
		switch l.Status {
		case lead.StatusFailed:
			failCounts[l.DetailReason]++
		case lead.StatusCanceled:
			cancelCounts[l.DetailReason]++
		}
	}

	out.AcceptRate = ratio(float64(accepted), float64(out.TotalDB))
	out.FinalProfit = out.AcceptRevenue - out.TotalAdCost
	out.FailReasons = sortedReasons(failCounts)
	out.CancelReasons = sortedReasons(cancelCounts)
	return out, nil
}

// Dashboard is the admin's current-month overview: totals, an agent
// leaderboard sorted by revenue, and the per-lead detail table. Revenue here
// is house revenue (policyAmount based), not the agent payout basis used by
// Report.
func (s *Service) Dashboard(ctx context.Context) (Dashboard, error) {
	month := s.clock().UTC().Format("2006-01")

	leads, err := s.leads.List(ctx, lead.Filter{})
	if err != nil {
		return Dashboard{}, err
	}
	agents, err := s.agents.Refs(ctx)
	if err != nil {
		return Dashboard{}, err
	}

	out := Dashboard{
		Month:        month,
		AgentRanking: []AgentRank{},
		Details:      []DashboardDetail{},
	}

	names := map[string]string{}
	for _, ref := range agents {
		names[ref.ID] = ref.Name
	}

	type tally struct {
		total   int
		count   int
		revenue int64
	}
	perAgent := map[string]*tally{}
	for _, ref := range agents {
		perAgent[ref.ID] = &tally{}
	}

	for _, l := range leads {
		if len(l.UploadDate) < 7 || l.UploadDate[:7] != month {
			continue
		}
		if l.IsASApproved {
			continue
		}

		houseRevenue := int64(0)
		if isAccepted(l.Status) {
			houseRevenue = int64(l.PolicyAmount-l.SupportAmount) * 10000
			out.SuccessCount++
			out.TotalRevenue += houseRevenue
		}
		out.TotalDB++
		out.TotalAdCost += int64(l.AdCost)

		agentName := unassignedName
		if l.OwnerID != "" {
			if n, ok := names[l.OwnerID]; ok {
				agentName = n
			} else {
				agentName = l.OwnerID
			}
			if t, ok := perAgent[l.OwnerID]; ok {
				t.total++
				if isAccepted(l.Status) {
					t.count++
					t.revenue += houseRevenue
				}
			}
		}

		out.Details = append(out.Details, DashboardDetail{
			ID:         l.ID,
			UploadDate: l.UploadDate,
			Agent:      agentName,
			Name:       l.Name,
			Platform:   l.Platform,
			Status:     l.Status,
			AdCost:     l.AdCost,
			Policy:     l.PolicyAmount,
			Support:    l.SupportAmount,
			Revenue:    houseRevenue,
			NetProfit:  houseRevenue - int64(l.AdCost),
		})
	}

	out.SuccessRate = ratio(float64(out.SuccessCount), float64(out.TotalDB))
	out.NetProfit = out.TotalRevenue - out.TotalAdCost

	for _, ref := range agents {
		t := perAgent[ref.ID]
		out.AgentRanking = append(out.AgentRanking, AgentRank{
			Name:    ref.Name,
			Total:   t.total,
			Count:   t.count,
			Revenue: t.revenue,
			Rate:    ratio(float64(t.count), float64(t.total)),
		})
	}
	sort.SliceStable(out.AgentRanking, func(i, j int) bool {
		return out.AgentRanking[i].Revenue > out.AgentRanking[j].Revenue
	})
	return out, nil
}

func sortedReasons(counts map[string]int) []ReasonCount {
	out := make([]ReasonCount, 0, len(counts))
	for reason, n := range counts {
		out = append(out, ReasonCount{Reason: reason, Count: n})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Reason < out[j].Reason
	})
	return out
}
