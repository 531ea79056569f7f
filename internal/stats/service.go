package stats

import (
	"context"
	"errors"
	"sort"
	"time"

	"crm-platform/internal/lead"
)

var ErrInvalidArgument = errors.New("stats: invalid argument")

// UnassignedID keys the bucket aggregating pool leads with no owner.
const (
	UnassignedID   = "unassigned"
	unassignedName = "미배정"
)

// PlatformAll disables the platform filter.
const PlatformAll = "ALL"

// LeadSource supplies the leads to aggregate. lead.Repository satisfies it.
type LeadSource interface {
	List(ctx context.Context, f lead.Filter) ([]lead.Lead, error)
}

// AgentRef is the minimal agent identity the aggregator needs for
// pre-seeding buckets.
type AgentRef struct {
	ID   string
	Name string
}

// AgentSource lists the known agents. Every agent appears in the report even
// with zero matching leads.
type AgentSource interface {
	Refs(ctx context.Context) ([]AgentRef, error)
}

// PriceSource supplies per-channel unit costs for ad-spend attribution.
type PriceSource interface {
	Snapshot(ctx context.Context) (map[string]int, error)
}

// Service computes the per-agent, per-platform statistics report.
//
// The aggregation itself is pure: fetch leads/agents/prices, then fold. All
// filtering happens in memory on the fetched set; the store is only asked
// for the platform slice.
type Service struct {
	leads  LeadSource
	agents AgentSource
	prices PriceSource
	clock  func() time.Time
}

func NewService(leads LeadSource, agents AgentSource, prices PriceSource) *Service {
	return &Service{leads: leads, agents: agents, prices: prices, clock: time.Now}
}

// Report produces the agent buckets for the query. Empty result sets yield
// pre-seeded all-zero buckets, never an error; an unknown platform filter
// yields all-zero output the same way.
func (s *Service) Report(ctx context.Context, q Query) ([]AgentStats, error) {
	match, err := dateMatcher(q)
	if err != nil {
		return nil, err
	}

	f := lead.Filter{}
	if q.Platform != "" && q.Platform != PlatformAll {
		f.Platform = q.Platform
	}
	leads, err := s.leads.List(ctx, f)
	if err != nil {
		return nil, err
	}

	agents, err := s.agents.Refs(ctx)
	if err != nil {
		return nil, err
	}

	prices := map[string]int{}
	if s.prices != nil {
		if m, err := s.prices.Snapshot(ctx); err == nil {
			prices = m
		}
	}

	var matched []lead.Lead
	for _, l := range leads {
		if !match(l.UploadDate) {
			continue
		}
		// AS-approved leads contribute nothing anywhere.
		if l.IsASApproved {
			continue
		}
		matched = append(matched, l)
	}

	return aggregate(matched, agents, prices), nil
}

// dateMatcher compiles the literal-length dispatch into a predicate over
// uploadDate strings. ISO dates compare correctly as strings, so the
// day-range check is plain string ordering.
func dateMatcher(q Query) (func(string) bool, error) {
	switch len(q.StartDate) {
	case 10:
		end := q.EndDate
		if end == "" {
			end = q.StartDate
		}
		if len(end) != 10 {
			return nil, ErrInvalidArgument
		}
		start := q.StartDate
		return func(d string) bool {
			return len(d) == 10 && d >= start && d <= end
		}, nil
	case 7:
		prefix := q.StartDate
		return func(d string) bool {
			return len(d) >= 7 && d[:7] == prefix
		}, nil
	default:
		return nil, ErrInvalidArgument
	}
}

// accumulator collects raw counts for one (bucket, platform) cell before the
// derived metrics are computed.
type accumulator struct {
	db               int
	adTarget         int
	accepted         int
	installed        int
	canceled         int
	acceptedRevenue  int64
	installedRevenue int64
}

func (a *accumulator) add(l lead.Lead) {
	a.db++
	if isAdTarget(l.Status) {
		a.adTarget++
	}
	rev := l.RevenueBasis()
	if isAccepted(l.Status) {
		a.accepted++
		a.acceptedRevenue += rev
	}
	if isInstalled(l.Status) {
		a.installed++
		a.installedRevenue += rev
	}
	if isCanceled(l.Status) {
		a.canceled++
	}
}

func aggregate(leads []lead.Lead, agents []AgentRef, prices map[string]int) []AgentStats {
	type bucket struct {
		ref       AgentRef
		platforms map[string]*accumulator
	}

	buckets := map[string]*bucket{}
	ordered := make([]string, 0, len(agents)+1)

	seed := func(ref AgentRef) *bucket {
		b, ok := buckets[ref.ID]
		if !ok {
			b = &bucket{ref: ref, platforms: map[string]*accumulator{}}
			buckets[ref.ID] = b
			ordered = append(ordered, ref.ID)
		}
		return b
	}

	// Every known agent appears even with zero leads; the pool bucket always
	// exists too.
	for _, ref := range agents {
		seed(ref)
	}
	seed(AgentRef{ID: UnassignedID, Name: unassignedName})

	for _, l := range leads {
		id := l.OwnerID
		if id == "" {
			id = UnassignedID
		}
		b, ok := buckets[id]
		if !ok {
			// Owner no longer registered; keep the lead visible anyway.
			b = seed(AgentRef{ID: id, Name: id})
		}
		acc := b.platforms[l.Platform]
		if acc == nil {
			acc = &accumulator{}
			b.platforms[l.Platform] = acc
		}
		acc.add(l)
	}

	out := make([]AgentStats, 0, len(ordered))
	for _, id := range ordered {
		b := buckets[id]

		row := AgentStats{
			ID:              b.ref.ID,
			Name:            b.ref.Name,
			PlatformDetails: []PlatformStats{},
		}
		var total accumulator
		var adSpend int64

		for name, acc := range b.platforms {
			spend := int64(acc.adTarget) * int64(prices[name])
			row.PlatformDetails = append(row.PlatformDetails, finishPlatform(name, *acc, spend))

			total.db += acc.db
			total.adTarget += acc.adTarget
			total.accepted += acc.accepted
			total.installed += acc.installed
			total.canceled += acc.canceled
			total.acceptedRevenue += acc.acceptedRevenue
			total.installedRevenue += acc.installedRevenue
			adSpend += spend
		}

		sort.SliceStable(row.PlatformDetails, func(i, j int) bool {
			return row.PlatformDetails[i].DB > row.PlatformDetails[j].DB
		})

		m := deriveMetrics(total, adSpend)
		row.DB = total.db
		row.AdTargetDB = total.adTarget
		row.Accepted = total.accepted
		row.Installed = total.installed
		row.Canceled = total.canceled
		row.AcceptedRevenue = total.acceptedRevenue
		row.InstalledRevenue = total.installedRevenue
		row.AdSpend = adSpend
		row.NetProfit = m.netProfit
		row.AvgMargin = m.avgMargin
		row.AcceptRate = m.acceptRate
		row.CancelRate = m.cancelRate
		row.NetInstallRate = m.netInstallRate
		row.NetProfitMargin = m.netProfitMargin

		out = append(out, row)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].InstalledRevenue > out[j].InstalledRevenue
	})
	return out
}

type derived struct {
	netProfit       int64
	avgMargin       int64
	acceptRate      float64
	cancelRate      float64
	netInstallRate  float64
	netProfitMargin float64
}

// deriveMetrics applies the shared formulas. Identical at the agent and
// platform levels; every zero denominator yields 0.
func deriveMetrics(a accumulator, adSpend int64) derived {
	d := derived{netProfit: a.installedRevenue - adSpend}

	if a.accepted > 0 {
		d.avgMargin = roundInt64(float64(a.acceptedRevenue) / float64(a.accepted))
	}
	d.acceptRate = ratio(float64(a.accepted), float64(a.db))
	d.cancelRate = ratio(float64(a.canceled), float64(a.accepted+a.canceled))
	d.netInstallRate = ratio(float64(a.installed), float64(a.adTarget))
	if rev := a.acceptedRevenue + a.installedRevenue; rev > 0 {
		d.netProfitMargin = ratio(float64(d.netProfit), float64(rev))
	}
	return d
}

func finishPlatform(name string, a accumulator, adSpend int64) PlatformStats {
	m := deriveMetrics(a, adSpend)
	return PlatformStats{
		Name:             name,
		DB:               a.db,
		AdTargetDB:       a.adTarget,
		Accepted:         a.accepted,
		Installed:        a.installed,
		Canceled:         a.canceled,
		AcceptedRevenue:  a.acceptedRevenue,
		InstalledRevenue: a.installedRevenue,
		AdSpend:          adSpend,
		NetProfit:        m.netProfit,
		AvgMargin:        m.avgMargin,
		AcceptRate:       m.acceptRate,
		CancelRate:       m.cancelRate,
		NetInstallRate:   m.netInstallRate,
		NetProfitMargin:  m.netProfitMargin,
	}
}
