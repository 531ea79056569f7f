package lead

// Well-known status values. The stored status column is an open string so
// admins can define new display labels at runtime, but these exact values are
// load-bearing: the ownership engine writes them and the statistics
// aggregator buckets on them. Keep them as named constants so the
// inclusion/exclusion sets stay auditable as the vocabulary evolves.
const (
	// StatusUnworked is the initial state of every captured lead.
	StatusUnworked = "미통건"

	// StatusRequeued is set whenever a lead is (re)claimed for follow-up.
	StatusRequeued = "재통"

	// StatusNoAnswer flips back to StatusRequeued on any inbound SMS.
	StatusNoAnswer = "부재"

	StatusAccepted    = "접수완료"
	StatusInstalled   = "설치완료"
	StatusCanceled    = "접수취소"
	StatusTerminating = "해지진행"

	// StatusASApproved removes the lead from every statistic.
	StatusASApproved  = "AS승인"
	StatusASRequested = "AS요청"

	StatusFailed          = "실패"
	StatusDuplicate       = "중복"
	StatusFailedHandedOff = "실패이관"
)
