package models

// LotteryPoolSize is the number of preliminary draw numbers available (1..16).
const LotteryPoolSize = 16

type LotteryStatus string

const (
	LotteryAssigned      LotteryStatus = "assigned"
	LotteryNotRequested  LotteryStatus = "not_requested"
	LotteryPoolExhausted LotteryStatus = "pool_exhausted"
)

type LotteryAssignment struct {
	EntryID   string        `json:"entry_id"`
	Requested *int          `json:"requested,omitempty"`
	Final     *int          `json:"final,omitempty"`
	Bumped    bool          `json:"bumped"`
	Status    LotteryStatus `json:"status"`
}
