package domain

// NodeInfo is what this node tells the orchestrator about itself at
// registration time.
type NodeInfo struct {
	NodeID string `json:"node_id"`
	GPU    string `json:"gpu"`
	Status string `json:"status"`
	Port   int    `json:"port"`
}

// Health is one periodic health snapshot. ActiveSessions counts
// connected sessions only; MemoryUsed is in GB.
type Health struct {
	Status         string  `json:"status"`
	Model          string  `json:"model"`
	GPU            string  `json:"gpu"`
	MemoryUsed     float64 `json:"memory_used"`
	ActiveSessions int     `json:"active_sessions"`
	NodeID         string  `json:"node_id"`
}

// PendingOffer is an offer pulled from the orchestrator, alive only
// between poll and answer dispatch.
type PendingOffer struct {
	SessionID string `json:"session_id"`
	Offer     string `json:"offer"`
}
