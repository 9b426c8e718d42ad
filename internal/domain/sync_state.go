package domain

import (
	"time"
)

// SyncStatus represents the overall status of a branch sync run
type SyncStatus string

const (
	SyncStatusPending   SyncStatus = "pending"
	SyncStatusRunning   SyncStatus = "running"
	SyncStatusCompleted SyncStatus = "completed"
	SyncStatusFailed    SyncStatus = "failed"
	SyncStatusRestored  SyncStatus = "restored"
)

// OperationStatus represents the status of a single branch checkout
type OperationStatus string

const (
	OperationStatusPending   OperationStatus = "pending"
	OperationStatusCompleted OperationStatus = "completed"
	OperationStatusFailed    OperationStatus = "failed"
)

// SyncState journals one run of the remote branch sync so a failed run can be inspected and restored.
type SyncState struct {
	SessionID        string          `json:"session_id"`
	Workdir          string          `json:"workdir"`
	StartedAt        time.Time       `json:"started_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
	OriginalRef      string          `json:"original_ref"`
	OriginalDetached bool            `json:"original_detached,omitempty"`
	Candidates       []string        `json:"candidates"`
	Operations       []SyncOperation `json:"operations"`
	Status           SyncStatus      `json:"status"`
	Error            string          `json:"error,omitempty"`
}

// SyncOperation records the checkout of one remote branch
type SyncOperation struct {
	Branch      string          `json:"branch"`
	Status      OperationStatus `json:"status"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
	Error       string          `json:"error,omitempty"`
}

// NewSyncState creates a new sync state
func NewSyncState(sessionID, workdir string) *SyncState {
	now := time.Now()
	return &SyncState{
		SessionID:  sessionID,
		Workdir:    workdir,
		StartedAt:  now,
		UpdatedAt:  now,
		Candidates: []string{},
		Operations: []SyncOperation{},
		Status:     SyncStatusPending,
	}
}

// Start records the original ref and the candidate branches and marks the run as running
func (s *SyncState) Start(originalRef string, detached bool, candidates []string) {
	s.OriginalRef = originalRef
	s.OriginalDetached = detached
	s.Candidates = append([]string{}, candidates...)
	s.Operations = make([]SyncOperation, 0, len(candidates))
	for _, c := range candidates {
		s.Operations = append(s.Operations, SyncOperation{Branch: c, Status: OperationStatusPending})
	}
	s.Status = SyncStatusRunning
	s.UpdatedAt = time.Now()
}

// MarkCheckedOut marks the branch checkout as completed
func (s *SyncState) MarkCheckedOut(branch string) {
	now := time.Now()
	for i := range s.Operations {
		if s.Operations[i].Branch == branch && s.Operations[i].Status == OperationStatusPending {
			s.Operations[i].Status = OperationStatusCompleted
			s.Operations[i].CompletedAt = &now
			break
		}
	}
	s.UpdatedAt = now
}

// MarkFailed marks the run as failed; when branch is set the matching operation fails too
func (s *SyncState) MarkFailed(branch string, err error) {
	now := time.Now()
	if branch != "" {
		for i := range s.Operations {
			if s.Operations[i].Branch == branch && s.Operations[i].Status == OperationStatusPending {
				s.Operations[i].Status = OperationStatusFailed
				s.Operations[i].CompletedAt = &now
				s.Operations[i].Error = err.Error()
				break
			}
		}
	}
	s.Status = SyncStatusFailed
	s.Error = err.Error()
	s.UpdatedAt = now
}

// MarkCompleted marks the run as completed
func (s *SyncState) MarkCompleted() {
	s.Status = SyncStatusCompleted
	s.UpdatedAt = time.Now()
}

// MarkRestored marks a failed run whose original ref has been checked out again
func (s *SyncState) MarkRestored() {
	s.Status = SyncStatusRestored
	s.UpdatedAt = time.Now()
}

// CheckedOut returns the branches checked out so far, in order
func (s *SyncState) CheckedOut() []string {
	var out []string
	for _, op := range s.Operations {
		if op.Status == OperationStatusCompleted {
			out = append(out, op.Branch)
		}
	}
	return out
}

// NeedsRestore reports whether the run ended somewhere other than the original ref
func (s *SyncState) NeedsRestore() bool {
	return s.Status == SyncStatusFailed || s.Status == SyncStatusRunning
}
