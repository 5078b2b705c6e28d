package domain

import "sync"

// State is the navigation session shared by the UI and the scanner
// goroutine. The scanner only reads it.
type State struct {
	mu          sync.Mutex
	destination string
	scanning    bool
	runID       string
}

type Snapshot struct {
	Destination string
	Scanning    bool
	RunID       string
}

func NewState() *State {
	return &State{}
}

func (s *State) Select(destination string) {
	s.mu.Lock()
	s.destination = destination
	s.mu.Unlock()
}

func (s *State) Destination() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.destination
}

// BeginScan makes runID the current run. It fails while another run is
// still scanning.
func (s *State) BeginScan(runID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.scanning {
		return false
	}
	s.scanning = true
	s.runID = runID
	return true
}

func (s *State) RunActive(runID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scanning && s.runID == runID
}

// Current reports whether runID is the latest run that was not reset. A run
// that stopped on its own stays current until the next one begins.
func (s *State) Current(runID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return runID != "" && s.runID == runID
}

func (s *State) EndScan(runID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.runID == runID {
		s.scanning = false
	}
}

// Reset clears the session and returns the id of the run it abandoned.
func (s *State) Reset() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.runID
	s.destination = ""
	s.scanning = false
	s.runID = ""
	return prev
}

func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{Destination: s.destination, Scanning: s.scanning, RunID: s.runID}
}
