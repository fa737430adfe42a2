package persist

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/alchemypls/stellar/internal/state"
)

// RecordVersion is the envelope version written by Encode.
const RecordVersion = 1

// ErrUnsupportedVersion is returned by Decode for unknown envelope versions.
var ErrUnsupportedVersion = errors.New("unsupported save version")

// Record is the envelope stored in a slot.
type Record struct {
	Version   int           `json:"version"`
	SessionID string        `json:"sessionId"`
	SavedAt   time.Time     `json:"savedAt"`
	State     state.Session `json:"state"`
}

// NewSessionID returns a time-ordered session identifier.
func NewSessionID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// NewRecord wraps a session for saving.
func NewRecord(sessionID string, s state.Session, savedAt time.Time) Record {
	if sessionID == "" {
		sessionID = NewSessionID()
	}
	return Record{
		Version:   RecordVersion,
		SessionID: sessionID,
		SavedAt:   savedAt.UTC(),
		State:     s,
	}
}

// Encode serialises a record. Set fields are written sorted and without
// duplicates.
func Encode(r Record) ([]byte, error) {
	if r.Version == 0 {
		r.Version = RecordVersion
	}
	r.State = normalizeSession(r.State, false)

	data, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	return data, nil
}

// Decode parses a record and de-duplicates its set fields.
func Decode(data []byte) (Record, error) {
	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return Record{}, fmt.Errorf("decode record: %w", err)
	}
	if r.Version != RecordVersion {
		return Record{}, fmt.Errorf("%w: %d", ErrUnsupportedVersion, r.Version)
	}
	if _, err := uuid.Parse(r.SessionID); err != nil {
		r.SessionID = ""
	}
	r.State = normalizeSession(r.State, true)
	return r, nil
}

func normalizeSession(s state.Session, lowerConstellations bool) state.Session {
	s.VisitedStars = uniqueSorted(s.VisitedStars, false)
	s.UnlockedConstellations = uniqueSorted(s.UnlockedConstellations, lowerConstellations)
	s.DiscoveredConstellations = uniqueSorted(s.DiscoveredConstellations, lowerConstellations)
	return s
}

func uniqueSorted(in []string, lower bool) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, v := range in {
		if lower {
			v = strings.ToLower(v)
		}
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
