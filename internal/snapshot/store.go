package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/uuid/v5"
)

// versionLayout sorts lexically in time order
const versionLayout = "20060102T150405.000000Z"

// ErrNotFound is returned when a campaign has no stored version to load
var ErrNotFound = errors.New("snapshot not found")

// Version describes one stored snapshot
type Version struct {
	ID         string
	CampaignID int64
	Message    string
	CreatedAt  time.Time
	Sequences  int
}

// ShortID is the unique suffix of the version, for display
func (v Version) ShortID() string {
	if i := strings.LastIndexByte(v.ID, '-'); i >= 0 {
		return v.ID[i+1:]
	}
	return v.ID
}

// Store is a directory of campaign snapshots
type Store struct {
	dir string
	now func() time.Time

	mu   sync.Mutex
	last time.Time
}

// NewStore creates a store rooted at dir; the directory is created on first save
func NewStore(dir string) *Store {
	return &Store{
		dir: dir,
		now: time.Now,
	}
}

// Dir returns the store's root directory
func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) campaignDir(campaignID int64) string {
	return filepath.Join(s.dir, strconv.FormatInt(campaignID, 10))
}

// stamp returns a save time strictly after the previous one, at the
// resolution of the version layout
func (s *Store) stamp() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC().Truncate(time.Microsecond)
	if !now.After(s.last) {
		now = s.last.Add(time.Microsecond)
	}
	s.last = now
	return now
}

// newVersionID builds a time-ordered version id with a random suffix
func (s *Store) newVersionID(at time.Time) (string, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return "", fmt.Errorf("failed to generate version id: %w", err)
	}
	return at.UTC().Format(versionLayout) + "-" + id.String()[:8], nil
}

// Save writes snap as a new version with the given message
func (s *Store) Save(ctx context.Context, snap *Snapshot, message string) (Version, error) {
	if err := ctx.Err(); err != nil {
		return Version{}, err
	}
	if snap == nil {
		return Version{}, errors.New("snapshot is nil")
	}
	if snap.CampaignID <= 0 {
		return Version{}, fmt.Errorf("invalid campaign id %d", snap.CampaignID)
	}

	now := s.stamp()
	versionID, err := s.newVersionID(now)
	if err != nil {
		return Version{}, err
	}

	stored := *snap
	stored.Message = message
	if stored.UpdatedAt == "" {
		stored.UpdatedAt = now.UTC().Format(time.RFC3339)
	}

	data, err := json.MarshalIndent(stored, "", "  ")
	if err != nil {
		return Version{}, fmt.Errorf("failed to encode snapshot: %w", err)
	}

	dir := s.campaignDir(snap.CampaignID)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return Version{}, fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	// stage in a temp file, then rename into place
	tmp, err := os.CreateTemp(dir, ".snapshot-*")
	if err != nil {
		return Version{}, fmt.Errorf("failed to create snapshot file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return Version{}, fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return Version{}, fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(dir, versionID+".json")); err != nil {
		return Version{}, fmt.Errorf("failed to store snapshot: %w", err)
	}

	return Version{
		ID:         versionID,
		CampaignID: snap.CampaignID,
		Message:    message,
		CreatedAt:  now,
		Sequences:  len(snap.Sequences),
	}, nil
}

// List returns the stored versions of a campaign, newest first.
// A campaign without history yields an empty list.
func (s *Store) List(campaignID int64) ([]Version, error) {
	entries, err := os.ReadDir(s.campaignDir(campaignID))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []Version{}, nil
		}
		return nil, fmt.Errorf("failed to read snapshot directory: %w", err)
	}

	versions := make([]Version, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") || filepath.Ext(name) != ".json" {
			continue
		}
		versionID := strings.TrimSuffix(name, ".json")

		snap, err := s.Load(campaignID, versionID)
		if err != nil {
			return nil, err
		}

		version := Version{
			ID:         versionID,
			CampaignID: campaignID,
			Message:    snap.Message,
			Sequences:  len(snap.Sequences),
		}
		if stamp, _, ok := strings.Cut(versionID, "-"); ok {
			if created, err := time.Parse(versionLayout, stamp); err == nil {
				version.CreatedAt = created
			}
		}
		versions = append(versions, version)
	}

	sort.Slice(versions, func(i, j int) bool {
		return versions[i].ID > versions[j].ID
	})

	return versions, nil
}

// Load reads one version. The version may be given in full or as its short id.
func (s *Store) Load(campaignID int64, version string) (*Snapshot, error) {
	if version == "" || filepath.Base(version) != version || strings.HasPrefix(version, ".") {
		return nil, fmt.Errorf("invalid version %q", version)
	}

	path := filepath.Join(s.campaignDir(campaignID), version+".json")
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		resolved, err := s.resolveShortID(campaignID, version)
		if err != nil {
			return nil, err
		}
		path = filepath.Join(s.campaignDir(campaignID), resolved+".json")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: campaign %d version %s", ErrNotFound, campaignID, version)
		}
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot %s: %w", filepath.Base(path), err)
	}
	return &snap, nil
}

// resolveShortID finds the single version whose id ends with the short id
func (s *Store) resolveShortID(campaignID int64, short string) (string, error) {
	entries, err := os.ReadDir(s.campaignDir(campaignID))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("failed to read snapshot directory: %w", err)
	}

	var matches []string
	for _, entry := range entries {
		versionID := strings.TrimSuffix(entry.Name(), ".json")
		if strings.HasSuffix(versionID, "-"+short) {
			matches = append(matches, versionID)
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%w: campaign %d version %s", ErrNotFound, campaignID, short)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("version %q is ambiguous for campaign %d", short, campaignID)
	}
}

// Latest returns the newest version of a campaign
func (s *Store) Latest(campaignID int64) (*Snapshot, Version, error) {
	versions, err := s.List(campaignID)
	if err != nil {
		return nil, Version{}, err
	}
	if len(versions) == 0 {
		return nil, Version{}, fmt.Errorf("%w: campaign %d has no history", ErrNotFound, campaignID)
	}

	snap, err := s.Load(campaignID, versions[0].ID)
	if err != nil {
		return nil, Version{}, err
	}
	return snap, versions[0], nil
}
