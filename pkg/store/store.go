// Package store persists reconciled picks. The whole durability layer is
// one JSON file: it is read fully, mutated in memory, and rewritten only
// when a reconcile pass actually changed something.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/pickscope/pickscope/pkg/pick"
)

// Store is the entire persisted state.
type Store struct {
	Picks  []pick.Stored          `json:"picks"`
	Config map[string]interface{} `json:"config"`
}

func empty() *Store {
	return &Store{Picks: []pick.Stored{}, Config: map[string]interface{}{}}
}

// State says how the on-disk store was obtained.
type State int

const (
	Loaded State = iota
	Missing
	Corrupt
)

// LoadResult always carries a usable (possibly empty) store, plus enough
// context for the caller to decide policy. Treating a Corrupt store as
// empty risks re-inserting the whole history on the next write, so that
// choice belongs to the caller, loudly, not to the loader.
type LoadResult struct {
	Store *Store
	State State
	Err   error // set when State == Corrupt
}

// Load reads the store file at path.
func Load(path string) LoadResult {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return LoadResult{Store: empty(), State: Missing}
	}
	if err != nil {
		return LoadResult{Store: empty(), State: Corrupt, Err: err}
	}
	var s Store
	if err := json.Unmarshal(data, &s); err != nil {
		return LoadResult{Store: empty(), State: Corrupt, Err: err}
	}
	if s.Picks == nil {
		s.Picks = []pick.Stored{}
	}
	if s.Config == nil {
		s.Config = map[string]interface{}{}
	}
	return LoadResult{Store: &s, State: Loaded}
}

// Save writes the store as pretty-printed JSON, renamed into place so a
// crash mid-write can't leave a torn file.
func Save(path string, s *Store) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encode store: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write store: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace store: %w", err)
	}
	return nil
}

// Sort orders picks ascending by (date, insertion timestamp).
func (s *Store) Sort() {
	sort.SliceStable(s.Picks, func(i, j int) bool {
		if s.Picks[i].Date != s.Picks[j].Date {
			return s.Picks[i].Date < s.Picks[j].Date
		}
		return s.Picks[i].TS < s.Picks[j].TS
	})
}

// Persist sorts and writes the store, but only when the reconcile pass
// changed something. An all-skipped run leaves the file untouched.
// Reports whether a write happened.
func Persist(path string, s *Store, st Stats) (bool, error) {
	if st.Added == 0 && st.Updated == 0 {
		return false, nil
	}
	s.Sort()
	if err := Save(path, s); err != nil {
		return false, err
	}
	return true, nil
}
