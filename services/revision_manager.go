// Copyright 2020 Wearless Tech Inc All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package services

import (
	"encoding/json"
	"errors"
	"sort"
	"time"

	g "github.com/chryscloud/nexus-monitor/globals"
	"github.com/chryscloud/nexus-monitor/models"
	badger "github.com/dgraph-io/badger/v2"
	"github.com/rs/xid"
)

// RevisionManager - history of accepted dashboard configurations
type RevisionManager struct {
	storage *Storage
}

func NewRevisionManager(storage *Storage) *RevisionManager {
	return &RevisionManager{
		storage: storage,
	}
}

// Record stores doc as a new revision
func (rm *RevisionManager) Record(doc []byte, now time.Time) (*models.ConfigRevision, error) {
	rev := &models.ConfigRevision{
		ID:       xid.New().String(),
		Created:  now.UnixNano() / int64(time.Millisecond),
		Size:     len(doc),
		Document: json.RawMessage(doc),
	}
	raw, err := json.Marshal(rev)
	if err != nil {
		g.Log.Error("failed to marshal config revision", err)
		return nil, err
	}
	if err := rm.storage.Put(models.PrefixConfigRevision, rev.ID, raw); err != nil {
		g.Log.Error("failed to store config revision", rev.ID, err)
		return nil, err
	}
	return rev, nil
}

// List returns all revisions newest first, without their documents
func (rm *RevisionManager) List() ([]*models.ConfigRevision, error) {
	all, err := rm.storage.List(models.PrefixConfigRevision)
	if err != nil {
		return nil, err
	}
	revisions := make([]*models.ConfigRevision, 0, len(all))
	for id, raw := range all {
		var rev models.ConfigRevision
		if err := json.Unmarshal(raw, &rev); err != nil {
			g.Log.Warn("skipping unreadable config revision", id, err)
			continue
		}
		rev.Document = nil
		revisions = append(revisions, &rev)
	}
	sort.Slice(revisions, func(i, j int) bool {
		if revisions[i].Created != revisions[j].Created {
			return revisions[i].Created > revisions[j].Created
		}
		return revisions[i].ID > revisions[j].ID
	})
	return revisions, nil
}

// Get returns models.ErrRevisionNotFound for unknown ids
func (rm *RevisionManager) Get(id string) (*models.ConfigRevision, error) {
	if _, err := xid.FromString(id); err != nil {
		return nil, models.ErrRevisionNotFound
	}
	raw, err := rm.storage.Get(models.PrefixConfigRevision, id)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, models.ErrRevisionNotFound
	}
	if err != nil {
		g.Log.Error("failed to read config revision", id, err)
		return nil, err
	}
	var rev models.ConfigRevision
	if err := json.Unmarshal(raw, &rev); err != nil {
		g.Log.Error("failed to unmarshal config revision", id, err)
		return nil, err
	}
	return &rev, nil
}

// Prune deletes revisions created before cutoff and returns how many were removed
func (rm *RevisionManager) Prune(cutoff time.Time) (int, error) {
	all, err := rm.storage.List(models.PrefixConfigRevision)
	if err != nil {
		return 0, err
	}
	cutoffMs := cutoff.UnixNano() / int64(time.Millisecond)
	removed := 0
	for id, raw := range all {
		var rev models.ConfigRevision
		if err := json.Unmarshal(raw, &rev); err != nil {
			g.Log.Warn("pruning unreadable config revision", id, err)
		} else if rev.Created >= cutoffMs {
			continue
		}
		if err := rm.storage.Del(models.PrefixConfigRevision, id); err != nil {
			g.Log.Error("failed to delete config revision", id, err)
			return removed, err
		}
		removed++
	}
	return removed, nil
}
