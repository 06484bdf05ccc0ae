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
	"bytes"
	"encoding/json"
	"sync"
	"time"

	g "github.com/chryscloud/nexus-monitor/globals"
	"github.com/chryscloud/nexus-monitor/models"
)

const configIndent = "  "

// SettingsManager - the dashboard configuration document and its optional revision history
type SettingsManager struct {
	store     *FileConfigStore
	revisions *RevisionManager // nil when history is disabled
	mux       *sync.Mutex
	now       func() time.Time
}

func NewSettingsManager(store *FileConfigStore, revisions *RevisionManager) *SettingsManager {
	return &SettingsManager{
		store:     store,
		revisions: revisions,
		mux:       &sync.Mutex{},
		now:       time.Now,
	}
}

// Get returns the current document exactly as stored
func (sm *SettingsManager) Get() ([]byte, error) {
	return sm.store.Load()
}

// Overwrite replaces the stored document. Invalid JSON is rejected with
// models.ErrInvalidDocument and leaves the stored document untouched.
func (sm *SettingsManager) Overwrite(doc []byte) error {
	if !json.Valid(doc) {
		return models.ErrInvalidDocument
	}
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, bytes.TrimSpace(doc), "", configIndent); err != nil {
		return models.ErrInvalidDocument
	}

	sm.mux.Lock()
	defer sm.mux.Unlock()

	if err := sm.store.Save(pretty.Bytes()); err != nil {
		return err
	}
	if sm.revisions != nil {
		if _, err := sm.revisions.Record(pretty.Bytes(), sm.now()); err != nil {
			// the configuration itself was saved
			g.Log.Warn("failed to record config revision", err)
		}
	}
	return nil
}

// Restore makes a stored revision the current document again
func (sm *SettingsManager) Restore(id string) error {
	rev, err := sm.Revision(id)
	if err != nil {
		return err
	}
	return sm.Overwrite(rev.Document)
}

// HistoryEnabled reports whether accepted documents are recorded as revisions
func (sm *SettingsManager) HistoryEnabled() bool {
	return sm.revisions != nil
}

// Revisions lists revisions newest first, empty when history is disabled
func (sm *SettingsManager) Revisions() ([]*models.ConfigRevision, error) {
	if sm.revisions == nil {
		return []*models.ConfigRevision{}, nil
	}
	return sm.revisions.List()
}

func (sm *SettingsManager) Revision(id string) (*models.ConfigRevision, error) {
	if sm.revisions == nil {
		return nil, models.ErrHistoryDisabled
	}
	return sm.revisions.Get(id)
}
