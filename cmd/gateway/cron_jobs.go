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

package main

import (
	"time"

	g "github.com/chryscloud/nexus-monitor/globals"
	"github.com/chryscloud/nexus-monitor/services"
	"github.com/robfig/cron/v3"
)

// StartCronJobs schedules pruning of configuration revisions older than the retention
func StartCronJobs(conf g.Config, revisions *services.RevisionManager) (*cron.Cron, error) {
	c := cron.New(cron.WithLocation(time.UTC))

	retention, err := time.ParseDuration(conf.History.Retention)
	if err != nil {
		g.Log.Error("failed to parse revision retention", err)
		return nil, err
	}

	cID, err := c.AddFunc(conf.History.Schedule, pruneRevisions(revisions, retention, time.Now))
	if err != nil {
		g.Log.Error("failed to schedule revision cleanup", conf.History.Schedule, err)
		return nil, err
	}
	c.Start()
	g.Log.Info("started revision cleanup", cID, conf.History.Schedule)

	return c, nil
}

func pruneRevisions(revisions *services.RevisionManager, retention time.Duration, now func() time.Time) func() {
	return func() {
		cutoff := now().UTC().Add(-retention)
		removed, err := revisions.Prune(cutoff)
		if err != nil {
			g.Log.Error("failed to prune config revisions", err)
			return
		}
		if removed > 0 {
			g.Log.Info("pruned config revisions older than", cutoff, removed)
		}
	}
}
