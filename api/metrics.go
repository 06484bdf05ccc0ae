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

package api

import (
	"context"
	"net/http"

	"github.com/chryscloud/nexus-monitor/models"
	"github.com/gin-gonic/gin"
)

// SnapshotCollector produces a fresh snapshot on every call
type SnapshotCollector interface {
	Collect(ctx context.Context) *models.SystemSnapshot
}

type metricsHandler struct {
	collector SnapshotCollector
}

func NewMetricsHandler(collector SnapshotCollector) *metricsHandler {
	return &metricsHandler{
		collector: collector,
	}
}

// Status - service identity
func (mh *metricsHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, models.AgentStatus{
		Status:  models.AgentStatusRunning,
		Version: models.AgentVersion,
	})
}

// Metrics collects and returns a snapshot. Always 200, failures only degrade fields.
func (mh *metricsHandler) Metrics(c *gin.Context) {
	c.JSON(http.StatusOK, mh.collector.Collect(c.Request.Context()))
}
