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
	"errors"
	"net/http"
	"time"

	g "github.com/chryscloud/nexus-monitor/globals"
	"github.com/chryscloud/nexus-monitor/models"
	"github.com/chryscloud/nexus-monitor/services"
	"github.com/chryscloud/nexus-monitor/utils"
	"github.com/gin-gonic/gin"
)

const contentTypeJSON = "application/json; charset=utf-8"

type settingsHandler struct {
	settingsManager *services.SettingsManager
	now             func() time.Time
}

func NewSettingsHandler(settingsManager *services.SettingsManager) *settingsHandler {
	return &settingsHandler{
		settingsManager: settingsManager,
		now:             time.Now,
	}
}

// Get returns the stored dashboard configuration, [] when none was saved
func (sh *settingsHandler) Get(c *gin.Context) {
	doc, err := sh.settingsManager.Get()
	if err != nil {
		g.Log.Error("failed to retrieve configuration", err)
		AbortWithError(c, http.StatusInternalServerError, models.ErrorCodeServerError)
		return
	}
	c.Data(http.StatusOK, contentTypeJSON, doc)
}

// Overwrite replaces the configuration. Requires today's code in the X-PIN header.
func (sh *settingsHandler) Overwrite(c *gin.Context) {
	if !sh.authorized(c) {
		return
	}
	body, err := c.GetRawData()
	if err != nil {
		g.Log.Error("failed to read configuration body", err)
		AbortWithError(c, http.StatusInternalServerError, models.ErrorCodeServerError)
		return
	}
	if err := sh.settingsManager.Overwrite(body); err != nil {
		sh.abortWrite(c, err)
		return
	}
	c.JSON(http.StatusOK, models.StatusResponse{Status: models.StatusSuccess})
}

// Revisions lists stored revisions newest first
func (sh *settingsHandler) Revisions(c *gin.Context) {
	revs, err := sh.settingsManager.Revisions()
	if err != nil {
		g.Log.Error("failed to list configuration revisions", err)
		AbortWithError(c, http.StatusInternalServerError, models.ErrorCodeServerError)
		return
	}
	c.JSON(http.StatusOK, revs)
}

// Revision returns the document stored in one revision
func (sh *settingsHandler) Revision(c *gin.Context) {
	rev, err := sh.settingsManager.Revision(c.Param("id"))
	if err != nil {
		if errors.Is(err, models.ErrRevisionNotFound) || errors.Is(err, models.ErrHistoryDisabled) {
			AbortWithError(c, http.StatusNotFound, models.ErrorCodeNotFound)
			return
		}
		g.Log.Error("failed to retrieve configuration revision", c.Param("id"), err)
		AbortWithError(c, http.StatusInternalServerError, models.ErrorCodeServerError)
		return
	}
	c.Data(http.StatusOK, contentTypeJSON, rev.Document)
}

// Restore makes a revision the live configuration. Same code rules as Overwrite.
func (sh *settingsHandler) Restore(c *gin.Context) {
	if !sh.authorized(c) {
		return
	}
	if err := sh.settingsManager.Restore(c.Param("id")); err != nil {
		if errors.Is(err, models.ErrRevisionNotFound) || errors.Is(err, models.ErrHistoryDisabled) {
			AbortWithError(c, http.StatusNotFound, models.ErrorCodeNotFound)
			return
		}
		sh.abortWrite(c, err)
		return
	}
	c.JSON(http.StatusOK, models.StatusResponse{Status: models.StatusSuccess})
}

func (sh *settingsHandler) authorized(c *gin.Context) bool {
	if !utils.ValidPIN(c.GetHeader(models.HeaderPIN), sh.now()) {
		g.Log.Warn("configuration write rejected, invalid pin from", c.ClientIP())
		AbortWithError(c, http.StatusForbidden, models.ErrorCodeInvalidPin)
		return false
	}
	return true
}

// abortWrite hides the failure detail from the client
func (sh *settingsHandler) abortWrite(c *gin.Context, err error) {
	if errors.Is(err, models.ErrInvalidDocument) {
		g.Log.Warn("configuration write rejected", err)
	} else {
		g.Log.Error("failed to save configuration", err)
	}
	AbortWithError(c, http.StatusInternalServerError, models.ErrorCodeServerError)
}
