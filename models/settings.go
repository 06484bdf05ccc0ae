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

package models

import "encoding/json"

const (
	PrefixConfigRevision = "/configrevision/"

	// EmptyConfigDocument is served when no configuration was ever saved
	EmptyConfigDocument = "[]"

	HeaderPIN = "X-PIN"
)

// ConfigRevision - a previously accepted dashboard configuration
type ConfigRevision struct {
	ID       string          `json:"id"`                 // xid, time ordered
	Created  int64           `json:"created"`            // unix timestamp in ms when stored
	Size     int             `json:"size"`               // document size in bytes
	Document json.RawMessage `json:"document,omitempty"` // omitted in listings
}

// StatusResponse - acknowledgement body
type StatusResponse struct {
	Status string `json:"status"`
}

const StatusSuccess = "success"
