/*
Copyright 2025 Centime Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	model2 "github.com/centimehq/centime/api/model"
	"github.com/centimehq/centime/internal/apierror"
)

// IngestMessages pushes a batch of raw messages through the extraction
// pipeline for a holder. Used by providers without push notifications and by
// backfills.
func (a Api) IngestMessages(c *gin.Context) {
	var body model2.IngestMessages
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	if err := body.ValidateIngestMessages(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	summary, err := a.centime.IngestMessages(c.Request.Context(), body.HolderID, body.ToMessages())
	if err != nil {
		c.JSON(apierror.MapErrorToHTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, summary)
}

// SyncMailbox pulls and ingests a holder's unread mail immediately.
func (a Api) SyncMailbox(c *gin.Context) {
	id, passed := c.Params.Get("id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required. pass id in the route /:id"})
		return
	}

	summary, err := a.centime.SyncMailbox(c.Request.Context(), id)
	if err != nil {
		c.JSON(apierror.MapErrorToHTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, summary)
}

// MailWebhook receives a push notification from the mailbox provider and
// schedules a sync for the matching holder. The response is always 200 for
// well-formed envelopes, so the provider does not retry notifications for
// unknown mailboxes forever.
func (a Api) MailWebhook(c *gin.Context) {
	var envelope model2.MailPushEnvelope
	if err := c.ShouldBindJSON(&envelope); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	notification, err := envelope.DecodeNotification()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := a.centime.NotifyMailReceived(c.Request.Context(), notification.EmailAddress); err != nil {
		if apierror.IsNotFound(err) {
			logrus.Warnf("webhook: no holder for mailbox %s", notification.EmailAddress)
			c.JSON(http.StatusOK, gin.H{"status": "ignored"})
			return
		}
		c.JSON(apierror.MapErrorToHTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "scheduled"})
}
