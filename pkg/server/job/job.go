/* Copyright 2025 Cardbox Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package job schedules the background tasks of the server
package job

import (
	"github.com/cardbox/cardbox/pkg/server/app"
	"github.com/cardbox/cardbox/pkg/server/log"
	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
)

// errorLogRetentionDays is the number of days generation error logs are kept
const errorLogRetentionDays = 90

// Runner schedules and runs the background tasks
type Runner struct {
	app  *app.App
	cron *cron.Cron
}

// NewRunner returns a new runner for the given app
func NewRunner(a *app.App) *Runner {
	return &Runner{
		app:  a,
		cron: cron.New(),
	}
}

// Do runs the background tasks on a schedule. It returns immediately after
// scheduling the tasks.
func (r *Runner) Do() error {
	if _, err := r.cron.AddFunc("@hourly", r.clearExpiredSessions); err != nil {
		return errors.Wrap(err, "scheduling session cleanup")
	}
	if _, err := r.cron.AddFunc("@daily", r.clearOldGenerationErrorLogs); err != nil {
		return errors.Wrap(err, "scheduling error log cleanup")
	}

	r.cron.Start()
	log.Info("Started background tasks")

	return nil
}

// Stop stops the scheduler. Running tasks are not interrupted.
func (r *Runner) Stop() {
	r.cron.Stop()
}

func (r *Runner) clearExpiredSessions() {
	count, err := r.app.DeleteExpiredSessions()
	if err != nil {
		log.ErrorWrap(err, "deleting expired sessions")
		return
	}

	if count > 0 {
		log.WithFields(log.Fields{
			"count": count,
		}).Info("Deleted expired sessions")
	}
}

func (r *Runner) clearOldGenerationErrorLogs() {
	count, err := r.app.DeleteOldGenerationErrorLogs(errorLogRetentionDays)
	if err != nil {
		log.ErrorWrap(err, "deleting old generation error logs")
		return
	}

	if count > 0 {
		log.WithFields(log.Fields{
			"count": count,
		}).Info("Deleted old generation error logs")
	}
}
