/* Copyright 2025 notectl Authors
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

package ui

import "github.com/vanminhtruong/notectl/pkg/cli/log"

// Notifier surfaces the outcome of a mutation or a background reconciliation
// to the user. A failed mutation notifies exactly once through this interface.
type Notifier interface {
	Successf(msg string, v ...interface{})
	Errorf(msg string, v ...interface{})
}

// LogNotifier writes notifications to the terminal through the standard log
type LogNotifier struct{}

// Successf reports a successful outcome
func (LogNotifier) Successf(msg string, v ...interface{}) {
	log.Successf(msg, v...)
}

// Errorf reports a failure
func (LogNotifier) Errorf(msg string, v ...interface{}) {
	log.Errorf(msg, v...)
}
