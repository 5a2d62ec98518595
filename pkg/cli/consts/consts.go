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

// Package consts provides definitions of constants
package consts

var (
	// AppDirName is the name of the directory containing notectl files
	AppDirName = "notectl"
	// DBFileName is a filename for the notectl SQLite database
	DBFileName = "notectl.db"
	// TmpContentFileBase is the base for the filename for a temporary content
	TmpContentFileBase = "NOTECTL_TMPCONTENT"
	// TmpContentFileExt is the extension for the temporary content file
	TmpContentFileExt = "md"
	// ConfigFilename is the name of the config file
	ConfigFilename = "notectlrc"

	// SystemToken is the key for the bearer token in the system table
	SystemToken = "token"
	// SystemUser is the key for the JSON-serialized current user in the system table
	SystemUser = "user"
	// SystemDeviceID is the key for the device identifier sent on login
	SystemDeviceID = "device_id"
	// SystemLastUpgradeCheck is the timestamp at which the system most recently
	// checked for an upgrade
	SystemLastUpgradeCheck = "last_upgrade_check"
)
