// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

/*
Package mirror uploads local files and directory trees over a session.Session,
recreating the local layout under a remote base directory.

	+-------------+      +-------------+      +-------------+
	| UploadMany  |----->| UploadTree  |----->| UploadFile  |
	| (classify)  |      |  (walk)     |      | (lazy mkdir)|
	+-------------+      +-------------+      +------+------+
	                                                 |
	                                          +------v------+
	                                          |   Session   |
	                                          +-------------+

🔄 Flow:
1. Each input path is classified as file, directory or unknown
2. Directories are walked depth first; every directory gets one
   best-effort MakeDir before its children are uploaded
3. Files are stored directly; when a store fails the parent chain is
   created one prefix at a time and the store is retried once

Remote directories are never checked for existence. A failing MakeDir is
assumed to mean the directory is already there.

Calls on the session are strictly sequential.

🔍 Example:

	sess, err := session.Dial(ctx, settings)
	if err != nil {
		return err
	}
	defer sess.Quit(ctx)

	engine, err := mirror.New(mirror.Options{Session: sess})
	if err != nil {
		return err
	}
	result, err := engine.UploadMany(ctx, []string{"site", "robots.txt"}, "public_html")
*/
package mirror
