// Copyright 2019 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package mdma

// Receives progress notifications from long running operations. Calls are
// made synchronously from the goroutine running the operation.
type ProgressSink interface {
	OnProgress(done, total uint32, label string)
}

// Adapts a plain function to ProgressSink.
type ProgressFunc func(done, total uint32, label string)

func (f ProgressFunc) OnProgress(done, total uint32, label string) {
	f(done, total, label)
}

// Discards all notifications.
var NoProgress ProgressSink = ProgressFunc(func(uint32, uint32, string) {})
