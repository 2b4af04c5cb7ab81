// Copyright 2025 Sanare AI
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


// Package onboarding runs long-lived documentation crawls for tenants.
//
// An onboarding job moves through pending -> running -> {completed,
// failed}. Discovery failures fail the job outright; failures inside a
// single page are contained at the page boundary, so one bad or
// rate-limited page never aborts the rest of the crawl. The job row in
// storage is the only progress channel: the orchestrator writes counters
// after every page, and API pollers read the same row.
package onboarding
