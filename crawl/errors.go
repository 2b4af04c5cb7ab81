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

package crawl

import "errors"

var (
	// ErrInvalidRootURL indicates the root URL could not be parsed or is not http(s).
	ErrInvalidRootURL = errors.New("invalid root url")

	// ErrFetcherRequired indicates a nil fetcher was passed to a constructor.
	ErrFetcherRequired = errors.New("fetcher is required")

	// ErrFetchFailed indicates a page request completed with a non-success status.
	ErrFetchFailed = errors.New("fetch failed")
)
