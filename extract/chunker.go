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


package extract

import "strings"

// Default chunking parameters. Word counts approximate embedding-model
// tokens closely enough for retrieval quality.
const (
	DefaultChunkSize = 500
	DefaultOverlap   = 50
)

// SplitWords splits text into overlapping word windows.
//
// The window is chunkSize words wide and advances by chunkSize-overlap words
// (minimum 1), so adjacent chunks share exactly overlap words and no content
// is skipped between chunks. Each window is re-joined with single spaces.
// Empty input yields nil. A non-positive chunkSize falls back to
// DefaultChunkSize and DefaultOverlap.
func SplitWords(text string, chunkSize, overlap int) []string {
	if chunkSize < 1 {
		chunkSize = DefaultChunkSize
		overlap = DefaultOverlap
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	step := chunkSize - overlap
	if step < 1 {
		step = 1
	}

	var chunks []string
	for start := 0; start < len(words); start += step {
		end := start + chunkSize
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, strings.Join(words[start:end], " "))
		if end >= len(words) {
			break
		}
	}
	return chunks
}
