package textutil

import (
	"fmt"
	"strings"
)

// Sentence terminators recognized when looking for a chunk boundary,
// ASCII and full-width variants.
const sentenceEnders = ".!?。！？"

// How far back from the naive window end we look for a sentence boundary.
const boundaryWindow = 100

// ChunkText splits text into overlapping segments of at most chunkSize
// runes, preferring to cut at a sentence boundary within the last 100
// runes of each window. Consecutive chunks overlap by overlap runes.
// overlap >= chunkSize cannot make progress and is rejected.
func ChunkText(text string, chunkSize, overlap int) ([]string, error) {
	if chunkSize < 1 {
		return nil, fmt.Errorf("chunk size must be >= 1, got %d", chunkSize)
	}
	if overlap < 0 || overlap >= chunkSize {
		return nil, fmt.Errorf("overlap must be in [0, chunk size), got overlap=%d chunk_size=%d", overlap, chunkSize)
	}

	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	runes := []rune(text)
	n := len(runes)
	if n <= chunkSize {
		return []string{text}, nil
	}

	var chunks []string
	start := 0
	for start < n {
		end := start + chunkSize
		if end > n {
			end = n
		}
		if end < n {
			lower := end - boundaryWindow
			if lower < 0 {
				lower = 0
			}
			sentenceEnd := -1
			for i := lower; i < end; i++ {
				if strings.ContainsRune(sentenceEnders, runes[i]) {
					sentenceEnd = i + 1
					break
				}
			}
			if sentenceEnd > start {
				end = sentenceEnd
			}
		}
		if chunk := strings.TrimSpace(string(runes[start:end])); chunk != "" {
			chunks = append(chunks, chunk)
		}
		if end < n {
			next := end - overlap
			// A boundary cut close to start must not move the window backwards.
			if next <= start {
				next = end
			}
			start = next
		} else {
			start = end
		}
	}
	return chunks, nil
}
