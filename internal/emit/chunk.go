package emit

import "github.com/sells-group/psgc-cli/internal/psgc"

// Chunk splits provinces into consecutive groups of at most size provinces.
// A province is never split. size <= 0 yields a single chunk.
func Chunk(provinces []psgc.Province, size int) [][]psgc.Province {
	if len(provinces) == 0 {
		return nil
	}
	if size <= 0 || size >= len(provinces) {
		return [][]psgc.Province{provinces}
	}

	chunks := make([][]psgc.Province, 0, (len(provinces)+size-1)/size)
	for start := 0; start < len(provinces); start += size {
		end := min(start+size, len(provinces))
		chunks = append(chunks, provinces[start:end:end])
	}
	return chunks
}
