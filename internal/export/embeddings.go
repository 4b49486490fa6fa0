package export

import (
	"path/filepath"
	"strconv"
	"strings"

	"github.com/DrZ199/Nelsonbook/internal/embedding"
)

// WriteEmbeddings writes block embeddings to embeddings.csv in dir. Vectors
// are rendered in bracketed form ("[0.1,0.2,...]") so the column loads
// directly into a pgvector column.
func WriteEmbeddings(embs []embedding.BlockEmbedding, dir string) error {
	rows := make([][]string, 0, len(embs))
	for _, e := range embs {
		rows = append(rows, []string{
			strconv.FormatInt(e.BlockID, 10), vectorLiteral(e.Vector),
		})
	}
	header := []string{"block_id", "embedding"}
	return writeTable(filepath.Join(dir, "embeddings.csv"), header, rows)
}

func vectorLiteral(vec []float32) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, v := range vec {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatFloat(float64(v), 'g', -1, 32))
	}
	b.WriteByte(']')
	return b.String()
}
