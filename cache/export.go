package cache

import (
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"
)

// ScoreRow is one exported cache entry.
type ScoreRow struct {
	FEN        string `parquet:"name=fen, type=BYTE_ARRAY, convertedtype=UTF8"`
	SideToMove string `parquet:"name=side_to_move, type=BYTE_ARRAY, convertedtype=UTF8"`
	Score      int32  `parquet:"name=score, type=INT32"`
}

func rowFor(key string, score int) ScoreRow {
	row := ScoreRow{FEN: key, Score: int32(score)}
	if fields := strings.Fields(key); len(fields) > 1 {
		row.SideToMove = fields[1]
	}
	return row
}

// ExportParquet writes every entry of store to a snappy-compressed parquet
// file at path and returns the number of rows written.
func ExportParquet(store Store, path string, parallel int64) (int, error) {
	fileWriter, err := local.NewLocalFileWriter(path)
	if err != nil {
		return 0, err
	}
	defer fileWriter.Close()

	parquetWriter, err := writer.NewParquetWriter(fileWriter, new(ScoreRow), parallel)
	if err != nil {
		return 0, err
	}
	parquetWriter.CompressionType = parquet.CompressionCodec_SNAPPY

	var n int
	var werr error
	err = store.Range(func(key string, score int) bool {
		if werr = parquetWriter.Write(rowFor(key, score)); werr != nil {
			return false
		}
		n++
		return true
	})
	if err != nil {
		return n, err
	}
	if werr != nil {
		return n, werr
	}
	if err := parquetWriter.WriteStop(); err != nil {
		return n, err
	}
	log.Info().Int("rows", n).Str("path", path).Msg("exported-scores")
	return n, fileWriter.Close()
}
