package catalog

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
)

// LoadCSV 从 CSV 文件读取词库，每行格式为 civilian,undercover
// 无效的行会被跳过
func LoadCSV(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("打开词库文件失败: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.Comment = '#'

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("解析词库文件失败: %w", err)
	}

	pairs := make([]WordPair, 0, len(records))

	for line, record := range records {
		if len(record) < 2 {
			zap.L().Warn(
				"跳过无效的词库行",
				zap.String("path", path),
				zap.Int("line", line+1),
				zap.Strings("record", record),
			)
			continue
		}

		pair := WordPair{
			Civilian:   strings.TrimSpace(record[0]),
			Undercover: strings.TrimSpace(record[1]),
		}

		if err := validatePair(pair); err != nil {
			zap.L().Warn(
				"跳过无效的词组",
				zap.String("path", path),
				zap.Int("line", line+1),
				zap.Error(err),
			)
			continue
		}

		pairs = append(pairs, pair)
	}

	return New(pairs)
}
