package catalog

import (
	"errors"
	"fmt"
	"strings"
)

// 一组词：平民词与卧底词必须相近但不相同
type WordPair struct {
	Civilian   string `json:"civilian"`
	Undercover string `json:"undercover"`
}

var ErrEmptyCatalog = errors.New("词库为空")

// Catalog 是只读的有序词库，创建后不再变化
type Catalog struct {
	pairs []WordPair
}

func New(pairs []WordPair) (*Catalog, error) {
	if len(pairs) == 0 {
		return nil, ErrEmptyCatalog
	}

	copied := make([]WordPair, 0, len(pairs))

	for i, p := range pairs {
		if err := validatePair(p); err != nil {
			return nil, fmt.Errorf("第 %d 组词无效: %w", i, err)
		}

		copied = append(copied, p)
	}

	return &Catalog{pairs: copied}, nil
}

func validatePair(p WordPair) error {
	civilian := strings.TrimSpace(p.Civilian)
	undercover := strings.TrimSpace(p.Undercover)

	if civilian == "" || undercover == "" {
		return errors.New("平民词和卧底词不能为空")
	}

	if strings.EqualFold(civilian, undercover) {
		return errors.New("平民词和卧底词不能相同")
	}

	return nil
}

func (c *Catalog) Len() int {
	return len(c.pairs)
}

func (c *Catalog) At(i int) WordPair {
	return c.pairs[i]
}
