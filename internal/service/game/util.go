package game

import (
	"encoding/json"
	"math/rand/v2"

	"github.com/google/uuid"
)

// Rand 抽象了洗牌和抽词用到的随机源，测试时可以替换成确定性的实现
// *rand.Rand 直接满足该接口
type Rand interface {
	IntN(n int) int
	Shuffle(n int, swap func(i, j int))
}

func NewRand() Rand {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

func GenID() string {
	id, err := uuid.NewV7()
	if err != nil {
		panic("Failed to generate UUID: " + err.Error())
	}

	return id.String()
}

func mustMarshal(v any) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		panic("Failed to marshal: " + err.Error())
	}

	return data
}
