package deck

import (
	"fmt"
	"math/rand"
)

// Card 不可变值对象 (rank 2-14, A=14 恒定高位)
type Card struct {
	Rank int
	Suit byte // 'S' 'D' 'C' 'H'
}

var Suits = []byte{'S', 'D', 'C', 'H'}

var rankLetters = map[int]byte{14: 'A', 13: 'K', 12: 'Q', 11: 'J', 10: 'T'}

var letterRanks = map[byte]int{'A': 14, 'K': 13, 'Q': 12, 'J': 11, 'T': 10}

// Code 返回两字符编码，如 "AS"、"TD"。
// 既是 wire 表示，也是重复牌检测的唯一键。
func (c Card) Code() string {
	r, ok := rankLetters[c.Rank]
	if !ok {
		r = byte('0' + c.Rank)
	}
	return string([]byte{r, c.Suit})
}

func (c Card) String() string {
	return c.Code()
}

func (c Card) MarshalJSON() ([]byte, error) {
	return []byte(`"` + c.Code() + `"`), nil
}

func (c *Card) UnmarshalJSON(b []byte) error {
	if len(b) < 2 || b[0] != '"' || b[len(b)-1] != '"' {
		return fmt.Errorf("invalid card json: %s", b)
	}
	card, err := Parse(string(b[1 : len(b)-1]))
	if err != nil {
		return err
	}
	*c = card
	return nil
}

// Parse 解析两字符编码
func Parse(code string) (Card, error) {
	if len(code) != 2 {
		return Card{}, fmt.Errorf("invalid card code %q", code)
	}
	rank, ok := letterRanks[code[0]]
	if !ok {
		if code[0] < '2' || code[0] > '9' {
			return Card{}, fmt.Errorf("invalid card rank %q", code)
		}
		rank = int(code[0] - '0')
	}
	suit := code[1]
	switch suit {
	case 'S', 'D', 'C', 'H':
	default:
		return Card{}, fmt.Errorf("invalid card suit %q", code)
	}
	return Card{Rank: rank, Suit: suit}, nil
}

// Deck 有序的 52 张唯一牌，从头部抽牌
type Deck struct {
	Cards []Card
}

// NewShuffled 初始化一副牌并洗牌
func NewShuffled(seed int64) *Deck {
	d := &Deck{Cards: make([]Card, 0, 52)}
	for _, s := range Suits {
		for r := 2; r <= 14; r++ {
			d.Cards = append(d.Cards, Card{Rank: r, Suit: s})
		}
	}
	rnd := rand.New(rand.NewSource(seed))
	rnd.Shuffle(len(d.Cards), func(i, j int) {
		d.Cards[i], d.Cards[j] = d.Cards[j], d.Cards[i]
	})
	return d
}

func (d *Deck) Size() int {
	return len(d.Cards)
}

// Draw 从头部抽一张；牌堆空时 ok=false（调用方负责保证牌数）
func (d *Deck) Draw() (Card, bool) {
	if len(d.Cards) == 0 {
		return Card{}, false
	}
	c := d.Cards[0]
	d.Cards = d.Cards[1:]
	return c, true
}

// Clone 深拷贝，快照时避免与活动状态共享底层数组
func (d *Deck) Clone() *Deck {
	if d == nil {
		return nil
	}
	cp := &Deck{Cards: make([]Card, len(d.Cards))}
	copy(cp.Cards, d.Cards)
	return cp
}
