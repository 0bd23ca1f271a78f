package hand

import (
	"sort"

	"MiniFlush/internal/game/deck"
)

// Category Mini Flush (Teen Patti) 牌型
type Category string

const (
	Trail        Category = "trail"         // Three of a Kind
	PureSequence Category = "pure_sequence" // Straight Flush
	Sequence     Category = "sequence"      // Straight
	Color        Category = "color"         // Flush
	Pair         Category = "pair"
	HighCard     Category = "high_card"
)

// Rankings 牌型强度，比较的第一关键字
var Rankings = map[Category]int{
	Trail:        7,
	PureSequence: 6,
	Sequence:     5,
	Color:        4,
	Pair:         3,
	HighCard:     2,
}

// Band 低牌副注档位，按三张中最大点数划分
type Band string

const (
	Band5Top  Band = "5-top"
	Band6Top  Band = "6-top"
	Band7Top  Band = "7-top"
	Band8Top  Band = "8-top"
	Band9Top  Band = "9-top"
	Band10Top Band = "10-top"
)

// EvaluateHigh 评估三张牌的牌型与同型比较值。
// 比较时先比 Rankings[category]，再比 tiebreak；两者都相等即真平局。
func EvaluateHigh(cards []deck.Card) (Category, int) {
	if len(cards) != 3 {
		return HighCard, 0
	}

	values := []int{cards[0].Rank, cards[1].Rank, cards[2].Rank}
	sort.Sort(sort.Reverse(sort.IntSlice(values)))

	// trail
	if values[0] == values[1] && values[1] == values[2] {
		return Trail, values[0]
	}

	isSequence := values[0]-values[1] == 1 && values[1]-values[2] == 1
	sequenceHigh := 0
	if isSequence {
		sequenceHigh = values[0]
	}
	// A-2-3 特例：最小顺子，按 3 高处理
	if values[0] == 14 && values[1] == 3 && values[2] == 2 {
		isSequence = true
		sequenceHigh = 3
	}

	isFlush := cards[0].Suit == cards[1].Suit && cards[1].Suit == cards[2].Suit

	if isSequence && isFlush {
		return PureSequence, sequenceHigh
	}
	if isSequence {
		return Sequence, sequenceHigh
	}
	// color 内部比较用位权编码，最大牌主导
	if isFlush {
		return Color, values[0]*10000 + values[1]*100 + values[2]
	}
	// pair：对子值在前，kicker 在后
	if values[0] == values[1] {
		return Pair, values[0]*100 + values[2]
	}
	if values[1] == values[2] {
		return Pair, values[1]*100 + values[0]
	}

	return HighCard, values[0]*10000 + values[1]*100 + values[2]
}

// EvaluateLow 低牌副注：仅 high_card 牌型可入档。
// Ace 恒为 14，含 A 的手牌永远不入档。
func EvaluateLow(cards []deck.Card) (Band, bool) {
	cat, _ := EvaluateHigh(cards)
	if cat != HighCard {
		return "", false
	}
	top := 0
	for _, c := range cards {
		if c.Rank > top {
			top = c.Rank
		}
	}
	switch {
	case top <= 5:
		return Band5Top, true
	case top == 6:
		return Band6Top, true
	case top == 7:
		return Band7Top, true
	case top == 8:
		return Band8Top, true
	case top == 9:
		return Band9Top, true
	case top == 10:
		return Band10Top, true
	}
	return "", false
}

// DealerQualifies 庄家成手门槛：对子以上，或 Q 高
func DealerQualifies(cards []deck.Card) bool {
	cat, tiebreak := EvaluateHigh(cards)
	if cat != HighCard {
		return true
	}
	return tiebreak/10000 >= 12
}

// Compare 比较两手牌：1 玩家胜，-1 庄家胜，0 平
func Compare(player, dealer []deck.Card) int {
	pCat, pVal := EvaluateHigh(player)
	dCat, dVal := EvaluateHigh(dealer)

	if Rankings[pCat] != Rankings[dCat] {
		if Rankings[pCat] > Rankings[dCat] {
			return 1
		}
		return -1
	}
	if pVal > dVal {
		return 1
	}
	if pVal < dVal {
		return -1
	}
	return 0
}
