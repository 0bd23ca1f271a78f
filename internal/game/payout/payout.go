package payout

import (
	"MiniFlush/internal/game/deck"
	"MiniFlush/internal/game/hand"
)

// MainResult 主注结算结果
type MainResult string

const (
	PlayerWins      MainResult = "player_wins"
	DealerWins      MainResult = "dealer_wins"
	Tie             MainResult = "tie"              // push
	DealerNoQualify MainResult = "dealer_no_qualify" // push
	Surrender       MainResult = "surrender"
)

// ActionType 玩家对主注的决定
type ActionType string

const (
	ActionNone      ActionType = "none"
	ActionPlay      ActionType = "play"
	ActionSurrender ActionType = "surrender"
)

// BetResult 单个注的展示结果
type BetResult string

const (
	BetWin  BetResult = "win"
	BetLose BetResult = "lose"
	BetPush BetResult = "push"
)

// highTable 高牌副注赔率，只看玩家自己的牌型；trail 赔率最高
var highTable = map[hand.Category]int{
	hand.Trail:        40,
	hand.PureSequence: 30,
	hand.Sequence:     6,
	hand.Color:        3,
	hand.Pair:         1,
	hand.HighCard:     0,
}

// lowTable 低牌副注赔率；最弱入档 10-top 赔 0（push）
var lowTable = map[hand.Band]int{
	hand.Band5Top:  10,
	hand.Band6Top:  5,
	hand.Band7Top:  4,
	hand.Band8Top:  3,
	hand.Band9Top:  2,
	hand.Band10Top: 0,
}

// ResolveMain 结算主注。三种注各自独立结算，互不影响。
// 弃牌直接弃掉主注；庄家不成手则主注 push。
func ResolveMain(player, dealer []deck.Card, action ActionType) MainResult {
	if action == ActionSurrender {
		return Surrender
	}
	if !hand.DealerQualifies(dealer) {
		return DealerNoQualify
	}
	switch hand.Compare(player, dealer) {
	case 1:
		return PlayerWins
	case -1:
		return DealerWins
	}
	return Tie
}

// ResolveHigh 结算高牌副注：返回牌型与赔率（high_card 赔 0）
func ResolveHigh(player []deck.Card) (hand.Category, int) {
	cat, _ := hand.EvaluateHigh(player)
	return cat, highTable[cat]
}

// ResolveLow 结算低牌副注：不入档即输；10-top 赔 0 视为 push
func ResolveLow(player []deck.Card) (hand.Band, int, bool) {
	band, ok := hand.EvaluateLow(player)
	if !ok {
		return "", 0, false
	}
	return band, lowTable[band], true
}
