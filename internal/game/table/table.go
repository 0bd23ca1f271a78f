package table

import (
	"MiniFlush/internal/game/deck"
	"MiniFlush/internal/game/hand"
	"MiniFlush/internal/game/payout"
)

// Phase 牌局阶段
type Phase string

const (
	Waiting  Phase = "waiting"
	Dealing  Phase = "dealing"
	Revealed Phase = "revealed"
)

// SeatIDs 六个固定座位，发牌与补位都按此顺序
var SeatIDs = []string{"seat-1", "seat-2", "seat-3", "seat-4", "seat-5", "seat-6"}

// MaxActiveSeats 同时在座上限
const MaxActiveSeats = 6

// Seat 座位的完整 schema：一次性覆盖所有字段，
// 不在运行时按需增删 key
type Seat struct {
	Active     bool              `json:"active"`
	Hand       []deck.Card       `json:"hand"`
	HasActed   bool              `json:"has_acted"`
	ActionType payout.ActionType `json:"action_type"`

	// reveal 之后填充，新一轮发牌/重置时清空
	HighCombination hand.Category     `json:"high_combination,omitempty"`
	LowCombination  hand.Band         `json:"low_combination,omitempty"`
	MainResult      payout.MainResult `json:"main_result,omitempty"`
	HighResult      payout.BetResult  `json:"high_result,omitempty"`
	LowResult       payout.BetResult  `json:"low_result,omitempty"`
	HighPayout      int               `json:"high_payout"`
	LowPayout       int               `json:"low_payout"`
	Result          string            `json:"result,omitempty"` // 总览展示，仅由主注推导
}

// ClearRound 清掉一轮的牌与结果，保留 Active
func (s *Seat) ClearRound() {
	s.Hand = nil
	s.HasActed = false
	s.ActionType = payout.ActionNone
	s.ClearResults()
}

func (s *Seat) ClearResults() {
	s.HighCombination = ""
	s.LowCombination = ""
	s.MainResult = ""
	s.HighResult = ""
	s.LowResult = ""
	s.HighPayout = 0
	s.LowPayout = 0
	s.Result = ""
}

// State 单桌的全部可变状态，进程生命周期内单例
type State struct {
	DealerHand  []deck.Card      `json:"dealer_hand"`
	Deck        *deck.Deck       `json:"-"`
	BurnedCards []deck.Card      `json:"-"`
	Seats       map[string]*Seat `json:"players"`
	Phase       Phase            `json:"game_phase"`
	Winners     []string         `json:"winners"`
	MinBet      int              `json:"min_bet"`
	MaxBet      int              `json:"max_bet"`
	TableNumber int              `json:"table_number"`

	// 庄家评估缓存，仅 revealed 阶段有效
	DealerCombination hand.Category `json:"dealer_combination,omitempty"`
	DealerQualifies   bool          `json:"dealer_qualifies"`
}

// New 初始化空桌：六个座位全部 inactive
func New(minBet, maxBet, tableNumber int) *State {
	seats := make(map[string]*Seat, len(SeatIDs))
	for _, id := range SeatIDs {
		seats[id] = &Seat{ActionType: payout.ActionNone}
	}
	return &State{
		Seats:       seats,
		Phase:       Waiting,
		Winners:     []string{},
		MinBet:      minBet,
		MaxBet:      maxBet,
		TableNumber: tableNumber,
	}
}

// ValidSeat 校验座位 id
func ValidSeat(id string) bool {
	for _, known := range SeatIDs {
		if id == known {
			return true
		}
	}
	return false
}

// ActiveCount 当前在座人数
func (st *State) ActiveCount() int {
	n := 0
	for _, s := range st.Seats {
		if s.Active {
			n++
		}
	}
	return n
}

// CardsInPlay 桌面所有牌：庄家手牌 + 各座位手牌 + 弃牌堆。
// 手工插牌的重复检测以此为准。
func (st *State) CardsInPlay() map[string]bool {
	seen := make(map[string]bool)
	for _, c := range st.DealerHand {
		seen[c.Code()] = true
	}
	for _, c := range st.BurnedCards {
		seen[c.Code()] = true
	}
	for _, s := range st.Seats {
		for _, c := range s.Hand {
			seen[c.Code()] = true
		}
	}
	return seen
}

// Clone 全量深拷贝。快照与活动状态之间不共享任何底层存储。
func (st *State) Clone() *State {
	cp := *st
	cp.DealerHand = append([]deck.Card(nil), st.DealerHand...)
	cp.BurnedCards = append([]deck.Card(nil), st.BurnedCards...)
	cp.Winners = append([]string(nil), st.Winners...)
	cp.Deck = st.Deck.Clone()
	cp.Seats = make(map[string]*Seat, len(st.Seats))
	for id, s := range st.Seats {
		sc := *s
		sc.Hand = append([]deck.Card(nil), s.Hand...)
		cp.Seats[id] = &sc
	}
	return &cp
}

// maxHistory 撤销栈深度上限，超出时淘汰最旧快照
const maxHistory = 10

// History 有界撤销栈
type History struct {
	snaps []*State
}

func (h *History) Len() int {
	return len(h.snaps)
}

// Push 压入快照；调用方负责传入 Clone 出来的副本
func (h *History) Push(snap *State) {
	h.snaps = append(h.snaps, snap)
	if len(h.snaps) > maxHistory {
		h.snaps = h.snaps[1:]
	}
}

// Pop 弹出最近一次快照；栈空时 ok=false
func (h *History) Pop() (*State, bool) {
	if len(h.snaps) == 0 {
		return nil, false
	}
	snap := h.snaps[len(h.snaps)-1]
	h.snaps = h.snaps[:len(h.snaps)-1]
	return snap, true
}
