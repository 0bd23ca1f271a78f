package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"MiniFlush/internal/game/deck"
	"MiniFlush/internal/game/hand"
	"MiniFlush/internal/game/payout"
	"MiniFlush/internal/game/table"
	"MiniFlush/internal/records"
	"MiniFlush/internal/utils"
	"MiniFlush/internal/websocket"

	"github.com/google/uuid"
)

// ErrDuplicateCard 完整性冲突：手工插入的牌已经在桌面上
var ErrDuplicateCard = errors.New("duplicate card")

// ErrNoHistory 撤销栈为空
var ErrNoHistory = errors.New("nothing to undo")

const persistTimeout = 5 * time.Second

// Engine 回合状态机。持有唯一的桌面状态，
// 所有变更动作经 actionChan 串行执行（单写者，先到先处理）。
type Engine struct {
	state   *table.State
	history *table.History
	hub     websocket.HubInterface
	repo    records.Repo

	actionChan chan websocket.IncomingMessage
	seedFn     func() int64
}

func NewEngine(st *table.State, hub websocket.HubInterface, repo records.Repo) *Engine {
	return &Engine{
		state:      st,
		history:    &table.History{},
		hub:        hub,
		repo:       repo,
		actionChan: make(chan websocket.IncomingMessage, 32), // 防止死锁
		seedFn:     func() int64 { return time.Now().UnixNano() },
	}
}

// Start 启动动作处理循环
func (e *Engine) Start() {
	go e.actionLoop()
}

// Enqueue 会话动作入口（Hub.OnIncoming 调用）
func (e *Engine) Enqueue(msg websocket.IncomingMessage) {
	e.actionChan <- msg
}

// SyncClient 新会话接入时补发全量状态（Hub.OnConnect 调用）。
// 走动作队列，保证读取到的状态不和写操作交错。
func (e *Engine) SyncClient(clientID string) {
	e.actionChan <- websocket.IncomingMessage{From: clientID, Action: "sync_state"}
}

// 动作循环：严格按到达顺序逐个执行
func (e *Engine) actionLoop() {
	for msg := range e.actionChan {
		e.handleAction(msg)
	}
}

func (e *Engine) handleAction(msg websocket.IncomingMessage) {
	var err error

	switch msg.Action {
	case "sync_state":
		e.hub.SendToClient(msg.From, websocket.OutgoingMessage{
			Action:    "update_game",
			GameState: e.view(),
		})
		return

	case "shuffle_deck", "start_manual":
		err = e.ShuffleDeck()

	case "deal_cards":
		err = e.DealCards()

	case "start_automatic":
		// 完整自动流程：洗牌 + 发牌（reveal 仍由荷官触发）
		if err = e.ShuffleDeck(); err == nil {
			err = e.DealCards()
		}

	case "add_player":
		err = e.AddSeat(msg.Player)

	case "remove_player":
		err = e.RemoveSeat(msg.Player)

	case "reset_table":
		err = e.ResetTable()

	case "undo_last":
		err = e.Undo()

	case "reveal_hands":
		err = e.Reveal()

	case "add_card":
		target := msg.Target
		if target == "" {
			target = "dealer"
		}
		err = e.ManualAddCard(msg.Card, target)
		if errors.Is(err, ErrDuplicateCard) {
			// 完整性冲突单独上报，不作为普通错误
			e.hub.BroadcastAll(websocket.OutgoingMessage{
				Action: "duplicate_card",
				Card:   msg.Card,
			})
			utils.Error.Printf("duplicate card detected: %s", msg.Card)
			return
		}

	case "player_played":
		err = e.PlayerAct(msg.Player, payout.ActionPlay)

	case "player_surrendered":
		err = e.PlayerAct(msg.Player, payout.ActionSurrender)

	case "bet_changed":
		err = e.SetBetRange(msg.MinBet, msg.MaxBet)

	case "table_number_set":
		err = e.SetTableNumber(msg.TableNumber)

	case "delete_win":
		err = e.DeleteLatestWin()

	case "delete_all_wins":
		err = e.DeleteAllWins()

	case "clear_records":
		err = e.ClearRecords()

	default:
		err = fmt.Errorf("unknown action %q", msg.Action)
	}

	if err != nil {
		// 校验错误只回给发起方，状态未被改动
		e.hub.SendToClient(msg.From, websocket.OutgoingMessage{
			Action:  "error",
			Message: err.Error(),
		})
	}
}

// snapshot 在每个变更动作落地之前压栈
func (e *Engine) snapshot() {
	e.history.Push(e.state.Clone())
}

// view 基于深拷贝构造广播视图，后续状态变更不会影响已入队的消息
func (e *Engine) view() *StateView {
	snap := e.state.Clone()
	v := &StateView{
		DealerHand:        snap.DealerHand,
		Players:           snap.Seats,
		GamePhase:         snap.Phase,
		Winners:           snap.Winners,
		MinBet:            snap.MinBet,
		MaxBet:            snap.MaxBet,
		TableNumber:       snap.TableNumber,
		DealerCombination: snap.DealerCombination,
		DealerQualifies:   snap.DealerQualifies,
	}
	if snap.Deck != nil {
		v.DeckSize = snap.Deck.Size()
	}
	return v
}

// StateView 广播用的桌面视图
type StateView struct {
	DealerHand        []deck.Card            `json:"dealer_hand"`
	Players           map[string]*table.Seat `json:"players"`
	GamePhase         table.Phase            `json:"game_phase"`
	Winners           []string               `json:"winners"`
	MinBet            int                    `json:"min_bet"`
	MaxBet            int                    `json:"max_bet"`
	TableNumber       int                    `json:"table_number"`
	DeckSize          int                    `json:"deck_size"`
	DealerCombination hand.Category          `json:"dealer_combination,omitempty"`
	DealerQualifies   bool                   `json:"dealer_qualifies"`
}

// ShuffleDeck 任意阶段可洗牌：换一副新的 52 张并清空弃牌堆
func (e *Engine) ShuffleDeck() error {
	e.snapshot()
	e.state.Deck = deck.NewShuffled(e.seedFn())
	e.state.BurnedCards = nil

	e.hub.BroadcastAll(websocket.OutgoingMessage{
		Action:   "deck_shuffled",
		DeckSize: e.state.Deck.Size(),
	})
	return nil
}

// DealCards 新一轮发牌：庄家 3 张，然后按座位顺序给每个在座座位 3 张。
// 要求整副未动过的牌（>= 52），保证每轮都从完整牌堆开始。
func (e *Engine) DealCards() error {
	if e.state.Deck == nil || e.state.Deck.Size() < 52 {
		return errors.New("not enough cards in deck")
	}

	e.snapshot()

	e.state.DealerHand = nil
	e.state.DealerCombination = ""
	e.state.DealerQualifies = false
	e.state.Winners = []string{}
	for _, s := range e.state.Seats {
		s.ClearRound()
	}

	for i := 0; i < 3; i++ {
		c, _ := e.state.Deck.Draw()
		e.state.DealerHand = append(e.state.DealerHand, c)
	}
	for _, id := range table.SeatIDs {
		seat := e.state.Seats[id]
		if !seat.Active {
			continue
		}
		for i := 0; i < 3; i++ {
			c, _ := e.state.Deck.Draw()
			seat.Hand = append(seat.Hand, c)
		}
	}

	e.state.Phase = table.Dealing

	e.hub.BroadcastAll(websocket.OutgoingMessage{
		Action:    "cards_dealt",
		GameState: e.view(),
	})
	return nil
}

// AddSeat 入座；id 为空时选最小空位
func (e *Engine) AddSeat(id string) error {
	if id == "" {
		for _, known := range table.SeatIDs {
			if !e.state.Seats[known].Active {
				id = known
				break
			}
		}
		if id == "" {
			return fmt.Errorf("table is full (%d seats active)", table.MaxActiveSeats)
		}
	}
	if !table.ValidSeat(id) {
		return fmt.Errorf("invalid seat %q", id)
	}
	if e.state.Seats[id].Active {
		return fmt.Errorf("%s is already active", id)
	}
	if e.state.ActiveCount() >= table.MaxActiveSeats {
		return fmt.Errorf("table is full (%d seats active)", table.MaxActiveSeats)
	}

	e.snapshot()
	e.state.Seats[id].Active = true

	e.hub.BroadcastAll(websocket.OutgoingMessage{
		Action:    "player_added",
		Player:    id,
		GameState: e.view(),
	})
	return nil
}

// RemoveSeat 离座并清空该座位
func (e *Engine) RemoveSeat(id string) error {
	if !table.ValidSeat(id) {
		return fmt.Errorf("invalid seat %q", id)
	}
	if !e.state.Seats[id].Active {
		return fmt.Errorf("%s is not active", id)
	}

	e.snapshot()
	seat := e.state.Seats[id]
	seat.Active = false
	seat.ClearRound()

	e.hub.BroadcastAll(websocket.OutgoingMessage{
		Action:    "player_removed",
		Player:    id,
		GameState: e.view(),
	})
	return nil
}

// ManualAddCard 手工补牌（实牌桌纠错用）。
// 桌面上已出现的牌一律拒绝，返回 ErrDuplicateCard 且不改状态。
func (e *Engine) ManualAddCard(code, target string) error {
	card, err := deck.Parse(code)
	if err != nil {
		return err
	}
	if e.state.CardsInPlay()[card.Code()] {
		return fmt.Errorf("%w: %s", ErrDuplicateCard, card.Code())
	}

	if target == "dealer" {
		if len(e.state.DealerHand) >= 3 {
			return errors.New("dealer already has 3 cards")
		}
		e.snapshot()
		e.state.DealerHand = append(e.state.DealerHand, card)
	} else {
		if !table.ValidSeat(target) {
			return fmt.Errorf("invalid target %q", target)
		}
		seat := e.state.Seats[target]
		if !seat.Active {
			return fmt.Errorf("%s is not active", target)
		}
		if len(seat.Hand) >= 3 {
			return fmt.Errorf("%s already has 3 cards", target)
		}
		e.snapshot()
		seat.Hand = append(seat.Hand, card)
	}

	e.hub.BroadcastAll(websocket.OutgoingMessage{
		Action:    "card_added",
		Card:      card.Code(),
		Target:    target,
		GameState: e.view(),
	})
	return nil
}

// PlayerAct 记录玩家对主注的决定，结算推迟到 reveal
func (e *Engine) PlayerAct(id string, action payout.ActionType) error {
	if !table.ValidSeat(id) {
		return fmt.Errorf("invalid seat %q", id)
	}
	seat := e.state.Seats[id]
	if !seat.Active {
		return fmt.Errorf("%s is not active", id)
	}

	e.snapshot()
	seat.HasActed = true
	seat.ActionType = action

	e.hub.BroadcastAll(websocket.OutgoingMessage{
		Action:    "player_acted",
		Player:    id,
		GameState: e.view(),
	})
	return nil
}

// Reveal 开牌结算。只允许从 dealing 阶段进入，重复开牌按校验错误拒绝。
// 庄家只评估一次；每个发满 3 张的在座座位独立结算三种注。
func (e *Engine) Reveal() error {
	if e.state.Phase != table.Dealing {
		return fmt.Errorf("cannot reveal in phase %q", e.state.Phase)
	}
	if len(e.state.DealerHand) != 3 {
		return errors.New("dealer hand is incomplete")
	}

	e.snapshot()

	dealerCat, _ := hand.EvaluateHigh(e.state.DealerHand)
	e.state.DealerCombination = dealerCat
	e.state.DealerQualifies = hand.DealerQualifies(e.state.DealerHand)
	e.state.Winners = []string{}

	for _, id := range table.SeatIDs {
		seat := e.state.Seats[id]
		if !seat.Active || len(seat.Hand) != 3 {
			continue
		}

		// 三种注各自独立结算
		mainRes := payout.ResolveMain(seat.Hand, e.state.DealerHand, seat.ActionType)
		seat.MainResult = mainRes

		highCat, highMult := payout.ResolveHigh(seat.Hand)
		seat.HighCombination = highCat
		seat.HighPayout = highMult
		if highMult > 0 {
			seat.HighResult = payout.BetWin
		} else {
			seat.HighResult = payout.BetLose
		}

		if band, lowMult, ok := payout.ResolveLow(seat.Hand); ok {
			seat.LowCombination = band
			seat.LowPayout = lowMult
			if lowMult > 0 {
				seat.LowResult = payout.BetWin
			} else {
				seat.LowResult = payout.BetPush // 10-top
			}
		} else {
			seat.LowResult = payout.BetLose
		}

		// 总览展示只由主注推导，低注 push 不覆盖主注结果
		switch mainRes {
		case payout.Surrender:
			seat.Result = "surrender"
		case payout.DealerNoQualify, payout.Tie:
			seat.Result = "push"
		case payout.PlayerWins:
			seat.Result = "win"
			e.state.Winners = append(e.state.Winners, id)
		default:
			seat.Result = "lose"
		}
	}

	e.state.Phase = table.Revealed

	if len(e.state.Winners) > 0 {
		e.persistWinRecord()
	}

	e.hub.BroadcastAll(websocket.OutgoingMessage{
		Action:    "hands_revealed",
		Winners:   e.state.Winners,
		GameState: e.view(),
	})
	return nil
}

// persistWinRecord 落库是 best-effort：失败只记日志并广播错误，
// 不回滚已经提交的开牌结果
func (e *Engine) persistWinRecord() {
	snap := e.state.Clone()
	rec := &records.WinRecord{
		ID:                uuid.NewString(),
		Winners:           snap.Winners,
		DealerHand:        snap.DealerHand,
		DealerCombination: snap.DealerCombination,
		DealerQualifies:   snap.DealerQualifies,
		Seats:             make(map[string]*table.Seat),
		TableNumber:       snap.TableNumber,
		Timestamp:         time.Now().UTC(),
	}
	for id, seat := range snap.Seats {
		if seat.Active {
			rec.Seats[id] = seat
		}
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()
		if err := e.repo.Insert(ctx, rec); err != nil {
			utils.Error.Printf("record win failed: %v", err)
			e.hub.BroadcastAll(websocket.OutgoingMessage{
				Action:  "error",
				Message: "failed to record win",
			})
			return
		}
		utils.Info.Printf("recorded win: winners=%v table=%d", rec.Winners, rec.TableNumber)
	}()
}

// ResetTable 从任意阶段回到 waiting
func (e *Engine) ResetTable() error {
	e.snapshot()

	e.state.DealerHand = nil
	e.state.DealerCombination = ""
	e.state.DealerQualifies = false
	e.state.Winners = []string{}
	e.state.Phase = table.Waiting
	for _, s := range e.state.Seats {
		s.ClearRound()
	}

	e.hub.BroadcastAll(websocket.OutgoingMessage{
		Action:    "table_reset",
		GameState: e.view(),
	})
	return nil
}

// Undo 弹出最近一次快照并整体替换桌面状态
func (e *Engine) Undo() error {
	snap, ok := e.history.Pop()
	if !ok {
		return ErrNoHistory
	}
	e.state = snap

	e.hub.BroadcastAll(websocket.OutgoingMessage{
		Action:    "undo_completed",
		GameState: e.view(),
	})
	return nil
}

// SetBetRange 修改注额范围；同样压快照，保持撤销对称
func (e *Engine) SetBetRange(minBet, maxBet int) error {
	if minBet <= 0 || maxBet < minBet {
		return fmt.Errorf("invalid bet range %d-%d", minBet, maxBet)
	}

	e.snapshot()
	e.state.MinBet = minBet
	e.state.MaxBet = maxBet

	e.hub.BroadcastAll(websocket.OutgoingMessage{
		Action: "bet_changed",
		MinBet: minBet,
		MaxBet: maxBet,
	})
	return nil
}

func (e *Engine) SetTableNumber(n int) error {
	if n <= 0 {
		return fmt.Errorf("invalid table number %d", n)
	}

	e.snapshot()
	e.state.TableNumber = n

	e.hub.BroadcastAll(websocket.OutgoingMessage{
		Action:      "table_number_set",
		TableNumber: n,
	})
	return nil
}

// DeleteLatestWin 删除最近一条赢局记录
func (e *Engine) DeleteLatestWin() error {
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	deleted, err := e.repo.DeleteLatest(ctx)
	if err != nil {
		utils.Error.Printf("delete latest win failed: %v", err)
		return errors.New("failed to delete win record")
	}
	if !deleted {
		return errors.New("no win records found")
	}

	e.hub.BroadcastAll(websocket.OutgoingMessage{Action: "delete_win"})
	return nil
}

// DeleteAllWins 删除全部赢局记录并广播删除条数
func (e *Engine) DeleteAllWins() error {
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	n, err := e.repo.DeleteAll(ctx)
	if err != nil {
		utils.Error.Printf("delete all wins failed: %v", err)
		return errors.New("failed to delete win records")
	}
	if n == 0 {
		return errors.New("no win records found")
	}

	e.hub.BroadcastAll(websocket.OutgoingMessage{
		Action:  "delete_all_wins",
		Deleted: int(n),
	})
	return nil
}

// ClearRecords 清空全部记录
func (e *Engine) ClearRecords() error {
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	if err := e.repo.Clear(ctx); err != nil {
		utils.Error.Printf("clear records failed: %v", err)
		return errors.New("failed to clear game records")
	}

	e.hub.BroadcastAll(websocket.OutgoingMessage{
		Action:  "records_cleared",
		Message: "all game records have been cleared",
	})
	return nil
}

// State 只读访问当前状态（测试用；其余访问都应走动作队列）
func (e *Engine) State() *table.State {
	return e.state
}

// HistoryLen 测试用
func (e *Engine) HistoryLen() int {
	return e.history.Len()
}
