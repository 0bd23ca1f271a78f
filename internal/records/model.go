package records

import (
	"time"

	"MiniFlush/internal/game/deck"
	"MiniFlush/internal/game/hand"
	"MiniFlush/internal/game/table"
)

// WinRecord 一轮有赢家的牌局记录，reveal 时落库
type WinRecord struct {
	ID                string                 `json:"id"`
	Winners           []string               `json:"winners"`
	DealerHand        []deck.Card            `json:"dealer_hand"`
	DealerCombination hand.Category          `json:"dealer_combination"`
	DealerQualifies   bool                   `json:"dealer_qualifies"`
	Seats             map[string]*table.Seat `json:"players"` // 仅在座座位的快照
	TableNumber       int                    `json:"table_number"`
	Timestamp         time.Time              `json:"timestamp"`
}
