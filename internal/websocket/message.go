package websocket

// IncomingMessage 入站信封：固定 schema，覆盖所有动作会用到的字段
type IncomingMessage struct {
	From string `json:"-"` // client id，由读协程注入

	Action      string `json:"action"`
	Player      string `json:"player,omitempty"`
	Card        string `json:"card,omitempty"`
	Target      string `json:"target,omitempty"`
	MinBet      int    `json:"minBet,omitempty"`
	MaxBet      int    `json:"maxBet,omitempty"`
	TableNumber int    `json:"tableNumber,omitempty"`
}

// OutgoingMessage 出站信封，action 与触发操作一一对应
type OutgoingMessage struct {
	Action      string   `json:"action"`
	Message     string   `json:"message,omitempty"`
	Card        string   `json:"card,omitempty"`
	Target      string   `json:"target,omitempty"`
	Player      string   `json:"player,omitempty"`
	DeckSize    int      `json:"deck_size,omitempty"`
	BurnedCards int      `json:"burned_cards,omitempty"`
	Deleted     int      `json:"deleted,omitempty"`
	MinBet      int      `json:"min_bet,omitempty"`
	MaxBet      int      `json:"max_bet,omitempty"`
	TableNumber int      `json:"tableNumber,omitempty"`
	Winners     []string `json:"winners,omitempty"`
	GameState   any      `json:"game_state,omitempty"`
}
