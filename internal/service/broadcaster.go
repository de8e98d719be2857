package service

import (
	"time"

	"shespeaks/internal/table"
)

// MsgTableRefreshed is pushed to dashboards after every successful reload
const MsgTableRefreshed = "table_refreshed"

// Broadcaster interface for WebSocket broadcasting (avoids import cycle)
type Broadcaster interface {
	Broadcast(msgType string, payload interface{})
}

// TableRefreshed is the payload of MsgTableRefreshed
type TableRefreshed struct {
	Rows    int       `json:"rows"`
	BuiltAt time.Time `json:"builtAt"`
}

// NotifyRefresh returns a TableCache hook announcing reloads through b
func NotifyRefresh(b Broadcaster) func(*table.ResponseTable) {
	return func(t *table.ResponseTable) {
		b.Broadcast(MsgTableRefreshed, TableRefreshed{Rows: t.Len(), BuiltAt: t.BuiltAt()})
	}
}
