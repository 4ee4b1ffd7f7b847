package redisx

import "time"

const (
	// Cache order status: order_status:{order_id} -> {"status": "..."}
	KeyOrderStatus = "order_status:%d"

	// Public/admin menu listing cache: menu:all:{scope}
	KeyMenuAll = "menu:all:%s"

	// Dedup event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"
)

var (
	TTLStatusCache = 5 * time.Minute
	TTLMenuCache   = time.Minute
	TTLDedup       = 48 * time.Hour
)
