// Package realtime pushes order status changes to connected customers.
//
// A Broadcaster keeps, per user, the set of live Connections and writes
// named events to them. It is an ordinary value built by the composition root
// and injected wherever events originate; nothing in this package is global.
//
// SSEConnection is the only Connection implementation. It frames events as
// Server-Sent Events:
//
//	event: order_status_update
//	data: {"order_id":"…","order_code":"ORD-7KQ2ZD","order_status":"Preparing"}
//
// and keeps idle proxies from closing the stream with comment heartbeats:
//
//	: heartbeat
//
// Delivery is best effort and never waits for a client. Frames are queued per
// connection and written by that connection's own goroutine under a write
// deadline. A connection whose queue overflows or whose write fails is closed
// and forgotten; the customer's client reconnects and re-reads its orders.
package realtime
