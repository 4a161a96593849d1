/*
Package streaming delivers server-sent events to HTTP clients.

# Overview

A Broker fans events out to any number of subscribers. Each subscriber has a
small buffer; when a client falls behind, new events for it are dropped
rather than blocking the publisher. The indexer publishes from its
notification path, so a slow browser tab must never stall a load cycle.

Serve writes the stream for one client. Every write is bounded by a write
timeout, and a comment line is sent on an interval so that proxies keep the
connection open. The stream ends when the client disconnects, a write times
out, or the broker is closed.

# Basic Usage

	broker := streaming.NewBroker(streaming.DefaultConfig())
	defer broker.Close()

	router.HandleFunc("/api/events", broker.ServeHTTP)

	broker.Publish("locations", view)

# Wire Format

Each event is framed as

	event: <name>
	data: <json>

followed by a blank line.
*/
package streaming
