package spectate

import "expvar"

var (
	metricSSEConnectionsTotal  = expvar.NewInt("spectator_sse_connections_total")
	metricSSEConnectionsActive = expvar.NewInt("spectator_sse_connections_active")
)
