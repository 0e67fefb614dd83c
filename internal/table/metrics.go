package table

import "expvar"

var (
	metricCommandsAccepted = expvar.NewInt("table_commands_accepted_total")
	metricCommandsRejected = expvar.NewInt("table_commands_rejected_total")

	metricMatchesStarted  = expvar.NewInt("matches_started_total")
	metricMatchesFinished = expvar.NewInt("matches_finished_total")

	metricDeliveryPanics = expvar.NewInt("delivery_panics_total")
	metricRecorderErrors = expvar.NewInt("recorder_errors_total")

	metricTablesActive = expvar.NewInt("tables_active")
)
