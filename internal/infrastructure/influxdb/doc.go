// Package influxdb keeps a time series of the TODO collection in InfluxDB v2.
//
// After every mutation the API writes two points:
//
//	todo_events,service=todomock,action=completed count=1i,task_id="3"
//	todo_stats,service=todomock completed=3i,completion_ratio=0.375,pending=5i,total=8i
//
// so a dashboard can chart how a firmware test session moved tasks around.
//
// # Usage
//
//	client, err := influxdb.Connect(cfg.InfluxDB)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	client.WriteTaskStats(8, 3, 5, 0.375)
//
// Writes are non-blocking and batched (batch_size, flush_interval). Batch
// failures arrive through the SetOnError callback.
package influxdb
