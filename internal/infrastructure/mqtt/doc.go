// Package mqtt mirrors task activity onto an MQTT broker.
//
// The mock backend is the only writer. Each successful mutation is published
// as the task JSON on {prefix}/tasks/{id}/{action}, followed by the retained
// collection statistics on {prefix}/stats. Bench dashboards and test rigs can
// watch what the device does without polling the HTTP API.
//
// A retained status message on {prefix}/system/status reports "online" after
// connecting and "offline" on shutdown; the same topic carries the Last Will
// so a crashed mock is reported too.
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	topic := client.Topics().TaskEvent(t.ID, "created")
//	err = client.PublishJSON(topic, t, false)
//
// Connecting is optional. When mqtt.enabled is false the API simply skips
// publishing.
package mqtt
