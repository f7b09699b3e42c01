// Package metrics exposes Prometheus collectors for the sync pipeline.
package metrics

const namespace = "lightsync"

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
